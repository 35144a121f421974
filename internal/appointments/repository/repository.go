package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salon_booking_backend/internal/domain"
	appsync "salon_booking_backend/internal/sync"
	"salon_booking_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const appointmentNotFoundMsg = "appointment not found"

// exclusionViolation is raised by the overlap exclusion constraint on the
// appointments table. It is the database-level backstop for concurrent
// bookings of the same professional.
const exclusionViolation = "23P01"

// Repository provides database operations for appointments.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new appointments repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const appointmentColumns = `id, salon_id, professional_id, customer_id, service_id,
	start_time, end_time, status, notes, version, created_at, updated_at`

func scanAppointment(row pgx.Row) (*domain.Appointment, error) {
	var appt domain.Appointment
	var status string
	err := row.Scan(
		&appt.ID, &appt.SalonID, &appt.ProfessionalID, &appt.CustomerID, &appt.ServiceID,
		&appt.StartTime, &appt.EndTime, &status, &appt.Notes, &appt.Version,
		&appt.CreatedAt, &appt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	appt.Status = domain.AppointmentStatus(status)
	return &appt, nil
}

// Create inserts a new appointment. An overlap with an existing active
// appointment for the same professional maps to ErrAppointmentConflict.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, salon_id, professional_id, customer_id, service_id,
			start_time, end_time, status, notes, version, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)`

	_, err := r.pool.Exec(ctx, query,
		appt.ID, appt.SalonID, appt.ProfessionalID, appt.CustomerID, appt.ServiceID,
		appt.StartTime, appt.EndTime, string(appt.Status), appt.Notes, appt.Version,
		appt.CreatedAt, appt.UpdatedAt,
	)
	if err != nil {
		if isExclusionViolation(err) {
			return domain.ErrAppointmentConflict
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	return nil
}

// GetByID retrieves an appointment by its ID, scoped to the salon, with its
// external event ids attached.
func (r *Repository) GetByID(ctx context.Context, id, salonID uuid.UUID) (*domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1 AND salon_id = $2`

	appt, err := scanAppointment(r.pool.QueryRow(ctx, query, id, salonID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(appointmentNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	ids, err := r.externalEventIDs(ctx, appt.ID)
	if err != nil {
		return nil, err
	}
	appt.ExternalEventIDs = ids

	return appt, nil
}

// Update persists the appointment under optimistic locking. The row only
// changes when the stored version still matches the one the entity was
// loaded with; a stale version maps to ErrAppointmentConflict.
func (r *Repository) Update(ctx context.Context, appt *domain.Appointment) error {
	query := `
		UPDATE appointments SET
			start_time = $3,
			end_time = $4,
			status = $5,
			notes = $6,
			version = version + 1,
			updated_at = $7
		WHERE id = $1 AND salon_id = $2 AND version = $8`

	result, err := r.pool.Exec(ctx, query,
		appt.ID, appt.SalonID, appt.StartTime, appt.EndTime, string(appt.Status),
		appt.Notes, appt.UpdatedAt, appt.Version,
	)
	if err != nil {
		if isExclusionViolation(err) {
			return domain.ErrAppointmentConflict
		}
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Missing row and stale version are indistinguishable here;
		// a second lookup tells them apart.
		if _, err := r.GetByID(ctx, appt.ID, appt.SalonID); err != nil {
			return err
		}
		return domain.ErrAppointmentConflict
	}
	appt.Version++

	return nil
}

// ListParams contains parameters for listing appointments.
type ListParams struct {
	SalonID        uuid.UUID
	ProfessionalID *uuid.UUID
	CustomerID     *uuid.UUID
	Status         *string
	StartFrom      *time.Time
	StartTo        *time.Time
	Page           int
	PageSize       int
}

// ListResult contains the result of listing appointments.
type ListResult struct {
	Items      []domain.Appointment
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// List retrieves appointments with optional filtering.
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	baseQuery := `FROM appointments WHERE salon_id = $1`
	args := []interface{}{params.SalonID}
	argIndex := 2

	addFilter(&baseQuery, &args, &argIndex, params.ProfessionalID != nil, " AND professional_id = $%d", derefUUID(params.ProfessionalID))
	addFilter(&baseQuery, &args, &argIndex, params.CustomerID != nil, " AND customer_id = $%d", derefUUID(params.CustomerID))
	addFilter(&baseQuery, &args, &argIndex, params.Status != nil, " AND status = $%d", derefString(params.Status))
	addFilter(&baseQuery, &args, &argIndex, params.StartFrom != nil, " AND start_time >= $%d", derefTime(params.StartFrom))
	addFilter(&baseQuery, &args, &argIndex, params.StartTo != nil, " AND start_time <= $%d", derefTime(params.StartTo))

	var total int
	countQuery := "SELECT COUNT(*) " + baseQuery
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count appointments: %w", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	offset := (params.Page - 1) * params.PageSize

	selectQuery := fmt.Sprintf(`SELECT `+appointmentColumns+` %s ORDER BY start_time ASC LIMIT $%d OFFSET $%d`,
		baseQuery, argIndex, argIndex+1)
	args = append(args, params.PageSize, offset)

	items, err := r.queryAppointments(ctx, selectQuery, args...)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// ListForDateRange retrieves the professional's active appointments that
// overlap the window, for slot computation. Overlap means starting before the
// window ends and ending after it starts.
func (r *Repository) ListForDateRange(ctx context.Context, salonID, professionalID uuid.UUID, start, end time.Time) ([]domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE salon_id = $1 AND professional_id = $2
		AND start_time < $4 AND end_time > $3
		AND status != 'cancelled'
		ORDER BY start_time ASC`

	return r.queryAppointments(ctx, query, salonID, professionalID, start, end)
}

// ListUpcomingByCustomer retrieves the customer's active future appointments.
func (r *Repository) ListUpcomingByCustomer(ctx context.Context, salonID, customerID uuid.UUID, now time.Time) ([]domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE salon_id = $1 AND customer_id = $2
		AND start_time >= $3
		AND status != 'cancelled'
		ORDER BY start_time ASC`

	return r.queryAppointments(ctx, query, salonID, customerID, now)
}

// ListStartingBetween retrieves active appointments across all salons whose
// start time falls inside the window. The reminder job uses this.
func (r *Repository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE start_time >= $1 AND start_time < $2
		AND status != 'cancelled'
		ORDER BY start_time ASC`

	return r.queryAppointments(ctx, query, from, to)
}

func (r *Repository) queryAppointments(ctx context.Context, query string, args ...interface{}) ([]domain.Appointment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	var items []domain.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		items = append(items, *appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate appointments: %w", err)
	}

	return items, nil
}

// SaveExternalEventID upserts one provider's event id for the appointment.
// It writes the child table only, so sync confirmations never race the
// optimistic lock on the appointment row.
func (r *Repository) SaveExternalEventID(ctx context.Context, appointmentID uuid.UUID, provider, externalID string) error {
	query := `
		INSERT INTO appointment_external_events (appointment_id, provider, external_event_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (appointment_id, provider)
		DO UPDATE SET external_event_id = EXCLUDED.external_event_id, updated_at = now()`

	if _, err := r.pool.Exec(ctx, query, appointmentID, provider, externalID); err != nil {
		return fmt.Errorf("failed to save external event id: %w", err)
	}
	return nil
}

// DeleteExternalEventID forgets one provider's event id.
func (r *Repository) DeleteExternalEventID(ctx context.Context, appointmentID uuid.UUID, provider string) error {
	query := `DELETE FROM appointment_external_events WHERE appointment_id = $1 AND provider = $2`

	if _, err := r.pool.Exec(ctx, query, appointmentID, provider); err != nil {
		return fmt.Errorf("failed to delete external event id: %w", err)
	}
	return nil
}

func (r *Repository) externalEventIDs(ctx context.Context, appointmentID uuid.UUID) (map[string]string, error) {
	query := `SELECT provider, external_event_id FROM appointment_external_events WHERE appointment_id = $1`

	rows, err := r.pool.Query(ctx, query, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query external event ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]string)
	for rows.Next() {
		var provider, externalID string
		if err := rows.Scan(&provider, &externalID); err != nil {
			return nil, fmt.Errorf("failed to scan external event id: %w", err)
		}
		ids[provider] = externalID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate external event ids: %w", err)
	}

	return ids, nil
}

// GetSyncView loads the enriched appointment snapshot for provider sync in a
// single join, plus one query for the stored external ids.
func (r *Repository) GetSyncView(ctx context.Context, salonID, appointmentID uuid.UUID) (*appsync.View, error) {
	query := `
		SELECT a.id, a.salon_id, a.professional_id, a.start_time, a.end_time,
			a.status = 'cancelled', COALESCE(a.notes, ''),
			c.name, c.phone, s.name, COALESCE(p.external_calendar_id, '')
		FROM appointments a
		JOIN customers c ON c.id = a.customer_id
		JOIN services s ON s.id = a.service_id
		JOIN professionals p ON p.id = a.professional_id
		WHERE a.id = $1 AND a.salon_id = $2`

	var view appsync.View
	err := r.pool.QueryRow(ctx, query, appointmentID, salonID).Scan(
		&view.AppointmentID, &view.SalonID, &view.ProfessionalID, &view.Start, &view.End,
		&view.Cancelled, &view.Notes,
		&view.CustomerName, &view.CustomerPhone, &view.ServiceName, &view.CalendarID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(appointmentNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to load sync view: %w", err)
	}

	ids, err := r.externalEventIDs(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	view.ExternalEventIDs = ids

	return &view, nil
}

// AppointmentDetails carries the customer, service and professional fields
// embedded in appointment responses.
type AppointmentDetails struct {
	CustomerName     string
	CustomerPhone    string
	CustomerEmail    string
	ServiceName      string
	ProfessionalName string
}

// GetDetailsBatch resolves display details for many appointments in one
// query, keyed by appointment id.
func (r *Repository) GetDetailsBatch(ctx context.Context, appointmentIDs []uuid.UUID, salonID uuid.UUID) (map[uuid.UUID]AppointmentDetails, error) {
	result := make(map[uuid.UUID]AppointmentDetails)
	if len(appointmentIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT a.id, c.name, c.phone, COALESCE(c.email, ''), s.name, p.name
		FROM appointments a
		JOIN customers c ON c.id = a.customer_id
		JOIN services s ON s.id = a.service_id
		JOIN professionals p ON p.id = a.professional_id
		WHERE a.id = ANY($1) AND a.salon_id = $2`

	rows, err := r.pool.Query(ctx, query, appointmentIDs, salonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment details batch: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var details AppointmentDetails
		if err := rows.Scan(&id, &details.CustomerName, &details.CustomerPhone, &details.CustomerEmail, &details.ServiceName, &details.ProfessionalName); err != nil {
			return nil, fmt.Errorf("failed to scan appointment details: %w", err)
		}
		result[id] = details
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate appointment details: %w", err)
	}

	return result, nil
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == exclusionViolation
}

func addFilter(baseQuery *string, args *[]interface{}, argIndex *int, apply bool, clause string, value interface{}) {
	if !apply {
		return
	}
	*baseQuery += fmt.Sprintf(clause, *argIndex)
	*args = append(*args, value)
	*argIndex++
}

func derefUUID(value *uuid.UUID) uuid.UUID {
	if value == nil {
		return uuid.UUID{}
	}
	return *value
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func derefTime(value *time.Time) time.Time {
	if value == nil {
		return time.Time{}
	}
	return *value
}
