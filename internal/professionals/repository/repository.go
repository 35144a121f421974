package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salon_booking_backend/internal/domain"
	"salon_booking_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides database operations for professionals, the service
// catalog and working-hour configuration.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new professionals repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateProfessional inserts a professional and their service links in one
// transaction.
func (r *Repository) CreateProfessional(ctx context.Context, prof *domain.Professional) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query := `
		INSERT INTO professionals (id, salon_id, name, phone, email, active, external_calendar_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = tx.Exec(ctx, query,
		prof.ID, prof.SalonID, prof.Name, optionalPhone(prof.Phone), optionalEmail(prof.Email),
		prof.Active, prof.ExternalCalendarID, prof.CreatedAt, prof.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create professional: %w", err)
	}

	if err := replaceServiceLinks(ctx, tx, prof.ID, prof.ServiceIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetProfessional retrieves a professional with their service links.
func (r *Repository) GetProfessional(ctx context.Context, id, salonID uuid.UUID) (*domain.Professional, error) {
	query := `SELECT id, salon_id, name, phone, email, active, external_calendar_id, created_at, updated_at
		FROM professionals WHERE id = $1 AND salon_id = $2`

	prof, err := scanProfessional(r.pool.QueryRow(ctx, query, id, salonID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("professional not found")
		}
		return nil, fmt.Errorf("failed to get professional: %w", err)
	}

	serviceIDs, err := r.serviceLinks(ctx, prof.ID)
	if err != nil {
		return nil, err
	}
	prof.ServiceIDs = serviceIDs

	return prof, nil
}

// ListProfessionals retrieves all of the salon's professionals with service
// links resolved in one batch query.
func (r *Repository) ListProfessionals(ctx context.Context, salonID uuid.UUID) ([]domain.Professional, error) {
	query := `SELECT id, salon_id, name, phone, email, active, external_calendar_id, created_at, updated_at
		FROM professionals WHERE salon_id = $1 ORDER BY name`

	rows, err := r.pool.Query(ctx, query, salonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list professionals: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Professional, 0)
	for rows.Next() {
		prof, err := scanProfessional(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan professional: %w", err)
		}
		items = append(items, *prof)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate professionals: %w", err)
	}

	if err := r.attachServiceLinks(ctx, items); err != nil {
		return nil, err
	}

	return items, nil
}

// UpdateProfessional persists profile changes and replaces service links.
func (r *Repository) UpdateProfessional(ctx context.Context, prof *domain.Professional) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query := `
		UPDATE professionals SET
			name = $3, phone = $4, email = $5, active = $6, external_calendar_id = $7, updated_at = $8
		WHERE id = $1 AND salon_id = $2`

	result, err := tx.Exec(ctx, query,
		prof.ID, prof.SalonID, prof.Name, optionalPhone(prof.Phone), optionalEmail(prof.Email),
		prof.Active, prof.ExternalCalendarID, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update professional: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("professional not found")
	}

	if err := replaceServiceLinks(ctx, tx, prof.ID, prof.ServiceIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func scanProfessional(row pgx.Row) (*domain.Professional, error) {
	var prof domain.Professional
	var phone, email *string
	err := row.Scan(
		&prof.ID, &prof.SalonID, &prof.Name, &phone, &email,
		&prof.Active, &prof.ExternalCalendarID, &prof.CreatedAt, &prof.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if phone != nil {
		p := domain.Phone(*phone)
		prof.Phone = &p
	}
	if email != nil {
		e := domain.Email(*email)
		prof.Email = &e
	}
	return &prof, nil
}

func (r *Repository) serviceLinks(ctx context.Context, professionalID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT service_id FROM professional_services WHERE professional_id = $1`, professionalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query service links: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan service link: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate service links: %w", err)
	}
	return ids, nil
}

func (r *Repository) attachServiceLinks(ctx context.Context, items []domain.Professional) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(items))
	index := make(map[uuid.UUID]int, len(items))
	for i, p := range items {
		ids[i] = p.ID
		index[p.ID] = i
	}

	rows, err := r.pool.Query(ctx,
		`SELECT professional_id, service_id FROM professional_services WHERE professional_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("failed to query service links: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var profID, svcID uuid.UUID
		if err := rows.Scan(&profID, &svcID); err != nil {
			return fmt.Errorf("failed to scan service link: %w", err)
		}
		if i, ok := index[profID]; ok {
			items[i].ServiceIDs = append(items[i].ServiceIDs, svcID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate service links: %w", err)
	}
	return nil
}

func replaceServiceLinks(ctx context.Context, tx pgx.Tx, professionalID uuid.UUID, serviceIDs []uuid.UUID) error {
	if _, err := tx.Exec(ctx,
		`DELETE FROM professional_services WHERE professional_id = $1`, professionalID); err != nil {
		return fmt.Errorf("failed to clear service links: %w", err)
	}
	for _, svcID := range serviceIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO professional_services (professional_id, service_id) VALUES ($1, $2)`,
			professionalID, svcID); err != nil {
			return fmt.Errorf("failed to link service: %w", err)
		}
	}
	return nil
}

func optionalPhone(p *domain.Phone) *string {
	if p == nil {
		return nil
	}
	s := p.String()
	return &s
}

func optionalEmail(e *domain.Email) *string {
	if e == nil {
		return nil
	}
	s := string(*e)
	return &s
}
