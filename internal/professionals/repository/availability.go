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
)

// CreateAvailabilityRule inserts a recurring weekly working or break rule.
func (r *Repository) CreateAvailabilityRule(ctx context.Context, rule *domain.AvailabilityRule) error {
	query := `
		INSERT INTO availability_rules (id, salon_id, professional_id, weekday, start_time, end_time, is_break, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		rule.ID, rule.SalonID, rule.ProfessionalID, int(rule.Weekday),
		rule.StartTime, rule.EndTime, rule.IsBreak, rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create availability rule: %w", err)
	}
	return nil
}

// ListAvailabilityRules retrieves the professional's recurring rules.
func (r *Repository) ListAvailabilityRules(ctx context.Context, salonID, professionalID uuid.UUID) ([]domain.AvailabilityRule, error) {
	query := `SELECT id, salon_id, professional_id, weekday, start_time, end_time, is_break, created_at, updated_at
		FROM availability_rules WHERE salon_id = $1 AND professional_id = $2
		ORDER BY weekday, start_time`

	rows, err := r.pool.Query(ctx, query, salonID, professionalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability rules: %w", err)
	}
	defer rows.Close()

	items := make([]domain.AvailabilityRule, 0)
	for rows.Next() {
		var item domain.AvailabilityRule
		var weekday int
		if err := rows.Scan(
			&item.ID, &item.SalonID, &item.ProfessionalID, &weekday,
			&item.StartTime, &item.EndTime, &item.IsBreak, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan availability rule: %w", err)
		}
		item.Weekday = time.Weekday(weekday)
		// Rule clocks live on the zero date in UTC; pgx scans timestamptz
		// into the session zone.
		item.StartTime = item.StartTime.UTC()
		item.EndTime = item.EndTime.UTC()
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate availability rules: %w", err)
	}
	return items, nil
}

// DeleteAvailabilityRule removes one rule.
func (r *Repository) DeleteAvailabilityRule(ctx context.Context, id, salonID uuid.UUID) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM availability_rules WHERE id = $1 AND salon_id = $2`, id, salonID)
	if err != nil {
		return fmt.Errorf("failed to delete availability rule: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("availability rule not found")
	}
	return nil
}

// CreateOverride inserts a one-off blocked interval.
func (r *Repository) CreateOverride(ctx context.Context, override *domain.ScheduleOverride) error {
	query := `
		INSERT INTO schedule_overrides (id, salon_id, professional_id, start_time, end_time, reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		override.ID, override.SalonID, override.ProfessionalID,
		override.StartTime, override.EndTime, override.Reason,
		override.CreatedAt, override.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create schedule override: %w", err)
	}
	return nil
}

// ListOverrides retrieves the professional's overrides overlapping a window.
func (r *Repository) ListOverrides(ctx context.Context, salonID, professionalID uuid.UUID, start, end time.Time) ([]domain.ScheduleOverride, error) {
	query := `SELECT id, salon_id, professional_id, start_time, end_time, reason, created_at, updated_at
		FROM schedule_overrides
		WHERE salon_id = $1 AND professional_id = $2
		AND start_time < $4 AND end_time > $3
		ORDER BY start_time ASC`

	rows, err := r.pool.Query(ctx, query, salonID, professionalID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule overrides: %w", err)
	}
	defer rows.Close()

	items := make([]domain.ScheduleOverride, 0)
	for rows.Next() {
		var item domain.ScheduleOverride
		if err := rows.Scan(
			&item.ID, &item.SalonID, &item.ProfessionalID,
			&item.StartTime, &item.EndTime, &item.Reason,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan schedule override: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedule overrides: %w", err)
	}
	return items, nil
}

// DeleteOverride removes one override.
func (r *Repository) DeleteOverride(ctx context.Context, id, salonID uuid.UUID) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM schedule_overrides WHERE id = $1 AND salon_id = $2`, id, salonID)
	if err != nil {
		return fmt.Errorf("failed to delete schedule override: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("schedule override not found")
	}
	return nil
}

// Rule lookup used before delete to verify ownership in handlers that need
// the professional id.
func (r *Repository) GetAvailabilityRule(ctx context.Context, id, salonID uuid.UUID) (*domain.AvailabilityRule, error) {
	query := `SELECT id, salon_id, professional_id, weekday, start_time, end_time, is_break, created_at, updated_at
		FROM availability_rules WHERE id = $1 AND salon_id = $2`

	var item domain.AvailabilityRule
	var weekday int
	err := r.pool.QueryRow(ctx, query, id, salonID).Scan(
		&item.ID, &item.SalonID, &item.ProfessionalID, &weekday,
		&item.StartTime, &item.EndTime, &item.IsBreak, &item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("availability rule not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get availability rule: %w", err)
	}
	item.Weekday = time.Weekday(weekday)
	item.StartTime = item.StartTime.UTC()
	item.EndTime = item.EndTime.UTC()
	return &item, nil
}
