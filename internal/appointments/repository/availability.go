package repository

import (
	"context"
	"fmt"
	"time"

	"salon_booking_backend/internal/domain"

	"github.com/google/uuid"
)

// ListAvailabilityRules retrieves the professional's recurring weekly rules.
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
			&item.StartTime, &item.EndTime, &item.IsBreak,
			&item.CreatedAt, &item.UpdatedAt,
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

// ListOverridesInRange retrieves the professional's schedule overrides
// overlapping the window.
func (r *Repository) ListOverridesInRange(ctx context.Context, salonID, professionalID uuid.UUID, start, end time.Time) ([]domain.ScheduleOverride, error) {
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
