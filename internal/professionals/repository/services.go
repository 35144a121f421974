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

// CreateService inserts a catalog service.
func (r *Repository) CreateService(ctx context.Context, svc *domain.Service) error {
	query := `
		INSERT INTO services (id, salon_id, name, duration_minutes, price_cents, currency, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		svc.ID, svc.SalonID, svc.Name, svc.Duration.Minutes(), svc.Price.Cents, svc.Price.Currency,
		svc.Active, svc.CreatedAt, svc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

// GetService retrieves one catalog service.
func (r *Repository) GetService(ctx context.Context, id, salonID uuid.UUID) (*domain.Service, error) {
	query := `SELECT id, salon_id, name, duration_minutes, price_cents, currency, active, created_at, updated_at
		FROM services WHERE id = $1 AND salon_id = $2`

	svc, err := scanService(r.pool.QueryRow(ctx, query, id, salonID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("service not found")
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return svc, nil
}

// ListServices retrieves the salon's catalog, optionally only active entries.
func (r *Repository) ListServices(ctx context.Context, salonID uuid.UUID, activeOnly bool) ([]domain.Service, error) {
	query := `SELECT id, salon_id, name, duration_minutes, price_cents, currency, active, created_at, updated_at
		FROM services WHERE salon_id = $1`
	if activeOnly {
		query += ` AND active`
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, salonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Service, 0)
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		items = append(items, *svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate services: %w", err)
	}
	return items, nil
}

// UpdateService persists name, duration, price and active flag changes.
func (r *Repository) UpdateService(ctx context.Context, svc *domain.Service) error {
	query := `
		UPDATE services SET
			name = $3, duration_minutes = $4, price_cents = $5, currency = $6, active = $7, updated_at = $8
		WHERE id = $1 AND salon_id = $2`

	result, err := r.pool.Exec(ctx, query,
		svc.ID, svc.SalonID, svc.Name, svc.Duration.Minutes(), svc.Price.Cents, svc.Price.Currency,
		svc.Active, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("service not found")
	}
	return nil
}

func scanService(row pgx.Row) (*domain.Service, error) {
	var svc domain.Service
	var minutes int
	var cents int64
	var currency string
	err := row.Scan(
		&svc.ID, &svc.SalonID, &svc.Name, &minutes, &cents, &currency,
		&svc.Active, &svc.CreatedAt, &svc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	svc.Duration = domain.Duration(minutes)
	svc.Price = domain.Money{Cents: cents, Currency: currency}
	return &svc, nil
}
