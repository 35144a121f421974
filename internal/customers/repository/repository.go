// Package repository provides database operations for customers.
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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the Postgres error code raised by the unique index on
// (salon_id, phone).
const uniqueViolation = "23505"

// Repository provides database operations for customers.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new customers repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a customer. A duplicate phone within the salon maps to a
// conflict error.
func (r *Repository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (id, salon_id, name, phone, email, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		customer.ID, customer.SalonID, customer.Name, customer.Phone.String(),
		optionalEmail(customer.Email), customer.Notes, customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("customer with this phone already exists")
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// GetByID retrieves a customer by id.
func (r *Repository) GetByID(ctx context.Context, id, salonID uuid.UUID) (*domain.Customer, error) {
	query := `SELECT id, salon_id, name, phone, email, notes, created_at, updated_at
		FROM customers WHERE id = $1 AND salon_id = $2`

	customer, err := scanCustomer(r.pool.QueryRow(ctx, query, id, salonID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("customer not found")
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

// GetByPhone retrieves a customer by canonical phone within the salon.
func (r *Repository) GetByPhone(ctx context.Context, salonID uuid.UUID, phone domain.Phone) (*domain.Customer, error) {
	query := `SELECT id, salon_id, name, phone, email, notes, created_at, updated_at
		FROM customers WHERE salon_id = $1 AND phone = $2`

	customer, err := scanCustomer(r.pool.QueryRow(ctx, query, salonID, phone.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("customer not found")
		}
		return nil, fmt.Errorf("failed to get customer by phone: %w", err)
	}
	return customer, nil
}

// List retrieves the salon's customers ordered by name.
func (r *Repository) List(ctx context.Context, salonID uuid.UUID) ([]domain.Customer, error) {
	query := `SELECT id, salon_id, name, phone, email, notes, created_at, updated_at
		FROM customers WHERE salon_id = $1 ORDER BY name`

	rows, err := r.pool.Query(ctx, query, salonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Customer, 0)
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		items = append(items, *customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate customers: %w", err)
	}
	return items, nil
}

// Update persists name, email and notes changes. Phone is immutable; it is
// the customer's identity within the salon.
func (r *Repository) Update(ctx context.Context, customer *domain.Customer) error {
	query := `
		UPDATE customers SET name = $3, email = $4, notes = $5, updated_at = $6
		WHERE id = $1 AND salon_id = $2`

	result, err := r.pool.Exec(ctx, query,
		customer.ID, customer.SalonID, customer.Name,
		optionalEmail(customer.Email), customer.Notes, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("customer not found")
	}
	return nil
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var customer domain.Customer
	var phone string
	var email *string
	err := row.Scan(
		&customer.ID, &customer.SalonID, &customer.Name, &phone, &email,
		&customer.Notes, &customer.CreatedAt, &customer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	customer.Phone = domain.Phone(phone)
	if email != nil {
		e := domain.Email(*email)
		customer.Email = &e
	}
	return &customer, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func optionalEmail(e *domain.Email) *string {
	if e == nil {
		return nil
	}
	s := e.String()
	return &s
}
