package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer is identified primarily by normalized phone number, unique per
// salon. A customer record is only created once a name is known; bookings
// for unidentified callers are blocked until then.
type Customer struct {
	ID        uuid.UUID
	SalonID   uuid.UUID
	Name      string
	Phone     Phone
	Email     *Email
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCustomer validates and builds a customer.
func NewCustomer(salonID uuid.UUID, name string, phone Phone, email *Email) (*Customer, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	now := time.Now()
	return &Customer{
		ID:        uuid.New(),
		SalonID:   salonID,
		Name:      name,
		Phone:     phone,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
