// Package transport contains HTTP DTOs for the customers module.
package transport

import (
	"time"

	"salon_booking_backend/internal/domain"

	"github.com/google/uuid"
)

// CreateCustomerRequest registers a customer. Name is mandatory; callers
// without a name cannot be booked.
type CreateCustomerRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=120"`
	Phone string `json:"phone" validate:"required,max=20"`
	Email string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Notes string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// UpdateCustomerRequest changes profile fields. Phone is intentionally
// absent; it identifies the customer.
type UpdateCustomerRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=120"`
	Email string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Notes string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// IdentifyQuery looks a customer up by phone.
type IdentifyQuery struct {
	Phone string `form:"phone" validate:"required,max=20"`
}

// IdentifyResponse is the outcome of a phone lookup. An unknown number is a
// normal result, not an error; NameRequired tells the caller to register the
// customer with a name before booking.
type IdentifyResponse struct {
	Found        bool              `json:"found"`
	NameRequired bool              `json:"nameRequired"`
	Customer     *CustomerResponse `json:"customer,omitempty"`
}

// CustomerResponse is the API representation of a customer.
type CustomerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewCustomerResponse maps a domain customer to its API form.
func NewCustomerResponse(c *domain.Customer) CustomerResponse {
	resp := CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone.String(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.Email != nil {
		resp.Email = c.Email.String()
	}
	if c.Notes != nil {
		resp.Notes = *c.Notes
	}
	return resp
}
