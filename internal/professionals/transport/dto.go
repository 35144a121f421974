// Package transport contains HTTP DTOs for the professionals module.
package transport

import (
	"time"

	"salon_booking_backend/internal/domain"

	"github.com/google/uuid"
)

// CreateProfessionalRequest creates a bookable professional.
type CreateProfessionalRequest struct {
	Name               string      `json:"name" validate:"required,min=1,max=120"`
	Phone              string      `json:"phone,omitempty" validate:"omitempty,max=20"`
	Email              string      `json:"email,omitempty" validate:"omitempty,email,max=254"`
	ExternalCalendarID *string     `json:"externalCalendarId,omitempty" validate:"omitempty,max=255"`
	ServiceIDs         []uuid.UUID `json:"serviceIds,omitempty" validate:"max=100"`
}

// UpdateProfessionalRequest replaces the professional's profile and service links.
type UpdateProfessionalRequest struct {
	Name               string      `json:"name" validate:"required,min=1,max=120"`
	Phone              string      `json:"phone,omitempty" validate:"omitempty,max=20"`
	Email              string      `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Active             *bool       `json:"active" validate:"required"`
	ExternalCalendarID *string     `json:"externalCalendarId,omitempty" validate:"omitempty,max=255"`
	ServiceIDs         []uuid.UUID `json:"serviceIds,omitempty" validate:"max=100"`
}

// CreateServiceRequest adds a catalog service.
type CreateServiceRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=120"`
	DurationMinutes int    `json:"durationMinutes" validate:"required,min=5,max=1440"`
	PriceCents      int64  `json:"priceCents" validate:"min=0"`
	Currency        string `json:"currency,omitempty" validate:"omitempty,len=3,uppercase"`
}

// UpdateServiceRequest replaces a catalog service's attributes.
type UpdateServiceRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=120"`
	DurationMinutes int    `json:"durationMinutes" validate:"required,min=5,max=1440"`
	PriceCents      int64  `json:"priceCents" validate:"min=0"`
	Currency        string `json:"currency,omitempty" validate:"omitempty,len=3,uppercase"`
	Active          *bool  `json:"active" validate:"required"`
}

// CreateAvailabilityRuleRequest adds a recurring weekly working or break
// interval. Times are clock-only in HH:MM form.
type CreateAvailabilityRuleRequest struct {
	Weekday   int    `json:"weekday" validate:"min=0,max=6"`
	StartTime string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime   string `json:"endTime" validate:"required,datetime=15:04"`
	IsBreak   bool   `json:"isBreak"`
}

// CreateOverrideRequest blocks a one-off interval.
type CreateOverrideRequest struct {
	StartTime time.Time `json:"startTime" validate:"required"`
	EndTime   time.Time `json:"endTime" validate:"required"`
	Reason    string    `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// ProfessionalResponse is the API representation of a professional.
type ProfessionalResponse struct {
	ID                 uuid.UUID   `json:"id"`
	Name               string      `json:"name"`
	Phone              string      `json:"phone,omitempty"`
	Email              string      `json:"email,omitempty"`
	Active             bool        `json:"active"`
	ExternalCalendarID *string     `json:"externalCalendarId,omitempty"`
	ServiceIDs         []uuid.UUID `json:"serviceIds"`
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          time.Time   `json:"updatedAt"`
}

// ServiceResponse is the API representation of a catalog service.
type ServiceResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"durationMinutes"`
	PriceCents      int64     `json:"priceCents"`
	Currency        string    `json:"currency"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// AvailabilityRuleResponse is the API representation of a recurring rule.
type AvailabilityRuleResponse struct {
	ID        uuid.UUID `json:"id"`
	Weekday   int       `json:"weekday"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	IsBreak   bool      `json:"isBreak"`
}

// OverrideResponse is the API representation of a schedule override.
type OverrideResponse struct {
	ID        uuid.UUID `json:"id"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Reason    string    `json:"reason,omitempty"`
}

// NewProfessionalResponse maps a domain professional to its API form.
func NewProfessionalResponse(p *domain.Professional) ProfessionalResponse {
	resp := ProfessionalResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Active:             p.Active,
		ExternalCalendarID: p.ExternalCalendarID,
		ServiceIDs:         p.ServiceIDs,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	if resp.ServiceIDs == nil {
		resp.ServiceIDs = []uuid.UUID{}
	}
	if p.Phone != nil {
		resp.Phone = p.Phone.String()
	}
	if p.Email != nil {
		resp.Email = p.Email.String()
	}
	return resp
}

// NewServiceResponse maps a domain service to its API form.
func NewServiceResponse(s *domain.Service) ServiceResponse {
	return ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		DurationMinutes: s.Duration.Minutes(),
		PriceCents:      s.Price.Cents,
		Currency:        s.Price.Currency,
		Active:          s.Active,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// NewAvailabilityRuleResponse maps a rule to its API form with clock-only times.
func NewAvailabilityRuleResponse(r *domain.AvailabilityRule) AvailabilityRuleResponse {
	return AvailabilityRuleResponse{
		ID:        r.ID,
		Weekday:   int(r.Weekday),
		StartTime: r.StartTime.Format("15:04"),
		EndTime:   r.EndTime.Format("15:04"),
		IsBreak:   r.IsBreak,
	}
}

// NewOverrideResponse maps an override to its API form.
func NewOverrideResponse(o *domain.ScheduleOverride) OverrideResponse {
	return OverrideResponse{
		ID:        o.ID,
		StartTime: o.StartTime,
		EndTime:   o.EndTime,
		Reason:    o.Reason,
	}
}
