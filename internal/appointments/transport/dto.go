// Package transport defines the request and response shapes of the
// appointments API.
package transport

import (
	"time"

	"github.com/google/uuid"

	"salon_booking_backend/internal/domain"
)

// CreateAppointmentRequest books a service with a professional. The end time
// is derived from the service duration and never supplied by the client.
type CreateAppointmentRequest struct {
	ProfessionalID uuid.UUID `json:"professionalId" validate:"required"`
	CustomerID     uuid.UUID `json:"customerId" validate:"required"`
	ServiceID      uuid.UUID `json:"serviceId" validate:"required"`
	StartTime      time.Time `json:"startTime" validate:"required"`
	Notes          *string   `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// RescheduleAppointmentRequest moves an appointment to a new start time.
type RescheduleAppointmentRequest struct {
	StartTime time.Time `json:"startTime" validate:"required"`
	Notes     *string   `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// ListAppointmentsQuery filters the appointment listing.
type ListAppointmentsQuery struct {
	ProfessionalID *uuid.UUID `form:"professionalId"`
	CustomerID     *uuid.UUID `form:"customerId"`
	Status         *string    `form:"status" validate:"omitempty,oneof=pending confirmed cancelled"`
	StartFrom      *time.Time `form:"startFrom"`
	StartTo        *time.Time `form:"startTo"`
	Page           int        `form:"page" validate:"omitempty,min=1"`
	PageSize       int        `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// UpcomingByPhoneQuery looks up a customer's upcoming appointments by phone.
type UpcomingByPhoneQuery struct {
	Phone string `form:"phone" validate:"required"`
}

// SlotsQuery asks for bookable slots for one professional, service and day.
type SlotsQuery struct {
	ProfessionalID uuid.UUID `form:"professionalId" validate:"required"`
	ServiceID      uuid.UUID `form:"serviceId" validate:"required"`
	Date           string    `form:"date" validate:"required,datetime=2006-01-02"`
}

// AppointmentDetails embeds resolved display names in responses.
type AppointmentDetails struct {
	CustomerName     string `json:"customerName"`
	CustomerPhone    string `json:"customerPhone"`
	ServiceName      string `json:"serviceName"`
	ProfessionalName string `json:"professionalName"`
}

// AppointmentResponse is the API representation of an appointment.
type AppointmentResponse struct {
	ID               uuid.UUID                `json:"id"`
	ProfessionalID   uuid.UUID                `json:"professionalId"`
	CustomerID       uuid.UUID                `json:"customerId"`
	ServiceID        uuid.UUID                `json:"serviceId"`
	StartTime        time.Time                `json:"startTime"`
	EndTime          time.Time                `json:"endTime"`
	Status           domain.AppointmentStatus `json:"status"`
	Notes            *string                  `json:"notes,omitempty"`
	ExternalEventIDs map[string]string        `json:"externalEventIds,omitempty"`
	Details          *AppointmentDetails      `json:"details,omitempty"`
	CreatedAt        time.Time                `json:"createdAt"`
	UpdatedAt        time.Time                `json:"updatedAt"`
}

// ListAppointmentsResponse is a paginated appointment listing.
type ListAppointmentsResponse struct {
	Items      []AppointmentResponse `json:"items"`
	Total      int                   `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"pageSize"`
	TotalPages int                   `json:"totalPages"`
}

// SlotResponse is one bookable window.
type SlotResponse struct {
	ProfessionalID uuid.UUID `json:"professionalId"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
}

// NewAppointmentResponse maps a domain appointment onto the wire shape.
func NewAppointmentResponse(appt *domain.Appointment, details *AppointmentDetails) AppointmentResponse {
	resp := AppointmentResponse{
		ID:             appt.ID,
		ProfessionalID: appt.ProfessionalID,
		CustomerID:     appt.CustomerID,
		ServiceID:      appt.ServiceID,
		StartTime:      appt.StartTime,
		EndTime:        appt.EndTime,
		Status:         appt.Status,
		Notes:          appt.Notes,
		Details:        details,
		CreatedAt:      appt.CreatedAt,
		UpdatedAt:      appt.UpdatedAt,
	}
	if len(appt.ExternalEventIDs) > 0 {
		resp.ExternalEventIDs = appt.ExternalEventIDs
	}
	return resp
}
