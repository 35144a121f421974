// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"salon_booking_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Appointment Domain Events
// =============================================================================

// AppointmentBooked is published after a new appointment is persisted.
// Subscribers handle confirmation messaging and external sync scheduling.
type AppointmentBooked struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	SalonID       uuid.UUID `json:"salonId"`
	CustomerID    uuid.UUID `json:"customerId"`
	StartTime     time.Time `json:"startTime"`
}

func (e AppointmentBooked) EventName() string { return "appointments.booked" }

// AppointmentRescheduled is published after an appointment moves to a new
// time window.
type AppointmentRescheduled struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	SalonID       uuid.UUID `json:"salonId"`
	CustomerID    uuid.UUID `json:"customerId"`
	OldStartTime  time.Time `json:"oldStartTime"`
	StartTime     time.Time `json:"startTime"`
}

func (e AppointmentRescheduled) EventName() string { return "appointments.rescheduled" }

// AppointmentCancelled is published after an appointment is cancelled.
type AppointmentCancelled struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	SalonID       uuid.UUID `json:"salonId"`
	CustomerID    uuid.UUID `json:"customerId"`
	StartTime     time.Time `json:"startTime"`
}

func (e AppointmentCancelled) EventName() string { return "appointments.cancelled" }

// AppointmentReminderDue is published by the scheduler worker when a booked
// appointment's reminder lead time is reached. The notify module turns it
// into an outbound message.
type AppointmentReminderDue struct {
	BaseEvent
	AppointmentID    uuid.UUID `json:"appointmentId"`
	SalonID          uuid.UUID `json:"salonId"`
	CustomerName     string    `json:"customerName"`
	CustomerPhone    string    `json:"customerPhone"`
	ServiceName      string    `json:"serviceName"`
	ProfessionalName string    `json:"professionalName"`
	StartTime        time.Time `json:"startTime"`
}

func (e AppointmentReminderDue) EventName() string { return "appointments.reminder_due" }

// CustomerIdentified is published when a caller's phone number resolves to a
// new customer record.
type CustomerIdentified struct {
	BaseEvent
	CustomerID uuid.UUID `json:"customerId"`
	SalonID    uuid.UUID `json:"salonId"`
	Phone      string    `json:"phone"`
}

func (e CustomerIdentified) EventName() string { return "customers.identified" }
