package domain

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus is the lifecycle state of an appointment.
// Transitions are monotonic: pending → confirmed → cancelled, and
// pending/confirmed → cancelled. Cancelled is terminal.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment is one booking of a professional for a customer and service.
// Appointments are never hard-deleted; cancellation is a status change so
// history and idempotent external re-sync stay possible.
type Appointment struct {
	ID             uuid.UUID
	SalonID        uuid.UUID
	ProfessionalID uuid.UUID
	CustomerID     uuid.UUID
	ServiceID      uuid.UUID
	StartTime      time.Time
	EndTime        time.Time
	Status         AppointmentStatus
	// ExternalEventIDs maps provider name to the event/booking id that
	// provider returned. An entry is written only after a confirmed sync
	// and removed only after a confirmed removal.
	ExternalEventIDs map[string]string
	Notes            *string
	// Version backs optimistic locking; concurrent updates to the same
	// appointment are serialized by the repository.
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAppointment builds a pending appointment, validating the time range.
func NewAppointment(salonID, professionalID, customerID, serviceID uuid.UUID, start, end time.Time, notes *string) (*Appointment, error) {
	if !start.Before(end) {
		return nil, ErrInvalidTimeRange
	}

	now := time.Now()
	return &Appointment{
		ID:               uuid.New(),
		SalonID:          salonID,
		ProfessionalID:   professionalID,
		CustomerID:       customerID,
		ServiceID:        serviceID,
		StartTime:        start,
		EndTime:          end,
		Status:           StatusPending,
		ExternalEventIDs: make(map[string]string),
		Notes:            notes,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// Confirm moves a pending appointment to confirmed. Confirming an already
// confirmed appointment is a no-op; cancelled is terminal.
func (a *Appointment) Confirm() error {
	if a.Status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	a.Status = StatusConfirmed
	a.UpdatedAt = time.Now()
	return nil
}

// Cancel marks the appointment cancelled. Appointments whose start time has
// passed are immutable regardless of caller privilege.
func (a *Appointment) Cancel(now time.Time) error {
	if a.Status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	if a.StartTime.Before(now) {
		return ErrPastAppointment
	}
	a.Status = StatusCancelled
	a.UpdatedAt = time.Now()
	return nil
}

// Reschedule moves the appointment to a new time window. Past and cancelled
// appointments cannot be rescheduled.
func (a *Appointment) Reschedule(start, end, now time.Time) error {
	if a.Status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	if a.StartTime.Before(now) {
		return ErrPastAppointment
	}
	if !start.Before(end) {
		return ErrInvalidTimeRange
	}
	a.StartTime = start
	a.EndTime = end
	a.UpdatedAt = time.Now()
	return nil
}

// SetExternalEventID records a confirmed sync with a provider. It is how the
// sync orchestrator marks success without re-running domain validation, so it
// never changes status. Not allowed in the terminal state.
func (a *Appointment) SetExternalEventID(provider, externalID string) error {
	if a.Status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	if a.ExternalEventIDs == nil {
		a.ExternalEventIDs = make(map[string]string)
	}
	a.ExternalEventIDs[provider] = externalID
	a.UpdatedAt = time.Now()
	return nil
}

// ClearExternalEventID forgets a provider's event id after a confirmed
// removal. Allowed in any state: removal follows cancellation.
func (a *Appointment) ClearExternalEventID(provider string) {
	delete(a.ExternalEventIDs, provider)
	a.UpdatedAt = time.Now()
}

// ExternalEventID returns the stored id for a provider, if any.
func (a *Appointment) ExternalEventID(provider string) (string, bool) {
	id, ok := a.ExternalEventIDs[provider]
	return id, ok
}

// IsCancelled reports whether the appointment reached the terminal state.
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// IsPast reports whether the appointment's start time has passed.
func (a *Appointment) IsPast(now time.Time) bool {
	return a.StartTime.Before(now)
}

// Range returns the appointment's time window.
func (a *Appointment) Range() DateRange {
	return DateRange{Start: a.StartTime, End: a.EndTime}
}
