package email

import (
	"context"
	"fmt"
	"time"

	"salon_booking_backend/internal/appointments/repository"
	"salon_booking_backend/internal/events"
	"salon_booking_backend/platform/logger"

	"github.com/google/uuid"
)

// Sender is the outbound email surface the subscriber writes to.
type Sender interface {
	SendBookingConfirmedEmail(ctx context.Context, toEmail, customerName, serviceName, professionalName string, start time.Time) error
	SendBookingCancelledEmail(ctx context.Context, toEmail, customerName, serviceName string, start time.Time) error
}

// Details resolves display data for appointments referenced by events.
type Details interface {
	GetDetailsBatch(ctx context.Context, appointmentIDs []uuid.UUID, salonID uuid.UUID) (map[uuid.UUID]repository.AppointmentDetails, error)
}

// Subscriber emails customers on booking lifecycle events. Customers without
// an email address on file are skipped silently; email is a best-effort
// channel next to WhatsApp.
type Subscriber struct {
	sender  Sender
	details Details
	log     *logger.Logger
}

// NewSubscriber creates the subscriber.
func NewSubscriber(sender Sender, details Details, log *logger.Logger) *Subscriber {
	return &Subscriber{sender: sender, details: details, log: log}
}

// Register attaches the subscriber to the event bus.
func (s *Subscriber) Register(bus events.Bus) {
	bus.Subscribe(events.AppointmentBooked{}.EventName(), events.HandlerFunc(s.handleBooked))
	bus.Subscribe(events.AppointmentRescheduled{}.EventName(), events.HandlerFunc(s.handleRescheduled))
	bus.Subscribe(events.AppointmentCancelled{}.EventName(), events.HandlerFunc(s.handleCancelled))
}

func (s *Subscriber) handleBooked(ctx context.Context, event events.Event) error {
	e, ok := event.(events.AppointmentBooked)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	s.sendConfirmation(ctx, e.AppointmentID, e.SalonID, e.StartTime)
	return nil
}

func (s *Subscriber) handleRescheduled(ctx context.Context, event events.Event) error {
	e, ok := event.(events.AppointmentRescheduled)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	s.sendConfirmation(ctx, e.AppointmentID, e.SalonID, e.StartTime)
	return nil
}

func (s *Subscriber) handleCancelled(ctx context.Context, event events.Event) error {
	e, ok := event.(events.AppointmentCancelled)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	details, ok := s.lookup(ctx, e.AppointmentID, e.SalonID)
	if !ok || details.CustomerEmail == "" {
		return nil
	}

	if err := s.sender.SendBookingCancelledEmail(ctx, details.CustomerEmail, details.CustomerName, details.ServiceName, e.StartTime); err != nil {
		s.log.Warn("failed to send cancellation email", "error", err, "appointment_id", e.AppointmentID)
	}
	return nil
}

func (s *Subscriber) sendConfirmation(ctx context.Context, appointmentID, salonID uuid.UUID, start time.Time) {
	details, ok := s.lookup(ctx, appointmentID, salonID)
	if !ok || details.CustomerEmail == "" {
		return
	}

	err := s.sender.SendBookingConfirmedEmail(ctx, details.CustomerEmail, details.CustomerName, details.ServiceName, details.ProfessionalName, start)
	if err != nil {
		s.log.Warn("failed to send confirmation email", "error", err, "appointment_id", appointmentID)
	}
}

func (s *Subscriber) lookup(ctx context.Context, appointmentID, salonID uuid.UUID) (repository.AppointmentDetails, bool) {
	batch, err := s.details.GetDetailsBatch(ctx, []uuid.UUID{appointmentID}, salonID)
	if err != nil {
		s.log.Warn("failed to load appointment details for email", "error", err, "appointment_id", appointmentID)
		return repository.AppointmentDetails{}, false
	}
	details, ok := batch[appointmentID]
	return details, ok
}
