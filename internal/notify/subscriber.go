package notify

import (
	"context"
	"fmt"

	"salon_booking_backend/internal/appointments/repository"
	"salon_booking_backend/internal/events"
	"salon_booking_backend/platform/logger"

	"github.com/google/uuid"
)

// Messenger is the outbound channel the subscriber writes to.
type Messenger interface {
	SendMessage(ctx context.Context, phone string, message string) error
}

// Details resolves display data for appointments referenced by events.
type Details interface {
	GetDetailsBatch(ctx context.Context, appointmentIDs []uuid.UUID, salonID uuid.UUID) (map[uuid.UUID]repository.AppointmentDetails, error)
}

// Subscriber turns appointment lifecycle events into WhatsApp messages.
// Delivery failures are logged, never propagated; messaging must not affect
// the booking flow.
type Subscriber struct {
	messenger Messenger
	details   Details
	log       *logger.Logger
}

// NewSubscriber creates the subscriber.
func NewSubscriber(messenger Messenger, details Details, log *logger.Logger) *Subscriber {
	return &Subscriber{messenger: messenger, details: details, log: log}
}

// Register attaches the subscriber to the event bus.
func (s *Subscriber) Register(bus events.Bus) {
	bus.Subscribe(events.AppointmentBooked{}.EventName(), events.HandlerFunc(s.handleBooked))
	bus.Subscribe(events.AppointmentRescheduled{}.EventName(), events.HandlerFunc(s.handleRescheduled))
	bus.Subscribe(events.AppointmentCancelled{}.EventName(), events.HandlerFunc(s.handleCancelled))
	bus.Subscribe(events.AppointmentReminderDue{}.EventName(), events.HandlerFunc(s.handleReminderDue))
}

func (s *Subscriber) handleBooked(ctx context.Context, event events.Event) error {
	e, ok := event.(events.AppointmentBooked)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	details, err := s.lookup(ctx, e.AppointmentID, e.SalonID)
	if err != nil {
		s.log.Warn("skipping booking message", "error", err, "appointment_id", e.AppointmentID)
		return nil
	}

	s.send(ctx, details.CustomerPhone, bookedMessage(details.CustomerName, details.ServiceName, e.StartTime))
	return nil
}

func (s *Subscriber) handleRescheduled(ctx context.Context, event events.Event) error {
	e, ok := event.(events.AppointmentRescheduled)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	details, err := s.lookup(ctx, e.AppointmentID, e.SalonID)
	if err != nil {
		s.log.Warn("skipping reschedule message", "error", err, "appointment_id", e.AppointmentID)
		return nil
	}

	s.send(ctx, details.CustomerPhone, rescheduledMessage(details.CustomerName, details.ServiceName, e.StartTime))
	return nil
}

func (s *Subscriber) handleCancelled(ctx context.Context, event events.Event) error {
	e, ok := event.(events.AppointmentCancelled)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	details, err := s.lookup(ctx, e.AppointmentID, e.SalonID)
	if err != nil {
		s.log.Warn("skipping cancellation message", "error", err, "appointment_id", e.AppointmentID)
		return nil
	}

	s.send(ctx, details.CustomerPhone, cancelledMessage(details.CustomerName, details.ServiceName, e.StartTime))
	return nil
}

func (s *Subscriber) handleReminderDue(ctx context.Context, event events.Event) error {
	e, ok := event.(events.AppointmentReminderDue)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	s.send(ctx, e.CustomerPhone, reminderMessage(e.CustomerName, e.ServiceName, e.ProfessionalName, e.StartTime))
	return nil
}

func (s *Subscriber) lookup(ctx context.Context, appointmentID, salonID uuid.UUID) (repository.AppointmentDetails, error) {
	batch, err := s.details.GetDetailsBatch(ctx, []uuid.UUID{appointmentID}, salonID)
	if err != nil {
		return repository.AppointmentDetails{}, err
	}
	details, ok := batch[appointmentID]
	if !ok {
		return repository.AppointmentDetails{}, fmt.Errorf("appointment %s details not found", appointmentID)
	}
	return details, nil
}

func (s *Subscriber) send(ctx context.Context, phone, message string) {
	if phone == "" {
		return
	}
	if err := s.messenger.SendMessage(ctx, phone, message); err != nil {
		s.log.Warn("failed to send whatsapp message", "error", err, "phone", phone)
	}
}
