package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"salon_booking_backend/internal/appointments/repository"
	"salon_booking_backend/internal/events"
	platformevents "salon_booking_backend/platform/events"
	"salon_booking_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeMessenger struct {
	sent []sentMessage
	err  error
}

type sentMessage struct {
	phone   string
	message string
}

func (f *fakeMessenger) SendMessage(_ context.Context, phone, message string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{phone: phone, message: message})
	return nil
}

type fakeDetails struct {
	byID map[uuid.UUID]repository.AppointmentDetails
}

func (f *fakeDetails) GetDetailsBatch(_ context.Context, ids []uuid.UUID, _ uuid.UUID) (map[uuid.UUID]repository.AppointmentDetails, error) {
	out := make(map[uuid.UUID]repository.AppointmentDetails)
	for _, id := range ids {
		if d, ok := f.byID[id]; ok {
			out[id] = d
		}
	}
	return out, nil
}

func newTestSubscriber(messenger *fakeMessenger, details *fakeDetails) (*Subscriber, *platformevents.InMemoryBus) {
	log := logger.New("test")
	sub := NewSubscriber(messenger, details, log)
	bus := platformevents.NewInMemoryBus(log)
	sub.Register(bus)
	return sub, bus
}

func TestBookedEventSendsConfirmation(t *testing.T) {
	apptID := uuid.New()
	messenger := &fakeMessenger{}
	details := &fakeDetails{byID: map[uuid.UUID]repository.AppointmentDetails{
		apptID: {CustomerName: "Maria Silva", CustomerPhone: "5511987654321", ServiceName: "Corte"},
	}}
	_, bus := newTestSubscriber(messenger, details)

	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	err := bus.PublishSync(context.Background(), events.AppointmentBooked{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: apptID,
		SalonID:       uuid.New(),
		CustomerID:    uuid.New(),
		StartTime:     start,
	})
	if err != nil {
		t.Fatalf("PublishSync: %v", err)
	}

	if len(messenger.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(messenger.sent))
	}
	msg := messenger.sent[0]
	if msg.phone != "5511987654321" {
		t.Errorf("phone = %q", msg.phone)
	}
	if !strings.Contains(msg.message, "Corte") || !strings.Contains(msg.message, "02/03/2026 10:00") {
		t.Errorf("message = %q", msg.message)
	}
}

func TestReminderEventUsesEventPayload(t *testing.T) {
	messenger := &fakeMessenger{}
	_, bus := newTestSubscriber(messenger, &fakeDetails{})

	err := bus.PublishSync(context.Background(), events.AppointmentReminderDue{
		BaseEvent:        events.NewBaseEvent(),
		AppointmentID:    uuid.New(),
		SalonID:          uuid.New(),
		CustomerName:     "Maria Silva",
		CustomerPhone:    "5511987654321",
		ServiceName:      "Corte",
		ProfessionalName: "Ana Souza",
		StartTime:        time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("PublishSync: %v", err)
	}

	if len(messenger.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(messenger.sent))
	}
	if !strings.Contains(messenger.sent[0].message, "Ana Souza") {
		t.Errorf("reminder message = %q", messenger.sent[0].message)
	}
}

func TestMissingDetailsDoesNotFailHandler(t *testing.T) {
	messenger := &fakeMessenger{}
	_, bus := newTestSubscriber(messenger, &fakeDetails{})

	err := bus.PublishSync(context.Background(), events.AppointmentCancelled{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: uuid.New(),
		SalonID:       uuid.New(),
	})
	if err != nil {
		t.Fatalf("PublishSync: %v", err)
	}
	if len(messenger.sent) != 0 {
		t.Errorf("sent %d messages, want 0", len(messenger.sent))
	}
}

func TestGatewayFailureIsSwallowed(t *testing.T) {
	apptID := uuid.New()
	messenger := &fakeMessenger{err: errors.New("gateway down")}
	details := &fakeDetails{byID: map[uuid.UUID]repository.AppointmentDetails{
		apptID: {CustomerName: "Maria Silva", CustomerPhone: "5511987654321", ServiceName: "Corte"},
	}}
	_, bus := newTestSubscriber(messenger, details)

	err := bus.PublishSync(context.Background(), events.AppointmentBooked{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: apptID,
		SalonID:       uuid.New(),
	})
	if err != nil {
		t.Fatalf("PublishSync should not propagate gateway errors, got %v", err)
	}
}
