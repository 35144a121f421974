package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func futureAppointment(t *testing.T, start, end time.Time) *Appointment {
	t.Helper()
	appt, err := NewAppointment(uuid.New(), uuid.New(), uuid.New(), uuid.New(), start, end, nil)
	if err != nil {
		t.Fatalf("NewAppointment failed: %v", err)
	}
	return appt
}

func TestNewAppointmentRejectsInvertedRange(t *testing.T) {
	start := time.Now().Add(2 * time.Hour)
	_, err := NewAppointment(uuid.New(), uuid.New(), uuid.New(), uuid.New(), start, start.Add(-30*time.Minute), nil)
	if !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange, got %v", err)
	}

	_, err = NewAppointment(uuid.New(), uuid.New(), uuid.New(), uuid.New(), start, start, nil)
	if !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange for zero-length range, got %v", err)
	}
}

func TestCancelFutureAppointment(t *testing.T) {
	now := time.Now()
	appt := futureAppointment(t, now.Add(2*time.Hour), now.Add(3*time.Hour))

	if err := appt.Cancel(now); err != nil {
		t.Fatalf("cancel of future appointment failed: %v", err)
	}
	if appt.Status != StatusCancelled {
		t.Fatalf("expected status cancelled, got %s", appt.Status)
	}

	// Second cancel must fail cleanly, never double-effect.
	if err := appt.Cancel(now); !errors.Is(err, ErrAlreadyCancelled) {
		t.Fatalf("expected ErrAlreadyCancelled on repeat cancel, got %v", err)
	}
}

func TestCancelPastAppointmentFails(t *testing.T) {
	now := time.Now()
	appt := futureAppointment(t, now.Add(time.Hour), now.Add(2*time.Hour))

	err := appt.Cancel(now.Add(90 * time.Minute))
	if !errors.Is(err, ErrPastAppointment) {
		t.Fatalf("expected ErrPastAppointment, got %v", err)
	}
	if appt.Status == StatusCancelled {
		t.Fatal("past appointment must not be mutated")
	}
}

func TestConfirmTransitions(t *testing.T) {
	now := time.Now()
	appt := futureAppointment(t, now.Add(time.Hour), now.Add(2*time.Hour))

	if appt.Status != StatusPending {
		t.Fatalf("new appointment should be pending, got %s", appt.Status)
	}
	if err := appt.Confirm(); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if appt.Status != StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", appt.Status)
	}

	if err := appt.Cancel(now); err != nil {
		t.Fatalf("cancel of confirmed appointment failed: %v", err)
	}
	if err := appt.Confirm(); !errors.Is(err, ErrAlreadyCancelled) {
		t.Fatalf("expected ErrAlreadyCancelled confirming cancelled appointment, got %v", err)
	}
}

func TestRescheduleGuards(t *testing.T) {
	now := time.Now()
	appt := futureAppointment(t, now.Add(time.Hour), now.Add(2*time.Hour))

	newStart := now.Add(4 * time.Hour)
	if err := appt.Reschedule(newStart, newStart.Add(time.Hour), now); err != nil {
		t.Fatalf("reschedule failed: %v", err)
	}
	if !appt.StartTime.Equal(newStart) {
		t.Fatalf("start not updated, got %v", appt.StartTime)
	}

	if err := appt.Reschedule(newStart, newStart, now); !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange, got %v", err)
	}

	if err := appt.Reschedule(newStart, newStart.Add(time.Hour), newStart.Add(time.Minute)); !errors.Is(err, ErrPastAppointment) {
		t.Fatalf("expected ErrPastAppointment rescheduling a started appointment, got %v", err)
	}
}

func TestExternalEventIDLifecycle(t *testing.T) {
	now := time.Now()
	appt := futureAppointment(t, now.Add(time.Hour), now.Add(2*time.Hour))

	if err := appt.SetExternalEventID("google_calendar", "evt-123"); err != nil {
		t.Fatalf("set external id failed: %v", err)
	}
	if id, ok := appt.ExternalEventID("google_calendar"); !ok || id != "evt-123" {
		t.Fatalf("expected evt-123, got %q ok=%v", id, ok)
	}
	if appt.Status != StatusPending {
		t.Fatalf("recording sync must not change status, got %s", appt.Status)
	}

	if err := appt.Cancel(now); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	// Removal runs after cancellation, so clearing stays allowed.
	appt.ClearExternalEventID("google_calendar")
	if _, ok := appt.ExternalEventID("google_calendar"); ok {
		t.Fatal("external id should be cleared")
	}

	if err := appt.SetExternalEventID("google_calendar", "evt-456"); !errors.Is(err, ErrAlreadyCancelled) {
		t.Fatalf("expected ErrAlreadyCancelled setting id on cancelled appointment, got %v", err)
	}
}
