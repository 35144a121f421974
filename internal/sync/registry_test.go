package sync

import (
	"context"
	"testing"
	"time"

	"salon_booking_backend/internal/domain"
	"salon_booking_backend/platform/apperr"
	"salon_booking_backend/platform/logger"
)

type busyFakeProvider struct {
	fakeProvider
	busy    []domain.DateRange
	busyErr error
	calls   int
}

func (f *busyFakeProvider) ListBusy(_ context.Context, _ string, _ domain.DateRange) ([]domain.DateRange, error) {
	f.calls++
	if f.busyErr != nil {
		return nil, f.busyErr
	}
	return f.busy, nil
}

func testWindow() domain.DateRange {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return domain.DateRange{Start: start, End: start.AddDate(0, 0, 1)}
}

func TestBusyMergesReportingProviders(t *testing.T) {
	interval := domain.DateRange{
		Start: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
	}
	cal := &busyFakeProvider{fakeProvider: fakeProvider{name: "google_calendar"}, busy: []domain.DateRange{interval}}
	book := &fakeProvider{name: "booking_platform"}

	registry := NewRegistry(breakerSettings{}, logger.New("development"), cal, book)
	busy := registry.Busy(context.Background(), "cal-1", testWindow())

	if len(busy) != 1 || !busy[0].Start.Equal(interval.Start) {
		t.Fatalf("expected the calendar interval, got %v", busy)
	}
	if cal.calls != 1 {
		t.Fatalf("expected one free-busy call, got %d", cal.calls)
	}
}

func TestBusySkipsFailingProvider(t *testing.T) {
	interval := domain.DateRange{
		Start: time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC),
	}
	down := &busyFakeProvider{fakeProvider: fakeProvider{name: "google_calendar"}, busyErr: apperr.Unavailable("calendar down")}
	up := &busyFakeProvider{fakeProvider: fakeProvider{name: "other_calendar"}, busy: []domain.DateRange{interval}}

	registry := NewRegistry(breakerSettings{}, logger.New("development"), down, up)
	busy := registry.Busy(context.Background(), "cal-1", testWindow())

	if len(busy) != 1 || !busy[0].End.Equal(interval.End) {
		t.Fatalf("healthy provider intervals must survive a failing peer, got %v", busy)
	}
}

func TestBusyWithoutLinkedCalendarIsNoop(t *testing.T) {
	cal := &busyFakeProvider{fakeProvider: fakeProvider{name: "google_calendar"}}

	registry := NewRegistry(breakerSettings{}, logger.New("development"), cal)
	if busy := registry.Busy(context.Background(), "", testWindow()); busy != nil {
		t.Fatalf("expected nil for an unlinked professional, got %v", busy)
	}
	if cal.calls != 0 {
		t.Fatal("provider must not be called without a calendar id")
	}
}
