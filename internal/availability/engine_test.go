package availability

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"salon_booking_backend/internal/domain"
)

var monday = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func clock(hour, min int) time.Time {
	return time.Date(0, time.January, 1, hour, min, 0, 0, time.UTC)
}

func at(hour, min int) time.Time {
	return time.Date(2026, time.March, 2, hour, min, 0, 0, time.UTC)
}

func rule(profID uuid.UUID, day time.Weekday, startH, startM, endH, endM int, isBreak bool) domain.AvailabilityRule {
	return domain.AvailabilityRule{
		ID:             uuid.New(),
		ProfessionalID: profID,
		Weekday:        day,
		StartTime:      clock(startH, startM),
		EndTime:        clock(endH, endM),
		IsBreak:        isBreak,
	}
}

func appointment(profID uuid.UUID, start, end time.Time, status domain.AppointmentStatus) domain.Appointment {
	return domain.Appointment{
		ID:             uuid.New(),
		ProfessionalID: profID,
		StartTime:      start,
		EndTime:        end,
		Status:         status,
	}
}

func slotStarts(slots []domain.TimeSlot) []time.Time {
	out := make([]time.Time, len(slots))
	for i, s := range slots {
		out[i] = s.StartTime
	}
	return out
}

func TestSlotsWorkdayWithBreakAndBooking(t *testing.T) {
	profID := uuid.New()
	in := Input{
		ProfessionalID: profID,
		Date:           monday,
		Rules: []domain.AvailabilityRule{
			rule(profID, time.Monday, 9, 0, 17, 0, false),
			rule(profID, time.Monday, 12, 0, 13, 0, true),
		},
		Appointments: []domain.Appointment{
			appointment(profID, at(10, 0), at(10, 30), domain.StatusConfirmed),
		},
		ServiceDuration: domain.Duration(30),
	}

	got := slotStarts(Slots(in))

	want := []time.Time{
		at(9, 0), at(9, 30),
		// The grid restarts right after the 10:00 booking ends.
		at(10, 30), at(11, 0), at(11, 30),
		at(13, 0), at(13, 30), at(14, 0), at(14, 30),
		at(15, 0), at(15, 30), at(16, 0), at(16, 30),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d slots, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("slot %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	for _, s := range Slots(in) {
		if s.ProfessionalID != profID || !s.Available {
			t.Fatalf("slot not attributed/available: %+v", s)
		}
	}
}

func TestSlotsRuleClockCarrierZoneIgnored(t *testing.T) {
	profID := uuid.New()
	zone := time.FixedZone("UTC-3", -3*60*60)
	r := rule(profID, time.Monday, 9, 0, 17, 0, false)
	// Same instants, expressed in a non-UTC zone, as a timestamptz scan on a
	// host with a local offset would produce them.
	r.StartTime = r.StartTime.In(zone)
	r.EndTime = r.EndTime.In(zone)

	in := Input{
		ProfessionalID:  profID,
		Date:            monday,
		Rules:           []domain.AvailabilityRule{r},
		ServiceDuration: domain.Duration(30),
	}

	got := slotStarts(Slots(in))
	if len(got) == 0 || !got[0].Equal(at(9, 0)) {
		t.Fatalf("expected first slot at 09:00 UTC, got %v", got)
	}
	if last := got[len(got)-1]; !last.Equal(at(16, 30)) {
		t.Fatalf("expected last slot at 16:30 UTC, got %v", last)
	}
}

func TestSlotsCancelledAppointmentsIgnored(t *testing.T) {
	profID := uuid.New()
	in := Input{
		ProfessionalID: profID,
		Date:           monday,
		Rules: []domain.AvailabilityRule{
			rule(profID, time.Monday, 9, 0, 10, 0, false),
		},
		Appointments: []domain.Appointment{
			appointment(profID, at(9, 0), at(9, 30), domain.StatusCancelled),
		},
		ServiceDuration: domain.Duration(30),
	}

	got := slotStarts(Slots(in))
	if len(got) != 2 || !got[0].Equal(at(9, 0)) || !got[1].Equal(at(9, 30)) {
		t.Fatalf("cancelled appointment must free its window, got %v", got)
	}
}

func TestSlotsOverrideAndExternalBusy(t *testing.T) {
	profID := uuid.New()
	in := Input{
		ProfessionalID: profID,
		Date:           monday,
		Rules: []domain.AvailabilityRule{
			rule(profID, time.Monday, 9, 0, 12, 0, false),
		},
		Overrides: []domain.ScheduleOverride{
			{ProfessionalID: profID, StartTime: at(9, 0), EndTime: at(10, 0), Reason: "dentist"},
		},
		Busy: []domain.DateRange{
			{Start: at(11, 0), End: at(11, 30)},
		},
		ServiceDuration: domain.Duration(60),
	}

	got := slotStarts(Slots(in))
	// Only 10:00-11:00 fits a full hour between the override and the busy block.
	if len(got) != 1 || !got[0].Equal(at(10, 0)) {
		t.Fatalf("expected single 10:00 slot, got %v", got)
	}
}

func TestSlotsNonWorkingDayEmpty(t *testing.T) {
	profID := uuid.New()
	in := Input{
		ProfessionalID: profID,
		Date:           monday.AddDate(0, 0, 1), // Tuesday, no rules
		Rules: []domain.AvailabilityRule{
			rule(profID, time.Monday, 9, 0, 17, 0, false),
		},
		ServiceDuration: domain.Duration(30),
	}
	if got := Slots(in); len(got) != 0 {
		t.Fatalf("expected no slots on a day without rules, got %v", got)
	}
}

func TestSlotsPastStartsFiltered(t *testing.T) {
	profID := uuid.New()
	in := Input{
		ProfessionalID: profID,
		Date:           monday,
		Rules: []domain.AvailabilityRule{
			rule(profID, time.Monday, 9, 0, 11, 0, false),
		},
		ServiceDuration: domain.Duration(30),
		Now:             at(9, 45),
	}

	got := slotStarts(Slots(in))
	if len(got) != 3 || !got[0].Equal(at(10, 0)) {
		t.Fatalf("expected slots from 10:00, got %v", got)
	}
}

func TestSlotsServiceLongerThanWindow(t *testing.T) {
	profID := uuid.New()
	in := Input{
		ProfessionalID: profID,
		Date:           monday,
		Rules: []domain.AvailabilityRule{
			rule(profID, time.Monday, 9, 0, 10, 0, false),
		},
		ServiceDuration: domain.Duration(90),
	}
	if got := Slots(in); len(got) != 0 {
		t.Fatalf("service longer than window must yield nothing, got %v", got)
	}
}

func TestFreeRangesMergesOverlappingRules(t *testing.T) {
	profID := uuid.New()
	in := Input{
		ProfessionalID: profID,
		Date:           monday,
		Rules: []domain.AvailabilityRule{
			rule(profID, time.Monday, 9, 0, 13, 0, false),
			rule(profID, time.Monday, 12, 0, 17, 0, false),
		},
	}

	got := FreeRanges(in)
	if len(got) != 1 {
		t.Fatalf("overlapping rules should merge into one range, got %v", got)
	}
	if !got[0].Start.Equal(at(9, 0)) || !got[0].End.Equal(at(17, 0)) {
		t.Fatalf("expected 09:00-17:00, got %v", got[0])
	}
}

func TestFreeRangesBlockSpanningWindowEdge(t *testing.T) {
	profID := uuid.New()
	in := Input{
		ProfessionalID: profID,
		Date:           monday,
		Rules: []domain.AvailabilityRule{
			rule(profID, time.Monday, 9, 0, 12, 0, false),
		},
		Busy: []domain.DateRange{
			{Start: at(8, 0), End: at(9, 30)},
			{Start: at(11, 45), End: at(13, 0)},
		},
	}

	got := FreeRanges(in)
	if len(got) != 1 {
		t.Fatalf("expected one free range, got %v", got)
	}
	if !got[0].Start.Equal(at(9, 30)) || !got[0].End.Equal(at(11, 45)) {
		t.Fatalf("expected 09:30-11:45, got %v", got[0])
	}
}
