// Package availability computes bookable time slots for a professional on a
// given day. It is pure: all scheduling data is passed in and no clock or
// store is consulted, which keeps slot generation deterministic and testable.
package availability

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"salon_booking_backend/internal/domain"
)

// DefaultStep is the slot grid used when the caller does not configure one.
const DefaultStep = 30 * time.Minute

// Input carries everything slot computation needs for one professional and
// one calendar day. Date's year/month/day in Location select the day; its
// clock portion is ignored. Appointments in the cancelled state are skipped,
// so callers may pass them unfiltered.
type Input struct {
	ProfessionalID uuid.UUID
	Date           time.Time
	Location       *time.Location

	Rules        []domain.AvailabilityRule
	Overrides    []domain.ScheduleOverride
	Appointments []domain.Appointment
	// Busy holds externally sourced blocked intervals, e.g. events pulled
	// from a linked calendar.
	Busy []domain.DateRange

	ServiceDuration domain.Duration
	// Step is the slot grid spacing. Zero means DefaultStep.
	Step time.Duration
	// Now filters out slots that start in the past. Zero disables the filter.
	Now time.Time
}

func (in Input) step() time.Duration {
	if in.Step <= 0 {
		return DefaultStep
	}
	return in.Step
}

func (in Input) location() *time.Location {
	if in.Location != nil {
		return in.Location
	}
	return in.Date.Location()
}

// Slots returns the bookable start times for the input day, sorted ascending.
// A slot is emitted for every grid position inside a free range where the
// full service duration fits. Slots restart at the beginning of each free
// range, so availability directly after an existing appointment is not lost
// to grid alignment.
func Slots(in Input) []domain.TimeSlot {
	dur := in.ServiceDuration.AsTime()
	if dur <= 0 {
		return nil
	}
	step := in.step()

	var slots []domain.TimeSlot
	for _, free := range FreeRanges(in) {
		for start := free.Start; !start.Add(dur).After(free.End); start = start.Add(step) {
			if !in.Now.IsZero() && start.Before(in.Now) {
				continue
			}
			slots = append(slots, domain.TimeSlot{
				ProfessionalID: in.ProfessionalID,
				StartTime:      start,
				EndTime:        start.Add(dur),
				Available:      true,
			})
		}
	}
	return slots
}

// FreeRanges returns the professional's unblocked working intervals for the
// input day: recurring working rules projected onto the date, minus breaks,
// overrides, existing appointments and external busy intervals. Ranges are
// sorted, non-overlapping and non-empty.
func FreeRanges(in Input) []domain.DateRange {
	working := projectRules(in, false)
	if len(working) == 0 {
		return nil
	}
	working = mergeRanges(working)

	blocked := projectRules(in, true)
	for _, o := range in.Overrides {
		blocked = append(blocked, o.Range())
	}
	for _, a := range in.Appointments {
		if a.IsCancelled() {
			continue
		}
		blocked = append(blocked, a.Range())
	}
	blocked = append(blocked, in.Busy...)
	blocked = mergeRanges(blocked)

	return subtractRanges(working, blocked)
}

// projectRules turns the rules matching the day's weekday into concrete
// ranges on that date. Rules whose clock range is inverted or empty are
// skipped rather than rejected; a bad row must not sink the whole day.
func projectRules(in Input, breaks bool) []domain.DateRange {
	loc := in.location()
	y, m, d := in.Date.In(loc).Date()
	weekday := in.Date.In(loc).Weekday()

	var out []domain.DateRange
	for _, r := range in.Rules {
		if r.Weekday != weekday || r.IsBreak != breaks {
			continue
		}
		// Rule clocks are defined in UTC on the zero date; read them there
		// no matter what location the carrier value arrived in.
		rs, re := r.StartTime.UTC(), r.EndTime.UTC()
		start := time.Date(y, m, d, rs.Hour(), rs.Minute(), 0, 0, loc)
		end := time.Date(y, m, d, re.Hour(), re.Minute(), 0, 0, loc)
		if !start.Before(end) {
			continue
		}
		out = append(out, domain.DateRange{Start: start, End: end})
	}
	return out
}

// mergeRanges sorts and coalesces overlapping or touching ranges.
func mergeRanges(ranges []domain.DateRange) []domain.DateRange {
	if len(ranges) <= 1 {
		return ranges
	}
	sort.Slice(ranges, func(i, j int) bool {
		return ranges[i].Start.Before(ranges[j].Start)
	})

	merged := ranges[:1]
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		if !r.Start.After(last.End) {
			if r.End.After(last.End) {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// subtractRanges removes every blocked interval from the free set. Both
// inputs must be sorted and merged.
func subtractRanges(free, blocked []domain.DateRange) []domain.DateRange {
	var out []domain.DateRange
	for _, f := range free {
		cursor := f.Start
		for _, b := range blocked {
			if !b.End.After(cursor) || !b.Start.Before(f.End) {
				continue
			}
			if b.Start.After(cursor) {
				out = append(out, domain.DateRange{Start: cursor, End: b.Start})
			}
			if b.End.After(cursor) {
				cursor = b.End
			}
		}
		if cursor.Before(f.End) {
			out = append(out, domain.DateRange{Start: cursor, End: f.End})
		}
	}
	return out
}
