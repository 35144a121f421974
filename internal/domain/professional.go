package domain

import (
	"time"

	"github.com/google/uuid"
)

// Professional is a bookable resource owned by one salon. Availability rules
// and appointments reference it by id; it holds no back-pointers to them.
type Professional struct {
	ID      uuid.UUID
	SalonID uuid.UUID
	Name    string
	Phone   *Phone
	Email   *Email
	Active  bool
	// ExternalCalendarID identifies this professional's calendar at the
	// external calendar provider, when one is linked.
	ExternalCalendarID *string
	// ServiceIDs is the set of services this professional can perform.
	ServiceIDs []uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CanPerform reports whether the professional offers the given service.
func (p *Professional) CanPerform(serviceID uuid.UUID) bool {
	for _, id := range p.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}

// AvailabilityRule is a recurring weekly interval during which a professional
// is nominally working, or on a break when IsBreak is set. StartTime and
// EndTime carry only the clock portion (zero date); the availability engine
// projects them onto concrete dates. Rules may overlap; the engine
// de-duplicates at computation time.
type AvailabilityRule struct {
	ID             uuid.UUID
	SalonID        uuid.UUID
	ProfessionalID uuid.UUID
	Weekday        time.Weekday
	StartTime      time.Time
	EndTime        time.Time
	IsBreak        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ScheduleOverride is a one-off interval that removes availability for a
// professional regardless of recurring rules. Overrides only ever subtract.
type ScheduleOverride struct {
	ID             uuid.UUID
	SalonID        uuid.UUID
	ProfessionalID uuid.UUID
	StartTime      time.Time
	EndTime        time.Time
	Reason         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Range returns the override's time window.
func (o ScheduleOverride) Range() DateRange {
	return DateRange{Start: o.StartTime, End: o.EndTime}
}
