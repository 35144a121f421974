package domain

import (
	"time"

	"github.com/google/uuid"
)

// TimeSlot is a derived bookable window produced by the availability engine.
// It is never persisted; booking validation consumes it directly.
type TimeSlot struct {
	ProfessionalID uuid.UUID `json:"professionalId"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	Available      bool      `json:"available"`
}

// Range returns the slot's time window.
func (s TimeSlot) Range() DateRange {
	return DateRange{Start: s.StartTime, End: s.EndTime}
}
