package domain

import (
	"time"

	"github.com/google/uuid"
)

// Service is a sellable offering with a fixed duration and price.
// Once referenced by a historical appointment it is treated as immutable
// except for administrative correction.
type Service struct {
	ID        uuid.UUID
	SalonID   uuid.UUID
	Name      string
	Duration  Duration
	Price     Money
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
