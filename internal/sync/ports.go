// Package sync mirrors appointments into external systems (calendar and
// booking-platform providers) after they are persisted locally. The local
// database is the source of truth; a failed mirror never rolls back a booking.
package sync

import (
	"context"
	"time"

	"github.com/google/uuid"

	"salon_booking_backend/internal/domain"
	"salon_booking_backend/platform/apperr"
)

// ErrEventNotFound is returned by providers when the referenced external
// event no longer exists. Removal treats it as success so retries stay
// idempotent.
var ErrEventNotFound = apperr.NotFound("external event not found")

// Event is the provider-neutral projection of an appointment. Adapters map
// it onto their own wire format.
type Event struct {
	AppointmentID uuid.UUID
	SalonID       uuid.UUID
	// CalendarID is the professional's linked calendar at the provider.
	// Empty for providers that key on salon credentials alone.
	CalendarID    string
	Title         string
	Description   string
	Start         time.Time
	End           time.Time
	CustomerName  string
	CustomerPhone string
	ServiceName   string
}

// Provider is one external system the orchestrator mirrors into. Adapters
// return the provider's event id from CreateEvent; the orchestrator persists
// it and passes it back for updates and removal.
type Provider interface {
	Name() string
	CreateEvent(ctx context.Context, ev Event) (string, error)
	UpdateEvent(ctx context.Context, externalID string, ev Event) error
	DeleteEvent(ctx context.Context, externalID string) error
}

// BusyProvider is implemented by providers that can report intervals already
// taken on an external calendar. Slot computation merges these in so bookings
// made directly at the provider block local slots too.
type BusyProvider interface {
	ListBusy(ctx context.Context, calendarID string, window domain.DateRange) ([]domain.DateRange, error)
}

// View is the enriched appointment snapshot the orchestrator syncs from.
// It is loaded in one query batch so a sync run never fans out reads.
type View struct {
	AppointmentID    uuid.UUID
	SalonID          uuid.UUID
	ProfessionalID   uuid.UUID
	Start            time.Time
	End              time.Time
	Cancelled        bool
	Notes            string
	CustomerName     string
	CustomerPhone    string
	ServiceName      string
	CalendarID       string
	ExternalEventIDs map[string]string
}

// Store is the persistence surface the orchestrator needs. External id
// writes are independent of appointment row updates so a mirror confirmation
// never contends with user-facing writes.
type Store interface {
	GetSyncView(ctx context.Context, salonID, appointmentID uuid.UUID) (*View, error)
	SaveExternalEventID(ctx context.Context, appointmentID uuid.UUID, provider, externalID string) error
	DeleteExternalEventID(ctx context.Context, appointmentID uuid.UUID, provider string) error
}
