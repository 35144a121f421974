// Package events carries in-process domain events between modules so that
// side effects like notifications stay out of the publishing use case.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event. The name keys handler
// subscriptions, so it must be unique across the application.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent supplies the timestamp half of the Event contract. Concrete
// events embed it and add their own EventName.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// NewBaseEvent stamps an event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// Handler reacts to one event type. Returning an error marks the delivery
// failed; it never affects other handlers.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc lets a plain function subscribe as a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus routes published events to the handlers subscribed under the event's
// name.
type Bus interface {
	// Publish hands the event to every subscribed handler without waiting
	// for them to finish.
	Publish(ctx context.Context, event Event)

	// PublishSync delivers the event and blocks until every handler has
	// run, returning the first handler error. Used in tests and at
	// shutdown.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler under an event name as produced by
	// EventName.
	Subscribe(eventName string, handler Handler)
}
