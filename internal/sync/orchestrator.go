package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"salon_booking_backend/platform/breaker"
	"salon_booking_backend/platform/logger"
)

// Result maps provider name to whether its mirror is confirmed in sync.
type Result map[string]bool

// Orchestrator pushes one appointment's state to every registered provider.
// Providers are independent: each attempt runs in its own goroutine and a
// failure in one never blocks or aborts the others.
type Orchestrator struct {
	registry *Registry
	store    Store
	log      *logger.Logger
}

func NewOrchestrator(registry *Registry, store Store, log *logger.Logger) *Orchestrator {
	return &Orchestrator{registry: registry, store: store, log: log}
}

// SyncAppointment mirrors the appointment to all providers. Providers with a
// stored external id get an update, the rest a create; a cancelled
// appointment is removed instead. The returned error joins only retryable
// failures, so callers (the task worker) can use it as the retry signal while
// permanent failures are logged and dropped.
func (o *Orchestrator) SyncAppointment(ctx context.Context, salonID, appointmentID uuid.UUID) (Result, error) {
	view, err := o.store.GetSyncView(ctx, salonID, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("load appointment for sync: %w", err)
	}
	if view.Cancelled {
		return o.remove(ctx, view)
	}

	ev := eventFromView(view)

	var (
		mu         sync.Mutex
		result     = make(Result, len(o.registry.entries))
		retryables []error
	)
	g := new(errgroup.Group)
	for _, e := range o.registry.entries {
		g.Go(func() error {
			err := o.push(ctx, e, view, ev)

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				result[e.provider.Name()] = true
				return nil
			}
			result[e.provider.Name()] = false
			o.log.SyncFailure(e.provider.Name(), "push", view.AppointmentID.String(), err)
			if breaker.IsRetryable(err) {
				retryables = append(retryables, fmt.Errorf("%s: %w", e.provider.Name(), err))
			}
			return nil
		})
	}
	g.Wait()

	return result, errors.Join(retryables...)
}

// RemoveAppointment deletes the appointment's mirrored events everywhere.
// Providers holding no external id are already in sync.
func (o *Orchestrator) RemoveAppointment(ctx context.Context, salonID, appointmentID uuid.UUID) (Result, error) {
	view, err := o.store.GetSyncView(ctx, salonID, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("load appointment for removal: %w", err)
	}
	return o.remove(ctx, view)
}

func (o *Orchestrator) remove(ctx context.Context, view *View) (Result, error) {
	var (
		mu         sync.Mutex
		result     = make(Result, len(o.registry.entries))
		retryables []error
	)
	g := new(errgroup.Group)
	for _, e := range o.registry.entries {
		name := e.provider.Name()
		externalID, ok := view.ExternalEventIDs[name]
		if !ok {
			result[name] = true
			continue
		}
		g.Go(func() error {
			err := e.do(ctx, func(ctx context.Context, p Provider) error {
				return p.DeleteEvent(ctx, externalID)
			})
			// A missing remote event means someone already deleted it.
			if errors.Is(err, ErrEventNotFound) {
				err = nil
			}
			if err == nil {
				err = o.store.DeleteExternalEventID(ctx, view.AppointmentID, name)
			}

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				result[name] = true
				return nil
			}
			result[name] = false
			o.log.SyncFailure(name, "remove", view.AppointmentID.String(), err)
			if breaker.IsRetryable(err) {
				retryables = append(retryables, fmt.Errorf("%s: %w", name, err))
			}
			return nil
		})
	}
	g.Wait()

	return result, errors.Join(retryables...)
}

// push creates or updates the event at one provider and persists the
// external id on success. An update hitting a vanished remote event falls
// back to create, which heals mirrors wiped on the provider side.
func (o *Orchestrator) push(ctx context.Context, e entry, view *View, ev Event) error {
	name := e.provider.Name()

	if externalID, ok := view.ExternalEventIDs[name]; ok {
		err := e.do(ctx, func(ctx context.Context, p Provider) error {
			return p.UpdateEvent(ctx, externalID, ev)
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrEventNotFound) {
			return err
		}
		if err := o.store.DeleteExternalEventID(ctx, view.AppointmentID, name); err != nil {
			return err
		}
	}

	var externalID string
	err := e.do(ctx, func(ctx context.Context, p Provider) error {
		id, err := p.CreateEvent(ctx, ev)
		if err != nil {
			return err
		}
		externalID = id
		return nil
	})
	if err != nil {
		return err
	}
	return o.store.SaveExternalEventID(ctx, view.AppointmentID, name, externalID)
}

func eventFromView(view *View) Event {
	return Event{
		AppointmentID: view.AppointmentID,
		SalonID:       view.SalonID,
		CalendarID:    view.CalendarID,
		Title:         fmt.Sprintf("%s - %s", view.ServiceName, view.CustomerName),
		Description:   view.Notes,
		Start:         view.Start,
		End:           view.End,
		CustomerName:  view.CustomerName,
		CustomerPhone: view.CustomerPhone,
		ServiceName:   view.ServiceName,
	}
}
