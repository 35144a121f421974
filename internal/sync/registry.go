package sync

import (
	"context"

	"salon_booking_backend/internal/domain"
	"salon_booking_backend/platform/breaker"
	"salon_booking_backend/platform/config"
	"salon_booking_backend/platform/logger"
)

type entry struct {
	provider Provider
	breaker  *breaker.Breaker
}

// Registry holds the enabled providers, each behind its own circuit breaker
// so one failing integration cannot exhaust workers meant for the others.
// Registration happens once at startup; lookups afterwards are read-only.
type Registry struct {
	entries []entry
	log     *logger.Logger
}

// NewRegistry wraps each provider in a breaker configured from cfg.
func NewRegistry(cfg config.BreakerConfig, log *logger.Logger, providers ...Provider) *Registry {
	r := &Registry{log: log}
	for _, p := range providers {
		r.entries = append(r.entries, entry{
			provider: p,
			breaker:  breaker.New(p.Name(), cfg, log),
		})
	}
	return r
}

// Names returns the registered provider names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.provider.Name()
	}
	return names
}

// do runs fn against the named provider through its breaker.
func (e entry) do(ctx context.Context, fn func(ctx context.Context, p Provider) error) error {
	return e.breaker.Do(ctx, func(ctx context.Context) error {
		return fn(ctx, e.provider)
	})
}

// Busy collects external busy intervals for a linked calendar from every
// provider that reports them. Best effort: a provider failure is logged and
// its intervals skipped; availability never hard-fails on a remote outage.
func (r *Registry) Busy(ctx context.Context, calendarID string, window domain.DateRange) []domain.DateRange {
	if calendarID == "" {
		return nil
	}

	var busy []domain.DateRange
	for _, e := range r.entries {
		bp, ok := e.provider.(BusyProvider)
		if !ok {
			continue
		}
		var ranges []domain.DateRange
		err := e.do(ctx, func(ctx context.Context, p Provider) error {
			got, err := bp.ListBusy(ctx, calendarID, window)
			if err != nil {
				return err
			}
			ranges = got
			return nil
		})
		if err != nil {
			if r.log != nil {
				r.log.Warn("provider free-busy lookup failed",
					"provider", e.provider.Name(), "calendar_id", calendarID, "error", err)
			}
			continue
		}
		busy = append(busy, ranges...)
	}
	return busy
}
