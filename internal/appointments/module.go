// Package appointments provides the appointment booking domain module.
package appointments

import (
	"salon_booking_backend/internal/appointments/handler"
	"salon_booking_backend/internal/appointments/repository"
	"salon_booking_backend/internal/appointments/service"
	"salon_booking_backend/internal/events"
	apphttp "salon_booking_backend/internal/http"
	"salon_booking_backend/internal/scheduler"
	"salon_booking_backend/platform/config"
	"salon_booking_backend/platform/logger"
	"salon_booking_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the appointments domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
	repo    *repository.Repository
}

// NewModule creates a new appointments module with all dependencies wired.
// catalog and customers come from their owning modules; jobs may be nil when
// Redis is not configured.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, catalog service.Catalog, customers service.Customers, jobs scheduler.JobScheduler, bus events.Bus, cfg config.BookingConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, catalog, customers, jobs, bus, cfg, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
		repo:    repo,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "appointments"
}

// Repository exposes the repository for the sync orchestrator's store.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes registers the module's routes under /api/v1/appointments
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	appointments := ctx.Protected.Group("/appointments")
	m.handler.RegisterRoutes(appointments)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
