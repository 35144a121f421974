// Package customers provides phone-first customer identification and profiles.
package customers

import (
	"salon_booking_backend/internal/customers/handler"
	"salon_booking_backend/internal/customers/repository"
	"salon_booking_backend/internal/customers/service"
	"salon_booking_backend/internal/events"
	apphttp "salon_booking_backend/internal/http"
	"salon_booking_backend/platform/logger"
	"salon_booking_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the customers domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new customers module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "customers"
}

// RegisterRoutes registers the module's routes under /api/v1/customers
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	customers := ctx.Protected.Group("/customers")
	m.handler.RegisterRoutes(customers)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
