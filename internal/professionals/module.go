// Package professionals provides staff, catalog and working-hour management.
package professionals

import (
	"salon_booking_backend/internal/professionals/handler"
	"salon_booking_backend/internal/professionals/repository"
	"salon_booking_backend/internal/professionals/service"
	apphttp "salon_booking_backend/internal/http"
	"salon_booking_backend/platform/logger"
	"salon_booking_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the professionals domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new professionals module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "professionals"
}

// RegisterRoutes registers the module's routes under /api/v1
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterProfessionalRoutes(ctx.Protected.Group("/professionals"))
	m.handler.RegisterServiceRoutes(ctx.Protected.Group("/services"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
