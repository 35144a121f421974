package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salon_booking_backend/internal/appointments"
	"salon_booking_backend/internal/customers"
	"salon_booking_backend/internal/email"
	apphttp "salon_booking_backend/internal/http"
	"salon_booking_backend/internal/http/router"
	"salon_booking_backend/internal/notify"
	"salon_booking_backend/internal/professionals"
	"salon_booking_backend/internal/scheduler"
	appsync "salon_booking_backend/internal/sync"
	"salon_booking_backend/internal/sync/googlecal"
	"salon_booking_backend/migrations"
	"salon_booking_backend/platform/config"
	"salon_booking_backend/platform/db"
	platformevents "salon_booking_backend/platform/events"
	"salon_booking_backend/platform/logger"
	"salon_booking_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS, ".")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := platformevents.NewInMemoryBus(log)

	jobs, closeJobs := initJobScheduler(cfg, log)
	if closeJobs != nil {
		defer closeJobs()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	professionalsModule := professionals.NewModule(pool, val, log)
	customersModule := customers.NewModule(pool, val, eventBus, log)
	appointmentsModule := appointments.NewModule(
		pool, val,
		professionalsModule.Service,
		customersModule.Service,
		jobs, eventBus, cfg, log,
	)

	// External calendars feed busy intervals into slot computation. Mirror
	// writes themselves run in the scheduler process, not here.
	var providers []appsync.Provider
	if calendar := googlecal.NewClient(cfg, log); calendar != nil {
		providers = append(providers, calendar)
	}
	if len(providers) > 0 {
		registry := appsync.NewRegistry(cfg, log, providers...)
		appointmentsModule.Service.SetExternalBusy(registry)
		log.Info("external free-busy enabled", "providers", registry.Names())
	}

	// Outbound messaging subscribes to domain events (not HTTP-facing)
	whatsappClient := notify.NewClient(cfg, log)
	if whatsappClient != nil {
		notify.NewSubscriber(whatsappClient, appointmentsModule.Repository(), log).Register(eventBus)
		log.Info("whatsapp notifications enabled")
	}

	emailSender := email.NewSMTPSender(cfg)
	if emailSender != nil {
		email.NewSubscriber(emailSender, appointmentsModule.Repository(), log).Register(eventBus)
		log.Info("email notifications enabled")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			professionalsModule,
			customersModule,
			appointmentsModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initJobScheduler(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.JobScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; sync and reminder jobs disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize job scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
