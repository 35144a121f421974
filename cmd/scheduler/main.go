package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	apptrepo "salon_booking_backend/internal/appointments/repository"
	"salon_booking_backend/internal/email"
	"salon_booking_backend/internal/notify"
	"salon_booking_backend/internal/scheduler"
	appsync "salon_booking_backend/internal/sync"
	"salon_booking_backend/internal/sync/bookingapi"
	"salon_booking_backend/internal/sync/googlecal"
	"salon_booking_backend/platform/config"
	"salon_booking_backend/platform/db"
	platformevents "salon_booking_backend/platform/events"
	"salon_booking_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := platformevents.NewInMemoryBus(log)
	repo := apptrepo.New(pool)

	// Reminder events published by the worker go out over the same channels
	// the API uses.
	whatsappClient := notify.NewClient(cfg, log)
	if whatsappClient != nil {
		notify.NewSubscriber(whatsappClient, repo, log).Register(eventBus)
		log.Info("whatsapp notifications enabled")
	}
	emailSender := email.NewSMTPSender(cfg)
	if emailSender != nil {
		email.NewSubscriber(emailSender, repo, log).Register(eventBus)
		log.Info("email notifications enabled")
	}

	// Provider registry. Disabled providers come back nil and are skipped.
	var providers []appsync.Provider
	if calendar := googlecal.NewClient(cfg, log); calendar != nil {
		providers = append(providers, calendar)
	}
	if booking := bookingapi.NewClient(cfg, log); booking != nil {
		providers = append(providers, booking)
	}
	registry := appsync.NewRegistry(cfg, log, providers...)
	log.Info("sync providers registered", "providers", registry.Names())

	orchestrator := appsync.NewOrchestrator(registry, repo, log)

	worker, err := scheduler.NewWorker(cfg, pool, orchestrator, eventBus, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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
