package scheduler

import (
	"context"
	"fmt"
	"time"

	"salon_booking_backend/internal/appointments/repository"
	"salon_booking_backend/internal/events"
	appsync "salon_booking_backend/internal/sync"
	"salon_booking_backend/platform/config"
	"salon_booking_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Worker struct {
	server       *asynq.Server
	mux          *asynq.ServeMux
	orchestrator *appsync.Orchestrator
	repo         *repository.Repository
	bus          events.Bus
	log          *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, orchestrator *appsync.Orchestrator, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:       server,
		mux:          mux,
		orchestrator: orchestrator,
		repo:         repository.New(pool),
		bus:          bus,
		log:          log,
	}

	mux.HandleFunc(TaskAppointmentSync, w.handleAppointmentSync)
	mux.HandleFunc(TaskAppointmentSyncRemove, w.handleAppointmentSyncRemove)
	mux.HandleFunc(TaskAppointmentReminder, w.handleAppointmentReminder)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleAppointmentSync mirrors the appointment to all providers. Only
// retryable failures propagate, so asynq re-delivers exactly when a later
// attempt can help.
func (w *Worker) handleAppointmentSync(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAppointmentSyncPayload(task)
	if err != nil {
		return err
	}

	apptID, salonID, err := parseSyncIDs(payload)
	if err != nil {
		return err
	}

	result, err := w.orchestrator.SyncAppointment(ctx, salonID, apptID)
	w.log.Info("appointment sync run", "appointment_id", payload.AppointmentID, "result", fmt.Sprint(result))
	return err
}

func (w *Worker) handleAppointmentSyncRemove(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAppointmentSyncPayload(task)
	if err != nil {
		return err
	}

	apptID, salonID, err := parseSyncIDs(payload)
	if err != nil {
		return err
	}

	result, err := w.orchestrator.RemoveAppointment(ctx, salonID, apptID)
	w.log.Info("appointment sync removal run", "appointment_id", payload.AppointmentID, "result", fmt.Sprint(result))
	return err
}

func (w *Worker) handleAppointmentReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAppointmentReminderPayload(task)
	if err != nil {
		return err
	}

	apptID, salonID, err := parseSyncIDs(AppointmentSyncPayload(payload))
	if err != nil {
		return err
	}

	appt, err := w.repo.GetByID(ctx, apptID, salonID)
	if err != nil {
		return err
	}

	// Cancellations and reschedules after enqueue make the reminder stale.
	if appt.IsCancelled() || appt.IsPast(time.Now()) {
		return nil
	}

	details, err := w.repo.GetDetailsBatch(ctx, []uuid.UUID{appt.ID}, salonID)
	if err != nil {
		return err
	}
	info, ok := details[appt.ID]
	if !ok || info.CustomerPhone == "" {
		return nil
	}

	if w.bus == nil {
		return nil
	}

	w.bus.Publish(ctx, events.AppointmentReminderDue{
		BaseEvent:        events.NewBaseEvent(),
		AppointmentID:    appt.ID,
		SalonID:          appt.SalonID,
		CustomerName:     info.CustomerName,
		CustomerPhone:    info.CustomerPhone,
		ServiceName:      info.ServiceName,
		ProfessionalName: info.ProfessionalName,
		StartTime:        appt.StartTime,
	})

	return nil
}

func parseSyncIDs(payload AppointmentSyncPayload) (uuid.UUID, uuid.UUID, error) {
	apptID, err := uuid.Parse(payload.AppointmentID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	salonID, err := uuid.Parse(payload.SalonID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return apptID, salonID, nil
}
