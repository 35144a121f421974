// Package service implements the appointment booking use cases.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"salon_booking_backend/internal/appointments/repository"
	"salon_booking_backend/internal/appointments/transport"
	"salon_booking_backend/internal/availability"
	"salon_booking_backend/internal/domain"
	"salon_booking_backend/internal/events"
	"salon_booking_backend/internal/scheduler"
	"salon_booking_backend/platform/apperr"
	"salon_booking_backend/platform/config"
	"salon_booking_backend/platform/logger"
)

// Repo is the appointment persistence surface the service depends on.
type Repo interface {
	Create(ctx context.Context, appt *domain.Appointment) error
	GetByID(ctx context.Context, id, salonID uuid.UUID) (*domain.Appointment, error)
	Update(ctx context.Context, appt *domain.Appointment) error
	List(ctx context.Context, params repository.ListParams) (*repository.ListResult, error)
	ListForDateRange(ctx context.Context, salonID, professionalID uuid.UUID, start, end time.Time) ([]domain.Appointment, error)
	ListUpcomingByCustomer(ctx context.Context, salonID, customerID uuid.UUID, now time.Time) ([]domain.Appointment, error)
	ListAvailabilityRules(ctx context.Context, salonID, professionalID uuid.UUID) ([]domain.AvailabilityRule, error)
	ListOverridesInRange(ctx context.Context, salonID, professionalID uuid.UUID, start, end time.Time) ([]domain.ScheduleOverride, error)
	GetDetailsBatch(ctx context.Context, appointmentIDs []uuid.UUID, salonID uuid.UUID) (map[uuid.UUID]repository.AppointmentDetails, error)
}

// Catalog resolves professionals and services owned by the salon.
type Catalog interface {
	GetProfessional(ctx context.Context, id, salonID uuid.UUID) (*domain.Professional, error)
	GetService(ctx context.Context, id, salonID uuid.UUID) (*domain.Service, error)
}

// Customers resolves customer records owned by the salon.
type Customers interface {
	GetCustomer(ctx context.Context, id, salonID uuid.UUID) (*domain.Customer, error)
	GetCustomerByPhone(ctx context.Context, salonID uuid.UUID, rawPhone string) (*domain.Customer, error)
}

// BusySource reports externally booked intervals for a linked calendar. A nil
// or empty result leaves slot computation on local data alone.
type BusySource interface {
	Busy(ctx context.Context, calendarID string, window domain.DateRange) []domain.DateRange
}

// Service implements the appointment use cases.
type Service struct {
	repo      Repo
	catalog   Catalog
	customers Customers
	jobs      scheduler.JobScheduler
	bus       events.Bus
	busy      BusySource
	cfg       config.BookingConfig
	log       *logger.Logger
	now       func() time.Time
}

// New creates the appointment service. jobs and bus may be nil in tests.
func New(repo Repo, catalog Catalog, customers Customers, jobs scheduler.JobScheduler, bus events.Bus, cfg config.BookingConfig, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		catalog:   catalog,
		customers: customers,
		jobs:      jobs,
		bus:       bus,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// SetExternalBusy enables merging externally booked intervals into slot
// computation for professionals with a linked calendar.
func (s *Service) SetExternalBusy(src BusySource) {
	s.busy = src
}

// Create books a new appointment. The requested window must lie entirely
// inside the professional's free time; the database exclusion constraint
// backstops races that slip past this check.
func (s *Service) Create(ctx context.Context, salonID uuid.UUID, req transport.CreateAppointmentRequest) (*transport.AppointmentResponse, error) {
	now := s.now()
	if req.StartTime.Before(now) {
		return nil, domain.ErrPastAppointment
	}

	svc, err := s.catalog.GetService(ctx, req.ServiceID, salonID)
	if err != nil {
		return nil, err
	}
	if !svc.Active {
		return nil, apperr.Validation("service is not bookable")
	}

	prof, err := s.catalog.GetProfessional(ctx, req.ProfessionalID, salonID)
	if err != nil {
		return nil, err
	}
	if !prof.Active {
		return nil, apperr.Validation("professional is not bookable")
	}
	if !prof.CanPerform(svc.ID) {
		return nil, domain.ErrCannotPerformService
	}

	if _, err := s.customers.GetCustomer(ctx, req.CustomerID, salonID); err != nil {
		return nil, err
	}

	end := req.StartTime.Add(svc.Duration.AsTime())
	if err := s.ensureSlotFree(ctx, salonID, prof.ID, req.StartTime, end, uuid.Nil); err != nil {
		return nil, err
	}

	appt, err := domain.NewAppointment(salonID, prof.ID, req.CustomerID, svc.ID, req.StartTime, end, req.Notes)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, appt); err != nil {
		return nil, err
	}

	s.publish(ctx, events.AppointmentBooked{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: appt.ID,
		SalonID:       appt.SalonID,
		CustomerID:    appt.CustomerID,
		StartTime:     appt.StartTime,
	})
	s.scheduleSync(ctx, appt)
	s.scheduleReminder(ctx, appt, now)

	return s.respond(ctx, appt)
}

// GetByID retrieves one appointment with display details.
func (s *Service) GetByID(ctx context.Context, salonID, id uuid.UUID) (*transport.AppointmentResponse, error) {
	appt, err := s.repo.GetByID(ctx, id, salonID)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, appt)
}

// List returns a filtered, paginated appointment listing. Display details for
// the whole page are resolved in one batch query.
func (s *Service) List(ctx context.Context, salonID uuid.UUID, query transport.ListAppointmentsQuery) (*transport.ListAppointmentsResponse, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	result, err := s.repo.List(ctx, repository.ListParams{
		SalonID:        salonID,
		ProfessionalID: query.ProfessionalID,
		CustomerID:     query.CustomerID,
		Status:         query.Status,
		StartFrom:      query.StartFrom,
		StartTo:        query.StartTo,
		Page:           page,
		PageSize:       pageSize,
	})
	if err != nil {
		return nil, err
	}

	items, err := s.respondBatch(ctx, salonID, result.Items)
	if err != nil {
		return nil, err
	}

	return &transport.ListAppointmentsResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// GetUpcomingByCustomer returns the customer's active future appointments
// with details resolved in one batch.
func (s *Service) GetUpcomingByCustomer(ctx context.Context, salonID, customerID uuid.UUID) ([]transport.AppointmentResponse, error) {
	appts, err := s.repo.ListUpcomingByCustomer(ctx, salonID, customerID, s.now())
	if err != nil {
		return nil, err
	}
	return s.respondBatch(ctx, salonID, appts)
}

// GetUpcomingByPhone resolves the customer behind a raw phone number and
// returns their active future appointments.
func (s *Service) GetUpcomingByPhone(ctx context.Context, salonID uuid.UUID, rawPhone string) ([]transport.AppointmentResponse, error) {
	customer, err := s.customers.GetCustomerByPhone(ctx, salonID, rawPhone)
	if err != nil {
		return nil, err
	}
	return s.GetUpcomingByCustomer(ctx, salonID, customer.ID)
}

// Reschedule moves the appointment to a new start time, keeping the duration
// of its service.
func (s *Service) Reschedule(ctx context.Context, salonID, id uuid.UUID, req transport.RescheduleAppointmentRequest) (*transport.AppointmentResponse, error) {
	now := s.now()
	if req.StartTime.Before(now) {
		return nil, domain.ErrPastAppointment
	}

	appt, err := s.repo.GetByID(ctx, id, salonID)
	if err != nil {
		return nil, err
	}

	svc, err := s.catalog.GetService(ctx, appt.ServiceID, salonID)
	if err != nil {
		return nil, err
	}

	end := req.StartTime.Add(svc.Duration.AsTime())
	if err := s.ensureSlotFree(ctx, salonID, appt.ProfessionalID, req.StartTime, end, appt.ID); err != nil {
		return nil, err
	}

	oldStart := appt.StartTime
	if err := appt.Reschedule(req.StartTime, end, now); err != nil {
		return nil, err
	}
	if req.Notes != nil {
		appt.Notes = req.Notes
	}

	if err := s.repo.Update(ctx, appt); err != nil {
		return nil, err
	}

	s.publish(ctx, events.AppointmentRescheduled{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: appt.ID,
		SalonID:       appt.SalonID,
		CustomerID:    appt.CustomerID,
		OldStartTime:  oldStart,
		StartTime:     appt.StartTime,
	})
	s.scheduleSync(ctx, appt)
	s.scheduleReminder(ctx, appt, now)

	return s.respond(ctx, appt)
}

// Confirm moves a pending appointment to confirmed.
func (s *Service) Confirm(ctx context.Context, salonID, id uuid.UUID) (*transport.AppointmentResponse, error) {
	appt, err := s.repo.GetByID(ctx, id, salonID)
	if err != nil {
		return nil, err
	}

	if err := appt.Confirm(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, appt); err != nil {
		return nil, err
	}

	return s.respond(ctx, appt)
}

// Cancel marks the appointment cancelled and schedules removal of its
// external mirrors. The local row survives for history.
func (s *Service) Cancel(ctx context.Context, salonID, id uuid.UUID) error {
	appt, err := s.repo.GetByID(ctx, id, salonID)
	if err != nil {
		return err
	}

	if err := appt.Cancel(s.now()); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, appt); err != nil {
		return err
	}

	s.publish(ctx, events.AppointmentCancelled{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: appt.ID,
		SalonID:       appt.SalonID,
		CustomerID:    appt.CustomerID,
		StartTime:     appt.StartTime,
	})
	if s.jobs != nil {
		if err := s.jobs.EnqueueAppointmentSyncRemove(ctx, scheduler.AppointmentSyncPayload{
			AppointmentID: appt.ID.String(),
			SalonID:       appt.SalonID.String(),
		}); err != nil {
			s.log.Error("failed to enqueue sync removal", "appointment_id", appt.ID.String(), "error", err)
		}
	}

	return nil
}

// GetAvailableSlots computes the bookable slots for a professional, service
// and day. The day is interpreted in UTC.
func (s *Service) GetAvailableSlots(ctx context.Context, salonID uuid.UUID, query transport.SlotsQuery) ([]transport.SlotResponse, error) {
	date, err := time.Parse("2006-01-02", query.Date)
	if err != nil {
		return nil, apperr.BadRequest("invalid date, expected YYYY-MM-DD")
	}

	svc, err := s.catalog.GetService(ctx, query.ServiceID, salonID)
	if err != nil {
		return nil, err
	}
	prof, err := s.catalog.GetProfessional(ctx, query.ProfessionalID, salonID)
	if err != nil {
		return nil, err
	}
	if !prof.Active || !prof.CanPerform(svc.ID) {
		return []transport.SlotResponse{}, nil
	}

	input, err := s.availabilityInput(ctx, salonID, prof.ID, date, uuid.Nil)
	if err != nil {
		return nil, err
	}
	input.ServiceDuration = svc.Duration
	input.Now = s.now()
	if s.busy != nil && prof.ExternalCalendarID != nil {
		window := domain.DateRange{Start: input.Date, End: input.Date.AddDate(0, 0, 1)}
		input.Busy = s.busy.Busy(ctx, *prof.ExternalCalendarID, window)
	}

	slots := availability.Slots(input)
	out := make([]transport.SlotResponse, 0, len(slots))
	for _, slot := range slots {
		out = append(out, transport.SlotResponse{
			ProfessionalID: slot.ProfessionalID,
			StartTime:      slot.StartTime,
			EndTime:        slot.EndTime,
		})
	}
	return out, nil
}

// ensureSlotFree verifies the requested window lies inside a free range of
// the professional's day. excludeID skips the appointment being rescheduled.
func (s *Service) ensureSlotFree(ctx context.Context, salonID, professionalID uuid.UUID, start, end time.Time, excludeID uuid.UUID) error {
	input, err := s.availabilityInput(ctx, salonID, professionalID, start, excludeID)
	if err != nil {
		return err
	}

	requested := domain.DateRange{Start: start, End: end}
	for _, free := range availability.FreeRanges(input) {
		if free.ContainsRange(requested) {
			return nil
		}
	}
	return domain.ErrSlotUnavailable
}

// availabilityInput gathers the scheduling data for the professional's day
// around the reference time.
func (s *Service) availabilityInput(ctx context.Context, salonID, professionalID uuid.UUID, ref time.Time, excludeID uuid.UUID) (availability.Input, error) {
	y, m, d := ref.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, ref.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	rules, err := s.repo.ListAvailabilityRules(ctx, salonID, professionalID)
	if err != nil {
		return availability.Input{}, err
	}
	overrides, err := s.repo.ListOverridesInRange(ctx, salonID, professionalID, dayStart, dayEnd)
	if err != nil {
		return availability.Input{}, err
	}
	appts, err := s.repo.ListForDateRange(ctx, salonID, professionalID, dayStart, dayEnd)
	if err != nil {
		return availability.Input{}, err
	}
	if excludeID != uuid.Nil {
		kept := appts[:0]
		for _, a := range appts {
			if a.ID != excludeID {
				kept = append(kept, a)
			}
		}
		appts = kept
	}

	return availability.Input{
		ProfessionalID: professionalID,
		Date:           dayStart,
		Location:       ref.Location(),
		Rules:          rules,
		Overrides:      overrides,
		Appointments:   appts,
		Step:           time.Duration(s.cfg.GetSlotStepMinutes()) * time.Minute,
	}, nil
}

func (s *Service) respond(ctx context.Context, appt *domain.Appointment) (*transport.AppointmentResponse, error) {
	items, err := s.respondBatch(ctx, appt.SalonID, []domain.Appointment{*appt})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *Service) respondBatch(ctx context.Context, salonID uuid.UUID, appts []domain.Appointment) ([]transport.AppointmentResponse, error) {
	items := make([]transport.AppointmentResponse, 0, len(appts))
	if len(appts) == 0 {
		return items, nil
	}

	ids := make([]uuid.UUID, len(appts))
	for i, a := range appts {
		ids[i] = a.ID
	}
	details, err := s.repo.GetDetailsBatch(ctx, ids, salonID)
	if err != nil {
		return nil, err
	}

	for i := range appts {
		appt := appts[i]
		var embedded *transport.AppointmentDetails
		if d, ok := details[appt.ID]; ok {
			embedded = &transport.AppointmentDetails{
				CustomerName:     d.CustomerName,
				CustomerPhone:    d.CustomerPhone,
				ServiceName:      d.ServiceName,
				ProfessionalName: d.ProfessionalName,
			}
		}
		items = append(items, transport.NewAppointmentResponse(&appt, embedded))
	}
	return items, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, event)
}

func (s *Service) scheduleSync(ctx context.Context, appt *domain.Appointment) {
	if s.jobs == nil {
		return
	}
	if err := s.jobs.EnqueueAppointmentSync(ctx, scheduler.AppointmentSyncPayload{
		AppointmentID: appt.ID.String(),
		SalonID:       appt.SalonID.String(),
	}); err != nil {
		s.log.Error("failed to enqueue appointment sync", "appointment_id", appt.ID.String(), "error", err)
	}
}

func (s *Service) scheduleReminder(ctx context.Context, appt *domain.Appointment, now time.Time) {
	if s.jobs == nil {
		return
	}
	runAt := appt.StartTime.Add(-s.cfg.GetReminderLeadTime())
	if !runAt.After(now) {
		return
	}
	if err := s.jobs.ScheduleAppointmentReminder(ctx, scheduler.AppointmentReminderPayload{
		AppointmentID: appt.ID.String(),
		SalonID:       appt.SalonID.String(),
	}, runAt); err != nil {
		s.log.Error("failed to schedule reminder", "appointment_id", appt.ID.String(), "error", err)
	}
}
