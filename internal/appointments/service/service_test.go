package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"salon_booking_backend/internal/appointments/repository"
	"salon_booking_backend/internal/appointments/transport"
	"salon_booking_backend/internal/domain"
	"salon_booking_backend/internal/scheduler"
	"salon_booking_backend/platform/apperr"
	"salon_booking_backend/platform/logger"
)

type fakeRepo struct {
	appts      map[uuid.UUID]*domain.Appointment
	rules      []domain.AvailabilityRule
	overrides  []domain.ScheduleOverride
	batchCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{appts: make(map[uuid.UUID]*domain.Appointment)}
}

func (f *fakeRepo) Create(_ context.Context, appt *domain.Appointment) error {
	for _, existing := range f.appts {
		if existing.ProfessionalID == appt.ProfessionalID && !existing.IsCancelled() &&
			existing.Range().Overlaps(appt.Range()) {
			return domain.ErrAppointmentConflict
		}
	}
	clone := *appt
	f.appts[appt.ID] = &clone
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id, salonID uuid.UUID) (*domain.Appointment, error) {
	appt, ok := f.appts[id]
	if !ok || appt.SalonID != salonID {
		return nil, apperr.NotFound("appointment not found")
	}
	clone := *appt
	return &clone, nil
}

func (f *fakeRepo) Update(_ context.Context, appt *domain.Appointment) error {
	stored, ok := f.appts[appt.ID]
	if !ok {
		return apperr.NotFound("appointment not found")
	}
	if stored.Version != appt.Version {
		return domain.ErrAppointmentConflict
	}
	clone := *appt
	clone.Version++
	f.appts[appt.ID] = &clone
	appt.Version++
	return nil
}

func (f *fakeRepo) List(_ context.Context, params repository.ListParams) (*repository.ListResult, error) {
	var items []domain.Appointment
	for _, appt := range f.appts {
		if appt.SalonID == params.SalonID {
			items = append(items, *appt)
		}
	}
	return &repository.ListResult{Items: items, Total: len(items), Page: params.Page, PageSize: params.PageSize, TotalPages: 1}, nil
}

func (f *fakeRepo) ListForDateRange(_ context.Context, salonID, professionalID uuid.UUID, start, end time.Time) ([]domain.Appointment, error) {
	var items []domain.Appointment
	for _, appt := range f.appts {
		if appt.SalonID == salonID && appt.ProfessionalID == professionalID &&
			!appt.IsCancelled() && appt.StartTime.Before(end) && appt.EndTime.After(start) {
			items = append(items, *appt)
		}
	}
	return items, nil
}

func (f *fakeRepo) ListUpcomingByCustomer(_ context.Context, salonID, customerID uuid.UUID, now time.Time) ([]domain.Appointment, error) {
	var items []domain.Appointment
	for _, appt := range f.appts {
		if appt.SalonID == salonID && appt.CustomerID == customerID &&
			!appt.IsCancelled() && !appt.StartTime.Before(now) {
			items = append(items, *appt)
		}
	}
	return items, nil
}

func (f *fakeRepo) ListAvailabilityRules(_ context.Context, _, professionalID uuid.UUID) ([]domain.AvailabilityRule, error) {
	var items []domain.AvailabilityRule
	for _, r := range f.rules {
		if r.ProfessionalID == professionalID {
			items = append(items, r)
		}
	}
	return items, nil
}

func (f *fakeRepo) ListOverridesInRange(_ context.Context, _, professionalID uuid.UUID, start, end time.Time) ([]domain.ScheduleOverride, error) {
	var items []domain.ScheduleOverride
	for _, o := range f.overrides {
		if o.ProfessionalID == professionalID && o.StartTime.Before(end) && o.EndTime.After(start) {
			items = append(items, o)
		}
	}
	return items, nil
}

func (f *fakeRepo) GetDetailsBatch(_ context.Context, appointmentIDs []uuid.UUID, _ uuid.UUID) (map[uuid.UUID]repository.AppointmentDetails, error) {
	f.batchCalls++
	result := make(map[uuid.UUID]repository.AppointmentDetails)
	for _, id := range appointmentIDs {
		result[id] = repository.AppointmentDetails{
			CustomerName:     "Maria Silva",
			CustomerPhone:    "5511987654321",
			ServiceName:      "Corte",
			ProfessionalName: "Ana",
		}
	}
	return result, nil
}

type fakeCatalog struct {
	professionals map[uuid.UUID]*domain.Professional
	services      map[uuid.UUID]*domain.Service
}

func (f *fakeCatalog) GetProfessional(_ context.Context, id, _ uuid.UUID) (*domain.Professional, error) {
	p, ok := f.professionals[id]
	if !ok {
		return nil, apperr.NotFound("professional not found")
	}
	return p, nil
}

func (f *fakeCatalog) GetService(_ context.Context, id, _ uuid.UUID) (*domain.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, apperr.NotFound("service not found")
	}
	return s, nil
}

type fakeCustomers struct {
	customers map[uuid.UUID]*domain.Customer
}

func (f *fakeCustomers) GetCustomer(_ context.Context, id, _ uuid.UUID) (*domain.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, apperr.NotFound("customer not found")
	}
	return c, nil
}

func (f *fakeCustomers) GetCustomerByPhone(_ context.Context, _ uuid.UUID, rawPhone string) (*domain.Customer, error) {
	phone, err := domain.NewPhone(rawPhone)
	if err != nil {
		return nil, err
	}
	for _, c := range f.customers {
		if c.Phone == phone {
			return c, nil
		}
	}
	return nil, apperr.NotFound("customer not found")
}

type fakeJobs struct {
	syncs     []scheduler.AppointmentSyncPayload
	removals  []scheduler.AppointmentSyncPayload
	reminders []time.Time
}

func (f *fakeJobs) EnqueueAppointmentSync(_ context.Context, p scheduler.AppointmentSyncPayload) error {
	f.syncs = append(f.syncs, p)
	return nil
}

func (f *fakeJobs) EnqueueAppointmentSyncRemove(_ context.Context, p scheduler.AppointmentSyncPayload) error {
	f.removals = append(f.removals, p)
	return nil
}

func (f *fakeJobs) ScheduleAppointmentReminder(_ context.Context, _ scheduler.AppointmentReminderPayload, runAt time.Time) error {
	f.reminders = append(f.reminders, runAt)
	return nil
}

type bookingSettings struct{}

func (bookingSettings) GetSlotStepMinutes() int            { return 30 }
func (bookingSettings) GetReminderLeadTime() time.Duration { return 24 * time.Hour }

type fixture struct {
	svc            *Service
	repo           *fakeRepo
	catalog        *fakeCatalog
	jobs           *fakeJobs
	salonID        uuid.UUID
	professionalID uuid.UUID
	customerID     uuid.UUID
	serviceID      uuid.UUID
	now            time.Time
}

// Monday with working hours 09:00-17:00 and a lunch break.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	salonID := uuid.New()
	profID := uuid.New()
	custID := uuid.New()
	svcID := uuid.New()

	duration, _ := domain.NewDuration(30)
	price, _ := domain.NewMoney(8000, "BRL")

	repo := newFakeRepo()
	clockTime := func(h, m int) time.Time { return time.Date(0, 1, 1, h, m, 0, 0, time.UTC) }
	repo.rules = []domain.AvailabilityRule{
		{ID: uuid.New(), SalonID: salonID, ProfessionalID: profID, Weekday: time.Monday, StartTime: clockTime(9, 0), EndTime: clockTime(17, 0)},
		{ID: uuid.New(), SalonID: salonID, ProfessionalID: profID, Weekday: time.Monday, StartTime: clockTime(12, 0), EndTime: clockTime(13, 0), IsBreak: true},
	}

	catalog := &fakeCatalog{
		professionals: map[uuid.UUID]*domain.Professional{
			profID: {ID: profID, SalonID: salonID, Name: "Ana", Active: true, ServiceIDs: []uuid.UUID{svcID}},
		},
		services: map[uuid.UUID]*domain.Service{
			svcID: {ID: svcID, SalonID: salonID, Name: "Corte", Duration: duration, Price: price, Active: true},
		},
	}
	customers := &fakeCustomers{
		customers: map[uuid.UUID]*domain.Customer{
			custID: {ID: custID, SalonID: salonID, Name: "Maria Silva", Phone: "5511987654321"},
		},
	}

	jobs := &fakeJobs{}
	svc := New(repo, catalog, customers, jobs, nil, bookingSettings{}, logger.New("development"))
	now := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	return &fixture{
		svc:            svc,
		repo:           repo,
		catalog:        catalog,
		jobs:           jobs,
		salonID:        salonID,
		professionalID: profID,
		customerID:     custID,
		serviceID:      svcID,
		now:            now,
	}
}

func (f *fixture) createRequest(start time.Time) transport.CreateAppointmentRequest {
	return transport.CreateAppointmentRequest{
		ProfessionalID: f.professionalID,
		CustomerID:     f.customerID,
		ServiceID:      f.serviceID,
		StartTime:      start,
	}
}

func (f *fixture) mondayAt(h, m int) time.Time {
	return time.Date(2026, time.March, 2, h, m, 0, 0, time.UTC)
}

func TestCreateBooksFreeSlot(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(context.Background(), f.salonID, f.createRequest(f.mondayAt(10, 0)))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if resp.Status != domain.StatusPending {
		t.Fatalf("expected pending, got %s", resp.Status)
	}
	if !resp.EndTime.Equal(f.mondayAt(10, 30)) {
		t.Fatalf("end time must come from service duration, got %v", resp.EndTime)
	}
	if resp.Details == nil || resp.Details.CustomerName != "Maria Silva" {
		t.Fatalf("expected embedded details, got %+v", resp.Details)
	}
	if len(f.jobs.syncs) != 1 {
		t.Fatalf("expected one sync enqueue, got %d", len(f.jobs.syncs))
	}
	if len(f.jobs.reminders) != 1 {
		t.Fatalf("expected one reminder, got %d", len(f.jobs.reminders))
	}
	wantReminder := f.mondayAt(10, 0).Add(-24 * time.Hour)
	if !f.jobs.reminders[0].Equal(wantReminder) {
		t.Fatalf("reminder at %v, want %v", f.jobs.reminders[0], wantReminder)
	}
}

func TestCreateNearStartSkipsReminder(t *testing.T) {
	f := newFixture(t)

	// Less than the 24h lead time away; a reminder in the past is useless.
	if _, err := f.svc.Create(context.Background(), f.salonID, f.createRequest(f.mondayAt(9, 0))); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(f.jobs.reminders) != 0 {
		t.Fatalf("expected no reminder, got %v", f.jobs.reminders)
	}
}

func TestCreateRejectsOutsideWorkingHours(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.salonID, f.createRequest(f.mondayAt(18, 0)))
	if !errors.Is(err, domain.ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}
}

func TestCreateRejectsBreakWindow(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.salonID, f.createRequest(f.mondayAt(12, 15)))
	if !errors.Is(err, domain.ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable for break window, got %v", err)
	}
}

func TestCreateRejectsOverlap(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.Create(context.Background(), f.salonID, f.createRequest(f.mondayAt(10, 0))); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := f.svc.Create(context.Background(), f.salonID, f.createRequest(f.mondayAt(10, 15)))
	if !errors.Is(err, domain.ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable for overlap, got %v", err)
	}

	// Directly after an existing booking is fine.
	if _, err := f.svc.Create(context.Background(), f.salonID, f.createRequest(f.mondayAt(10, 30))); err != nil {
		t.Fatalf("adjacent booking failed: %v", err)
	}
}

func TestCreateRejectsPastStart(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.salonID, f.createRequest(f.now.Add(-time.Hour)))
	if !errors.Is(err, domain.ErrPastAppointment) {
		t.Fatalf("expected ErrPastAppointment, got %v", err)
	}
}

func TestCreateRejectsUnpairedService(t *testing.T) {
	f := newFixture(t)

	other := uuid.New()
	duration, _ := domain.NewDuration(60)
	f.svc.catalog.(*fakeCatalog).services[other] = &domain.Service{
		ID: other, SalonID: f.salonID, Name: "Coloração", Duration: duration, Active: true,
	}

	req := f.createRequest(f.mondayAt(10, 0))
	req.ServiceID = other
	_, err := f.svc.Create(context.Background(), f.salonID, req)
	if !errors.Is(err, domain.ErrCannotPerformService) {
		t.Fatalf("expected ErrCannotPerformService, got %v", err)
	}
}

func TestRescheduleFreesOwnSlot(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(context.Background(), f.salonID, f.createRequest(f.mondayAt(10, 0)))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Shifting 15 minutes overlaps the old window; the appointment must not
	// conflict with itself.
	moved, err := f.svc.Reschedule(context.Background(), f.salonID, resp.ID, transport.RescheduleAppointmentRequest{
		StartTime: f.mondayAt(10, 15),
	})
	if err != nil {
		t.Fatalf("reschedule failed: %v", err)
	}
	if !moved.StartTime.Equal(f.mondayAt(10, 15)) || !moved.EndTime.Equal(f.mondayAt(10, 45)) {
		t.Fatalf("unexpected window: %v - %v", moved.StartTime, moved.EndTime)
	}
	if len(f.jobs.syncs) != 2 {
		t.Fatalf("expected sync enqueue on reschedule, got %d", len(f.jobs.syncs))
	}
}

func TestRescheduleRejectsOccupiedSlot(t *testing.T) {
	f := newFixture(t)

	first, err := f.svc.Create(context.Background(), f.salonID, f.createRequest(f.mondayAt(10, 0)))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := f.svc.Create(context.Background(), f.salonID, f.createRequest(f.mondayAt(11, 0))); err != nil {
		t.Fatalf("second create failed: %v", err)
	}

	_, err = f.svc.Reschedule(context.Background(), f.salonID, first.ID, transport.RescheduleAppointmentRequest{
		StartTime: f.mondayAt(11, 15),
	})
	if !errors.Is(err, domain.ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}
}

func TestCancelSchedulesRemoval(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(context.Background(), f.salonID, f.createRequest(f.mondayAt(10, 0)))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := f.svc.Cancel(context.Background(), f.salonID, resp.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	stored, err := f.repo.GetByID(context.Background(), resp.ID, f.salonID)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if !stored.IsCancelled() {
		t.Fatal("appointment not cancelled")
	}
	if len(f.jobs.removals) != 1 {
		t.Fatalf("expected one removal enqueue, got %d", len(f.jobs.removals))
	}

	if err := f.svc.Cancel(context.Background(), f.salonID, resp.ID); !errors.Is(err, domain.ErrAlreadyCancelled) {
		t.Fatalf("expected ErrAlreadyCancelled, got %v", err)
	}
}

func TestCancelledSlotBecomesBookable(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(context.Background(), f.salonID, f.createRequest(f.mondayAt(10, 0)))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := f.svc.Cancel(context.Background(), f.salonID, resp.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if _, err := f.svc.Create(context.Background(), f.salonID, f.createRequest(f.mondayAt(10, 0))); err != nil {
		t.Fatalf("rebooking a cancelled slot failed: %v", err)
	}
}

func TestGetUpcomingBatchesDetails(t *testing.T) {
	f := newFixture(t)

	for _, h := range []int{9, 10, 11} {
		if _, err := f.svc.Create(context.Background(), f.salonID, f.createRequest(f.mondayAt(h, 0))); err != nil {
			t.Fatalf("create at %d:00 failed: %v", h, err)
		}
	}

	f.repo.batchCalls = 0
	items, err := f.svc.GetUpcomingByCustomer(context.Background(), f.salonID, f.customerID)
	if err != nil {
		t.Fatalf("upcoming failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 upcoming, got %d", len(items))
	}
	// One query for the whole page, regardless of item count.
	if f.repo.batchCalls != 1 {
		t.Fatalf("expected a single details batch, got %d", f.repo.batchCalls)
	}
	for _, item := range items {
		if item.Details == nil {
			t.Fatal("missing embedded details")
		}
	}
}

func TestGetAvailableSlotsDay(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.Create(context.Background(), f.salonID, f.createRequest(f.mondayAt(10, 0))); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	slots, err := f.svc.GetAvailableSlots(context.Background(), f.salonID, transport.SlotsQuery{
		ProfessionalID: f.professionalID,
		ServiceID:      f.serviceID,
		Date:           "2026-03-02",
	})
	if err != nil {
		t.Fatalf("slots failed: %v", err)
	}

	// 8h day minus 1h break = 14 half-hour slots, minus the booked one.
	if len(slots) != 13 {
		t.Fatalf("expected 13 slots, got %d", len(slots))
	}
	for _, slot := range slots {
		if slot.StartTime.Equal(f.mondayAt(10, 0)) {
			t.Fatal("booked slot offered as available")
		}
	}
}

type fakeBusy struct {
	busy       []domain.DateRange
	calendarID string
	calls      int
}

func (f *fakeBusy) Busy(_ context.Context, calendarID string, _ domain.DateRange) []domain.DateRange {
	f.calls++
	f.calendarID = calendarID
	return f.busy
}

func TestGetAvailableSlotsMergesExternalBusy(t *testing.T) {
	f := newFixture(t)

	calID := "cal-123"
	f.catalog.professionals[f.professionalID].ExternalCalendarID = &calID

	busy := &fakeBusy{busy: []domain.DateRange{{Start: f.mondayAt(9, 0), End: f.mondayAt(10, 0)}}}
	f.svc.SetExternalBusy(busy)

	slots, err := f.svc.GetAvailableSlots(context.Background(), f.salonID, transport.SlotsQuery{
		ProfessionalID: f.professionalID,
		ServiceID:      f.serviceID,
		Date:           "2026-03-02",
	})
	if err != nil {
		t.Fatalf("slots failed: %v", err)
	}

	if busy.calls != 1 || busy.calendarID != calID {
		t.Fatalf("expected one busy lookup for %q, got %d for %q", calID, busy.calls, busy.calendarID)
	}
	// The external hour removes the 09:00 and 09:30 slots.
	if len(slots) != 12 {
		t.Fatalf("expected 12 slots, got %d", len(slots))
	}
	for _, slot := range slots {
		if slot.StartTime.Before(f.mondayAt(10, 0)) {
			t.Fatalf("externally busy slot offered: %v", slot.StartTime)
		}
	}
}

func TestGetUpcomingByPhoneResolvesCustomer(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.Create(context.Background(), f.salonID, f.createRequest(f.mondayAt(9, 0))); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	items, err := f.svc.GetUpcomingByPhone(context.Background(), f.salonID, "(11) 98765-4321")
	if err != nil {
		t.Fatalf("upcoming by phone failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 upcoming, got %d", len(items))
	}

	if _, err := f.svc.GetUpcomingByPhone(context.Background(), f.salonID, "+5511999990000"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("unknown phone must surface not found, got %v", err)
	}
}
