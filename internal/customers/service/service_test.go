package service

import (
	"context"
	"errors"
	"testing"

	"salon_booking_backend/internal/customers/transport"
	"salon_booking_backend/internal/domain"
	"salon_booking_backend/platform/apperr"
	"salon_booking_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	customers map[uuid.UUID]*domain.Customer
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{customers: make(map[uuid.UUID]*domain.Customer)}
}

func (f *fakeRepo) Create(_ context.Context, customer *domain.Customer) error {
	for _, c := range f.customers {
		if c.SalonID == customer.SalonID && c.Phone == customer.Phone {
			return apperr.Conflict("customer with this phone already exists")
		}
	}
	c := *customer
	f.customers[customer.ID] = &c
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id, salonID uuid.UUID) (*domain.Customer, error) {
	c, ok := f.customers[id]
	if !ok || c.SalonID != salonID {
		return nil, apperr.NotFound("customer not found")
	}
	out := *c
	return &out, nil
}

func (f *fakeRepo) GetByPhone(_ context.Context, salonID uuid.UUID, phone domain.Phone) (*domain.Customer, error) {
	for _, c := range f.customers {
		if c.SalonID == salonID && c.Phone == phone {
			out := *c
			return &out, nil
		}
	}
	return nil, apperr.NotFound("customer not found")
}

func (f *fakeRepo) List(_ context.Context, salonID uuid.UUID) ([]domain.Customer, error) {
	out := make([]domain.Customer, 0)
	for _, c := range f.customers {
		if c.SalonID == salonID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, customer *domain.Customer) error {
	if _, ok := f.customers[customer.ID]; !ok {
		return apperr.NotFound("customer not found")
	}
	c := *customer
	f.customers[customer.ID] = &c
	return nil
}

func newService() (*Service, *fakeRepo, uuid.UUID) {
	repo := newFakeRepo()
	return New(repo, nil, logger.New("test")), repo, uuid.New()
}

func TestCreateNormalizesPhone(t *testing.T) {
	svc, repo, salonID := newService()

	resp, err := svc.Create(context.Background(), salonID, transport.CreateCustomerRequest{
		Name:  "Maria Silva",
		Phone: "(11) 98765-4321",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.Phone != "5511987654321" {
		t.Errorf("phone = %q, want 5511987654321", resp.Phone)
	}

	stored := repo.customers[resp.ID]
	if stored == nil || stored.Phone.String() != "5511987654321" {
		t.Fatalf("customer not persisted with canonical phone: %+v", stored)
	}
}

func TestCreateRejectsInvalidPhone(t *testing.T) {
	svc, _, salonID := newService()

	_, err := svc.Create(context.Background(), salonID, transport.CreateCustomerRequest{
		Name:  "Maria Silva",
		Phone: "abc",
	})
	if !errors.Is(err, domain.ErrInvalidPhone) {
		t.Fatalf("err = %v, want ErrInvalidPhone", err)
	}
}

func TestCreateRejectsMissingName(t *testing.T) {
	svc, _, salonID := newService()

	_, err := svc.Create(context.Background(), salonID, transport.CreateCustomerRequest{
		Phone: "+5511987654321",
	})
	if !errors.Is(err, domain.ErrNameRequired) {
		t.Fatalf("err = %v, want ErrNameRequired", err)
	}
}

func TestCreateDuplicatePhoneConflicts(t *testing.T) {
	svc, _, salonID := newService()

	req := transport.CreateCustomerRequest{Name: "Maria Silva", Phone: "+5511987654321"}
	if _, err := svc.Create(context.Background(), salonID, req); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	// Different formatting of the same number still collides.
	req.Phone = "(11) 98765-4321"
	_, err := svc.Create(context.Background(), salonID, req)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestIdentifyByPhoneMatchesAnyFormatting(t *testing.T) {
	svc, _, salonID := newService()

	created, err := svc.Create(context.Background(), salonID, transport.CreateCustomerRequest{
		Name:  "Maria Silva",
		Phone: "+55 11 98765-4321",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	resp, err := svc.IdentifyByPhone(context.Background(), salonID, "(11) 98765-4321")
	if err != nil {
		t.Fatalf("IdentifyByPhone: %v", err)
	}
	if !resp.Found || resp.NameRequired {
		t.Fatalf("result = %+v, want found", resp)
	}
	if resp.Customer == nil || resp.Customer.ID != created.ID {
		t.Errorf("identified %+v, want %s", resp.Customer, created.ID)
	}
}

func TestIdentifyByPhoneUnknownNumber(t *testing.T) {
	svc, _, salonID := newService()

	resp, err := svc.IdentifyByPhone(context.Background(), salonID, "+5511999990000")
	if err != nil {
		t.Fatalf("unknown number must not be an error, got %v", err)
	}
	if resp.Found || !resp.NameRequired || resp.Customer != nil {
		t.Fatalf("result = %+v, want nameRequired", resp)
	}
}

func TestIdentifyByPhoneInvalidNumber(t *testing.T) {
	svc, _, salonID := newService()

	_, err := svc.IdentifyByPhone(context.Background(), salonID, "abc")
	if !errors.Is(err, domain.ErrInvalidPhone) {
		t.Fatalf("err = %v, want ErrInvalidPhone", err)
	}
}

func TestIdentifyScopedToSalon(t *testing.T) {
	svc, _, salonID := newService()

	if _, err := svc.Create(context.Background(), salonID, transport.CreateCustomerRequest{
		Name:  "Maria Silva",
		Phone: "+5511987654321",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	resp, err := svc.IdentifyByPhone(context.Background(), uuid.New(), "+5511987654321")
	if err != nil {
		t.Fatalf("IdentifyByPhone: %v", err)
	}
	if resp.Found || !resp.NameRequired {
		t.Fatalf("result = %+v, want nameRequired for other salon", resp)
	}
}

func TestUpdateKeepsPhone(t *testing.T) {
	svc, repo, salonID := newService()

	created, err := svc.Create(context.Background(), salonID, transport.CreateCustomerRequest{
		Name:  "Maria Silva",
		Phone: "+5511987654321",
		Notes: "prefers mornings",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	resp, err := svc.Update(context.Background(), created.ID, salonID, transport.UpdateCustomerRequest{
		Name:  "Maria S. Oliveira",
		Email: "maria@example.com",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resp.Name != "Maria S. Oliveira" {
		t.Errorf("name = %q", resp.Name)
	}
	if resp.Phone != "5511987654321" {
		t.Errorf("phone changed to %q", resp.Phone)
	}
	if resp.Email != "maria@example.com" {
		t.Errorf("email = %q", resp.Email)
	}
	if resp.Notes != "" {
		t.Errorf("notes should be cleared, got %q", resp.Notes)
	}

	stored := repo.customers[created.ID]
	if stored.Notes != nil {
		t.Error("stored notes should be nil after update without notes")
	}
}
