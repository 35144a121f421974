package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"salon_booking_backend/internal/customers/service"
	"salon_booking_backend/internal/customers/transport"
	"salon_booking_backend/internal/domain"
	"salon_booking_backend/platform/apperr"
	"salon_booking_backend/platform/httpkit"
	"salon_booking_backend/platform/logger"
	"salon_booking_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type fakeRepo struct {
	customers map[uuid.UUID]*domain.Customer
}

func (f *fakeRepo) Create(_ context.Context, customer *domain.Customer) error {
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
	c := *customer
	f.customers[customer.ID] = &c
	return nil
}

// newRouter mounts the customer routes. When salonID is non-nil the request
// runs with an authenticated identity for that salon.
func newRouter(t *testing.T, salonID *uuid.UUID) (*gin.Engine, *fakeRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &fakeRepo{customers: make(map[uuid.UUID]*domain.Customer)}
	h := New(service.New(repo, nil, logger.New("test")), validator.New())

	r := gin.New()
	grp := r.Group("/customers")
	if salonID != nil {
		grp.Use(func(c *gin.Context) {
			c.Set(httpkit.ContextUserIDKey, uuid.New())
			c.Set(httpkit.ContextSalonIDKey, *salonID)
		})
	}
	h.RegisterRoutes(grp)
	return r, repo
}

func seedCustomer(t *testing.T, repo *fakeRepo, salonID uuid.UUID, name, rawPhone string) *domain.Customer {
	t.Helper()
	phone, err := domain.NewPhone(rawPhone)
	if err != nil {
		t.Fatalf("NewPhone: %v", err)
	}
	customer, err := domain.NewCustomer(salonID, name, phone, nil)
	if err != nil {
		t.Fatalf("NewCustomer: %v", err)
	}
	repo.customers[customer.ID] = customer
	return customer
}

func TestCreateRejectsMalformedBody(t *testing.T) {
	salonID := uuid.New()
	r, _ := newRouter(t, &salonID)

	req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var body httpkit.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body not JSON: %v", err)
	}
	if body.Error != "invalid request body" {
		t.Errorf("error = %q", body.Error)
	}
}

func TestRoutesRejectMissingIdentity(t *testing.T) {
	r, _ := newRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/customers", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestIdentifyKnownPhone(t *testing.T) {
	salonID := uuid.New()
	r, repo := newRouter(t, &salonID)
	created := seedCustomer(t, repo, salonID, "Maria Silva", "(11) 98765-4321")

	req := httptest.NewRequest(http.MethodGet, "/customers/identify?phone=5511987654321", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var body transport.IdentifyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body not JSON: %v", err)
	}
	if !body.Found || body.NameRequired {
		t.Fatalf("body = %+v, want found", body)
	}
	if body.Customer == nil || body.Customer.ID != created.ID {
		t.Errorf("customer = %+v, want %s", body.Customer, created.ID)
	}
}

func TestIdentifyUnknownPhoneAnswersOK(t *testing.T) {
	salonID := uuid.New()
	r, _ := newRouter(t, &salonID)

	req := httptest.NewRequest(http.MethodGet, "/customers/identify?phone=5511999990000", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var body transport.IdentifyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body not JSON: %v", err)
	}
	if body.Found || !body.NameRequired || body.Customer != nil {
		t.Fatalf("body = %+v, want nameRequired", body)
	}
}
