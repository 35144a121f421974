// Package service implements customer identification and profile use cases.
package service

import (
	"context"
	"time"

	"salon_booking_backend/internal/customers/transport"
	"salon_booking_backend/internal/domain"
	"salon_booking_backend/internal/events"
	"salon_booking_backend/platform/apperr"
	"salon_booking_backend/platform/logger"

	"github.com/google/uuid"
)

// Repo is the persistence surface the service depends on.
type Repo interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id, salonID uuid.UUID) (*domain.Customer, error)
	GetByPhone(ctx context.Context, salonID uuid.UUID, phone domain.Phone) (*domain.Customer, error)
	List(ctx context.Context, salonID uuid.UUID) ([]domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
}

// Service implements customer use cases. It also backs the appointments
// module's customer lookups.
type Service struct {
	repo Repo
	bus  events.Bus
	log  *logger.Logger
}

// New creates the customers service. bus may be nil in tests.
func New(repo Repo, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// GetCustomer resolves one customer. Part of the appointments module's
// dependency surface.
func (s *Service) GetCustomer(ctx context.Context, id, salonID uuid.UUID) (*domain.Customer, error) {
	return s.repo.GetByID(ctx, id, salonID)
}

// GetCustomerByPhone resolves a customer from a raw phone number. Part of the
// appointments module's dependency surface.
func (s *Service) GetCustomerByPhone(ctx context.Context, salonID uuid.UUID, rawPhone string) (*domain.Customer, error) {
	phone, err := domain.NewPhone(rawPhone)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByPhone(ctx, salonID, phone)
}

// Create registers a new customer with a normalized phone number.
func (s *Service) Create(ctx context.Context, salonID uuid.UUID, req transport.CreateCustomerRequest) (*transport.CustomerResponse, error) {
	phone, err := domain.NewPhone(req.Phone)
	if err != nil {
		return nil, err
	}

	var email *domain.Email
	if req.Email != "" {
		e, err := domain.NewEmail(req.Email)
		if err != nil {
			return nil, err
		}
		email = &e
	}

	customer, err := domain.NewCustomer(salonID, req.Name, phone, email)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		notes := req.Notes
		customer.Notes = &notes
	}

	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.publishIdentified(ctx, customer)

	resp := transport.NewCustomerResponse(customer)
	return &resp, nil
}

// IdentifyByPhone finds the customer behind a raw phone number. An unknown
// number is a normal outcome reported in the result, not an error; the
// caller must collect a name and register before booking.
func (s *Service) IdentifyByPhone(ctx context.Context, salonID uuid.UUID, rawPhone string) (*transport.IdentifyResponse, error) {
	phone, err := domain.NewPhone(rawPhone)
	if err != nil {
		return nil, err
	}

	customer, err := s.repo.GetByPhone(ctx, salonID, phone)
	if apperr.Is(err, apperr.KindNotFound) {
		return &transport.IdentifyResponse{NameRequired: true}, nil
	}
	if err != nil {
		return nil, err
	}

	resp := transport.NewCustomerResponse(customer)
	return &transport.IdentifyResponse{Found: true, Customer: &resp}, nil
}

// GetByID returns the API form of one customer.
func (s *Service) GetByID(ctx context.Context, id, salonID uuid.UUID) (*transport.CustomerResponse, error) {
	customer, err := s.repo.GetByID(ctx, id, salonID)
	if err != nil {
		return nil, err
	}
	resp := transport.NewCustomerResponse(customer)
	return &resp, nil
}

// List returns all of the salon's customers.
func (s *Service) List(ctx context.Context, salonID uuid.UUID) ([]transport.CustomerResponse, error) {
	items, err := s.repo.List(ctx, salonID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.CustomerResponse, len(items))
	for i := range items {
		out[i] = transport.NewCustomerResponse(&items[i])
	}
	return out, nil
}

// Update changes name, email and notes. Phone stays fixed.
func (s *Service) Update(ctx context.Context, id, salonID uuid.UUID, req transport.UpdateCustomerRequest) (*transport.CustomerResponse, error) {
	customer, err := s.repo.GetByID(ctx, id, salonID)
	if err != nil {
		return nil, err
	}

	if req.Name == "" {
		return nil, domain.ErrNameRequired
	}
	customer.Name = req.Name

	customer.Email = nil
	if req.Email != "" {
		e, err := domain.NewEmail(req.Email)
		if err != nil {
			return nil, err
		}
		customer.Email = &e
	}

	customer.Notes = nil
	if req.Notes != "" {
		notes := req.Notes
		customer.Notes = &notes
	}
	customer.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, err
	}

	resp := transport.NewCustomerResponse(customer)
	return &resp, nil
}

func (s *Service) publishIdentified(ctx context.Context, customer *domain.Customer) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.CustomerIdentified{
		BaseEvent:  events.NewBaseEvent(),
		CustomerID: customer.ID,
		SalonID:    customer.SalonID,
		Phone:      customer.Phone.String(),
	})
}
