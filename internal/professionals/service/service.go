// Package service implements catalog and staff management use cases.
package service

import (
	"context"
	"fmt"
	"time"

	"salon_booking_backend/internal/domain"
	"salon_booking_backend/internal/professionals/transport"
	"salon_booking_backend/platform/apperr"
	"salon_booking_backend/platform/logger"

	"github.com/google/uuid"
)

// Repo is the persistence surface the service depends on.
type Repo interface {
	CreateProfessional(ctx context.Context, prof *domain.Professional) error
	GetProfessional(ctx context.Context, id, salonID uuid.UUID) (*domain.Professional, error)
	ListProfessionals(ctx context.Context, salonID uuid.UUID) ([]domain.Professional, error)
	UpdateProfessional(ctx context.Context, prof *domain.Professional) error

	CreateService(ctx context.Context, svc *domain.Service) error
	GetService(ctx context.Context, id, salonID uuid.UUID) (*domain.Service, error)
	ListServices(ctx context.Context, salonID uuid.UUID, activeOnly bool) ([]domain.Service, error)
	UpdateService(ctx context.Context, svc *domain.Service) error

	CreateAvailabilityRule(ctx context.Context, rule *domain.AvailabilityRule) error
	ListAvailabilityRules(ctx context.Context, salonID, professionalID uuid.UUID) ([]domain.AvailabilityRule, error)
	DeleteAvailabilityRule(ctx context.Context, id, salonID uuid.UUID) error

	CreateOverride(ctx context.Context, override *domain.ScheduleOverride) error
	ListOverrides(ctx context.Context, salonID, professionalID uuid.UUID, start, end time.Time) ([]domain.ScheduleOverride, error)
	DeleteOverride(ctx context.Context, id, salonID uuid.UUID) error
}

// Service implements professional, catalog and working-hour use cases. It also
// backs the appointments module's catalog lookups.
type Service struct {
	repo Repo
	log  *logger.Logger
}

// New creates the professionals service.
func New(repo Repo, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// GetProfessional resolves one professional. Part of the appointments
// module's catalog dependency.
func (s *Service) GetProfessional(ctx context.Context, id, salonID uuid.UUID) (*domain.Professional, error) {
	return s.repo.GetProfessional(ctx, id, salonID)
}

// GetService resolves one catalog service. Part of the appointments module's
// catalog dependency.
func (s *Service) GetService(ctx context.Context, id, salonID uuid.UUID) (*domain.Service, error) {
	return s.repo.GetService(ctx, id, salonID)
}

// CreateProfessional registers a new bookable professional.
func (s *Service) CreateProfessional(ctx context.Context, salonID uuid.UUID, req transport.CreateProfessionalRequest) (*transport.ProfessionalResponse, error) {
	phone, email, err := parseContact(req.Phone, req.Email)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	prof := &domain.Professional{
		ID:                 uuid.New(),
		SalonID:            salonID,
		Name:               req.Name,
		Phone:              phone,
		Email:              email,
		Active:             true,
		ExternalCalendarID: req.ExternalCalendarID,
		ServiceIDs:         req.ServiceIDs,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.verifyServiceLinks(ctx, salonID, prof.ServiceIDs); err != nil {
		return nil, err
	}
	if err := s.repo.CreateProfessional(ctx, prof); err != nil {
		return nil, err
	}

	resp := transport.NewProfessionalResponse(prof)
	return &resp, nil
}

// UpdateProfessional replaces profile fields and service links.
func (s *Service) UpdateProfessional(ctx context.Context, id, salonID uuid.UUID, req transport.UpdateProfessionalRequest) (*transport.ProfessionalResponse, error) {
	prof, err := s.repo.GetProfessional(ctx, id, salonID)
	if err != nil {
		return nil, err
	}

	phone, email, err := parseContact(req.Phone, req.Email)
	if err != nil {
		return nil, err
	}

	prof.Name = req.Name
	prof.Phone = phone
	prof.Email = email
	prof.Active = *req.Active
	prof.ExternalCalendarID = req.ExternalCalendarID
	prof.ServiceIDs = req.ServiceIDs
	prof.UpdatedAt = time.Now()

	if err := s.verifyServiceLinks(ctx, salonID, prof.ServiceIDs); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateProfessional(ctx, prof); err != nil {
		return nil, err
	}

	resp := transport.NewProfessionalResponse(prof)
	return &resp, nil
}

// GetProfessionalByID returns the API form of one professional.
func (s *Service) GetProfessionalByID(ctx context.Context, id, salonID uuid.UUID) (*transport.ProfessionalResponse, error) {
	prof, err := s.repo.GetProfessional(ctx, id, salonID)
	if err != nil {
		return nil, err
	}
	resp := transport.NewProfessionalResponse(prof)
	return &resp, nil
}

// ListProfessionals returns all of the salon's professionals.
func (s *Service) ListProfessionals(ctx context.Context, salonID uuid.UUID) ([]transport.ProfessionalResponse, error) {
	items, err := s.repo.ListProfessionals(ctx, salonID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.ProfessionalResponse, len(items))
	for i := range items {
		out[i] = transport.NewProfessionalResponse(&items[i])
	}
	return out, nil
}

// CreateService adds a catalog entry.
func (s *Service) CreateService(ctx context.Context, salonID uuid.UUID, req transport.CreateServiceRequest) (*transport.ServiceResponse, error) {
	duration, err := domain.NewDuration(req.DurationMinutes)
	if err != nil {
		return nil, err
	}
	price, err := domain.NewMoney(req.PriceCents, req.Currency)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	svc := &domain.Service{
		ID:        uuid.New(),
		SalonID:   salonID,
		Name:      req.Name,
		Duration:  duration,
		Price:     price,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateService(ctx, svc); err != nil {
		return nil, err
	}

	resp := transport.NewServiceResponse(svc)
	return &resp, nil
}

// UpdateService replaces a catalog entry's attributes. Deactivation rather
// than deletion keeps historical appointments resolvable.
func (s *Service) UpdateService(ctx context.Context, id, salonID uuid.UUID, req transport.UpdateServiceRequest) (*transport.ServiceResponse, error) {
	svc, err := s.repo.GetService(ctx, id, salonID)
	if err != nil {
		return nil, err
	}

	duration, err := domain.NewDuration(req.DurationMinutes)
	if err != nil {
		return nil, err
	}
	price, err := domain.NewMoney(req.PriceCents, req.Currency)
	if err != nil {
		return nil, err
	}

	svc.Name = req.Name
	svc.Duration = duration
	svc.Price = price
	svc.Active = *req.Active
	svc.UpdatedAt = time.Now()

	if err := s.repo.UpdateService(ctx, svc); err != nil {
		return nil, err
	}

	resp := transport.NewServiceResponse(svc)
	return &resp, nil
}

// GetServiceByID returns the API form of one catalog service.
func (s *Service) GetServiceByID(ctx context.Context, id, salonID uuid.UUID) (*transport.ServiceResponse, error) {
	svc, err := s.repo.GetService(ctx, id, salonID)
	if err != nil {
		return nil, err
	}
	resp := transport.NewServiceResponse(svc)
	return &resp, nil
}

// ListServices returns the salon's catalog.
func (s *Service) ListServices(ctx context.Context, salonID uuid.UUID, activeOnly bool) ([]transport.ServiceResponse, error) {
	items, err := s.repo.ListServices(ctx, salonID, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]transport.ServiceResponse, len(items))
	for i := range items {
		out[i] = transport.NewServiceResponse(&items[i])
	}
	return out, nil
}

// CreateAvailabilityRule adds a recurring working or break interval for a
// professional.
func (s *Service) CreateAvailabilityRule(ctx context.Context, salonID, professionalID uuid.UUID, req transport.CreateAvailabilityRuleRequest) (*transport.AvailabilityRuleResponse, error) {
	if _, err := s.repo.GetProfessional(ctx, professionalID, salonID); err != nil {
		return nil, err
	}

	start, err := parseClock(req.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(req.EndTime)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, domain.ErrInvalidTimeRange
	}

	now := time.Now()
	rule := &domain.AvailabilityRule{
		ID:             uuid.New(),
		SalonID:        salonID,
		ProfessionalID: professionalID,
		Weekday:        time.Weekday(req.Weekday),
		StartTime:      start,
		EndTime:        end,
		IsBreak:        req.IsBreak,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.CreateAvailabilityRule(ctx, rule); err != nil {
		return nil, err
	}

	resp := transport.NewAvailabilityRuleResponse(rule)
	return &resp, nil
}

// ListAvailabilityRules returns the professional's recurring rules.
func (s *Service) ListAvailabilityRules(ctx context.Context, salonID, professionalID uuid.UUID) ([]transport.AvailabilityRuleResponse, error) {
	items, err := s.repo.ListAvailabilityRules(ctx, salonID, professionalID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.AvailabilityRuleResponse, len(items))
	for i := range items {
		out[i] = transport.NewAvailabilityRuleResponse(&items[i])
	}
	return out, nil
}

// DeleteAvailabilityRule removes one recurring rule.
func (s *Service) DeleteAvailabilityRule(ctx context.Context, id, salonID uuid.UUID) error {
	return s.repo.DeleteAvailabilityRule(ctx, id, salonID)
}

// CreateOverride blocks a one-off interval for a professional.
func (s *Service) CreateOverride(ctx context.Context, salonID, professionalID uuid.UUID, req transport.CreateOverrideRequest) (*transport.OverrideResponse, error) {
	if _, err := s.repo.GetProfessional(ctx, professionalID, salonID); err != nil {
		return nil, err
	}
	if _, err := domain.NewDateRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	now := time.Now()
	override := &domain.ScheduleOverride{
		ID:             uuid.New(),
		SalonID:        salonID,
		ProfessionalID: professionalID,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Reason:         req.Reason,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.CreateOverride(ctx, override); err != nil {
		return nil, err
	}

	resp := transport.NewOverrideResponse(override)
	return &resp, nil
}

// ListOverrides returns the professional's overrides overlapping a window.
func (s *Service) ListOverrides(ctx context.Context, salonID, professionalID uuid.UUID, start, end time.Time) ([]transport.OverrideResponse, error) {
	items, err := s.repo.ListOverrides(ctx, salonID, professionalID, start, end)
	if err != nil {
		return nil, err
	}
	out := make([]transport.OverrideResponse, len(items))
	for i := range items {
		out[i] = transport.NewOverrideResponse(&items[i])
	}
	return out, nil
}

// DeleteOverride removes one override.
func (s *Service) DeleteOverride(ctx context.Context, id, salonID uuid.UUID) error {
	return s.repo.DeleteOverride(ctx, id, salonID)
}

// verifyServiceLinks rejects links to services the salon does not own.
func (s *Service) verifyServiceLinks(ctx context.Context, salonID uuid.UUID, serviceIDs []uuid.UUID) error {
	for _, id := range serviceIDs {
		if _, err := s.repo.GetService(ctx, id, salonID); err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return apperr.Validation(fmt.Sprintf("service %s not found in catalog", id))
			}
			return err
		}
	}
	return nil
}

func parseContact(rawPhone, rawEmail string) (*domain.Phone, *domain.Email, error) {
	var phone *domain.Phone
	var email *domain.Email
	if rawPhone != "" {
		p, err := domain.NewPhone(rawPhone)
		if err != nil {
			return nil, nil, err
		}
		phone = &p
	}
	if rawEmail != "" {
		e, err := domain.NewEmail(rawEmail)
		if err != nil {
			return nil, nil, err
		}
		email = &e
	}
	return phone, email, nil
}

func parseClock(raw string) (time.Time, error) {
	t, err := time.Parse("15:04", raw)
	if err != nil {
		return time.Time{}, domain.ErrInvalidTimeRange
	}
	return t, nil
}
