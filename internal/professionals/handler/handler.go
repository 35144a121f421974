// Package handler contains HTTP handlers for the professionals module.
package handler

import (
	"net/http"
	"time"

	"salon_booking_backend/internal/professionals/service"
	"salon_booking_backend/internal/professionals/transport"
	"salon_booking_backend/platform/apperr"
	"salon_booking_backend/platform/httpkit"
	"salon_booking_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles professional, catalog and working-hour HTTP requests.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new professionals handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterProfessionalRoutes registers routes under /professionals.
func (h *Handler) RegisterProfessionalRoutes(r *gin.RouterGroup) {
	r.POST("", h.CreateProfessional)
	r.GET("", h.ListProfessionals)
	r.GET("/:id", h.GetProfessional)
	r.PUT("/:id", h.UpdateProfessional)
	r.POST("/:id/rules", h.CreateAvailabilityRule)
	r.GET("/:id/rules", h.ListAvailabilityRules)
	r.DELETE("/:id/rules/:ruleId", h.DeleteAvailabilityRule)
	r.POST("/:id/overrides", h.CreateOverride)
	r.GET("/:id/overrides", h.ListOverrides)
	r.DELETE("/:id/overrides/:overrideId", h.DeleteOverride)
}

// RegisterServiceRoutes registers routes under /services.
func (h *Handler) RegisterServiceRoutes(r *gin.RouterGroup) {
	r.POST("", h.CreateService)
	r.GET("", h.ListServices)
	r.GET("/:id", h.GetService)
	r.PUT("/:id", h.UpdateService)
}

func (h *Handler) CreateProfessional(c *gin.Context) {
	var req transport.CreateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	resp, err := h.svc.CreateProfessional(c.Request.Context(), salonID, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

func (h *Handler) GetProfessional(c *gin.Context) {
	id, salonID, ok := idAndSalon(c, "id")
	if !ok {
		return
	}

	resp, err := h.svc.GetProfessionalByID(c.Request.Context(), id, salonID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) ListProfessionals(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	resp, err := h.svc.ListProfessionals(c.Request.Context(), salonID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) UpdateProfessional(c *gin.Context) {
	var req transport.UpdateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	id, salonID, ok := idAndSalon(c, "id")
	if !ok {
		return
	}

	resp, err := h.svc.UpdateProfessional(c.Request.Context(), id, salonID, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) CreateService(c *gin.Context) {
	var req transport.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	resp, err := h.svc.CreateService(c.Request.Context(), salonID, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

func (h *Handler) GetService(c *gin.Context) {
	id, salonID, ok := idAndSalon(c, "id")
	if !ok {
		return
	}

	resp, err := h.svc.GetServiceByID(c.Request.Context(), id, salonID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) ListServices(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	activeOnly := c.Query("active") == "true"
	resp, err := h.svc.ListServices(c.Request.Context(), salonID, activeOnly)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) UpdateService(c *gin.Context) {
	var req transport.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	id, salonID, ok := idAndSalon(c, "id")
	if !ok {
		return
	}

	resp, err := h.svc.UpdateService(c.Request.Context(), id, salonID, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) CreateAvailabilityRule(c *gin.Context) {
	var req transport.CreateAvailabilityRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	professionalID, salonID, ok := idAndSalon(c, "id")
	if !ok {
		return
	}

	resp, err := h.svc.CreateAvailabilityRule(c.Request.Context(), salonID, professionalID, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

func (h *Handler) ListAvailabilityRules(c *gin.Context) {
	professionalID, salonID, ok := idAndSalon(c, "id")
	if !ok {
		return
	}

	resp, err := h.svc.ListAvailabilityRules(c.Request.Context(), salonID, professionalID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) DeleteAvailabilityRule(c *gin.Context) {
	ruleID, err := uuid.Parse(c.Param("ruleId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid rule ID", nil)
		return
	}
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteAvailabilityRule(c.Request.Context(), ruleID, salonID); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CreateOverride(c *gin.Context) {
	var req transport.CreateOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	professionalID, salonID, ok := idAndSalon(c, "id")
	if !ok {
		return
	}

	resp, err := h.svc.CreateOverride(c.Request.Context(), salonID, professionalID, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

func (h *Handler) ListOverrides(c *gin.Context) {
	professionalID, salonID, ok := idAndSalon(c, "id")
	if !ok {
		return
	}

	start, end, err := overrideWindow(c)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	resp, err := h.svc.ListOverrides(c.Request.Context(), salonID, professionalID, start, end)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) DeleteOverride(c *gin.Context) {
	overrideID, err := uuid.Parse(c.Param("overrideId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid override ID", nil)
		return
	}
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteOverride(c.Request.Context(), overrideID, salonID); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// overrideWindow reads the from/to query parameters, defaulting to the next
// 30 days.
func overrideWindow(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	start := now.Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, 30)

	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, apperr.Validation("invalid from date, expected YYYY-MM-DD")
		}
		start = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, apperr.Validation("invalid to date, expected YYYY-MM-DD")
		}
		end = t.AddDate(0, 0, 1)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, apperr.Validation("to must be after from")
	}
	return start, end, nil
}

func salonFromContext(c *gin.Context) (uuid.UUID, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return uuid.Nil, false
	}
	if identity.SalonID() == nil {
		httpkit.Error(c, http.StatusBadRequest, "salon ID is required", nil)
		return uuid.Nil, false
	}
	return *identity.SalonID(), true
}

func idAndSalon(c *gin.Context, param string) (uuid.UUID, uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid ID", nil)
		return uuid.Nil, uuid.Nil, false
	}
	salonID, ok := salonFromContext(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return id, salonID, true
}
