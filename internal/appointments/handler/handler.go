package handler

import (
	"net/http"

	"salon_booking_backend/internal/appointments/service"
	"salon_booking_backend/internal/appointments/transport"
	"salon_booking_backend/platform/httpkit"
	"salon_booking_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for appointments.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new appointments handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// mustGetSalonID extracts the salon ID from identity.
// Returns zero UUID and false if the identity carries no salon.
func mustGetSalonID(c *gin.Context, identity httpkit.Identity) (uuid.UUID, bool) {
	salonID := identity.SalonID()
	if salonID == nil {
		httpkit.Error(c, http.StatusBadRequest, "salon ID is required", nil)
		return uuid.UUID{}, false
	}
	return *salonID, true
}

// RegisterRoutes registers the appointment routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Reschedule)
	rg.POST("/:id/confirm", h.Confirm)
	rg.DELETE("/:id", h.Cancel)

	rg.GET("/slots", h.GetAvailableSlots)
	rg.GET("/upcoming", h.GetUpcomingByPhone)
	rg.GET("/upcoming/:customerId", h.GetUpcoming)
}

// List handles GET /api/appointments
func (h *Handler) List(c *gin.Context) {
	var query transport.ListAppointmentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	salonID, ok := mustGetSalonID(c, identity)
	if !ok {
		return
	}

	result, err := h.svc.List(c.Request.Context(), salonID, query)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Create handles POST /api/appointments
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	salonID, ok := mustGetSalonID(c, identity)
	if !ok {
		return
	}

	result, err := h.svc.Create(c.Request.Context(), salonID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}

// GetByID handles GET /api/appointments/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	salonID, ok := mustGetSalonID(c, identity)
	if !ok {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), salonID, id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Reschedule handles PUT /api/appointments/:id
func (h *Handler) Reschedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	salonID, ok := mustGetSalonID(c, identity)
	if !ok {
		return
	}

	result, err := h.svc.Reschedule(c.Request.Context(), salonID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Confirm handles POST /api/appointments/:id/confirm
func (h *Handler) Confirm(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	salonID, ok := mustGetSalonID(c, identity)
	if !ok {
		return
	}

	result, err := h.svc.Confirm(c.Request.Context(), salonID, id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Cancel handles DELETE /api/appointments/:id
func (h *Handler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	salonID, ok := mustGetSalonID(c, identity)
	if !ok {
		return
	}

	if err := h.svc.Cancel(c.Request.Context(), salonID, id); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

// GetAvailableSlots handles GET /api/appointments/slots
func (h *Handler) GetAvailableSlots(c *gin.Context) {
	var query transport.SlotsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	salonID, ok := mustGetSalonID(c, identity)
	if !ok {
		return
	}

	result, err := h.svc.GetAvailableSlots(c.Request.Context(), salonID, query)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// GetUpcomingByPhone handles GET /api/appointments/upcoming
func (h *Handler) GetUpcomingByPhone(c *gin.Context) {
	var query transport.UpcomingByPhoneQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	salonID, ok := mustGetSalonID(c, identity)
	if !ok {
		return
	}

	result, err := h.svc.GetUpcomingByPhone(c.Request.Context(), salonID, query.Phone)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// GetUpcoming handles GET /api/appointments/upcoming/:customerId
func (h *Handler) GetUpcoming(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("customerId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	salonID, ok := mustGetSalonID(c, identity)
	if !ok {
		return
	}

	result, err := h.svc.GetUpcomingByCustomer(c.Request.Context(), salonID, customerID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
