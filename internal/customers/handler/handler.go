// Package handler contains HTTP handlers for the customers module.
package handler

import (
	"net/http"

	"salon_booking_backend/internal/customers/service"
	"salon_booking_backend/internal/customers/transport"
	"salon_booking_backend/platform/httpkit"
	"salon_booking_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles customer HTTP requests.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new customers handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers customer routes on the given group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.Create)
	r.GET("", h.List)
	r.GET("/identify", h.Identify)
	r.GET("/:id", h.GetByID)
	r.PUT("/:id", h.Update)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateCustomerRequest
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

	resp, err := h.svc.Create(c.Request.Context(), salonID, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

// Identify resolves a raw phone number to a customer. An unknown number
// still answers 200; nameRequired in the body tells the caller to register
// the customer with a name first.
func (h *Handler) Identify(c *gin.Context) {
	var query transport.IdentifyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", nil)
		return
	}
	if err := h.val.Struct(query); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	resp, err := h.svc.IdentifyByPhone(c.Request.Context(), salonID, query.Phone)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid customer ID", nil)
		return
	}
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	resp, err := h.svc.GetByID(c.Request.Context(), id, salonID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) List(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	resp, err := h.svc.List(c.Request.Context(), salonID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Update(c *gin.Context) {
	var req transport.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid customer ID", nil)
		return
	}
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), id, salonID, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
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
