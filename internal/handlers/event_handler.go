package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carelink_backend/internal/middleware"
	"carelink_backend/internal/models"
	"carelink_backend/internal/services"
	"carelink_backend/internal/services/dto"
)

// EventHandler accepts lifecycle events from the appointment and
// prescription subsystems and fans them out as notifications.
type EventHandler struct {
	*BaseHandler
	fanoutService services.FanoutService
}

func NewEventHandler(base *BaseHandler, fanoutService services.FanoutService) *EventHandler {
	return &EventHandler{
		BaseHandler:   base,
		fanoutService: fanoutService,
	}
}

func (h *EventHandler) RegisterRoutes(r *gin.RouterGroup) {
	events := r.Group("/events")
	events.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.ActorRoleDoctor, models.ActorRoleAdmin))
	{
		events.POST("/appointment-booked", h.AppointmentBooked)
		events.POST("/appointment-status", h.AppointmentStatusChanged)
		events.POST("/prescription-issued", h.PrescriptionIssued)
	}
}

func (h *EventHandler) AppointmentBooked(c *gin.Context) {
	var event dto.AppointmentBookedEvent
	if !h.BindAndValidate_JSON(c, &event) {
		return
	}

	if err := h.fanoutService.AppointmentBooked(&event); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "Appointment notifications dispatched"})
}

func (h *EventHandler) AppointmentStatusChanged(c *gin.Context) {
	var event dto.AppointmentStatusEvent
	if !h.BindAndValidate_JSON(c, &event) {
		return
	}

	if err := h.fanoutService.AppointmentStatusChanged(&event); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "Status notification dispatched"})
}

func (h *EventHandler) PrescriptionIssued(c *gin.Context) {
	var event dto.PrescriptionIssuedEvent
	if !h.BindAndValidate_JSON(c, &event) {
		return
	}

	if err := h.fanoutService.PrescriptionIssued(&event); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "Prescription notification dispatched"})
}
