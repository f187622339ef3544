package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vladgets/roadmate-backend-go/internal/models"
	"github.com/vladgets/roadmate-backend-go/internal/service"
	"github.com/vladgets/roadmate-backend-go/pkg/response"
)

// EventHandler handles HTTP requests for the trip log
type EventHandler struct {
	events *service.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(events *service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// GetDrivingLog handles GET /api/v1/events/driving-log
func (h *EventHandler) GetDrivingLog(c *gin.Context) {
	var q models.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	items := h.events.DrivingLog(q.Limit)
	response.List(c, items, len(items))
}

// GetPlaceVisits handles GET /api/v1/events/visits
func (h *EventHandler) GetPlaceVisits(c *gin.Context) {
	var q models.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	items := h.events.PlaceVisits(q.Limit)
	response.List(c, items, len(items))
}

// UpdateLabel handles PATCH /api/v1/events/:id/label
func (h *EventHandler) UpdateLabel(c *gin.Context) {
	var req models.UpdateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if req.Label == nil {
		response.BadRequest(c, "label field is required")
		return
	}

	if err := h.events.UpdateLabel(c.Param("id"), *req.Label); err != nil {
		response.InternalError(c, "failed to update label")
		return
	}
	response.OK(c, nil)
}

// DeleteEvent handles DELETE /api/v1/events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	if err := h.events.Delete(c.Param("id")); err != nil {
		response.InternalError(c, "failed to delete event")
		return
	}
	c.Status(http.StatusNoContent)
}
