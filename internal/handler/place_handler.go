package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/vladgets/roadmate-backend-go/internal/models"
	"github.com/vladgets/roadmate-backend-go/internal/service"
	"github.com/vladgets/roadmate-backend-go/pkg/response"
)

// PlaceHandler handles HTTP requests for named places
type PlaceHandler struct {
	places *service.PlaceService
}

// NewPlaceHandler creates a new place handler
func NewPlaceHandler(places *service.PlaceService) *PlaceHandler {
	return &PlaceHandler{places: places}
}

// ListPlaces handles GET /api/v1/places
func (h *PlaceHandler) ListPlaces(c *gin.Context) {
	places, err := h.places.List()
	if err != nil {
		response.InternalError(c, "failed to list places")
		return
	}
	if places == nil {
		places = []models.NamedPlace{}
	}
	response.List(c, places, len(places))
}

// SavePlace handles POST /api/v1/places
func (h *PlaceHandler) SavePlace(c *gin.Context) {
	var req models.SavePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "label, lat and lon are required")
		return
	}

	err := h.places.Save(models.NamedPlace{
		Label:        req.Label,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: req.RadiusMeters,
	})
	if err != nil {
		response.InternalError(c, "failed to save place")
		return
	}
	response.OK(c, nil)
}

// DeletePlace handles DELETE /api/v1/places/:label
func (h *PlaceHandler) DeletePlace(c *gin.Context) {
	if err := h.places.Delete(c.Param("label")); err != nil {
		response.InternalError(c, "failed to delete place")
		return
	}
	response.OK(c, nil)
}
