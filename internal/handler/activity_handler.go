package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vladgets/roadmate-backend-go/internal/location"
	"github.com/vladgets/roadmate-backend-go/internal/middleware"
	"github.com/vladgets/roadmate-backend-go/internal/models"
	"github.com/vladgets/roadmate-backend-go/internal/repository"
	"github.com/vladgets/roadmate-backend-go/internal/service"
	"github.com/vladgets/roadmate-backend-go/pkg/response"
)

// ActivityHandler handles the device ingest surface: classifier
// readings, location reports and the native watcher's pending buffer.
type ActivityHandler struct {
	driving *service.DrivingService
	cached  *location.CachedSource
	pending *repository.PendingRepository
	log     zerolog.Logger
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(
	driving *service.DrivingService,
	cached *location.CachedSource,
	pending *repository.PendingRepository,
	log zerolog.Logger,
) *ActivityHandler {
	return &ActivityHandler{
		driving: driving,
		cached:  cached,
		pending: pending,
		log:     log.With().Str("component", "ingest").Logger(),
	}
}

// IngestActivity handles POST /api/v1/activity
func (h *ActivityHandler) IngestActivity(c *gin.Context) {
	var req models.ActivityBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "readings are required")
		return
	}

	h.driving.Submit(req.Readings)
	h.log.Debug().
		Str("device", middleware.DeviceID(c)).
		Int("readings", len(req.Readings)).
		Msg("activity batch accepted")
	response.OK(c, gin.H{"accepted": len(req.Readings)})
}

// ReportLocation handles POST /api/v1/activity/location
func (h *ActivityHandler) ReportLocation(c *gin.Context) {
	var req models.LocationReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "lat and lon are required")
		return
	}

	h.cached.Report(req.Latitude, req.Longitude, req.Address)
	response.OK(c, nil)
}

// EnqueuePending handles POST /api/v1/pending
func (h *ActivityHandler) EnqueuePending(c *gin.Context) {
	var req models.PendingBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "events are required")
		return
	}

	if err := h.pending.Enqueue(req.Events); err != nil {
		response.InternalError(c, "failed to enqueue events")
		return
	}
	h.log.Debug().
		Str("device", middleware.DeviceID(c)).
		Int("events", len(req.Events)).
		Msg("pending events queued")
	response.OK(c, gin.H{"queued": len(req.Events)})
}

// Simulate handles POST /api/v1/simulate, the manual trigger path used
// for testing detection without a classifier stream
func (h *ActivityHandler) Simulate(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "kind is required")
		return
	}

	kind := models.EventKind(req.Kind)
	event, err := h.driving.Simulate(c.Request.Context(), kind)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if event == nil {
		// Already in the requested state
		response.OK(c, gin.H{"emitted": false})
		return
	}
	response.OK(c, gin.H{"emitted": true, "event": event.View()})
}
