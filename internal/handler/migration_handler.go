package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vladgets/roadmate-backend-go/internal/service"
	"github.com/vladgets/roadmate-backend-go/pkg/response"
)

// MigrationHandler triggers the one-time enrichment backfill
type MigrationHandler struct {
	migration *service.MigrationService
}

// NewMigrationHandler creates a new migration handler
func NewMigrationHandler(migration *service.MigrationService) *MigrationHandler {
	return &MigrationHandler{migration: migration}
}

// RunMigration handles POST /api/v1/migrate
func (h *MigrationHandler) RunMigration(c *gin.Context) {
	summary, err := h.migration.Run(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrAlreadyRun) {
			response.Fail(c, http.StatusConflict, err.Error())
			return
		}
		response.InternalError(c, "migration failed")
		return
	}

	response.OK(c, gin.H{
		"updatedCount": summary.UpdatedCount,
		"totalCount":   summary.TotalCount,
		"errors":       summary.Errors,
	})
}
