package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vladgets/roadmate-backend-go/internal/handler"
	"github.com/vladgets/roadmate-backend-go/internal/middleware"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Events    *handler.EventHandler
	Places    *handler.PlaceHandler
	Activity  *handler.ActivityHandler
	Migration *handler.MigrationHandler
}

// SetupRouter builds the gin engine with middleware and routes
func SetupRouter(h Handlers, deviceSecret, environment string, log zerolog.Logger) *gin.Engine {
	if environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(log))

	// CORS for the companion app
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(120, time.Minute))
	{
		events := api.Group("/events")
		{
			events.GET("/driving-log", h.Events.GetDrivingLog)
			events.GET("/visits", h.Events.GetPlaceVisits)
			events.PATCH("/:id/label", h.Events.UpdateLabel)
			events.DELETE("/:id", h.Events.DeleteEvent)
		}

		places := api.Group("/places")
		{
			places.GET("", h.Places.ListPlaces)
			places.POST("", h.Places.SavePlace)
			places.DELETE("/:label", h.Places.DeletePlace)
		}

		api.POST("/simulate", h.Activity.Simulate)
		api.POST("/migrate", h.Migration.RunMigration)

		// Device ingest requires a device token
		device := api.Group("")
		device.Use(middleware.DeviceAuth(deviceSecret))
		{
			device.POST("/activity", h.Activity.IngestActivity)
			device.POST("/activity/location", h.Activity.ReportLocation)
			device.POST("/pending", h.Activity.EnqueuePending)
		}
	}

	return r
}
