// Command toolserver exposes the trip log to assistants as MCP tools
// over stdio: get_driving_log and get_place_visits.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vladgets/roadmate-backend-go/internal/config"
	"github.com/vladgets/roadmate-backend-go/internal/database"
	"github.com/vladgets/roadmate-backend-go/internal/logger"
	"github.com/vladgets/roadmate-backend-go/internal/models"
	"github.com/vladgets/roadmate-backend-go/internal/repository"
	"github.com/vladgets/roadmate-backend-go/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	store, err := repository.NewEventStore(db, cfg.Detection.MaxEvents, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load event store")
	}
	events := service.NewEventService(store)

	s := server.NewMCPServer("roadmate", "1.0.0", server.WithToolCapabilities(false))

	s.AddTool(
		mcp.NewTool("get_driving_log",
			mcp.WithDescription("Recent driving start/park events, newest first"),
			mcp.WithNumber("limit", mcp.Description("Maximum events to return (1-50, default 10)")),
		),
		listToolHandler(func(limit int) []models.TripEventView {
			return events.DrivingLog(limit)
		}),
	)

	s.AddTool(
		mcp.NewTool("get_place_visits",
			mcp.WithDescription("Recent place visits with labels and dwell duration, newest first"),
			mcp.WithNumber("limit", mcp.Description("Maximum visits to return (1-50, default 10)")),
		),
		listToolHandler(func(limit int) []models.TripEventView {
			return events.PlaceVisits(limit)
		}),
	)

	if err := server.ServeStdio(s); err != nil {
		log.Error().Err(err).Msg("tool server stopped")
		os.Exit(1)
	}
}

// listToolHandler wraps a listing query into the {ok, items, count}
// envelope the assistant expects
func listToolHandler(list func(limit int) []models.TripEventView) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", 10)

		items := list(limit)
		payload, err := json.Marshal(map[string]interface{}{
			"ok":    true,
			"items": items,
			"count": len(items),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(payload)), nil
	}
}
