package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vladgets/roadmate-backend-go/internal/api"
	"github.com/vladgets/roadmate-backend-go/internal/config"
	"github.com/vladgets/roadmate-backend-go/internal/database"
	"github.com/vladgets/roadmate-backend-go/internal/geocode"
	"github.com/vladgets/roadmate-backend-go/internal/handler"
	"github.com/vladgets/roadmate-backend-go/internal/location"
	"github.com/vladgets/roadmate-backend-go/internal/logger"
	"github.com/vladgets/roadmate-backend-go/internal/notify"
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

	// Repositories
	store, err := repository.NewEventStore(db, cfg.Detection.MaxEvents, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load event store")
	}
	placeRepo := repository.NewPlaceRepository(db)
	pendingRepo := repository.NewPendingRepository(db)
	appState := repository.NewAppState(db)

	// Collaborators
	cached := location.NewCachedSource(cfg.Location.CachedMaxAge)
	agent := location.NewAgentSource(cfg.Location.AgentURL, cfg.Location.FixTimeout)
	fixes := location.NewTieredSource(cached, agent)
	geocoder := geocode.NewClient(cfg.Geocode.BaseURL, cfg.Geocode.UserAgent, cfg.Geocode.Pace)

	var sink notify.Sink = notify.Noop{}
	if cfg.Notify.TopicURL != "" {
		sink = notify.NewPushSink(cfg.Notify.TopicURL)
	}

	// Services
	visits := service.NewVisitService(
		store, placeRepo, geocoder,
		cfg.Detection.VisitThreshold, cfg.Detection.POILookup, log,
	)
	driving := service.NewDrivingService(store, fixes, sink, visits, cfg.Location.FixTimeout, log)
	drain := service.NewDrainService(store, pendingRepo, log)
	migration := service.NewMigrationService(store, placeRepo, geocoder, appState, log)
	events := service.NewEventService(store)
	places := service.NewPlaceService(placeRepo)

	// Reconcile events observed while the service was down
	if imported, err := drain.DrainOnce(); err != nil {
		log.Warn().Err(err).Msg("pending event drain failed")
	} else if imported > 0 {
		log.Info().Int("imported", imported).Msg("imported pending events")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go driving.Run(ctx)

	router := api.SetupRouter(api.Handlers{
		Events:    handler.NewEventHandler(events),
		Places:    handler.NewPlaceHandler(places),
		Activity:  handler.NewActivityHandler(driving, cached, pendingRepo, log),
		Migration: handler.NewMigrationHandler(migration),
	}, cfg.Auth.DeviceSecret, cfg.Environment, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting roadmate backend")
	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
