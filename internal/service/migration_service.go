package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vladgets/roadmate-backend-go/internal/geocode"
	"github.com/vladgets/roadmate-backend-go/internal/models"
	"github.com/vladgets/roadmate-backend-go/internal/repository"
)

// migrationDoneKey marks the one-time enrichment backfill as applied
const migrationDoneKey = "migration.enrich.v2"

// ErrAlreadyRun is returned when the backfill has already been applied
var ErrAlreadyRun = errors.New("enrichment migration already applied")

// MigrationService backfills address and visit labels on historical
// events recorded before enrichment existed. Lookups are paced by the
// geocoding client; individual failures are collected, not fatal.
type MigrationService struct {
	store    *repository.EventStore
	places   *repository.PlaceRepository
	geocoder geocode.Resolver
	state    *repository.AppState
	log      zerolog.Logger
}

// NewMigrationService creates a migration service
func NewMigrationService(
	store *repository.EventStore,
	places *repository.PlaceRepository,
	geocoder geocode.Resolver,
	state *repository.AppState,
	log zerolog.Logger,
) *MigrationService {
	return &MigrationService{
		store:    store,
		places:   places,
		geocoder: geocoder,
		state:    state,
		log:      log.With().Str("component", "migration").Logger(),
	}
}

// Run performs the backfill pass over every stored event missing an
// address or (for visits) a label. Returns ErrAlreadyRun after the
// first successful pass.
func (m *MigrationService) Run(ctx context.Context) (models.MigrationSummary, error) {
	summary := models.MigrationSummary{Errors: []string{}}

	done, err := m.state.Get(migrationDoneKey)
	if err != nil {
		return summary, err
	}
	if done != "" {
		return summary, ErrAlreadyRun
	}

	snapshot := m.store.Snapshot()
	summary.TotalCount = len(snapshot)

	for _, event := range snapshot {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		if !needsEnrichment(&event) {
			continue
		}

		address, label, err := m.enrich(ctx, &event)
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("event %s: %v", event.ID, err))
			continue
		}
		if address == "" && label == "" {
			continue
		}

		if err := m.store.UpdateEnrichment(event.ID, address, label); err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("event %s: %v", event.ID, err))
			continue
		}
		summary.UpdatedCount++
	}

	if err := m.state.Set(migrationDoneKey, "done"); err != nil {
		return summary, err
	}

	m.log.Info().
		Int("updated", summary.UpdatedCount).
		Int("total", summary.TotalCount).
		Int("errors", len(summary.Errors)).
		Msg("enrichment migration finished")
	return summary, nil
}

func needsEnrichment(event *models.TripEvent) bool {
	if !event.HasLocation() {
		return false
	}
	if event.Address == "" {
		return true
	}
	return event.Kind == models.KindVisit && event.Label == ""
}

// enrich resolves the missing fields for one event. Named places take
// precedence over POI lookup for visit labels; the geocoder is only
// called when something still needs it.
func (m *MigrationService) enrich(ctx context.Context, event *models.TripEvent) (address, label string, err error) {
	if event.Kind == models.KindVisit && event.Label == "" {
		place, perr := m.places.NearestWithin(*event.Latitude, *event.Longitude)
		if perr != nil {
			return "", "", perr
		}
		if place != nil {
			label = place.Label
		}
	}

	needAddress := event.Address == ""
	needPOI := event.Kind == models.KindVisit && event.Label == "" && label == ""
	if !needAddress && !needPOI {
		return "", label, nil
	}

	result, gerr := m.geocoder.Lookup(ctx, *event.Latitude, *event.Longitude)
	if gerr != nil {
		// A resolved place label is still worth writing
		if label != "" {
			return "", label, nil
		}
		return "", "", gerr
	}

	if needAddress {
		address = result.Address
	}
	if needPOI {
		label = result.POIName
	}
	return address, label, nil
}
