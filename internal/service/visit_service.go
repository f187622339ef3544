package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vladgets/roadmate-backend-go/internal/geocode"
	"github.com/vladgets/roadmate-backend-go/internal/models"
	"github.com/vladgets/roadmate-backend-go/internal/repository"
)

// VisitService turns qualifying dwell spans into Visit events, resolving
// a label from the user's named places or, failing that, a POI lookup.
type VisitService struct {
	store     *repository.EventStore
	places    *repository.PlaceRepository
	geocoder  geocode.Resolver
	threshold time.Duration
	poiLookup bool
	log       zerolog.Logger
}

// NewVisitService creates a visit service
func NewVisitService(
	store *repository.EventStore,
	places *repository.PlaceRepository,
	geocoder geocode.Resolver,
	threshold time.Duration,
	poiLookup bool,
	log zerolog.Logger,
) *VisitService {
	return &VisitService{
		store:     store,
		places:    places,
		geocoder:  geocoder,
		threshold: threshold,
		poiLookup: poiLookup,
		log:       log.With().Str("component", "visit_service").Logger(),
	}
}

// LogVisit records a dwell span bounded by a park and the next start.
// Spans not strictly exceeding the visit threshold are dropped; short
// stops are not visits. Returns the persisted event, or nil when the
// span did not qualify.
func (s *VisitService) LogVisit(ctx context.Context, start, end time.Time, lat, lon *float64) (*models.TripEvent, error) {
	if end.Sub(start) <= s.threshold {
		return nil, nil
	}

	event := models.TripEvent{
		ID:           uuid.NewString(),
		Kind:         models.KindVisit,
		Timestamp:    start.UTC(),
		EndTimestamp: timePtr(end.UTC()),
		Latitude:     lat,
		Longitude:    lon,
	}

	if lat != nil && lon != nil {
		label, address := s.resolveLabel(ctx, *lat, *lon)
		event.Label = label
		event.Address = address
	}

	if err := s.store.Insert(event); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("id", event.ID).
		Str("label", event.Label).
		Int("minutes", event.DurationMinutes()).
		Msg("visit logged")
	return &event, nil
}

// resolveLabel checks named places first, then falls back to a POI
// lookup when enabled. Lookup failure means no label, never an error.
func (s *VisitService) resolveLabel(ctx context.Context, lat, lon float64) (label, address string) {
	place, err := s.places.NearestWithin(lat, lon)
	if err != nil {
		s.log.Warn().Err(err).Msg("named place lookup failed")
	} else if place != nil {
		return place.Label, ""
	}

	if !s.poiLookup {
		return "", ""
	}

	result, err := s.geocoder.Lookup(ctx, lat, lon)
	if err != nil {
		s.log.Debug().Err(err).Msg("poi lookup failed, visit stays unlabeled")
		return "", ""
	}
	return result.POIName, result.Address
}

func timePtr(t time.Time) *time.Time {
	return &t
}
