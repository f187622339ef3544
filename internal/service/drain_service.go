package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vladgets/roadmate-backend-go/internal/models"
	"github.com/vladgets/roadmate-backend-go/internal/repository"
)

// DrainService imports transitions recorded by the native watcher while
// the service was not running. It runs once at startup; malformed buffer
// entries are skipped individually, never aborting the whole drain.
type DrainService struct {
	store   *repository.EventStore
	pending *repository.PendingRepository
	log     zerolog.Logger
}

// NewDrainService creates a drain service
func NewDrainService(store *repository.EventStore, pending *repository.PendingRepository, log zerolog.Logger) *DrainService {
	return &DrainService{
		store:   store,
		pending: pending,
		log:     log.With().Str("component", "drain").Logger(),
	}
}

// DrainOnce imports the pending buffer into the event store and clears
// it. Returns the number of events imported.
func (s *DrainService) DrainOnce() (int, error) {
	raw, err := s.pending.FetchAll()
	if err != nil {
		return 0, err
	}
	if len(raw) == 0 {
		return 0, nil
	}

	imported := 0
	for _, entry := range raw {
		kind := rawKind(entry.Type)
		if !kind.Valid() || entry.TimestampMS <= 0 {
			s.log.Warn().
				Str("type", entry.Type).
				Int64("timestampMillis", entry.TimestampMS).
				Msg("skipping malformed pending event")
			continue
		}

		at := time.UnixMilli(entry.TimestampMS).UTC()
		if s.store.HasEventAt(kind, at) {
			continue
		}

		event := models.TripEvent{
			ID:        uuid.NewString(),
			Kind:      kind,
			Timestamp: at,
		}
		if err := s.store.InsertFromExternalSource(event); err != nil {
			s.log.Error().Err(err).Msg("failed to import pending event")
			continue
		}
		imported++
	}

	if err := s.pending.Clear(); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear pending buffer")
	}

	s.log.Info().Int("imported", imported).Int("buffered", len(raw)).Msg("pending events drained")
	return imported, nil
}

// rawKind maps a watcher event type onto a trip event kind. Visits are
// never produced by the watcher.
func rawKind(t string) models.EventKind {
	switch t {
	case "start", "driving_started":
		return models.KindStart
	case "park", "driving_stopped":
		return models.KindPark
	}
	return ""
}
