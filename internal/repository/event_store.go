package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vladgets/roadmate-backend-go/internal/models"
)

const (
	// eventLogKey is the app_state namespace holding the serialized event log
	eventLogKey = "trip_events.v2"

	// DefaultCapacity is the maximum number of stored events before the
	// logically oldest (by effective timestamp) is evicted
	DefaultCapacity = 500

	defaultListLimit = 10
	maxListLimit     = 50
)

// EventStore is the append-and-prune trip event log. The full collection
// lives in memory, sorted descending by effective timestamp, and is
// rewritten to a single app_state row after every mutation. All mutations
// are serialized behind one mutex so a park transition can never interleave
// with a migration pass mid-write.
type EventStore struct {
	db       *sql.DB
	log      zerolog.Logger
	capacity int

	mu     sync.Mutex
	events []models.TripEvent
}

// NewEventStore loads the persisted log. A missing row yields an empty
// store; a corrupt payload is discarded with a warning rather than
// failing startup.
func NewEventStore(db *sql.DB, capacity int, log zerolog.Logger) (*EventStore, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	s := &EventStore{
		db:       db,
		log:      log.With().Str("component", "event_store").Logger(),
		capacity: capacity,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *EventStore) load() error {
	var payload string
	err := s.db.QueryRow(
		"SELECT value FROM app_state WHERE key = ?", eventLogKey,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load event log: %w", err)
	}

	var events []models.TripEvent
	if err := json.Unmarshal([]byte(payload), &events); err != nil {
		s.log.Warn().Err(err).Msg("event log payload corrupt, starting empty")
		return nil
	}

	s.events = events
	s.sortLocked()
	return nil
}

// persistLocked rewrites the full collection. Callers must hold s.mu.
func (s *EventStore) persistLocked() error {
	payload, err := json.Marshal(s.events)
	if err != nil {
		return fmt.Errorf("marshal event log: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO app_state (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, eventLogKey, string(payload))
	if err != nil {
		return fmt.Errorf("persist event log: %w", err)
	}
	return nil
}

// sortLocked orders events newest-first by effective timestamp.
// Callers must hold s.mu.
func (s *EventStore) sortLocked() {
	sort.SliceStable(s.events, func(i, j int) bool {
		return s.events[i].EffectiveTime().After(s.events[j].EffectiveTime())
	})
}

// Insert adds an event, re-sorts, evicts past capacity and persists.
// Callers mint fresh ids, so plain inserts do not dedup.
func (s *EventStore) Insert(event models.TripEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, event)
	s.sortLocked()
	if len(s.events) > s.capacity {
		s.events = s.events[:s.capacity]
	}
	return s.persistLocked()
}

// InsertFromExternalSource is the drain ingestion path. The operation is
// identical to Insert; deduplication against already-stored events is the
// caller's responsibility (see HasEventAt).
func (s *EventStore) InsertFromExternalSource(event models.TripEvent) error {
	return s.Insert(event)
}

// Delete removes the event with the given id. Unknown ids are a no-op.
func (s *EventStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.events {
		if s.events[i].ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return s.persistLocked()
		}
	}
	return nil
}

// UpdateLabel replaces the label on a Visit event. Whitespace is trimmed
// and an empty string clears the label. Unknown ids are a no-op.
func (s *EventStore) UpdateLabel(id, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	label = strings.TrimSpace(label)
	for i := range s.events {
		if s.events[i].ID == id && s.events[i].Kind == models.KindVisit {
			s.events[i].Label = label
			return s.persistLocked()
		}
	}
	return nil
}

// UpdateEnrichment backfills address and/or label on an event during
// migration. Empty arguments leave the corresponding field untouched;
// labels only apply to Visit events.
func (s *EventStore) UpdateEnrichment(id, address, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.events {
		if s.events[i].ID != id {
			continue
		}
		if address != "" {
			s.events[i].Address = address
		}
		if label != "" && s.events[i].Kind == models.KindVisit {
			s.events[i].Label = label
		}
		return s.persistLocked()
	}
	return nil
}

// ListRecent returns up to limit events newest-first by effective
// timestamp, optionally filtered by kind. A nil filter matches all kinds.
// The limit is clamped to 1-50, defaulting when unset.
func (s *EventStore) ListRecent(kinds []models.EventKind, limit int) []models.TripEvent {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.TripEvent, 0, limit)
	for _, e := range s.events {
		if len(kinds) > 0 && !kindMatches(e.Kind, kinds) {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out
}

func kindMatches(k models.EventKind, kinds []models.EventKind) bool {
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the full ordered collection
func (s *EventStore) Snapshot() []models.TripEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.TripEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Len returns the number of stored events
func (s *EventStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// HasEventAt reports whether an event of the given kind already exists at
// the given instant. The drain uses this to dedup watcher events that were
// already imported.
func (s *EventStore) HasEventAt(kind models.EventKind, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.events {
		if e.Kind == kind && e.Timestamp.Equal(at) {
			return true
		}
	}
	return false
}
