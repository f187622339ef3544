package repository

import (
	"database/sql"
	"fmt"

	"github.com/vladgets/roadmate-backend-go/internal/models"
)

// PendingRepository is the native watcher's event buffer: raw transitions
// recorded while the main process was not running, waiting to be drained
// into the event store.
type PendingRepository struct {
	db *sql.DB
}

// NewPendingRepository creates a new pending event repository
func NewPendingRepository(db *sql.DB) *PendingRepository {
	return &PendingRepository{db: db}
}

// Enqueue appends raw events to the buffer
func (r *PendingRepository) Enqueue(events []models.PendingRawEvent) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin enqueue: %w", err)
	}
	for _, e := range events {
		if _, err := tx.Exec(
			"INSERT INTO pending_events (event_type, timestamp_ms) VALUES (?, ?)",
			e.Type, e.TimestampMS,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("enqueue pending event: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit enqueue: %w", err)
	}
	return nil
}

// FetchAll returns the buffered events oldest-first
func (r *PendingRepository) FetchAll() ([]models.PendingRawEvent, error) {
	rows, err := r.db.Query(`
		SELECT event_type, timestamp_ms
		FROM pending_events
		ORDER BY timestamp_ms
	`)
	if err != nil {
		return nil, fmt.Errorf("fetch pending events: %w", err)
	}
	defer rows.Close()

	var events []models.PendingRawEvent
	for rows.Next() {
		var e models.PendingRawEvent
		if err := rows.Scan(&e.Type, &e.TimestampMS); err != nil {
			return nil, fmt.Errorf("scan pending event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Clear empties the buffer
func (r *PendingRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM pending_events"); err != nil {
		return fmt.Errorf("clear pending events: %w", err)
	}
	return nil
}
