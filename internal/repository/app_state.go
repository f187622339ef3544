package repository

import (
	"database/sql"
	"fmt"
)

// AppState provides access to small keyed values in the app_state table
// (flags, counters) outside the event log namespace.
type AppState struct {
	db *sql.DB
}

// NewAppState creates a new app state accessor
func NewAppState(db *sql.DB) *AppState {
	return &AppState{db: db}
}

// Get returns the value for key, or "" when the key is absent
func (a *AppState) Get(key string) (string, error) {
	var value string
	err := a.db.QueryRow("SELECT value FROM app_state WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get app state %q: %w", key, err)
	}
	return value, nil
}

// Set stores the value for key
func (a *AppState) Set(key, value string) error {
	_, err := a.db.Exec(`
		INSERT INTO app_state (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("set app state %q: %w", key, err)
	}
	return nil
}
