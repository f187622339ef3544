package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/vladgets/roadmate-backend-go/internal/database"
	"github.com/vladgets/roadmate-backend-go/internal/geocode"
	"github.com/vladgets/roadmate-backend-go/internal/location"
	"github.com/vladgets/roadmate-backend-go/internal/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := database.ApplySchema(db); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func newTestStore(t *testing.T, db *sql.DB) *repository.EventStore {
	t.Helper()
	store, err := repository.NewEventStore(db, 0, zerolog.Nop())
	if err != nil {
		t.Fatalf("new event store: %v", err)
	}
	return store
}

// stubResolver is a canned reverse-geocode collaborator
type stubResolver struct {
	result geocode.Result
	err    error
	calls  int
}

func (s *stubResolver) Lookup(ctx context.Context, lat, lon float64) (geocode.Result, error) {
	s.calls++
	return s.result, s.err
}

// stubSource returns a fixed location fix
type stubSource struct {
	fix location.Fix
}

func (s *stubSource) AcquireBestEffort(ctx context.Context) location.Fix {
	return s.fix
}

// recordSink captures notification attempts
type recordSink struct {
	shown chan string
	err   error
}

func newRecordSink() *recordSink {
	return &recordSink{shown: make(chan string, 16)}
}

func (s *recordSink) Show(ctx context.Context, id, title, body string) error {
	s.shown <- title + ": " + body
	return s.err
}
