package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vladgets/roadmate-backend-go/internal/geocode"
	"github.com/vladgets/roadmate-backend-go/internal/models"
	"github.com/vladgets/roadmate-backend-go/internal/repository"
)

func f64(v float64) *float64 { return &v }

func TestVisitThresholdIsStrict(t *testing.T) {
	db := openTestDB(t)
	store := newTestStore(t, db)
	places := repository.NewPlaceRepository(db)
	threshold := 10 * time.Minute

	svc := NewVisitService(store, places, &stubResolver{}, threshold, false, zerolog.Nop())

	start := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	// Exactly the threshold: no visit
	event, err := svc.LogVisit(context.Background(), start, start.Add(threshold), nil, nil)
	if err != nil {
		t.Fatalf("log visit: %v", err)
	}
	if event != nil {
		t.Errorf("dwell of exactly the threshold produced a visit")
	}

	// One millisecond over: visit
	event, err = svc.LogVisit(context.Background(), start, start.Add(threshold+time.Millisecond), nil, nil)
	if err != nil {
		t.Fatalf("log visit: %v", err)
	}
	if event == nil {
		t.Fatal("dwell one millisecond over the threshold produced nothing")
	}
	if store.Len() != 1 {
		t.Errorf("store has %d events, want 1", store.Len())
	}
}

func TestVisitLabelFromNamedPlace(t *testing.T) {
	db := openTestDB(t)
	store := newTestStore(t, db)
	places := repository.NewPlaceRepository(db)
	if err := places.Save(models.NamedPlace{Label: "Work", Latitude: 44.0462, Longitude: -123.0220, RadiusMeters: 200}); err != nil {
		t.Fatalf("save place: %v", err)
	}

	// POI lookup enabled but must not be consulted when a place matches
	resolver := &stubResolver{result: geocode.Result{POIName: "Starbucks"}}
	svc := NewVisitService(store, places, resolver, 10*time.Minute, true, zerolog.Nop())

	start := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	event, err := svc.LogVisit(context.Background(), start, start.Add(15*time.Minute), f64(44.0462), f64(-123.0221))
	if err != nil {
		t.Fatalf("log visit: %v", err)
	}

	if event.Label != "Work" {
		t.Errorf("label = %q, want %q", event.Label, "Work")
	}
	if resolver.calls != 0 {
		t.Errorf("poi lookup consulted %d times despite place match", resolver.calls)
	}
	if event.DurationMinutes() != 15 {
		t.Errorf("durationMinutes = %d, want 15", event.DurationMinutes())
	}
}

func TestVisitLabelFromPOILookup(t *testing.T) {
	db := openTestDB(t)
	store := newTestStore(t, db)
	places := repository.NewPlaceRepository(db)

	resolver := &stubResolver{result: geocode.Result{POIName: "Starbucks", Address: "Main St, Springfield, OR"}}
	svc := NewVisitService(store, places, resolver, 10*time.Minute, true, zerolog.Nop())

	start := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	event, err := svc.LogVisit(context.Background(), start, start.Add(20*time.Minute), f64(44.05), f64(-123.02))
	if err != nil {
		t.Fatalf("log visit: %v", err)
	}

	if event.Label != "Starbucks" {
		t.Errorf("label = %q, want %q", event.Label, "Starbucks")
	}
	if event.Address != "Main St, Springfield, OR" {
		t.Errorf("address = %q", event.Address)
	}
}

func TestVisitPOIDisabled(t *testing.T) {
	db := openTestDB(t)
	store := newTestStore(t, db)
	places := repository.NewPlaceRepository(db)

	resolver := &stubResolver{result: geocode.Result{POIName: "Starbucks"}}
	svc := NewVisitService(store, places, resolver, 10*time.Minute, false, zerolog.Nop())

	start := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	event, err := svc.LogVisit(context.Background(), start, start.Add(20*time.Minute), f64(44.05), f64(-123.02))
	if err != nil {
		t.Fatalf("log visit: %v", err)
	}

	if event.Label != "" {
		t.Errorf("label = %q with poi lookup disabled, want empty", event.Label)
	}
	if resolver.calls != 0 {
		t.Errorf("resolver consulted %d times while disabled", resolver.calls)
	}
}

func TestVisitLookupFailureIsNotFatal(t *testing.T) {
	db := openTestDB(t)
	store := newTestStore(t, db)
	places := repository.NewPlaceRepository(db)

	resolver := &stubResolver{err: errors.New("network down")}
	svc := NewVisitService(store, places, resolver, 10*time.Minute, true, zerolog.Nop())

	start := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	event, err := svc.LogVisit(context.Background(), start, start.Add(20*time.Minute), f64(44.05), f64(-123.02))
	if err != nil {
		t.Fatalf("lookup failure propagated: %v", err)
	}
	if event == nil {
		t.Fatal("visit not persisted despite lookup failure")
	}
	if event.Label != "" {
		t.Errorf("label = %q, want empty", event.Label)
	}
}

func TestVisitWithoutLocationSkipsResolution(t *testing.T) {
	db := openTestDB(t)
	store := newTestStore(t, db)
	places := repository.NewPlaceRepository(db)

	resolver := &stubResolver{}
	svc := NewVisitService(store, places, resolver, 10*time.Minute, true, zerolog.Nop())

	start := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	event, err := svc.LogVisit(context.Background(), start, start.Add(20*time.Minute), nil, nil)
	if err != nil {
		t.Fatalf("log visit: %v", err)
	}
	if event.Label != "" || resolver.calls != 0 {
		t.Errorf("resolution attempted without a location")
	}
}
