package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vladgets/roadmate-backend-go/internal/location"
	"github.com/vladgets/roadmate-backend-go/internal/models"
	"github.com/vladgets/roadmate-backend-go/internal/repository"
)

func newDrivingFixture(t *testing.T, src location.Source, sink *recordSink) (*DrivingService, *repository.EventStore, *repository.PlaceRepository) {
	t.Helper()

	db := openTestDB(t)
	store := newTestStore(t, db)
	places := repository.NewPlaceRepository(db)
	visits := NewVisitService(store, places, &stubResolver{}, 10*time.Minute, false, zerolog.Nop())
	driving := NewDrivingService(store, src, sink, visits, time.Second, zerolog.Nop())
	return driving, store, places
}

func waitForNotification(t *testing.T, sink *recordSink) string {
	t.Helper()
	select {
	case msg := <-sink.shown:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no notification dispatched")
		return ""
	}
}

func TestDriveParkVisitScenario(t *testing.T) {
	workLat, workLon := 44.0462, -123.0220
	src := &stubSource{fix: location.Fix{
		OK: true, Latitude: workLat, Longitude: workLon,
		Address: "Main St, Springfield, OR", Origin: location.OriginLastKnown,
	}}
	sink := newRecordSink()
	driving, store, places := newDrivingFixture(t, src, sink)

	if err := places.Save(models.NamedPlace{Label: "Work", Latitude: workLat, Longitude: workLon, RadiusMeters: 200}); err != nil {
		t.Fatalf("save place: %v", err)
	}

	ctx := context.Background()
	t0 := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	// Two qualifying in-vehicle readings: exactly one start, anchored at t0
	driving.handleReading(ctx, models.ActivityReading{Type: models.ActivityInVehicle, Confidence: 80, At: t0})
	driving.handleReading(ctx, models.ActivityReading{Type: models.ActivityInVehicle, Confidence: 90, At: t0.Add(time.Minute)})

	log := store.ListRecent([]models.EventKind{models.KindStart}, 10)
	if len(log) != 1 {
		t.Fatalf("got %d starts, want 1", len(log))
	}
	if !log[0].Timestamp.Equal(t0) {
		t.Errorf("start at %v, want anchored to first reading %v", log[0].Timestamp, t0)
	}
	waitForNotification(t, sink)

	// Still: one park
	tPark := t0.Add(20 * time.Minute)
	driving.handleReading(ctx, models.ActivityReading{Type: models.ActivityStill, Confidence: 95, At: tPark})
	parks := store.ListRecent([]models.EventKind{models.KindPark}, 10)
	if len(parks) != 1 {
		t.Fatalf("got %d parks, want 1", len(parks))
	}
	waitForNotification(t, sink)

	// 15-minute dwell, then driving again: one visit labeled Work
	tNext := tPark.Add(15 * time.Minute)
	driving.handleReading(ctx, models.ActivityReading{Type: models.ActivityInVehicle, Confidence: 80, At: tNext})
	driving.handleReading(ctx, models.ActivityReading{Type: models.ActivityInVehicle, Confidence: 85, At: tNext.Add(time.Minute)})

	events := NewEventService(store)
	visits := events.PlaceVisits(10)
	if len(visits) != 1 {
		t.Fatalf("got %d visits, want 1", len(visits))
	}
	v := visits[0]
	if v.Label != "Work" {
		t.Errorf("visit label = %q, want Work", v.Label)
	}
	if v.DurationMinutes != 15 {
		t.Errorf("durationMinutes = %d, want 15", v.DurationMinutes)
	}
	if !v.Timestamp.Equal(tPark) {
		t.Errorf("visit starts at %v, want park time %v", v.Timestamp, tPark)
	}
}

func TestShortDwellProducesNoVisit(t *testing.T) {
	src := &stubSource{fix: location.Fix{OK: true, Latitude: 44, Longitude: -123, Origin: location.OriginLastKnown}}
	sink := newRecordSink()
	driving, store, _ := newDrivingFixture(t, src, sink)

	ctx := context.Background()
	t0 := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	driving.handleReading(ctx, models.ActivityReading{Type: models.ActivityInVehicle, Confidence: 80, At: t0})
	driving.handleReading(ctx, models.ActivityReading{Type: models.ActivityInVehicle, Confidence: 80, At: t0.Add(time.Minute)})
	driving.handleReading(ctx, models.ActivityReading{Type: models.ActivityStill, Confidence: 95, At: t0.Add(10 * time.Minute)})

	// Back on the road after only 5 minutes
	tNext := t0.Add(15 * time.Minute)
	driving.handleReading(ctx, models.ActivityReading{Type: models.ActivityInVehicle, Confidence: 80, At: tNext})
	driving.handleReading(ctx, models.ActivityReading{Type: models.ActivityInVehicle, Confidence: 80, At: tNext.Add(time.Minute)})

	if got := store.ListRecent([]models.EventKind{models.KindVisit}, 10); len(got) != 0 {
		t.Errorf("got %d visits after a 5-minute stop, want 0", len(got))
	}
}

func TestEventPersistedWhenCollaboratorsFail(t *testing.T) {
	src := &stubSource{fix: location.Fix{OK: false, Err: errors.New("permission denied")}}
	sink := newRecordSink()
	sink.err = errors.New("notification channel down")
	driving, store, _ := newDrivingFixture(t, src, sink)

	ctx := context.Background()
	t0 := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	driving.handleReading(ctx, models.ActivityReading{Type: models.ActivityInVehicle, Confidence: 80, At: t0})
	driving.handleReading(ctx, models.ActivityReading{Type: models.ActivityInVehicle, Confidence: 80, At: t0.Add(time.Minute)})

	log := store.ListRecent(nil, 10)
	if len(log) != 1 {
		t.Fatalf("got %d events, want 1 despite collaborator failures", len(log))
	}
	if log[0].HasLocation() {
		t.Error("event has a location despite acquisition failure")
	}
	// Dispatch was still attempted
	waitForNotification(t, sink)
}

func TestSimulateReusesCaptureAndLogPath(t *testing.T) {
	src := &stubSource{fix: location.Fix{OK: true, Latitude: 44, Longitude: -123, Origin: location.OriginLowPowerFix}}
	sink := newRecordSink()
	driving, store, _ := newDrivingFixture(t, src, sink)

	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	driving.now = func() time.Time { return now }

	ctx := context.Background()
	event, err := driving.Simulate(ctx, models.KindStart)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if event == nil || event.Kind != models.KindStart {
		t.Fatalf("simulated event = %+v, want start", event)
	}
	if !event.Timestamp.Equal(now) {
		t.Errorf("simulated start at %v, want the manual call instant %v", event.Timestamp, now)
	}
	if !event.HasLocation() {
		t.Error("simulate skipped location capture")
	}
	if store.Len() != 1 {
		t.Errorf("store has %d events, want 1", store.Len())
	}
	if !driving.IsDriving() {
		t.Error("not driving after simulated start")
	}

	// Simulating start again emits nothing
	event, err = driving.Simulate(ctx, models.KindStart)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if event != nil {
		t.Errorf("second simulated start emitted %+v", event)
	}

	if _, err := driving.Simulate(ctx, models.KindVisit); err == nil {
		t.Error("simulating a visit was accepted")
	}
}

func TestRunResetsStateOnStop(t *testing.T) {
	src := &stubSource{fix: location.Fix{OK: false}}
	sink := newRecordSink()
	driving, _, _ := newDrivingFixture(t, src, sink)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		driving.Run(ctx)
		close(done)
	}()

	t0 := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	driving.Submit([]models.ActivityReading{
		{Type: models.ActivityInVehicle, Confidence: 80, At: t0},
		{Type: models.ActivityInVehicle, Confidence: 80, At: t0.Add(time.Minute)},
	})

	deadline := time.After(2 * time.Second)
	for !driving.IsDriving() {
		select {
		case <-deadline:
			t.Fatal("state machine never reached driving")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	<-done

	if driving.IsDriving() {
		t.Error("in-memory state survived stop")
	}
}
