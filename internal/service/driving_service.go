package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vladgets/roadmate-backend-go/internal/detect"
	"github.com/vladgets/roadmate-backend-go/internal/location"
	"github.com/vladgets/roadmate-backend-go/internal/models"
	"github.com/vladgets/roadmate-backend-go/internal/notify"
	"github.com/vladgets/roadmate-backend-go/internal/repository"
)

// parkMark remembers the most recent park so the dwell until the next
// start can be turned into a visit
type parkMark struct {
	At        time.Time
	Latitude  *float64
	Longitude *float64
}

// DrivingService consumes the classifier reading stream, runs the
// debounce state machine and performs capture-and-log for every accepted
// transition: best-effort location, durable trip event, fire-and-forget
// notification. Readings are processed strictly one at a time.
type DrivingService struct {
	store      *repository.EventStore
	locations  location.Source
	notifier   notify.Sink
	visits     *VisitService
	fixTimeout time.Duration
	log        zerolog.Logger
	now        func() time.Time

	readings chan models.ActivityReading

	mu       sync.Mutex
	state    detect.State
	lastPark *parkMark
}

// NewDrivingService creates the driving detection pipeline
func NewDrivingService(
	store *repository.EventStore,
	locations location.Source,
	notifier notify.Sink,
	visits *VisitService,
	fixTimeout time.Duration,
	log zerolog.Logger,
) *DrivingService {
	return &DrivingService{
		store:      store,
		locations:  locations,
		notifier:   notifier,
		visits:     visits,
		fixTimeout: fixTimeout,
		log:        log.With().Str("component", "driving_service").Logger(),
		now:        time.Now,
		readings:   make(chan models.ActivityReading, 1024),
	}
}

// Submit queues classifier readings in arrival order. Readings beyond
// the buffer are dropped rather than blocking the ingest path.
func (s *DrivingService) Submit(readings []models.ActivityReading) {
	for _, r := range readings {
		if r.At.IsZero() {
			r.At = s.now()
		}
		select {
		case s.readings <- r:
		default:
			s.log.Warn().Str("type", string(r.Type)).Msg("reading buffer full, dropping")
		}
	}
}

// Run consumes the reading stream until ctx ends. In-memory driving
// state is reset on exit; persisted history is untouched.
func (s *DrivingService) Run(ctx context.Context) {
	s.log.Info().Msg("driving detection started")
	defer func() {
		s.mu.Lock()
		s.state = detect.State{}
		s.lastPark = nil
		s.mu.Unlock()
		s.log.Info().Msg("driving detection stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case r := <-s.readings:
			s.handleReading(ctx, r)
		}
	}
}

func (s *DrivingService) handleReading(ctx context.Context, reading models.ActivityReading) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, transition := detect.Next(s.state, reading)
	s.state = next
	if transition != nil {
		s.captureAndLog(ctx, transition)
	}
}

// Simulate forces a start or park transition at the current instant,
// bypassing the classifier stream. It runs through the same
// capture-and-log path as real transitions.
func (s *DrivingService) Simulate(ctx context.Context, kind models.EventKind) (*models.TripEvent, error) {
	if kind != models.KindStart && kind != models.KindPark {
		return nil, fmt.Errorf("cannot simulate event kind %q", kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next, transition := detect.Force(s.state, kind, s.now())
	s.state = next
	if transition == nil {
		return nil, nil
	}
	return s.captureAndLog(ctx, transition), nil
}

// IsDriving reports the current in-memory state
func (s *DrivingService) IsDriving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsDriving
}

// captureAndLog acquires a best-effort location, persists the trip event
// and fires a notification. Location and notification failures never
// block persistence. Callers must hold s.mu.
func (s *DrivingService) captureAndLog(ctx context.Context, transition *detect.Transition) *models.TripEvent {
	event := models.TripEvent{
		ID:        uuid.NewString(),
		Kind:      transition.Kind,
		Timestamp: transition.At.UTC(),
	}

	fixCtx, cancel := context.WithTimeout(ctx, s.fixTimeout)
	fix := s.locations.AcquireBestEffort(fixCtx)
	cancel()
	if fix.OK {
		lat, lon := fix.Latitude, fix.Longitude
		event.Latitude = &lat
		event.Longitude = &lon
		event.Address = fix.Address
	} else if fix.Err != nil {
		s.log.Debug().Err(fix.Err).Msg("location unavailable for transition")
	}

	if err := s.store.Insert(event); err != nil {
		s.log.Error().Err(err).Str("kind", string(event.Kind)).Msg("failed to persist trip event")
	}

	s.notifyTransition(event)
	s.trackDwell(ctx, &event)

	s.log.Info().
		Str("kind", string(event.Kind)).
		Time("at", event.Timestamp).
		Bool("located", event.HasLocation()).
		Msg("transition logged")
	return &event
}

// trackDwell closes the park-to-start interval as a visit candidate
func (s *DrivingService) trackDwell(ctx context.Context, event *models.TripEvent) {
	switch event.Kind {
	case models.KindPark:
		s.lastPark = &parkMark{
			At:        event.Timestamp,
			Latitude:  event.Latitude,
			Longitude: event.Longitude,
		}
	case models.KindStart:
		if s.lastPark == nil {
			return
		}
		mark := s.lastPark
		s.lastPark = nil
		if _, err := s.visits.LogVisit(ctx, mark.At, event.Timestamp, mark.Latitude, mark.Longitude); err != nil {
			s.log.Warn().Err(err).Msg("failed to log visit for dwell")
		}
	}
}

// notifyTransition fires the local notification. Failures are logged
// and swallowed.
func (s *DrivingService) notifyTransition(event models.TripEvent) {
	title := "Driving started"
	if event.Kind == models.KindPark {
		title = "Parked"
	}
	body := event.Timestamp.Local().Format("3:04 PM")
	if event.Address != "" {
		body += " near " + event.Address
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.notifier.Show(ctx, event.ID, title, body); err != nil {
			s.log.Debug().Err(err).Msg("notification dispatch failed")
		}
	}()
}
