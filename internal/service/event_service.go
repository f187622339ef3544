package service

import (
	"github.com/vladgets/roadmate-backend-go/internal/models"
	"github.com/vladgets/roadmate-backend-go/internal/repository"
)

// EventService exposes the trip log query and edit surface
type EventService struct {
	store *repository.EventStore
}

// NewEventService creates a new event service
func NewEventService(store *repository.EventStore) *EventService {
	return &EventService{store: store}
}

// DrivingLog returns recent Start/Park events, newest first
func (s *EventService) DrivingLog(limit int) []models.TripEventView {
	events := s.store.ListRecent([]models.EventKind{models.KindStart, models.KindPark}, limit)
	return views(events)
}

// PlaceVisits returns recent Visit events, newest first
func (s *EventService) PlaceVisits(limit int) []models.TripEventView {
	events := s.store.ListRecent([]models.EventKind{models.KindVisit}, limit)
	return views(events)
}

// Delete removes an event by id; unknown ids are a no-op
func (s *EventService) Delete(id string) error {
	return s.store.Delete(id)
}

// UpdateLabel renames a visit; an empty label clears it
func (s *EventService) UpdateLabel(id, label string) error {
	return s.store.UpdateLabel(id, label)
}

func views(events []models.TripEvent) []models.TripEventView {
	out := make([]models.TripEventView, 0, len(events))
	for i := range events {
		out = append(out, events[i].View())
	}
	return out
}
