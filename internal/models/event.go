package models

import "time"

// EventKind identifies the type of a trip event
type EventKind string

const (
	KindStart EventKind = "start" // driving began
	KindPark  EventKind = "park"  // driving ended
	KindVisit EventKind = "visit" // stationary dwell at a place
)

// Valid reports whether k is a known event kind
func (k EventKind) Valid() bool {
	switch k {
	case KindStart, KindPark, KindVisit:
		return true
	}
	return false
}

// TripEvent represents one persisted trip log entry.
// Start and Park are instantaneous; Visit spans [Timestamp, EndTimestamp].
type TripEvent struct {
	ID           string     `json:"id"`
	Kind         EventKind  `json:"kind"`
	Timestamp    time.Time  `json:"timestamp"`              // detected instant (first qualifying signal)
	EndTimestamp *time.Time `json:"endTimestamp,omitempty"` // Visit departure instant
	Latitude     *float64   `json:"lat,omitempty"`
	Longitude    *float64   `json:"lon,omitempty"`
	Address      string     `json:"address,omitempty"` // derived once, cached
	Label        string     `json:"label,omitempty"`   // Visit only, user-editable
}

// EffectiveTime returns the timestamp used for sorting and eviction.
// A Visit sorts at its end, immediately before the trip that follows it.
func (e *TripEvent) EffectiveTime() time.Time {
	if e.Kind == KindVisit && e.EndTimestamp != nil {
		return *e.EndTimestamp
	}
	return e.Timestamp
}

// DurationMinutes returns the dwell length in whole minutes.
// Only meaningful for Visit events; zero otherwise.
func (e *TripEvent) DurationMinutes() int {
	if e.Kind != KindVisit || e.EndTimestamp == nil {
		return 0
	}
	return int(e.EndTimestamp.Sub(e.Timestamp) / time.Minute)
}

// HasLocation reports whether a coordinate was captured for this event
func (e *TripEvent) HasLocation() bool {
	return e.Latitude != nil && e.Longitude != nil
}

// TripEventView is the API representation of a trip event
type TripEventView struct {
	ID              string     `json:"id"`
	Kind            EventKind  `json:"kind"`
	Timestamp       time.Time  `json:"timestamp"`
	EndTimestamp    *time.Time `json:"endTimestamp,omitempty"`
	Latitude        *float64   `json:"lat,omitempty"`
	Longitude       *float64   `json:"lon,omitempty"`
	Address         string     `json:"address,omitempty"`
	Label           string     `json:"label,omitempty"`
	DurationMinutes int        `json:"durationMinutes,omitempty"`
}

// View builds the API representation, including the derived duration
func (e *TripEvent) View() TripEventView {
	return TripEventView{
		ID:              e.ID,
		Kind:            e.Kind,
		Timestamp:       e.Timestamp,
		EndTimestamp:    e.EndTimestamp,
		Latitude:        e.Latitude,
		Longitude:       e.Longitude,
		Address:         e.Address,
		Label:           e.Label,
		DurationMinutes: e.DurationMinutes(),
	}
}
