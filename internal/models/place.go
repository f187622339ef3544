package models

// DefaultPlaceRadiusMeters is the geofence radius applied when a saved
// place does not specify one
const DefaultPlaceRadiusMeters = 200.0

// NamedPlace is a user-labeled geofence ("Home", "Work", ...).
// Labels are unique case-insensitively.
type NamedPlace struct {
	Label        string  `json:"label"`
	Latitude     float64 `json:"lat"`
	Longitude    float64 `json:"lon"`
	RadiusMeters float64 `json:"radiusMeters"`
}
