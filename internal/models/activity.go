package models

import "time"

// ActivityType is a coarse motion classification from the device classifier
type ActivityType string

const (
	ActivityInVehicle ActivityType = "in_vehicle"
	ActivityStill     ActivityType = "still"
	ActivityOnFoot    ActivityType = "on_foot"
	ActivityWalking   ActivityType = "walking"
	ActivityRunning   ActivityType = "running"
	ActivityCycling   ActivityType = "on_bicycle"
	ActivityTilting   ActivityType = "tilting"
	ActivityUnknown   ActivityType = "unknown"
)

// IsStationary reports whether t indicates the user is no longer in a vehicle
func (t ActivityType) IsStationary() bool {
	switch t {
	case ActivityStill, ActivityOnFoot, ActivityWalking:
		return true
	}
	return false
}

// ActivityReading is a single classifier sample.
// Confidence is on a 0-100 scale.
type ActivityReading struct {
	Type       ActivityType `json:"type"`
	Confidence int          `json:"confidence"`
	At         time.Time    `json:"at"`
}

// PendingRawEvent is a raw transition observed by the native watcher
// while the service was not running
type PendingRawEvent struct {
	Type        string `json:"type"`
	TimestampMS int64  `json:"timestampMillis"`
}
