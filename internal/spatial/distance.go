package spatial

import (
	"github.com/golang/geo/s2"
)

const (
	// EarthRadiusMeters is Earth's mean radius in meters
	EarthRadiusMeters = 6371000.0
)

// Point represents a 2D point with latitude and longitude
type Point struct {
	Lat float64
	Lon float64
}

// HaversineDistance calculates the great-circle distance between two points
// in meters
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// WithinRadius reports whether (lat, lon) lies inside the circle of
// radiusMeters centered on center
func WithinRadius(center Point, lat, lon, radiusMeters float64) bool {
	return HaversineDistance(center.Lat, center.Lon, lat, lon) <= radiusMeters
}
