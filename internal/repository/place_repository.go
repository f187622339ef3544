package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/vladgets/roadmate-backend-go/internal/models"
	"github.com/vladgets/roadmate-backend-go/internal/spatial"
)

// PlaceRepository stores the user's named places (geofences)
type PlaceRepository struct {
	db *sql.DB
}

// NewPlaceRepository creates a new place repository
func NewPlaceRepository(db *sql.DB) *PlaceRepository {
	return &PlaceRepository{db: db}
}

// Save upserts a place by label (case-insensitive). A non-positive radius
// falls back to the default.
func (r *PlaceRepository) Save(place models.NamedPlace) error {
	place.Label = strings.TrimSpace(place.Label)
	if place.Label == "" {
		return fmt.Errorf("place label is required")
	}
	if place.RadiusMeters <= 0 {
		place.RadiusMeters = models.DefaultPlaceRadiusMeters
	}

	_, err := r.db.Exec(`
		INSERT INTO named_places (label, latitude, longitude, radius_m)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(label) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			radius_m = excluded.radius_m
	`, place.Label, place.Latitude, place.Longitude, place.RadiusMeters)
	if err != nil {
		return fmt.Errorf("save place: %w", err)
	}
	return nil
}

// Delete removes a place by label. Unknown labels are a no-op.
func (r *PlaceRepository) Delete(label string) error {
	_, err := r.db.Exec("DELETE FROM named_places WHERE label = ?", strings.TrimSpace(label))
	if err != nil {
		return fmt.Errorf("delete place: %w", err)
	}
	return nil
}

// List returns all places ordered by label
func (r *PlaceRepository) List() ([]models.NamedPlace, error) {
	rows, err := r.db.Query(`
		SELECT label, latitude, longitude, radius_m
		FROM named_places
		ORDER BY label
	`)
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	defer rows.Close()

	var places []models.NamedPlace
	for rows.Next() {
		var p models.NamedPlace
		if err := rows.Scan(&p.Label, &p.Latitude, &p.Longitude, &p.RadiusMeters); err != nil {
			return nil, fmt.Errorf("scan place: %w", err)
		}
		places = append(places, p)
	}
	return places, rows.Err()
}

// NearestWithin returns the closest place whose radius contains the given
// coordinate, or nil when none match.
func (r *PlaceRepository) NearestWithin(lat, lon float64) (*models.NamedPlace, error) {
	places, err := r.List()
	if err != nil {
		return nil, err
	}

	var best *models.NamedPlace
	bestDist := 0.0
	for i := range places {
		p := places[i]
		center := spatial.Point{Lat: p.Latitude, Lon: p.Longitude}
		if !spatial.WithinRadius(center, lat, lon, p.RadiusMeters) {
			continue
		}
		dist := spatial.HaversineDistance(p.Latitude, p.Longitude, lat, lon)
		if best == nil || dist < bestDist {
			best = &places[i]
			bestDist = dist
		}
	}
	return best, nil
}
