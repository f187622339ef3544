package repository

import (
	"testing"

	"github.com/vladgets/roadmate-backend-go/internal/models"
)

func TestSaveUpsertsByLabelCaseInsensitive(t *testing.T) {
	db := openTestDB(t)
	repo := NewPlaceRepository(db)

	if err := repo.Save(models.NamedPlace{Label: "Work", Latitude: 44.05, Longitude: -123.09}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save(models.NamedPlace{Label: "work", Latitude: 45.52, Longitude: -122.68, RadiusMeters: 300}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	places, err := repo.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(places) != 1 {
		t.Fatalf("got %d places, want 1 (case-insensitive upsert)", len(places))
	}
	if places[0].Latitude != 45.52 || places[0].RadiusMeters != 300 {
		t.Errorf("place not updated: %+v", places[0])
	}
}

func TestSaveAppliesDefaultRadius(t *testing.T) {
	db := openTestDB(t)
	repo := NewPlaceRepository(db)

	if err := repo.Save(models.NamedPlace{Label: "Home", Latitude: 44.05, Longitude: -123.09}); err != nil {
		t.Fatalf("save: %v", err)
	}

	places, _ := repo.List()
	if places[0].RadiusMeters != models.DefaultPlaceRadiusMeters {
		t.Errorf("radius = %v, want default %v", places[0].RadiusMeters, models.DefaultPlaceRadiusMeters)
	}
}

func TestSaveRejectsEmptyLabel(t *testing.T) {
	db := openTestDB(t)
	repo := NewPlaceRepository(db)

	if err := repo.Save(models.NamedPlace{Label: "   ", Latitude: 1, Longitude: 2}); err == nil {
		t.Error("empty label accepted")
	}
}

func TestNearestWithin(t *testing.T) {
	db := openTestDB(t)
	repo := NewPlaceRepository(db)

	// Two overlapping geofences around downtown Springfield
	if err := repo.Save(models.NamedPlace{Label: "Work", Latitude: 44.0462, Longitude: -123.0220, RadiusMeters: 200}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save(models.NamedPlace{Label: "Gym", Latitude: 44.0465, Longitude: -123.0222, RadiusMeters: 500}); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Right next to Work's center: both contain it, Work is nearer
	got, err := repo.NearestWithin(44.0462, -123.0221)
	if err != nil {
		t.Fatalf("nearest: %v", err)
	}
	if got == nil || got.Label != "Work" {
		t.Errorf("got %+v, want Work", got)
	}

	// Far away: no match
	got, err = repo.NearestWithin(45.52, -122.68)
	if err != nil {
		t.Fatalf("nearest: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v outside every radius, want nil", got)
	}
}

func TestDeletePlace(t *testing.T) {
	db := openTestDB(t)
	repo := NewPlaceRepository(db)

	if err := repo.Save(models.NamedPlace{Label: "Home", Latitude: 44, Longitude: -123}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Delete("Home"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	places, _ := repo.List()
	if len(places) != 0 {
		t.Errorf("got %d places after delete, want 0", len(places))
	}

	// Unknown label is a no-op
	if err := repo.Delete("Nowhere"); err != nil {
		t.Errorf("delete unknown label errored: %v", err)
	}
}
