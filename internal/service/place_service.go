package service

import (
	"github.com/vladgets/roadmate-backend-go/internal/models"
	"github.com/vladgets/roadmate-backend-go/internal/repository"
)

// PlaceService handles the user's named place catalog
type PlaceService struct {
	repo *repository.PlaceRepository
}

// NewPlaceService creates a new place service
func NewPlaceService(repo *repository.PlaceRepository) *PlaceService {
	return &PlaceService{repo: repo}
}

// List returns all named places
func (s *PlaceService) List() ([]models.NamedPlace, error) {
	return s.repo.List()
}

// Save upserts a place by label
func (s *PlaceService) Save(place models.NamedPlace) error {
	return s.repo.Save(place)
}

// Delete removes a place by label
func (s *PlaceService) Delete(label string) error {
	return s.repo.Delete(label)
}
