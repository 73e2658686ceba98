package service

import (
	"context"

	"cafehub/internal/models"
	"cafehub/internal/repository"
	"cafehub/internal/validation"
)

// CafeInput carries the editable fields of a cafe.
type CafeInput struct {
	Name        string
	Description string
	URL         string
	Address     string
	CityCode    string
	ImageURL    string
}

// CafeService manages cafe listings.
type CafeService struct {
	cafeRepo repository.CafeRepository
	cityRepo repository.CityRepository
}

func NewCafeService(cafeRepo repository.CafeRepository, cityRepo repository.CityRepository) *CafeService {
	return &CafeService{cafeRepo: cafeRepo, cityRepo: cityRepo}
}

func (s *CafeService) List(ctx context.Context) ([]models.Cafe, error) {
	return s.cafeRepo.List(ctx)
}

func (s *CafeService) Get(ctx context.Context, id uint) (*models.Cafe, error) {
	return s.cafeRepo.GetByID(ctx, id)
}

// CityChoices returns the city select options ordered by city name.
func (s *CafeService) CityChoices(ctx context.Context) ([]validation.Choice, error) {
	cities, err := s.cityRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	choices := make([]validation.Choice, 0, len(cities))
	for _, city := range cities {
		choices = append(choices, validation.Choice{Value: city.Code, Label: city.Name})
	}
	return choices, nil
}

func (s *CafeService) Create(ctx context.Context, in CafeInput) (*models.Cafe, error) {
	cafe := &models.Cafe{}
	applyCafeInput(cafe, in)
	if err := s.cafeRepo.Create(ctx, cafe); err != nil {
		return nil, err
	}
	return cafe, nil
}

// Update overwrites every editable field of the cafe.
func (s *CafeService) Update(ctx context.Context, id uint, in CafeInput) (*models.Cafe, error) {
	cafe, err := s.cafeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyCafeInput(cafe, in)
	cafe.City = nil
	if err := s.cafeRepo.Update(ctx, cafe); err != nil {
		return nil, err
	}
	return cafe, nil
}

func applyCafeInput(cafe *models.Cafe, in CafeInput) {
	cafe.Name = in.Name
	cafe.Description = in.Description
	cafe.URL = in.URL
	cafe.Address = in.Address
	cafe.CityCode = in.CityCode
	cafe.ImageURL = in.ImageURL
	if cafe.ImageURL == "" {
		cafe.ImageURL = models.DefaultCafeImage
	}
}
