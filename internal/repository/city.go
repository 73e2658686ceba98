package repository

import (
	"context"
	"errors"

	"cafehub/internal/database"
	"cafehub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CityRepository defines persistence operations for the city reference data.
type CityRepository interface {
	List(ctx context.Context) ([]models.City, error)
	GetByCode(ctx context.Context, code string) (*models.City, error)
	Create(ctx context.Context, city *models.City) error
	Upsert(ctx context.Context, cities []models.City) (int64, error)
}

type cityRepository struct {
	db *gorm.DB
}

// NewCityRepository returns a new CityRepository implementation.
func NewCityRepository(db *gorm.DB) CityRepository {
	return &cityRepository{db: db}
}

// List returns every city ordered by name.
func (r *cityRepository) List(ctx context.Context) ([]models.City, error) {
	var cities []models.City
	if err := database.Conn(ctx, r.db).Order("name ASC").Order("code ASC").Find(&cities).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return cities, nil
}

func (r *cityRepository) GetByCode(ctx context.Context, code string) (*models.City, error) {
	var city models.City
	if err := database.Conn(ctx, r.db).Where("code = ?", code).First(&city).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("City", code)
		}
		return nil, models.NewInternalError(err)
	}
	return &city, nil
}

func (r *cityRepository) Create(ctx context.Context, city *models.City) error {
	if err := database.Conn(ctx, r.db).Create(city).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("City already exists", err)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Upsert inserts cities, refreshing name and state of existing codes.
// It returns the number of rows written.
func (r *cityRepository) Upsert(ctx context.Context, cities []models.City) (int64, error) {
	if len(cities) == 0 {
		return 0, nil
	}
	result := database.Conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "state"}),
	}).Create(&cities)
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}
