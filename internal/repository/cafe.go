package repository

import (
	"context"
	"errors"

	"cafehub/internal/database"
	"cafehub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CafeRepository defines persistence operations for cafes and their likes.
type CafeRepository interface {
	Create(ctx context.Context, cafe *models.Cafe) error
	GetByID(ctx context.Context, id uint) (*models.Cafe, error)
	List(ctx context.Context) ([]models.Cafe, error)
	Update(ctx context.Context, cafe *models.Cafe) error
	IsLiked(ctx context.Context, userID, cafeID uint) (bool, error)
	Like(ctx context.Context, userID, cafeID uint) error
	Unlike(ctx context.Context, userID, cafeID uint) error
	ListLikedBy(ctx context.Context, userID uint) ([]models.Cafe, error)
}

type cafeRepository struct {
	db *gorm.DB
}

// NewCafeRepository returns a new CafeRepository implementation.
func NewCafeRepository(db *gorm.DB) CafeRepository {
	return &cafeRepository{db: db}
}

func (r *cafeRepository) Create(ctx context.Context, cafe *models.Cafe) error {
	if err := database.Conn(ctx, r.db).Omit(clause.Associations).Create(cafe).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return models.NewValidationError("Unknown city")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *cafeRepository) GetByID(ctx context.Context, id uint) (*models.Cafe, error) {
	var cafe models.Cafe
	if err := database.Conn(ctx, r.db).Preload("City").First(&cafe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Cafe", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &cafe, nil
}

// List returns every cafe ordered by name, with its city.
func (r *cafeRepository) List(ctx context.Context) ([]models.Cafe, error) {
	var cafes []models.Cafe
	if err := database.Conn(ctx, r.db).Preload("City").Order("name ASC").Order("id ASC").Find(&cafes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return cafes, nil
}

// Update overwrites every editable column of an existing cafe.
func (r *cafeRepository) Update(ctx context.Context, cafe *models.Cafe) error {
	result := database.Conn(ctx, r.db).Model(&models.Cafe{ID: cafe.ID}).
		Select("name", "description", "url", "address", "city_code", "image_url", "updated_at").
		Updates(cafe)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return models.NewValidationError("Unknown city")
		}
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Cafe", cafe.ID)
	}
	return nil
}

func (r *cafeRepository) IsLiked(ctx context.Context, userID, cafeID uint) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&models.Like{}).
		Where("user_id = ? AND cafe_id = ?", userID, cafeID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Like records the pair; liking twice leaves a single row.
func (r *cafeRepository) Like(ctx context.Context, userID, cafeID uint) error {
	like := models.Like{UserID: userID, CafeID: cafeID}
	err := database.Conn(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return models.NewNotFoundError("Cafe", cafeID)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Unlike removes the pair; it is a no-op when the pair does not exist.
func (r *cafeRepository) Unlike(ctx context.Context, userID, cafeID uint) error {
	err := database.Conn(ctx, r.db).
		Where("user_id = ? AND cafe_id = ?", userID, cafeID).
		Delete(&models.Like{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListLikedBy returns the cafes a user likes, ordered by name.
func (r *cafeRepository) ListLikedBy(ctx context.Context, userID uint) ([]models.Cafe, error) {
	var cafes []models.Cafe
	err := database.Conn(ctx, r.db).Preload("City").
		Joins("JOIN likes ON likes.cafe_id = cafes.id").
		Where("likes.user_id = ?", userID).
		Order("cafes.name ASC").
		Find(&cafes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return cafes, nil
}
