package repository

import (
	"context"
	"errors"

	"cafehub/internal/database"
	"cafehub/internal/models"

	"gorm.io/gorm"
)

// UserRepository stores site members.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// GetByEmail and GetByUsername return (nil, nil) for no match.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns the GORM-backed UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// findUser runs one lookup. A miss yields (nil, nil).
func (r *userRepository) findUser(ctx context.Context, query any, args ...any) (*models.User, error) {
	user := new(models.User)
	err := database.Conn(ctx, r.db).Where(query, args...).Take(user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := r.findUser(ctx, "id = ?", id)
	if err == nil && user == nil {
		err = models.NewNotFoundError("User", id)
	}
	return user, err
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findUser(ctx, "email = ?", email)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findUser(ctx, "username = ?", username)
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return userWriteError(database.Conn(ctx, r.db).Create(user).Error)
}

// Update rewrites every column of an existing user.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return userWriteError(database.Conn(ctx, r.db).Save(user).Error)
}

// userWriteError names the unique column that was hit, so callers can tell a
// taken email from a taken username.
func userWriteError(err error) error {
	if err == nil {
		return nil
	}
	if !isUniqueConstraintError(err) {
		return models.NewInternalError(err)
	}
	if uniqueViolationOn(err, "email") {
		return models.NewConflictError("email already registered", err)
	}
	return models.NewConflictError("username already taken", err)
}
