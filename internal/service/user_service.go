package service

import (
	"context"

	"cafehub/internal/models"
	"cafehub/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
	cafeRepo repository.CafeRepository
}

type UpdateProfileInput struct {
	UserID      uint
	FirstName   string
	LastName    string
	Description string
	Email       string
	ImageURL    string
}

func NewUserService(userRepo repository.UserRepository, cafeRepo repository.CafeRepository) *UserService {
	return &UserService{userRepo: userRepo, cafeRepo: cafeRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// LikedCafes returns the cafes the user likes, ordered by name.
func (s *UserService) LikedCafes(ctx context.Context, userID uint) ([]models.Cafe, error) {
	return s.cafeRepo.ListLikedBy(ctx, userID)
}

// UpdateProfile overwrites the editable profile fields. A blank image
// restores the default picture.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Email != user.Email {
		other, err := s.userRepo.GetByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != user.ID {
			return nil, ErrEmailTaken
		}
	}

	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Description = in.Description
	user.Email = in.Email
	user.ImageURL = in.ImageURL
	if user.ImageURL == "" {
		user.ImageURL = models.DefaultUserImage
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if models.HasCode(err, models.CodeConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}
