// Package service holds the application's business operations.
package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"cafehub/internal/models"
	"cafehub/internal/observability"
	"cafehub/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUsernameTaken means the user was not created because the username exists.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrEmailTaken means another account already uses the email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers both an unknown username and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Username    string
	FirstName   string
	LastName    string
	Description string
	Email       string
	Password    string
	ImageURL    string
}

// AuthService registers and authenticates users.
type AuthService struct {
	userRepo repository.UserRepository
	cost     int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService creates an AuthService. A cost of 0 uses bcrypt.DefaultCost.
func NewAuthService(userRepo repository.UserRepository, cost int) *AuthService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{userRepo: userRepo, cost: cost}
}

// HashPassword returns the bcrypt hash of password at the service's cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Register creates a user with a hashed password.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	ctx, span := observability.StartSpan(ctx, "AuthService", "Register")
	defer span.End()

	existing, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	existing, err = s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:       in.Username,
		Email:          in.Email,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Description:    in.Description,
		ImageURL:       in.ImageURL,
		HashedPassword: hash,
	}
	if user.ImageURL == "" {
		user.ImageURL = models.DefaultUserImage
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if models.HasCode(err, models.CodeConflict) {
			return nil, conflictSentinel(err)
		}
		return nil, err
	}
	return user, nil
}

// conflictSentinel maps a unique violation that slipped past the pre-checks.
func conflictSentinel(err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "email") {
		return ErrEmailTaken
	}
	return ErrUsernameTaken
}

// Authenticate returns the user whose username and password match.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	ctx, span := observability.StartSpan(ctx, "AuthService", "Authenticate")
	defer span.End()

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Keep the timing of an unknown username close to a wrong password.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("cafehub-dummy-password"), s.cost)
	})
	return s.dummyHash
}
