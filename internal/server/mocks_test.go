package server

import (
	"context"

	"cafehub/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

type MockCafeRepository struct {
	mock.Mock
}

func (m *MockCafeRepository) Create(ctx context.Context, cafe *models.Cafe) error {
	return m.Called(ctx, cafe).Error(0)
}

func (m *MockCafeRepository) GetByID(ctx context.Context, id uint) (*models.Cafe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cafe), args.Error(1)
}

func (m *MockCafeRepository) List(ctx context.Context) ([]models.Cafe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Cafe), args.Error(1)
}

func (m *MockCafeRepository) Update(ctx context.Context, cafe *models.Cafe) error {
	return m.Called(ctx, cafe).Error(0)
}

func (m *MockCafeRepository) IsLiked(ctx context.Context, userID, cafeID uint) (bool, error) {
	args := m.Called(ctx, userID, cafeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCafeRepository) Like(ctx context.Context, userID, cafeID uint) error {
	return m.Called(ctx, userID, cafeID).Error(0)
}

func (m *MockCafeRepository) Unlike(ctx context.Context, userID, cafeID uint) error {
	return m.Called(ctx, userID, cafeID).Error(0)
}

func (m *MockCafeRepository) ListLikedBy(ctx context.Context, userID uint) ([]models.Cafe, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Cafe), args.Error(1)
}
