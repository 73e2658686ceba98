package service

import (
	"context"
	"testing"

	"cafehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(context.Context, uint) (*models.User, error) { return nil, models.NewNotFoundError("User", 0) },
		getByEmailFn:    func(context.Context, string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:        func(context.Context, *models.User) error { return nil },
		updateFn:        func(context.Context, *models.User) error { return nil },
	}
}

type cafeRepoStub struct {
	createFn      func(context.Context, *models.Cafe) error
	getByIDFn     func(context.Context, uint) (*models.Cafe, error)
	listFn        func(context.Context) ([]models.Cafe, error)
	updateFn      func(context.Context, *models.Cafe) error
	isLikedFn     func(context.Context, uint, uint) (bool, error)
	likeFn        func(context.Context, uint, uint) error
	unlikeFn      func(context.Context, uint, uint) error
	listLikedByFn func(context.Context, uint) ([]models.Cafe, error)
}

func (s *cafeRepoStub) Create(ctx context.Context, cafe *models.Cafe) error {
	return s.createFn(ctx, cafe)
}
func (s *cafeRepoStub) GetByID(ctx context.Context, id uint) (*models.Cafe, error) {
	return s.getByIDFn(ctx, id)
}
func (s *cafeRepoStub) List(ctx context.Context) ([]models.Cafe, error) {
	return s.listFn(ctx)
}
func (s *cafeRepoStub) Update(ctx context.Context, cafe *models.Cafe) error {
	return s.updateFn(ctx, cafe)
}
func (s *cafeRepoStub) IsLiked(ctx context.Context, userID, cafeID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, cafeID)
}
func (s *cafeRepoStub) Like(ctx context.Context, userID, cafeID uint) error {
	return s.likeFn(ctx, userID, cafeID)
}
func (s *cafeRepoStub) Unlike(ctx context.Context, userID, cafeID uint) error {
	return s.unlikeFn(ctx, userID, cafeID)
}
func (s *cafeRepoStub) ListLikedBy(ctx context.Context, userID uint) ([]models.Cafe, error) {
	return s.listLikedByFn(ctx, userID)
}

func noopCafeRepo() *cafeRepoStub {
	return &cafeRepoStub{
		createFn:      func(context.Context, *models.Cafe) error { return nil },
		getByIDFn:     func(_ context.Context, id uint) (*models.Cafe, error) { return &models.Cafe{ID: id}, nil },
		listFn:        func(context.Context) ([]models.Cafe, error) { return nil, nil },
		updateFn:      func(context.Context, *models.Cafe) error { return nil },
		isLikedFn:     func(context.Context, uint, uint) (bool, error) { return false, nil },
		likeFn:        func(context.Context, uint, uint) error { return nil },
		unlikeFn:      func(context.Context, uint, uint) error { return nil },
		listLikedByFn: func(context.Context, uint) ([]models.Cafe, error) { return nil, nil },
	}
}

type cityRepoStub struct {
	listFn func(context.Context) ([]models.City, error)
}

func (s *cityRepoStub) List(ctx context.Context) ([]models.City, error) { return s.listFn(ctx) }
func (s *cityRepoStub) GetByCode(context.Context, string) (*models.City, error) {
	return nil, models.NewNotFoundError("City", "")
}
func (s *cityRepoStub) Create(context.Context, *models.City) error { return nil }
func (s *cityRepoStub) Upsert(context.Context, []models.City) (int64, error) {
	return 0, nil
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, models.HasCode(err, code), "expected %s, got %v", code, err)
}
