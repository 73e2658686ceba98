package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cafehub/internal/middleware"
	"cafehub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DemoPassword is the password of every generated user.
const DemoPassword = "password123"

// Options configures a demo run.
type Options struct {
	NumUsers int
	NumCafes int
	Clean    bool
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// Summary counts what a demo run created.
type Summary struct {
	Cities int64
	Users  int
	Cafes  int
	Likes  int
}

// Seeder generates fake users, cafes and likes.
type Seeder struct {
	db    *gorm.DB
	faker *gofakeit.Faker
}

// NewSeeder returns a Seeder whose output is reproducible for a given seed.
func NewSeeder(db *gorm.DB, seed int64) *Seeder {
	return &Seeder{db: db, faker: gofakeit.New(seed)}
}

// Run loads the built-in cities and then the demo content.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Summary, error) {
	if opts.Clean {
		if err := s.ClearAll(ctx); err != nil {
			return nil, fmt.Errorf("clear demo data: %w", err)
		}
	}

	written, err := Cities(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("seed cities: %w", err)
	}
	var cities []models.City
	if err := s.db.WithContext(ctx).Order("code").Find(&cities).Error; err != nil {
		return nil, fmt.Errorf("load cities: %w", err)
	}

	users, err := s.Users(ctx, opts.NumUsers, opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	cafes, err := s.Cafes(ctx, opts.NumCafes, cities)
	if err != nil {
		return nil, fmt.Errorf("seed cafes: %w", err)
	}
	likes, err := s.Likes(ctx, users, cafes)
	if err != nil {
		return nil, fmt.Errorf("seed likes: %w", err)
	}

	summary := &Summary{Cities: written, Users: len(users), Cafes: len(cafes), Likes: likes}
	middleware.Logger.InfoContext(ctx, "demo data seeded",
		"cities", summary.Cities, "users", summary.Users, "cafes", summary.Cafes, "likes", summary.Likes)
	return summary, nil
}

// ClearAll removes likes, cafes and users. Cities are kept.
func (s *Seeder) ClearAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.Like{}, &models.Cafe{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Users creates n users sharing DemoPassword.
func (s *Seeder) Users(ctx context.Context, n, cost int) ([]models.User, error) {
	if n <= 0 {
		return nil, nil
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		username := fmt.Sprintf("%s%d", strings.ToLower(s.faker.Username()), i)
		users = append(users, models.User{
			Username:       username,
			Email:          username + "@example.com",
			FirstName:      s.faker.FirstName(),
			LastName:       s.faker.LastName(),
			Description:    s.faker.Sentence(8),
			ImageURL:       models.DefaultUserImage,
			HashedPassword: string(hash),
		})
	}
	if err := s.db.WithContext(ctx).CreateInBatches(&users, 100).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Cafes creates n cafes spread over cities.
func (s *Seeder) Cafes(ctx context.Context, n int, cities []models.City) ([]models.Cafe, error) {
	if n <= 0 {
		return nil, nil
	}
	if len(cities) == 0 {
		return nil, errors.New("no cities to place cafes in")
	}

	cafes := make([]models.Cafe, 0, n)
	for i := 0; i < n; i++ {
		city := cities[s.faker.Number(0, len(cities)-1)]
		cafes = append(cafes, models.Cafe{
			Name:        fmt.Sprintf("%s Coffee", s.faker.Company()),
			Description: s.faker.Sentence(12),
			URL:         s.faker.URL(),
			Address:     s.faker.Street(),
			CityCode:    city.Code,
			ImageURL:    models.DefaultCafeImage,
		})
	}
	if err := s.db.WithContext(ctx).CreateInBatches(&cafes, 100).Error; err != nil {
		return nil, err
	}
	return cafes, nil
}

// Likes has every user like a random handful of cafes and returns the number
// of likes created.
func (s *Seeder) Likes(ctx context.Context, users []models.User, cafes []models.Cafe) (int, error) {
	if len(users) == 0 || len(cafes) == 0 {
		return 0, nil
	}

	var likes []models.Like
	for _, u := range users {
		picked := make(map[uint]bool)
		for k := s.faker.Number(0, min(5, len(cafes))); k > 0; k-- {
			cafe := cafes[s.faker.Number(0, len(cafes)-1)]
			if picked[cafe.ID] {
				continue
			}
			picked[cafe.ID] = true
			likes = append(likes, models.Like{UserID: u.ID, CafeID: cafe.ID})
		}
	}
	if len(likes) == 0 {
		return 0, nil
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&likes, 200)
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}
