// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"testing"

	"cafehub/internal/database"
	"cafehub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB returns a migrated, private in-memory SQLite database. The pool
// is capped at one connection so a request transaction sees every write.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// CreateCity inserts a city.
func CreateCity(t testing.TB, db *gorm.DB, code, name, state string) *models.City {
	t.Helper()
	city := &models.City{Code: code, Name: name, State: state}
	require.NoError(t, db.Create(city).Error)
	return city
}

// CreateCafe inserts a cafe in the given city.
func CreateCafe(t testing.TB, db *gorm.DB, name, cityCode string) *models.Cafe {
	t.Helper()
	cafe := &models.Cafe{
		Name:     name,
		Address:  "1 Main St",
		CityCode: cityCode,
		ImageURL: models.DefaultCafeImage,
	}
	require.NoError(t, db.Create(cafe).Error)
	return cafe
}

// CreateUser inserts a user whose password is "secret123".
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Username:       username,
		Email:          username + "@example.com",
		FirstName:      "Test",
		LastName:       "User",
		ImageURL:       models.DefaultUserImage,
		HashedPassword: string(hash),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
