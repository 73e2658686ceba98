// Package bootstrap wires the database and Redis for the commands.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cafehub/internal/cache"
	"cafehub/internal/config"
	"cafehub/internal/database"
	"cafehub/internal/middleware"
	"cafehub/internal/models"
	"cafehub/internal/seed"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedCities bool
}

// InitRuntime connects to the database (applying the schema policy) and to
// Redis, then loads the built-in cities and the development admin if enabled.
// The Redis client is nil when Redis is unreachable.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	rdb, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "redis unavailable, using in-memory sessions", "error", err)
		rdb = nil
	}

	if opts.SeedCities {
		n, err := seed.Cities(ctx, db)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to seed cities: %w", err)
		}
		middleware.Logger.InfoContext(ctx, "built-in cities loaded", "rows", n)
	}

	if err := ensureDevAdmin(ctx, cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development admin: %w", err)
	}

	return db, rdb, nil
}

func ensureDevAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapAdmin {
		return nil
	}

	username := strings.TrimSpace(cfg.DevAdminUsername)
	if username == "" {
		username = "cafe_admin"
	}
	email := strings.ToLower(strings.TrimSpace(cfg.DevAdminEmail))
	if email == "" {
		email = "admin@cafehub.local"
	}
	if cfg.DevAdminPassword == "" {
		return errors.New("DEV_ADMIN_PASSWORD must be set when DEV_BOOTSTRAP_ADMIN is enabled")
	}

	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.DevAdminPassword), cost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var admin models.User
		findErr := tx.Where("username = ?", username).First(&admin).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			admin = models.User{
				Username:       username,
				Email:          email,
				FirstName:      "Cafe",
				LastName:       "Admin",
				ImageURL:       models.DefaultUserImage,
				HashedPassword: string(hash),
				Admin:          true,
			}
			return tx.Create(&admin).Error
		case findErr != nil:
			return findErr
		default:
			return tx.Model(&admin).Updates(map[string]any{
				"admin":           true,
				"hashed_password": string(hash),
			}).Error
		}
	})
	if err != nil {
		return err
	}

	middleware.Logger.InfoContext(ctx, "development admin ensured", "username", username)
	return nil
}
