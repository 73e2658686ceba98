// Package database opens the directory's database, manages its schema and
// carries request-scoped transactions.
package database

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"cafehub/internal/config"
	"cafehub/internal/middleware"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectOptions tune Connect for commands that manage the schema themselves.
type ConnectOptions struct {
	ApplySchema bool
}

// Connect opens the configured database and applies the schema policy.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	return ConnectWithOptions(cfg, ConnectOptions{ApplySchema: true})
}

// ConnectWithOptions opens PostgreSQL, or SQLite when DB_DRIVER=sqlite, and
// sizes the connection pool.
func ConnectWithOptions(cfg *config.Config, opts ConnectOptions) (*gorm.DB, error) {
	driver, dsn := DSN(cfg)
	var dialector gorm.Dialector
	if driver == "sqlite" {
		dialector = sqlite.Open(dsn)
	} else {
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newQueryLogger(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := configurePool(db, cfg); err != nil {
		return nil, err
	}
	middleware.Logger.Info("database connected", "driver", driver)

	if opts.ApplySchema {
		if err := ApplySchema(context.Background(), db, cfg); err != nil {
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return db, nil
}

// DSN returns the driver name and connection string for cfg. The PostgreSQL
// form is a URL so credentials with spaces or quotes survive.
func DSN(cfg *config.Config) (driver, dsn string) {
	if strings.EqualFold(cfg.DBDriver, "sqlite") {
		return "sqlite", cfg.DBPath + "?_foreign_keys=on&_busy_timeout=5000"
	}

	sslMode := cfg.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.DBUser, cfg.DBPassword),
		Host:     cfg.DBHost + ":" + cfg.DBPort,
		Path:     "/" + cfg.DBName,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return "postgres", u.String()
}

func positiveOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func configurePool(db *gorm.DB, cfg *config.Config) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(positiveOr(cfg.DBMaxOpenConns, 25))
	sqlDB.SetMaxIdleConns(positiveOr(cfg.DBMaxIdleConns, 5))
	sqlDB.SetConnMaxLifetime(time.Duration(positiveOr(cfg.DBConnMaxLifetimeMinutes, 5)) * time.Minute)
	return nil
}
