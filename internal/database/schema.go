package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"cafehub/internal/config"
	"cafehub/internal/middleware"

	"gorm.io/gorm"
)

// Values accepted by DB_SCHEMA_MODE.
const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// SchemaPlan is what ApplySchema will do for a given configuration.
type SchemaPlan struct {
	Mode        string
	Environment string
	RunSQL      bool
	RunAuto     bool
}

// SchemaStatus is a SchemaPlan plus the state of the migration ledger.
type SchemaStatus struct {
	SchemaPlan
	Applied []int
	Pending MigrationSet
}

// PlanSchema resolves DB_SCHEMA_MODE against the environment. SQLite always
// uses AutoMigrate since the SQL scripts are written for PostgreSQL.
// AutoMigrate is never implied for staging or production; asking for it
// there needs DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE.
func PlanSchema(cfg *config.Config) (SchemaPlan, error) {
	plan := SchemaPlan{
		Mode:        strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode)),
		Environment: cfg.Env,
	}
	if plan.Mode == "" {
		plan.Mode = SchemaModeHybrid
	}
	if strings.EqualFold(cfg.DBDriver, "sqlite") {
		plan.Mode = SchemaModeAuto
	}

	deployed := false
	switch strings.ToLower(strings.TrimSpace(cfg.Env)) {
	case "production", "prod", "staging", "stage":
		deployed = true
	}

	switch plan.Mode {
	case SchemaModeSQL:
		plan.RunSQL = true
	case SchemaModeHybrid:
		plan.RunSQL, plan.RunAuto = true, !deployed
	case SchemaModeAuto:
		if deployed && !cfg.DBAutoMigrateAllowDestructive {
			return plan, fmt.Errorf("DB_SCHEMA_MODE=auto in %q requires DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE=true", cfg.Env)
		}
		plan.RunAuto = true
	default:
		return plan, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", plan.Mode)
	}
	return plan, nil
}

// AutoMigrate creates or updates the directory tables with GORM.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(PersistentModels()...)
}

// ApplySchema brings the database up to date according to PlanSchema.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	plan, err := PlanSchema(cfg)
	if err != nil {
		return err
	}
	log := middleware.Logger.With(slog.String("mode", plan.Mode), slog.String("env", plan.Environment))

	if plan.RunSQL {
		ran, err := NewMigrator(db).Up(ctx)
		if err != nil {
			return fmt.Errorf("sql migrations: %w", err)
		}
		log.Info("sql migrations done", slog.Int("applied", len(ran)))
	}
	if plan.RunAuto {
		if cfg.DBAutoMigrateAllowDestructive {
			log.Warn("AutoMigrate running with DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE=true")
		}
		if err := AutoMigrate(db.WithContext(ctx)); err != nil {
			return fmt.Errorf("automigrate: %w", err)
		}
		log.Info("automigrate done")
	}
	return nil
}

// GetSchemaStatus reports the plan and, when SQL migrations are in play,
// which versions are recorded and which are still to run.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	plan, err := PlanSchema(cfg)
	if err != nil {
		return nil, err
	}
	status := &SchemaStatus{SchemaPlan: plan}
	if !plan.RunSQL {
		return status, nil
	}

	m := NewMigrator(db)
	if status.Applied, err = m.Applied(ctx); err != nil {
		return nil, err
	}
	if status.Pending, err = m.Pending(ctx); err != nil {
		return nil, err
	}
	return status, nil
}
