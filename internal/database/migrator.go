package database

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"cafehub/internal/middleware"

	"gorm.io/gorm"
)

// schemaMigration is one row of the applied-migrations ledger.
type schemaMigration struct {
	Version   int    `gorm:"primaryKey;autoIncrement:false"`
	Name      string `gorm:"size:255;not null"`
	AppliedAt time.Time
}

func (schemaMigration) TableName() string { return "schema_migrations" }

// Migrator applies and reverts a MigrationSet, tracking progress in the
// schema_migrations table.
type Migrator struct {
	db  *gorm.DB
	set MigrationSet
}

// NewMigrator uses the bundled migrations.
func NewMigrator(db *gorm.DB) *Migrator {
	return NewMigratorFor(db, BundledMigrations())
}

// NewMigratorFor runs an explicit set.
func NewMigratorFor(db *gorm.DB, set MigrationSet) *Migrator {
	return &Migrator{db: db, set: set}
}

func (m *Migrator) ensureLedger(ctx context.Context) error {
	if err := m.db.WithContext(ctx).AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("prepare schema_migrations: %w", err)
	}
	return nil
}

// Applied lists recorded versions in ascending order. A database that has
// never been migrated reports none.
func (m *Migrator) Applied(ctx context.Context) ([]int, error) {
	db := m.db.WithContext(ctx)
	if !db.Migrator().HasTable(&schemaMigration{}) {
		return nil, nil
	}
	var versions []int
	if err := db.Model(&schemaMigration{}).Order("version").Pluck("version", &versions).Error; err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	return versions, nil
}

// Pending returns the migrations that have not been recorded yet.
func (m *Migrator) Pending(ctx context.Context) (MigrationSet, error) {
	applied, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}
	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}
	var pending MigrationSet
	for _, mig := range m.set {
		if !done[mig.Version] {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}

// Up applies every pending migration in order, each inside its own
// transaction, and returns what it ran. It refuses to touch a database
// that records versions this binary does not know about.
func (m *Migrator) Up(ctx context.Context) (MigrationSet, error) {
	if err := m.ensureLedger(ctx); err != nil {
		return nil, err
	}
	applied, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkKnownVersions(applied, m.set); err != nil {
		return nil, err
	}
	pending, err := m.Pending(ctx)
	if err != nil {
		return nil, err
	}

	for i, mig := range pending {
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(mig.Up).Error; err != nil {
				return err
			}
			return tx.Create(&schemaMigration{Version: mig.Version, Name: mig.Name, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return pending[:i], fmt.Errorf("apply %s: %w", mig.ID(), err)
		}
		middleware.Logger.Info("migration applied", slog.String("migration", mig.ID()))
	}
	return pending, nil
}

// Down reverts one applied migration and removes its ledger row.
func (m *Migrator) Down(ctx context.Context, version int) error {
	mig, ok := m.set.Find(version)
	if !ok {
		return fmt.Errorf("unknown migration version %d", version)
	}
	applied, err := m.Applied(ctx)
	if err != nil {
		return err
	}
	i := sort.SearchInts(applied, version)
	if i == len(applied) || applied[i] != version {
		return fmt.Errorf("migration %s is not applied", mig.ID())
	}

	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(mig.Down).Error; err != nil {
			return err
		}
		return tx.Delete(&schemaMigration{}, "version = ?", version).Error
	})
	if err != nil {
		return fmt.Errorf("revert %s: %w", mig.ID(), err)
	}
	middleware.Logger.Info("migration reverted", slog.String("migration", mig.ID()))
	return nil
}

func checkKnownVersions(applied []int, set MigrationSet) error {
	known := set.versions()
	var strays []string
	for _, v := range applied {
		if _, ok := known[v]; !ok {
			strays = append(strays, fmt.Sprintf("%06d", v))
		}
	}
	if len(strays) > 0 {
		return fmt.Errorf("schema_migrations records versions missing from this build: %s", strings.Join(strays, ", "))
	}
	return nil
}
