// Command migrate runs schema operations.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"cafehub/internal/config"
	"cafehub/internal/database"
	"cafehub/internal/middleware"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	cfg *config.Config
	db  *gorm.DB
)

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Manage the cafe directory schema",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		db, err = database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		return nil
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending SQL migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ran, err := database.NewMigrator(db).Up(cmd.Context())
		if err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		middleware.Logger.Info("sql migrations applied", "count", len(ran))
		return nil
	},
}

var autoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Run GORM AutoMigrate for every model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.DBSchemaMode = database.SchemaModeAuto
		if err := database.ApplySchema(cmd.Context(), db, cfg); err != nil {
			return fmt.Errorf("auto schema apply failed: %w", err)
		}
		middleware.Logger.Info("automigrations applied")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the schema policy and pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := database.GetSchemaStatus(cmd.Context(), db, cfg)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		middleware.Logger.Info("schema status",
			"mode", status.Mode, "env", status.Environment,
			"run_sql", status.RunSQL, "run_auto", status.RunAuto,
			"applied", len(status.Applied), "pending", len(status.Pending))
		for _, m := range status.Pending {
			middleware.Logger.Info("pending migration", "migration", m.ID())
		}
		return nil
	},
}

var downCmd = &cobra.Command{
	Use:   "down <version>",
	Short: "Roll back one applied migration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		if err := database.NewMigrator(db).Down(cmd.Context(), version); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		middleware.Logger.Info("rolled back migration", "version", version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(upCmd, autoCmd, statusCmd, downCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		middleware.Logger.Error("migrate failed", "error", err)
		os.Exit(1)
	}
}
