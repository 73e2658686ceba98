// Command seed loads the built-in cities and optional demo data.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"cafehub/internal/config"
	"cafehub/internal/database"
	"cafehub/internal/middleware"
	"cafehub/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 0, "Number of demo users to create")
	numCafes := flag.Int("cafes", 0, "Number of demo cafes to create")
	clean := flag.Bool("clean", false, "Delete users, cafes and likes before seeding")
	randSeed := flag.Int64("seed", time.Now().UnixNano(), "Random seed for generated data")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		middleware.Logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		middleware.Logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	summary, err := seed.NewSeeder(db, *randSeed).Run(context.Background(), seed.Options{
		NumUsers:   *numUsers,
		NumCafes:   *numCafes,
		Clean:      *clean,
		BcryptCost: cfg.BcryptCost,
	})
	if err != nil {
		middleware.Logger.Error("Seeding failed", "error", err)
		os.Exit(1)
	}

	if summary.Users > 0 {
		middleware.Logger.Info("demo users share one password", "password", seed.DemoPassword)
	}
}
