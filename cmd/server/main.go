// Command server runs the cafe directory web application.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cafehub/internal/bootstrap"
	"cafehub/internal/config"
	"cafehub/internal/middleware"
	"cafehub/internal/observability"
	"cafehub/internal/server"
)

// @title Cafe Directory API
// @version 1.0
// @description JSON endpoints behind the like star on cafe pages. Calls are authenticated by the session cookie.

// @host localhost:8375
// @BasePath /api
// @schemes http https

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		middleware.Logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	middleware.SetLevel(cfg.LogLevel)

	shutdownTracing, err := observability.InitTracing(context.Background(), observability.TracingConfig{
		Enabled:     cfg.TracingEnabled,
		Exporter:    cfg.TracingExporter,
		Endpoint:    cfg.OTLPEndpoint,
		SampleRatio: cfg.TracingSampleRatio,
		Version:     "1.0.0",
		Environment: cfg.Env,
	})
	if err != nil {
		middleware.Logger.Error("Failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	db, rdb, err := bootstrap.InitRuntime(context.Background(), cfg, bootstrap.Options{SeedCities: cfg.SeedCities})
	if err != nil {
		middleware.Logger.Error("Failed to initialize runtime", "error", err)
		os.Exit(1)
	}

	srv, err := server.NewServerWithDeps(cfg, db, rdb)
	if err != nil {
		middleware.Logger.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		middleware.Logger.Info("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			middleware.Logger.Error("Server shutdown error", "error", err)
		}
		if err := shutdownTracing(ctx); err != nil {
			middleware.Logger.Error("Tracer shutdown error", "error", err)
		}
	}()

	if err := srv.Start(); err != nil {
		middleware.Logger.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
