// Package bootstrap handles application initialization and lifecycle
// management for the job-board service.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jonesrussell/gojobs/internal/api"
	"github.com/jonesrussell/gojobs/internal/database"
	"github.com/jonesrussell/gojobs/internal/events"
	"github.com/jonesrussell/gojobs/internal/handlers"
	"github.com/jonesrussell/gojobs/internal/logger"
	"github.com/jonesrussell/gojobs/internal/metadata"
	"github.com/jonesrussell/gojobs/internal/repository"
)

const version = "dev"

// Start initializes and runs the service. It returns when the server has
// shut down or a startup phase fails.
func Start() error {
	// Phase 1: Load config and create logger
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := CreateLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Phase 2: Setup database and run migrations
	db, err := SetupDatabase(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("Failed to close database", logger.Error(closeErr))
		}
	}()

	if migrateErr := database.Migrate(context.Background(), db); migrateErr != nil {
		return fmt.Errorf("failed to run migrations: %w", migrateErr)
	}

	// Phase 3: Setup rate-limit store (Redis when enabled, memory otherwise)
	limitStore := SetupRateLimitStore(cfg, log)

	// Phase 4: Start the SSE broker
	broker := events.NewBroker(log)
	if startErr := broker.Start(context.Background()); startErr != nil {
		return fmt.Errorf("failed to start event broker: %w", startErr)
	}
	defer func() { _ = broker.Stop() }()

	// Phase 5: Build the router and run the HTTP server
	if validatorErr := handlers.RegisterValidators(); validatorErr != nil {
		return fmt.Errorf("failed to register validators: %w", validatorErr)
	}

	router := api.NewRouter(api.Deps{
		Jobs:         repository.NewJobRepository(db.DB(), log),
		Applications: repository.NewApplicationRepository(db.DB(), log),
		Broker:       broker,
		Extractor:    metadata.NewExtractor(log),
		LimitStore:   limitStore,
		Config:       cfg,
		Logger:       log,
	})

	if runErr := RunHTTPServer(context.Background(), cfg, router, log); runErr != nil {
		log.Error("Server error", logger.Error(runErr))
		return fmt.Errorf("server error: %w", runErr)
	}

	log.Info("Server exited")
	return nil
}
