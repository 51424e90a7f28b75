package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"github.com/xorig/rigctl/internal/config"
	"github.com/xorig/rigctl/internal/service"
	"github.com/xorig/rigctl/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// actor is the attribution written to audit entries for manual edits.
// Overridable so shared catalogs can tell curators apart.
func actor() string {
	if a := viper.GetString("audit.actor"); a != "" {
		return a
	}
	return "manual"
}
