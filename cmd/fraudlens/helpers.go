package main

import (
	"context"
	"fmt"

	"github.com/fraudlens/fraudlens/internal/config"
	"github.com/fraudlens/fraudlens/internal/service"
	"github.com/fraudlens/fraudlens/internal/storage"
	"github.com/spf13/viper"
)

// initStorage opens the database and ensures the schema is current.
func initStorage(ctx context.Context) (service.RecordStore, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// outputDir resolves the report output directory from config.
func outputDir() string {
	dir := viper.GetString("output.dir")
	if dir == "" {
		dir = config.DefaultOutputDir()
	}
	return config.ExpandPath(dir)
}
