package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xorig/rigctl/internal/cli"
	"github.com/xorig/rigctl/internal/config"
	"github.com/xorig/rigctl/internal/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

A fresh database is also seeded with the built-in sources and the baseline
compatibility rules.`,
		RunE: runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}
	dbPath = config.ExpandPath(dbPath)

	slog.Info("Running database migrations", "database", dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(cmd.Context()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Database at schema version %d", storage.ExpectedSchemaVersion)))
	return nil
}
