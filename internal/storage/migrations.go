package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 4

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial catalog schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS components (
					id TEXT PRIMARY KEY,
					category TEXT NOT NULL,
					brand TEXT NOT NULL DEFAULT '',
					model TEXT NOT NULL DEFAULT '',
					variant_name TEXT NOT NULL DEFAULT '',
					release_date TEXT,
					ean TEXT,
					datasheet_url TEXT,
					product_page_url TEXT,
					warranty_years INTEGER DEFAULT 0,
					status TEXT NOT NULL DEFAULT 'active',
					specs TEXT NOT NULL DEFAULT '{}',
					compatibility TEXT NOT NULL DEFAULT '{}',
					completeness INTEGER DEFAULT 0,
					needs_review BOOLEAN DEFAULT 0,
					review_status TEXT NOT NULL DEFAULT 'unreviewed',
					review_notes TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_components_category ON components(category)`,
				`CREATE INDEX idx_components_status ON components(status)`,
				`CREATE INDEX idx_components_needs_review ON components(needs_review)`,

				`CREATE TABLE IF NOT EXISTS offers (
					id TEXT PRIMARY KEY,
					component_id TEXT NOT NULL,
					vendor_id TEXT NOT NULL,
					source_id TEXT NOT NULL,
					vendor_url TEXT,
					price_inr REAL NOT NULL,
					shipping_inr REAL DEFAULT 0,
					effective_price_inr REAL NOT NULL,
					quantity INTEGER DEFAULT 0,
					in_stock BOOLEAN DEFAULT 0,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (component_id) REFERENCES components(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_offers_component ON offers(component_id)`,

				`CREATE TABLE IF NOT EXISTS external_ids (
					component_id TEXT NOT NULL,
					source_id TEXT NOT NULL,
					external_id TEXT NOT NULL,
					external_url TEXT,
					match_method TEXT,
					match_confidence REAL DEFAULT 0,
					PRIMARY KEY (component_id, source_id),
					FOREIGN KEY (component_id) REFERENCES components(id) ON DELETE CASCADE
				)`,

				`CREATE TABLE IF NOT EXISTS audit_log (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					component_id TEXT NOT NULL,
					actor TEXT NOT NULL,
					action TEXT NOT NULL,
					field TEXT,
					before TEXT,
					after TEXT,
					at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_audit_log_component ON audit_log(component_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add compatibility rules table",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS rules (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					applies TEXT NOT NULL DEFAULT '',
					severity TEXT NOT NULL,
					op TEXT NOT NULL,
					left_path TEXT NOT NULL,
					right_path TEXT NOT NULL,
					message TEXT NOT NULL,
					enabled BOOLEAN DEFAULT 1,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_rules_enabled ON rules(enabled)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Add sources and ingestion run tracking",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS sources (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					type TEXT NOT NULL,
					base_url TEXT
				)`,
				`CREATE TABLE IF NOT EXISTS ingestion_runs (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					source_id TEXT NOT NULL,
					status TEXT NOT NULL,
					notes TEXT,
					started_at DATETIME NOT NULL,
					ended_at DATETIME,
					FOREIGN KEY (source_id) REFERENCES sources(id)
				)`,
				`CREATE INDEX idx_ingestion_runs_source ON ingestion_runs(source_id)`,

				`INSERT INTO sources (id, name, type, base_url) VALUES
					('pcpt', 'PC Part Tracker', 'aggregator', 'https://pcparttracker.example'),
					('md', 'MD Computers', 'vendor', 'https://mdcomputers.example'),
					('prime', 'PrimeABGB', 'vendor', 'https://primeabgb.example'),
					('manual', 'Manual entry', 'manual', NULL)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
	{
		Version:     4,
		Description: "Seed baseline compatibility rules",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`INSERT OR IGNORE INTO rules
				(id, name, applies, severity, op, left_path, right_path, message, enabled) VALUES
				('r1', 'CPU socket must match motherboard socket', 'CPU + Motherboard',
					'error', 'eq', 'cpu.socket', 'mobo.socket',
					'CPU socket and Motherboard socket must match.', 1),
				('r2', 'RAM memory type must match motherboard memory type', 'RAM + Motherboard',
					'error', 'eq', 'ram.memory_type', 'mobo.memory_type',
					'RAM type (DDR4/DDR5) must match the motherboard.', 1),
				('r3', 'GPU length must fit case max GPU length', 'GPU + Case',
					'warn', 'lte', 'gpu.length_mm', 'case.max_gpu_mm',
					'GPU length may not fit the selected case.', 1)`)
			if err != nil {
				return fmt.Errorf("failed to seed rules: %w", err)
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	// Get current version
	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	// Apply migrations
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		// Update version
		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	// Verify we're at the expected schema version
	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
