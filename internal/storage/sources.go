package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/xorig/rigctl/internal/model"
)

// GetSources returns every known source.
func (s *SQLiteStorage) GetSources(ctx context.Context) ([]model.Source, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, type, base_url FROM sources ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var sources []model.Source
	for rows.Next() {
		var src model.Source
		var baseURL sql.NullString
		if err := rows.Scan(&src.ID, &src.Name, &src.Type, &baseURL); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		src.BaseURL = baseURL.String
		sources = append(sources, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sources: %w", err)
	}

	return sources, nil
}

// GetSource retrieves a source by ID.
func (s *SQLiteStorage) GetSource(ctx context.Context, id string) (*model.Source, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var src model.Source
	var baseURL sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, type, base_url FROM sources WHERE id = ?`, id).
		Scan(&src.ID, &src.Name, &src.Type, &baseURL)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: source %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query source: %w", err)
	}
	src.BaseURL = baseURL.String

	return &src, nil
}

// RecordRun persists a finished ingestion run and fills in its ID.
func (s *SQLiteStorage) RecordRun(ctx context.Context, run *model.IngestionRun) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRun(run); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO ingestion_runs (source_id, status, notes, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?)`,
		run.SourceID, string(run.Status), nullableString(run.Notes),
		run.StartedAt, run.EndedAt)
	if err != nil {
		return fmt.Errorf("failed to record ingestion run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	run.ID = id

	slog.Info("recorded ingestion run", "id", id, "source", run.SourceID, "status", run.Status)
	return nil
}

// GetRuns returns recent ingestion runs, newest first. An empty sourceID
// matches all sources; limit <= 0 means no limit.
func (s *SQLiteStorage) GetRuns(ctx context.Context, sourceID string, limit int) ([]model.IngestionRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, source_id, status, notes, started_at, ended_at
		FROM ingestion_runs`
	var args []any
	if sourceID != "" {
		query += " WHERE source_id = ?"
		args = append(args, sourceID)
	}
	query += " ORDER BY started_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingestion runs: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var runs []model.IngestionRun
	for rows.Next() {
		var run model.IngestionRun
		var notes sql.NullString
		if err := rows.Scan(&run.ID, &run.SourceID, &run.Status, &notes,
			&run.StartedAt, &run.EndedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ingestion run: %w", err)
		}
		run.Notes = notes.String
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ingestion runs: %w", err)
	}

	return runs, nil
}
