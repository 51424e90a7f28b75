package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/xorig/rigctl/internal/model"
)

// AppendAudit writes one immutable audit line. Entries are never updated
// or deleted through the storage API.
func (s *SQLiteStorage) AppendAudit(ctx context.Context, entry *model.AuditEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAudit(entry); err != nil {
		return err
	}

	at := entry.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_log (component_id, actor, action, field, before, after, at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ComponentID, entry.Actor, string(entry.Action),
		nullableString(entry.Field), nullableString(entry.Before),
		nullableString(entry.After), at)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	entry.ID = id
	entry.At = at

	slog.Debug("appended audit entry", "component_id", entry.ComponentID, "action", entry.Action)
	return nil
}

// GetAuditForComponent returns a component's history, newest first.
// limit <= 0 means no limit.
func (s *SQLiteStorage) GetAuditForComponent(ctx context.Context, componentID string, limit int) ([]model.AuditEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(componentID, "componentID"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, component_id, actor, action, field, before, after, at
		FROM audit_log
		WHERE component_id = ?
		ORDER BY at DESC, id DESC`
	args := []any{componentID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var entries []model.AuditEntry
	for rows.Next() {
		var entry model.AuditEntry
		var field, before, after sql.NullString
		if err := rows.Scan(&entry.ID, &entry.ComponentID, &entry.Actor,
			&entry.Action, &field, &before, &after, &entry.At); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entry.Field = field.String
		entry.Before = before.String
		entry.After = after.String
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit entries: %w", err)
	}

	return entries, nil
}
