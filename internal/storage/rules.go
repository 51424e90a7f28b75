package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/xorig/rigctl/internal/model"
)

// opFromWire canonicalizes operator spellings found in stored or imported
// rules. Symbolic aliases are accepted on read; writes always use the
// canonical names.
func opFromWire(op string) (model.Operator, error) {
	switch op {
	case "eq", "==":
		return model.OpEq, nil
	case "lte", "<=":
		return model.OpLTE, nil
	case "gte", ">=":
		return model.OpGTE, nil
	default:
		return "", fmt.Errorf("%w: unknown operator %q", ErrInvalidRule, op)
	}
}

// CreateRule inserts a new compatibility rule.
func (s *SQLiteStorage) CreateRule(ctx context.Context, rule *model.CompatibilityRule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRule(rule); err != nil {
		return err
	}

	query := `
		INSERT INTO rules (id, name, applies, severity, op, left_path, right_path, message, enabled)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		rule.ID, rule.Name, rule.Applies, string(rule.Severity),
		string(rule.Expr.Op), rule.Expr.Left.String(), rule.Expr.Right.String(),
		rule.Message, rule.Enabled)
	if err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}

	slog.Info("created rule", "id", rule.ID, "name", rule.Name)
	return nil
}

// GetRule retrieves a rule by ID.
func (s *SQLiteStorage) GetRule(ctx context.Context, id string) (*model.CompatibilityRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, applies, severity, op, left_path, right_path, message, enabled,
			created_at, updated_at
		FROM rules
		WHERE id = ?`

	rule, err := scanRule(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: rule %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return rule, nil
}

// GetRules returns every rule, enabled or not, ordered by ID.
func (s *SQLiteStorage) GetRules(ctx context.Context) ([]model.CompatibilityRule, error) {
	return s.getRules(ctx, false)
}

// GetEnabledRules returns only the rules that participate in evaluation.
func (s *SQLiteStorage) GetEnabledRules(ctx context.Context) ([]model.CompatibilityRule, error) {
	return s.getRules(ctx, true)
}

func (s *SQLiteStorage) getRules(ctx context.Context, enabledOnly bool) ([]model.CompatibilityRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, applies, severity, op, left_path, right_path, message, enabled,
			created_at, updated_at
		FROM rules`
	if enabledOnly {
		query += " WHERE enabled = 1"
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var rules []model.CompatibilityRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rules: %w", err)
	}

	slog.Debug("retrieved rules", "count", len(rules), "enabled_only", enabledOnly)
	return rules, nil
}

// UpdateRule updates an existing rule.
func (s *SQLiteStorage) UpdateRule(ctx context.Context, rule *model.CompatibilityRule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRule(rule); err != nil {
		return err
	}

	query := `
		UPDATE rules SET
			name = ?, applies = ?, severity = ?, op = ?,
			left_path = ?, right_path = ?, message = ?, enabled = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		rule.Name, rule.Applies, string(rule.Severity), string(rule.Expr.Op),
		rule.Expr.Left.String(), rule.Expr.Right.String(), rule.Message,
		rule.Enabled, rule.ID)
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: rule %s", ErrNotFound, rule.ID)
	}

	slog.Info("updated rule", "id", rule.ID, "name", rule.Name)
	return nil
}

// SetRuleEnabled flips a rule's enabled flag without touching the rest.
func (s *SQLiteStorage) SetRuleEnabled(ctx context.Context, id string, enabled bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE rules SET enabled = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		enabled, id)
	if err != nil {
		return fmt.Errorf("failed to set rule enabled: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: rule %s", ErrNotFound, id)
	}

	slog.Info("set rule enabled", "id", id, "enabled", enabled)
	return nil
}

// DeleteRule removes a rule entirely.
func (s *SQLiteStorage) DeleteRule(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM rules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: rule %s", ErrNotFound, id)
	}

	slog.Info("deleted rule", "id", id)
	return nil
}

func scanRule(row scanner) (*model.CompatibilityRule, error) {
	var rule model.CompatibilityRule
	var op, leftPath, rightPath string

	err := row.Scan(
		&rule.ID, &rule.Name, &rule.Applies, &rule.Severity,
		&op, &leftPath, &rightPath, &rule.Message, &rule.Enabled,
		&rule.CreatedAt, &rule.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan rule: %w", err)
	}

	rule.Expr.Op, err = opFromWire(op)
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", rule.ID, err)
	}
	rule.Expr.Left, err = model.ParsePath(leftPath)
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", rule.ID, err)
	}
	rule.Expr.Right, err = model.ParsePath(rightPath)
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", rule.ID, err)
	}

	return &rule, nil
}
