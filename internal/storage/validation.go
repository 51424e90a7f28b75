// Package storage provides the data persistence layer for the rigctl application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xorig/rigctl/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrNotFound         = errors.New("not found")
	ErrDuplicateID      = errors.New("id already exists")
	ErrInvalidComponent = errors.New("invalid component")
	ErrInvalidRule      = errors.New("invalid rule")
	ErrInvalidRun       = errors.New("invalid ingestion run")
	ErrInvalidAudit     = errors.New("invalid audit entry")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateComponent validates a component before it hits the database.
func validateComponent(c *model.Component) error {
	if c == nil {
		return fmt.Errorf("%w: component", ErrNilParameter)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidComponent, err)
	}
	return nil
}

// validateRule validates a compatibility rule.
func validateRule(rule *model.CompatibilityRule) error {
	if rule == nil {
		return fmt.Errorf("%w: rule", ErrNilParameter)
	}
	if err := rule.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	return nil
}

// validateRun validates an ingestion run record.
func validateRun(run *model.IngestionRun) error {
	if run == nil {
		return fmt.Errorf("%w: run", ErrNilParameter)
	}
	if run.SourceID == "" {
		return fmt.Errorf("%w: missing source id", ErrInvalidRun)
	}
	switch run.Status {
	case model.RunSuccess, model.RunPartial, model.RunFailed:
	default:
		return fmt.Errorf("%w: invalid status %q", ErrInvalidRun, run.Status)
	}
	return nil
}

// validateAudit validates an audit entry.
func validateAudit(entry *model.AuditEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry", ErrNilParameter)
	}
	if entry.ComponentID == "" {
		return fmt.Errorf("%w: missing component id", ErrInvalidAudit)
	}
	if entry.Actor == "" {
		return fmt.Errorf("%w: missing actor", ErrInvalidAudit)
	}
	switch entry.Action {
	case model.AuditCreate, model.AuditUpdate, model.AuditDelete, model.AuditIngest:
	default:
		return fmt.Errorf("%w: invalid action %q", ErrInvalidAudit, entry.Action)
	}
	return nil
}
