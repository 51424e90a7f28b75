// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/xorig/rigctl/internal/model"
)

// ComponentFilter defines filtering options for component catalog queries.
type ComponentFilter struct {
	Category    string
	Search      string
	Status      model.ComponentStatus
	NeedsReview bool
	Limit       int
	Offset      int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Component operations
	SaveComponent(ctx context.Context, component *model.Component) error
	GetComponentByID(ctx context.Context, id string) (*model.Component, error)
	GetComponents(ctx context.Context, filter ComponentFilter) ([]model.Component, error)
	GetComponentsByCategory(ctx context.Context, category string) ([]model.Component, error)
	DeleteComponent(ctx context.Context, id string) error
	UpdateReviewStatus(ctx context.Context, id string, status model.ReviewStatus, notes string) error

	// Offer operations
	SaveOffers(ctx context.Context, componentID string, offers []model.Offer) error
	GetOffers(ctx context.Context, componentID string) ([]model.Offer, error)

	// Rule operations
	CreateRule(ctx context.Context, rule *model.CompatibilityRule) error
	GetRule(ctx context.Context, id string) (*model.CompatibilityRule, error)
	GetRules(ctx context.Context) ([]model.CompatibilityRule, error)
	GetEnabledRules(ctx context.Context) ([]model.CompatibilityRule, error)
	UpdateRule(ctx context.Context, rule *model.CompatibilityRule) error
	SetRuleEnabled(ctx context.Context, id string, enabled bool) error
	DeleteRule(ctx context.Context, id string) error

	// Source and ingestion run operations
	GetSources(ctx context.Context) ([]model.Source, error)
	GetSource(ctx context.Context, id string) (*model.Source, error)
	RecordRun(ctx context.Context, run *model.IngestionRun) error
	GetRuns(ctx context.Context, sourceID string, limit int) ([]model.IngestionRun, error)

	// Audit operations
	AppendAudit(ctx context.Context, entry *model.AuditEntry) error
	GetAuditForComponent(ctx context.Context, componentID string, limit int) ([]model.AuditEntry, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// IngestStats shows the results of an ingestion run.
type IngestStats struct {
	Total    int
	Applied  int
	Flagged  int
	Failed   int
	Duration time.Duration
}

// Status derives the run status from the counts.
func (s IngestStats) Status() model.RunStatus {
	switch {
	case s.Total == 0 || s.Failed == s.Total:
		return model.RunFailed
	case s.Failed > 0 || s.Flagged > 0:
		return model.RunPartial
	default:
		return model.RunSuccess
	}
}
