// Package ingest applies spec value candidates from external feeds to the
// catalog. Validation is advisory: values that fail their schema check are
// still stored, flagged for review, so bad feed data never blocks a run.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/xorig/rigctl/internal/model"
	"github.com/xorig/rigctl/internal/schema"
	"github.com/xorig/rigctl/internal/service"
)

// Candidate is one proposed spec value from a feed.
type Candidate struct {
	ComponentID string  `json:"component_id"`
	SpecID      string  `json:"spec_id"`
	RawValue    string  `json:"raw_value"`
	SourceID    string  `json:"source_id,omitempty"`
	Confidence  float64 `json:"confidence"`
}

// LoadFeed decodes a JSON array of candidates.
func LoadFeed(r io.Reader) ([]Candidate, error) {
	var candidates []Candidate
	if err := json.NewDecoder(r).Decode(&candidates); err != nil {
		return nil, fmt.Errorf("failed to decode feed: %w", err)
	}
	return candidates, nil
}

// Ingester runs candidate batches against the catalog.
type Ingester struct {
	storage  service.Storage
	registry *schema.Registry
	progress io.Writer
}

// New creates an ingester. progress may be nil to suppress the progress bar.
func New(storage service.Storage, registry *schema.Registry, progress io.Writer) *Ingester {
	return &Ingester{
		storage:  storage,
		registry: registry,
		progress: progress,
	}
}

// Run applies all candidates and records the ingestion run. Candidates whose
// component cannot be loaded count as failed; candidates whose value fails
// schema validation are stored anyway and count as flagged. The run status
// reflects the mix: success, partial, or failed.
func (i *Ingester) Run(ctx context.Context, sourceID string, candidates []Candidate) (service.IngestStats, error) {
	start := time.Now()
	stats := service.IngestStats{Total: len(candidates)}

	if _, err := i.storage.GetSource(ctx, sourceID); err != nil {
		return stats, fmt.Errorf("unknown source %q: %w", sourceID, err)
	}

	bar := i.newProgressBar(len(candidates))

	for _, candidate := range candidates {
		if err := i.apply(ctx, sourceID, candidate, &stats); err != nil {
			stats.Failed++
			slog.Warn("candidate failed",
				"component_id", candidate.ComponentID,
				"spec_id", candidate.SpecID,
				"error", err)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	stats.Duration = time.Since(start)

	run := &model.IngestionRun{
		SourceID:  sourceID,
		Status:    stats.Status(),
		Notes:     fmt.Sprintf("%d applied, %d flagged, %d failed", stats.Applied, stats.Flagged, stats.Failed),
		StartedAt: start.UTC(),
		EndedAt:   time.Now().UTC(),
	}
	if err := i.storage.RecordRun(ctx, run); err != nil {
		return stats, fmt.Errorf("failed to record run: %w", err)
	}

	slog.Info("ingestion run finished",
		"source", sourceID,
		"status", run.Status,
		"applied", stats.Applied,
		"flagged", stats.Flagged,
		"failed", stats.Failed)
	return stats, nil
}

func (i *Ingester) apply(ctx context.Context, runSource string, candidate Candidate, stats *service.IngestStats) error {
	if candidate.ComponentID == "" || candidate.SpecID == "" {
		return fmt.Errorf("candidate missing component_id or spec_id")
	}

	component, err := i.storage.GetComponentByID(ctx, candidate.ComponentID)
	if err != nil {
		return err
	}

	sourceID := candidate.SourceID
	if sourceID == "" {
		sourceID = runSource
	}

	flagged := false
	var before, after string

	if i.isCompatKey(component.Category, candidate.SpecID) {
		// Compatibility keys take canonical dimension ids. An out-of-domain
		// id is stored as-is and flagged rather than dropped.
		before = component.Compatibility[candidate.SpecID]
		after = candidate.RawValue
		ok, err := i.registry.InDomain(candidate.SpecID, candidate.RawValue)
		if err != nil {
			return err
		}
		if !ok {
			flagged = true
			component.Quality.ReviewNotes = fmt.Sprintf("%s: %q is not a known %s", candidate.SpecID, candidate.RawValue, candidate.SpecID)
		}
		component.SetCompat(candidate.SpecID, candidate.RawValue)
	} else {
		if old, ok := component.Specs[candidate.SpecID]; ok {
			before = old.Value.String()
		}

		value, verr := i.coerce(component.Category, candidate)
		if verr != nil {
			flagged = true
			component.Quality.ReviewNotes = verr.Error()
		}
		after = value.String()

		component.SetSpec(candidate.SpecID, model.SpecValue{
			Value:      value,
			SourceID:   sourceID,
			Confidence: candidate.Confidence,
			UpdatedAt:  time.Now().UTC(),
		})
	}

	if flagged {
		component.Quality.NeedsReview = true
		component.Quality.ReviewStatus = model.ReviewUnreviewed
	}
	component.Quality.Completeness = i.registry.Completeness(component)

	if err := i.storage.SaveComponent(ctx, component); err != nil {
		return err
	}

	if err := i.storage.AppendAudit(ctx, &model.AuditEntry{
		ComponentID: component.ID,
		Actor:       "ingest:" + runSource,
		Action:      model.AuditIngest,
		Field:       candidate.SpecID,
		Before:      before,
		After:       after,
	}); err != nil {
		return err
	}

	if flagged {
		stats.Flagged++
	} else {
		stats.Applied++
	}
	return nil
}

// coerce returns the stored value and, when the candidate fails its schema
// check, the validation error to record.
func (i *Ingester) coerce(category string, candidate Candidate) (model.Value, error) {
	def, ok := i.registry.SpecDef(category, candidate.SpecID)
	if !ok {
		// No schema for this spec id: keep the syntactic coercion and flag.
		return schema.Coerce(candidate.RawValue), fmt.Errorf("spec %s: not in the %s schema", candidate.SpecID, category)
	}
	return schema.CoerceFor(def, candidate.RawValue)
}

func (i *Ingester) isCompatKey(category, key string) bool {
	for _, k := range i.registry.CompatKeysFor(category) {
		if k == key {
			return true
		}
	}
	return false
}

func (i *Ingester) newProgressBar(total int) *progressbar.ProgressBar {
	if i.progress == nil || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(i.progress),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Ingesting candidates..."),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(i.progress)
		}),
	)
}
