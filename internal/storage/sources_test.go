package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xorig/rigctl/internal/model"
)

func TestSQLiteStorage_SeededSources(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	sources, err := store.GetSources(ctx)
	if err != nil {
		t.Fatalf("GetSources() error = %v", err)
	}
	if len(sources) != 4 {
		t.Fatalf("Expected 4 seeded sources, got %d", len(sources))
	}

	manual, err := store.GetSource(ctx, model.ManualSourceID)
	if err != nil {
		t.Fatalf("GetSource(manual) error = %v", err)
	}
	if manual.Type != model.SourceManual {
		t.Errorf("Expected manual source type, got %s", manual.Type)
	}

	pcpt, err := store.GetSource(ctx, "pcpt")
	if err != nil {
		t.Fatalf("GetSource(pcpt) error = %v", err)
	}
	if pcpt.Type != model.SourceAggregator {
		t.Errorf("Expected aggregator source type, got %s", pcpt.Type)
	}

	if _, err := store.GetSource(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown source, got %v", err)
	}
}

func TestSQLiteStorage_Runs(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	runs := []*model.IngestionRun{
		{SourceID: "pcpt", Status: model.RunSuccess, StartedAt: base.Add(-2 * time.Hour), EndedAt: base.Add(-2 * time.Hour).Add(time.Minute)},
		{SourceID: "md", Status: model.RunFailed, Notes: "feed unreachable", StartedAt: base.Add(-time.Hour), EndedAt: base.Add(-time.Hour).Add(time.Second)},
		{SourceID: "pcpt", Status: model.RunPartial, Notes: "3 flagged", StartedAt: base, EndedAt: base.Add(time.Minute)},
	}
	for _, run := range runs {
		if err := store.RecordRun(ctx, run); err != nil {
			t.Fatalf("RecordRun() error = %v", err)
		}
		if run.ID == 0 {
			t.Error("Expected RecordRun to assign an id")
		}
	}

	t.Run("newest first", func(t *testing.T) {
		got, err := store.GetRuns(ctx, "", 0)
		if err != nil {
			t.Fatalf("GetRuns() error = %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("Expected 3 runs, got %d", len(got))
		}
		if got[0].Status != model.RunPartial {
			t.Errorf("Expected newest run first, got %s", got[0].Status)
		}
	})

	t.Run("filter by source", func(t *testing.T) {
		got, err := store.GetRuns(ctx, "md", 0)
		if err != nil {
			t.Fatalf("GetRuns() error = %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("Expected 1 run for md, got %d", len(got))
		}
		if got[0].Notes != "feed unreachable" {
			t.Errorf("Expected notes to persist, got %q", got[0].Notes)
		}
	})

	t.Run("limit", func(t *testing.T) {
		got, err := store.GetRuns(ctx, "pcpt", 1)
		if err != nil {
			t.Fatalf("GetRuns() error = %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("Expected 1 run, got %d", len(got))
		}
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		err := store.RecordRun(ctx, &model.IngestionRun{SourceID: "pcpt", Status: "exploded", StartedAt: base})
		if !errors.Is(err, ErrInvalidRun) {
			t.Errorf("Expected ErrInvalidRun, got %v", err)
		}
	})
}

func TestSQLiteStorage_Audit(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	entries := []*model.AuditEntry{
		{ComponentID: "cmp_a", Actor: "manual", Action: model.AuditCreate},
		{ComponentID: "cmp_a", Actor: "ingest:pcpt", Action: model.AuditIngest, Field: "tdp_w", Before: "", After: "65"},
		{ComponentID: "cmp_b", Actor: "manual", Action: model.AuditUpdate, Field: "brand", Before: "AMD", After: "Intel"},
	}
	for _, entry := range entries {
		if err := store.AppendAudit(ctx, entry); err != nil {
			t.Fatalf("AppendAudit() error = %v", err)
		}
		if entry.ID == 0 {
			t.Error("Expected AppendAudit to assign an id")
		}
		if entry.At.IsZero() {
			t.Error("Expected AppendAudit to stamp the entry")
		}
	}

	got, err := store.GetAuditForComponent(ctx, "cmp_a", 0)
	if err != nil {
		t.Fatalf("GetAuditForComponent() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 entries for cmp_a, got %d", len(got))
	}
	// Newest first
	if got[0].Action != model.AuditIngest {
		t.Errorf("Expected ingest entry first, got %s", got[0].Action)
	}
	if got[0].Field != "tdp_w" || got[0].After != "65" {
		t.Errorf("Expected field change to persist, got %+v", got[0])
	}

	limited, err := store.GetAuditForComponent(ctx, "cmp_a", 1)
	if err != nil {
		t.Fatalf("GetAuditForComponent() error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("Expected limit to apply, got %d entries", len(limited))
	}

	if err := store.AppendAudit(ctx, &model.AuditEntry{ComponentID: "cmp_a", Actor: "manual", Action: "destroy"}); !errors.Is(err, ErrInvalidAudit) {
		t.Errorf("Expected ErrInvalidAudit for unknown action, got %v", err)
	}
}
