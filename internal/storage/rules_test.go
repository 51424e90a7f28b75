package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/xorig/rigctl/internal/model"
)

func testRule(id string) *model.CompatibilityRule {
	return &model.CompatibilityRule{
		ID:       id,
		Name:     "PSU connector must match GPU power input",
		Applies:  "PSU + GPU",
		Severity: model.SeverityWarn,
		Message:  "PSU may not have the right power connector.",
		Expr: model.Expression{
			Op:    model.OpEq,
			Left:  model.Path{Role: "psu", Key: "atx_version"},
			Right: model.Path{Role: "gpu", Key: "atx_version"},
		},
		Enabled: true,
	}
}

func TestSQLiteStorage_SeededRules(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	rules, err := store.GetRules(ctx)
	if err != nil {
		t.Fatalf("GetRules() error = %v", err)
	}
	if len(rules) != 3 {
		t.Fatalf("Expected 3 seeded rules, got %d", len(rules))
	}

	socket, err := store.GetRule(ctx, "r1")
	if err != nil {
		t.Fatalf("GetRule(r1) error = %v", err)
	}
	if socket.Expr.Op != model.OpEq {
		t.Errorf("Expected eq operator, got %s", socket.Expr.Op)
	}
	if socket.Expr.Left.Role != "cpu" || socket.Expr.Left.Key != "socket" {
		t.Errorf("Expected cpu.socket, got %s", socket.Expr.Left)
	}
	if socket.Severity != model.SeverityError {
		t.Errorf("Expected error severity, got %s", socket.Severity)
	}

	length, err := store.GetRule(ctx, "r3")
	if err != nil {
		t.Fatalf("GetRule(r3) error = %v", err)
	}
	if length.Expr.Op != model.OpLTE {
		t.Errorf("Expected lte operator, got %s", length.Expr.Op)
	}
	if length.Severity != model.SeverityWarn {
		t.Errorf("Expected warn severity, got %s", length.Severity)
	}
}

func TestSQLiteStorage_RuleCRUD(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	rule := testRule("r4")
	if err := store.CreateRule(ctx, rule); err != nil {
		t.Fatalf("CreateRule() error = %v", err)
	}

	// Duplicate IDs are rejected by the primary key
	if err := store.CreateRule(ctx, testRule("r4")); err == nil {
		t.Error("Expected error creating duplicate rule id")
	}

	got, err := store.GetRule(ctx, "r4")
	if err != nil {
		t.Fatalf("GetRule() error = %v", err)
	}
	if got.Name != rule.Name || got.Expr.String() != rule.Expr.String() {
		t.Errorf("Round trip mismatch: got %+v", got)
	}

	got.Severity = model.SeverityError
	got.Message = "PSU connector mismatch."
	if err := store.UpdateRule(ctx, got); err != nil {
		t.Fatalf("UpdateRule() error = %v", err)
	}
	updated, err := store.GetRule(ctx, "r4")
	if err != nil {
		t.Fatalf("GetRule() error = %v", err)
	}
	if updated.Severity != model.SeverityError {
		t.Errorf("Expected updated severity, got %s", updated.Severity)
	}

	if err := store.DeleteRule(ctx, "r4"); err != nil {
		t.Fatalf("DeleteRule() error = %v", err)
	}
	if _, err := store.GetRule(ctx, "r4"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := store.UpdateRule(ctx, got); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound updating deleted rule, got %v", err)
	}
}

func TestSQLiteStorage_SetRuleEnabled(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SetRuleEnabled(ctx, "r3", false); err != nil {
		t.Fatalf("SetRuleEnabled() error = %v", err)
	}

	enabled, err := store.GetEnabledRules(ctx)
	if err != nil {
		t.Fatalf("GetEnabledRules() error = %v", err)
	}
	for _, r := range enabled {
		if r.ID == "r3" {
			t.Error("Expected r3 to be excluded from enabled rules")
		}
	}
	if len(enabled) != 2 {
		t.Errorf("Expected 2 enabled rules, got %d", len(enabled))
	}

	// Disabled rules still show up in the full listing
	all, err := store.GetRules(ctx)
	if err != nil {
		t.Fatalf("GetRules() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 rules total, got %d", len(all))
	}

	if err := store.SetRuleEnabled(ctx, "r99", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown rule, got %v", err)
	}
}

func TestOpFromWire(t *testing.T) {
	tests := []struct {
		input   string
		want    model.Operator
		wantErr bool
	}{
		{input: "eq", want: model.OpEq},
		{input: "==", want: model.OpEq},
		{input: "lte", want: model.OpLTE},
		{input: "<=", want: model.OpLTE},
		{input: "gte", want: model.OpGTE},
		{input: ">=", want: model.OpGTE},
		{input: "neq", wantErr: true},
		{input: "<", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := opFromWire(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("opFromWire(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("opFromWire(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}
