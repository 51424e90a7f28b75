package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/xorig/rigctl/internal/model"
	"github.com/xorig/rigctl/internal/service"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

// Helper function to create test components.
func createTestComponent(id, category string) *model.Component {
	c := &model.Component{
		ID:       id,
		Category: category,
		Brand:    "TestBrand",
		Model:    "Model " + id,
		Status:   model.StatusActive,
		Quality: model.Quality{
			ReviewStatus: model.ReviewUnreviewed,
		},
	}
	c.SetSpec("tdp_w", model.SpecValue{
		Value:      model.NewInt(65),
		SourceID:   "manual",
		Confidence: 1.0,
		UpdatedAt:  time.Now().UTC(),
	})
	c.SetCompat("socket", "AM5")
	return c
}

func TestSQLiteStorage_SaveComponent(t *testing.T) {
	tests := []struct {
		component *model.Component
		validate  func(*testing.T, *SQLiteStorage, context.Context)
		name      string
		wantErr   bool
	}{
		{
			name:      "save new component",
			component: createTestComponent("cmp_001", "CPU"),
			validate: func(t *testing.T, s *SQLiteStorage, ctx context.Context) {
				t.Helper()
				got, err := s.GetComponentByID(ctx, "cmp_001")
				if err != nil {
					t.Fatalf("Failed to get component: %v", err)
				}
				if got.Category != "CPU" {
					t.Errorf("Expected category CPU, got %s", got.Category)
				}
				if got.Compatibility["socket"] != "AM5" {
					t.Errorf("Expected socket AM5, got %s", got.Compatibility["socket"])
				}
				sv, ok := got.Specs["tdp_w"]
				if !ok {
					t.Fatal("Expected tdp_w spec to survive round trip")
				}
				if v, ok := sv.Value.Int64(); !ok || v != 65 {
					t.Errorf("Expected tdp_w 65, got %v", sv.Value)
				}
			},
		},
		{
			name:      "upsert keeps single row",
			component: createTestComponent("cmp_002", "CPU"),
			validate: func(t *testing.T, s *SQLiteStorage, ctx context.Context) {
				t.Helper()
				updated := createTestComponent("cmp_002", "CPU")
				updated.Brand = "OtherBrand"
				if err := s.SaveComponent(ctx, updated); err != nil {
					t.Fatalf("Failed to re-save component: %v", err)
				}
				components, err := s.GetComponentsByCategory(ctx, "CPU")
				if err != nil {
					t.Fatalf("Failed to list components: %v", err)
				}
				if len(components) != 1 {
					t.Errorf("Expected 1 component after upsert, got %d", len(components))
				}
				if components[0].Brand != "OtherBrand" {
					t.Errorf("Expected updated brand, got %s", components[0].Brand)
				}
			},
		},
		{
			name:      "reject component without category",
			component: &model.Component{ID: "cmp_003", Status: model.StatusActive},
			wantErr:   true,
		},
		{
			name:      "reject nil component",
			component: nil,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, cleanup := createTestStorage(t)
			defer cleanup()
			ctx := context.Background()

			err := store.SaveComponent(ctx, tt.component)
			if (err != nil) != tt.wantErr {
				t.Errorf("SaveComponent() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.validate != nil {
				tt.validate(t, store, ctx)
			}
		})
	}
}

func TestSQLiteStorage_GetComponents(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seed := []*model.Component{
		createTestComponent("cmp_cpu_1", "CPU"),
		createTestComponent("cmp_cpu_2", "CPU"),
		createTestComponent("cmp_gpu_1", "GPU"),
	}
	seed[1].Brand = "Zen"
	seed[1].Quality.NeedsReview = true
	seed[2].Status = model.StatusDiscontinued
	for _, c := range seed {
		if err := store.SaveComponent(ctx, c); err != nil {
			t.Fatalf("Failed to seed component %s: %v", c.ID, err)
		}
	}

	tests := []struct {
		name    string
		filter  service.ComponentFilter
		wantIDs []string
	}{
		{
			name:    "filter by category",
			filter:  service.ComponentFilter{Category: "CPU"},
			wantIDs: []string{"cmp_cpu_1", "cmp_cpu_2"},
		},
		{
			name:    "filter by search substring",
			filter:  service.ComponentFilter{Search: "Zen"},
			wantIDs: []string{"cmp_cpu_2"},
		},
		{
			name:    "filter by needs review",
			filter:  service.ComponentFilter{NeedsReview: true},
			wantIDs: []string{"cmp_cpu_2"},
		},
		{
			name:    "filter by status",
			filter:  service.ComponentFilter{Status: model.StatusDiscontinued},
			wantIDs: []string{"cmp_gpu_1"},
		},
		{
			name:    "limit applies",
			filter:  service.ComponentFilter{Category: "CPU", Limit: 1},
			wantIDs: []string{"cmp_cpu_1"},
		},
		{
			name:    "no matches",
			filter:  service.ComponentFilter{Category: "PSU"},
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.GetComponents(ctx, tt.filter)
			if err != nil {
				t.Fatalf("GetComponents() error = %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Expected %d components, got %d", len(tt.wantIDs), len(got))
			}
			for i, want := range tt.wantIDs {
				if got[i].ID != want {
					t.Errorf("Component %d: expected %s, got %s", i, want, got[i].ID)
				}
			}
		})
	}
}

func TestSQLiteStorage_DeleteComponent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SaveComponent(ctx, createTestComponent("cmp_del", "CPU")); err != nil {
		t.Fatalf("Failed to save component: %v", err)
	}
	if err := store.SaveOffers(ctx, "cmp_del", []model.Offer{
		{ID: "off_1", VendorID: "md", SourceID: "md", PriceINR: 1000, EffectiveINR: 1050, InStock: true},
	}); err != nil {
		t.Fatalf("Failed to save offers: %v", err)
	}

	if err := store.DeleteComponent(ctx, "cmp_del"); err != nil {
		t.Fatalf("DeleteComponent() error = %v", err)
	}

	if _, err := store.GetComponentByID(ctx, "cmp_del"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	// Offers cascade with the component
	offers, err := store.GetOffers(ctx, "cmp_del")
	if err != nil {
		t.Fatalf("GetOffers() error = %v", err)
	}
	if len(offers) != 0 {
		t.Errorf("Expected offers to cascade, got %d", len(offers))
	}

	if err := store.DeleteComponent(ctx, "cmp_del"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on double delete, got %v", err)
	}
}

func TestSQLiteStorage_UpdateReviewStatus(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	c := createTestComponent("cmp_rev", "CPU")
	c.Quality.NeedsReview = true
	if err := store.SaveComponent(ctx, c); err != nil {
		t.Fatalf("Failed to save component: %v", err)
	}

	if err := store.UpdateReviewStatus(ctx, "cmp_rev", model.ReviewApproved, "looks right"); err != nil {
		t.Fatalf("UpdateReviewStatus() error = %v", err)
	}

	got, err := store.GetComponentByID(ctx, "cmp_rev")
	if err != nil {
		t.Fatalf("Failed to get component: %v", err)
	}
	if got.Quality.ReviewStatus != model.ReviewApproved {
		t.Errorf("Expected approved, got %s", got.Quality.ReviewStatus)
	}
	if got.Quality.NeedsReview {
		t.Error("Expected approval to clear needs_review")
	}
	if got.Quality.ReviewNotes != "looks right" {
		t.Errorf("Expected review notes to persist, got %q", got.Quality.ReviewNotes)
	}

	if err := store.UpdateReviewStatus(ctx, "cmp_missing", model.ReviewApproved, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing component, got %v", err)
	}
}

func TestSQLiteStorage_Offers(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SaveComponent(ctx, createTestComponent("cmp_off", "GPU")); err != nil {
		t.Fatalf("Failed to save component: %v", err)
	}

	offers := []model.Offer{
		{ID: "off_b", VendorID: "prime", SourceID: "prime", PriceINR: 52000, ShippingINR: 500, EffectiveINR: 52500, InStock: true},
		{ID: "off_a", VendorID: "md", SourceID: "md", PriceINR: 51000, ShippingINR: 0, EffectiveINR: 51000, InStock: false},
	}
	if err := store.SaveOffers(ctx, "cmp_off", offers); err != nil {
		t.Fatalf("SaveOffers() error = %v", err)
	}

	got, err := store.GetOffers(ctx, "cmp_off")
	if err != nil {
		t.Fatalf("GetOffers() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 offers, got %d", len(got))
	}
	// Ordered cheapest first
	if got[0].ID != "off_a" {
		t.Errorf("Expected cheapest offer first, got %s", got[0].ID)
	}

	// Replacing offers drops old rows
	if err := store.SaveOffers(ctx, "cmp_off", offers[:1]); err != nil {
		t.Fatalf("SaveOffers() replace error = %v", err)
	}
	got, err = store.GetOffers(ctx, "cmp_off")
	if err != nil {
		t.Fatalf("GetOffers() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "off_b" {
		t.Errorf("Expected single replaced offer off_b, got %v", got)
	}

	// Best offer prefers in-stock even when pricier
	best := model.BestOffer(append(got, model.Offer{ID: "off_c", EffectiveINR: 1, InStock: false}))
	if best == nil || best.ID != "off_b" {
		t.Errorf("Expected in-stock offer to win, got %v", best)
	}
}

func TestSQLiteStorage_ValidationErrors(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := store.GetComponentByID(ctx, ""); !errors.Is(err, ErrEmptyString) {
		t.Errorf("Expected ErrEmptyString for empty id, got %v", err)
	}
	//nolint:staticcheck // passing nil context on purpose
	if err := store.SaveComponent(nil, createTestComponent("cmp_x", "CPU")); !errors.Is(err, ErrNilContext) {
		t.Errorf("Expected ErrNilContext, got %v", err)
	}
	if err := store.AppendAudit(ctx, nil); !errors.Is(err, ErrNilParameter) {
		t.Errorf("Expected ErrNilParameter, got %v", err)
	}
}

func TestSQLiteStorage_LargeCatalog(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		c := createTestComponent(fmt.Sprintf("cmp_%03d", i), "RAM")
		if err := store.SaveComponent(ctx, c); err != nil {
			t.Fatalf("Failed to save component %d: %v", i, err)
		}
	}

	page, err := store.GetComponents(ctx, service.ComponentFilter{Category: "RAM", Limit: 10, Offset: 20})
	if err != nil {
		t.Fatalf("GetComponents() error = %v", err)
	}
	if len(page) != 10 {
		t.Fatalf("Expected page of 10, got %d", len(page))
	}
	if page[0].ID != "cmp_020" {
		t.Errorf("Expected page to start at cmp_020, got %s", page[0].ID)
	}
}
