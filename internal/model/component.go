package model

import (
	"fmt"
	"sort"
	"time"
)

// ComponentStatus indicates whether a component is still on the market.
type ComponentStatus string

// Component status constants.
const (
	StatusActive       ComponentStatus = "active"
	StatusDiscontinued ComponentStatus = "discontinued"
)

// ReviewStatus tracks where a component sits in the human review workflow.
type ReviewStatus string

// Review status constants.
const (
	ReviewUnreviewed ReviewStatus = "unreviewed"
	ReviewApproved   ReviewStatus = "approved"
	ReviewRejected   ReviewStatus = "rejected"
)

// SpecValue is a typed, sourced, confidence-scored attribute value. Writes
// always replace the whole tuple so provenance describes the value it is
// paired with.
type SpecValue struct {
	UpdatedAt  time.Time `json:"updated_at"`
	SourceID   string    `json:"source_id"`
	Value      Value     `json:"value"`
	Confidence float64   `json:"confidence"`
}

// Validate ensures the spec value carries usable provenance.
func (sv *SpecValue) Validate() error {
	if sv.SourceID == "" {
		return fmt.Errorf("source id is required")
	}
	if sv.Confidence < 0 || sv.Confidence > 1 {
		return fmt.Errorf("confidence must be between 0 and 1")
	}
	return nil
}

// Quality summarizes data completeness and review state for a component.
type Quality struct {
	ReviewStatus ReviewStatus `json:"review_status"`
	ReviewNotes  string       `json:"review_notes,omitempty"`
	Completeness int          `json:"completeness"`
	NeedsReview  bool         `json:"needs_review"`
}

// ExternalID maps a component to its identity at an external source.
type ExternalID struct {
	SourceID        string  `json:"source_id"`
	ExternalID      string  `json:"external_id"`
	ExternalURL     string  `json:"external_url"`
	MatchMethod     string  `json:"match_method"`
	MatchConfidence float64 `json:"match_confidence"`
}

// Component represents a single catalog entry for one hardware part.
type Component struct {
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
	Specs          map[string]SpecValue `json:"specs"`
	Compatibility  map[string]string    `json:"compatibility"`
	ID             string               `json:"component_id"`
	Category       string               `json:"category"`
	Brand          string               `json:"brand"`
	Model          string               `json:"model"`
	Variant        string               `json:"variant_name"`
	ReleaseDate    string               `json:"release_date,omitempty"`
	EAN            string               `json:"ean,omitempty"`
	DatasheetURL   string               `json:"datasheet_url,omitempty"`
	ProductPageURL string               `json:"product_page_url,omitempty"`
	Status         ComponentStatus      `json:"active_status"`
	ExternalIDs    []ExternalID         `json:"external_ids,omitempty"`
	Offers         []Offer              `json:"offers,omitempty"`
	Quality        Quality              `json:"quality"`
	WarrantyYears  int                  `json:"warranty_years"`
}

// Validate ensures the component has the fields every catalog entry needs.
func (c *Component) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("component id is required")
	}
	if c.Category == "" {
		return fmt.Errorf("category is required")
	}
	switch c.Status {
	case StatusActive, StatusDiscontinued:
	default:
		return fmt.Errorf("invalid status: %s", c.Status)
	}
	for id, sv := range c.Specs {
		if err := sv.Validate(); err != nil {
			return fmt.Errorf("spec %s: %w", id, err)
		}
	}
	return nil
}

// SetSpec replaces the whole spec tuple for the given spec id. Partial
// updates that keep stale provenance are not possible through this path.
func (c *Component) SetSpec(specID string, sv SpecValue) {
	if c.Specs == nil {
		c.Specs = make(map[string]SpecValue)
	}
	c.Specs[specID] = sv
}

// SetCompat records the canonical dimension id for a compatibility key.
func (c *Component) SetCompat(key, dimensionID string) {
	if c.Compatibility == nil {
		c.Compatibility = make(map[string]string)
	}
	c.Compatibility[key] = dimensionID
}

// DisplayName returns "Brand Model Variant" with empty parts omitted.
func (c *Component) DisplayName() string {
	name := c.Brand
	if c.Model != "" {
		if name != "" {
			name += " "
		}
		name += c.Model
	}
	if c.Variant != "" {
		if name != "" {
			name += " "
		}
		name += c.Variant
	}
	return name
}

// Offer is one vendor listing for a component.
type Offer struct {
	UpdatedAt    time.Time `json:"updated_at"`
	ID           string    `json:"offer_id"`
	VendorID     string    `json:"vendor_id"`
	SourceID     string    `json:"source_id"`
	VendorURL    string    `json:"vendor_url,omitempty"`
	PriceINR     float64   `json:"price_inr"`
	ShippingINR  float64   `json:"shipping_inr"`
	EffectiveINR float64   `json:"effective_price_inr"`
	Quantity     int       `json:"quantity"`
	InStock      bool      `json:"in_stock"`
}

// BestOffer picks the lowest effective price, preferring in-stock offers.
// Returns nil when there are no offers.
func BestOffer(offers []Offer) *Offer {
	if len(offers) == 0 {
		return nil
	}

	candidates := make([]Offer, 0, len(offers))
	for _, o := range offers {
		if o.InStock {
			candidates = append(candidates, o)
		}
	}
	if len(candidates) == 0 {
		candidates = append(candidates, offers...)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].EffectiveINR < candidates[j].EffectiveINR
	})

	best := candidates[0]
	return &best
}
