// Package schema declares the per-category attribute schemas and shared
// compatibility dimensions that drive which fields a component may carry and
// how raw values are coerced and validated.
package schema

import (
	"fmt"

	"github.com/xorig/rigctl/internal/model"
)

// ValueType is the declared type of a spec attribute.
type ValueType string

// Spec value types.
const (
	TypeInt    ValueType = "int"
	TypeFloat  ValueType = "float"
	TypeBool   ValueType = "bool"
	TypeString ValueType = "string"
	TypeEnum   ValueType = "enum"
)

// SpecDef declares one typed spec attribute within a category.
type SpecDef struct {
	ID         string    `json:"id"`
	Label      string    `json:"label"`
	Type       ValueType `json:"type"`
	Unit       string    `json:"unit,omitempty"`
	EnumValues []string  `json:"enum,omitempty"`
}

// Validate ensures the definition itself is well formed.
func (d SpecDef) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("spec def id is required")
	}
	switch d.Type {
	case TypeInt, TypeFloat, TypeBool, TypeString:
		if len(d.EnumValues) > 0 {
			return fmt.Errorf("spec %s: enum values only allowed for enum type", d.ID)
		}
	case TypeEnum:
		if len(d.EnumValues) == 0 {
			return fmt.Errorf("spec %s: enum type requires enum values", d.ID)
		}
	default:
		return fmt.Errorf("spec %s: invalid value type %s", d.ID, d.Type)
	}
	return nil
}

// DimensionEntry is one legal value of a shared compatibility dimension.
type DimensionEntry struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Dimension is the ordered domain of legal values for one compatibility key,
// shared across every category that references the key.
type Dimension struct {
	Key     string           `json:"key"`
	Entries []DimensionEntry `json:"entries"`
}

// CategorySchema declares the spec attributes and compatibility keys that
// apply to one hardware category. Role is the alias rule expressions use to
// refer to a component of this category (e.g. "mobo" for Motherboard).
type CategorySchema struct {
	ID         string    `json:"category_id"`
	Role       string    `json:"role"`
	SpecDefs   []SpecDef `json:"spec_defs"`
	CompatKeys []string  `json:"compat_keys"`
}

// Registry is the process-wide lookup surface for category schemas and
// dimension domains. It is immutable after construction and safe for
// concurrent reads.
type Registry struct {
	byCategory map[string]int
	byRole     map[string]string
	dims       map[string][]DimensionEntry
	categories []CategorySchema
	dimOrder   []string
}

// NewRegistry builds a registry and verifies its configuration invariants:
// unique category ids and role aliases, pairwise-unique spec ids within each
// category, and every compat key backed by a registered dimension. A
// violation is a configuration defect, not a runtime user error.
func NewRegistry(categories []CategorySchema, dimensions []Dimension) (*Registry, error) {
	r := &Registry{
		byCategory: make(map[string]int, len(categories)),
		byRole:     make(map[string]string, len(categories)),
		dims:       make(map[string][]DimensionEntry, len(dimensions)),
		categories: categories,
	}

	for _, d := range dimensions {
		if d.Key == "" {
			return nil, fmt.Errorf("dimension key is required")
		}
		if _, dup := r.dims[d.Key]; dup {
			return nil, fmt.Errorf("duplicate dimension %s", d.Key)
		}
		r.dims[d.Key] = d.Entries
		r.dimOrder = append(r.dimOrder, d.Key)
	}

	for i, cat := range categories {
		if cat.ID == "" {
			return nil, fmt.Errorf("category id is required")
		}
		if _, dup := r.byCategory[cat.ID]; dup {
			return nil, fmt.Errorf("duplicate category %s", cat.ID)
		}
		r.byCategory[cat.ID] = i

		if cat.Role != "" {
			if owner, dup := r.byRole[cat.Role]; dup {
				return nil, fmt.Errorf("role %s claimed by both %s and %s", cat.Role, owner, cat.ID)
			}
			r.byRole[cat.Role] = cat.ID
		}

		seen := make(map[string]bool, len(cat.SpecDefs))
		for _, def := range cat.SpecDefs {
			if err := def.Validate(); err != nil {
				return nil, fmt.Errorf("category %s: %w", cat.ID, err)
			}
			if seen[def.ID] {
				return nil, fmt.Errorf("category %s: duplicate spec id %s", cat.ID, def.ID)
			}
			seen[def.ID] = true
		}

		for _, key := range cat.CompatKeys {
			if _, ok := r.dims[key]; !ok {
				return nil, &UnknownDimensionError{Key: key}
			}
		}
	}

	return r, nil
}

// Categories returns the registered category schemas in declaration order.
func (r *Registry) Categories() []CategorySchema {
	return r.categories
}

// SpecDefsFor returns the ordered spec definitions for a category. An
// unknown category yields an empty slice, not an error: an unregistered or
// "All" pseudo-category legitimately has no dynamic columns.
func (r *Registry) SpecDefsFor(category string) []SpecDef {
	i, ok := r.byCategory[category]
	if !ok {
		return nil
	}
	return r.categories[i].SpecDefs
}

// SpecDef looks up a single spec definition within a category.
func (r *Registry) SpecDef(category, specID string) (SpecDef, bool) {
	for _, def := range r.SpecDefsFor(category) {
		if def.ID == specID {
			return def, true
		}
	}
	return SpecDef{}, false
}

// CompatKeysFor returns the ordered compatibility keys for a category, with
// the same empty-on-unknown contract as SpecDefsFor.
func (r *Registry) CompatKeysFor(category string) []string {
	i, ok := r.byCategory[category]
	if !ok {
		return nil
	}
	return r.categories[i].CompatKeys
}

// DomainFor returns the ordered legal values for a compatibility key.
// Unknown keys are a configuration error.
func (r *Registry) DomainFor(key string) ([]DimensionEntry, error) {
	entries, ok := r.dims[key]
	if !ok {
		return nil, &UnknownDimensionError{Key: key}
	}
	return entries, nil
}

// DimensionKeys returns every registered dimension key in declaration order.
func (r *Registry) DimensionKeys() []string {
	return r.dimOrder
}

// InDomain reports whether id is a legal canonical value for the given
// compatibility key.
func (r *Registry) InDomain(key, id string) (bool, error) {
	entries, err := r.DomainFor(key)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.ID == id {
			return true, nil
		}
	}
	return false, nil
}

// CategoryForRole resolves a rule-expression role alias to its category id.
func (r *Registry) CategoryForRole(role string) (string, bool) {
	cat, ok := r.byRole[role]
	return cat, ok
}

// HasCategory reports whether the category is registered.
func (r *Registry) HasCategory(category string) bool {
	_, ok := r.byCategory[category]
	return ok
}

// Completeness scores how many of a component's schema-defined fields hold
// a value, as a 0-100 percentage. Categories without a registered schema
// score zero.
func (r *Registry) Completeness(c *model.Component) int {
	defs := r.SpecDefsFor(c.Category)
	keys := r.CompatKeysFor(c.Category)
	total := len(defs) + len(keys)
	if total == 0 {
		return 0
	}

	populated := 0
	for _, def := range defs {
		if sv, ok := c.Specs[def.ID]; ok && !sv.Value.IsEmpty() {
			populated++
		}
	}
	for _, key := range keys {
		if c.Compatibility[key] != "" {
			populated++
		}
	}

	return populated * 100 / total
}
