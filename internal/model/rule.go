package model

import (
	"fmt"
	"strings"
	"time"
)

// Severity ranks how serious a rule violation is.
type Severity string

// Severity constants, ordered error > warn > info.
const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warn"
	SeverityInfo  Severity = "info"
)

// Rank returns a sortable weight for the severity; lower sorts first.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarn:
		return 1
	case SeverityInfo:
		return 2
	default:
		return 3
	}
}

// ValidSeverity reports whether s is one of the known severities.
func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityError, SeverityWarn, SeverityInfo:
		return true
	default:
		return false
	}
}

// Operator is the comparison applied between two resolved paths.
type Operator string

// Canonical operator vocabulary. External wire formats (JSON-logic style
// "==", "<=", ">=") are translated at the persistence boundary, never here.
const (
	OpEq  Operator = "eq"
	OpLTE Operator = "lte"
	OpGTE Operator = "gte"
)

// ValidOperator reports whether op is part of the canonical vocabulary.
func ValidOperator(op Operator) bool {
	switch op {
	case OpEq, OpLTE, OpGTE:
		return true
	default:
		return false
	}
}

// Path is a dotted reference of the form role.key, where role is an alias
// bound to a component at evaluation time and key names a compatibility key
// or spec id on that component.
type Path struct {
	Role string
	Key  string
}

// ParsePath splits a dotted path on the first dot.
func ParsePath(s string) (Path, error) {
	role, key, found := strings.Cut(s, ".")
	if !found || role == "" || key == "" {
		return Path{}, fmt.Errorf("invalid path %q: want role.key", s)
	}
	return Path{Role: role, Key: key}, nil
}

// String renders the path back to its role.key form.
func (p Path) String() string {
	return p.Role + "." + p.Key
}

// Expression is the comparison at the heart of a compatibility rule.
type Expression struct {
	Left  Path
	Right Path
	Op    Operator
}

// Roles returns the distinct role aliases the expression references,
// preserving left-to-right order.
func (e Expression) Roles() []string {
	if e.Left.Role == e.Right.Role {
		return []string{e.Left.Role}
	}
	return []string{e.Left.Role, e.Right.Role}
}

// String renders the expression as op(left, right).
func (e Expression) String() string {
	return fmt.Sprintf("%s(%s, %s)", e.Op, e.Left, e.Right)
}

// CompatibilityRule is a named, severity-tagged check between two
// components' fields. Applies is documentation for administrators; it never
// constrains which components a role may bind to.
type CompatibilityRule struct {
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ID        string     `json:"rule_id"`
	Name      string     `json:"name"`
	Applies   string     `json:"applies"`
	Message   string     `json:"message"`
	Severity  Severity   `json:"severity"`
	Expr      Expression `json:"expr"`
	Enabled   bool       `json:"enabled"`
}

// Validate ensures the rule has valid data.
func (r *CompatibilityRule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("rule name is required")
	}
	if !ValidSeverity(r.Severity) {
		return fmt.Errorf("invalid severity: %s", r.Severity)
	}
	if !ValidOperator(r.Expr.Op) {
		return fmt.Errorf("invalid operator: %s", r.Expr.Op)
	}
	if r.Expr.Left.Role == "" || r.Expr.Left.Key == "" {
		return fmt.Errorf("left path is required")
	}
	if r.Expr.Right.Role == "" || r.Expr.Right.Key == "" {
		return fmt.Errorf("right path is required")
	}
	return nil
}
