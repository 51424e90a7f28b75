// Package rules evaluates compatibility rules against bound component
// records. Evaluation is pure and stateless: every failure is reported as an
// outcome, never thrown, so one bad rule cannot block the rest of a batch.
package rules

import (
	"fmt"

	"github.com/xorig/rigctl/internal/model"
	"github.com/xorig/rigctl/internal/schema"
)

// Outcome is the result of evaluating one rule against one binding.
type Outcome string

// Evaluation outcomes.
const (
	OutcomeSatisfied   Outcome = "satisfied"
	OutcomeViolated    Outcome = "violated"
	OutcomeUnevaluable Outcome = "unevaluable"
)

// Reason explains why a rule could not be evaluated.
type Reason string

// Unevaluable reasons.
const (
	ReasonUnresolvedPath   Reason = "unresolved_path"
	ReasonUnknownKey       Reason = "unknown_key"
	ReasonNotComparable    Reason = "not_comparable"
	ReasonAmbiguousBinding Reason = "ambiguous_binding"
	ReasonUnboundRole      Reason = "unbound_role"
)

// Binding maps role aliases to the component records they stand for during
// one evaluation.
type Binding map[string]*model.Component

// Result is the outcome of one rule against one binding. Message and
// Severity are populated from the rule for violations; Reason and Detail
// describe unevaluable outcomes.
type Result struct {
	Rule    model.CompatibilityRule
	Outcome Outcome
	Reason  Reason
	Detail  string
}

// Engine evaluates compatibility rules. The registry supplies the role
// alias to category mapping used when binding rules against a build.
type Engine struct {
	registry *schema.Registry
}

// NewEngine creates an evaluation engine backed by the given registry.
func NewEngine(registry *schema.Registry) *Engine {
	return &Engine{registry: registry}
}

// evalFailure carries a resolution or comparability failure out of the
// operand-resolution helpers.
type evalFailure struct {
	reason Reason
	detail string
}

// Evaluate resolves both operand paths of the rule's expression against the
// binding and applies the operator. Disabled rules still evaluate here;
// batch callers skip them before binding.
func (e *Engine) Evaluate(rule model.CompatibilityRule, binding Binding) Result {
	left, fail := resolve(rule.Expr.Left, binding)
	if fail != nil {
		return unevaluable(rule, fail)
	}
	right, fail := resolve(rule.Expr.Right, binding)
	if fail != nil {
		return unevaluable(rule, fail)
	}

	switch rule.Expr.Op {
	case model.OpEq:
		if left.Equal(right) {
			return Result{Rule: rule, Outcome: OutcomeSatisfied}
		}
		return Result{Rule: rule, Outcome: OutcomeViolated}

	case model.OpLTE, model.OpGTE:
		lf, lok := left.Float64()
		rf, rok := right.Float64()
		if !lok || !rok {
			return unevaluable(rule, &evalFailure{
				reason: ReasonNotComparable,
				detail: fmt.Sprintf("cannot compare %s (%s) with %s (%s) numerically",
					rule.Expr.Left, left.Kind(), rule.Expr.Right, right.Kind()),
			})
		}
		ok := lf <= rf
		if rule.Expr.Op == model.OpGTE {
			ok = lf >= rf
		}
		if ok {
			return Result{Rule: rule, Outcome: OutcomeSatisfied}
		}
		return Result{Rule: rule, Outcome: OutcomeViolated}

	default:
		return unevaluable(rule, &evalFailure{
			reason: ReasonNotComparable,
			detail: fmt.Sprintf("unknown operator %q", rule.Expr.Op),
		})
	}
}

// resolve looks a dotted path up in its bound component: the compatibility
// map first, then the spec value map. A key present in neither map, or
// present without a value, cannot be evaluated.
func resolve(path model.Path, binding Binding) (model.Value, *evalFailure) {
	component, ok := binding[path.Role]
	if !ok || component == nil {
		return model.Value{}, &evalFailure{
			reason: ReasonUnresolvedPath,
			detail: fmt.Sprintf("role %q is not bound to a component", path.Role),
		}
	}

	if id, ok := component.Compatibility[path.Key]; ok && id != "" {
		return model.NewString(id), nil
	}

	if sv, ok := component.Specs[path.Key]; ok {
		if sv.Value.IsEmpty() {
			return model.Value{}, &evalFailure{
				reason: ReasonUnknownKey,
				detail: fmt.Sprintf("%s has no value on %s", path, component.ID),
			}
		}
		return sv.Value, nil
	}

	return model.Value{}, &evalFailure{
		reason: ReasonUnknownKey,
		detail: fmt.Sprintf("%s not found on %s", path, component.ID),
	}
}

// CheckBuild evaluates every enabled rule against the components of a build
// in progress. Role bindings are derived from each rule's expression via the
// registry's role aliases: zero matching components skips the rule with an
// unbound-role outcome, more than one yields an ambiguous-binding outcome.
// Disabled rules are omitted from the report entirely.
func (e *Engine) CheckBuild(ruleList []model.CompatibilityRule, components []*model.Component) Report {
	var report Report

	for _, rule := range ruleList {
		if !rule.Enabled {
			continue
		}
		report.add(e.evaluateAgainstBuild(rule, components))
	}

	report.sortViolations()
	return report
}

func (e *Engine) evaluateAgainstBuild(rule model.CompatibilityRule, components []*model.Component) Result {
	binding := make(Binding)

	for _, role := range rule.Expr.Roles() {
		category, ok := e.registry.CategoryForRole(role)
		if !ok {
			return unevaluable(rule, &evalFailure{
				reason: ReasonUnresolvedPath,
				detail: fmt.Sprintf("role %q has no registered category", role),
			})
		}

		var matches []*model.Component
		for _, c := range components {
			if c.Category == category {
				matches = append(matches, c)
			}
		}

		switch len(matches) {
		case 0:
			return unevaluable(rule, &evalFailure{
				reason: ReasonUnboundRole,
				detail: fmt.Sprintf("no %s selected for role %q", category, role),
			})
		case 1:
			binding[role] = matches[0]
		default:
			return unevaluable(rule, &evalFailure{
				reason: ReasonAmbiguousBinding,
				detail: fmt.Sprintf("%d %s components match role %q", len(matches), category, role),
			})
		}
	}

	return e.Evaluate(rule, binding)
}

func unevaluable(rule model.CompatibilityRule, fail *evalFailure) Result {
	return Result{
		Rule:    rule,
		Outcome: OutcomeUnevaluable,
		Reason:  fail.reason,
		Detail:  fail.detail,
	}
}
