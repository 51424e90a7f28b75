package rules

import (
	"sort"

	"github.com/xorig/rigctl/internal/model"
)

// Report is the complete outcome of checking a build: every enabled rule
// lands in exactly one of the three lists.
type Report struct {
	Satisfied   []Result
	Violations  []Result
	Unevaluable []Result
}

func (r *Report) add(res Result) {
	switch res.Outcome {
	case OutcomeSatisfied:
		r.Satisfied = append(r.Satisfied, res)
	case OutcomeViolated:
		r.Violations = append(r.Violations, res)
	case OutcomeUnevaluable:
		r.Unevaluable = append(r.Unevaluable, res)
	}
}

// sortViolations orders violations error > warn > info, stable by rule id
// within a severity.
func (r *Report) sortViolations() {
	sort.SliceStable(r.Violations, func(i, j int) bool {
		ri, rj := r.Violations[i].Rule, r.Violations[j].Rule
		if ri.Severity.Rank() != rj.Severity.Rank() {
			return ri.Severity.Rank() < rj.Severity.Rank()
		}
		return ri.ID < rj.ID
	})
}

// HasErrors reports whether any violation carries error severity. Only
// error-severity violations are hard compatibility failures; warn and info
// never block a build.
func (r Report) HasErrors() bool {
	for _, v := range r.Violations {
		if v.Rule.Severity == model.SeverityError {
			return true
		}
	}
	return false
}

// CountBySeverity tallies violations per severity.
func (r Report) CountBySeverity() map[model.Severity]int {
	counts := make(map[model.Severity]int, 3)
	for _, v := range r.Violations {
		counts[v.Rule.Severity]++
	}
	return counts
}

// Total returns how many rules were evaluated or attempted.
func (r Report) Total() int {
	return len(r.Satisfied) + len(r.Violations) + len(r.Unevaluable)
}
