package cli

import (
	"fmt"
	"strings"

	"github.com/xorig/rigctl/internal/model"
	"github.com/xorig/rigctl/internal/rules"
)

// RenderReport renders a build compatibility report for the terminal.
// Violations come first, ordered by severity, then anything that could not
// be evaluated, then a one-line summary.
func RenderReport(report rules.Report) string {
	var b strings.Builder

	for _, res := range report.Violations {
		fmt.Fprintf(&b, "%s %s: %s\n",
			SeverityBadge(res.Rule.Severity), res.Rule.ID, res.Rule.Message)
		if res.Detail != "" {
			fmt.Fprintf(&b, "        %s\n", SubtleStyle.Render(res.Detail))
		}
	}

	for _, res := range report.Unevaluable {
		fmt.Fprintf(&b, "%s %s: %s\n",
			SubtleStyle.Render("[SKIP]"), res.Rule.ID,
			SubtleStyle.Render(skipReason(res)))
	}

	b.WriteString(renderSummary(report))
	return b.String()
}

func skipReason(res rules.Result) string {
	detail := res.Detail
	if detail == "" {
		detail = string(res.Reason)
	}
	return "not evaluated (" + detail + ")"
}

func renderSummary(report rules.Report) string {
	counts := report.CountBySeverity()
	line := fmt.Sprintf("%d rules checked: %d satisfied, %d errors, %d warnings, %d skipped",
		report.Total(), len(report.Satisfied),
		counts[model.SeverityError], counts[model.SeverityWarn],
		len(report.Unevaluable))

	switch {
	case report.HasErrors():
		return FormatError(line)
	case len(report.Violations) > 0:
		return FormatWarning(line)
	default:
		return FormatSuccess(line)
	}
}

// ComponentLine renders a compact one-line component summary for listings.
func ComponentLine(c *model.Component) string {
	name := c.DisplayName()
	if name == "" {
		name = c.ID
	}
	line := fmt.Sprintf("%-14s %-12s %s", c.ID, c.Category, name)
	if c.Quality.NeedsReview {
		line += "  " + WarningStyle.Render("needs review")
	}
	if c.Status == model.StatusDiscontinued {
		line += "  " + SubtleStyle.Render("discontinued")
	}
	return line
}
