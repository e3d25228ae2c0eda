package main

import (
	"fmt"
	"io"
)

// RunReport is the aggregate outcome of one compliance run. Violations are
// grouped by severity with first-seen order preserved inside each group;
// the full insertion-order sequence is kept for text rendering.
type RunReport struct {
	TotalViolations int         `json:"total_violations"`
	ErrorCount      int         `json:"error_count"`
	WarningCount    int         `json:"warning_count"`
	Pass            bool        `json:"pass"`
	Errors          []Violation `json:"errors,omitempty"`
	Warnings        []Violation `json:"warnings,omitempty"`

	violations []Violation
}

// Aggregate builds a RunReport from the collected violations. The input
// order is preserved; aggregation never reorders or drops entries.
func Aggregate(violations []Violation) *RunReport {
	report := &RunReport{violations: violations}
	for _, v := range violations {
		switch v.Severity {
		case SeverityError:
			report.Errors = append(report.Errors, v)
		default:
			report.Warnings = append(report.Warnings, v)
		}
	}
	report.TotalViolations = len(violations)
	report.ErrorCount = len(report.Errors)
	report.WarningCount = len(report.Warnings)
	report.Pass = report.ErrorCount == 0
	return report
}

// Violations returns every violation in insertion order.
func (r *RunReport) Violations() []Violation { return r.violations }

// ExitCode is 0 when no error-severity violation exists. Warnings alone
// never fail a run.
func (r *RunReport) ExitCode() int {
	if r.Pass {
		return 0
	}
	return 1
}

// Render writes the textual report: one line per violation in insertion
// order, then a final pass/fail summary line.
func (r *RunReport) Render(w io.Writer) {
	for _, v := range r.violations {
		location := v.Artifact
		if v.Line > 0 {
			location = fmt.Sprintf("%s:%d", v.Artifact, v.Line)
		}
		fmt.Fprintf(w, "%s_VIOLATION: %s in %s\n", v.RuleID, v.Message, location)
	}
	status := "PASS"
	if !r.Pass {
		status = "FAIL"
	}
	fmt.Fprintf(w, "%s: %d error(s), %d warning(s)\n", status, r.ErrorCount, r.WarningCount)
}
