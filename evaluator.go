package main

import (
	"fmt"
	"regexp"
	"strings"
)

// Violation records a single artifact failing a single rule. Severity is
// copied from the triggering rule at creation time and never mutated.
type Violation struct {
	RuleID   string   `json:"rule_id"`
	Artifact string   `json:"artifact"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Line     int      `json:"line,omitempty"`
}

// evalErrorRuleID tags the synthetic violation emitted when an evaluator
// fails for one artifact. The run continues for the remaining artifacts.
const evalErrorRuleID = "EVAL_ERROR"

// LayerEvaluator runs the checks for one architectural layer against a
// single artifact. Implementations must be stateless: evaluators for
// different artifacts run concurrently. The built-in evaluators are lexical
// pattern matchers; an AST-based implementation can be substituted without
// touching the classifier, catalog, or aggregator.
type LayerEvaluator interface {
	Layer() LayerTag
	Evaluate(a Artifact, rules []Rule) []Violation
}

// finding is a single match produced by a built-in check: the detail text
// and the 1-based line it was found on (0 when the finding is about the
// whole artifact, e.g. a missing factory method).
type finding struct {
	line   int
	detail string
}

type checkFunc func(a Artifact) []finding

// builtinChecks maps every built-in check name to the layer it belongs to.
// Catalog validation rejects rules naming checks not listed here.
var builtinChecks = map[string]LayerTag{
	"no_mutable_static":   Layer1Pure,
	"no_side_effects":     Layer1Pure,
	"const_fields":        Layer2Contract,
	"symbolic_config":     Layer2Contract,
	"atomic_state":        Layer3Stateful,
	"no_shared_state":     Layer3Stateful,
	"exclusive_ownership": Layer4Composition,
	"factory_method":      Layer4Composition,
	"requires_layer1":     Layer3Stateful,
	"owns_by_value":       Layer4Composition,
}

// crossCheckNames marks the checks evaluated over the whole artifact set
// rather than per artifact.
var crossCheckNames = map[string]bool{
	"requires_layer1": true,
	"owns_by_value":   true,
}

// layerEvaluator is the shared pattern-based implementation behind the four
// per-layer evaluators. Each instance carries its layer's check functions.
type layerEvaluator struct {
	layer  LayerTag
	checks map[string]checkFunc
}

func (e *layerEvaluator) Layer() LayerTag { return e.layer }

func (e *layerEvaluator) Evaluate(a Artifact, rules []Rule) []Violation {
	var out []Violation
	for _, rule := range rules {
		switch {
		case rule.re != nil:
			for _, m := range patternFindings(rule.re, a.Content) {
				out = append(out, newViolation(rule, a, m))
			}
		case rule.Check != "":
			fn, ok := e.checks[rule.Check]
			if !ok {
				continue
			}
			for _, m := range fn(a) {
				out = append(out, newViolation(rule, a, m))
			}
		}
	}
	return out
}

func newViolation(rule Rule, a Artifact, m finding) Violation {
	return Violation{
		RuleID:   rule.ID,
		Artifact: a.Identifier,
		Message:  m.detail,
		Severity: rule.Severity,
		Line:     m.line,
	}
}

// patternFindings evaluates a catalog pattern rule against artifact content.
func patternFindings(re *regexp.Regexp, content string) []finding {
	return matchLines(re, content, "pattern matched %q")
}

// matchLines runs re over content and yields one finding per match, with
// the matched text formatted into the given message.
func matchLines(re *regexp.Regexp, content, format string) []finding {
	var out []finding
	for _, loc := range re.FindAllStringIndex(content, -1) {
		matched := strings.TrimSpace(content[loc[0]:loc[1]])
		out = append(out, finding{
			line:   lineOf(content, loc[0]),
			detail: fmt.Sprintf(format, truncate(matched, 80)),
		})
	}
	return out
}

// lineOf converts a byte offset into a 1-based line number.
func lineOf(content string, offset int) int {
	if offset > len(content) {
		offset = len(content)
	}
	return 1 + strings.Count(content[:offset], "\n")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
