package main

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Cross-layer relationship checks. These inspect the whole artifact set at
// once: whether a stateful component delegates to the pure layer, and
// whether composition aliases stateful components instead of owning them.
//
// Both checks are best-effort textual heuristics. A marker substring inside
// a comment counts as a reference; there is no semantic resolution.

var (
	// Textual evidence of a reference into the pure layer.
	layer1RefRe = regexp.MustCompile(`_genetic\b|\bgenetic::|\bpure::|/layer1/|\blayer1\b`)

	// An aliasing (reference or pointer) handle to a stateful-layer type,
	// recognized by its naming stem.
	statefulAliasRe = regexp.MustCompile(`\w*(?:[Nn]ervous|[Ss]tateful|[Ll]ayer3)\w*\s*[&*]\s*\w+`)
)

type crossLayerEvaluator struct{}

func newCrossLayerEvaluator() *crossLayerEvaluator {
	return &crossLayerEvaluator{}
}

// Evaluate walks artifacts in input order, so its output order is as
// deterministic as the input list.
func (e *crossLayerEvaluator) Evaluate(artifacts []Artifact, rules []Rule) []Violation {
	var (
		layer1Stems []string
		layer3Stems []string
	)
	for _, a := range artifacts {
		switch a.Layer {
		case Layer1Pure:
			layer1Stems = append(layer1Stems, artifactStem(a.Identifier))
		case Layer3Stateful:
			layer3Stems = append(layer3Stems, artifactStem(a.Identifier))
		}
	}

	var out []Violation
	for _, rule := range rules {
		switch rule.Check {
		case "requires_layer1":
			out = append(out, e.checkRequiresLayer1(artifacts, layer1Stems, rule)...)
		case "owns_by_value":
			out = append(out, e.checkOwnsByValue(artifacts, layer3Stems, rule)...)
		}
	}
	return out
}

// checkRequiresLayer1 flags stateful artifacts containing no textual
// reference to any pure-layer marker or pure-layer artifact in the run.
func (e *crossLayerEvaluator) checkRequiresLayer1(artifacts []Artifact, layer1Stems []string, rule Rule) []Violation {
	var out []Violation
	for _, a := range artifacts {
		if a.Layer != Layer3Stateful {
			continue
		}
		if layer1RefRe.MatchString(a.Content) || containsAnyStem(a.Content, layer1Stems) {
			continue
		}
		out = append(out, Violation{
			RuleID:   rule.ID,
			Artifact: a.Identifier,
			Message:  "no reference to any pure-layer component; pure computation is not delegated to layer 1",
			Severity: rule.Severity,
		})
	}
	return out
}

// checkOwnsByValue flags composition artifacts holding aliasing handles
// (references, pointers, shared_ptr) to stateful-layer types.
func (e *crossLayerEvaluator) checkOwnsByValue(artifacts []Artifact, layer3Stems []string, rule Rule) []Violation {
	stemAliasRes := make([]*regexp.Regexp, 0, len(layer3Stems))
	for _, stem := range layer3Stems {
		stemAliasRes = append(stemAliasRes, regexp.MustCompile(`\b`+regexp.QuoteMeta(stem)+`\w*\s*[&*]\s*\w+`))
	}

	var out []Violation
	for _, a := range artifacts {
		if a.Layer != Layer4Composition {
			continue
		}
		seen := make(map[int]bool)
		emit := func(loc []int) {
			line := lineOf(a.Content, loc[0])
			if seen[line] {
				return
			}
			seen[line] = true
			matched := strings.TrimSpace(a.Content[loc[0]:loc[1]])
			out = append(out, Violation{
				RuleID:   rule.ID,
				Artifact: a.Identifier,
				Message:  fmt.Sprintf("aliasing handle %q to a stateful component; layer 3 must be owned by value", truncate(matched, 80)),
				Severity: rule.Severity,
				Line:     line,
			})
		}
		for _, loc := range statefulAliasRe.FindAllStringIndex(a.Content, -1) {
			emit(loc)
		}
		for _, re := range stemAliasRes {
			for _, loc := range re.FindAllStringIndex(a.Content, -1) {
				emit(loc)
			}
		}
	}
	return out
}

// artifactStem strips directory and extension from an identifier:
// "src/foo_nervous.cpp" -> "foo_nervous".
func artifactStem(identifier string) string {
	base := path.Base(strings.ReplaceAll(identifier, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}

func containsAnyStem(content string, stems []string) bool {
	for _, stem := range stems {
		if stem != "" && strings.Contains(content, stem) {
			return true
		}
	}
	return false
}
