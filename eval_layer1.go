package main

import (
	"fmt"
	"regexp"
	"strings"
)

// Layer 1 (pure computation) checks. Pure-layer components hold no state
// and touch nothing outside their arguments, so any static storage or
// observable side effect is a violation.

var (
	// A static declaration terminated on the same line. The '(' exclusion
	// keeps function prototypes out.
	staticDeclRe = regexp.MustCompile(`(?m)^[^\n]*\bstatic\b[^\n;(]*;`)

	constQualRe = regexp.MustCompile(`\b(?:const|constexpr)\b`)

	// Console output, file access, and raw heap array allocation. Covers
	// both C++ and MQL5 primitives.
	sideEffectRe = regexp.MustCompile(`\b(?:printf|fprintf|fputs|puts|fopen|freopen|FileOpen|FileWrite|FileReadString|Print|PrintFormat|Alert|Comment)\s*\(|\bcout\s*<<|\bcerr\s*<<|\bnew\s+\w+\s*\[`)
)

func newLayer1Evaluator() LayerEvaluator {
	return &layerEvaluator{
		layer: Layer1Pure,
		checks: map[string]checkFunc{
			"no_mutable_static": checkNoMutableStatic,
			"no_side_effects":   checkNoSideEffects,
		},
	}
}

func checkNoMutableStatic(a Artifact) []finding {
	var out []finding
	for _, loc := range staticDeclRe.FindAllStringIndex(a.Content, -1) {
		decl := strings.TrimSpace(a.Content[loc[0]:loc[1]])
		if constQualRe.MatchString(decl) {
			continue
		}
		out = append(out, finding{
			line:   lineOf(a.Content, loc[0]),
			detail: fmt.Sprintf("mutable static state %q", truncate(decl, 80)),
		})
	}
	return out
}

func checkNoSideEffects(a Artifact) []finding {
	return matchLines(sideEffectRe, a.Content, "observable side effect %q")
}
