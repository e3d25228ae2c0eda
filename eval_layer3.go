package main

import (
	"fmt"
	"regexp"
	"strings"
)

// Layer 3 (concurrent stateful) checks. Stateful components keep their
// mutable scalars atomic and strictly instance-local: static synchronized
// state would couple instances to each other, which the architecture
// forbids outright.

var (
	// A mutable scalar declaration, optionally static, with no atomic or
	// volatile wrapper on the same line.
	mutableScalarRe = regexp.MustCompile(`(?m)^\s*(?:static\s+)?(?:(?:un)?signed\s+)?(?:int|bool|long|short|uint|uchar|ulong|size_t)\s+\w+\s*(?:=[^;\n]*)?;`)

	syncQualRe = regexp.MustCompile(`\b(?:atomic|Atomic|volatile|mutex|Mutex)\b|\bconst\b`)

	// Static synchronized state shared across instances.
	sharedStateRe = regexp.MustCompile(`(?m)^[^\n]*\bstatic\b[^\n]*\b(?:atomic|Atomic|mutex|Mutex|volatile)\b[^\n]*$`)
)

func newLayer3Evaluator() LayerEvaluator {
	return &layerEvaluator{
		layer: Layer3Stateful,
		checks: map[string]checkFunc{
			"atomic_state":    checkAtomicState,
			"no_shared_state": checkNoSharedState,
		},
	}
}

func checkAtomicState(a Artifact) []finding {
	var out []finding
	for _, loc := range mutableScalarRe.FindAllStringIndex(a.Content, -1) {
		decl := strings.TrimSpace(a.Content[loc[0]:loc[1]])
		if syncQualRe.MatchString(decl) {
			continue
		}
		out = append(out, finding{
			line:   lineOf(a.Content, loc[0]),
			detail: fmt.Sprintf("unsynchronized mutable state %q", truncate(decl, 80)),
		})
	}
	return out
}

func checkNoSharedState(a Artifact) []finding {
	return matchLines(sharedStateRe, a.Content, "shared static synchronized state %q; stateful components must not share state")
}
