package main

import "regexp"

// Layer 4 (orchestration/composition) checks. Composition objects own their
// stateful components exclusively, by value, and are built through a static
// factory so validation cannot be skipped at construction.

var (
	// A shared-ownership handle to a stateful-layer type. Stateful type
	// names are recognized lexically by their layer 3 naming stems.
	sharedOwnershipRe = regexp.MustCompile(`\b(?:std::)?shared_ptr\s*<\s*\w*(?:[Nn]ervous|[Ss]tateful|[Ll]ayer3)\w*\s*>`)

	// A recognizable static factory/creation method.
	factoryMethodRe = regexp.MustCompile(`\bstatic\s+[^\n(;{]*\b(?:Create|Make|Build|New|GetInstance)\w*\s*\(`)
)

func newLayer4Evaluator() LayerEvaluator {
	return &layerEvaluator{
		layer: Layer4Composition,
		checks: map[string]checkFunc{
			"exclusive_ownership": checkExclusiveOwnership,
			"factory_method":      checkFactoryMethod,
		},
	}
}

func checkExclusiveOwnership(a Artifact) []finding {
	return matchLines(sharedOwnershipRe, a.Content, "shared ownership handle %q to a stateful component; composition must own by value")
}

func checkFactoryMethod(a Artifact) []finding {
	if factoryMethodRe.MatchString(a.Content) {
		return nil
	}
	return []finding{{detail: "no recognizable static factory method"}}
}
