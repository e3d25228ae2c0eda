package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rulesFor loads the default catalog and returns the per-layer rules for
// tag. Shared helper for the evaluator tests.
func rulesFor(t *testing.T, tag LayerTag) []Rule {
	t.Helper()
	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	return catalog.RulesFor(tag)
}

// violationsByRule groups violations by rule id.
func violationsByRule(violations []Violation) map[string][]Violation {
	grouped := make(map[string][]Violation)
	for _, v := range violations {
		grouped[v.RuleID] = append(grouped[v.RuleID], v)
	}
	return grouped
}

func TestLineOf(t *testing.T) {
	content := "first\nsecond\nthird\n"
	assert.Equal(t, 1, lineOf(content, 0))
	assert.Equal(t, 2, lineOf(content, 6))
	assert.Equal(t, 3, lineOf(content, 13))
	assert.Equal(t, 4, lineOf(content, 1000)) // clamped to end
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcde...", truncate("abcdefgh", 5))
}

func TestLayerEvaluatorSkipsUnknownCheck(t *testing.T) {
	// A rule whose check belongs to another layer's evaluator is ignored,
	// not an error.
	evaluator := &layerEvaluator{layer: Layer1Pure, checks: map[string]checkFunc{}}
	rule := Rule{ID: "X", Severity: SeverityError, Check: "atomic_state"}
	got := evaluator.Evaluate(Artifact{Identifier: "a_genetic.cpp", Content: "int counter;"}, []Rule{rule})
	assert.Empty(t, got)
}
