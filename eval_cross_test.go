package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// classifyAll mirrors the engine's classification pass for cross tests.
func classifyAll(artifacts []Artifact) []Artifact {
	tagged := make([]Artifact, len(artifacts))
	for i, a := range artifacts {
		a.Layer = Classify(a)
		tagged[i] = a
	}
	return tagged
}

func crossRules(t *testing.T) []Rule {
	t.Helper()
	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	return catalog.CrossRules()
}

func TestCrossRequiresLayer1(t *testing.T) {
	evaluator := newCrossLayerEvaluator()

	t.Run("stateful artifact without pure reference is flagged", func(t *testing.T) {
		artifacts := classifyAll([]Artifact{
			{Identifier: "math_genetic.cpp", Content: "double Mean(const double &v[]);"},
			{Identifier: "baz_nervous.cpp", Content: "std::atomic<int> counter;\nvoid Tick() { counter++; }\n"},
		})
		violations := violationsByRule(evaluator.Evaluate(artifacts, crossRules(t)))["R09_l3_requires_l1"]
		require.Len(t, violations, 1)
		assert.Equal(t, "baz_nervous.cpp", violations[0].Artifact)
		assert.Equal(t, SeverityWarning, violations[0].Severity)
	})

	t.Run("namespace reference satisfies the check", func(t *testing.T) {
		artifacts := classifyAll([]Artifact{
			{Identifier: "baz_nervous.cpp", Content: "double avg = genetic::Mean(window, 20);\n"},
		})
		got := violationsByRule(evaluator.Evaluate(artifacts, crossRules(t)))
		assert.Empty(t, got["R09_l3_requires_l1"])
	})

	t.Run("reference to a pure artifact stem satisfies the check", func(t *testing.T) {
		artifacts := classifyAll([]Artifact{
			{Identifier: "src/layer1/fastmath.cpp", Content: "double Mean(const double &v[]);"},
			{Identifier: "baz_nervous.cpp", Content: "#include \"fastmath.h\"\nstd::atomic<int> n;\n"},
		})
		got := violationsByRule(evaluator.Evaluate(artifacts, crossRules(t)))
		assert.Empty(t, got["R09_l3_requires_l1"])
	})

	t.Run("non-stateful artifacts are ignored", func(t *testing.T) {
		artifacts := classifyAll([]Artifact{
			{Identifier: "util.cpp", Content: "int x;"},
			{Identifier: "bar_membrane.cpp", Content: "const int x = 5;"},
		})
		got := violationsByRule(evaluator.Evaluate(artifacts, crossRules(t)))
		assert.Empty(t, got["R09_l3_requires_l1"])
	})
}

func TestCrossOwnsByValue(t *testing.T) {
	evaluator := newCrossLayerEvaluator()

	t.Run("reference handle to stateful type is flagged", func(t *testing.T) {
		artifacts := classifyAll([]Artifact{
			{Identifier: "brain_conscious.cpp", Content: "void Wire(EngineNervous &nerves);\n"},
		})
		violations := violationsByRule(evaluator.Evaluate(artifacts, crossRules(t)))["R10_l4_owns_l3_by_value"]
		require.Len(t, violations, 1)
		assert.Equal(t, "brain_conscious.cpp", violations[0].Artifact)
		assert.Equal(t, 1, violations[0].Line)
	})

	t.Run("pointer to stateful artifact stem is flagged", func(t *testing.T) {
		artifacts := classifyAll([]Artifact{
			{Identifier: "core_nervous.cpp", Content: "std::atomic<int> n; // uses genetic::Mean\n"},
			{Identifier: "brain_conscious.cpp", Content: "core_nervous* engine = nullptr;\n"},
		})
		got := violationsByRule(evaluator.Evaluate(artifacts, crossRules(t)))["R10_l4_owns_l3_by_value"]
		require.Len(t, got, 1)
	})

	t.Run("ownership by value is fine", func(t *testing.T) {
		artifacts := classifyAll([]Artifact{
			{Identifier: "brain_conscious.cpp", Content: "EngineNervous nerves;\n"},
		})
		got := violationsByRule(evaluator.Evaluate(artifacts, crossRules(t)))
		assert.Empty(t, got["R10_l4_owns_l3_by_value"])
	})
}

func TestArtifactStem(t *testing.T) {
	assert.Equal(t, "foo_nervous", artifactStem("src/foo_nervous.cpp"))
	assert.Equal(t, "foo_nervous", artifactStem(`src\foo_nervous.cpp`))
	assert.Equal(t, "bare", artifactStem("bare"))
}
