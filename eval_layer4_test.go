package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayer4ExclusiveOwnership(t *testing.T) {
	evaluator := newLayer4Evaluator()
	rules := rulesFor(t, Layer4Composition)

	t.Run("shared_ptr to stateful type is flagged", func(t *testing.T) {
		artifact := Artifact{
			Identifier: "brain_conscious.cpp",
			Content:    "std::shared_ptr<EngineNervous> nerves;\nstatic Brain Create();\n",
			Layer:      Layer4Composition,
		}
		violations := violationsByRule(evaluator.Evaluate(artifact, rules))["R07_exclusive_ownership"]
		require.Len(t, violations, 1)
		assert.Equal(t, SeverityError, violations[0].Severity)
		assert.Equal(t, 1, violations[0].Line)
	})

	t.Run("by-value member is fine", func(t *testing.T) {
		artifact := Artifact{
			Identifier: "brain_conscious.cpp",
			Content:    "EngineNervous nerves;\nstatic Brain Create();\n",
			Layer:      Layer4Composition,
		}
		got := violationsByRule(evaluator.Evaluate(artifact, rules))
		assert.Empty(t, got["R07_exclusive_ownership"])
	})
}

func TestLayer4FactoryMethod(t *testing.T) {
	evaluator := newLayer4Evaluator()
	rules := rulesFor(t, Layer4Composition)

	t.Run("missing factory is flagged once", func(t *testing.T) {
		artifact := Artifact{
			Identifier: "brain_conscious.cpp",
			Content:    "class Brain {\npublic:\n  Brain();\n};\n",
			Layer:      Layer4Composition,
		}
		violations := violationsByRule(evaluator.Evaluate(artifact, rules))["R08_factory_method"]
		require.Len(t, violations, 1)
		assert.Equal(t, SeverityWarning, violations[0].Severity)
		assert.Zero(t, violations[0].Line)
	})

	tests := []struct {
		name    string
		content string
	}{
		{"Create", "static Brain Create(const BrainConfig &cfg);\n"},
		{"Make", "static Brain MakeDefault();\n"},
		{"GetInstance", "static Brain GetInstance();\n"},
	}
	for _, tt := range tests {
		t.Run("factory "+tt.name+" satisfies the check", func(t *testing.T) {
			artifact := Artifact{Identifier: "brain_conscious.cpp", Content: tt.content, Layer: Layer4Composition}
			got := violationsByRule(evaluator.Evaluate(artifact, rules))
			assert.Empty(t, got["R08_factory_method"])
		})
	}
}
