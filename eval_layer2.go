package main

import "regexp"

// Layer 2 (immutable contract/configuration) checks. Contract objects are
// frozen at construction: every field is const-qualified and string
// configuration is converted to symbolic form, not carried around as bare
// literals.

var (
	// A scalar/string field declaration with no const qualifier. Lines
	// beginning with const/constexpr never reach the pattern because it
	// anchors on the type keyword.
	mutableFieldRe = regexp.MustCompile(`(?m)^\s*(?:(?:un)?signed\s+)?(?:int|bool|double|float|long|short|char|string|datetime|color)\s+\w+\s*(?:=[^;\n]*)?;`)

	stringAssignRe = regexp.MustCompile(`\b\w+\s*=\s*"[^"\n]*"`)

	// Evidence of a symbolic/enum conversion somewhere in the artifact.
	symbolicConversionRe = regexp.MustCompile(`\benum\b|\bStringTo\w+|\w+FromString\b|\bParseEnum\b|\bToEnum\b`)
)

func newLayer2Evaluator() LayerEvaluator {
	return &layerEvaluator{
		layer: Layer2Contract,
		checks: map[string]checkFunc{
			"const_fields":    checkConstFields,
			"symbolic_config": checkSymbolicConfig,
		},
	}
}

func checkConstFields(a Artifact) []finding {
	return matchLines(mutableFieldRe, a.Content, "non-immutable contract field %q")
}

func checkSymbolicConfig(a Artifact) []finding {
	if symbolicConversionRe.MatchString(a.Content) {
		return nil
	}
	return matchLines(stringAssignRe, a.Content, "bare string literal assignment %q with no symbolic conversion in artifact")
}
