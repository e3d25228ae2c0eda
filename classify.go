package main

import "strings"

// LayerTag identifies the architectural layer an artifact belongs to.
type LayerTag string

const (
	LayerUnknown      LayerTag = "unknown"
	Layer1Pure        LayerTag = "layer1"
	Layer2Contract    LayerTag = "layer2"
	Layer3Stateful    LayerTag = "layer3"
	Layer4Composition LayerTag = "layer4"
)

// parseLayerName maps a catalog layer name (or common alias) to a tag.
func parseLayerName(name string) (LayerTag, bool) {
	switch strings.ToLower(name) {
	case "layer1", "layer1_pure", "genetic", "pure":
		return Layer1Pure, true
	case "layer2", "layer2_contract", "membrane", "contract", "dto":
		return Layer2Contract, true
	case "layer3", "layer3_stateful", "nervous", "stateful":
		return Layer3Stateful, true
	case "layer4", "layer4_composition", "conscious", "orchestration", "composition":
		return Layer4Composition, true
	}
	return LayerUnknown, false
}

type layerMarkers struct {
	tag             LayerTag
	identifierMarks []string
	contentMarks    []string
}

// markerOrder is the classification precedence table. An identifier could
// contain more than one layer's marker, so markers are checked in this fixed
// order and the first match wins. The precedence is deliberately an explicit
// table rather than hidden control flow.
var markerOrder = []layerMarkers{
	{Layer1Pure, []string{"_genetic.", "_pure.", "/layer1/"}, []string{"namespace genetic", "namespace pure"}},
	{Layer2Contract, []string{"_membrane.", "_dto.", "/layer2/"}, []string{"namespace membrane", "namespace dto"}},
	{Layer3Stateful, []string{"_nervous.", "_stateful.", "/layer3/"}, []string{"namespace nervous", "namespace stateful"}},
	{Layer4Composition, []string{"_conscious.", "_orchestration.", "/layer4/"}, []string{"namespace conscious", "namespace orchestration"}},
}

// Classify maps an artifact to a layer tag. It checks the identifier for
// marker substrings in markerOrder; if none match it falls back to namespace
// declarations in the content, same precedence. Artifacts matching neither
// are tagged LayerUnknown and skipped by per-layer evaluation, though they
// remain visible to cross-layer reference scanning.
func Classify(a Artifact) LayerTag {
	identifier := strings.ToLower(strings.ReplaceAll(a.Identifier, "\\", "/"))
	for _, lm := range markerOrder {
		for _, mark := range lm.identifierMarks {
			if strings.Contains(identifier, mark) {
				return lm.tag
			}
		}
	}
	for _, lm := range markerOrder {
		for _, mark := range lm.contentMarks {
			if strings.Contains(a.Content, mark) {
				return lm.tag
			}
		}
	}
	return LayerUnknown
}
