package main

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Severity classifies how a rule failure affects a run. Only error-severity
// violations fail the run.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ErrMalformedCatalog is returned when a rule catalog is missing required
// fields or contradicts itself (duplicate ids, unknown layers or checks).
var ErrMalformedCatalog = errors.New("malformed rule catalog")

// layerList accepts either a YAML sequence of layer names or the bare
// scalar "all".
type layerList []string

func (l *layerList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*l = layerList{s}
	case yaml.SequenceNode:
		var ss []string
		if err := value.Decode(&ss); err != nil {
			return err
		}
		*l = layerList(ss)
	default:
		return fmt.Errorf("layers must be a list of layer names or \"all\"")
	}
	return nil
}

// Rule is a single immutable compliance check definition. Exactly how a rule
// is evaluated depends on which of Check and Pattern is set: Check names a
// built-in heuristic, Pattern is a regular expression matched against
// artifact content. A rule with neither is inert grouping metadata.
type Rule struct {
	ID          string    `yaml:"id" json:"id"`
	Description string    `yaml:"description" json:"description"`
	Severity    Severity  `yaml:"severity" json:"severity"`
	Layers      layerList `yaml:"layers" json:"layers"`
	Check       string    `yaml:"check,omitempty" json:"check,omitempty"`
	Pattern     string    `yaml:"pattern,omitempty" json:"pattern,omitempty"`

	tags []LayerTag
	re   *regexp.Regexp
}

// AppliesTo reports whether the rule applies to artifacts of the given layer.
func (r *Rule) AppliesTo(tag LayerTag) bool {
	for _, t := range r.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// LayerGroup is the informative biological_layers grouping from the catalog
// source. It is parsed and exposed but not evaluated directly.
type LayerGroup struct {
	Name    string   `yaml:"name" json:"name"`
	Enforce []string `yaml:"enforce" json:"enforce"`
}

// Catalog is the validated, immutable set of rules for a run. It is loaded
// once and shared read-only by every evaluator; nothing mutates it after
// LoadCatalog returns.
type Catalog struct {
	Layers []LayerGroup `yaml:"biological_layers" json:"biological_layers"`
	Rules  []Rule       `yaml:"rules" json:"rules"`
}

//go:embed rules.yaml
var defaultRulesYAML []byte

// DefaultCatalog returns the catalog embedded in the binary.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(defaultRulesYAML)
}

// LoadCatalogFile reads and validates a rule catalog from a YAML file.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule catalog: %w", err)
	}
	return LoadCatalog(data)
}

// LoadCatalog parses and validates a rule catalog from YAML source. Rules
// are returned in definition order. The returned catalog is immutable.
func LoadCatalog(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCatalog, err)
	}

	seen := make(map[string]bool, len(catalog.Rules))
	for i := range catalog.Rules {
		rule := &catalog.Rules[i]

		if rule.ID == "" {
			return nil, fmt.Errorf("%w: rule %d is missing an id", ErrMalformedCatalog, i)
		}
		if seen[rule.ID] {
			return nil, fmt.Errorf("%w: duplicate rule id %q", ErrMalformedCatalog, rule.ID)
		}
		seen[rule.ID] = true

		switch rule.Severity {
		case SeverityError, SeverityWarning:
		case "":
			return nil, fmt.Errorf("%w: rule %q is missing a severity", ErrMalformedCatalog, rule.ID)
		default:
			return nil, fmt.Errorf("%w: rule %q has unknown severity %q", ErrMalformedCatalog, rule.ID, rule.Severity)
		}

		if len(rule.Layers) == 0 {
			return nil, fmt.Errorf("%w: rule %q has no applicable layers", ErrMalformedCatalog, rule.ID)
		}
		tags, err := resolveLayers(rule.Layers)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %q: %v", ErrMalformedCatalog, rule.ID, err)
		}
		rule.tags = tags

		if rule.Check != "" {
			layer, ok := builtinChecks[rule.Check]
			if !ok {
				return nil, fmt.Errorf("%w: rule %q names unknown check %q", ErrMalformedCatalog, rule.ID, rule.Check)
			}
			if !rule.AppliesTo(layer) {
				return nil, fmt.Errorf("%w: rule %q binds check %q but does not apply to its layer %s",
					ErrMalformedCatalog, rule.ID, rule.Check, layer)
			}
		}

		if rule.Pattern != "" {
			re, err := regexp.Compile(rule.Pattern)
			if err != nil {
				return nil, fmt.Errorf("%w: rule %q has invalid pattern: %v", ErrMalformedCatalog, rule.ID, err)
			}
			rule.re = re
		}
	}

	return &catalog, nil
}

// resolveLayers canonicalizes catalog layer names into tags. "all" expands
// to the four concrete layers.
func resolveLayers(names []string) ([]LayerTag, error) {
	var tags []LayerTag
	for _, name := range names {
		if name == "all" {
			return []LayerTag{Layer1Pure, Layer2Contract, Layer3Stateful, Layer4Composition}, nil
		}
		tag, ok := parseLayerName(name)
		if !ok {
			return nil, fmt.Errorf("unknown layer %q", name)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// RulesFor returns the rules a layer evaluator should run for artifacts of
// the given layer. Cross-layer rules are excluded; they are the cross-layer
// evaluator's to run.
func (c *Catalog) RulesFor(tag LayerTag) []Rule {
	var rules []Rule
	for _, rule := range c.Rules {
		if crossCheckNames[rule.Check] {
			continue
		}
		if rule.AppliesTo(tag) {
			rules = append(rules, rule)
		}
	}
	return rules
}

// CrossRules returns the rules evaluated over the whole artifact set.
func (c *Catalog) CrossRules() []Rule {
	var rules []Rule
	for _, rule := range c.Rules {
		if crossCheckNames[rule.Check] {
			rules = append(rules, rule)
		}
	}
	return rules
}
