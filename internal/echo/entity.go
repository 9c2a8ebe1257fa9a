package echo

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Value is the normalised form of an extracted entity, keyed by
// type-specific fields ("date", "type", "relative", …).
type Value map[string]any

// processFunc normalises a raw captured string into a Value.
type processFunc func(raw string) Value

// standardProcessors maps entity type tags to their normalisers. Types
// without an entry keep the raw string under "value".
var standardProcessors = map[string]processFunc{
	"date":              processDate,
	"time":              processTime,
	"duration":          processDuration,
	"location":          processLocation,
	"number":            processNumber,
	"weather_condition": processWeatherCondition,
	"temperature":       processTemperature,
	"precipitation":     processPrecipitation,
	"wind":              processWind,
}

// EntityDefinition is the YAML shape of one entity under entities/*.yaml.
type EntityDefinition struct {
	// Type selects the normaliser; defaults to the entity name.
	Type string `yaml:"type"`

	// Description documents the entity for pattern authors.
	Description string `yaml:"description"`

	// Examples are sample surface forms, kept for tooling.
	Examples []string `yaml:"examples"`

	// Patterns are regexes, each containing a named capture group matching
	// the entity name.
	Patterns []string `yaml:"patterns"`
}

// Entity is a compiled entity: its patterns ordered by descending
// specificity, plus the normaliser for its type. Immutable after
// construction.
type Entity struct {
	Name        string
	Type        string
	Description string
	Examples    []string

	patterns []compiledPattern
	process  processFunc
}

type compiledPattern struct {
	re          *regexp.Regexp
	specificity int
}

// Match is one extracted occurrence of an entity in a text.
type Match struct {
	// Entity is the entity name.
	Entity string

	// Value is the normalised value.
	Value Value

	// RawValue is the captured surface text.
	RawValue string

	// Start and End are the byte offsets of the capture in the source text.
	Start int
	End   int

	// Specificity is the matched pattern's complexity score.
	Specificity int
}

// NewEntity compiles an entity definition. Every pattern must contain a
// named capture group matching the entity name; offending patterns are
// rejected.
func NewEntity(name string, def EntityDefinition) (*Entity, error) {
	typ := def.Type
	if typ == "" {
		typ = name
	}

	e := &Entity{
		Name:        name,
		Type:        typ,
		Description: def.Description,
		Examples:    def.Examples,
		process:     standardProcessors[typ],
	}
	if e.process == nil {
		e.process = func(raw string) Value { return Value{"value": raw} }
	}

	group := fmt.Sprintf("(?P<%s>", name)
	for _, p := range def.Patterns {
		if !strings.Contains(p, group) {
			return nil, fmt.Errorf("echo: entity %q pattern %q has no (?P<%s>...) capture group", name, p, name)
		}
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("echo: entity %q pattern %q: %w", name, p, err)
		}
		e.patterns = append(e.patterns, compiledPattern{
			re:          re,
			specificity: PatternComplexity(p),
		})
	}

	// Most specific patterns first; ties keep authored order.
	sort.SliceStable(e.patterns, func(i, j int) bool {
		return e.patterns[i].specificity > e.patterns[j].specificity
	})

	return e, nil
}

// Extract runs all of the entity's patterns against text (the original,
// un-normalised input) and returns every named-group match.
func (e *Entity) Extract(text string) []Match {
	var results []Match
	for _, cp := range e.patterns {
		groupIdx := cp.re.SubexpIndex(e.Name)
		if groupIdx < 0 {
			continue
		}
		for _, loc := range cp.re.FindAllStringSubmatchIndex(text, -1) {
			start, end := loc[2*groupIdx], loc[2*groupIdx+1]
			if start < 0 {
				continue
			}
			raw := text[start:end]
			results = append(results, Match{
				Entity:      e.Name,
				Value:       e.process(raw),
				RawValue:    raw,
				Start:       start,
				End:         end,
				Specificity: cp.specificity,
			})
		}
	}
	return results
}
