package echo

import (
	"regexp"
	"sort"
	"strings"
)

// FallbackIntent is the sentinel intent returned when nothing matches above
// threshold.
const FallbackIntent = "fallback"

// exactConfidence is the confidence assigned to anchored regex matches.
const exactConfidence = 0.95

// DefaultFuzzyThreshold is the minimum sequence ratio the fuzzy pass
// accepts.
const DefaultFuzzyThreshold = 0.6

// MatchResult is the outcome of one matcher call. Confidence is in [0, 1]
// and is 0.0 exactly when Intent is FallbackIntent.
type MatchResult struct {
	// Intent is the matched intent name, or FallbackIntent.
	Intent string

	// Confidence is exactConfidence for regex hits and the sequence ratio
	// for fuzzy hits.
	Confidence float64

	// Pattern is the authored pattern that matched; empty for fallback.
	Pattern string
}

// Matcher resolves user text to an intent using two passes: anchored regex
// matching with extracted entity values substituted into {entity}
// placeholders, then fuzzy surface similarity over the cleaned patterns.
//
// Safe for concurrent use; the Matcher is read-only after construction.
type Matcher struct {
	registry *Registry

	// Threshold is the minimum fuzzy ratio accepted before falling back.
	Threshold float64
}

// NewMatcher creates a Matcher over the registry with the default fuzzy
// threshold.
func NewMatcher(registry *Registry) *Matcher {
	return &Matcher{registry: registry, Threshold: DefaultFuzzyThreshold}
}

// Match resolves text to an intent. entities carries pre-extracted matches
// keyed by entity name, used to substitute concrete values into {entity}
// placeholders; it may be nil.
func (m *Matcher) Match(text string, entities map[string][]Match) MatchResult {
	normalized := NormalizeText(text)

	// Pass 1: anchored regex. Registration order breaks ties, so the first
	// hit wins.
	for _, name := range m.registry.IntentNames() {
		def, _ := m.registry.Intent(name)
		for _, pattern := range def.Patterns {
			re, err := compileExpanded(pattern, entities)
			if err != nil {
				continue
			}
			if re.MatchString(normalized) {
				return MatchResult{Intent: name, Confidence: exactConfidence, Pattern: pattern}
			}
		}
	}

	// Pass 2: fuzzy similarity over the cleaned pattern surfaces.
	best := MatchResult{Intent: FallbackIntent}
	for _, name := range m.registry.IntentNames() {
		def, _ := m.registry.Intent(name)
		for _, pattern := range def.Patterns {
			surface := CleanPatternForFuzzy(pattern)
			if surface == "" {
				continue
			}
			if ratio := sequenceRatio(surface, normalized); ratio > best.Confidence {
				best = MatchResult{Intent: name, Confidence: ratio, Pattern: pattern}
			}
		}
	}

	if best.Confidence < m.Threshold {
		return MatchResult{Intent: FallbackIntent, Confidence: 0.0}
	}
	return best
}

// compileExpanded turns an authored pattern into an anchored,
// case-insensitive regex. {entity} placeholders become the literal extracted
// value when one is available, and a loose word/space wildcard otherwise.
func compileExpanded(pattern string, entities map[string][]Match) (*regexp.Regexp, error) {
	expanded := placeholderRe.ReplaceAllStringFunc(pattern, func(ph string) string {
		name := ph[1 : len(ph)-1]
		if matches := entities[name]; len(matches) > 0 {
			return regexp.QuoteMeta(matches[0].RawValue)
		}
		return `[\w\s]+`
	})
	return regexp.Compile(`(?i)^` + expanded + `$`)
}

// ExtractForPattern runs entity extraction for every {entity} placeholder in
// pattern against the original (un-normalised) text. The result maps entity
// names to their matches; entities with no hits are omitted.
func ExtractForPattern(registry *Registry, text, pattern string) map[string][]Match {
	names := ExtractPlaceholders(pattern)
	if len(names) == 0 {
		return nil
	}

	results := make(map[string][]Match)
	for _, name := range names {
		entity := registry.Entity(name)
		if entity == nil {
			continue
		}
		if extracted := entity.Extract(text); len(extracted) > 0 {
			results[name] = extracted
		}
	}
	if len(results) == 0 {
		return nil
	}
	return results
}

// RawValues joins every match's surface text, preserving extraction order.
// Used by idempotence checks and logging.
func RawValues(entities map[string][]Match) string {
	var parts []string
	for _, name := range sortedKeys(entities) {
		for _, m := range entities[name] {
			parts = append(parts, m.RawValue)
		}
	}
	return strings.Join(parts, " ")
}

func sortedKeys(entities map[string][]Match) []string {
	keys := make([]string, 0, len(entities))
	for k := range entities {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
