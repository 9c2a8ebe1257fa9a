package echo

import (
	"regexp"
	"strings"
)

// placeholderRe matches {entity} placeholders inside intent patterns.
var placeholderRe = regexp.MustCompile(`\{(\w+)\}`)

// fuzzyMetaRe matches regex metacharacters stripped when deriving a
// pattern's plain surface form for fuzzy matching.
var fuzzyMetaRe = regexp.MustCompile(`[()?*+\[\]{}|\\.^]`)

// nonCapturingGroupRe matches leftover non-capturing groups.
var nonCapturingGroupRe = regexp.MustCompile(`\(\?:.*?\)`)

// spaceRunRe collapses whitespace runs.
var spaceRunRe = regexp.MustCompile(`\s+`)

// keptPunctuation is the punctuation NormalizeText preserves.
const keptPunctuation = "'-."

// NormalizeText lowercases text, collapses whitespace runs, and strips
// punctuation except apostrophe, hyphen, and period.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(text)
	text = spaceRunRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if isStrippedPunct(r) {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// isStrippedPunct reports whether r is ASCII punctuation that normalisation
// removes.
func isStrippedPunct(r rune) bool {
	if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == ' ' {
		return false
	}
	if strings.ContainsRune(keptPunctuation, r) {
		return false
	}
	// The ASCII punctuation blocks.
	switch {
	case r >= '!' && r <= '/', r >= ':' && r <= '@', r >= '[' && r <= '`', r >= '{' && r <= '~':
		return true
	}
	return false
}

// ExtractPlaceholders returns the entity names referenced by {name}
// placeholders in pattern, in order of appearance.
func ExtractPlaceholders(pattern string) []string {
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(pattern, -1) {
		names = append(names, m[1])
	}
	return names
}

// CleanPatternForFuzzy strips entity placeholders and regex syntax from an
// intent pattern, leaving the plain surface words for similarity scoring.
func CleanPatternForFuzzy(pattern string) string {
	cleaned := placeholderRe.ReplaceAllString(pattern, "")
	cleaned = fuzzyMetaRe.ReplaceAllString(cleaned, "")
	cleaned = nonCapturingGroupRe.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(spaceRunRe.ReplaceAllString(cleaned, " "))
}

// PatternComplexity scores a pattern's specificity: one point per regex
// metacharacter plus two per entity placeholder. Higher scores are tried
// first during extraction.
func PatternComplexity(pattern string) int {
	complexity := 0
	for _, c := range pattern {
		if strings.ContainsRune(`[](){}^$.|*+?\`, c) {
			complexity++
		}
	}
	complexity += len(placeholderRe.FindAllString(pattern, -1)) * 2
	return complexity
}
