package asr

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

// envAnnotation matches environmental annotations some models emit, like
// "(keyboard clicking)", "[laughter]", "[BLANK_AUDIO]".
var envAnnotation = regexp.MustCompile(`[\(\[][a-zA-Z_][a-zA-Z_\s]*[\)\]]`)

// timestampPrefix matches leading segment timestamps like
// "[00:00:00.000 --> 00:00:05.000]".
var timestampPrefix = regexp.MustCompile(`^\[[0-9:.>\s-]+\]\s*`)

// hallucinations are full-line outputs whisper-family models produce on
// silence or noise. A transcript matching one of these (exactly or within
// hallucinationSimilarity by Jaro-Winkler) is discarded entirely.
var hallucinations = []string{
	"...",
	"you",
	"thank you.",
	"thanks for watching!",
	"thank you for watching.",
	"bye.",
	"bye!",
	"the end.",
}

// hallucinationSimilarity is the Jaro-Winkler score at or above which a
// transcript counts as a known hallucination.
const hallucinationSimilarity = 0.9

// Clean normalises a raw transcription for downstream intent processing:
// annotations and timestamps are stripped, whitespace is collapsed, and
// known model hallucinations are discarded. Returns "" when nothing usable
// remains.
func Clean(text string) string {
	s := strings.ReplaceAll(text, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")

	s = timestampPrefix.ReplaceAllString(strings.TrimSpace(s), "")
	s = envAnnotation.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")

	if s == "" || isHallucination(s) {
		return ""
	}
	return s
}

// isHallucination reports whether s is (nearly) one of the known junk lines.
// Near-misses matter because models vary the punctuation and casing of their
// hallucinated stock phrases.
func isHallucination(s string) bool {
	lower := strings.ToLower(s)
	for _, h := range hallucinations {
		if lower == h {
			return true
		}
		if matchr.JaroWinkler(lower, h, false) >= hallucinationSimilarity {
			return true
		}
	}
	return false
}
