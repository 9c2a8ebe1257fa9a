package llm

import (
	"regexp"
	"strings"
)

// maxVoiceLength is the cap on spoken replies; longer text is cut at the
// last sentence boundary that fits.
const maxVoiceLength = 300

var (
	boldRe       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe     = regexp.MustCompile(`\*(.*?)\*`)
	codeSpanRe   = regexp.MustCompile("`(.*?)`")
	codeBlockRe  = regexp.MustCompile("(?s)```.*?```")
	linkRe       = regexp.MustCompile(`\[(.*?)\]\(.*?\)`)
	footnoteRe   = regexp.MustCompile(`\[\d+\]`)
	markdownRe   = regexp.MustCompile(`[#>~]`)
	multiNewline = regexp.MustCompile(`\n{2,}`)
	multiSpace   = regexp.MustCompile(`\s{2,}`)
	sentenceEnd  = regexp.MustCompile(`(?m)([.!?])\s+`)
)

// CleanForVoice rewrites an LLM reply for speech output: markdown and links
// are stripped, whitespace is flattened, and overlong replies are truncated
// at a sentence boundary. The function is idempotent.
func CleanForVoice(text string) string {
	text = codeBlockRe.ReplaceAllString(text, "")
	text = boldRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")
	text = codeSpanRe.ReplaceAllString(text, "$1")

	text = linkRe.ReplaceAllString(text, "$1")
	text = footnoteRe.ReplaceAllString(text, "")
	text = markdownRe.ReplaceAllString(text, "")

	text = multiNewline.ReplaceAllString(text, "\n")
	text = strings.ReplaceAll(text, "\n", " ")
	text = multiSpace.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	if len(text) > maxVoiceLength {
		text = truncateAtSentence(text, maxVoiceLength)
	}
	return text
}

// truncateAtSentence keeps whole sentences while they fit within limit.
// A first sentence that alone exceeds the limit yields an empty string.
func truncateAtSentence(text string, limit int) string {
	var out strings.Builder
	for _, s := range splitSentences(text) {
		if out.Len()+len(s) > limit {
			break
		}
		out.WriteString(s)
		out.WriteByte(' ')
	}
	return strings.TrimSpace(out.String())
}

// splitSentences splits on sentence-ending punctuation followed by
// whitespace, keeping the punctuation with its sentence.
func splitSentences(text string) []string {
	marked := sentenceEnd.ReplaceAllString(text, "$1\x00")
	parts := strings.Split(marked, "\x00")
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
