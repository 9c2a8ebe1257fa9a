package llm

import (
	"fmt"
	"strings"
	"time"
)

// defaultSystemPrompt is the built-in assistant instruction. It injects the
// clock context so time and date questions that fell through to the LLM can
// still be answered.
const defaultSystemPrompt = `You are a helpful voice assistant. Your name is Jim.
Your responses should be concise, helpful, and conversational.

CONTEXT INFORMATION:
- Intent detection system recognized %q with confidence %.2f, which was too low to be reliable
- This is a fallback response, helping the user when standard intent recognition is uncertain
- Current date: %s
- Current time: %s
- Day of week: %s
- Month: %s
- Year: %d
- Timestamp: %s

INSTRUCTIONS:
- Respond to the user's query directly, providing a helpful, concise answer
- If the user is asking about time, date, or anything related to the current moment, use the current context information provided above
- Keep responses short and focused (under 300 characters when possible)
- Provide factual information when you know it, and admit when you don't know something
- Do not make up information or claim capabilities you don't have
- Format responses to work well in a voice conversation (avoid markdown, links, or special formatting)`

// systemPrompt builds the system message: the configured override when set,
// otherwise the default prompt with clock and detection context, plus any
// extra configured context lines.
func systemPrompt(override string, contexts []string, intent string, confidence float64, now time.Time) string {
	prompt := override
	if prompt == "" {
		prompt = fmt.Sprintf(defaultSystemPrompt,
			intent,
			confidence,
			now.Format("Monday, January 2, 2006"),
			now.Format("15:04"),
			now.Format("Monday"),
			now.Format("January"),
			now.Year(),
			now.Format(time.RFC3339),
		)
	}
	if len(contexts) > 0 {
		prompt += "\n" + strings.Join(contexts, "\n")
	}
	return prompt
}

// userPrompt wraps the original query with the low-confidence explanation.
func userPrompt(query, intent string, confidence float64) string {
	return fmt.Sprintf(`The user said: %q

Our intent recognition system detected the intent %q with a confidence of %.2f, which is too low to be reliable.

Please respond to the user's query directly, providing a helpful, concise answer that would work well in a voice conversation. If appropriate, try to identify what the user might be asking for.

Keep your response brief and suitable for voice output.`, query, intent, confidence)
}
