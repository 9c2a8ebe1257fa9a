// Package llm defines the Provider interface for Large Language Model
// backends used by the core's fallback path.
//
// A provider wraps a remote or local model API (e.g. OpenAI, Ollama, Gemini)
// behind a uniform completion interface so the fallback arbiter never couples
// to a specific SDK.
//
// Implementations must be safe for concurrent use and must propagate context
// cancellation promptly.
package llm

import "context"

// Message is one entry of a conversation, in provider-neutral form.
type Message struct {
	// Role is "system", "user", or "assistant".
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`
}

// CompletionRequest carries everything a provider needs to produce a
// response. Messages must be non-empty.
type CompletionRequest struct {
	// Messages is the ordered conversation, ending with the user turn that
	// drives the response.
	Messages []Message

	// SystemPrompt is an optional high-priority instruction. Providers
	// without a dedicated system slot prepend it as a "system" message.
	SystemPrompt string

	// MaxTokens caps the completion length. Zero means provider default.
	MaxTokens int

	// Temperature controls output randomness in [0.0, 2.0].
	Temperature float64
}

// CompletionResponse is a provider's full reply.
type CompletionResponse struct {
	// Content is the assistant's text.
	Content string

	// Model is the backend model that produced the reply.
	Model string

	// Provider is the backend name ("openai", "ollama", "mock", …).
	Provider string

	// FinishReason indicates why generation stopped ("stop", "length", …).
	FinishReason string
}

// Provider is the abstraction over any LLM backend.
type Provider interface {
	// Complete sends req and waits for the full response. Returns an error
	// if the request fails or ctx is cancelled first.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}
