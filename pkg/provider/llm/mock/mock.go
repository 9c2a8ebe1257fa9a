// Package mock provides an llm.Provider test double with canned,
// deterministic responses. It also backs the "mock" provider name in
// production configuration so the core can run without any LLM credentials.
package mock

import (
	"context"
	"sync"

	"github.com/xhyrom/jim/pkg/provider/llm"
)

// defaultResponses are cycled through by successive Complete calls.
var defaultResponses = []string{
	"I'll help you with that.",
	"I'm not sure I understand, could you rephrase?",
	"Here's what I found for you.",
	"That's an interesting question.",
	"I don't have specific information on that topic.",
}

// Provider is a canned llm.Provider. The zero value is ready to use.
// Safe for concurrent use.
type Provider struct {
	mu sync.Mutex

	// Responses overrides the default canned lines when non-empty.
	Responses []string

	// Err, if non-nil, is returned by every Complete call.
	Err error

	// Requests records every CompletionRequest received.
	Requests []llm.CompletionRequest

	next int
}

// Complete implements llm.Provider. Replies rotate through the canned lines
// and append the user's query so tests can assert the prompt reached the
// provider.
func (p *Provider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.Requests = append(p.Requests, req)
	if p.Err != nil {
		return nil, p.Err
	}

	responses := p.Responses
	if len(responses) == 0 {
		responses = defaultResponses
	}
	content := responses[p.next%len(responses)]
	p.next++

	if user := lastUserMessage(req.Messages); user != "" {
		content += " Regarding '" + user + "'..."
	}

	return &llm.CompletionResponse{
		Content:      content,
		Model:        "mock-model",
		Provider:     "mock",
		FinishReason: "stop",
	}, nil
}

// RequestCount returns the number of Complete calls so far.
func (p *Provider) RequestCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Requests)
}

func lastUserMessage(messages []llm.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content
		}
	}
	return ""
}

var _ llm.Provider = (*Provider)(nil)
