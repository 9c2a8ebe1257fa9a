// Package anyllm provides a universal LLM provider backed by
// github.com/mozilla-ai/any-llm-go, covering Ollama, Gemini, Anthropic, and
// the other backends the core can be configured with through a single
// implementation.
package anyllm

import (
	"context"
	"fmt"
	"strings"

	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"github.com/mozilla-ai/any-llm-go/providers/anthropic"
	"github.com/mozilla-ai/any-llm-go/providers/gemini"
	"github.com/mozilla-ai/any-llm-go/providers/ollama"
	anyllmoai "github.com/mozilla-ai/any-llm-go/providers/openai"

	"github.com/xhyrom/jim/pkg/provider/llm"
)

// Provider implements llm.Provider by wrapping any-llm-go.
type Provider struct {
	backend anyllmlib.Provider
	name    string
	model   string
}

// New creates a Provider backed by the named any-llm-go backend.
//
// providerName is one of "ollama", "gemini", "anthropic", "openai". opts are
// any-llm-go options such as anyllmlib.WithAPIKey and anyllmlib.WithBaseURL;
// without an API key option, the backend falls back to its environment
// variable (GEMINI_API_KEY, ANTHROPIC_API_KEY, …).
func New(providerName, model string, opts ...anyllmlib.Option) (*Provider, error) {
	if model == "" {
		return nil, fmt.Errorf("anyllm: model must not be empty")
	}

	var (
		backend anyllmlib.Provider
		err     error
	)
	switch strings.ToLower(providerName) {
	case "ollama":
		backend, err = ollama.New(opts...)
	case "gemini":
		backend, err = gemini.New(opts...)
	case "anthropic":
		backend, err = anthropic.New(opts...)
	case "openai":
		backend, err = anyllmoai.New(opts...)
	default:
		return nil, fmt.Errorf("anyllm: unsupported provider %q; supported: ollama, gemini, anthropic, openai", providerName)
	}
	if err != nil {
		return nil, fmt.Errorf("anyllm: create %q backend: %w", providerName, err)
	}

	return &Provider{backend: backend, name: strings.ToLower(providerName), model: model}, nil
}

// Complete implements llm.Provider.
func (p *Provider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	params := p.buildParams(req)

	resp, err := p.backend.Completion(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anyllm: completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("anyllm: empty choices in response")
	}

	choice := resp.Choices[0]
	return &llm.CompletionResponse{
		Content:      choice.Message.ContentString(),
		Model:        p.model,
		Provider:     p.name,
		FinishReason: choice.FinishReason,
	}, nil
}

func (p *Provider) buildParams(req llm.CompletionRequest) anyllmlib.CompletionParams {
	var messages []anyllmlib.Message

	if req.SystemPrompt != "" {
		messages = append(messages, anyllmlib.Message{
			Role:    anyllmlib.RoleSystem,
			Content: req.SystemPrompt,
		})
	}
	for _, m := range req.Messages {
		role := anyllmlib.RoleUser
		switch m.Role {
		case "system":
			role = anyllmlib.RoleSystem
		case "assistant":
			role = anyllmlib.RoleAssistant
		}
		messages = append(messages, anyllmlib.Message{Role: role, Content: m.Content})
	}

	params := anyllmlib.CompletionParams{
		Model:    p.model,
		Messages: messages,
	}
	if req.Temperature != 0 {
		t := req.Temperature
		params.Temperature = &t
	}
	if req.MaxTokens > 0 {
		mt := req.MaxTokens
		params.MaxTokens = &mt
	}
	return params
}

var _ llm.Provider = (*Provider)(nil)
