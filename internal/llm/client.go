// Package llm is the core's fallback arbiter: when intent confidence is too
// low it routes the query to a configured LLM provider, post-processes the
// reply for voice output, and maintains the per-user rolling conversation
// window.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/xhyrom/jim/internal/config"
	"github.com/xhyrom/jim/pkg/provider/llm"
)

// Request parameters fixed by the fallback contract.
const (
	fallbackMaxTokens   = 512
	fallbackTemperature = 0.7
)

// ErrDisabled is returned by Fallback when the LLM path is switched off.
var ErrDisabled = errors.New("llm: fallback disabled")

// Client arbitrates the LLM fallback. Safe for concurrent use; the provider
// instance is shared across requests.
type Client struct {
	provider     llm.Provider
	enabled      bool
	systemPrompt string
	contexts     []string
	history      *History

	// now is the clock source; overridable in tests.
	now func() time.Time
}

// New builds a Client from the LLM configuration using the provider
// factory. When the configured provider cannot be constructed, the client
// degrades to the mock provider with a logged error.
func New(cfg config.LLMConfig) *Client {
	provider, err := NewProvider(cfg.Provider, cfg.Models)
	if err != nil {
		slog.Error("llm provider unavailable, using mock", "provider", cfg.Provider, "err", err)
		provider, _ = NewProvider("mock", cfg.Models)
	}
	return &Client{
		provider:     provider,
		enabled:      cfg.Enabled,
		systemPrompt: cfg.SystemPrompt,
		contexts:     cfg.Contexts,
		history:      NewHistory(),
		now:          time.Now,
	}
}

// NewWithProvider builds a Client over an explicit provider, bypassing the
// factory. Used by tests and embedders.
func NewWithProvider(provider llm.Provider, cfg config.LLMConfig) *Client {
	return &Client{
		provider:     provider,
		enabled:      cfg.Enabled,
		systemPrompt: cfg.SystemPrompt,
		contexts:     cfg.Contexts,
		history:      NewHistory(),
		now:          time.Now,
	}
}

// History exposes the per-user conversation window.
func (c *Client) History() *History {
	return c.history
}

// Fallback answers query through the LLM. intent and confidence describe
// what the matcher found; they are surfaced to the model so it can judge the
// miss. The reply is voice-cleaned, and on success the exchange is appended
// to the user's history.
func (c *Client) Fallback(ctx context.Context, query, userID, intent string, confidence float64) (string, error) {
	if !c.enabled {
		return "", ErrDisabled
	}

	req := llm.CompletionRequest{
		SystemPrompt: systemPrompt(c.systemPrompt, c.contexts, intent, confidence, c.now()),
		Messages: []llm.Message{
			{Role: "user", Content: userPrompt(query, intent, confidence)},
		},
		MaxTokens:   fallbackMaxTokens,
		Temperature: fallbackTemperature,
	}

	resp, err := c.provider.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("llm: fallback completion: %w", err)
	}

	reply := CleanForVoice(resp.Content)
	slog.Debug("llm fallback answered",
		"provider", resp.Provider,
		"model", resp.Model,
		"user_id", userID,
		"reply_len", len(reply),
	)

	c.history.Append(userID, query, reply)
	return reply, nil
}
