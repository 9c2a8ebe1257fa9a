package llm

import (
	"fmt"

	anyllmlib "github.com/mozilla-ai/any-llm-go"

	"github.com/xhyrom/jim/internal/config"
	"github.com/xhyrom/jim/pkg/provider/llm"
	"github.com/xhyrom/jim/pkg/provider/llm/anyllm"
	"github.com/xhyrom/jim/pkg/provider/llm/mock"
	"github.com/xhyrom/jim/pkg/provider/llm/openai"
)

// NewProvider constructs the named LLM provider from its model
// configuration. Providers are built once at startup and shared; there is no
// global registry.
func NewProvider(name string, models map[string]config.ModelConfig) (llm.Provider, error) {
	mc := models[name]

	switch name {
	case "mock":
		return &mock.Provider{}, nil

	case "openai":
		var opts []openai.Option
		if mc.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(mc.BaseURL))
		}
		return openai.New(mc.APIKey, mc.Model, opts...)

	case "ollama", "gemini", "anthropic":
		var opts []anyllmlib.Option
		if mc.APIKey != "" {
			opts = append(opts, anyllmlib.WithAPIKey(mc.APIKey))
		}
		if mc.BaseURL != "" {
			opts = append(opts, anyllmlib.WithBaseURL(mc.BaseURL))
		}
		return anyllm.New(name, mc.Model, opts...)

	default:
		return nil, fmt.Errorf("llm: unknown provider %q", name)
	}
}
