package config_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/xhyrom/jim/internal/config"
)

const validTOML = `
debug = true
intents_dir = "data/intents"

[server]
host = "0.0.0.0"
port = 8080

[weather]
implementation = "mock"
units = "imperial"

[geocoding]
user_agent = "jim-test"

[llm]
enabled = true
provider = "mock"
fallback_threshold = 0.7
contexts = ["You run in a test suite."]

[llm.models.mock]
max_tokens = 64
`

func TestLoadFromReader(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadFromReader(strings.NewReader(validTOML))
	if err != nil {
		t.Fatalf("LoadFromReader: unexpected error: %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 8080 {
		t.Errorf("server: unexpected %+v", cfg.Server)
	}
	if cfg.Weather.Implementation != "mock" || cfg.Weather.Units != "imperial" {
		t.Errorf("weather: unexpected %+v", cfg.Weather)
	}
	if cfg.LLM.FallbackThreshold != 0.7 {
		t.Errorf("fallback threshold: expected 0.7, got %v", cfg.LLM.FallbackThreshold)
	}
	if cfg.LLM.Models["mock"].MaxTokens != 64 {
		t.Errorf("mock model: unexpected %+v", cfg.LLM.Models["mock"])
	}
	if !cfg.Debug {
		t.Error("expected debug to be set")
	}

	// Unset fields keep their defaults.
	if cfg.Geocoding.Implementation != "nominatim" {
		t.Errorf("geocoding implementation: expected default, got %q", cfg.Geocoding.Implementation)
	}
}

func TestLoadFromReader_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "syntax error", input: "[server\nhost=1"},
		{name: "bad units", input: "[weather]\nunits = \"kelvin\""},
		{name: "bad provider", input: "[llm]\nenabled = true\nprovider = \"skynet\""},
		{name: "threshold out of range", input: "[llm]\nenabled = true\nprovider = \"mock\"\nfallback_threshold = 1.5"},
		{name: "bad port", input: "[server]\nport = -1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := config.LoadFromReader(strings.NewReader(tc.input)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg := config.Load("does/not/exist.toml")
	def := config.Default()
	if cfg.Server != def.Server {
		t.Errorf("expected default server config, got %+v", cfg.Server)
	}
	if cfg.LLM.Provider != def.LLM.Provider {
		t.Errorf("expected default provider, got %q", cfg.LLM.Provider)
	}
}

func TestConfig_RoundTrip(t *testing.T) {
	t.Parallel()

	original, err := config.LoadFromReader(strings.NewReader(validTOML))
	if err != nil {
		t.Fatalf("LoadFromReader: unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(original); err != nil {
		t.Fatalf("encode: unexpected error: %v", err)
	}

	decoded, err := config.LoadFromReader(&buf)
	if err != nil {
		t.Fatalf("re-decode: unexpected error: %v", err)
	}

	if decoded.Server != original.Server {
		t.Errorf("server diverged: %+v vs %+v", decoded.Server, original.Server)
	}
	if decoded.Weather != original.Weather {
		t.Errorf("weather diverged: %+v vs %+v", decoded.Weather, original.Weather)
	}
	if decoded.LLM.FallbackThreshold != original.LLM.FallbackThreshold ||
		decoded.LLM.Provider != original.LLM.Provider ||
		decoded.LLM.Enabled != original.LLM.Enabled {
		t.Errorf("llm diverged: %+v vs %+v", decoded.LLM, original.LLM)
	}
	if len(decoded.LLM.Contexts) != len(original.LLM.Contexts) {
		t.Errorf("contexts diverged: %v vs %v", decoded.LLM.Contexts, original.LLM.Contexts)
	}
	if decoded.IntentsDir != original.IntentsDir || decoded.Debug != original.Debug {
		t.Errorf("top-level fields diverged")
	}
}
