// Package config provides the configuration schema and loader for the jim
// core service.
//
// Configuration is TOML. Every field has a default, and a malformed or
// missing file degrades to the defaults with a logged error rather than
// refusing to start.
package config

// Config is the root configuration for the core.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Weather   WeatherConfig   `toml:"weather"`
	Geocoding GeocodingConfig `toml:"geocoding"`
	LLM       LLMConfig       `toml:"llm"`

	// IntentsDir is the root of the YAML data tree (entities/, sentences/,
	// responses/).
	IntentsDir string `toml:"intents_dir"`

	// Debug enables verbose logging.
	Debug bool `toml:"debug"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// WeatherConfig selects and configures the weather data backend.
type WeatherConfig struct {
	// BaseURL is the weather API root.
	BaseURL string `toml:"base_url"`

	// APIKey authenticates against the backend. Empty disables the real
	// backend; the mock implementation needs none.
	APIKey string `toml:"api_key"`

	// Implementation selects the backend: "openweathermap" or "mock".
	Implementation string `toml:"implementation"`

	// Units is "metric" or "imperial".
	Units string `toml:"units"`
}

// GeocodingConfig selects and configures the place-name resolver.
type GeocodingConfig struct {
	// BaseURL is the geocoding API root.
	BaseURL string `toml:"base_url"`

	// UserAgent identifies this deployment to the geocoding service.
	UserAgent string `toml:"user_agent"`

	// Implementation selects the backend: "nominatim".
	Implementation string `toml:"implementation"`
}

// LLMConfig controls the low-confidence fallback path.
type LLMConfig struct {
	// Enabled turns the LLM fallback on.
	Enabled bool `toml:"enabled"`

	// Provider selects the backend by name: "openai", "ollama", "gemini",
	// "anthropic", or "mock".
	Provider string `toml:"provider"`

	// FallbackThreshold is the confidence below which (strictly) the
	// fallback runs. A confidence equal to the threshold does not trigger
	// it.
	FallbackThreshold float64 `toml:"fallback_threshold"`

	// SystemPrompt overrides the built-in system prompt when non-empty.
	SystemPrompt string `toml:"system_prompt"`

	// Contexts are extra strings merged into the system message.
	Contexts []string `toml:"contexts"`

	// Streaming is decoded and round-tripped, but no provider call reads it:
	// the fallback path always requests and consumes full replies.
	Streaming bool `toml:"streaming"`

	// Models holds per-provider settings keyed by provider name.
	Models map[string]ModelConfig `toml:"models"`
}

// ModelConfig is one provider's credentials and model selection.
type ModelConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`

	// MaxTokens is decoded and round-tripped, but no provider reads it: mock
	// replies are not capped, and every provider takes its limit from the
	// request.
	MaxTokens int `toml:"max_tokens"`
}

// Default returns the configuration used when no file (or a broken file) is
// present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 31415,
		},
		Weather: WeatherConfig{
			BaseURL:        "https://api.openweathermap.org/data/2.5/",
			Implementation: "openweathermap",
			Units:          "metric",
		},
		Geocoding: GeocodingConfig{
			BaseURL:        "https://nominatim.openstreetmap.org/",
			UserAgent:      "jim",
			Implementation: "nominatim",
		},
		LLM: LLMConfig{
			Enabled:           true,
			Provider:          "mock",
			FallbackThreshold: 0.6,
			Models: map[string]ModelConfig{
				"openai":    {Model: "gpt-4o-mini"},
				"anthropic": {Model: "claude-3-5-haiku-latest"},
				"gemini":    {Model: "gemini-2.0-flash"},
				"ollama":    {BaseURL: "http://localhost:11434", Model: "llama3"},
				"mock":      {MaxTokens: 50},
			},
		},
		IntentsDir: "intents",
	}
}
