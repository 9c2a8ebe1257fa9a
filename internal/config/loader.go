package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/BurntSushi/toml"
)

// validWeatherImplementations and friends list the backend names the factory
// can construct; unknown names are validation errors.
var (
	validWeatherImplementations   = []string{"openweathermap", "mock"}
	validGeocodingImplementations = []string{"nominatim"}
	validLLMProviders             = []string{"openai", "ollama", "gemini", "anthropic", "mock"}
)

// Load reads the TOML file at path. A missing or unparsable file logs the
// cause and returns the defaults, so the core always starts.
func Load(path string) *Config {
	f, err := os.Open(path)
	if err != nil {
		slog.Error("config file unavailable, using defaults", "path", path, "err", err)
		return Default()
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		slog.Error("config file invalid, using defaults", "path", path, "err", err)
		return Default()
	}
	return cfg
}

// LoadFromReader decodes TOML from r over the defaults and validates the
// result. Useful in tests where configs are string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode toml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg is coherent, returning a joined error listing
// every failure found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d is out of range [1, 65535]", cfg.Server.Port))
	}

	if cfg.Weather.Implementation != "" && !slices.Contains(validWeatherImplementations, cfg.Weather.Implementation) {
		errs = append(errs, fmt.Errorf("weather.implementation %q is invalid; valid values: %v", cfg.Weather.Implementation, validWeatherImplementations))
	}
	if cfg.Weather.Units != "metric" && cfg.Weather.Units != "imperial" {
		errs = append(errs, fmt.Errorf("weather.units %q is invalid; valid values: metric, imperial", cfg.Weather.Units))
	}
	if cfg.Weather.Implementation == "openweathermap" && cfg.Weather.APIKey == "" {
		slog.Warn("weather.api_key is empty; weather queries will fall back to the mock service")
	}

	if cfg.Geocoding.Implementation != "" && !slices.Contains(validGeocodingImplementations, cfg.Geocoding.Implementation) {
		errs = append(errs, fmt.Errorf("geocoding.implementation %q is invalid; valid values: %v", cfg.Geocoding.Implementation, validGeocodingImplementations))
	}

	if cfg.LLM.Enabled {
		if !slices.Contains(validLLMProviders, cfg.LLM.Provider) {
			errs = append(errs, fmt.Errorf("llm.provider %q is invalid; valid values: %v", cfg.LLM.Provider, validLLMProviders))
		}
		if cfg.LLM.FallbackThreshold < 0 || cfg.LLM.FallbackThreshold > 1 {
			errs = append(errs, fmt.Errorf("llm.fallback_threshold %v is out of [0, 1]", cfg.LLM.FallbackThreshold))
		}
	}

	if cfg.IntentsDir == "" {
		errs = append(errs, errors.New("intents_dir must not be empty"))
	}

	return errors.Join(errs...)
}
