package satellite

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/xhyrom/jim/internal/led"
)

// Backend type enums for the pluggable stages.
const (
	ASRWhisper = "whisper"
	ASRGoogle  = "google"
	ASRVosk    = "vosk"
	ASRMock    = "mock"

	TTSPiper = "piper"
	TTSMock  = "mock"

	LEDAuto     = "auto"
	LEDAPA102   = "apa102"
	LEDNeoPixel = "neopixel"
	LEDMock     = "mock"
)

// Config is the satellite's JSON configuration.
type Config struct {
	ASR  ASRConfig  `json:"asr"`
	TTS  TTSConfig  `json:"tts"`
	Wake WakeConfig `json:"wake"`
	Core CoreConfig `json:"core"`
	LED  LEDConfig  `json:"led"`
}

// ASRConfig selects and configures the speech recogniser.
type ASRConfig struct {
	// Type is one of whisper, google, vosk, mock.
	Type string `json:"type"`

	// ModelPath locates the model file (whisper) or server URL (vosk).
	ModelPath string `json:"model_path,omitempty"`

	// APIKey authenticates cloud recognisers (google).
	APIKey string `json:"api_key,omitempty"`
}

// TTSConfig selects and configures the speech synthesiser.
type TTSConfig struct {
	// Type is one of piper, mock.
	Type string `json:"type"`

	// ModelPath locates the voice model.
	ModelPath string `json:"model_path"`
}

// WakeConfig configures wake-word detection.
type WakeConfig struct {
	// ModelPaths are the keyword model files; one wake phrase each.
	ModelPaths []string `json:"model_paths"`

	// Threshold is the detection score threshold. Default 0.5.
	Threshold float64 `json:"threshold"`

	// MelspecModel, EmbeddingModel, and OnnxLib locate the shared pipeline
	// pieces.
	MelspecModel   string `json:"melspec_model,omitempty"`
	EmbeddingModel string `json:"embedding_model,omitempty"`
	OnnxLib        string `json:"onnx_lib,omitempty"`
}

// CoreConfig locates the core service.
type CoreConfig struct {
	URL    string `json:"url"`
	APIKey string `json:"api_key,omitempty"`
}

// LEDSchedule is the lantern's active-hours window.
type LEDSchedule struct {
	Enabled   bool `json:"enabled"`
	StartHour int  `json:"start_hour"`
	EndHour   int  `json:"end_hour"`
}

// LEDConfig configures the lantern.
type LEDConfig struct {
	// DriverType is one of auto, apa102, neopixel, mock.
	DriverType string `json:"driver_type"`

	NumLEDs    int `json:"num_leds"`
	Brightness int `json:"brightness"`

	// BaseColor accepts either [r, g, b] or "#RRGGBB".
	BaseColor ColorValue  `json:"base_color"`
	Schedule  LEDSchedule `json:"schedule"`
}

// ColorValue decodes a colour from either a JSON array or a hex string.
type ColorValue struct {
	led.Color
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *ColorValue) UnmarshalJSON(data []byte) error {
	var triple [3]uint8
	if err := json.Unmarshal(data, &triple); err == nil {
		c.Color = led.Color{R: triple[0], G: triple[1], B: triple[2]}
		return nil
	}

	var hex string
	if err := json.Unmarshal(data, &hex); err != nil {
		return fmt.Errorf("satellite: base_color must be [r,g,b] or \"#RRGGBB\"")
	}
	parsed, err := led.ParseColor(hex)
	if err != nil {
		return err
	}
	c.Color = parsed
	return nil
}

// MarshalJSON implements json.Marshaler, emitting the array form.
func (c ColorValue) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]uint8{c.R, c.G, c.B})
}

// DefaultConfig returns the configuration used when no file (or a broken
// file) is present.
func DefaultConfig() *Config {
	return &Config{
		ASR:  ASRConfig{Type: ASRWhisper, ModelPath: "base"},
		TTS:  TTSConfig{Type: TTSPiper, ModelPath: "models/piper/en_GB-cori-high.onnx"},
		Wake: WakeConfig{Threshold: 0.5},
		Core: CoreConfig{URL: "http://localhost:31415"},
		LED: LEDConfig{
			DriverType: LEDAuto,
			NumLEDs:    3,
			Brightness: 10,
			BaseColor:  ColorValue{led.Color{R: 255, G: 80, B: 0}},
			Schedule:   LEDSchedule{Enabled: true, StartHour: 7, EndHour: 22},
		},
	}
}

// LoadConfig reads the JSON file at path. A missing or unparsable file logs
// the cause and returns the defaults.
func LoadConfig(path string) *Config {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("satellite config unavailable, using defaults", "path", path, "err", err)
		return DefaultConfig()
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		slog.Error("satellite config invalid, using defaults", "path", path, "err", err)
		return DefaultConfig()
	}
	if cfg.Wake.Threshold <= 0 {
		cfg.Wake.Threshold = 0.5
	}
	return cfg
}
