// Package google implements asr.Transcriber using the Google Cloud
// Speech-to-Text REST API (speech:recognize) with API-key authentication.
package google

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xhyrom/jim/pkg/audio"
	"github.com/xhyrom/jim/pkg/provider/asr"
)

const defaultBaseURL = "https://speech.googleapis.com/v1"

// Transcriber is a Google Speech-to-Text-backed asr.Transcriber. Safe for
// concurrent use; all requests share one HTTP client.
type Transcriber struct {
	apiKey   string
	baseURL  string
	language string
	client   *http.Client
}

// Option configures a Transcriber.
type Option func(*Transcriber)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(url string) Option {
	return func(t *Transcriber) { t.baseURL = strings.TrimSuffix(url, "/") }
}

// WithLanguage sets the BCP-47 recognition language. Defaults to "en-US".
func WithLanguage(lang string) Option {
	return func(t *Transcriber) { t.language = lang }
}

// New creates a Transcriber using the given API key.
func New(apiKey string, opts ...Option) (*Transcriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google: apiKey must not be empty")
	}
	t := &Transcriber{
		apiKey:   apiKey,
		baseURL:  defaultBaseURL,
		language: "en-US",
		client:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(t)
	}
	return t, nil
}

type recognizeRequest struct {
	Config recognizeConfig `json:"config"`
	Audio  recognizeAudio  `json:"audio"`
}

type recognizeConfig struct {
	Encoding        string `json:"encoding"`
	SampleRateHertz int    `json:"sampleRateHertz"`
	LanguageCode    string `json:"languageCode"`
}

type recognizeAudio struct {
	Content string `json:"content"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"results"`
}

// Transcribe implements asr.Transcriber.
func (t *Transcriber) Transcribe(ctx context.Context, pcm []int16) (string, error) {
	payload := recognizeRequest{
		Config: recognizeConfig{
			Encoding:        "LINEAR16",
			SampleRateHertz: asr.SampleRate,
			LanguageCode:    t.language,
		},
		Audio: recognizeAudio{
			Content: base64.StdEncoding.EncodeToString(audio.Int16ToBytes(pcm)),
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("google: encode request: %w", err)
	}

	url := fmt.Sprintf("%s/speech:recognize?key=%s", t.baseURL, t.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("google: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("google: recognize request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("google: recognize returned %d: %s", resp.StatusCode, msg)
	}

	var out recognizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("google: decode response: %w", err)
	}

	var parts []string
	for _, r := range out.Results {
		if len(r.Alternatives) > 0 {
			parts = append(parts, r.Alternatives[0].Transcript)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " ")), nil
}

var _ asr.Transcriber = (*Transcriber)(nil)
