// Package whisper implements asr.Transcriber using the whisper.cpp CGO
// bindings. The whisper.cpp static library (libwhisper.a) and headers must be
// available at link time via LIBRARY_PATH and C_INCLUDE_PATH.
//
// The model is loaded once at construction and shared; each Transcribe call
// creates its own whisper context, so concurrent calls do not interfere.
package whisper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/xhyrom/jim/pkg/provider/asr"
)

const defaultLanguage = "en"

// Transcriber is a whisper.cpp-backed asr.Transcriber.
type Transcriber struct {
	model    whisperlib.Model
	language string
}

// Option configures a Transcriber.
type Option func(*Transcriber)

// WithLanguage sets the recognition language code (e.g. "en", "de").
// Defaults to "en".
func WithLanguage(lang string) Option {
	return func(t *Transcriber) { t.language = lang }
}

// New loads the whisper model from modelPath. The caller must Close the
// Transcriber when done.
func New(modelPath string, opts ...Option) (*Transcriber, error) {
	if modelPath == "" {
		return nil, errors.New("whisper: modelPath must not be empty")
	}
	model, err := whisperlib.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("whisper: load model %q: %w", modelPath, err)
	}

	t := &Transcriber{model: model, language: defaultLanguage}
	for _, o := range opts {
		o(t)
	}
	return t, nil
}

// Transcribe implements asr.Transcriber.
func (t *Transcriber) Transcribe(ctx context.Context, pcm []int16) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("whisper: context cancelled: %w", err)
	}
	if len(pcm) == 0 {
		return "", nil
	}

	samples := make([]float32, len(pcm))
	for i, s := range pcm {
		samples[i] = float32(s) / 32768.0
	}

	wctx, err := t.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("whisper: create context: %w", err)
	}
	if err := wctx.SetLanguage(t.language); err != nil {
		return "", fmt.Errorf("whisper: set language %q: %w", t.language, err)
	}

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("whisper: process audio: %w", err)
	}

	var sb strings.Builder
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("whisper: read segment: %w", err)
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strings.TrimSpace(segment.Text))
	}
	return sb.String(), nil
}

// Close releases the whisper model.
func (t *Transcriber) Close() error {
	if t.model != nil {
		return t.model.Close()
	}
	return nil
}

var _ asr.Transcriber = (*Transcriber)(nil)
