// Package piper implements tts.Synthesizer by driving the piper binary as a
// subprocess with --output-raw: text goes in on stdin, raw 22 050 Hz int16
// PCM streams out on stdout and is forwarded in chunks as it arrives.
package piper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/xhyrom/jim/pkg/audio"
	"github.com/xhyrom/jim/pkg/provider/tts"
)

// readBytes is the stdout read size per chunk (2048 samples of int16).
const readBytes = audio.ChunkSamples * 2

// Synthesizer runs piper once per Synthesize call. Safe for concurrent use;
// each call owns its own subprocess.
type Synthesizer struct {
	binary    string
	modelPath string
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithBinary overrides the piper executable path. Defaults to "piper" on
// PATH.
func WithBinary(path string) Option {
	return func(s *Synthesizer) { s.binary = path }
}

// New creates a Synthesizer for the given voice model. The binary is looked
// up eagerly so a missing install fails at startup rather than mid-utterance.
func New(modelPath string, opts ...Option) (*Synthesizer, error) {
	if modelPath == "" {
		return nil, fmt.Errorf("piper: modelPath must not be empty")
	}
	s := &Synthesizer{binary: "piper", modelPath: modelPath}
	for _, o := range opts {
		o(s)
	}
	if _, err := exec.LookPath(s.binary); err != nil {
		return nil, fmt.Errorf("piper: binary %q not found: %w", s.binary, err)
	}
	return s, nil
}

// Synthesize implements tts.Synthesizer.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (<-chan []int16, error) {
	cmd := exec.CommandContext(ctx, s.binary,
		"--model", s.modelPath,
		"--output-raw",
	)
	cmd.Stdin = strings.NewReader(text)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("piper: open stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("piper: start: %w", err)
	}

	out := make(chan []int16, 4)
	go func() {
		defer close(out)
		defer func() {
			if err := cmd.Wait(); err != nil && ctx.Err() == nil {
				slog.Error("piper synthesis failed", "err", err)
			}
		}()

		buf := make([]byte, readBytes)
		for {
			n, err := io.ReadAtLeast(stdout, buf, 2)
			if n > 1 {
				chunk := audio.BytesToInt16(buf[:n])
				select {
				case out <- chunk:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()
	return out, nil
}

var _ tts.Synthesizer = (*Synthesizer)(nil)
