// Package mock provides a test double for the tts.Synthesizer interface.
package mock

import (
	"context"
	"sync"

	"github.com/xhyrom/jim/pkg/provider/tts"
)

// Synthesizer is a mock tts.Synthesizer that emits scripted PCM chunks and
// records the texts it was asked to render.
type Synthesizer struct {
	mu sync.Mutex

	// Chunks is emitted on the returned channel for every Synthesize call.
	Chunks [][]int16

	// Err, if non-nil, is returned instead of starting a stream.
	Err error

	// Texts records every synthesised text in order.
	Texts []string
}

// Synthesize implements tts.Synthesizer.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (<-chan []int16, error) {
	s.mu.Lock()
	if s.Err != nil {
		err := s.Err
		s.mu.Unlock()
		return nil, err
	}
	s.Texts = append(s.Texts, text)
	chunks := s.Chunks
	s.mu.Unlock()

	out := make(chan []int16, len(chunks))
	go func() {
		defer close(out)
		for _, c := range chunks {
			select {
			case out <- c:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// TextCount returns the number of successful Synthesize calls.
func (s *Synthesizer) TextCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Texts)
}

var _ tts.Synthesizer = (*Synthesizer)(nil)
