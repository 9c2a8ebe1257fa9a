// Package mock provides a test double for the asr.Transcriber interface.
package mock

import (
	"context"
	"sync"

	"github.com/xhyrom/jim/pkg/provider/asr"
)

// Call records a single Transcribe invocation.
type Call struct {
	// Samples is the number of PCM samples passed in.
	Samples int
}

// Transcriber is a mock asr.Transcriber. Text and Err configure the next
// result; Calls records every invocation.
type Transcriber struct {
	mu sync.Mutex

	// Text is returned by Transcribe.
	Text string

	// Err, if non-nil, is returned instead.
	Err error

	// Calls records every Transcribe invocation in order.
	Calls []Call
}

// Transcribe implements asr.Transcriber.
func (t *Transcriber) Transcribe(ctx context.Context, pcm []int16) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Calls = append(t.Calls, Call{Samples: len(pcm)})
	if t.Err != nil {
		return "", t.Err
	}
	return t.Text, nil
}

// CallCount returns the number of Transcribe invocations so far.
func (t *Transcriber) CallCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.Calls)
}

var _ asr.Transcriber = (*Transcriber)(nil)
