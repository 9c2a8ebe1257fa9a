// Package mock provides in-memory test doubles for the audio.CaptureStream
// and audio.PlaybackStream interfaces.
package mock

import (
	"errors"
	"sync"

	"github.com/xhyrom/jim/pkg/audio"
)

// Capture is a mock audio.CaptureStream that replays scripted frames.
// When the script is exhausted, ReadFrame returns ErrExhausted unless Repeat
// is set, in which case the last frame is returned forever.
type Capture struct {
	mu     sync.Mutex
	frames [][]int16
	pos    int

	// Repeat keeps returning the final frame after the script runs out.
	Repeat bool

	closed bool
}

// ErrExhausted is returned by Capture.ReadFrame when all scripted frames have
// been consumed and Repeat is false.
var ErrExhausted = errors.New("mock: no more frames")

// NewCapture creates a Capture that yields the given frames in order.
func NewCapture(frames ...[]int16) *Capture {
	return &Capture{frames: frames}
}

// ReadFrame implements audio.CaptureStream.
func (c *Capture) ReadFrame() ([]int16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, errors.New("mock: capture closed")
	}
	if c.pos >= len(c.frames) {
		if c.Repeat && len(c.frames) > 0 {
			return c.frames[len(c.frames)-1], nil
		}
		return nil, ErrExhausted
	}
	frame := c.frames[c.pos]
	c.pos++
	return frame, nil
}

// Close implements audio.CaptureStream.
func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Playback is a mock audio.PlaybackStream that records everything played.
type Playback struct {
	mu sync.Mutex

	// Played records each Play call's PCM in order.
	Played [][]int16

	// PlayErr, if non-nil, is returned by every Play call.
	PlayErr error
}

// Play implements audio.PlaybackStream.
func (p *Playback) Play(pcm []int16) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.PlayErr != nil {
		return p.PlayErr
	}
	cp := make([]int16, len(pcm))
	copy(cp, pcm)
	p.Played = append(p.Played, cp)
	return nil
}

// Close implements audio.PlaybackStream.
func (p *Playback) Close() error { return nil }

// PlayCount returns the number of completed Play calls.
func (p *Playback) PlayCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Played)
}

var (
	_ audio.CaptureStream  = (*Capture)(nil)
	_ audio.PlaybackStream = (*Playback)(nil)
)
