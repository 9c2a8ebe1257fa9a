// Package mock provides a test double for the wake.Detector interface.
package mock

import (
	"errors"
	"sync"

	"github.com/xhyrom/jim/pkg/provider/wake"
)

// Detector is a mock wake.Detector that replays scripted score maps. Once the
// script runs out, Process returns empty maps.
type Detector struct {
	mu sync.Mutex

	// Scores is the sequence of score maps returned by successive Process
	// calls.
	Scores []map[string]float64

	// ProcessErr, if non-nil, is returned by every Process call.
	ProcessErr error

	pos int

	// ProcessCalls counts Process invocations since construction.
	ProcessCalls int

	// ResetCalls counts Reset invocations.
	ResetCalls int

	closed bool
}

// Process implements wake.Detector.
func (d *Detector) Process(frame []int16) (map[string]float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, errors.New("mock: detector closed")
	}
	d.ProcessCalls++
	if d.ProcessErr != nil {
		return nil, d.ProcessErr
	}
	if d.pos >= len(d.Scores) {
		return map[string]float64{}, nil
	}
	scores := d.Scores[d.pos]
	d.pos++
	return scores, nil
}

// Reset implements wake.Detector.
func (d *Detector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ResetCalls++
}

// Close implements wake.Detector.
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

var _ wake.Detector = (*Detector)(nil)
