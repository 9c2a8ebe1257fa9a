// Package wake defines the Detector interface for wake-word detection
// backends.
//
// A wake detector scores fixed-size audio frames against one or more keyword
// models. The satellite polls frames of exactly 1280 samples (80 ms at
// 16 kHz) and fires when any model's score crosses the configured threshold.
//
// Detectors are stateful: scoring windows and spectrogram buffers accumulate
// across frames, so a detector must be Reset on every transition out of the
// idle state to avoid re-fires on the tail of prior audio. A Detector is
// owned by a single goroutine and is not required to be safe for concurrent
// use.
package wake

// FrameSamples is the number of int16 samples a Detector consumes per call
// (80 ms at 16 kHz).
const FrameSamples = 1280

// DefaultThreshold is the score above which a keyword is considered detected.
const DefaultThreshold = 0.5

// Detector scores audio frames against its keyword models.
type Detector interface {
	// Process scores one frame of exactly FrameSamples samples and returns
	// the current score per keyword model name. Scores are in [0, 1]. A
	// frame that does not yet complete an internal scoring window may return
	// an empty map.
	Process(frame []int16) (map[string]float64, error)

	// Reset clears all accumulated detection state so that prior audio
	// cannot trigger a detection.
	Reset()

	// Close releases model resources. After Close, Process returns an error.
	Close() error
}
