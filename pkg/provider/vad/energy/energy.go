// Package energy implements vad.Classifier with RMS energy thresholding and
// optional adaptive noise-floor calibration.
//
// The classifier computes the frame's RMS energy in dBFS and compares it
// against a threshold. When calibration is enabled, the first frames are
// treated as ambient noise and the threshold is raised to the measured noise
// floor plus a margin, if that is stricter than the static default.
package energy

import (
	"fmt"
	"math"

	"github.com/xhyrom/jim/pkg/provider/vad"
)

// Defaults tuned for close-talking microphone audio.
const (
	defaultThresholdDB   = -40.0
	defaultMarginDB      = 10.0
	defaultCalibFrames   = 16 // ~480 ms of 30 ms frames
	silenceFloorDB       = -100.0
	int16FullScale       = 32768.0
	minMeasurableRMSNorm = 1e-10
)

// Option configures a Classifier.
type Option func(*Classifier)

// WithThresholdDB sets the static speech threshold in dBFS. Default: -40.
func WithThresholdDB(db float64) Option {
	return func(c *Classifier) { c.staticThreshold = db }
}

// WithCalibration sets how many initial frames are used to measure the noise
// floor, and the margin in dB added above it. frames = 0 disables
// calibration.
func WithCalibration(frames int, marginDB float64) Option {
	return func(c *Classifier) {
		c.calibFrames = frames
		c.marginDB = marginDB
	}
}

// Classifier is an energy-based vad.Classifier. Not safe for concurrent use.
type Classifier struct {
	staticThreshold float64
	marginDB        float64
	calibFrames     int

	threshold   float64
	calibSeen   int
	calibSum    float64
	calibrating bool
}

// New creates a Classifier with the supplied options.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		staticThreshold: defaultThresholdDB,
		marginDB:        defaultMarginDB,
		calibFrames:     defaultCalibFrames,
	}
	for _, o := range opts {
		o(c)
	}
	c.Reset()
	return c
}

// IsSpeech implements vad.Classifier.
func (c *Classifier) IsSpeech(frame []int16) (bool, error) {
	if len(frame) != vad.ClassifierSamples {
		return false, fmt.Errorf("energy: frame must be %d samples, got %d", vad.ClassifierSamples, len(frame))
	}

	db := energyDB(frame)

	if c.calibrating {
		c.calibSum += db
		c.calibSeen++
		if c.calibSeen >= c.calibFrames {
			noiseFloor := c.calibSum / float64(c.calibSeen)
			if adaptive := noiseFloor + c.marginDB; adaptive > c.staticThreshold {
				c.threshold = adaptive
			}
			c.calibrating = false
		}
	}

	return db >= c.threshold, nil
}

// Reset implements vad.Classifier. Calibration restarts on the next frames.
func (c *Classifier) Reset() {
	c.threshold = c.staticThreshold
	c.calibSeen = 0
	c.calibSum = 0
	c.calibrating = c.calibFrames > 0
}

// energyDB returns the RMS energy of the frame in dB relative to int16 full
// scale.
func energyDB(frame []int16) float64 {
	if len(frame) == 0 {
		return silenceFloorDB
	}
	var sum float64
	for _, s := range frame {
		v := float64(s) / int16FullScale
		sum += v * v
	}
	rms := math.Sqrt(sum / float64(len(frame)))
	if rms < minMeasurableRMSNorm {
		return silenceFloorDB
	}
	return 20 * math.Log10(rms)
}

var _ vad.Classifier = (*Classifier)(nil)
