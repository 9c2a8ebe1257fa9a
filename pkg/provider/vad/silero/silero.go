// Package silero implements vad.Classifier using the Silero VAD v5 ONNX
// model.
//
// Silero operates on 512-sample windows at 16 kHz with a recurrent state
// tensor carried between calls. Incoming 480-sample classifier frames are
// buffered and consumed in 512-sample windows; the last window probability is
// reused while a new window accumulates.
package silero

import (
	"errors"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/xhyrom/jim/pkg/provider/vad"
)

const (
	// windowSamples is the inference window Silero VAD v5 requires at 16 kHz.
	windowSamples = 512

	// stateSize is the hidden state dimension; the combined state tensor has
	// shape [2, 1, stateSize].
	stateSize = 128

	// DefaultThreshold is the speech probability at or above which a frame
	// is voiced.
	DefaultThreshold = 0.5
)

var (
	ortOnce sync.Once
	ortErr  error
)

// Classifier is a Silero-backed vad.Classifier. Not safe for concurrent use.
type Classifier struct {
	session *ort.AdvancedSession

	inputTensor  *ort.Tensor[float32] // [1, 512]
	stateTensor  *ort.Tensor[float32] // [2, 1, 128]
	srTensor     *ort.Tensor[int64]   // scalar sample rate
	outputTensor *ort.Tensor[float32] // [1, 1]
	stateNTensor *ort.Tensor[float32] // [2, 1, 128]

	buf       []float32
	lastProb  float64
	threshold float64

	closed bool
}

// New loads the Silero model from modelPath using the ONNX Runtime shared
// library at onnxLib. threshold ≤ 0 uses DefaultThreshold.
func New(modelPath, onnxLib string, threshold float64) (*Classifier, error) {
	ortOnce.Do(func() {
		ort.SetSharedLibraryPath(onnxLib)
		ortErr = ort.InitializeEnvironment()
	})
	if ortErr != nil {
		return nil, fmt.Errorf("silero: init onnx runtime: %w", ortErr)
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	c := &Classifier{threshold: threshold}

	var err error
	if c.inputTensor, err = ort.NewEmptyTensor[float32](ort.NewShape(1, windowSamples)); err != nil {
		return nil, fmt.Errorf("silero: input tensor: %w", err)
	}
	if c.stateTensor, err = ort.NewEmptyTensor[float32](ort.NewShape(2, 1, stateSize)); err != nil {
		c.destroy()
		return nil, fmt.Errorf("silero: state tensor: %w", err)
	}
	if c.srTensor, err = ort.NewTensor(ort.NewShape(1), []int64{vad.SampleRate}); err != nil {
		c.destroy()
		return nil, fmt.Errorf("silero: sample-rate tensor: %w", err)
	}
	if c.outputTensor, err = ort.NewEmptyTensor[float32](ort.NewShape(1, 1)); err != nil {
		c.destroy()
		return nil, fmt.Errorf("silero: output tensor: %w", err)
	}
	if c.stateNTensor, err = ort.NewEmptyTensor[float32](ort.NewShape(2, 1, stateSize)); err != nil {
		c.destroy()
		return nil, fmt.Errorf("silero: stateN tensor: %w", err)
	}

	clear(c.stateTensor.GetData())
	clear(c.stateNTensor.GetData())

	c.session, err = ort.NewAdvancedSession(
		modelPath,
		[]string{"input", "state", "sr"},
		[]string{"output", "stateN"},
		[]ort.Value{c.inputTensor, c.stateTensor, c.srTensor},
		[]ort.Value{c.outputTensor, c.stateNTensor},
		nil,
	)
	if err != nil {
		c.destroy()
		return nil, fmt.Errorf("silero: load model %q: %w", modelPath, err)
	}

	return c, nil
}

// IsSpeech implements vad.Classifier. Buffered samples are run through the
// model one 512-sample window at a time; the most recent window probability
// decides the result.
func (c *Classifier) IsSpeech(frame []int16) (bool, error) {
	if c.closed {
		return false, errors.New("silero: classifier closed")
	}
	if len(frame) != vad.ClassifierSamples {
		return false, fmt.Errorf("silero: frame must be %d samples, got %d", vad.ClassifierSamples, len(frame))
	}

	for _, s := range frame {
		c.buf = append(c.buf, float32(s)/32768.0)
	}

	for len(c.buf) >= windowSamples {
		copy(c.inputTensor.GetData(), c.buf[:windowSamples])
		n := copy(c.buf, c.buf[windowSamples:])
		c.buf = c.buf[:n]

		if err := c.session.Run(); err != nil {
			return false, fmt.Errorf("silero: inference: %w", err)
		}
		// Feed the recurrent state back for the next window.
		copy(c.stateTensor.GetData(), c.stateNTensor.GetData())
		c.lastProb = float64(c.outputTensor.GetData()[0])
	}

	return c.lastProb >= c.threshold, nil
}

// Reset implements vad.Classifier: clears the recurrent state and sample
// buffer.
func (c *Classifier) Reset() {
	if c.closed {
		return
	}
	clear(c.stateTensor.GetData())
	clear(c.stateNTensor.GetData())
	c.buf = c.buf[:0]
	c.lastProb = 0
}

// Close releases all ONNX resources. Safe to call more than once.
func (c *Classifier) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.destroy()
	return nil
}

func (c *Classifier) destroy() {
	if c.session != nil {
		c.session.Destroy()
		c.session = nil
	}
	for _, t := range []*ort.Tensor[float32]{c.inputTensor, c.stateTensor, c.outputTensor, c.stateNTensor} {
		if t != nil {
			t.Destroy()
		}
	}
	if c.srTensor != nil {
		c.srTensor.Destroy()
	}
	c.inputTensor, c.stateTensor, c.outputTensor, c.stateNTensor, c.srTensor = nil, nil, nil, nil, nil
}

var _ vad.Classifier = (*Classifier)(nil)
