// Package openwakeword implements wake.Detector using the openWakeWord ONNX
// pipeline: melspectrogram → embedding → per-keyword scoring head.
//
// The melspectrogram and embedding models are shared across all configured
// keyword models; only the final scoring head differs per keyword. All model
// files and the ONNX Runtime shared library must exist on disk at
// construction time.
package openwakeword

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/xhyrom/jim/pkg/provider/wake"
)

// Pipeline dimensions fixed by the openWakeWord model architecture.
const (
	melBins      = 32 // melspectrogram output bands
	nMelFrames   = 5  // mel frames produced per 1280-sample chunk
	melWindow    = 76 // mel frames consumed per embedding
	melStep      = 8  // mel frames advanced between embeddings
	embeddingDim = 96 // output dim per embedding frame
	nEmbedFrames = 16 // embedding frames consumed per keyword score
)

// ortOnce guards one-time ONNX Runtime environment initialisation. The error
// is kept at package scope so later constructors surface it instead of
// running against an uninitialised environment.
var (
	ortOnce sync.Once
	ortErr  error
)

// Config holds the model paths for a Detector.
type Config struct {
	// KeywordModels are the per-keyword scoring model paths. The keyword
	// name reported by Process is the file name without extension.
	KeywordModels []string

	// MelspecModel is the shared melspectrogram model path.
	MelspecModel string

	// EmbeddingModel is the shared embedding model path.
	EmbeddingModel string

	// OnnxLib is the path to the ONNX Runtime shared library.
	OnnxLib string
}

// keywordHead is one compiled per-keyword scoring model.
type keywordHead struct {
	name    string
	session *ort.AdvancedSession
	in      *ort.Tensor[float32]
	out     *ort.Tensor[float32]
}

// Detector implements wake.Detector with the three-stage openWakeWord
// pipeline. Not safe for concurrent use.
type Detector struct {
	melspecSess *ort.AdvancedSession
	melspecIn   *ort.Tensor[float32]
	melspecOut  *ort.Tensor[float32]

	embedSess *ort.AdvancedSession
	embedIn   *ort.Tensor[float32]
	embedOut  *ort.Tensor[float32]

	heads []keywordHead

	melBuf   []float32 // rolling mel frames, melBins floats per frame
	embedBuf []float32 // rolling embedding window, nEmbedFrames × embeddingDim

	closed bool
}

// New loads all models and returns a ready Detector.
func New(cfg Config) (*Detector, error) {
	if len(cfg.KeywordModels) == 0 {
		return nil, errors.New("openwakeword: at least one keyword model is required")
	}

	ortOnce.Do(func() {
		ort.SetSharedLibraryPath(cfg.OnnxLib)
		ortErr = ort.InitializeEnvironment()
	})
	if ortErr != nil {
		return nil, fmt.Errorf("openwakeword: init onnx runtime: %w", ortErr)
	}

	d := &Detector{
		embedBuf: make([]float32, nEmbedFrames*embeddingDim),
	}

	var err error
	d.melspecIn, err = ort.NewEmptyTensor[float32](ort.NewShape(1, wake.FrameSamples))
	if err != nil {
		return nil, fmt.Errorf("openwakeword: melspec input tensor: %w", err)
	}
	d.melspecOut, err = ort.NewEmptyTensor[float32](ort.NewShape(1, 1, nMelFrames, melBins))
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("openwakeword: melspec output tensor: %w", err)
	}
	d.melspecSess, err = newSession(cfg.MelspecModel, d.melspecIn, d.melspecOut)
	if err != nil {
		d.Close()
		return nil, err
	}

	d.embedIn, err = ort.NewEmptyTensor[float32](ort.NewShape(1, melWindow, melBins, 1))
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("openwakeword: embedding input tensor: %w", err)
	}
	d.embedOut, err = ort.NewEmptyTensor[float32](ort.NewShape(1, 1, 1, embeddingDim))
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("openwakeword: embedding output tensor: %w", err)
	}
	d.embedSess, err = newSession(cfg.EmbeddingModel, d.embedIn, d.embedOut)
	if err != nil {
		d.Close()
		return nil, err
	}

	for _, modelPath := range cfg.KeywordModels {
		in, err := ort.NewEmptyTensor[float32](ort.NewShape(1, nEmbedFrames, embeddingDim))
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("openwakeword: keyword input tensor: %w", err)
		}
		out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1))
		if err != nil {
			in.Destroy()
			d.Close()
			return nil, fmt.Errorf("openwakeword: keyword output tensor: %w", err)
		}
		sess, err := newSession(modelPath, in, out)
		if err != nil {
			in.Destroy()
			out.Destroy()
			d.Close()
			return nil, err
		}
		d.heads = append(d.heads, keywordHead{
			name:    modelName(modelPath),
			session: sess,
			in:      in,
			out:     out,
		})
	}

	return d, nil
}

// newSession compiles an AdvancedSession with the model's own input/output
// names bound to the given tensors.
func newSession(modelPath string, in, out ort.Value) (*ort.AdvancedSession, error) {
	inInfo, outInfo, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("openwakeword: inspect %q: %w", modelPath, err)
	}
	sess, err := ort.NewAdvancedSession(
		modelPath,
		[]string{inInfo[0].Name}, []string{outInfo[0].Name},
		[]ort.Value{in}, []ort.Value{out},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("openwakeword: load %q: %w", modelPath, err)
	}
	return sess, nil
}

// modelName derives the keyword name from the model file path
// ("models/hey_jim.onnx" → "hey_jim").
func modelName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Process implements wake.Detector. Each call pushes the frame through the
// melspectrogram, advances the embedding window whenever enough mel frames
// have accumulated, and scores every keyword head once a new embedding was
// produced. Until the first embedding completes it returns an empty map.
func (d *Detector) Process(frame []int16) (map[string]float64, error) {
	if d.closed {
		return nil, errors.New("openwakeword: detector closed")
	}
	if len(frame) != wake.FrameSamples {
		return nil, fmt.Errorf("openwakeword: frame must be %d samples, got %d", wake.FrameSamples, len(frame))
	}

	in := d.melspecIn.GetData()
	for i, v := range frame {
		in[i] = float32(v)
	}
	if err := d.melspecSess.Run(); err != nil {
		return nil, fmt.Errorf("openwakeword: melspec inference: %w", err)
	}
	melData := d.melspecOut.GetData()
	for f := 0; f < nMelFrames; f++ {
		for b := 0; b < melBins; b++ {
			// openWakeWord's canonical scaling of raw mel output.
			d.melBuf = append(d.melBuf, melData[f*melBins+b]/10.0+2.0)
		}
	}

	newEmbed := false
	for len(d.melBuf)/melBins >= melWindow {
		eIn := d.embedIn.GetData()
		copy(eIn, d.melBuf[:melWindow*melBins])
		if err := d.embedSess.Run(); err != nil {
			return nil, fmt.Errorf("openwakeword: embedding inference: %w", err)
		}

		// Slide the embedding window left and append the new frame.
		copy(d.embedBuf, d.embedBuf[embeddingDim:])
		copy(d.embedBuf[(nEmbedFrames-1)*embeddingDim:], d.embedOut.GetData()[:embeddingDim])
		newEmbed = true

		// Compact the mel buffer to release consumed frames.
		n := copy(d.melBuf, d.melBuf[melStep*melBins:])
		d.melBuf = d.melBuf[:n]
	}

	scores := make(map[string]float64, len(d.heads))
	if !newEmbed {
		return scores, nil
	}

	for _, h := range d.heads {
		copy(h.in.GetData(), d.embedBuf)
		if err := h.session.Run(); err != nil {
			return nil, fmt.Errorf("openwakeword: keyword %q inference: %w", h.name, err)
		}
		scores[h.name] = float64(h.out.GetData()[0])
	}
	return scores, nil
}

// Reset implements wake.Detector.
func (d *Detector) Reset() {
	d.melBuf = d.melBuf[:0]
	for i := range d.embedBuf {
		d.embedBuf[i] = 0
	}
}

// Close implements wake.Detector. Safe to call on a partially constructed
// detector and more than once.
func (d *Detector) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	for _, h := range d.heads {
		if h.session != nil {
			h.session.Destroy()
		}
		if h.in != nil {
			h.in.Destroy()
		}
		if h.out != nil {
			h.out.Destroy()
		}
	}
	d.heads = nil

	destroy := func(s *ort.AdvancedSession, ts ...*ort.Tensor[float32]) {
		if s != nil {
			s.Destroy()
		}
		for _, t := range ts {
			if t != nil {
				t.Destroy()
			}
		}
	}
	destroy(d.embedSess, d.embedIn, d.embedOut)
	destroy(d.melspecSess, d.melspecIn, d.melspecOut)
	return nil
}

var _ wake.Detector = (*Detector)(nil)
