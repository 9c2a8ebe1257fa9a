// Package satellite implements the edge process: a state machine driving
// wake detection, voice-activity endpointing, speech recognition, the core
// client, and speech playback, with LED effects signalling each state.
package satellite

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xhyrom/jim/internal/led"
	"github.com/xhyrom/jim/pkg/audio"
	"github.com/xhyrom/jim/pkg/provider/asr"
	"github.com/xhyrom/jim/pkg/provider/tts"
	"github.com/xhyrom/jim/pkg/provider/vad"
	"github.com/xhyrom/jim/pkg/provider/wake"
)

// State is the satellite's lifecycle position.
type State int

const (
	StateOff State = iota
	StateIdle
	StateListening
	StateThinking
	StateSpeaking
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateOff:
		return "off"
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateThinking:
		return "thinking"
	case StateSpeaking:
		return "speaking"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Spoken error phrases; the user never hears error details.
const (
	phraseCoreTrouble = "Sorry, I'm having trouble connecting to my brain right now."
	phraseNoResponse  = "I'm not sure how to respond to that."
)

// restartBackoff is the pause before the runner restarts a crashed loop.
const restartBackoff = time.Second

// EffectSink receives LED effect requests. *led.Lantern implements it.
type EffectSink interface {
	Play(effect led.Effect)
}

// Asker posts utterances to the core. *Client implements it.
type Asker interface {
	Ask(ctx context.Context, text, userID, deviceID string) (*AskReply, error)
}

// Satellite is the state machine. One driver goroutine calls Run; the audio
// capture callback and the LED worker run on their own goroutines and
// communicate through the injected streams.
type Satellite struct {
	capture     audio.CaptureStream
	playback    audio.PlaybackStream
	detector    wake.Detector
	endpointer  *vad.Endpointer
	transcriber asr.Transcriber
	synthesizer tts.Synthesizer
	lantern     EffectSink
	core        Asker

	wakeThreshold float64
	userID        string
	deviceID      string

	mu      sync.Mutex
	state   State
	onState func(State)
}

// Deps bundles the pipeline stages the Satellite drives.
type Deps struct {
	Capture     audio.CaptureStream
	Playback    audio.PlaybackStream
	Detector    wake.Detector
	Endpointer  *vad.Endpointer
	Transcriber asr.Transcriber
	Synthesizer tts.Synthesizer
	Lantern     EffectSink
	Core        Asker
}

// New creates a Satellite in the OFF state.
func New(deps Deps, wakeThreshold float64, userID, deviceID string) *Satellite {
	if wakeThreshold <= 0 {
		wakeThreshold = wake.DefaultThreshold
	}
	return &Satellite{
		capture:       deps.Capture,
		playback:      deps.Playback,
		detector:      deps.Detector,
		endpointer:    deps.Endpointer,
		transcriber:   deps.Transcriber,
		synthesizer:   deps.Synthesizer,
		lantern:       deps.Lantern,
		core:          deps.Core,
		wakeThreshold: wakeThreshold,
		userID:        userID,
		deviceID:      deviceID,
		state:         StateOff,
	}
}

// OnStateChange registers a callback invoked on every transition. Set it
// before calling Run.
func (s *Satellite) OnStateChange(fn func(State)) {
	s.mu.Lock()
	s.onState = fn
	s.mu.Unlock()
}

// State returns the current state.
func (s *Satellite) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// setState transitions and emits the state's LED effect.
func (s *Satellite) setState(state State) {
	s.mu.Lock()
	s.state = state
	cb := s.onState
	s.mu.Unlock()

	switch state {
	case StateIdle:
		s.lantern.Play(led.EffectAlwaysOn)
	case StateListening:
		s.lantern.Play(led.EffectListen)
	case StateThinking:
		s.lantern.Play(led.EffectThink)
	case StateSpeaking:
		s.lantern.Play(led.EffectSpeak)
	case StateOff:
		s.lantern.Play(led.EffectOff)
	}

	slog.Debug("state changed", "state", state.String())
	if cb != nil {
		cb(state)
	}
}

// Run drives the satellite until ctx is cancelled. Loop errors are logged
// and the loop restarts after a short backoff; transient per-utterance
// failures are handled inside the loop and do not surface here.
func (s *Satellite) Run(ctx context.Context) error {
	for {
		err := s.loop(ctx)
		if ctx.Err() != nil {
			s.setState(StateOff)
			return ctx.Err()
		}
		slog.Error("satellite loop exited, restarting", "err", err)

		select {
		case <-time.After(restartBackoff):
		case <-ctx.Done():
			s.setState(StateOff)
			return ctx.Err()
		}
	}
}

// loop is one life of the state machine: IDLE → LISTENING → THINKING →
// SPEAKING → IDLE, forever. Returns only on hard errors (audio stream gone)
// or context cancellation.
func (s *Satellite) loop(ctx context.Context) error {
	for {
		s.setState(StateIdle)

		if err := s.waitForWake(ctx); err != nil {
			return err
		}
		// Keep the tail of the wake phrase out of the next detection cycle.
		s.detector.Reset()
		s.lantern.Play(led.EffectWakeup)

		s.setState(StateListening)
		pcm, err := s.captureUtterance(ctx)
		if err != nil {
			return err
		}

		s.setState(StateThinking)
		text, err := s.transcriber.Transcribe(ctx, pcm)
		if err != nil {
			slog.Error("transcription failed", "err", err)
			continue
		}
		text = asr.Clean(text)
		if text == "" {
			slog.Debug("empty transcription, returning to idle")
			continue
		}
		slog.Info("heard", "text", text)

		response := s.askCore(ctx, text)

		s.setState(StateSpeaking)
		if err := s.speak(ctx, response); err != nil {
			slog.Error("speech playback failed", "err", err)
		}
	}
}

// waitForWake blocks on capture frames until any keyword model's score
// crosses the threshold.
func (s *Satellite) waitForWake(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		frame, err := s.capture.ReadFrame()
		if err != nil {
			return fmt.Errorf("satellite: read capture frame: %w", err)
		}
		scores, err := s.detector.Process(frame)
		if err != nil {
			return fmt.Errorf("satellite: wake detection: %w", err)
		}
		for model, score := range scores {
			if score > s.wakeThreshold {
				slog.Info("wake word detected", "model", model, "score", score)
				return nil
			}
		}
	}
}

// captureUtterance records until the endpointer reports sustained silence.
// The capture always yields at least one frame.
func (s *Satellite) captureUtterance(ctx context.Context) ([]int16, error) {
	s.endpointer.Reset()
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frame, err := s.capture.ReadFrame()
		if err != nil {
			return nil, fmt.Errorf("satellite: read capture frame: %w", err)
		}
		done, err := s.endpointer.Feed(frame)
		if err != nil {
			return nil, fmt.Errorf("satellite: endpoint: %w", err)
		}
		if done {
			return s.endpointer.Audio(), nil
		}
	}
}

// askCore posts the transcription and reduces every failure to a spoken
// phrase.
func (s *Satellite) askCore(ctx context.Context, text string) string {
	reply, err := s.core.Ask(ctx, text, s.userID, s.deviceID)
	if err != nil {
		slog.Error("core request failed", "err", err)
		return phraseCoreTrouble
	}
	if reply.Response == "" {
		return phraseNoResponse
	}
	slog.Debug("core replied", "intent", reply.Intent, "confidence", reply.Confidence)
	return reply.Response
}

// speak synthesises and plays the response, streaming chunks as they
// arrive.
func (s *Satellite) speak(ctx context.Context, text string) error {
	chunks, err := s.synthesizer.Synthesize(ctx, text)
	if err != nil {
		return fmt.Errorf("satellite: synthesize: %w", err)
	}
	for chunk := range chunks {
		if err := s.playback.Play(chunk); err != nil {
			// Drain the stream so the synthesizer goroutine can finish.
			for range chunks {
			}
			return fmt.Errorf("satellite: play chunk: %w", err)
		}
	}
	return ctx.Err()
}
