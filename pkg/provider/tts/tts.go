// Package tts defines the Synthesizer interface for text-to-speech backends.
//
// A synthesizer streams 22 050 Hz mono int16 PCM chunks as they become
// available so the satellite can start playback before the full utterance is
// rendered.
package tts

import "context"

// SampleRate is the PCM sample rate every Synthesizer produces.
const SampleRate = 22050

// Synthesizer converts text to streamed PCM audio.
//
// Implementations must be safe for concurrent use.
type Synthesizer interface {
	// Synthesize starts rendering text and returns a channel of PCM chunks.
	// The channel is closed by the implementation when synthesis completes
	// or ctx is cancelled; errors after the stream starts surface by closing
	// the channel early (callers check ctx.Err() to distinguish
	// cancellation). Returns a non-nil error only when the stream cannot be
	// started. Callers must drain the channel.
	Synthesize(ctx context.Context, text string) (<-chan []int16, error)
}
