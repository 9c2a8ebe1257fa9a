// Package audio defines the capture and playback contracts for the satellite's
// audio hardware, along with the PCM frame formats shared by the wake, VAD,
// ASR, and TTS stages.
//
// The satellite captures 16 kHz mono int16 audio in 1280-sample frames (80 ms)
// and plays 22 050 Hz mono int16 audio in 2048-sample chunks. Both streams are
// blocking by design: each runs on a dedicated worker goroutine that owns its
// hardware device for its lifetime.
package audio

import (
	"encoding/binary"
)

// Capture format: what the microphone delivers to the pipeline.
const (
	// CaptureRate is the microphone sample rate in Hz.
	CaptureRate = 16000

	// FrameSamples is the number of samples per capture frame (80 ms).
	FrameSamples = 1280
)

// Playback format: what the speaker consumes.
const (
	// PlaybackRate is the speaker sample rate in Hz.
	PlaybackRate = 22050

	// ChunkSamples is the number of samples per playback write. Shorter
	// final chunks are zero-padded to this size.
	ChunkSamples = 2048
)

// CaptureStream is a blocking microphone input. ReadFrame blocks until a full
// frame of FrameSamples samples is available.
//
// A CaptureStream is owned by a single goroutine; implementations are not
// required to be safe for concurrent reads.
type CaptureStream interface {
	// ReadFrame returns the next frame of exactly FrameSamples int16 samples.
	// The returned slice is owned by the caller.
	ReadFrame() ([]int16, error)

	// Close releases the capture device. After Close, ReadFrame returns an
	// error. Calling Close more than once is safe.
	Close() error
}

// PlaybackStream is a blocking speaker output.
//
// A PlaybackStream is owned by a single goroutine; implementations are not
// required to be safe for concurrent writes.
type PlaybackStream interface {
	// Play writes pcm to the speaker, blocking until the device has accepted
	// all of it. The data is written in ChunkSamples-sized chunks; the final
	// chunk is zero-padded.
	Play(pcm []int16) error

	// Close drains pending audio and releases the device.
	Close() error
}

// BytesToInt16 decodes little-endian PCM bytes into samples. A trailing odd
// byte is dropped.
func BytesToInt16(b []byte) []int16 {
	n := len(b) / 2
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		out[i] = int16(binary.LittleEndian.Uint16(b[i*2 : i*2+2]))
	}
	return out
}

// Int16ToBytes encodes samples as little-endian PCM bytes.
func Int16ToBytes(s []int16) []byte {
	out := make([]byte, len(s)*2)
	for i, v := range s {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
	}
	return out
}

// Chunks splits pcm into size-sample chunks, zero-padding the final chunk.
// An empty input yields no chunks.
func Chunks(pcm []int16, size int) [][]int16 {
	if size <= 0 || len(pcm) == 0 {
		return nil
	}
	var out [][]int16
	for i := 0; i < len(pcm); i += size {
		end := i + size
		if end <= len(pcm) {
			out = append(out, pcm[i:end])
			continue
		}
		padded := make([]int16, size)
		copy(padded, pcm[i:])
		out = append(out, padded)
	}
	return out
}
