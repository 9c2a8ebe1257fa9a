package audio

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/ebitengine/oto/v3"
)

// OtoPlayback is a PlaybackStream backed by an oto audio context. Each Play
// call writes its PCM in ChunkSamples chunks and blocks until the device has
// finished playing them.
type OtoPlayback struct {
	ctx *oto.Context
}

// NewOtoPlayback initialises the system audio output at PlaybackRate mono
// int16. Returns an error if no audio device is available.
func NewOtoPlayback() (*OtoPlayback, error) {
	op := &oto.NewContextOptions{
		SampleRate:   PlaybackRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("audio: init playback context: %w", err)
	}
	<-ready

	slog.Debug("audio playback started", "rate", PlaybackRate, "chunk_samples", ChunkSamples)
	return &OtoPlayback{ctx: ctx}, nil
}

// Play implements PlaybackStream.
func (o *OtoPlayback) Play(pcm []int16) error {
	if len(pcm) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, chunk := range Chunks(pcm, ChunkSamples) {
		buf.Write(Int16ToBytes(chunk))
	}

	player := o.ctx.NewPlayer(&buf)
	player.Play()
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	return player.Close()
}

// Close implements PlaybackStream. The oto context has no teardown; pending
// players have already drained by the time Play returns.
func (o *OtoPlayback) Close() error {
	return nil
}
