package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
)

// frameQueueCap bounds the capture channel. At 80 ms per frame this is about
// 2.5 s of backlog before frames are dropped.
const frameQueueCap = 32

// MalgoCapture is a CaptureStream backed by a miniaudio capture device.
// The device callback re-chunks whatever the OS delivers into FrameSamples
// frames and pushes them onto a bounded channel; overflow frames are counted
// and dropped rather than blocking the audio callback.
type MalgoCapture struct {
	ctx    *malgo.AllocatedContext
	device *malgo.Device

	frames chan []int16
	drops  atomic.Int64

	closeOnce sync.Once
	closeErr  error
}

// NewMalgoCapture opens the default capture device at CaptureRate mono int16
// and starts delivering frames immediately.
func NewMalgoCapture() (*MalgoCapture, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(string) {})
	if err != nil {
		return nil, fmt.Errorf("audio: init capture context: %w", err)
	}

	c := &MalgoCapture{
		ctx:    ctx,
		frames: make(chan []int16, frameQueueCap),
	}

	devCfg := malgo.DefaultDeviceConfig(malgo.Capture)
	devCfg.SampleRate = CaptureRate
	devCfg.Capture.Format = malgo.FormatS16
	devCfg.Capture.Channels = 1
	devCfg.Alsa.NoMMap = 1

	var rem []int16
	callbacks := malgo.DeviceCallbacks{
		Data: func(_, raw []byte, _ uint32) {
			if len(raw) == 0 {
				return
			}
			rem = append(rem, BytesToInt16(raw)...)
			for len(rem) >= FrameSamples {
				frame := make([]int16, FrameSamples)
				copy(frame, rem[:FrameSamples])
				n := copy(rem, rem[FrameSamples:])
				rem = rem[:n]

				select {
				case c.frames <- frame:
				default:
					c.drops.Add(1)
				}
			}
		},
	}

	device, err := malgo.InitDevice(ctx.Context, devCfg, callbacks)
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("audio: init capture device: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		_ = ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("audio: start capture device: %w", err)
	}

	c.device = device
	slog.Debug("audio capture started", "rate", CaptureRate, "frame_samples", FrameSamples)
	return c, nil
}

// ReadFrame implements CaptureStream.
func (c *MalgoCapture) ReadFrame() ([]int16, error) {
	frame, ok := <-c.frames
	if !ok {
		return nil, errors.New("audio: capture stream closed")
	}
	return frame, nil
}

// Drops returns the number of frames discarded because the pipeline fell
// behind the audio callback.
func (c *MalgoCapture) Drops() int64 {
	return c.drops.Load()
}

// Close implements CaptureStream.
func (c *MalgoCapture) Close() error {
	c.closeOnce.Do(func() {
		if err := c.device.Stop(); err != nil {
			c.closeErr = fmt.Errorf("audio: stop capture device: %w", err)
		}
		c.device.Uninit()
		if err := c.ctx.Uninit(); err != nil && c.closeErr == nil {
			c.closeErr = fmt.Errorf("audio: uninit capture context: %w", err)
		}
		c.ctx.Free()
		close(c.frames)
	})
	return c.closeErr
}
