package led

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// Effect names the lantern animations the state machine can request.
type Effect string

const (
	EffectAlwaysOn Effect = "always_on"
	EffectWakeup   Effect = "wakeup"
	EffectListen   Effect = "listen"
	EffectThink    Effect = "think"
	EffectSpeak    Effect = "speak"
	EffectOff      Effect = "off"
)

// Schedule is the active-hours window. Outside it every request other than
// off is replaced by off. Ranges may wrap midnight (e.g. 22 → 6).
type Schedule struct {
	Enabled   bool
	StartHour int
	EndHour   int
}

// active reports whether hour falls inside the window.
func (s Schedule) active(hour int) bool {
	if !s.Enabled {
		return true
	}
	if s.StartHour <= s.EndHour {
		return s.StartHour <= hour && hour < s.EndHour
	}
	return hour >= s.StartHour || hour < s.EndHour
}

// Lantern owns the LED controller and runs one effect at a time on a
// background worker. Issuing a new effect sets the shared advance flag —
// which every running effect polls at least once per animation tick — and
// enqueues the new variant.
//
// Safe for concurrent use by a single issuing goroutine plus the worker.
type Lantern struct {
	controller Controller
	base       Color
	schedule   Schedule

	advance atomic.Bool
	queue   chan Effect
	done    chan struct{}

	// now is the clock source for the schedule gate; overridable in tests.
	now func() time.Time
}

// NewLantern starts the lantern worker. The initial effect is always_on
// inside the active window, off outside it.
func NewLantern(controller Controller, base Color, schedule Schedule) *Lantern {
	l := &Lantern{
		controller: controller,
		base:       base,
		schedule:   schedule,
		queue:      make(chan Effect, 8),
		done:       make(chan struct{}),
		now:        time.Now,
	}
	go l.run()
	l.Play(EffectAlwaysOn)
	return l
}

// Play requests an effect, preempting whatever is running within one
// animation tick. Outside the active-hours window, anything but off becomes
// off.
func (l *Lantern) Play(effect Effect) {
	if effect != EffectOff && !l.schedule.active(l.now().Hour()) {
		effect = EffectOff
	}

	l.advance.Store(true)
	select {
	case l.queue <- effect:
	default:
		slog.Warn("led effect queue full, dropping request", "effect", effect)
	}
}

// Close stops the worker and releases the controller.
func (l *Lantern) Close() error {
	l.advance.Store(true)
	close(l.queue)
	<-l.done
	return l.controller.Close()
}

// run is the worker loop: one effect at a time, drained from the queue.
func (l *Lantern) run() {
	defer close(l.done)

	for effect := range l.queue {
		l.advance.Store(false)
		stop := l.shouldStop

		switch effect {
		case EffectAlwaysOn:
			alwaysOn(l.controller, l.base, stop)
		case EffectWakeup:
			wakeup(l.controller, l.base)
			// The ramp chains into ambience until the next request.
			l.advance.Store(false)
			alwaysOn(l.controller, l.base, stop)
		case EffectListen:
			listen(l.controller, l.base, stop)
		case EffectThink:
			think(l.controller, l.base, stop)
		case EffectSpeak:
			speak(l.controller, l.base, stop)
		case EffectOff:
			fadeOff(l.controller, l.base)
		default:
			slog.Warn("unknown led effect", "effect", effect)
		}
	}
}

// shouldStop reports whether the running effect must yield for a newer
// request or shutdown.
func (l *Lantern) shouldStop() bool {
	return l.advance.Load()
}
