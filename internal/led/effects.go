package led

import (
	"math/rand/v2"
	"time"
)

// Flicker brightness ranges per effect.
var (
	ambientFlicker = [2]float64{0.85, 1.15}
	thinkFlicker   = [2]float64{0.7, 1.3}
)

// applyBrightness paints every pixel with the base colour at the given
// brightness.
func applyBrightness(c Controller, base Color, brightness float64) {
	scaled := base.Scale(brightness)
	colors := make([]Color, c.PixelCount())
	for i := range colors {
		colors[i] = scaled
	}
	c.SetPixels(colors)
}

// stopFunc reports whether the running effect should yield. Effects poll it
// at least once per animation tick.
type stopFunc func() bool

// sleep pauses for d unless stop is already set; the return value is false
// when the effect should end.
func sleep(d time.Duration, stop stopFunc) bool {
	if stop() {
		return false
	}
	time.Sleep(d)
	return !stop()
}

// alwaysOn is the idle ambience: small random brightness flickers around the
// base colour every 50–200 ms.
func alwaysOn(c Controller, base Color, stop stopFunc) {
	for {
		brightness := ambientFlicker[0] + rand.Float64()*(ambientFlicker[1]-ambientFlicker[0])
		applyBrightness(c, base, brightness)
		if !sleep(time.Duration(50+rand.IntN(151))*time.Millisecond, stop) {
			return
		}
	}
}

// wakeup ramps brightness 1.0 → 2.0 over 10 steps of 50 ms. It is short and
// runs to completion without a stop check.
func wakeup(c Controller, base Color) {
	for i := 0; i < 10; i++ {
		applyBrightness(c, base, 1.0+float64(i)/10)
		time.Sleep(50 * time.Millisecond)
	}
}

// listen is a slow triangle wave between 0.7 and 1.3, 100 ms per 0.05 step.
func listen(c Controller, base Color, stop stopFunc) {
	brightness, step := 1.0, 0.05
	for {
		brightness += step
		if brightness >= 1.3 || brightness <= 0.7 {
			step = -step
		}
		applyBrightness(c, base, brightness)
		if !sleep(100*time.Millisecond, stop) {
			return
		}
	}
}

// think is a rapid 0.7–1.3 jitter with 20–100 ms ticks.
func think(c Controller, base Color, stop stopFunc) {
	for {
		brightness := thinkFlicker[0] + rand.Float64()*(thinkFlicker[1]-thinkFlicker[0])
		applyBrightness(c, base, brightness)
		if !sleep(time.Duration(20+rand.IntN(81))*time.Millisecond, stop) {
			return
		}
	}
}

// speak is a faster triangle wave between 0.8 and 1.2, 50 ms per 0.1 step.
func speak(c Controller, base Color, stop stopFunc) {
	brightness, step := 1.0, 0.1
	for {
		brightness += step
		if brightness >= 1.2 || brightness <= 0.8 {
			step = -step
		}
		applyBrightness(c, base, brightness)
		if !sleep(50*time.Millisecond, stop) {
			return
		}
	}
}

// fadeOff ramps brightness 1.0 → 0.0 over 10 steps, then turns the hardware
// off. Runs to completion.
func fadeOff(c Controller, base Color) {
	for i := 0; i < 10; i++ {
		applyBrightness(c, base, 1.0-float64(i)/10)
		time.Sleep(50 * time.Millisecond)
	}
	c.Off()
}
