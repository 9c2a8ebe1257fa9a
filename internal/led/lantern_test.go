package led

import (
	"testing"
	"time"
)

func TestParseColor(t *testing.T) {
	t.Parallel()

	c, err := ParseColor("#FF5000")
	if err != nil {
		t.Fatalf("ParseColor: unexpected error: %v", err)
	}
	if c != (Color{R: 255, G: 80, B: 0}) {
		t.Errorf("unexpected colour: %+v", c)
	}

	for _, bad := range []string{"", "FF5000", "#FF50", "#GGGGGG"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q): expected error", bad)
		}
	}
}

func TestColorScale(t *testing.T) {
	t.Parallel()

	c := Color{R: 100, G: 200, B: 50}
	if got := c.Scale(1.5); got != (Color{R: 150, G: 255, B: 75}) {
		t.Errorf("Scale(1.5): unexpected %+v", got)
	}
	if got := c.Scale(0); got != (Color{}) {
		t.Errorf("Scale(0): unexpected %+v", got)
	}
}

func TestSchedule_Active(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		schedule Schedule
		hour     int
		want     bool
	}{
		{name: "disabled is always active", schedule: Schedule{Enabled: false}, hour: 3, want: true},
		{name: "inside simple window", schedule: Schedule{Enabled: true, StartHour: 7, EndHour: 22}, hour: 12, want: true},
		{name: "before simple window", schedule: Schedule{Enabled: true, StartHour: 7, EndHour: 22}, hour: 6, want: false},
		{name: "end hour is exclusive", schedule: Schedule{Enabled: true, StartHour: 7, EndHour: 22}, hour: 22, want: false},
		{name: "wraps midnight late", schedule: Schedule{Enabled: true, StartHour: 22, EndHour: 6}, hour: 23, want: true},
		{name: "wraps midnight early", schedule: Schedule{Enabled: true, StartHour: 22, EndHour: 6}, hour: 2, want: true},
		{name: "outside wrapped window", schedule: Schedule{Enabled: true, StartHour: 22, EndHour: 6}, hour: 12, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.schedule.active(tc.hour); got != tc.want {
				t.Errorf("active(%d): expected %v, got %v", tc.hour, tc.want, got)
			}
		})
	}
}

func TestLantern_PreemptsRunningEffect(t *testing.T) {
	t.Parallel()

	mock := NewMock(3)
	l := NewLantern(mock, Color{R: 255, G: 80, B: 0}, Schedule{})
	defer l.Close()

	// Let the initial ambience run a few ticks, then preempt with listen.
	time.Sleep(120 * time.Millisecond)
	before := mock.SetCalls

	l.Play(EffectListen)
	time.Sleep(400 * time.Millisecond)

	if mock.SetCalls <= before {
		t.Error("expected the new effect to keep animating after preemption")
	}
}

func TestLantern_OffOutsideSchedule(t *testing.T) {
	t.Parallel()

	mock := NewMock(3)
	l := &Lantern{
		controller: mock,
		base:       Color{R: 255},
		schedule:   Schedule{Enabled: true, StartHour: 7, EndHour: 22},
		queue:      make(chan Effect, 8),
		done:       make(chan struct{}),
		now:        func() time.Time { return time.Date(2025, 6, 5, 3, 0, 0, 0, time.Local) },
	}
	go l.run()
	defer l.Close()

	l.Play(EffectListen)

	// fadeOff runs 10 × 50 ms and then blanks the pixels.
	time.Sleep(700 * time.Millisecond)
	if mock.OffCalls == 0 {
		t.Error("expected the schedule gate to replace listen with off")
	}
}

func TestLantern_OffAllowedOutsideSchedule(t *testing.T) {
	t.Parallel()

	mock := NewMock(3)
	l := &Lantern{
		controller: mock,
		base:       Color{R: 255},
		schedule:   Schedule{Enabled: true, StartHour: 7, EndHour: 22},
		queue:      make(chan Effect, 8),
		done:       make(chan struct{}),
		now:        func() time.Time { return time.Date(2025, 6, 5, 3, 0, 0, 0, time.Local) },
	}
	go l.run()

	l.Play(EffectOff)
	time.Sleep(700 * time.Millisecond)
	if mock.OffCalls == 0 {
		t.Error("expected off to run outside the active window")
	}
	if err := l.Close(); err != nil {
		t.Errorf("Close: unexpected error: %v", err)
	}
}
