// chip8_timers_test.go

package main

import (
	"testing"
	"time"
)

func TestTimerTickSaturatesAtZero(t *testing.T) {
	var timer Timer
	timer.Set(2)
	timer.Tick()
	timer.Tick()
	timer.Tick()
	timer.Tick()
	if timer.Value() != 0 {
		t.Errorf("timer = %d, want 0", timer.Value())
	}
}

func TestTimerSetFloor(t *testing.T) {
	var timer Timer
	timer.SetFloor(0, MIN_SOUND_TICKS)
	if timer.Value() != MIN_SOUND_TICKS {
		t.Errorf("timer = %d, want %d", timer.Value(), MIN_SOUND_TICKS)
	}
	timer.SetFloor(10, MIN_SOUND_TICKS)
	if timer.Value() != 10 {
		t.Errorf("timer = %d, want 10", timer.Value())
	}
}

func TestTimerDecaysTowardZero(t *testing.T) {
	var timer Timer
	timer.Set(100)
	for i := 0; i < 40; i++ {
		timer.Tick()
	}
	if timer.Value() != 60 {
		t.Errorf("timer = %d, want 60", timer.Value())
	}
}

func TestTimerTickerDecrementsBothTimers(t *testing.T) {
	var delay, sound Timer
	delay.Set(255)
	sound.Set(255)

	ticker := NewTimerTicker(&delay, &sound)
	ticker.Start()
	time.Sleep(200 * time.Millisecond)
	ticker.Stop()

	// ~12 ticks expected in 200ms at 60Hz; allow generous slack for CI
	d := 255 - int(delay.Value())
	s := 255 - int(sound.Value())
	if d < 5 || d > 25 {
		t.Errorf("delay decremented %d times in 200ms, want roughly 12", d)
	}
	if s < 5 || s > 25 {
		t.Errorf("sound decremented %d times in 200ms, want roughly 12", s)
	}

	// No further decrement after Stop
	after := delay.Value()
	time.Sleep(100 * time.Millisecond)
	if delay.Value() != after {
		t.Error("timer still ticking after Stop")
	}
}

func TestTimerTickerStopIsIdempotent(t *testing.T) {
	var delay, sound Timer
	ticker := NewTimerTicker(&delay, &sound)
	ticker.Start()
	ticker.Stop()
	ticker.Stop()
}
