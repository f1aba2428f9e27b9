// chip8_timers.go - 60Hz delay and sound timers

package main

import (
	"sync"
	"sync/atomic"
	"time"
)

// Timer is an 8-bit down counter shared between the CPU goroutine and
// the 60Hz ticker goroutine. All accesses are lock-free.
type Timer struct {
	value atomic.Uint32
}

func (t *Timer) Set(v uint8) {
	t.value.Store(uint32(v))
}

// SetFloor stores v, raising it to floor when below. Used by the sound
// timer so short beeps remain audible.
func (t *Timer) SetFloor(v, floor uint8) {
	if v < floor {
		v = floor
	}
	t.value.Store(uint32(v))
}

func (t *Timer) Value() uint8 {
	return uint8(t.value.Load())
}

// Tick decrements the counter, saturating at zero.
func (t *Timer) Tick() {
	for {
		v := t.value.Load()
		if v == 0 {
			return
		}
		if t.value.CompareAndSwap(v, v-1) {
			return
		}
	}
}

// TimerTicker decrements the delay and sound timers at 60Hz on its own
// goroutine, mirroring the video refresh loop structure.
type TimerTicker struct {
	delay    *Timer
	sound    *Timer
	done     chan struct{}
	stopOnce sync.Once
}

func NewTimerTicker(delay, sound *Timer) *TimerTicker {
	return &TimerTicker{
		delay: delay,
		sound: sound,
		done:  make(chan struct{}),
	}
}

func (t *TimerTicker) Start() {
	go t.tickLoop()
}

func (t *TimerTicker) tickLoop() {
	ticker := time.NewTicker(time.Second / TIMER_HZ)
	defer ticker.Stop()
	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			t.delay.Tick()
			t.sound.Tick()
		}
	}
}

func (t *TimerTicker) Stop() {
	t.stopOnce.Do(func() {
		close(t.done)
	})
}
