// chip8_race_test.go - concurrency tests; the race detector is the oracle

package main

import (
	"sync"
	"testing"
	"time"
)

func TestTimerConcurrentSetAndTick(t *testing.T) {
	var delay, sound Timer
	ticker := NewTimerTicker(&delay, &sound)
	ticker.Start()
	defer ticker.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				delay.Set(uint8(j))
				sound.SetFloor(uint8(j), MIN_SOUND_TICKS)
				_ = delay.Value()
				_ = sound.Value()
			}
		}()
	}
	wg.Wait()
}

func TestVideoChipConcurrentDrawAndSnapshot(t *testing.T) {
	chip := newVideoChip(nil)
	done := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 2000; i++ {
			chip.DrawSprite(uint8(i), uint8(i), []byte{0xFF, 0x81, 0xFF})
			if i%100 == 0 {
				chip.ClearDisplay()
			}
		}
		close(done)
	}()
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				_ = chip.Snapshot()
				_ = chip.Pixel(10, 10)
			}
		}
	}()
	wg.Wait()
}

func TestKeyLatchConcurrentPressAndTake(t *testing.T) {
	latch := NewKeyLatch()
	stop := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 5000; i++ {
			latch.Press(uint8(i))
		}
		close(stop)
	}()
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				latch.Take()
			}
		}
	}()
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				latch.Pressed(0x5)
				latch.Release()
			}
		}
	}()
	wg.Wait()
}

func TestSoundChipConcurrentGenerateAndTimerWrites(t *testing.T) {
	var soundTimer Timer
	chip := newSoundChip(&soundTimer)
	chip.Start()

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 5000; i++ {
			soundTimer.SetFloor(uint8(i), MIN_SOUND_TICKS)
		}
		close(stop)
	}()
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				_ = chip.GenerateSample()
			}
		}
	}()
	wg.Wait()
}

func TestCPUStopWhileExecuting(t *testing.T) {
	m := newTestMachine(t)
	m.loadOpcodes(t, 0x1200)
	m.cpu.SetClockRate(1000000)

	done := make(chan struct{})
	go func() {
		m.cpu.Execute()
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)
	m.cpu.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Execute did not stop")
	}
}
