// video_chip.go - 64x32 monochrome video chip for Intuition CHIP-8

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionChip8
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"math/bits"
	"sync"
	"time"
)

// VideoChip owns the 64x32 monochrome framebuffer. Each display row is
// one uint64 bitmap: bit n of rows[y] is the pixel at column n. The CPU
// goroutine blits sprites; the refresh goroutine converts the bitmap to
// RGBA frames for the output backend at 60Hz.
type VideoChip struct {
	mutex        sync.RWMutex
	output       VideoOutput
	enabled      bool
	rows         [DISPLAY_HEIGHT]uint64
	frameBuffer  []byte // Reused RGBA conversion buffer
	frameCounter uint64
	done         chan struct{}
	stopOnce     sync.Once
}

// NewVideoChip creates a video chip driving the given output backend.
func NewVideoChip(backend int) (*VideoChip, error) {
	output, err := NewVideoOutput(backend)
	if err != nil {
		return nil, fmt.Errorf("failed to create video output: %w", err)
	}
	return newVideoChip(output), nil
}

// newVideoChip wires an already-constructed output. A nil output is
// valid for benchmarks and tests that never start the refresh loop.
func newVideoChip(output VideoOutput) *VideoChip {
	return &VideoChip{
		output:      output,
		frameBuffer: make([]byte, DISPLAY_WIDTH*DISPLAY_HEIGHT*4),
		done:        make(chan struct{}),
	}
}

// DrawSprite XOR-blits an 8-wide sprite at (x, y) and reports whether
// any set pixel was erased. Coordinates wrap on both axes. The whole
// blit is one critical section so renderers never observe a half-drawn
// sprite.
func (chip *VideoChip) DrawSprite(x, y uint8, sprite []byte) bool {
	chip.mutex.Lock()
	defer chip.mutex.Unlock()

	collision := false
	shift := int(x) % DISPLAY_WIDTH
	for dy, b := range sprite {
		// Sprite bit 7 is the leftmost pixel; reverse so bit 0 lands
		// on column x, then rotate into position with wraparound.
		row := bits.RotateLeft64(uint64(bits.Reverse8(b)), shift)
		idx := (int(y) + dy) % DISPLAY_HEIGHT
		if chip.rows[idx]&row != 0 {
			collision = true
		}
		chip.rows[idx] ^= row
	}
	return collision
}

// ClearDisplay blanks the framebuffer.
func (chip *VideoChip) ClearDisplay() {
	chip.mutex.Lock()
	defer chip.mutex.Unlock()
	chip.rows = [DISPLAY_HEIGHT]uint64{}
}

// Snapshot returns a consistent copy of the row bitmaps.
func (chip *VideoChip) Snapshot() [DISPLAY_HEIGHT]uint64 {
	chip.mutex.RLock()
	defer chip.mutex.RUnlock()
	return chip.rows
}

// Pixel reports the pixel at (x, y) with wraparound.
func (chip *VideoChip) Pixel(x, y int) bool {
	chip.mutex.RLock()
	defer chip.mutex.RUnlock()
	return chip.rows[y%DISPLAY_HEIGHT]&(1<<(uint(x)%DISPLAY_WIDTH)) != 0
}

// Start brings up the output backend and the refresh loop.
func (chip *VideoChip) Start(config DisplayConfig) error {
	if chip.output == nil {
		return &VideoError{Operation: "start", Details: "no output backend attached"}
	}
	if err := chip.output.SetDisplayConfig(config); err != nil {
		return fmt.Errorf("failed to configure video output: %w", err)
	}
	if err := chip.output.Start(); err != nil {
		return fmt.Errorf("failed to start video output: %w", err)
	}

	chip.mutex.Lock()
	chip.enabled = true
	chip.mutex.Unlock()

	go chip.refreshLoop()
	return nil
}

func (chip *VideoChip) refreshLoop() {
	ticker := time.NewTicker(time.Second / TIMER_HZ)
	defer ticker.Stop()
	for {
		select {
		case <-chip.done:
			return
		case <-chip.output.Done():
			chip.Stop()
			return
		case <-ticker.C:
			chip.renderFrame()
		}
	}
}

// renderFrame converts the row bitmaps to RGBA and pushes the frame to
// the backend. Set pixels render black on a white canvas, matching the
// original display.
func (chip *VideoChip) renderFrame() {
	snapshot := chip.Snapshot()

	i := 0
	for y := 0; y < DISPLAY_HEIGHT; y++ {
		row := snapshot[y]
		for x := 0; x < DISPLAY_WIDTH; x++ {
			shade := byte(0xFF)
			if row&(1<<uint(x)) != 0 {
				shade = 0x00
			}
			chip.frameBuffer[i] = shade
			chip.frameBuffer[i+1] = shade
			chip.frameBuffer[i+2] = shade
			chip.frameBuffer[i+3] = 0xFF
			i += 4
		}
	}

	if err := chip.output.UpdateFrame(chip.frameBuffer); err != nil {
		fmt.Printf("Frame update error: %v\n", err)
	}

	chip.mutex.Lock()
	chip.frameCounter++
	chip.mutex.Unlock()
}

// Stop shuts down the refresh loop and the output backend.
func (chip *VideoChip) Stop() {
	chip.stopOnce.Do(func() {
		close(chip.done)
		chip.mutex.Lock()
		chip.enabled = false
		chip.mutex.Unlock()
		if chip.output != nil {
			if err := chip.output.Stop(); err != nil {
				fmt.Printf("Video output stop error: %v\n", err)
			}
		}
	})
}

// Done is closed when the chip has shut down.
func (chip *VideoChip) Done() <-chan struct{} {
	return chip.done
}

func (chip *VideoChip) Output() VideoOutput {
	return chip.output
}

func (chip *VideoChip) FrameCount() uint64 {
	chip.mutex.RLock()
	defer chip.mutex.RUnlock()
	return chip.frameCounter
}
