//go:build !windows && !headless

// video_backend_terminal.go - ANSI terminal video backend for Intuition CHIP-8

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
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/term"
)

// keyHoldWindow is how long a terminal keystroke is treated as held.
// Terminals deliver no key-up events, so releases are synthesized.
const keyHoldWindow = 150 * time.Millisecond

// terminalKeypadMap mirrors the windowed backend's keyboard block.
var terminalKeypadMap = map[byte]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// TerminalOutput renders the display with half-block glyphs, packing
// two pixel rows into each text row. Keypad input comes from raw-mode
// stdin.
type TerminalOutput struct {
	mutex      sync.RWMutex
	started    bool
	config     DisplayConfig
	frameCount uint64
	done       chan struct{}
	stopOnce   sync.Once

	oldState *term.State

	keypadHandler func(code uint8, pressed bool)
	quitHandler   func()

	releaseMutex  sync.Mutex
	releaseTimers map[uint8]*time.Timer
}

func NewTerminalOutput() (VideoOutput, error) {
	return &TerminalOutput{
		config: DisplayConfig{
			Width:       DISPLAY_WIDTH,
			Height:      DISPLAY_HEIGHT,
			RefreshRate: 60,
			PixelFormat: PixelFormatRGBA,
		},
		done:          make(chan struct{}),
		releaseTimers: make(map[uint8]*time.Timer),
	}, nil
}

func (to *TerminalOutput) Start() error {
	to.mutex.Lock()
	defer to.mutex.Unlock()
	if to.started {
		return nil
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return &VideoError{Operation: "terminal start", Details: "cannot enter raw mode", Err: err}
	}
	to.oldState = oldState
	if err := syscall.SetNonblock(fd, true); err != nil {
		_ = term.Restore(fd, oldState)
		return &VideoError{Operation: "terminal start", Details: "cannot set stdin non-blocking", Err: err}
	}

	// Hide cursor, clear screen
	fmt.Print("\x1b[?25l\x1b[2J")

	to.started = true
	go to.readLoop(fd)
	return nil
}

func (to *TerminalOutput) readLoop(fd int) {
	buf := make([]byte, 1)
	for {
		select {
		case <-to.done:
			return
		default:
		}

		n, err := syscall.Read(fd, buf)
		if n <= 0 || err != nil {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		to.handleKey(buf[0])
	}
}

func (to *TerminalOutput) handleKey(b byte) {
	// ESC or Ctrl-C quits
	if b == 0x1B || b == 0x03 {
		to.mutex.RLock()
		quit := to.quitHandler
		to.mutex.RUnlock()
		if quit != nil {
			quit()
		}
		to.Stop()
		return
	}

	if b >= 'A' && b <= 'Z' {
		b += 'a' - 'A'
	}
	code, ok := terminalKeypadMap[b]
	if !ok {
		return
	}

	to.mutex.RLock()
	handler := to.keypadHandler
	to.mutex.RUnlock()
	if handler == nil {
		return
	}
	handler(code, true)

	// Restart the synthetic release timer for this key.
	to.releaseMutex.Lock()
	if timer, ok := to.releaseTimers[code]; ok {
		timer.Stop()
	}
	to.releaseTimers[code] = time.AfterFunc(keyHoldWindow, func() {
		handler(code, false)
	})
	to.releaseMutex.Unlock()
}

func (to *TerminalOutput) Stop() error {
	to.stopOnce.Do(func() {
		to.mutex.Lock()
		to.started = false
		if to.oldState != nil {
			_ = term.Restore(int(os.Stdin.Fd()), to.oldState)
			_ = syscall.SetNonblock(int(os.Stdin.Fd()), false)
		}
		to.mutex.Unlock()

		to.releaseMutex.Lock()
		for _, timer := range to.releaseTimers {
			timer.Stop()
		}
		to.releaseMutex.Unlock()

		// Show cursor again, move below the display
		fmt.Print("\x1b[?25h\x1b[0m\n")
		close(to.done)
	})
	return nil
}

func (to *TerminalOutput) Close() error {
	return to.Stop()
}

func (to *TerminalOutput) IsStarted() bool {
	to.mutex.RLock()
	defer to.mutex.RUnlock()
	return to.started
}

func (to *TerminalOutput) Done() <-chan struct{} {
	return to.done
}

func (to *TerminalOutput) SetDisplayConfig(config DisplayConfig) error {
	to.mutex.Lock()
	to.config = config
	to.mutex.Unlock()
	return nil
}

func (to *TerminalOutput) GetDisplayConfig() DisplayConfig {
	to.mutex.RLock()
	defer to.mutex.RUnlock()
	return to.config
}

// UpdateFrame renders RGBA pixels as half-block glyphs: each text cell
// covers a pixel and the one below it. Dark pixels are "on", matching
// the black-on-white frame conversion.
func (to *TerminalOutput) UpdateFrame(buffer []byte) error {
	to.mutex.RLock()
	width := to.config.Width
	height := to.config.Height
	to.mutex.RUnlock()
	if width <= 0 {
		width = DISPLAY_WIDTH
	}
	if height <= 0 {
		height = DISPLAY_HEIGHT
	}
	if len(buffer) < width*height*4 {
		return &VideoError{Operation: "frame update", Details: "buffer smaller than configured display"}
	}

	var sb strings.Builder
	sb.Grow(width*height*2 + 64)
	sb.WriteString("\x1b[H")
	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			top := buffer[(y*width+x)*4] < 0x80
			bottom := false
			if y+1 < height {
				bottom = buffer[((y+1)*width+x)*4] < 0x80
			}
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("\r\n")
	}
	fmt.Print(sb.String())

	atomic.AddUint64(&to.frameCount, 1)
	return nil
}

func (to *TerminalOutput) WaitForVSync() error {
	return nil
}

func (to *TerminalOutput) GetFrameCount() uint64 {
	return atomic.LoadUint64(&to.frameCount)
}

func (to *TerminalOutput) GetRefreshRate() int {
	to.mutex.RLock()
	defer to.mutex.RUnlock()
	if to.config.RefreshRate == 0 {
		return 60
	}
	return to.config.RefreshRate
}

func (to *TerminalOutput) SetKeypadHandler(fn func(code uint8, pressed bool)) {
	to.mutex.Lock()
	to.keypadHandler = fn
	to.mutex.Unlock()
}

func (to *TerminalOutput) SetQuitHandler(fn func()) {
	to.mutex.Lock()
	to.quitHandler = fn
	to.mutex.Unlock()
}

func init() {
	compiledFeatures = append(compiledFeatures, "video: ANSI terminal backend")
}
