// audio_chip.go - Beeper sound chip for Intuition CHIP-8

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
	"sync"
)

const (
	SAMPLE_RATE = 44100

	// Single beeper voice, fixed tone
	BEEP_FREQUENCY = 200.0
	BEEP_VOLUME    = 0.2
)

// SoundChip is the beeper: a fixed-frequency square wave gated by the
// sound timer. The audio backend pulls samples from its own thread.
type SoundChip struct {
	mutex      sync.Mutex
	enabled    bool
	phase      float64
	phaseInc   float64
	volume     float32
	soundTimer *Timer
	output     AudioOutput
}

// NewSoundChip creates a sound chip gated by soundTimer, driving the
// given backend.
func NewSoundChip(backend int, soundTimer *Timer) (*SoundChip, error) {
	chip := &SoundChip{
		phaseInc:   BEEP_FREQUENCY / SAMPLE_RATE,
		volume:     BEEP_VOLUME,
		soundTimer: soundTimer,
	}
	output, err := NewAudioOutput(backend, SAMPLE_RATE, chip)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio output: %w", err)
	}
	chip.output = output
	return chip, nil
}

// newSoundChip builds a chip with no backend, for tests.
func newSoundChip(soundTimer *Timer) *SoundChip {
	return &SoundChip{
		phaseInc:   BEEP_FREQUENCY / SAMPLE_RATE,
		volume:     BEEP_VOLUME,
		soundTimer: soundTimer,
	}
}

// GenerateSample produces the next beeper sample. Silence unless the
// chip is started and the sound timer is running.
func (chip *SoundChip) GenerateSample() float32 {
	chip.mutex.Lock()
	defer chip.mutex.Unlock()

	if !chip.enabled || chip.soundTimer.Value() == 0 {
		return 0
	}

	sample := chip.volume
	if chip.phase >= 0.5 {
		sample = -chip.volume
	}
	chip.phase += chip.phaseInc
	if chip.phase >= 1.0 {
		chip.phase -= 1.0
	}
	return sample
}

// ReadSample is the backend-facing sample source.
func (chip *SoundChip) ReadSample() float32 {
	return chip.GenerateSample()
}

func (chip *SoundChip) Start() {
	chip.mutex.Lock()
	chip.enabled = true
	output := chip.output
	chip.mutex.Unlock()
	if output != nil {
		output.Start()
	}
}

func (chip *SoundChip) Stop() {
	chip.mutex.Lock()
	chip.enabled = false
	output := chip.output
	chip.mutex.Unlock()
	if output != nil {
		output.Stop()
	}
}

func (chip *SoundChip) IsEnabled() bool {
	chip.mutex.Lock()
	defer chip.mutex.Unlock()
	return chip.enabled
}
