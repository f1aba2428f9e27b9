// chip8_test_helpers_test.go - shared test fixtures

package main

import "testing"

type testMachine struct {
	cpu    *CPU
	video  *VideoChip
	keypad *KeyLatch
	delay  *Timer
	sound  *Timer
}

// newTestMachine builds a full machine with no output backends.
func newTestMachine(t *testing.T) *testMachine {
	t.Helper()
	video := newVideoChip(nil)
	keypad := NewKeyLatch()
	var delay, sound Timer
	cpu := NewCPU(video, keypad, &delay, &sound)
	return &testMachine{
		cpu:    cpu,
		video:  video,
		keypad: keypad,
		delay:  &delay,
		sound:  &sound,
	}
}

// loadOpcodes places instruction words at the program start.
func (m *testMachine) loadOpcodes(t *testing.T, words ...uint16) {
	t.Helper()
	rom := make([]byte, 0, len(words)*2)
	for _, w := range words {
		rom = append(rom, byte(w>>8), byte(w))
	}
	if err := m.cpu.LoadROM(rom); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
}

// step executes n instructions.
func (m *testMachine) step(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		m.cpu.ExecuteOpcode()
	}
}

// mustPanic runs fn and fails the test unless it panics.
func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic, got none", name)
		}
	}()
	fn()
}
