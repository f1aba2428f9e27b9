// chip8_keypad.go - 16-key hex keypad latch

package main

import "sync"

// KeyLatch holds at most one pending hex key (0x0-0xF). Backends press
// and release keys from their input threads; the CPU polls or consumes
// the latch from its own goroutine.
type KeyLatch struct {
	mu      sync.Mutex
	code    uint8
	present bool
}

func NewKeyLatch() *KeyLatch {
	return &KeyLatch{}
}

func (k *KeyLatch) Press(code uint8) {
	k.mu.Lock()
	k.code = code & 0x0F
	k.present = true
	k.mu.Unlock()
}

func (k *KeyLatch) Release() {
	k.mu.Lock()
	k.present = false
	k.mu.Unlock()
}

// Pressed reports whether code is currently latched without consuming it.
func (k *KeyLatch) Pressed(code uint8) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.present && k.code == code&0x0F
}

// Take consumes the latched key if one is present. Consuming means a
// held key satisfies exactly one wait-for-key instruction.
func (k *KeyLatch) Take() (uint8, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.present {
		return 0, false
	}
	k.present = false
	return k.code, true
}
