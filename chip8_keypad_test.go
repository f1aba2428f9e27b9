// chip8_keypad_test.go

package main

import "testing"

func TestKeyLatchPressAndTake(t *testing.T) {
	latch := NewKeyLatch()
	if _, ok := latch.Take(); ok {
		t.Error("empty latch yielded a key")
	}

	latch.Press(0xB)
	code, ok := latch.Take()
	if !ok || code != 0xB {
		t.Errorf("Take = (%X, %v), want (B, true)", code, ok)
	}
	if _, ok := latch.Take(); ok {
		t.Error("Take did not consume the key")
	}
}

func TestKeyLatchPressed(t *testing.T) {
	latch := NewKeyLatch()
	latch.Press(0x5)
	if !latch.Pressed(0x5) {
		t.Error("Pressed(5) = false for latched key")
	}
	if latch.Pressed(0x6) {
		t.Error("Pressed(6) = true for different key")
	}
	// Pressed must not consume
	if !latch.Pressed(0x5) {
		t.Error("Pressed consumed the latch")
	}
}

func TestKeyLatchRelease(t *testing.T) {
	latch := NewKeyLatch()
	latch.Press(0x1)
	latch.Release()
	if latch.Pressed(0x1) {
		t.Error("key still pressed after release")
	}
}

func TestKeyLatchNewPressReplacesOld(t *testing.T) {
	latch := NewKeyLatch()
	latch.Press(0x1)
	latch.Press(0x2)
	if latch.Pressed(0x1) {
		t.Error("old key still latched")
	}
	if !latch.Pressed(0x2) {
		t.Error("new key not latched")
	}
}

func TestKeyLatchMasksToNibble(t *testing.T) {
	latch := NewKeyLatch()
	latch.Press(0x1F)
	if !latch.Pressed(0xF) {
		t.Error("key code not masked to low nibble")
	}
}
