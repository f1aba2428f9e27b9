// video_chip_test.go - framebuffer blit semantics tests

package main

import "testing"

func TestDrawSpriteXORIsSelfInverse(t *testing.T) {
	chip := newVideoChip(nil)
	sprite := []byte{0xFF, 0x81, 0xFF}

	if collision := chip.DrawSprite(10, 5, sprite); collision {
		t.Error("collision reported on blank display")
	}
	if !chip.Pixel(10, 5) {
		t.Error("pixel (10,5) not set")
	}
	if collision := chip.DrawSprite(10, 5, sprite); !collision {
		t.Error("no collision reported on overdraw")
	}
	if chip.Snapshot() != ([DISPLAY_HEIGHT]uint64{}) {
		t.Error("display not blank after double draw")
	}
}

func TestDrawSpritePixelLayout(t *testing.T) {
	chip := newVideoChip(nil)
	// 0x80: only the leftmost sprite pixel set
	chip.DrawSprite(3, 7, []byte{0x80})
	if !chip.Pixel(3, 7) {
		t.Error("leftmost sprite bit did not land on column x")
	}
	for x := 4; x < 11; x++ {
		if chip.Pixel(x, 7) {
			t.Errorf("unexpected pixel at (%d,7)", x)
		}
	}
}

func TestDrawSpriteWrapsHorizontally(t *testing.T) {
	chip := newVideoChip(nil)
	// 8 pixels starting at x=60 wrap to columns 60..63 and 0..3
	chip.DrawSprite(60, 0, []byte{0xFF})
	for _, x := range []int{60, 61, 62, 63, 0, 1, 2, 3} {
		if !chip.Pixel(x, 0) {
			t.Errorf("pixel (%d,0) not set after wrap", x)
		}
	}
	if chip.Pixel(4, 0) || chip.Pixel(59, 0) {
		t.Error("wrap bled into unrelated columns")
	}
}

func TestDrawSpriteWrapsVertically(t *testing.T) {
	chip := newVideoChip(nil)
	chip.DrawSprite(0, 30, []byte{0x80, 0x80, 0x80, 0x80})
	for _, y := range []int{30, 31, 0, 1} {
		if !chip.Pixel(0, y) {
			t.Errorf("pixel (0,%d) not set after wrap", y)
		}
	}
}

func TestDrawSpriteCoordinatesReduced(t *testing.T) {
	chip := newVideoChip(nil)
	chip.DrawSprite(64+5, 32+3, []byte{0x80})
	if !chip.Pixel(5, 3) {
		t.Error("coordinates not reduced modulo display size")
	}
}

func TestPartialOverlapCollision(t *testing.T) {
	chip := newVideoChip(nil)
	chip.DrawSprite(0, 0, []byte{0xF0})
	if collision := chip.DrawSprite(2, 0, []byte{0xF0}); !collision {
		t.Error("overlapping draw did not report collision")
	}
	// XOR: overlapping pixels erased, rest set
	if chip.Pixel(2, 0) || chip.Pixel(3, 0) {
		t.Error("overlapped pixels not erased")
	}
	if !chip.Pixel(0, 0) || !chip.Pixel(5, 0) {
		t.Error("non-overlapping pixels lost")
	}
}

func TestClearDisplay(t *testing.T) {
	chip := newVideoChip(nil)
	chip.DrawSprite(0, 0, []byte{0xFF, 0xFF})
	chip.ClearDisplay()
	if chip.Snapshot() != ([DISPLAY_HEIGHT]uint64{}) {
		t.Error("display not blank after clear")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	chip := newVideoChip(nil)
	chip.DrawSprite(0, 0, []byte{0xFF})
	snapshot := chip.Snapshot()
	chip.ClearDisplay()
	if snapshot[0] == 0 {
		t.Error("snapshot mutated by later clear")
	}
}
