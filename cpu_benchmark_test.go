// cpu_benchmark_test.go

package main

import "testing"

func benchmarkMachine(b *testing.B, words ...uint16) *CPU {
	b.Helper()
	video := newVideoChip(nil)
	keypad := NewKeyLatch()
	var delay, sound Timer
	cpu := NewCPU(video, keypad, &delay, &sound)
	rom := make([]byte, 0, len(words)*2)
	for _, w := range words {
		rom = append(rom, byte(w>>8), byte(w))
	}
	if err := cpu.LoadROM(rom); err != nil {
		b.Fatalf("LoadROM: %v", err)
	}
	return cpu
}

func BenchmarkExecuteSelfJump(b *testing.B) {
	cpu := benchmarkMachine(b, 0x1200)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cpu.ExecuteOpcode()
	}
}

func BenchmarkExecuteMathLoop(b *testing.B) {
	// add, xor, shift, then jump back
	cpu := benchmarkMachine(b, 0x8124, 0x8123, 0x8106, 0x1200)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cpu.ExecuteOpcode()
	}
}

func BenchmarkDrawSprite(b *testing.B) {
	chip := newVideoChip(nil)
	sprite := []byte{0xF0, 0x90, 0x90, 0x90, 0xF0}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		chip.DrawSprite(uint8(i), uint8(i), sprite)
	}
}

func BenchmarkGenerateSample(b *testing.B) {
	var soundTimer Timer
	soundTimer.Set(255)
	chip := newSoundChip(&soundTimer)
	chip.Start()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		chip.GenerateSample()
	}
}
