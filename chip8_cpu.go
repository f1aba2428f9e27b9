// chip8_cpu.go - CHIP-8 CPU core

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
	"math/rand"
	"os"
	"sync/atomic"
	"time"
)

// CPU is the CHIP-8 interpreter core. It owns memory, registers and the
// call stack outright; timers, keypad and video chip are shared with
// other goroutines through their own synchronization.
type CPU struct {
	Memory [MEMORY_SIZE]byte
	V      [NUM_REGISTERS]uint8
	I      uint16
	PC     uint16
	Stack  []uint16

	DelayTimer *Timer
	SoundTimer *Timer

	keypad *KeyLatch
	video  *VideoChip

	clockHz int
	running atomic.Bool
	rng     *rand.Rand
	rom     []byte
}

func NewCPU(video *VideoChip, keypad *KeyLatch, delay, sound *Timer) *CPU {
	cpu := &CPU{
		Stack:      make([]uint16, 0, STACK_DEPTH),
		DelayTimer: delay,
		SoundTimer: sound,
		keypad:     keypad,
		video:      video,
		clockHz:    DEFAULT_CLOCK_HZ,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	copy(cpu.Memory[FONT_START:], fontROM[:])
	cpu.PC = PROG_START
	return cpu
}

// LoadProgram reads a ROM image from disk and loads it at PROG_START.
func (cpu *CPU) LoadProgram(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading program %s: %w", filename, err)
	}
	return cpu.LoadROM(data)
}

// LoadROM copies rom to PROG_START. The image is retained so Reset can
// restore it.
func (cpu *CPU) LoadROM(rom []byte) error {
	if len(rom) > MEMORY_SIZE-PROG_START {
		return fmt.Errorf("program too large: %d bytes exceeds %d available", len(rom), MEMORY_SIZE-PROG_START)
	}
	cpu.rom = append(cpu.rom[:0], rom...)
	copy(cpu.Memory[PROG_START:], rom)
	return nil
}

func (cpu *CPU) readMemory(addr uint16) uint8 {
	if int(addr) >= MEMORY_SIZE {
		panic(fmt.Sprintf("memory read out of bounds: 0x%04X", addr))
	}
	return cpu.Memory[addr]
}

func (cpu *CPU) writeMemory(addr uint16, value uint8) {
	if int(addr) >= MEMORY_SIZE {
		panic(fmt.Sprintf("memory write out of bounds: 0x%04X", addr))
	}
	cpu.Memory[addr] = value
}

func (cpu *CPU) register(r uint8) uint8 {
	if r >= NUM_REGISTERS {
		panic(fmt.Sprintf("register read out of range: V%X", r))
	}
	return cpu.V[r]
}

func (cpu *CPU) setRegister(r, value uint8) {
	if r >= NUM_REGISTERS {
		panic(fmt.Sprintf("register write out of range: V%X", r))
	}
	cpu.V[r] = value
}

func (cpu *CPU) setFlag(value uint8) {
	cpu.V[FLAG_REGISTER] = value
}

func (cpu *CPU) push(addr uint16) {
	if len(cpu.Stack) >= STACK_DEPTH {
		panic(fmt.Sprintf("stack overflow: call depth exceeds %d", STACK_DEPTH))
	}
	cpu.Stack = append(cpu.Stack, addr)
}

func (cpu *CPU) pop() uint16 {
	if len(cpu.Stack) == 0 {
		panic("stack underflow: return with empty call stack")
	}
	addr := cpu.Stack[len(cpu.Stack)-1]
	cpu.Stack = cpu.Stack[:len(cpu.Stack)-1]
	return addr
}

// skipIf advances PC past the next instruction when cond holds.
func (cpu *CPU) skipIf(cond bool) {
	if cond {
		cpu.PC += 2
	}
}

// ExecuteOpcode fetches and executes a single instruction. PC is
// advanced past the instruction before dispatch, so jumps overwrite it
// and the wait-for-key instruction retries by rolling it back.
func (cpu *CPU) ExecuteOpcode() {
	byte1 := cpu.readMemory(cpu.PC)
	byte2 := cpu.readMemory(cpu.PC + 1)
	cpu.PC += 2

	address := (uint16(byte1&0x0F) << 8) | uint16(byte2)
	registerX := byte1 & 0x0F
	registerY := (byte2 & 0xF0) >> 4
	lastNibble := byte2 & 0x0F

	switch byte1 >> 4 {
	case 0x0:
		switch byte2 {
		case 0xE0:
			cpu.video.ClearDisplay()
		case 0xEE:
			cpu.PC = cpu.pop()
		default:
			// Legacy machine-code call, treated as an ordinary call.
			cpu.push(cpu.PC)
			cpu.PC = address
		}
	case 0x1:
		cpu.PC = address
	case 0x2:
		cpu.push(cpu.PC)
		cpu.PC = address
	case 0x3:
		cpu.skipIf(cpu.register(registerX) == byte2)
	case 0x4:
		cpu.skipIf(cpu.register(registerX) != byte2)
	case 0x5:
		if lastNibble != 0 {
			cpu.badOpcode(byte1, byte2)
		}
		cpu.skipIf(cpu.register(registerX) == cpu.register(registerY))
	case 0x6:
		cpu.setRegister(registerX, byte2)
	case 0x7:
		cpu.setRegister(registerX, cpu.register(registerX)+byte2)
	case 0x8:
		cpu.executeMath(lastNibble, registerX, registerY)
	case 0x9:
		if lastNibble != 0 {
			cpu.badOpcode(byte1, byte2)
		}
		cpu.skipIf(cpu.register(registerX) != cpu.register(registerY))
	case 0xA:
		cpu.I = address
	case 0xB:
		cpu.PC = uint16(cpu.register(0)) + address
	case 0xC:
		cpu.setRegister(registerX, uint8(cpu.rng.Intn(256))&byte2)
	case 0xD:
		cpu.drawSprite(registerX, registerY, lastNibble)
	case 0xE:
		switch byte2 {
		case 0x9E:
			cpu.skipIf(cpu.keypad.Pressed(cpu.register(registerX)))
		case 0xA1:
			cpu.skipIf(!cpu.keypad.Pressed(cpu.register(registerX)))
		default:
			cpu.badOpcode(byte1, byte2)
		}
	case 0xF:
		cpu.executeMisc(byte2, registerX)
	}
}

// executeMath handles the 8XYN register-to-register group. The flag is
// written before the result so that an instruction naming VF as its
// destination leaves the result, not the flag, in VF.
func (cpu *CPU) executeMath(op, rx, ry uint8) {
	x := cpu.register(rx)
	y := cpu.register(ry)

	switch op {
	case 0x0:
		cpu.setRegister(rx, y)
	case 0x1:
		cpu.setRegister(rx, x|y)
	case 0x2:
		cpu.setRegister(rx, x&y)
	case 0x3:
		cpu.setRegister(rx, x^y)
	case 0x4:
		sum := uint16(x) + uint16(y)
		cpu.setFlag(btou8(sum > 0xFF))
		cpu.setRegister(rx, uint8(sum))
	case 0x5:
		cpu.setFlag(btou8(x >= y))
		cpu.setRegister(rx, x-y)
	case 0x6:
		cpu.setFlag(x & 0x01)
		cpu.setRegister(rx, x>>1)
	case 0x7:
		cpu.setFlag(btou8(y >= x))
		cpu.setRegister(rx, y-x)
	case 0xE:
		cpu.setFlag((x & 0x80) >> 7)
		cpu.setRegister(rx, x<<1)
	default:
		cpu.badOpcode(0x80|rx, (ry<<4)|op)
	}
}

// executeMisc handles the FXNN group.
func (cpu *CPU) executeMisc(op, rx uint8) {
	switch op {
	case 0x07:
		cpu.setRegister(rx, cpu.DelayTimer.Value())
	case 0x0A:
		if code, ok := cpu.keypad.Take(); ok {
			cpu.setRegister(rx, code)
		} else {
			// No key yet: retry this instruction next cycle.
			cpu.PC -= 2
		}
	case 0x15:
		cpu.DelayTimer.Set(cpu.register(rx))
	case 0x18:
		cpu.SoundTimer.SetFloor(cpu.register(rx), MIN_SOUND_TICKS)
	case 0x1E:
		cpu.I += uint16(cpu.register(rx))
	case 0x29:
		cpu.I = FONT_START + uint16(cpu.register(rx)&0x0F)*FONT_BYTES
	case 0x33:
		value := cpu.register(rx)
		cpu.writeMemory(cpu.I, value/100)
		cpu.writeMemory(cpu.I+1, (value/10)%10)
		cpu.writeMemory(cpu.I+2, value%10)
	case 0x55:
		for r := uint8(0); r <= rx; r++ {
			cpu.writeMemory(cpu.I+uint16(r), cpu.register(r))
		}
	case 0x65:
		for r := uint8(0); r <= rx; r++ {
			cpu.setRegister(r, cpu.readMemory(cpu.I+uint16(r)))
		}
	default:
		cpu.badOpcode(0xF0|rx, op)
	}
}

// drawSprite executes DXYN: XOR-blit an n-row sprite at (VX, VY),
// setting VF to the collision flag.
func (cpu *CPU) drawSprite(rx, ry, n uint8) {
	var sprite [16]byte
	for row := uint8(0); row < n; row++ {
		sprite[row] = cpu.readMemory(cpu.I + uint16(row))
	}
	collision := cpu.video.DrawSprite(cpu.register(rx), cpu.register(ry), sprite[:n])
	cpu.setFlag(btou8(collision))
}

func (cpu *CPU) badOpcode(byte1, byte2 uint8) {
	panic(fmt.Sprintf("illegal opcode 0x%02X%02X at 0x%04X", byte1, byte2, cpu.PC-2))
}

// Execute runs the fetch/execute loop at the configured clock rate
// until Stop is called. Pacing is deadline based so bursts of fast
// instructions do not drift the average rate.
func (cpu *CPU) Execute() {
	cpu.running.Store(true)
	period := time.Second / time.Duration(cpu.clockHz)
	next := time.Now()
	for cpu.running.Load() {
		cpu.ExecuteOpcode()
		next = next.Add(period)
		if d := time.Until(next); d > 0 {
			time.Sleep(d)
		} else {
			next = time.Now()
		}
	}
}

func (cpu *CPU) Stop() {
	cpu.running.Store(false)
}

func (cpu *CPU) IsRunning() bool {
	return cpu.running.Load()
}

// SetClockRate sets the execution rate in instructions per second.
// Takes effect the next time Execute starts.
func (cpu *CPU) SetClockRate(hz int) {
	if hz < 1 {
		hz = 1
	}
	cpu.clockHz = hz
}

func (cpu *CPU) ClockRate() int {
	return cpu.clockHz
}

// Reset returns the machine to power-on state and reloads the held ROM.
func (cpu *CPU) Reset() {
	cpu.Stop()
	time.Sleep(RESET_DELAY)

	cpu.Memory = [MEMORY_SIZE]byte{}
	cpu.V = [NUM_REGISTERS]uint8{}
	cpu.I = 0
	cpu.PC = PROG_START
	cpu.Stack = cpu.Stack[:0]
	cpu.DelayTimer.Set(0)
	cpu.SoundTimer.Set(0)
	cpu.keypad.Release()

	copy(cpu.Memory[FONT_START:], fontROM[:])
	copy(cpu.Memory[PROG_START:], cpu.rom)
	cpu.video.ClearDisplay()
}
