// debug_disasm_chip8.go - CHIP-8 ROM disassembler

package main

import (
	"fmt"
	"io"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Disassemble writes a listing of rom to w, one instruction per line:
// memory address, raw bytes, mnemonic and operands. Words that match no
// opcode are emitted as data.
func Disassemble(rom []byte, w io.Writer) error {
	for offset := 0; offset+1 < len(rom); offset += 2 {
		addr := PROG_START + offset
		word := uint16(rom[offset])<<8 | uint16(rom[offset+1])

		instruction := lookupOpcode(word)
		if instruction == nil {
			if _, err := fmt.Fprintf(w, "%04X  %04X  .dw $%04X\n", addr, word, word); err != nil {
				return err
			}
			continue
		}

		line := instruction.Name
		if params := formatParams(instruction.Name, word); params != "" {
			line = fmt.Sprintf("%s %s", line, params)
		}
		if _, err := fmt.Fprintf(w, "%04X  %04X  %s\n", addr, word, line); err != nil {
			return err
		}
	}

	if len(rom)%2 != 0 {
		addr := PROG_START + len(rom) - 1
		if _, err := fmt.Fprintf(w, "%04X  %02X    .db $%02X\n", addr, rom[len(rom)-1], rom[len(rom)-1]); err != nil {
			return err
		}
	}
	return nil
}

// lookupOpcode matches a word against the opcode tables for its first
// nibble.
func lookupOpcode(word uint16) *chip8.Instruction {
	firstNibble := (word & 0xF000) >> 12
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Info.Mask&word == op.Info.Value {
			return op.Instruction
		}
	}
	return nil
}

// formatParams renders the operand field for an instruction. Mnemonics
// follow the conventional CHIP-8 assembly forms.
func formatParams(name string, word uint16) string {
	x := (word & 0x0F00) >> 8
	y := (word & 0x00F0) >> 4
	nn := word & 0x00FF
	nnn := word & 0x0FFF

	switch name {
	case chip8.ClsInst.Name, chip8.RetInst.Name:
		return ""
	case chip8.JpInst.Name:
		if word&0xF000 == 0xB000 {
			return fmt.Sprintf("V0, $%03X", nnn)
		}
		return fmt.Sprintf("$%03X", nnn)
	case chip8.CallInst.Name:
		return fmt.Sprintf("$%03X", nnn)
	case chip8.SeInst.Name, chip8.SneInst.Name:
		if word&0xF000 == 0x5000 || word&0xF000 == 0x9000 {
			return fmt.Sprintf("V%X, V%X", x, y)
		}
		return fmt.Sprintf("V%X, $%02X", x, nn)
	case chip8.LdInst.Name:
		return formatLoadParams(word, x, y, nn, nnn)
	case chip8.AddInst.Name:
		switch word & 0xF000 {
		case 0x7000:
			return fmt.Sprintf("V%X, $%02X", x, nn)
		case 0x8000:
			return fmt.Sprintf("V%X, V%X", x, y)
		default: // FX1E
			return fmt.Sprintf("I, V%X", x)
		}
	case chip8.OrInst.Name, chip8.AndInst.Name, chip8.XorInst.Name, chip8.SubInst.Name, chip8.SubnInst.Name:
		return fmt.Sprintf("V%X, V%X", x, y)
	case chip8.ShrInst.Name, chip8.ShlInst.Name:
		return fmt.Sprintf("V%X", x)
	case chip8.RndInst.Name:
		return fmt.Sprintf("V%X, $%02X", x, nn)
	case chip8.DrwInst.Name:
		return fmt.Sprintf("V%X, V%X, $%X", x, y, word&0x000F)
	case chip8.SkpInst.Name, chip8.SknpInst.Name:
		return fmt.Sprintf("V%X", x)
	}
	return ""
}

// formatLoadParams covers the many LD addressing forms.
func formatLoadParams(word, x, y, nn, nnn uint16) string {
	switch word & 0xF000 {
	case 0x6000:
		return fmt.Sprintf("V%X, $%02X", x, nn)
	case 0x8000:
		return fmt.Sprintf("V%X, V%X", x, y)
	case 0xA000:
		return fmt.Sprintf("I, $%03X", nnn)
	case 0xF000:
		switch nn {
		case 0x07:
			return fmt.Sprintf("V%X, DT", x)
		case 0x0A:
			return fmt.Sprintf("V%X, K", x)
		case 0x15:
			return fmt.Sprintf("DT, V%X", x)
		case 0x18:
			return fmt.Sprintf("ST, V%X", x)
		case 0x29:
			return fmt.Sprintf("F, V%X", x)
		case 0x33:
			return fmt.Sprintf("B, V%X", x)
		case 0x55:
			return fmt.Sprintf("[I], V%X", x)
		case 0x65:
			return fmt.Sprintf("V%X, [I]", x)
		}
	}
	return ""
}
