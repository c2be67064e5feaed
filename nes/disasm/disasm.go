package disasm

import (
	"fmt"
	"strings"

	"github.com/valerio/go-nes/nes/bit"
	"github.com/valerio/go-nes/nes/cpu"
)

// Reader reads memory without side effects. Reading PPU or APU registers
// through a reader that has side effects will disturb the emulation.
type Reader interface {
	Read(address uint16) byte
}

// DisassemblyLine represents a single disassembled instruction
type DisassemblyLine struct {
	Address     uint16
	Bytes       []byte
	Instruction string
	Length      int
	Official    bool
}

// DisassembleAt disassembles the instruction at the given program counter
func DisassembleAt(pc uint16, mem Reader) DisassemblyLine {
	opcode := mem.Read(pc)
	info := cpu.Describe(opcode)

	raw := make([]byte, info.Bytes)
	for i := range raw {
		raw[i] = mem.Read(pc + uint16(i))
	}

	return DisassemblyLine{
		Address:     pc,
		Bytes:       raw,
		Instruction: info.Name + operandString(pc, info, raw),
		Length:      info.Bytes,
		Official:    info.Official,
	}
}

func operandString(pc uint16, info cpu.Info, raw []byte) string {
	var n uint8
	var nn uint16
	if len(raw) > 1 {
		n = raw[1]
	}
	if len(raw) > 2 {
		nn = bit.Combine(raw[2], raw[1])
	}

	switch info.Mode {
	case cpu.Accumulator:
		return " A"
	case cpu.Immediate:
		return fmt.Sprintf(" #$%02X", n)
	case cpu.ZeroPage:
		return fmt.Sprintf(" $%02X", n)
	case cpu.ZeroPageX:
		return fmt.Sprintf(" $%02X,X", n)
	case cpu.ZeroPageY:
		return fmt.Sprintf(" $%02X,Y", n)
	case cpu.Absolute:
		return fmt.Sprintf(" $%04X", nn)
	case cpu.AbsoluteX:
		return fmt.Sprintf(" $%04X,X", nn)
	case cpu.AbsoluteY:
		return fmt.Sprintf(" $%04X,Y", nn)
	case cpu.Relative:
		return fmt.Sprintf(" $%04X", pc+2+uint16(int8(n)))
	case cpu.Indirect:
		return fmt.Sprintf(" ($%04X)", nn)
	case cpu.IndexedIndirect:
		return fmt.Sprintf(" ($%02X,X)", n)
	case cpu.IndirectIndexed:
		return fmt.Sprintf(" ($%02X),Y", n)
	default:
		return ""
	}
}

// DisassembleRange disassembles multiple instructions starting from the given PC
func DisassembleRange(startPC uint16, count int, mem Reader) []DisassemblyLine {
	lines := make([]DisassemblyLine, 0, count)
	pc := startPC

	for i := 0; i < count; i++ {
		line := DisassembleAt(pc, mem)
		lines = append(lines, line)
		pc += uint16(line.Length)
	}

	return lines
}

// DisassembleAround disassembles instructions around the given PC.
// Instructions are variable length, so the start is found by decoding forward
// from candidate addresses until one lands exactly on currentPC.
func DisassembleAround(currentPC uint16, beforeCount, afterCount int, mem Reader) []DisassemblyLine {
	for offset := beforeCount * 3; offset > 0; offset-- {
		if uint16(offset) > currentPC {
			continue
		}
		start := currentPC - uint16(offset)

		pc := start
		count := 0
		for pc < currentPC {
			pc += uint16(DisassembleAt(pc, mem).Length)
			count++
		}
		if pc == currentPC && count == beforeCount {
			return DisassembleRange(start, count+1+afterCount, mem)
		}
	}

	return DisassembleRange(currentPC, 1+afterCount, mem)
}

// FormatDisassemblyLine formats a disassembly line for display
func FormatDisassemblyLine(line DisassemblyLine, isCurrentPC bool) string {
	prefix := " "
	if isCurrentPC {
		prefix = ">"
	}

	return fmt.Sprintf("%s$%04X: %-8s %s", prefix, line.Address, hexBytes(line.Bytes), line.Instruction)
}

func hexBytes(raw []byte) string {
	parts := make([]string, len(raw))
	for i, b := range raw {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, " ")
}
