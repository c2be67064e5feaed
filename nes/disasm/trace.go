package disasm

import (
	"fmt"
)

// Registers is a snapshot of the CPU state before an instruction executes.
type Registers struct {
	PC     uint16
	A      uint8
	X      uint8
	Y      uint8
	P      uint8
	SP     uint8
	Cycles uint64
}

// Trace renders one line in the nestest.log layout:
//
//	C000  4C F5 C5  JMP $C5F5                       A:00 X:00 Y:00 P:24 SP:FD CYC:7
//
// Undocumented opcodes are marked with a '*' before the mnemonic.
func Trace(regs Registers, mem Reader) string {
	line := DisassembleAt(regs.PC, mem)

	marker := " "
	if !line.Official {
		marker = "*"
	}

	return fmt.Sprintf("%04X  %-8s %s%-31s A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d",
		regs.PC, hexBytes(line.Bytes), marker, line.Instruction,
		regs.A, regs.X, regs.Y, regs.P, regs.SP, regs.Cycles)
}
