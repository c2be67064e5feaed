package cpu

import "fmt"

// instruction is one entry of the 256 opcode dispatch table
type instruction struct {
	name      string
	mode      AddressingMode
	execute   operation
	cycles    int
	pageCycle bool // one extra cycle when indexing crosses a page
}

// Info describes an opcode for disassembly and tracing.
type Info struct {
	Name  string
	Mode  AddressingMode
	Bytes int
	// Official is false for undocumented opcodes.
	Official bool
}

// Describe returns the table entry for an opcode.
func Describe(opcode uint8) Info {
	inst := instructions[opcode]
	return Info{
		Name:     inst.name,
		Mode:     inst.mode,
		Bytes:    1 + inst.mode.OperandBytes(),
		Official: officialOpcodes[opcode],
	}
}

const (
	imp = Implied
	acc = Accumulator
	imm = Immediate
	zp  = ZeroPage
	zpx = ZeroPageX
	zpy = ZeroPageY
	abs = Absolute
	abx = AbsoluteX
	aby = AbsoluteY
	rel = Relative
	ind = Indirect
	izx = IndexedIndirect
	izy = IndirectIndexed
)

var opcodeNames = [256]string{
	"BRK", "ORA", "KIL", "SLO", "NOP", "ORA", "ASL", "SLO", "PHP", "ORA", "ASL", "ANC", "NOP", "ORA", "ASL", "SLO",
	"BPL", "ORA", "KIL", "SLO", "NOP", "ORA", "ASL", "SLO", "CLC", "ORA", "NOP", "SLO", "NOP", "ORA", "ASL", "SLO",
	"JSR", "AND", "KIL", "RLA", "BIT", "AND", "ROL", "RLA", "PLP", "AND", "ROL", "ANC", "BIT", "AND", "ROL", "RLA",
	"BMI", "AND", "KIL", "RLA", "NOP", "AND", "ROL", "RLA", "SEC", "AND", "NOP", "RLA", "NOP", "AND", "ROL", "RLA",
	"RTI", "EOR", "KIL", "SRE", "NOP", "EOR", "LSR", "SRE", "PHA", "EOR", "LSR", "ALR", "JMP", "EOR", "LSR", "SRE",
	"BVC", "EOR", "KIL", "SRE", "NOP", "EOR", "LSR", "SRE", "CLI", "EOR", "NOP", "SRE", "NOP", "EOR", "LSR", "SRE",
	"RTS", "ADC", "KIL", "RRA", "NOP", "ADC", "ROR", "RRA", "PLA", "ADC", "ROR", "ARR", "JMP", "ADC", "ROR", "RRA",
	"BVS", "ADC", "KIL", "RRA", "NOP", "ADC", "ROR", "RRA", "SEI", "ADC", "NOP", "RRA", "NOP", "ADC", "ROR", "RRA",
	"NOP", "STA", "NOP", "SAX", "STY", "STA", "STX", "SAX", "DEY", "NOP", "TXA", "XAA", "STY", "STA", "STX", "SAX",
	"BCC", "STA", "KIL", "AHX", "STY", "STA", "STX", "SAX", "TYA", "STA", "TXS", "TAS", "SHY", "STA", "SHX", "AHX",
	"LDY", "LDA", "LDX", "LAX", "LDY", "LDA", "LDX", "LAX", "TAY", "LDA", "TAX", "LAX", "LDY", "LDA", "LDX", "LAX",
	"BCS", "LDA", "KIL", "LAX", "LDY", "LDA", "LDX", "LAX", "CLV", "LDA", "TSX", "LAS", "LDY", "LDA", "LDX", "LAX",
	"CPY", "CMP", "NOP", "DCP", "CPY", "CMP", "DEC", "DCP", "INY", "CMP", "DEX", "AXS", "CPY", "CMP", "DEC", "DCP",
	"BNE", "CMP", "KIL", "DCP", "NOP", "CMP", "DEC", "DCP", "CLD", "CMP", "NOP", "DCP", "NOP", "CMP", "DEC", "DCP",
	"CPX", "SBC", "NOP", "ISC", "CPX", "SBC", "INC", "ISC", "INX", "SBC", "NOP", "SBC", "CPX", "SBC", "INC", "ISC",
	"BEQ", "SBC", "KIL", "ISC", "NOP", "SBC", "INC", "ISC", "SED", "SBC", "NOP", "ISC", "NOP", "SBC", "INC", "ISC",
}

var opcodeModes = [256]AddressingMode{
	imp, izx, imp, izx, zp, zp, zp, zp, imp, imm, acc, imm, abs, abs, abs, abs,
	rel, izy, imp, izy, zpx, zpx, zpx, zpx, imp, aby, imp, aby, abx, abx, abx, abx,
	abs, izx, imp, izx, zp, zp, zp, zp, imp, imm, acc, imm, abs, abs, abs, abs,
	rel, izy, imp, izy, zpx, zpx, zpx, zpx, imp, aby, imp, aby, abx, abx, abx, abx,
	imp, izx, imp, izx, zp, zp, zp, zp, imp, imm, acc, imm, abs, abs, abs, abs,
	rel, izy, imp, izy, zpx, zpx, zpx, zpx, imp, aby, imp, aby, abx, abx, abx, abx,
	imp, izx, imp, izx, zp, zp, zp, zp, imp, imm, acc, imm, ind, abs, abs, abs,
	rel, izy, imp, izy, zpx, zpx, zpx, zpx, imp, aby, imp, aby, abx, abx, abx, abx,
	imm, izx, imm, izx, zp, zp, zp, zp, imp, imm, imp, imm, abs, abs, abs, abs,
	rel, izy, imp, izy, zpx, zpx, zpy, zpy, imp, aby, imp, aby, abx, abx, aby, aby,
	imm, izx, imm, izx, zp, zp, zp, zp, imp, imm, imp, imm, abs, abs, abs, abs,
	rel, izy, imp, izy, zpx, zpx, zpy, zpy, imp, aby, imp, aby, abx, abx, aby, aby,
	imm, izx, imm, izx, zp, zp, zp, zp, imp, imm, imp, imm, abs, abs, abs, abs,
	rel, izy, imp, izy, zpx, zpx, zpx, zpx, imp, aby, imp, aby, abx, abx, abx, abx,
	imm, izx, imm, izx, zp, zp, zp, zp, imp, imm, imp, imm, abs, abs, abs, abs,
	rel, izy, imp, izy, zpx, zpx, zpx, zpx, imp, aby, imp, aby, abx, abx, abx, abx,
}

var opcodeCycles = [256]int{
	7, 6, 2, 8, 3, 3, 5, 5, 3, 2, 2, 2, 4, 4, 6, 6,
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
	6, 6, 2, 8, 3, 3, 5, 5, 4, 2, 2, 2, 4, 4, 6, 6,
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
	6, 6, 2, 8, 3, 3, 5, 5, 3, 2, 2, 2, 3, 4, 6, 6,
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
	6, 6, 2, 8, 3, 3, 5, 5, 4, 2, 2, 2, 5, 4, 6, 6,
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
	2, 6, 2, 6, 3, 3, 3, 3, 2, 2, 2, 2, 4, 4, 4, 4,
	2, 6, 2, 6, 4, 4, 4, 4, 2, 5, 2, 5, 5, 5, 5, 5,
	2, 6, 2, 6, 3, 3, 3, 3, 2, 2, 2, 2, 4, 4, 4, 4,
	2, 5, 2, 5, 4, 4, 4, 4, 2, 4, 2, 4, 4, 4, 4, 4,
	2, 6, 2, 8, 3, 3, 5, 5, 2, 2, 2, 2, 4, 4, 6, 6,
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
	2, 6, 2, 8, 3, 3, 5, 5, 2, 2, 2, 2, 4, 4, 6, 6,
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
}

// opcodes that pay the page crossing penalty, all of them read-only accesses
var opcodePageCycles = [256]bool{
	0x11: true, 0x19: true, 0x1C: true, 0x1D: true,
	0x31: true, 0x39: true, 0x3C: true, 0x3D: true,
	0x51: true, 0x59: true, 0x5C: true, 0x5D: true,
	0x71: true, 0x79: true, 0x7C: true, 0x7D: true,
	0xB1: true, 0xB3: true, 0xB9: true, 0xBB: true, 0xBC: true, 0xBD: true, 0xBE: true, 0xBF: true,
	0xD1: true, 0xD9: true, 0xDC: true, 0xDD: true,
	0xF1: true, 0xF9: true, 0xFC: true, 0xFD: true,
}

// unstable undocumented opcodes (AHX, SHX, SHY, TAS, XAA) and the KIL/JAM
// family are executed as NOPs of the right length.
var operations = map[string]operation{
	"ADC": adc, "AND": and, "ASL": asl, "BCC": bcc, "BCS": bcs, "BEQ": beq, "BIT": bitTest,
	"BMI": bmi, "BNE": bne, "BPL": bpl, "BRK": brk, "BVC": bvc, "BVS": bvs, "CLC": clc,
	"CLD": cld, "CLI": cli, "CLV": clv, "CMP": cmp, "CPX": cpx, "CPY": cpy, "DEC": dec,
	"DEX": dex, "DEY": dey, "EOR": eor, "INC": inc, "INX": inx, "INY": iny, "JMP": jmp,
	"JSR": jsr, "LDA": lda, "LDX": ldx, "LDY": ldy, "LSR": lsr, "NOP": nop, "ORA": ora,
	"PHA": pha, "PHP": php, "PLA": pla, "PLP": plp, "ROL": rol, "ROR": ror, "RTI": rti,
	"RTS": rts, "SBC": sbc, "SEC": sec, "SED": sed, "SEI": sei, "STA": sta, "STX": stx,
	"STY": sty, "TAX": tax, "TAY": tay, "TSX": tsx, "TXA": txa, "TXS": txs, "TYA": tya,

	"LAX": lax, "SAX": sax, "DCP": dcp, "ISC": isc, "SLO": slo, "RLA": rla, "SRE": sre,
	"RRA": rra, "ANC": anc, "ALR": alr, "ARR": arr, "AXS": axs, "LAS": las,

	"AHX": nop, "SHX": nop, "SHY": nop, "TAS": nop, "XAA": nop, "KIL": nop,
}

var (
	instructions    [256]instruction
	officialOpcodes [256]bool
)

func init() {
	unofficial := map[string]bool{
		"LAX": true, "SAX": true, "DCP": true, "ISC": true, "SLO": true, "RLA": true, "SRE": true,
		"RRA": true, "ANC": true, "ALR": true, "ARR": true, "AXS": true, "LAS": true,
		"AHX": true, "SHX": true, "SHY": true, "TAS": true, "XAA": true, "KIL": true,
	}

	for opcode := 0; opcode < 256; opcode++ {
		name := opcodeNames[opcode]
		execute, ok := operations[name]
		if !ok {
			// the table must be total, a gap is a bug in the interpreter itself
			panic(fmt.Sprintf("cpu: no operation for opcode 0x%02X (%s)", opcode, name))
		}
		instructions[opcode] = instruction{
			name:      name,
			mode:      opcodeModes[opcode],
			execute:   execute,
			cycles:    opcodeCycles[opcode],
			pageCycle: opcodePageCycles[opcode],
		}
		officialOpcodes[opcode] = !unofficial[name]
	}

	// the documented NOP is 0xEA, every other NOP encoding and 0xEB (SBC) is undocumented
	for opcode, name := range opcodeNames {
		if (name == "NOP" && opcode != 0xEA) || opcode == 0xEB {
			officialOpcodes[opcode] = false
		}
	}
}
