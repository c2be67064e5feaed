package cpu

import "github.com/valerio/go-nes/nes/bit"

// AddressingMode selects how an instruction resolves its operand
type AddressingMode uint8

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	Relative
	Indirect
	IndexedIndirect
	IndirectIndexed
)

var addressingModeNames = [...]string{
	"implied", "accumulator", "immediate",
	"zeroPage", "zeroPageX", "zeroPageY",
	"absolute", "absoluteX", "absoluteY",
	"relative", "indirect", "indexedIndirect", "indirectIndexed",
}

func (m AddressingMode) String() string {
	if int(m) < len(addressingModeNames) {
		return addressingModeNames[m]
	}
	return "unknown"
}

// OperandBytes returns how many bytes follow the opcode for this mode.
func (m AddressingMode) OperandBytes() int {
	switch m {
	case Implied, Accumulator:
		return 0
	case Absolute, AbsoluteX, AbsoluteY, Indirect:
		return 2
	default:
		return 1
	}
}

// operand is the resolved argument of an instruction. For Immediate the
// address points at the operand byte itself, for Relative it is the branch target.
type operand struct {
	address uint16
	mode    AddressingMode
}

// resolve computes the effective address for mode, advancing PC past the
// operand bytes. The second result reports whether indexing crossed a page.
func (c *CPU) resolve(mode AddressingMode) (uint16, bool) {
	switch mode {
	case Implied, Accumulator:
		return 0, false
	case Immediate:
		address := c.pc
		c.pc++
		return address, false
	case ZeroPage:
		address := uint16(c.read(c.pc))
		c.pc++
		return address, false
	case ZeroPageX:
		address := uint16(c.read(c.pc) + c.x)
		c.pc++
		return address, false
	case ZeroPageY:
		address := uint16(c.read(c.pc) + c.y)
		c.pc++
		return address, false
	case Absolute:
		address := c.read16(c.pc)
		c.pc += 2
		return address, false
	case AbsoluteX:
		base := c.read16(c.pc)
		c.pc += 2
		address := base + uint16(c.x)
		return address, !bit.SamePage(base, address)
	case AbsoluteY:
		base := c.read16(c.pc)
		c.pc += 2
		address := base + uint16(c.y)
		return address, !bit.SamePage(base, address)
	case Relative:
		offset := int8(c.read(c.pc))
		c.pc++
		return c.pc + uint16(offset), false
	case Indirect:
		pointer := c.read16(c.pc)
		c.pc += 2
		return c.read16Wrapped(pointer), false
	case IndexedIndirect:
		pointer := c.read(c.pc) + c.x
		c.pc++
		return c.read16Wrapped(uint16(pointer)), false
	case IndirectIndexed:
		pointer := c.read(c.pc)
		c.pc++
		base := c.read16Wrapped(uint16(pointer))
		address := base + uint16(c.y)
		return address, !bit.SamePage(base, address)
	default:
		panic("cpu: unknown addressing mode " + mode.String())
	}
}
