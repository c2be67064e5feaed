package cpu

import (
	"github.com/valerio/go-nes/nes/addr"
	"github.com/valerio/go-nes/nes/bit"
)

// Bus provides the CPU view of the address space
type Bus interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
}

// Flag is one of the bits of the status register P
type Flag uint8

const (
	carryFlag     Flag = 1 << 0
	zeroFlag      Flag = 1 << 1
	interruptFlag Flag = 1 << 2
	decimalFlag   Flag = 1 << 3
	breakFlag     Flag = 1 << 4
	reservedFlag  Flag = 1 << 5
	overflowFlag  Flag = 1 << 6
	negativeFlag  Flag = 1 << 7
)

const (
	stackBase        uint16 = 0x0100
	interruptCycles         = 7
	powerOnStatus           = uint8(reservedFlag | interruptFlag)
	powerOnStackAddr        = 0xFF
)

// CPU is the main struct holding 6502 (2A03) state
type CPU struct {
	// registers
	a  uint8
	x  uint8
	y  uint8
	s  uint8
	p  uint8
	pc uint16

	// pending interrupt lines
	interrupts addr.Interrupt

	// metadata
	currentOpcode uint8
	extraCycles   int
	cycles        uint64

	bus Bus
}

// New returns a CPU in its power-on state. RESET is asserted, so the first
// call to Step loads PC from the reset vector.
func New(bus Bus) *CPU {
	c := &CPU{bus: bus}
	c.PowerOn()
	return c
}

// PowerOn restores the power-on register defaults and asserts RESET.
func (c *CPU) PowerOn() {
	c.a = 0
	c.x = 0
	c.y = 0
	c.s = powerOnStackAddr
	c.p = powerOnStatus
	c.pc = 0
	c.cycles = 0
	c.interrupts = addr.Reset
}

// Step executes a single instruction, or services a pending interrupt.
// Returns the amount of cycles that execution has taken.
func (c *CPU) Step() int {
	if cycles, serviced := c.handleInterrupts(); serviced {
		c.cycles += uint64(cycles)
		return cycles
	}

	c.currentOpcode = c.bus.Read(c.pc)
	c.pc++

	inst := &instructions[c.currentOpcode]
	address, pageCrossed := c.resolve(inst.mode)

	c.extraCycles = 0
	inst.execute(c, operand{address: address, mode: inst.mode})

	cycles := inst.cycles + c.extraCycles
	if pageCrossed && inst.pageCycle {
		cycles++
	}

	// BRK raises its line while executing and is serviced within the same instruction.
	if c.interrupts.Has(addr.BRK) {
		c.interrupts &^= addr.BRK
		c.interrupt(addr.IRQVector, true)
	}

	c.cycles += uint64(cycles)
	return cycles
}

// Request asserts one or more interrupt lines.
func (c *CPU) Request(interrupt addr.Interrupt) {
	c.interrupts |= interrupt
}

// Clear deasserts one or more interrupt lines.
func (c *CPU) Clear(interrupt addr.Interrupt) {
	c.interrupts &^= interrupt
}

// Pending returns the currently asserted interrupt lines.
func (c *CPU) Pending() addr.Interrupt {
	return c.interrupts
}

// handleInterrupts services the highest priority pending interrupt.
// RESET always wins, IRQ is ignored while the interrupt disable flag is set.
func (c *CPU) handleInterrupts() (int, bool) {
	switch {
	case c.interrupts == 0:
		return 0, false
	case c.interrupts.Has(addr.Reset):
		c.interrupts &^= addr.Reset
		c.reset()
	case c.interrupts.Has(addr.NMI):
		c.interrupts &^= addr.NMI
		c.interrupt(addr.NMIVector, false)
	case c.interrupts.Has(addr.IRQ) && !c.isSetFlag(interruptFlag):
		c.interrupts &^= addr.IRQ
		c.interrupt(addr.IRQVector, false)
	default:
		return 0, false
	}
	return interruptCycles, true
}

// reset performs the RESET sequence: three suppressed stack pushes, interrupts
// disabled, PC loaded from the reset vector.
func (c *CPU) reset() {
	c.s -= 3
	c.setFlag(interruptFlag)
	c.pc = c.read16(addr.ResetVector)
}

// interrupt pushes PC and P, disables interrupts and jumps through the vector.
// The B flag is only set in the pushed copy of P when the source is BRK.
func (c *CPU) interrupt(vector uint16, brk bool) {
	c.push16(c.pc)
	status := c.p | uint8(reservedFlag)
	if brk {
		status |= uint8(breakFlag)
	} else {
		status &^= uint8(breakFlag)
	}
	c.push(status)
	c.setFlag(interruptFlag)
	c.pc = c.read16(vector)
}

func (c *CPU) read(address uint16) uint8 {
	return c.bus.Read(address)
}

func (c *CPU) write(address uint16, value uint8) {
	c.bus.Write(address, value)
}

// read16 reads a little endian word.
func (c *CPU) read16(address uint16) uint16 {
	low := c.bus.Read(address)
	high := c.bus.Read(address + 1)
	return bit.Combine(high, low)
}

// read16Wrapped reads a little endian word without carrying into the high byte
// of the pointer: a pointer at 0x02FF reads its high byte from 0x0200.
func (c *CPU) read16Wrapped(address uint16) uint16 {
	low := c.bus.Read(address)
	high := c.bus.Read(address&0xFF00 | uint16(uint8(address)+1))
	return bit.Combine(high, low)
}

// Debug getter methods for register display
func (c *CPU) GetA() uint8        { return c.a }
func (c *CPU) GetX() uint8        { return c.x }
func (c *CPU) GetY() uint8        { return c.y }
func (c *CPU) GetSP() uint8       { return c.s }
func (c *CPU) GetP() uint8        { return c.p }
func (c *CPU) GetPC() uint16      { return c.pc }
func (c *CPU) GetCycles() uint64  { return c.cycles }
func (c *CPU) GetOpcode() uint8   { return c.currentOpcode }
func (c *CPU) SetPC(pc uint16)    { c.pc = pc }
func (c *CPU) SetSP(s uint8)      { c.s = s }
func (c *CPU) SetCycles(n uint64) { c.cycles = n }

// GetFlagString returns a human-readable representation of the status register
func (c *CPU) GetFlagString() string {
	const names = "CZIDB-VN"
	flags := []byte("NV-BDIZC")
	for i := 0; i < 8; i++ {
		if !bit.IsSet(uint8(i), c.p) {
			flags[7-i] = '-'
		} else {
			flags[7-i] = names[i]
		}
	}
	return string(flags)
}
