package cpu

import (
	"github.com/valerio/go-nes/nes/addr"
	"github.com/valerio/go-nes/nes/bit"
)

// operation executes the semantics of an instruction on a resolved operand
type operation func(c *CPU, op operand)

func (c *CPU) load(op operand) uint8 {
	return c.read(op.address)
}

// addWithCarry is shared by ADC, SBC (with the operand inverted), ISC and RRA.
// Overflow is set when both inputs share a sign that differs from the result.
func (c *CPU) addWithCarry(value uint8) {
	a := c.a
	sum := uint16(a) + uint16(value) + uint16(c.flagToBit(carryFlag))
	result := uint8(sum)

	c.setFlagToCondition(carryFlag, sum > 0xFF)
	c.setFlagToCondition(overflowFlag, (a^value)&0x80 == 0 && (a^result)&0x80 != 0)
	c.setA(result)
}

func (c *CPU) compare(register, value uint8) {
	c.setZN(register - value)
	c.setFlagToCondition(carryFlag, register >= value)
}

func (c *CPU) branch(op operand, condition bool) {
	if !condition {
		return
	}
	c.extraCycles++
	if !bit.SamePage(c.pc, op.address) {
		c.extraCycles++
	}
	c.pc = op.address
}

// shift helpers return the result so memory and accumulator forms share them

func (c *CPU) asl(value uint8) uint8 {
	c.setFlagToCondition(carryFlag, value&0x80 != 0)
	value <<= 1
	c.setZN(value)
	return value
}

func (c *CPU) lsr(value uint8) uint8 {
	c.setFlagToCondition(carryFlag, value&0x01 != 0)
	value >>= 1
	c.setZN(value)
	return value
}

func (c *CPU) rol(value uint8) uint8 {
	carry := c.flagToBit(carryFlag)
	c.setFlagToCondition(carryFlag, value&0x80 != 0)
	value = value<<1 | carry
	c.setZN(value)
	return value
}

func (c *CPU) ror(value uint8) uint8 {
	carry := c.flagToBit(carryFlag)
	c.setFlagToCondition(carryFlag, value&0x01 != 0)
	value = value>>1 | carry<<7
	c.setZN(value)
	return value
}

// readModifyWrite applies fn to the accumulator or to memory depending on the mode.
func (c *CPU) readModifyWrite(op operand, fn func(uint8) uint8) uint8 {
	if op.mode == Accumulator {
		c.a = fn(c.a)
		return c.a
	}
	value := fn(c.read(op.address))
	c.write(op.address, value)
	return value
}

// load/store

func lda(c *CPU, op operand) { c.setA(c.load(op)) }
func ldx(c *CPU, op operand) { c.setX(c.load(op)) }
func ldy(c *CPU, op operand) { c.setY(c.load(op)) }
func sta(c *CPU, op operand) { c.write(op.address, c.a) }
func stx(c *CPU, op operand) { c.write(op.address, c.x) }
func sty(c *CPU, op operand) { c.write(op.address, c.y) }

// transfer

func tax(c *CPU, _ operand) { c.setX(c.a) }
func tay(c *CPU, _ operand) { c.setY(c.a) }
func txa(c *CPU, _ operand) { c.setA(c.x) }
func tya(c *CPU, _ operand) { c.setA(c.y) }
func tsx(c *CPU, _ operand) { c.setX(c.s) }
func txs(c *CPU, _ operand) { c.s = c.x }

// stack

func pha(c *CPU, _ operand) { c.push(c.a) }
func pla(c *CPU, _ operand) { c.setA(c.pull()) }

// php always pushes B and the unused bit set.
func php(c *CPU, _ operand) { c.push(c.p | uint8(breakFlag|reservedFlag)) }

// plp ignores B, which does not exist in the register itself.
func plp(c *CPU, _ operand) {
	c.p = c.pull()&^uint8(breakFlag) | uint8(reservedFlag)
}

// logic

func and(c *CPU, op operand) { c.setA(c.a & c.load(op)) }
func eor(c *CPU, op operand) { c.setA(c.a ^ c.load(op)) }
func ora(c *CPU, op operand) { c.setA(c.a | c.load(op)) }

func bitTest(c *CPU, op operand) {
	value := c.load(op)
	c.setFlagToCondition(zeroFlag, c.a&value == 0)
	c.setFlagToCondition(overflowFlag, value&0x40 != 0)
	c.setFlagToCondition(negativeFlag, value&0x80 != 0)
}

// arithmetic

func adc(c *CPU, op operand) { c.addWithCarry(c.load(op)) }
func sbc(c *CPU, op operand) { c.addWithCarry(^c.load(op)) }

func cmp(c *CPU, op operand) { c.compare(c.a, c.load(op)) }
func cpx(c *CPU, op operand) { c.compare(c.x, c.load(op)) }
func cpy(c *CPU, op operand) { c.compare(c.y, c.load(op)) }

// increments and decrements

func inc(c *CPU, op operand) {
	value := c.load(op) + 1
	c.write(op.address, value)
	c.setZN(value)
}

func dec(c *CPU, op operand) {
	value := c.load(op) - 1
	c.write(op.address, value)
	c.setZN(value)
}

func inx(c *CPU, _ operand) { c.setX(c.x + 1) }
func iny(c *CPU, _ operand) { c.setY(c.y + 1) }
func dex(c *CPU, _ operand) { c.setX(c.x - 1) }
func dey(c *CPU, _ operand) { c.setY(c.y - 1) }

// shifts

func asl(c *CPU, op operand) { c.readModifyWrite(op, c.asl) }
func lsr(c *CPU, op operand) { c.readModifyWrite(op, c.lsr) }
func rol(c *CPU, op operand) { c.readModifyWrite(op, c.rol) }
func ror(c *CPU, op operand) { c.readModifyWrite(op, c.ror) }

// jumps

func jmp(c *CPU, op operand) { c.pc = op.address }

// jsr pushes the address of its last operand byte, rts adds the missing one.
func jsr(c *CPU, op operand) {
	c.push16(c.pc - 1)
	c.pc = op.address
}

func rts(c *CPU, _ operand) { c.pc = c.pull16() + 1 }

func rti(c *CPU, op operand) {
	plp(c, op)
	c.pc = c.pull16()
}

// branches

func bcc(c *CPU, op operand) { c.branch(op, !c.isSetFlag(carryFlag)) }
func bcs(c *CPU, op operand) { c.branch(op, c.isSetFlag(carryFlag)) }
func beq(c *CPU, op operand) { c.branch(op, c.isSetFlag(zeroFlag)) }
func bne(c *CPU, op operand) { c.branch(op, !c.isSetFlag(zeroFlag)) }
func bmi(c *CPU, op operand) { c.branch(op, c.isSetFlag(negativeFlag)) }
func bpl(c *CPU, op operand) { c.branch(op, !c.isSetFlag(negativeFlag)) }
func bvc(c *CPU, op operand) { c.branch(op, !c.isSetFlag(overflowFlag)) }
func bvs(c *CPU, op operand) { c.branch(op, c.isSetFlag(overflowFlag)) }

// flags

func clc(c *CPU, _ operand) { c.resetFlag(carryFlag) }
func cld(c *CPU, _ operand) { c.resetFlag(decimalFlag) }
func cli(c *CPU, _ operand) { c.resetFlag(interruptFlag) }
func clv(c *CPU, _ operand) { c.resetFlag(overflowFlag) }
func sec(c *CPU, _ operand) { c.setFlag(carryFlag) }
func sed(c *CPU, _ operand) { c.setFlag(decimalFlag) }
func sei(c *CPU, _ operand) { c.setFlag(interruptFlag) }

func nop(_ *CPU, _ operand) {}

// brk skips its padding byte and raises the BRK line, which Step services
// before returning: PC+2 and P with B set are pushed, then the IRQ vector is loaded.
func brk(c *CPU, _ operand) {
	c.pc++
	c.Request(addr.BRK)
}

// undocumented, stable on the 2A03

func lax(c *CPU, op operand) {
	value := c.load(op)
	c.setA(value)
	c.x = value
}

func sax(c *CPU, op operand) { c.write(op.address, c.a&c.x) }

func dcp(c *CPU, op operand) {
	value := c.load(op) - 1
	c.write(op.address, value)
	c.compare(c.a, value)
}

func isc(c *CPU, op operand) {
	value := c.load(op) + 1
	c.write(op.address, value)
	c.addWithCarry(^value)
}

func slo(c *CPU, op operand) {
	value := c.readModifyWrite(op, c.asl)
	c.setA(c.a | value)
}

func rla(c *CPU, op operand) {
	value := c.readModifyWrite(op, c.rol)
	c.setA(c.a & value)
}

func sre(c *CPU, op operand) {
	value := c.readModifyWrite(op, c.lsr)
	c.setA(c.a ^ value)
}

func rra(c *CPU, op operand) {
	value := c.readModifyWrite(op, c.ror)
	c.addWithCarry(value)
}

func anc(c *CPU, op operand) {
	c.setA(c.a & c.load(op))
	c.setFlagToCondition(carryFlag, c.a&0x80 != 0)
}

func alr(c *CPU, op operand) {
	c.a &= c.load(op)
	c.a = c.lsr(c.a)
}

func arr(c *CPU, op operand) {
	value := c.a & c.load(op)
	c.setA(value>>1 | c.flagToBit(carryFlag)<<7)
	c.setFlagToCondition(carryFlag, c.a&0x40 != 0)
	c.setFlagToCondition(overflowFlag, (c.a>>6^c.a>>5)&1 != 0)
}

func axs(c *CPU, op operand) {
	value := c.load(op)
	ax := c.a & c.x
	c.setFlagToCondition(carryFlag, ax >= value)
	c.setX(ax - value)
}

func las(c *CPU, op operand) {
	value := c.load(op) & c.s
	c.s = value
	c.x = value
	c.setA(value)
}
