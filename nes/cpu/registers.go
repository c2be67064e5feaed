package cpu

import "github.com/valerio/go-nes/nes/bit"

func (c *CPU) setFlag(flag Flag) {
	c.p |= uint8(flag)
}

func (c *CPU) resetFlag(flag Flag) {
	c.p &= uint8(flag ^ 0xFF)
}

func (c *CPU) isSetFlag(flag Flag) bool {
	return c.p&uint8(flag) != 0
}

// flagToBit will return 1 if the passed flag is set, 0 otherwise
func (c *CPU) flagToBit(flag Flag) uint8 {
	if c.isSetFlag(flag) {
		return 1
	}

	return 0
}

func (c *CPU) setFlagToCondition(flag Flag, condition bool) {
	if !condition {
		c.resetFlag(flag)
		return
	}

	c.setFlag(flag)
}

// setZN updates the zero and negative flags from a result byte.
func (c *CPU) setZN(value uint8) {
	c.setFlagToCondition(zeroFlag, value == 0)
	c.setFlagToCondition(negativeFlag, value&0x80 != 0)
}

func (c *CPU) setA(value uint8) {
	c.a = value
	c.setZN(value)
}

func (c *CPU) setX(value uint8) {
	c.x = value
	c.setZN(value)
}

func (c *CPU) setY(value uint8) {
	c.y = value
	c.setZN(value)
}

// push writes a byte to the stack page, S wraps within 0x0100-0x01FF.
func (c *CPU) push(value uint8) {
	c.bus.Write(stackBase|uint16(c.s), value)
	c.s--
}

// pull reads the last pushed byte from the stack page.
func (c *CPU) pull() uint8 {
	c.s++
	return c.bus.Read(stackBase | uint16(c.s))
}

// push16 pushes the high byte first so the word sits little endian in memory.
func (c *CPU) push16(value uint16) {
	c.push(bit.High(value))
	c.push(bit.Low(value))
}

func (c *CPU) pull16() uint16 {
	low := c.pull()
	high := c.pull()
	return bit.Combine(high, low)
}
