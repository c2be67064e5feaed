package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-nes/nes/addr"
)

// testBus is a flat 64K address space with no mirroring or side effects.
type testBus [0x10000]byte

func (b *testBus) Read(address uint16) byte         { return b[address] }
func (b *testBus) Write(address uint16, value byte) { b[address] = value }

// load copies program bytes starting at address.
func (b *testBus) load(address uint16, program ...byte) {
	for i, v := range program {
		b[address+uint16(i)] = v
	}
}

// newTestCPU returns a CPU with RESET already acknowledged, PC at pc.
func newTestCPU(pc uint16) (*CPU, *testBus) {
	bus := &testBus{}
	c := New(bus)
	c.interrupts = 0
	c.pc = pc
	c.s = 0xFD
	return c, bus
}

func TestCPU_powerOn(t *testing.T) {
	c := New(&testBus{})

	assert.Equal(t, uint8(0xFF), c.GetSP())
	assert.Equal(t, uint8(0x24), c.GetP())
	assert.True(t, c.Pending().Has(addr.Reset))
}

func TestCPU_reset(t *testing.T) {
	bus := &testBus{}
	bus.load(0xFFFB, 0x01, 0x20, 0x7F, 0x40)

	c := New(bus)
	c.s = 0x37
	c.p = uint8(negativeFlag | overflowFlag)

	cycles := c.Step()

	assert.Equal(t, 7, cycles)
	assert.Equal(t, uint8(0x34), c.s)
	assert.Equal(t, uint8(negativeFlag|overflowFlag|interruptFlag), c.p)
	assert.Equal(t, uint16(0x7F20), c.pc)
	assert.Equal(t, addr.Interrupt(0), c.Pending())
}

func TestCPU_stack(t *testing.T) {
	c, _ := newTestCPU(0)
	c.s = 0xFF

	t.Run("bytes", func(t *testing.T) {
		c.push(0x83)
		c.push(0x14)
		assert.Equal(t, uint8(0xFD), c.s)

		assert.Equal(t, uint8(0x14), c.pull())
		assert.Equal(t, uint8(0x83), c.pull())
		assert.Equal(t, uint8(0xFF), c.s)
	})

	t.Run("words", func(t *testing.T) {
		c.push16(0x98AF)
		c.push16(0x003A)
		assert.Equal(t, uint8(0xFB), c.s)

		assert.Equal(t, uint16(0x003A), c.pull16())
		assert.Equal(t, uint16(0x98AF), c.pull16())
		assert.Equal(t, uint8(0xFF), c.s)
	})

	t.Run("wraps within the stack page", func(t *testing.T) {
		c.s = 0x00
		c.push(0x42)
		assert.Equal(t, uint8(0xFF), c.s)
		assert.Equal(t, uint8(0x42), c.bus.Read(0x0100))
		assert.Equal(t, uint8(0x42), c.pull())
		assert.Equal(t, uint8(0x00), c.s)
	})
}

func TestCPU_flagString(t *testing.T) {
	c, _ := newTestCPU(0)
	c.p = uint8(negativeFlag | reservedFlag | interruptFlag | carryFlag)

	assert.Equal(t, "N----I-C", c.GetFlagString())
}

func TestCPU_opcodeTable(t *testing.T) {
	for opcode := 0; opcode < 256; opcode++ {
		inst := instructions[opcode]
		require.NotNil(t, inst.execute, "opcode 0x%02X", opcode)
		require.NotEmpty(t, inst.name, "opcode 0x%02X", opcode)
		require.GreaterOrEqual(t, inst.cycles, 2, "opcode 0x%02X", opcode)
	}

	info := Describe(0xEA)
	assert.Equal(t, "NOP", info.Name)
	assert.True(t, info.Official)
	assert.Equal(t, 1, info.Bytes)

	info = Describe(0x6C)
	assert.Equal(t, "JMP", info.Name)
	assert.Equal(t, Indirect, info.Mode)
	assert.Equal(t, 3, info.Bytes)

	assert.False(t, Describe(0xA7).Official)
	assert.False(t, Describe(0x1A).Official)
	assert.False(t, Describe(0xEB).Official)
}
