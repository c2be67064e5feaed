package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-nes/nes/addr"
	"github.com/valerio/go-nes/nes/apu"
	"github.com/valerio/go-nes/nes/cartridge"
	"github.com/valerio/go-nes/nes/controller"
)

type fakePPU struct {
	registers [8]uint8
	reads     []uint16
	oam       []uint8
}

func (p *fakePPU) ReadRegister(address uint16) uint8 {
	p.reads = append(p.reads, address)
	return p.registers[address&0x07]
}

func (p *fakePPU) WriteRegister(address uint16, value uint8) {
	p.registers[address&0x07] = value
}

func (p *fakePPU) PeekRegister(address uint16) uint8 { return p.registers[address&0x07] }
func (p *fakePPU) WriteOAM(value uint8)              { p.oam = append(p.oam, value) }

type fixedClock uint64

func (c fixedClock) GetCycles() uint64 { return uint64(c) }

func newTestBus(t *testing.T) (*Bus, *fakePPU) {
	t.Helper()

	prg := make([]uint8, cartridge.PRGBankSize)
	prg[0x0000] = 0x11 // 0x8000 and 0xC000
	prg[0x3FFC] = 0x00 // reset vector low
	prg[0x3FFD] = 0x80 // reset vector high
	chr := make([]uint8, cartridge.CHRBankSize)

	ppu := &fakePPU{}
	bus := New(ppu, apu.New(apu.DefaultSampleRate, nil), controller.New(), controller.New(), nil)
	bus.SetMapper(cartridge.NewMapper0(prg, chr, false, cartridge.Horizontal))
	return bus, ppu
}

func TestBus_WorkRAMMirroring(t *testing.T) {
	testCases := []struct {
		desc   string
		write  uint16
		mirror []uint16
	}{
		{desc: "base", write: 0x0000, mirror: []uint16{0x0800, 0x1000, 0x1800}},
		{desc: "end of RAM", write: 0x07FF, mirror: []uint16{0x0FFF, 0x17FF, 0x1FFF}},
		{desc: "write through mirror", write: 0x1234, mirror: []uint16{0x0234, 0x0A34, 0x1A34}},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			bus, _ := newTestBus(t)
			bus.Write(tC.write, 0x5A)
			for _, m := range tC.mirror {
				assert.Equal(t, byte(0x5A), bus.Read(m), "0x%04X", m)
			}
		})
	}
}

func TestBus_PPURegisterMirroring(t *testing.T) {
	bus, ppu := newTestBus(t)

	bus.Write(0x3456, 0x77) // 0x2006
	assert.Equal(t, uint8(0x77), ppu.registers[6])

	ppu.registers[2] = 0x80
	assert.Equal(t, byte(0x80), bus.Read(0x2002))
	assert.Equal(t, byte(0x80), bus.Read(0x3FFA))
	assert.Equal(t, []uint16{0x2002, 0x3FFA}, ppu.reads)

	assert.Equal(t, byte(0x80), bus.Peek(0x200A))
	assert.Len(t, ppu.reads, 2, "peek has no side effects")
}

func TestBus_Cartridge(t *testing.T) {
	bus, _ := newTestBus(t)

	assert.Equal(t, byte(0x11), bus.Read(0x8000))
	assert.Equal(t, byte(0x11), bus.Read(0xC000), "16KB PRG is mirrored")
	assert.Equal(t, uint16(0x8000), uint16(bus.Read(0xFFFD))<<8|uint16(bus.Read(0xFFFC)))

	bus.Write(0x8000, 0xFF)
	assert.Equal(t, byte(0x11), bus.Read(0x8000), "ROM writes are ignored")

	bus.Write(0x6000, 0x42)
	assert.Equal(t, byte(0x42), bus.Read(0x6000), "PRG RAM")
}

func TestBus_NoCartridge(t *testing.T) {
	bus := New(&fakePPU{}, apu.New(apu.DefaultSampleRate, nil), nil, nil, nil)

	assert.Equal(t, byte(0), bus.Read(0x8000))
	assert.Equal(t, byte(0), bus.Read(0x4020))
	assert.Equal(t, byte(0), bus.Read(addr.JOY1), "disconnected controller")
	assert.NotPanics(t, func() { bus.Write(0x8000, 1) })
}

func TestBus_UnmappedIOReadsZero(t *testing.T) {
	bus, _ := newTestBus(t)
	for _, a := range []uint16{addr.Pulse1Control, addr.OAMDMA, 0x4018, 0x401F} {
		assert.Equal(t, byte(0), bus.Read(a), "0x%04X", a)
	}
}

func TestBus_Controllers(t *testing.T) {
	bus, _ := newTestBus(t)
	bus.Controller(0).Press(controller.ButtonA)
	bus.Controller(1).Press(controller.ButtonB)

	bus.Write(addr.JOY1, 1)
	bus.Write(addr.JOY1, 0)

	assert.Equal(t, byte(0x41), bus.Read(addr.JOY1), "pad 1 A")
	assert.Equal(t, byte(0x40), bus.Read(addr.JOY1), "pad 1 B")

	assert.Equal(t, byte(0x40), bus.Read(addr.JOY2), "pad 2 A")
	assert.Equal(t, byte(0x41), bus.Read(addr.JOY2), "pad 2 B")
}

func TestBus_APURegisters(t *testing.T) {
	bus, _ := newTestBus(t)

	bus.Write(addr.APUStatus, 0x01)
	bus.Write(addr.Pulse1TimerHi, 0x08)
	assert.Equal(t, byte(0x01), bus.Read(addr.APUStatus))

	// 0x4017 writes go to the frame counter, not the controller
	bus.Write(addr.FrameCounter, 0x80)
	assert.Equal(t, byte(0x40), bus.Read(addr.JOY2))
}

func TestBus_OAMDMA(t *testing.T) {
	testCases := []struct {
		desc  string
		clock fixedClock
		stall int
	}{
		{desc: "even cycle", clock: 100, stall: 513},
		{desc: "odd cycle", clock: 101, stall: 514},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			bus, ppu := newTestBus(t)
			bus.SetClock(tC.clock)
			for i := 0; i < 256; i++ {
				bus.Write(0x0200+uint16(i), byte(i))
			}

			bus.Write(addr.OAMDMA, 0x02)

			require.Len(t, ppu.oam, 256)
			assert.Equal(t, byte(0x00), ppu.oam[0])
			assert.Equal(t, byte(0xFF), ppu.oam[255])
			assert.Equal(t, tC.stall, bus.TakeStall())
			assert.Equal(t, 0, bus.TakeStall(), "stall is cleared once taken")
		})
	}
}

func TestBus_ClearRAM(t *testing.T) {
	bus, _ := newTestBus(t)
	bus.Write(0x0100, 0xAA)
	bus.ClearRAM()
	assert.Equal(t, byte(0), bus.Read(0x0100))
}
