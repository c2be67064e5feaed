package addr

// memory map
const (
	// RAMStart is the start of the 2KB internal work RAM.
	RAMStart uint16 = 0x0000
	// RAMEnd is the last address of the work RAM mirrors.
	RAMEnd uint16 = 0x1FFF
	// RAMSize is the physical size of work RAM, mirrored every 0x0800 bytes.
	RAMSize = 0x0800

	// PPURegistersStart is the first PPU register, mirrored every 8 bytes.
	PPURegistersStart uint16 = 0x2000
	// PPURegistersEnd is the last address of the PPU register mirrors.
	PPURegistersEnd uint16 = 0x3FFF

	// CartridgeStart is the first address decoded by the cartridge.
	CartridgeStart uint16 = 0x4020
	// PRGRAMStart is the start of battery/work RAM on the cartridge.
	PRGRAMStart uint16 = 0x6000
	// PRGROMStart is the start of program ROM.
	PRGROMStart uint16 = 0x8000
)

// ppu registers
const (
	// PPUCTRL (write): nametable base, VRAM increment, pattern tables, sprite size, NMI enable.
	PPUCTRL uint16 = 0x2000
	// PPUMASK (write): greyscale, left column clipping, background/sprite enable, emphasis.
	PPUMASK uint16 = 0x2001
	// PPUSTATUS (read): sprite overflow, sprite zero hit, vblank.
	PPUSTATUS uint16 = 0x2002
	// OAMADDR (write): OAM address for OAMDATA and OAM DMA.
	OAMADDR uint16 = 0x2003
	// OAMDATA (read/write): OAM data port.
	OAMDATA uint16 = 0x2004
	// PPUSCROLL (write x2): fine scroll position.
	PPUSCROLL uint16 = 0x2005
	// PPUADDR (write x2): VRAM address.
	PPUADDR uint16 = 0x2006
	// PPUDATA (read/write): VRAM data port.
	PPUDATA uint16 = 0x2007
)

// apu registers
// Reference: https://www.nesdev.org/wiki/APU_registers
const (
	APUStart uint16 = 0x4000

	Pulse1Control uint16 = 0x4000 // duty, halt, constant volume, volume/envelope
	Pulse1Sweep   uint16 = 0x4001 // enable, period, negate, shift
	Pulse1TimerLo uint16 = 0x4002
	Pulse1TimerHi uint16 = 0x4003 // length index, timer high

	Pulse2Control uint16 = 0x4004
	Pulse2Sweep   uint16 = 0x4005
	Pulse2TimerLo uint16 = 0x4006
	Pulse2TimerHi uint16 = 0x4007

	TriangleLinear  uint16 = 0x4008 // control, linear counter reload
	TriangleTimerLo uint16 = 0x400A
	TriangleTimerHi uint16 = 0x400B

	NoiseControl uint16 = 0x400C // halt, constant volume, volume/envelope
	NoisePeriod  uint16 = 0x400E // mode, period index
	NoiseLength  uint16 = 0x400F

	DMCControl uint16 = 0x4010 // IRQ enable, loop, rate index
	DMCLoad    uint16 = 0x4011 // direct load
	DMCAddress uint16 = 0x4012
	DMCLength  uint16 = 0x4013

	// OAMDMA copies a page of CPU memory into OAM.
	OAMDMA uint16 = 0x4014
	// APUStatus enables channels on write and reports their state on read.
	APUStatus uint16 = 0x4015
	// FrameCounter selects the sequencer mode and IRQ inhibit on write.
	FrameCounter uint16 = 0x4017

	APUEnd uint16 = 0x4017
)

// controllers
const (
	// JOY1 strobes both controllers on write and reads controller 1.
	JOY1 uint16 = 0x4016
	// JOY2 reads controller 2. Writes go to the APU frame counter.
	JOY2 uint16 = 0x4017
)

// interrupt vectors
const (
	NMIVector   uint16 = 0xFFFA
	ResetVector uint16 = 0xFFFC
	IRQVector   uint16 = 0xFFFE
)

// Interrupt is a set of interrupt lines, several of them may be pending at once.
type Interrupt uint8

const (
	// BRK is raised by the BRK instruction.
	BRK Interrupt = 1
	// IRQ is the maskable line, shared by the APU frame counter, DMC and mappers.
	IRQ Interrupt = 1 << 1
	// NMI is asserted by the PPU when vblank starts and NMI output is enabled.
	NMI Interrupt = 1 << 2
	// Reset is asserted on power up and on cartridge insertion.
	Reset Interrupt = 1 << 3
)

// Has reports whether all lines in other are pending.
func (i Interrupt) Has(other Interrupt) bool {
	return i&other == other
}

func (i Interrupt) String() string {
	if i == 0 {
		return "none"
	}
	s := ""
	for _, n := range []struct {
		line Interrupt
		name string
	}{{Reset, "RESET"}, {NMI, "NMI"}, {IRQ, "IRQ"}, {BRK, "BRK"}} {
		if i.Has(n.line) {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	return s
}
