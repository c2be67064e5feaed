package memory

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-nes/nes/addr"
	"github.com/valerio/go-nes/nes/cartridge"
	"github.com/valerio/go-nes/nes/controller"
)

type memRegion uint8

const (
	regionRAM memRegion = iota
	regionPPU
	regionIO
	regionCartridge
)

const (
	// oamDMACycles is the CPU stall of an OAM DMA started on an even cycle,
	// one more cycle is needed when it starts on an odd one.
	oamDMACycles = 513
	oamSize      = 256
)

// PPUPort is the register interface the PPU exposes at 0x2000-0x2007.
type PPUPort interface {
	ReadRegister(address uint16) uint8
	WriteRegister(address uint16, value uint8)
	PeekRegister(address uint16) uint8
	WriteOAM(value uint8)
}

// APUPort is the register interface of the APU at 0x4000-0x4017.
type APUPort interface {
	ReadStatus() uint8
	WriteRegister(address uint16, value uint8)
	TakeStall() int
}

// CycleCounter reports the CPU cycle count, used to align OAM DMA.
type CycleCounter interface {
	GetCycles() uint64
}

// Bus is the CPU view of the address space: work RAM, the PPU and APU
// registers, the controllers and the cartridge.
type Bus struct {
	ram       [addr.RAMSize]byte
	regionMap [256]memRegion

	mapper      cartridge.Mapper
	ppu         PPUPort
	apu         APUPort
	controllers [2]*controller.Controller
	clock       CycleCounter

	// CPU cycles owed to OAM DMA, collected by TakeStall
	stall int

	logger *slog.Logger
}

// New creates a bus with no cartridge inserted. Either controller may be nil,
// in which case the port reads as disconnected.
func New(ppu PPUPort, apu APUPort, pad1, pad2 *controller.Controller, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bus{
		ppu:         ppu,
		apu:         apu,
		controllers: [2]*controller.Controller{pad1, pad2},
		logger:      logger,
	}
	initRegionMap(b)
	return b
}

// SetLogger replaces the logger used for diagnostics. Nil is ignored.
func (b *Bus) SetLogger(logger *slog.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

func initRegionMap(b *Bus) {
	// work RAM and its mirrors: 0x0000-0x1FFF
	for i := 0x00; i <= 0x1F; i++ {
		b.regionMap[i] = regionRAM
	}
	// PPU registers, mirrored every 8 bytes: 0x2000-0x3FFF
	for i := 0x20; i <= 0x3F; i++ {
		b.regionMap[i] = regionPPU
	}
	// APU and I/O: 0x4000-0x401F, the rest of the page belongs to the cartridge
	b.regionMap[0x40] = regionIO
	// cartridge: 0x4100-0xFFFF
	for i := 0x41; i <= 0xFF; i++ {
		b.regionMap[i] = regionCartridge
	}
}

// SetMapper inserts a cartridge, nil removes it.
func (b *Bus) SetMapper(mapper cartridge.Mapper) {
	b.mapper = mapper
}

// SetClock wires the CPU cycle counter used for DMA alignment.
func (b *Bus) SetClock(clock CycleCounter) {
	b.clock = clock
}

// ClearRAM zeroes the 2KB work RAM.
func (b *Bus) ClearRAM() {
	b.ram = [addr.RAMSize]byte{}
}

func (b *Bus) Read(address uint16) byte {
	switch b.regionMap[address>>8] {
	case regionRAM:
		return b.ram[address%addr.RAMSize]
	case regionPPU:
		return b.ppu.ReadRegister(address)
	case regionIO:
		if address >= addr.CartridgeStart {
			return b.readCartridge(address)
		}
		return b.readIO(address)
	default:
		return b.readCartridge(address)
	}
}

func (b *Bus) Write(address uint16, value byte) {
	switch b.regionMap[address>>8] {
	case regionRAM:
		b.ram[address%addr.RAMSize] = value
	case regionPPU:
		b.ppu.WriteRegister(address, value)
	case regionIO:
		if address >= addr.CartridgeStart {
			b.writeCartridge(address, value)
			return
		}
		b.writeIO(address, value)
	default:
		b.writeCartridge(address, value)
	}
}

// Peek reads without side effects, for debuggers and the disassembler.
// Registers with read side effects report their last bus value or 0.
func (b *Bus) Peek(address uint16) byte {
	switch b.regionMap[address>>8] {
	case regionRAM:
		return b.ram[address%addr.RAMSize]
	case regionPPU:
		return b.ppu.PeekRegister(address)
	case regionIO:
		if address >= addr.CartridgeStart && b.mapper != nil {
			return b.mapper.Read(address)
		}
		return 0
	default:
		if b.mapper == nil {
			return 0
		}
		return b.mapper.Read(address)
	}
}

func (b *Bus) readIO(address uint16) byte {
	switch address {
	case addr.APUStatus:
		return b.apu.ReadStatus()
	case addr.JOY1:
		return b.readController(0)
	case addr.JOY2:
		return b.readController(1)
	}

	b.logger.Debug("Read from write-only I/O register", "addr", fmt.Sprintf("0x%04X", address))
	return 0
}

func (b *Bus) writeIO(address uint16, value byte) {
	switch {
	case address == addr.OAMDMA:
		b.oamDMA(value)
	case address == addr.JOY1:
		for _, c := range b.controllers {
			if c != nil {
				c.Write(value)
			}
		}
	case address <= addr.APUEnd:
		b.apu.WriteRegister(address, value)
	default:
		// 0x4018-0x401F, CPU test mode registers
		b.logger.Debug("Write to unmapped I/O register", "addr", fmt.Sprintf("0x%04X", address), "value", value)
	}
}

func (b *Bus) readController(index int) byte {
	if c := b.controllers[index]; c != nil {
		return c.Read()
	}
	return 0
}

func (b *Bus) readCartridge(address uint16) byte {
	if b.mapper == nil {
		b.logger.Debug("Read from cartridge space with no cartridge", "addr", fmt.Sprintf("0x%04X", address))
		return 0
	}
	return b.mapper.Read(address)
}

func (b *Bus) writeCartridge(address uint16, value byte) {
	if b.mapper == nil {
		return
	}
	b.mapper.Write(address, value)
}

// oamDMA copies page value<<8 into OAM through OAMDATA, stalling the CPU.
// Reference: https://www.nesdev.org/wiki/PPU_registers#OAMDMA
func (b *Bus) oamDMA(value byte) {
	page := uint16(value) << 8
	for i := uint16(0); i < oamSize; i++ {
		b.ppu.WriteOAM(b.Read(page | i))
	}

	b.stall += oamDMACycles
	if b.clock != nil && b.clock.GetCycles()%2 == 1 {
		b.stall++
	}
}

// TakeStall returns and clears the CPU cycles owed to OAM DMA and DMC fetches.
func (b *Bus) TakeStall() int {
	stall := b.stall + b.apu.TakeStall()
	b.stall = 0
	return stall
}

// Controller returns the controller plugged in port 0 or 1.
func (b *Bus) Controller(index int) *controller.Controller {
	return b.controllers[index]
}
