package ppu

import "github.com/valerio/go-nes/nes/cartridge"

const (
	patternTableEnd uint16 = 0x1FFF
	paletteStart    uint16 = 0x3F00
	nameTableStart  uint16 = 0x2000
	nameTableSize   uint16 = 0x0400
)

// Mapper is the cartridge view used by the PPU: pattern tables at
// 0x0000-0x1FFF and the nametable mirroring mode.
type Mapper interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	Mirroring() cartridge.Mirroring
}

// vram is the 14 bit PPU address space. 4KB of nametable memory covers four
// screen cartridges, every other mode uses 2KB of it.
type vram struct {
	mapper     Mapper
	nameTables [4 * nameTableSize]uint8
	palette    [32]uint8
}

func (m *vram) read(address uint16) uint8 {
	address &= 0x3FFF
	switch {
	case address <= patternTableEnd:
		if m.mapper == nil {
			return 0
		}
		return m.mapper.Read(address)
	case address < paletteStart:
		return m.nameTables[mirrorNameTable(m.mirroring(), address)]
	default:
		return m.palette[paletteIndex(address)]
	}
}

func (m *vram) write(address uint16, value uint8) {
	address &= 0x3FFF
	switch {
	case address <= patternTableEnd:
		if m.mapper != nil {
			m.mapper.Write(address, value)
		}
	case address < paletteStart:
		m.nameTables[mirrorNameTable(m.mirroring(), address)] = value
	default:
		m.palette[paletteIndex(address)] = value & 0x3F
	}
}

func (m *vram) mirroring() cartridge.Mirroring {
	if m.mapper == nil {
		return cartridge.Horizontal
	}
	return m.mapper.Mirroring()
}

func (m *vram) clear() {
	m.nameTables = [len(m.nameTables)]uint8{}
	m.palette = [len(m.palette)]uint8{}
}

// mirrorNameTable maps a 0x2000-0x3EFF address to an offset into nametable memory.
func mirrorNameTable(mode cartridge.Mirroring, address uint16) uint16 {
	address = nameTableStart + (address-nameTableStart)%(4*nameTableSize)

	switch mode {
	case cartridge.Vertical:
		return address % 0x0800
	case cartridge.Horizontal:
		if address >= 0x2800 {
			return 0x0800 + address%nameTableSize
		}
		return address % nameTableSize
	case cartridge.SingleScreenLower:
		return address % nameTableSize
	case cartridge.SingleScreenUpper:
		return nameTableSize + address%nameTableSize
	default:
		return address - nameTableStart
	}
}

// paletteIndex maps 0x3F00-0x3FFF to the 32 palette entries. The backdrop
// entries of the sprite palettes (0x3F10/14/18/1C) mirror the background ones.
func paletteIndex(address uint16) uint16 {
	index := address % 32
	if index >= 0x10 && index%4 == 0 {
		index -= 0x10
	}
	return index
}
