package cartridge

// Mirroring is the arrangement of the four logical nametables over the PPU's 2KB of VRAM.
type Mirroring uint8

const (
	Horizontal Mirroring = iota
	Vertical
	SingleScreenLower
	SingleScreenUpper
	FourScreen
)

func (m Mirroring) String() string {
	switch m {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case SingleScreenLower:
		return "single-lower"
	case SingleScreenUpper:
		return "single-upper"
	case FourScreen:
		return "four-screen"
	default:
		return "unknown"
	}
}

// Mapper is the cartridge side of both buses. Addresses below 0x2000 are PPU
// pattern table accesses, addresses from 0x4020 up are CPU accesses.
type Mapper interface {
	// Read reads a byte from the specified address
	Read(address uint16) uint8
	// Write writes a byte to the specified address. ROM writes are either ignored
	// or interpreted as bank switching commands.
	Write(address uint16, value uint8)
	// Mirroring returns the current nametable mirroring mode
	Mirroring() Mirroring
}

// Mapper0 is NROM, the board without bank switching:
// - 16KB or 32KB of PRG ROM at 0x8000-0xFFFF (16KB images are mirrored at 0xC000)
// - 8KB of CHR ROM (or CHR RAM) at PPU 0x0000-0x1FFF
// - 8KB of PRG RAM at 0x6000-0x7FFF
// - Mirroring fixed by the header
type Mapper0 struct {
	prg       []uint8
	chr       []uint8
	prgRAM    [PRGRAMSize]uint8
	chrRAM    bool
	mirroring Mirroring
}

// NewMapper0 creates a new NROM mapper
func NewMapper0(prg, chr []uint8, chrRAM bool, mirroring Mirroring) *Mapper0 {
	return &Mapper0{
		prg:       prg,
		chr:       chr,
		chrRAM:    chrRAM,
		mirroring: mirroring,
	}
}

func (m *Mapper0) Read(address uint16) uint8 {
	switch {
	case address < 0x2000:
		return m.chr[int(address)%len(m.chr)]
	case address >= 0x8000:
		return m.prg[int(address-0x8000)%len(m.prg)]
	case address >= 0x6000:
		return m.prgRAM[address-0x6000]
	default:
		return 0
	}
}

func (m *Mapper0) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		if m.chrRAM {
			m.chr[address] = value
		}
	case address >= 0x6000 && address < 0x8000:
		m.prgRAM[address-0x6000] = value
	}
}

func (m *Mapper0) Mirroring() Mirroring {
	return m.mirroring
}
