package cartridge

import "github.com/valerio/go-nes/nes/bit"

// MMC1 (mapper 1) is configured through a 5 bit serial port. Features include:
// - Writes to 0x8000-0xFFFF shift bit 0 into a shift register, LSB first
// - A write with bit 7 set resets the shift register and locks PRG mode 3
// - The fifth write commits the value to the register selected by address bits 13-14:
//   - 0x8000-0x9FFF control (mirroring, PRG mode, CHR mode)
//   - 0xA000-0xBFFF CHR bank 0
//   - 0xC000-0xDFFF CHR bank 1
//   - 0xE000-0xFFFF PRG bank
//
// - PRG modes 0/1 switch 32KB, mode 2 fixes the first bank at 0x8000,
//   mode 3 fixes the last bank at 0xC000
// - CHR mode 0 switches 8KB, mode 1 switches two 4KB banks
type MMC1 struct {
	prg    []uint8
	chr    []uint8
	prgRAM [PRGRAMSize]uint8
	chrRAM bool

	shift      uint8
	shiftCount uint8

	control  uint8
	chrBank0 uint8
	chrBank1 uint8
	prgBank  uint8

	prgOffsets [2]int
	chrOffsets [2]int
}

// NewMMC1 creates a new MMC1 controller
func NewMMC1(prg, chr []uint8, chrRAM bool) *MMC1 {
	m := &MMC1{
		prg:     prg,
		chr:     chr,
		chrRAM:  chrRAM,
		control: 0x0C,
	}
	m.updateOffsets()
	return m
}

func (m *MMC1) Read(address uint16) uint8 {
	switch {
	case address < 0x2000:
		bank := address / 0x1000
		return m.chr[m.chrOffsets[bank]+int(address%0x1000)]
	case address >= 0x8000:
		bank := (address - 0x8000) / 0x4000
		return m.prg[m.prgOffsets[bank]+int(address%0x4000)]
	case address >= 0x6000:
		return m.prgRAM[address-0x6000]
	default:
		return 0
	}
}

func (m *MMC1) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		if m.chrRAM {
			bank := address / 0x1000
			m.chr[m.chrOffsets[bank]+int(address%0x1000)] = value
		}
	case address >= 0x8000:
		m.writeShift(address, value)
	case address >= 0x6000:
		m.prgRAM[address-0x6000] = value
	}
}

func (m *MMC1) Mirroring() Mirroring {
	switch m.control & 0x03 {
	case 0:
		return SingleScreenLower
	case 1:
		return SingleScreenUpper
	case 2:
		return Vertical
	default:
		return Horizontal
	}
}

func (m *MMC1) writeShift(address uint16, value uint8) {
	if value&0x80 != 0 {
		m.shift = 0
		m.shiftCount = 0
		m.control |= 0x0C
		m.updateOffsets()
		return
	}

	m.shift |= (value & 1) << m.shiftCount
	m.shiftCount++
	if m.shiftCount < 5 {
		return
	}

	switch (address >> 13) & 0x03 {
	case 0:
		m.control = m.shift
	case 1:
		m.chrBank0 = m.shift
	case 2:
		m.chrBank1 = m.shift
	case 3:
		m.prgBank = m.shift & 0x0F
	}
	m.shift = 0
	m.shiftCount = 0
	m.updateOffsets()
}

func (m *MMC1) updateOffsets() {
	prgBanks := len(m.prg) / PRGBankSize
	switch bit.ExtractBits(m.control, 3, 2) {
	case 0, 1:
		bank := int(m.prgBank&0x0E) % prgBanks
		m.prgOffsets[0] = bank * PRGBankSize
		m.prgOffsets[1] = ((bank + 1) % prgBanks) * PRGBankSize
	case 2:
		m.prgOffsets[0] = 0
		m.prgOffsets[1] = (int(m.prgBank) % prgBanks) * PRGBankSize
	case 3:
		m.prgOffsets[0] = (int(m.prgBank) % prgBanks) * PRGBankSize
		m.prgOffsets[1] = (prgBanks - 1) * PRGBankSize
	}

	chrBanks := len(m.chr) / 0x1000
	if m.control&0x10 == 0 {
		bank := int(m.chrBank0&0x1E) % chrBanks
		m.chrOffsets[0] = bank * 0x1000
		m.chrOffsets[1] = ((bank + 1) % chrBanks) * 0x1000
	} else {
		m.chrOffsets[0] = (int(m.chrBank0) % chrBanks) * 0x1000
		m.chrOffsets[1] = (int(m.chrBank1) % chrBanks) * 0x1000
	}
}
