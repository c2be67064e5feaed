package cartridge

// UxROM (mapper 2) switches the 16KB bank at 0x8000 and fixes the last bank at 0xC000.
// Any write to 0x8000-0xFFFF selects the bank. CHR is usually RAM.
type UxROM struct {
	prg       []uint8
	chr       []uint8
	prgRAM    [PRGRAMSize]uint8
	chrRAM    bool
	bank      int
	lastBank  int
	mirroring Mirroring
}

// NewUxROM creates a new UxROM mapper
func NewUxROM(prg, chr []uint8, chrRAM bool, mirroring Mirroring) *UxROM {
	return &UxROM{
		prg:       prg,
		chr:       chr,
		chrRAM:    chrRAM,
		lastBank:  len(prg)/PRGBankSize - 1,
		mirroring: mirroring,
	}
}

func (m *UxROM) Read(address uint16) uint8 {
	switch {
	case address < 0x2000:
		return m.chr[address]
	case address >= 0xC000:
		return m.prg[m.lastBank*PRGBankSize+int(address-0xC000)]
	case address >= 0x8000:
		return m.prg[m.bank*PRGBankSize+int(address-0x8000)]
	case address >= 0x6000:
		return m.prgRAM[address-0x6000]
	default:
		return 0
	}
}

func (m *UxROM) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		if m.chrRAM {
			m.chr[address] = value
		}
	case address >= 0x8000:
		m.bank = int(value) % (m.lastBank + 1)
	case address >= 0x6000:
		m.prgRAM[address-0x6000] = value
	}
}

func (m *UxROM) Mirroring() Mirroring {
	return m.mirroring
}
