package cartridge

// CNROM (mapper 3) is NROM with switchable 8KB CHR banks selected by writes to 0x8000-0xFFFF.
type CNROM struct {
	prg       []uint8
	chr       []uint8
	chrRAM    bool
	chrBank   int
	chrBanks  int
	mirroring Mirroring
}

// NewCNROM creates a new CNROM mapper
func NewCNROM(prg, chr []uint8, chrRAM bool, mirroring Mirroring) *CNROM {
	return &CNROM{
		prg:       prg,
		chr:       chr,
		chrRAM:    chrRAM,
		chrBanks:  len(chr) / CHRBankSize,
		mirroring: mirroring,
	}
}

func (m *CNROM) Read(address uint16) uint8 {
	switch {
	case address < 0x2000:
		return m.chr[m.chrBank*CHRBankSize+int(address)]
	case address >= 0x8000:
		return m.prg[int(address-0x8000)%len(m.prg)]
	default:
		return 0
	}
}

func (m *CNROM) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		if m.chrRAM {
			m.chr[m.chrBank*CHRBankSize+int(address)] = value
		}
	case address >= 0x8000:
		m.chrBank = int(value&0x03) % m.chrBanks
	}
}

func (m *CNROM) Mirroring() Mirroring {
	return m.mirroring
}
