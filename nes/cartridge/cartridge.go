package cartridge

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
)

const (
	headerSize  = 16
	trainerSize = 512

	// PRGBankSize is the size of one program ROM unit declared by the header.
	PRGBankSize = 0x4000
	// CHRBankSize is the size of one character ROM unit declared by the header.
	CHRBankSize = 0x2000
	// PRGRAMSize is the size of the work RAM mapped at 0x6000-0x7FFF.
	PRGRAMSize = 0x2000
)

var magic = [4]byte{'N', 'E', 'S', 0x1A}

// Header is the 16 byte iNES header.
type Header struct {
	Magic    [4]byte
	PRGBanks uint8 // 16KB units
	CHRBanks uint8 // 8KB units, 0 means the board has CHR RAM
	Flags6   uint8
	Flags7   uint8
	Flags8   uint8 // PRG RAM size
	Flags9   uint8 // TV system
	Flags10  uint8
	Padding  [5]byte
}

// Mapper returns the mapper number, split between the high nibbles of flags 6 and 7.
func (h Header) Mapper() uint8 {
	return (h.Flags7 & 0xF0) | (h.Flags6 >> 4)
}

// Mirroring returns the nametable arrangement hardwired on the board.
func (h Header) Mirroring() Mirroring {
	if h.Flags6&0x08 != 0 {
		return FourScreen
	}
	if h.Flags6&0x01 != 0 {
		return Vertical
	}
	return Horizontal
}

// HasBattery reports whether PRG RAM is battery backed.
func (h Header) HasBattery() bool {
	return h.Flags6&0x02 != 0
}

// HasTrainer reports whether a 512 byte trainer precedes program ROM.
func (h Header) HasTrainer() bool {
	return h.Flags6&0x04 != 0
}

// Cartridge holds the ROM images of a game together with the mapper that exposes them.
type Cartridge struct {
	Header Header
	PRG    []byte
	CHR    []byte
	Mapper Mapper
}

// Load reads an iNES file from disk.
func Load(path string) (*Cartridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ROM file: %w", err)
	}

	cart, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	slog.Info("Loaded ROM",
		"path", path,
		"size", len(data),
		"mapper", cart.Header.Mapper(),
		"prg_banks", cart.Header.PRGBanks,
		"chr_banks", cart.Header.CHRBanks,
		"mirroring", cart.Header.Mirroring())

	return cart, nil
}

// Parse decodes an iNES image. The returned cartridge owns copies of the ROM data.
func Parse(data []byte) (*Cartridge, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: header needs %d bytes, got %d", ErrTruncated, headerSize, len(data))
	}

	var header Header
	if err := binary.Read(bytes.NewReader(data[:headerSize]), binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to decode header: %w", err)
	}

	if header.Magic != magic {
		return nil, ErrInvalidMagic
	}
	if header.Padding != [5]byte{} {
		return nil, ErrInvalidPadding
	}

	offset := headerSize
	if header.HasTrainer() {
		offset += trainerSize
	}

	prgSize := int(header.PRGBanks) * PRGBankSize
	chrSize := int(header.CHRBanks) * CHRBankSize
	if header.PRGBanks == 0 {
		return nil, fmt.Errorf("%w: no program ROM", ErrTruncated)
	}
	if len(data) < offset+prgSize+chrSize {
		return nil, fmt.Errorf("%w: expected %d bytes of ROM data, got %d", ErrTruncated, prgSize+chrSize, len(data)-offset)
	}

	cart := &Cartridge{
		Header: header,
		PRG:    make([]byte, prgSize),
		CHR:    make([]byte, chrSize),
	}
	copy(cart.PRG, data[offset:offset+prgSize])
	copy(cart.CHR, data[offset+prgSize:offset+prgSize+chrSize])

	mapper, err := NewMapper(cart)
	if err != nil {
		return nil, err
	}
	cart.Mapper = mapper

	return cart, nil
}

// NewMapper builds the mapper declared by the cartridge header.
func NewMapper(cart *Cartridge) (Mapper, error) {
	chrRAM := len(cart.CHR) == 0
	chr := cart.CHR
	if chrRAM {
		chr = make([]byte, CHRBankSize)
	}

	switch id := cart.Header.Mapper(); id {
	case 0:
		return NewMapper0(cart.PRG, chr, chrRAM, cart.Header.Mirroring()), nil
	case 1:
		return NewMMC1(cart.PRG, chr, chrRAM), nil
	case 2:
		return NewUxROM(cart.PRG, chr, chrRAM, cart.Header.Mirroring()), nil
	case 3:
		return NewCNROM(cart.PRG, chr, chrRAM, cart.Header.Mirroring()), nil
	default:
		return nil, &UnsupportedMapperError{Mapper: id}
	}
}
