package ppu

// VRAMAddress is the 15 bit layout shared by the v and t registers:
//
//	yyy NN YYYYY XXXXX
//	||| || ||||| +++++-- coarse X scroll
//	||| || +++++-------- coarse Y scroll
//	||| ++-------------- nametable select
//	+++----------------- fine Y scroll
type VRAMAddress uint16

const (
	coarseXMask   VRAMAddress = 0x001F
	coarseYMask   VRAMAddress = 0x03E0
	nameTableMask VRAMAddress = 0x0C00
	fineYMask     VRAMAddress = 0x7000

	horizontalNameTable VRAMAddress = 0x0400
	verticalNameTable   VRAMAddress = 0x0800

	horizontalBits = coarseXMask | horizontalNameTable
	verticalBits   = coarseYMask | verticalNameTable | fineYMask
)

func (v VRAMAddress) CoarseX() uint8   { return uint8(v & coarseXMask) }
func (v VRAMAddress) CoarseY() uint8   { return uint8((v & coarseYMask) >> 5) }
func (v VRAMAddress) NameTable() uint8 { return uint8((v & nameTableMask) >> 10) }
func (v VRAMAddress) FineY() uint8     { return uint8((v & fineYMask) >> 12) }

// NameTableAddress is the nametable byte for the tile v points at.
func (v VRAMAddress) NameTableAddress() uint16 {
	return 0x2000 | uint16(v&0x0FFF)
}

// AttributeAddress is the attribute byte covering the tile v points at.
func (v VRAMAddress) AttributeAddress() uint16 {
	return 0x23C0 | uint16(v&nameTableMask) | uint16(v>>4)&0x38 | uint16(v>>2)&0x07
}

// IncrCoarseX moves to the next tile, switching horizontal nametable on wrap.
func (v VRAMAddress) IncrCoarseX() VRAMAddress {
	if v.CoarseX() == 31 {
		return (v &^ coarseXMask) ^ horizontalNameTable
	}
	return v + 1
}

// IncrY moves to the next pixel row. Coarse Y wraps at 29 switching the
// vertical nametable, while 30 and 31 (attribute rows) wrap to 0 without switching.
func (v VRAMAddress) IncrY() VRAMAddress {
	if v.FineY() < 7 {
		return v + 0x1000
	}

	v &^= fineYMask
	y := v.CoarseY()
	switch y {
	case 29:
		y = 0
		v ^= verticalNameTable
	case 31:
		y = 0
	default:
		y++
	}
	return v&^coarseYMask | VRAMAddress(y)<<5
}

// CopyX takes coarse X and the horizontal nametable bit from t.
func (v VRAMAddress) CopyX(t VRAMAddress) VRAMAddress {
	return v&^horizontalBits | t&horizontalBits
}

// CopyY takes fine Y, coarse Y and the vertical nametable bit from t.
func (v VRAMAddress) CopyY(t VRAMAddress) VRAMAddress {
	return v&^verticalBits | t&verticalBits
}
