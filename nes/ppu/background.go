package ppu

import "github.com/valerio/go-nes/nes/bit"

// background holds the fetch latches and shift registers of the tile pipeline.
type background struct {
	nameTable   uint8
	attribute   uint8
	patternLow  uint8
	patternHigh uint8

	shiftPatternLow  uint16
	shiftPatternHigh uint16
	shiftAttrLow     uint16
	shiftAttrHigh    uint16
}

func (b *background) shift() {
	b.shiftPatternLow <<= 1
	b.shiftPatternHigh <<= 1
	b.shiftAttrLow <<= 1
	b.shiftAttrHigh <<= 1
}

// reload moves the latched tile into the low byte of the shifters.
func (b *background) reload() {
	b.shiftPatternLow = b.shiftPatternLow&0xFF00 | uint16(b.patternLow)
	b.shiftPatternHigh = b.shiftPatternHigh&0xFF00 | uint16(b.patternHigh)
	b.shiftAttrLow = b.shiftAttrLow&0xFF00 | expandBit(b.attribute, 0)
	b.shiftAttrHigh = b.shiftAttrHigh&0xFF00 | expandBit(b.attribute, 1)
}

func expandBit(value, index uint8) uint16 {
	if bit.IsSet(index, value) {
		return 0x00FF
	}
	return 0
}

// backgroundDot runs the fetch pipeline for one dot of a rendering line.
// Each tile takes 8 dots: nametable, attribute, pattern low and pattern high
// bytes, then coarse X moves on. Tiles 0 and 1 of a line are prefetched on
// dots 321-336 of the previous one.
func (p *PPU) backgroundDot(dot int, preRender bool) {
	if (dot >= 2 && dot <= 257) || (dot >= 321 && dot <= 337) {
		p.bg.shift()

		switch (dot - 1) % 8 {
		case 0:
			p.bg.reload()
			p.bg.nameTable = p.memory.read(p.v.NameTableAddress())
		case 2:
			p.bg.attribute = p.fetchAttribute()
		case 4:
			p.bg.patternLow = p.memory.read(p.backgroundPatternAddress())
		case 6:
			p.bg.patternHigh = p.memory.read(p.backgroundPatternAddress() + 8)
		case 7:
			p.v = p.v.IncrCoarseX()
		}
	}

	switch {
	case dot == 256:
		p.v = p.v.IncrY()
	case dot == 257:
		p.v = p.v.CopyX(p.t)
	case preRender && dot >= 280 && dot <= 304:
		p.v = p.v.CopyY(p.t)
	}
}

// fetchAttribute selects the 2 bit palette of the 16x16 quadrant v points at.
func (p *PPU) fetchAttribute() uint8 {
	attribute := p.memory.read(p.v.AttributeAddress())
	if p.v.CoarseY()&0x02 != 0 {
		attribute >>= 4
	}
	if p.v.CoarseX()&0x02 != 0 {
		attribute >>= 2
	}
	return attribute & 0x03
}

func (p *PPU) backgroundPatternAddress() uint16 {
	var table uint16
	if p.ctrl&ctrlBackgroundTable != 0 {
		table = 0x1000
	}
	return table + uint16(p.bg.nameTable)*16 + uint16(p.v.FineY())
}

// backgroundPixel returns the 2 bit pixel and palette for column x.
func (p *PPU) backgroundPixel(x int) (uint8, uint8) {
	if p.mask&maskBackground == 0 || (x < 8 && p.mask&maskBackgroundLeft == 0) {
		return 0, 0
	}

	index := 15 - p.fineX
	pixel := bitAt(p.bg.shiftPatternHigh, index)<<1 | bitAt(p.bg.shiftPatternLow, index)
	palette := bitAt(p.bg.shiftAttrHigh, index)<<1 | bitAt(p.bg.shiftAttrLow, index)
	return pixel, palette
}

func bitAt(value uint16, index uint8) uint8 {
	if bit.IsSet16(index, value) {
		return 1
	}
	return 0
}
