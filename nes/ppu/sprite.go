package ppu

import "github.com/valerio/go-nes/nes/bit"

const (
	spriteCount        = 64
	maxSpritesPerLine  = 8
	spritePaletteStart = 4
)

// sprite attribute bits
const (
	spriteAttrPalette uint8 = 0x03
	spriteAttrBehind  uint8 = 1 << 5
	spriteAttrFlipH   uint8 = 1 << 6
	spriteAttrFlipV   uint8 = 1 << 7
)

// spriteSlot is one of the eight sprite output units loaded for a scanline.
type spriteSlot struct {
	x           uint8
	attr        uint8
	patternLow  uint8
	patternHigh uint8
}

type spriteOutput struct {
	pixel   uint8
	palette uint8
	behind  bool
	zero    bool
}

func (p *PPU) spriteHeight() int {
	if p.ctrl&ctrlSpriteSize16 != 0 {
		return 16
	}
	return 8
}

// spriteDot runs sprite evaluation and pattern fetches for one dot.
// Secondary OAM is cleared on dots 1-64, filled for the next line at dot 256
// and the eight output units are loaded on dots 257-320, with OAMADDR held
// at zero.
func (p *PPU) spriteDot(line, dot int, preRender bool) {
	if dot >= 257 && dot <= 320 {
		p.oamAddr = 0
	}

	switch {
	case dot == 1:
		for i := range p.secondaryOAM {
			p.secondaryOAM[i] = 0xFF
		}
	case dot == 256:
		if preRender {
			p.secondaryCount = 0
			p.spriteZeroNext = false
		} else {
			p.evaluateSprites(line)
		}
	case dot >= 257 && dot <= 320 && (dot-257)%8 == 0:
		slot := (dot - 257) / 8
		p.loadSprite(slot, line)
		if slot == 0 {
			p.spriteCount = p.secondaryCount
			p.spriteZeroOnLine = p.spriteZeroNext
		}
	}
}

// evaluateSprites copies the sprites that intersect the next line into
// secondary OAM, raising the overflow flag when a ninth one is found.
func (p *PPU) evaluateSprites(line int) {
	height := p.spriteHeight()
	count := 0
	p.spriteZeroNext = false

	for i := 0; i < spriteCount; i++ {
		row := line - int(p.oam[i*4])
		if row < 0 || row >= height {
			continue
		}
		if count == maxSpritesPerLine {
			p.status |= statusSpriteOverflow
			break
		}
		copy(p.secondaryOAM[count*4:count*4+4], p.oam[i*4:i*4+4])
		if i == 0 {
			p.spriteZeroNext = true
		}
		count++
	}
	p.secondaryCount = count
}

func (p *PPU) loadSprite(slot, line int) {
	if slot >= p.secondaryCount {
		p.sprites[slot] = spriteSlot{}
		return
	}

	entry := p.secondaryOAM[slot*4 : slot*4+4]
	y, tile, attr, x := entry[0], entry[1], entry[2], entry[3]

	row := line - int(y)
	if attr&spriteAttrFlipV != 0 {
		row = p.spriteHeight() - 1 - row
	}

	var address uint16
	if p.spriteHeight() == 16 {
		table := uint16(tile&1) * 0x1000
		tile &= 0xFE
		if row > 7 {
			tile++
			row -= 8
		}
		address = table + uint16(tile)*16 + uint16(row)
	} else {
		var table uint16
		if p.ctrl&ctrlSpriteTable != 0 {
			table = 0x1000
		}
		address = table + uint16(tile)*16 + uint16(row)
	}

	low := p.memory.read(address)
	high := p.memory.read(address + 8)
	if attr&spriteAttrFlipH != 0 {
		low = bit.Reverse(low)
		high = bit.Reverse(high)
	}

	p.sprites[slot] = spriteSlot{x: x, attr: attr, patternLow: low, patternHigh: high}
}

// spritePixel returns the first opaque sprite pixel at column x, lower OAM
// index wins.
func (p *PPU) spritePixel(x int) spriteOutput {
	if p.mask&maskSprites == 0 || (x < 8 && p.mask&maskSpriteLeft == 0) {
		return spriteOutput{}
	}

	for i := 0; i < p.spriteCount; i++ {
		s := &p.sprites[i]
		offset := x - int(s.x)
		if offset < 0 || offset > 7 {
			continue
		}

		shift := uint8(7 - offset)
		pixel := bit.GetBitValue(shift, s.patternHigh)<<1 | bit.GetBitValue(shift, s.patternLow)
		if pixel == 0 {
			continue
		}

		return spriteOutput{
			pixel:   pixel,
			palette: spritePaletteStart + s.attr&spriteAttrPalette,
			behind:  s.attr&spriteAttrBehind != 0,
			zero:    i == 0 && p.spriteZeroOnLine,
		}
	}
	return spriteOutput{}
}
