package ppu

import "github.com/valerio/go-nes/nes/addr"

// PPUCTRL bits
const (
	ctrlIncrement32     uint8 = 1 << 2
	ctrlSpriteTable     uint8 = 1 << 3
	ctrlBackgroundTable uint8 = 1 << 4
	ctrlSpriteSize16    uint8 = 1 << 5
	ctrlNMIEnable       uint8 = 1 << 7
)

// PPUMASK bits
const (
	maskGreyscale      uint8 = 1 << 0
	maskBackgroundLeft uint8 = 1 << 1
	maskSpriteLeft     uint8 = 1 << 2
	maskBackground     uint8 = 1 << 3
	maskSprites        uint8 = 1 << 4
)

// PPUSTATUS bits
const (
	statusSpriteOverflow uint8 = 1 << 5
	statusSpriteZeroHit  uint8 = 1 << 6
	statusVBlank         uint8 = 1 << 7
)

// InterruptRequester receives the NMI raised at the start of vblank.
type InterruptRequester interface {
	Request(interrupt addr.Interrupt)
}

// LineRenderer receives each visible scanline as soon as it is complete.
// The pixel slice is reused by the PPU and only valid during the call.
type LineRenderer interface {
	RenderLine(line int, pixels []uint32)
}

// LineRendererFunc adapts a function to LineRenderer.
type LineRendererFunc func(line int, pixels []uint32)

func (f LineRendererFunc) RenderLine(line int, pixels []uint32) { f(line, pixels) }

// PPU is the 2C02 picture processing unit, advanced one dot at a time.
type PPU struct {
	memory    vram
	requester InterruptRequester
	renderer  LineRenderer

	scan Scan

	ctrl    uint8
	mask    uint8
	status  uint8
	oamAddr uint8

	// loopy registers: current address, temporary address, fine X, write toggle
	v     VRAMAddress
	t     VRAMAddress
	fineX uint8
	w     bool

	readBuffer     uint8
	busLatch       uint8
	suppressVBlank bool

	bg background

	oam              [256]uint8
	secondaryOAM     [32]uint8
	secondaryCount   int
	spriteZeroNext   bool
	sprites          [maxSpritesPerLine]spriteSlot
	spriteCount      int
	spriteZeroOnLine bool

	lineBuffer [ScreenWidth]uint32
}

// New creates a PPU reading pattern tables through mapper and raising NMI through requester.
func New(mapper Mapper, requester InterruptRequester) *PPU {
	p := &PPU{requester: requester}
	p.memory.mapper = mapper
	return p
}

// SetMapper replaces the cartridge connected to the PPU bus.
func (p *PPU) SetMapper(mapper Mapper) {
	p.memory.mapper = mapper
}

// SetRenderer installs the scanline consumer, nil disables line delivery.
func (p *PPU) SetRenderer(renderer LineRenderer) {
	p.renderer = renderer
}

// Reset restores the power-on state: registers, VRAM, OAM and scan position.
func (p *PPU) Reset() {
	mapper, requester, renderer := p.memory.mapper, p.requester, p.renderer
	*p = PPU{requester: requester, renderer: renderer}
	p.memory.mapper = mapper
}

// Step advances the PPU by a single dot.
func (p *PPU) Step() ScanUpdate {
	p.process()

	line := p.scan.Line
	update := p.scan.NextDot()
	if update != DotChanged && line < ScreenHeight && p.renderer != nil {
		p.renderer.RenderLine(line, p.lineBuffer[:])
	}
	return update
}

func (p *PPU) requestNMI() {
	if p.requester != nil {
		p.requester.Request(addr.NMI)
	}
}

func (p *PPU) renderingEnabled() bool {
	return p.mask&(maskBackground|maskSprites) != 0
}

func (p *PPU) process() {
	line, dot := p.scan.Line, p.scan.Dot
	visible := line < ScreenHeight
	preRender := line == preRenderLine

	if (visible || preRender) && p.renderingEnabled() {
		p.backgroundDot(dot, preRender)
		p.spriteDot(line, dot, preRender)
	}

	if visible && dot >= 1 && dot <= ScreenWidth {
		p.lineBuffer[dot-1] = p.pixel(dot - 1)
	}

	switch {
	case line == vblankLine && dot == 1:
		if !p.suppressVBlank {
			p.status |= statusVBlank
			if p.ctrl&ctrlNMIEnable != 0 {
				p.requestNMI()
			}
		}
		p.suppressVBlank = false
	case preRender && dot == 1:
		p.status &^= statusVBlank | statusSpriteZeroHit | statusSpriteOverflow
	case preRender && dot == 338:
		p.scan.short = p.renderingEnabled() && p.scan.Frames%2 == 1
	}
}

// pixel composes background and sprite output for column x.
func (p *PPU) pixel(x int) uint32 {
	var index uint16
	if p.renderingEnabled() {
		bgPixel, bgPalette := p.backgroundPixel(x)
		sp := p.spritePixel(x)

		if bgPixel != 0 && sp.pixel != 0 && sp.zero && x != ScreenWidth-1 {
			p.status |= statusSpriteZeroHit
		}

		switch {
		case bgPixel == 0 && sp.pixel == 0:
			index = 0
		case bgPixel == 0, sp.pixel != 0 && !sp.behind:
			index = uint16(sp.palette)<<2 | uint16(sp.pixel)
		default:
			index = uint16(bgPalette)<<2 | uint16(bgPixel)
		}
	}

	color := p.memory.read(paletteStart + index)
	if p.mask&maskGreyscale != 0 {
		color &= 0x30
	}
	return Color(color)
}

// Scan returns the current timing position.
func (p *PPU) Scan() Scan { return p.scan }

// Frames returns how many frames have been completed.
func (p *PPU) Frames() uint64 { return p.scan.Frames }

// Debug getter methods
func (p *PPU) GetCtrl() uint8   { return p.ctrl }
func (p *PPU) GetMask() uint8   { return p.mask }
func (p *PPU) GetStatus() uint8 { return p.status }
func (p *PPU) GetV() uint16     { return uint16(p.v) }
func (p *PPU) GetT() uint16     { return uint16(p.t) }
func (p *PPU) GetFineX() uint8  { return p.fineX }

// OAM returns a copy of primary OAM.
func (p *PPU) OAM() [256]uint8 { return p.oam }

// PeekVRAM reads the PPU address space without touching the read buffer.
func (p *PPU) PeekVRAM(address uint16) uint8 {
	return p.memory.read(address)
}
