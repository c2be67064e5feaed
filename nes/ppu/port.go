package ppu

import "github.com/valerio/go-nes/nes/addr"

// ReadRegister handles CPU reads of 0x2000-0x2007. Write-only registers
// return the value left on the PPU data bus by the last access.
func (p *PPU) ReadRegister(address uint16) uint8 {
	switch addr.PPUCTRL + address&0x07 {
	case addr.PPUSTATUS:
		return p.readStatus()
	case addr.OAMDATA:
		p.busLatch = p.readOAMData()
	case addr.PPUDATA:
		p.busLatch = p.readData()
	}
	return p.busLatch
}

// WriteRegister handles CPU writes of 0x2000-0x2007.
func (p *PPU) WriteRegister(address uint16, value uint8) {
	p.busLatch = value

	switch addr.PPUCTRL + address&0x07 {
	case addr.PPUCTRL:
		p.writeCtrl(value)
	case addr.PPUMASK:
		p.mask = value
	case addr.OAMADDR:
		p.oamAddr = value
	case addr.OAMDATA:
		p.WriteOAM(value)
	case addr.PPUSCROLL:
		p.writeScroll(value)
	case addr.PPUADDR:
		p.writeAddress(value)
	case addr.PPUDATA:
		p.memory.write(uint16(p.v), value)
		p.incrementV()
	}
}

// WriteOAM stores a byte at OAMADDR and advances it, as OAMDATA writes and OAM DMA do.
func (p *PPU) WriteOAM(value uint8) {
	p.oam[p.oamAddr] = value
	p.oamAddr++
}

// PeekRegister returns what a read would return without its side effects.
func (p *PPU) PeekRegister(address uint16) uint8 {
	if addr.PPUCTRL+address&0x07 == addr.PPUSTATUS {
		return p.status&0xE0 | p.busLatch&0x1F
	}
	return p.busLatch
}

// readStatus clears vblank and the write toggle. Reading right before vblank
// starts returns it clear and suppresses it, NMI included, for this frame.
func (p *PPU) readStatus() uint8 {
	if p.scan.Line == vblankLine && p.scan.Dot < 2 {
		p.suppressVBlank = true
	}

	value := p.status&0xE0 | p.busLatch&0x1F
	p.status &^= statusVBlank
	p.w = false
	p.busLatch = value
	return value
}

func (p *PPU) readOAMData() uint8 {
	clearing := p.scan.Line < ScreenHeight && p.scan.Dot >= 1 && p.scan.Dot <= 64
	if clearing && p.renderingEnabled() {
		return 0xFF
	}
	return p.oam[p.oamAddr]
}

// readData goes through the internal read buffer, except for palette reads
// which are immediate while the buffer picks up the nametable underneath.
func (p *PPU) readData() uint8 {
	address := uint16(p.v) & 0x3FFF
	var value uint8
	if address < paletteStart {
		value = p.readBuffer
		p.readBuffer = p.memory.read(address)
	} else {
		value = p.memory.read(address)
		p.readBuffer = p.memory.read(address - 0x1000)
	}
	p.incrementV()
	return value
}

func (p *PPU) incrementV() {
	if p.ctrl&ctrlIncrement32 != 0 {
		p.v += 32
	} else {
		p.v++
	}
	p.v &= 0x7FFF
}

// writeCtrl enabling NMI while vblank is already set raises it immediately.
func (p *PPU) writeCtrl(value uint8) {
	enabled := p.ctrl&ctrlNMIEnable == 0 && value&ctrlNMIEnable != 0
	p.ctrl = value
	p.t = p.t&^nameTableMask | VRAMAddress(value&0x03)<<10

	if enabled && p.status&statusVBlank != 0 {
		p.requestNMI()
	}
}

func (p *PPU) writeScroll(value uint8) {
	if !p.w {
		p.t = p.t&^coarseXMask | VRAMAddress(value>>3)
		p.fineX = value & 0x07
	} else {
		p.t = p.t&^(fineYMask|coarseYMask) | VRAMAddress(value&0x07)<<12 | VRAMAddress(value&0xF8)<<2
	}
	p.w = !p.w
}

func (p *PPU) writeAddress(value uint8) {
	if !p.w {
		p.t = p.t&0x00FF | VRAMAddress(value&0x3F)<<8
	} else {
		p.t = p.t&0xFF00 | VRAMAddress(value)
		p.v = p.t
	}
	p.w = !p.w
}
