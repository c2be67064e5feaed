package ppu

const (
	// DotsPerLine is the number of PPU clocks in a scanline.
	DotsPerLine = 341
	// LinesPerFrame is the number of scanlines in an NTSC frame, pre-render included.
	LinesPerFrame = 262

	// ScreenWidth is the number of visible pixels in a scanline.
	ScreenWidth = 256
	// ScreenHeight is the number of visible scanlines.
	ScreenHeight = 240

	postRenderLine = 240
	vblankLine     = 241
	preRenderLine  = 261
)

// ScanUpdate reports which counters changed after advancing one dot.
type ScanUpdate uint8

const (
	// DotChanged means only the dot counter advanced.
	DotChanged ScanUpdate = iota
	// LineChanged means the dot wrapped and a new scanline started.
	LineChanged
	// FrameChanged means the last scanline wrapped and a new frame started.
	FrameChanged
)

// Scan is the video timing position: dot 0-340 on scanline 0-261.
type Scan struct {
	Dot    int
	Line   int
	Frames uint64

	// short is set for odd frames with rendering enabled: the pre-render
	// line drops its last dot.
	short bool
}

// NextDot advances the scan position by one dot.
func (s *Scan) NextDot() ScanUpdate {
	s.Dot++

	last := DotsPerLine
	if s.Line == preRenderLine && s.short {
		last = DotsPerLine - 1
	}
	if s.Dot < last {
		return DotChanged
	}

	s.Dot = 0
	s.Line++
	if s.Line < LinesPerFrame {
		return LineChanged
	}

	s.Line = 0
	s.short = false
	s.Frames++
	return FrameChanged
}

// Clear moves back to the first dot of the first frame.
func (s *Scan) Clear() {
	*s = Scan{}
}
