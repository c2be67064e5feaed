package ppu

// FrameBuffer holds one full picture as packed ARGB pixels.
type FrameBuffer struct {
	width  int
	height int
	buffer []uint32
}

// NewFrameBuffer creates a frame buffer with the specified size.
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		width:  width,
		height: height,
		buffer: make([]uint32, width*height),
	}
}

// NewScreenBuffer creates a frame buffer sized for the visible NES picture.
func NewScreenBuffer() *FrameBuffer {
	return NewFrameBuffer(ScreenWidth, ScreenHeight)
}

func (fb *FrameBuffer) Width() int  { return fb.width }
func (fb *FrameBuffer) Height() int { return fb.height }

func (fb *FrameBuffer) GetPixel(x, y int) uint32 {
	return fb.buffer[y*fb.width+x]
}

// SetLine copies a scanline into row y. Lines outside the buffer are ignored.
func (fb *FrameBuffer) SetLine(y int, pixels []uint32) {
	if y < 0 || y >= fb.height {
		return
	}
	copy(fb.buffer[y*fb.width:(y+1)*fb.width], pixels)
}

// ToSlice exposes the backing pixels, row major.
func (fb *FrameBuffer) ToSlice() []uint32 {
	return fb.buffer
}

// Clear fills the buffer with a single color.
func (fb *FrameBuffer) Clear(color uint32) {
	for i := range fb.buffer {
		fb.buffer[i] = color
	}
}
