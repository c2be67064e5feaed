package render

// RGB splits an ARGB pixel into its colour channels.
func RGB(pixel uint32) (r, g, b int32) {
	return int32(pixel >> 16 & 0xFF), int32(pixel >> 8 & 0xFF), int32(pixel & 0xFF)
}

// Average blends pixels channel by channel, used to shrink the 256 pixel wide
// picture to a terminal friendly width.
func Average(pixels ...uint32) uint32 {
	if len(pixels) == 0 {
		return 0
	}

	var r, g, b uint32
	for _, p := range pixels {
		r += p >> 16 & 0xFF
		g += p >> 8 & 0xFF
		b += p & 0xFF
	}
	n := uint32(len(pixels))
	return 0xFF000000 | (r/n)<<16 | (g/n)<<8 | b/n
}
