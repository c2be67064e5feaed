package apu

// Triangle is the 32-step triangle channel, gated by a linear counter and
// the length counter. Its timer runs at CPU rate.
// Reference: https://www.nesdev.org/wiki/APU_Triangle
type Triangle struct {
	length   LengthCounter
	timer    Timer
	position uint8

	control       bool
	linearPeriod  uint8
	linearCounter uint8
	linearReload  bool
}

// Write handles 0x4008-0x400B, reg is the offset 0-3 (1 is unused).
func (t *Triangle) Write(reg uint16, value uint8) {
	switch reg {
	case 0:
		t.control = value&0x80 != 0
		t.length.SetHalt(t.control)
		t.linearPeriod = value & 0x7F
	case 2:
		t.timer.SetLow(value)
	case 3:
		t.timer.SetHigh(value)
		t.length.Reload(value >> 3)
		t.linearReload = true
	}
}

// ClockTimer runs once per CPU cycle.
func (t *Triangle) ClockTimer() {
	if !t.timer.Clock() {
		return
	}
	if t.length.Active() && t.linearCounter > 0 {
		t.position = (t.position + 1) & 0x1F
	}
}

// ClockQuarter clocks the linear counter.
func (t *Triangle) ClockQuarter() {
	if t.linearReload {
		t.linearCounter = t.linearPeriod
	} else if t.linearCounter > 0 {
		t.linearCounter--
	}
	if !t.control {
		t.linearReload = false
	}
}

func (t *Triangle) ClockHalf() {
	t.length.Clock()
}

// Output holds the last sequence value while the channel is stopped.
func (t *Triangle) Output() uint8 {
	return triangleTable[t.position]
}

func (t *Triangle) SetEnabled(enabled bool) { t.length.SetEnabled(enabled) }
func (t *Triangle) Active() bool            { return t.length.Active() }
