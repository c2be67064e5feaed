package apu

// Noise is the pseudo-random channel driven by a 15-bit LFSR.
// Reference: https://www.nesdev.org/wiki/APU_Noise
type Noise struct {
	envelope EnvelopeGenerator
	length   LengthCounter
	timer    Timer
	shift    uint16
	mode     bool
}

func NewNoise() *Noise {
	n := &Noise{shift: 1}
	n.timer.SetPeriod(noiseTable[0] - 1)
	return n
}

// Write handles 0x400C-0x400F, reg is the offset 0-3 (1 is unused).
func (n *Noise) Write(reg uint16, value uint8) {
	switch reg {
	case 0:
		n.length.SetHalt(value&0x20 != 0)
		n.envelope.Update(value)
	case 2:
		n.mode = value&0x80 != 0
		n.timer.SetPeriod(noiseTable[value&0x0F] - 1)
	case 3:
		n.length.Reload(value >> 3)
		n.envelope.Restart()
	}
}

// ClockTimer runs once per CPU cycle, the period table is in CPU cycles.
func (n *Noise) ClockTimer() {
	if !n.timer.Clock() {
		return
	}
	tap := uint16(1)
	if n.mode {
		tap = 6
	}
	feedback := (n.shift ^ n.shift>>tap) & 0x01
	n.shift = n.shift>>1 | feedback<<14
}

func (n *Noise) ClockQuarter() {
	n.envelope.Clock()
}

func (n *Noise) ClockHalf() {
	n.length.Clock()
}

// Output is silent while bit 0 of the shift register is set.
func (n *Noise) Output() uint8 {
	if !n.length.Active() || n.shift&0x01 != 0 {
		return 0
	}
	return n.envelope.Output()
}

func (n *Noise) SetEnabled(enabled bool) { n.length.SetEnabled(enabled) }
func (n *Noise) Active() bool            { return n.length.Active() }
