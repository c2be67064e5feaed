package apu

// EnvelopeGenerator produces either a constant volume or a decaying
// 15..0 saw, optionally looping.
// Reference: https://www.nesdev.org/wiki/APU_Envelope
type EnvelopeGenerator struct {
	start    bool
	loop     bool
	constant bool
	volume   uint8 // constant volume, or the divider period
	decay    uint8
	divider  Divider
}

// Update loads the --LC VVVV bits of a channel control register.
func (e *EnvelopeGenerator) Update(value uint8) {
	e.loop = value&0x20 != 0
	e.constant = value&0x10 != 0
	e.volume = value & 0x0F
	e.divider.SetPeriod(uint16(e.volume))
}

// Restart sets the start flag, handled on the next quarter frame clock.
func (e *EnvelopeGenerator) Restart() {
	e.start = true
}

// Clock is driven by the frame counter quarter frame pulse.
func (e *EnvelopeGenerator) Clock() {
	if e.start {
		e.start = false
		e.decay = 15
		e.divider.Reload()
		return
	}

	if !e.divider.Clock() {
		return
	}
	if e.decay > 0 {
		e.decay--
	} else if e.loop {
		e.decay = 15
	}
}

func (e *EnvelopeGenerator) Output() uint8 {
	if e.constant {
		return e.volume
	}
	return e.decay
}
