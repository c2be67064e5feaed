package apu

// FrameCounter emits quarter and half frame pulses in 4-step or 5-step mode,
// and raises the frame IRQ at the end of the 4-step sequence.
// Reference: https://www.nesdev.org/wiki/APU_Frame_Counter
type FrameCounter struct {
	fiveStep bool
	inhibit  bool
	irq      bool
	cycle    int // APU cycles since the sequence started
}

// Write handles 0x4017 (MI-- ----). Selecting 5-step mode clocks both
// pulses right away, which is reported through the return values.
func (f *FrameCounter) Write(value uint8) (quarter, half bool) {
	f.fiveStep = value&0x80 != 0
	f.inhibit = value&0x40 != 0
	if f.inhibit {
		f.irq = false
	}
	f.cycle = 0
	return f.fiveStep, f.fiveStep
}

// Step advances one APU cycle.
func (f *FrameCounter) Step() (quarter, half bool) {
	f.cycle++

	switch f.cycle {
	case stepQuarter1, stepQuarter3:
		return true, false
	case stepHalf1:
		return true, true
	}

	if f.fiveStep {
		if f.cycle == stepFive {
			f.cycle = 0
			return true, true
		}
		return false, false
	}

	switch f.cycle {
	case stepIRQ:
		f.raiseIRQ()
	case stepFour:
		f.raiseIRQ()
		f.cycle = 0
		return true, true
	}
	return false, false
}

func (f *FrameCounter) raiseIRQ() {
	if !f.inhibit {
		f.irq = true
	}
}

func (f *FrameCounter) IRQ() bool { return f.irq }

// ClearIRQ acknowledges the frame interrupt, as a 0x4015 read does.
func (f *FrameCounter) ClearIRQ() {
	f.irq = false
}
