package apu

// LengthCounter silences a channel after a number of half frames.
// Reference: https://www.nesdev.org/wiki/APU_Length_Counter
type LengthCounter struct {
	enabled bool
	halt    bool
	counter uint8
}

// SetEnabled mirrors the channel bit of 0x4015, disabling clears the counter.
func (l *LengthCounter) SetEnabled(enabled bool) {
	l.enabled = enabled
	if !enabled {
		l.counter = 0
	}
}

func (l *LengthCounter) SetHalt(halt bool) {
	l.halt = halt
}

// Reload loads the counter from the length table, only while enabled.
func (l *LengthCounter) Reload(index uint8) {
	if l.enabled {
		l.counter = lengthTable[index&0x1F]
	}
}

// Clock is driven by the half frame pulse.
func (l *LengthCounter) Clock() {
	if l.counter > 0 && !l.halt {
		l.counter--
	}
}

// Active reports a non-zero counter, which is what 0x4015 reads return.
func (l *LengthCounter) Active() bool {
	return l.counter > 0
}

func (l *LengthCounter) Counter() uint8 { return l.counter }
