package apu

// Divider outputs a clock every period+1 input clocks.
// Reference: https://www.nesdev.org/wiki/APU#Glossary
type Divider struct {
	period  uint16
	counter uint16
}

// Clock decrements the counter. When it is already zero it is reloaded and
// Clock reports true, which is the output clock.
func (d *Divider) Clock() bool {
	if d.counter == 0 {
		d.counter = d.period
		return true
	}
	d.counter--
	return false
}

// Reload sets the counter back to the period without emitting a clock.
func (d *Divider) Reload() {
	d.counter = d.period
}

func (d *Divider) SetPeriod(period uint16) {
	d.period = period
}

func (d *Divider) Period() uint16  { return d.period }
func (d *Divider) Counter() uint16 { return d.counter }

// Timer is the 11-bit channel period divider, written through a low and a
// high register.
type Timer struct {
	Divider
}

// SetLow replaces bits 0-7 of the period.
func (t *Timer) SetLow(value uint8) {
	t.period = t.period&0x0700 | uint16(value)
}

// SetHigh replaces bits 8-10 of the period with the low 3 bits of value.
func (t *Timer) SetHigh(value uint8) {
	t.period = t.period&0x00FF | uint16(value&0x07)<<8
}

// Sequencer steps through one of the four pulse duty waveforms.
type Sequencer struct {
	duty     uint8
	position uint8
}

func (s *Sequencer) SetDuty(duty uint8) {
	s.duty = duty & 0x03
}

// Clock advances the position, wrapping after 8 steps.
func (s *Sequencer) Clock() {
	s.position = (s.position + 1) & 0x07
}

func (s *Sequencer) Restart() {
	s.position = 0
}

// Gate passes input through while the current waveform step is high.
func (s *Sequencer) Gate(input uint8) uint8 {
	if dutyTable[s.duty][s.position] == 0 {
		return 0
	}
	return input
}
