package apu

// Pulse is one of the two square wave channels.
// Reference: https://www.nesdev.org/wiki/APU_Pulse
type Pulse struct {
	envelope  EnvelopeGenerator
	sweep     SweepUnit
	length    LengthCounter
	timer     Timer
	sequencer Sequencer
}

// NewPulse returns a pulse channel. Channel 1 negates its sweep with ones' complement.
func NewPulse(channel int) *Pulse {
	p := &Pulse{}
	p.sweep.onesComplement = channel == ChannelPulse1
	return p
}

// Write handles one of the four channel registers, reg is the offset 0-3.
func (p *Pulse) Write(reg uint16, value uint8) {
	switch reg {
	case 0:
		p.sequencer.SetDuty(value >> 6)
		p.length.SetHalt(value&0x20 != 0)
		p.envelope.Update(value)
	case 1:
		p.sweep.Update(value)
	case 2:
		p.timer.SetLow(value)
	case 3:
		p.timer.SetHigh(value)
		p.length.Reload(value >> 3)
		p.sequencer.Restart()
		p.envelope.Restart()
	}
}

// ClockTimer runs once per APU cycle.
func (p *Pulse) ClockTimer() {
	if p.timer.Clock() {
		p.sequencer.Clock()
	}
}

func (p *Pulse) ClockQuarter() {
	p.envelope.Clock()
}

func (p *Pulse) ClockHalf() {
	p.length.Clock()
	p.sweep.Clock(&p.timer)
}

// Output returns the current 4-bit sample.
func (p *Pulse) Output() uint8 {
	if !p.length.Active() || p.sweep.Muting(p.timer.Period()) {
		return 0
	}
	return p.sequencer.Gate(p.envelope.Output())
}

func (p *Pulse) SetEnabled(enabled bool) { p.length.SetEnabled(enabled) }
func (p *Pulse) Active() bool            { return p.length.Active() }
