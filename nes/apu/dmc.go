package apu

// MemoryReader is the CPU bus view used by the DMC to fetch sample bytes.
type MemoryReader interface {
	Read(address uint16) byte
}

// dmcFetchStall is the amount of CPU cycles a sample fetch steals.
const dmcFetchStall = 4

// DMC plays 1-bit delta encoded samples read from CPU memory.
// Reference: https://www.nesdev.org/wiki/APU_DMC
type DMC struct {
	reader MemoryReader

	irqEnabled bool
	loop       bool
	irq        bool
	timer      Timer
	output     uint8

	sampleAddress  uint16
	sampleLength   uint16
	currentAddress uint16
	bytesRemaining uint16

	buffer      uint8
	bufferEmpty bool

	shift         uint8
	bitsRemaining uint8
	silence       bool

	stall int
}

func NewDMC(reader MemoryReader) *DMC {
	d := &DMC{
		reader:        reader,
		bufferEmpty:   true,
		bitsRemaining: 8,
		silence:       true,
	}
	d.timer.SetPeriod(dmcTable[0] - 1)
	return d
}

// Write handles 0x4010-0x4013, reg is the offset 0-3.
func (d *DMC) Write(reg uint16, value uint8) {
	switch reg {
	case 0:
		d.irqEnabled = value&0x80 != 0
		if !d.irqEnabled {
			d.irq = false
		}
		d.loop = value&0x40 != 0
		d.timer.SetPeriod(dmcTable[value&0x0F] - 1)
	case 1:
		d.output = value & 0x7F
	case 2:
		d.sampleAddress = 0xC000 | uint16(value)<<6
	case 3:
		d.sampleLength = uint16(value)<<4 | 1
	}
}

// SetEnabled handles the DMC bit of 0x4015. Enabling with nothing left to
// play restarts the sample, disabling drops the remaining bytes.
func (d *DMC) SetEnabled(enabled bool) {
	d.irq = false
	if !enabled {
		d.bytesRemaining = 0
		return
	}
	if d.bytesRemaining == 0 {
		d.restart()
		d.fill()
	}
}

func (d *DMC) restart() {
	d.currentAddress = d.sampleAddress
	d.bytesRemaining = d.sampleLength
}

// fill runs the memory reader when the sample buffer is empty.
func (d *DMC) fill() {
	if !d.bufferEmpty || d.bytesRemaining == 0 {
		return
	}

	d.stall += dmcFetchStall
	if d.reader != nil {
		d.buffer = d.reader.Read(d.currentAddress)
	}
	d.bufferEmpty = false

	d.currentAddress++
	if d.currentAddress == 0 {
		d.currentAddress = 0x8000
	}

	d.bytesRemaining--
	if d.bytesRemaining > 0 {
		return
	}
	if d.loop {
		d.restart()
	} else if d.irqEnabled {
		d.irq = true
	}
}

// ClockTimer runs once per CPU cycle, the rate table is in CPU cycles.
func (d *DMC) ClockTimer() {
	if !d.timer.Clock() {
		return
	}

	if !d.silence {
		if d.shift&0x01 != 0 {
			if d.output <= 125 {
				d.output += 2
			}
		} else if d.output >= 2 {
			d.output -= 2
		}
	}
	d.shift >>= 1

	d.bitsRemaining--
	if d.bitsRemaining > 0 {
		return
	}
	d.bitsRemaining = 8
	if d.bufferEmpty {
		d.silence = true
		return
	}
	d.silence = false
	d.shift = d.buffer
	d.bufferEmpty = true
	d.fill()
}

// TakeStall returns and clears the CPU cycles stolen by sample fetches.
func (d *DMC) TakeStall() int {
	stall := d.stall
	d.stall = 0
	return stall
}

func (d *DMC) Output() uint8 { return d.output }
func (d *DMC) Active() bool  { return d.bytesRemaining > 0 }
func (d *DMC) IRQ() bool     { return d.irq }
