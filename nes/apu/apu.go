package apu

import (
	"sync"

	"github.com/valerio/go-nes/nes/addr"
)

// highPassCutoff in Hz, roughly the first filter stage of the console output
const highPassCutoff = 90

// APU implements the 2A03 audio unit: two pulse channels, triangle, noise,
// DMC, the frame counter and the mixer.
// Reference: https://www.nesdev.org/wiki/APU
type APU struct {
	// mu protects the mixer mute state, which debugging controls change from
	// another goroutine
	mu sync.Mutex

	pulse1   *Pulse
	pulse2   *Pulse
	triangle *Triangle
	noise    *Noise
	dmc      *DMC

	frame  FrameCounter
	mixer  Mixer
	filter *highPass

	cycles uint64

	// Sample generation state, samples are taken every cyclesPerSample CPU
	// cycles using a fractional accumulator
	sampleRate      int
	cyclesPerSample float64
	nextSample      float64
	sampleBuffer    []int16
	sampleBufferMu  sync.Mutex
}

// New creates an APU producing samples at sampleRate. reader is used by the
// DMC to fetch sample bytes and may be set later with SetReader.
func New(sampleRate int, reader MemoryReader) *APU {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	a := &APU{
		sampleRate:   sampleRate,
		sampleBuffer: make([]int16, 0, initialBufferCapacity),
	}
	a.cyclesPerSample = float64(CPUFrequency) / float64(sampleRate)
	a.Reset()
	a.SetReader(reader)
	return a
}

// Reset restores the power-on state, keeping the configured sample rate and reader.
func (a *APU) Reset() {
	var reader MemoryReader
	if a.dmc != nil {
		reader = a.dmc.reader
	}

	a.pulse1 = NewPulse(ChannelPulse1)
	a.pulse2 = NewPulse(ChannelPulse2)
	a.triangle = &Triangle{}
	a.noise = NewNoise()
	a.dmc = NewDMC(reader)
	a.frame = FrameCounter{}
	a.filter = newHighPass(a.sampleRate, highPassCutoff)
	a.cycles = 0
	a.nextSample = a.cyclesPerSample

	a.sampleBufferMu.Lock()
	a.sampleBuffer = a.sampleBuffer[:0]
	a.sampleBufferMu.Unlock()
}

// SetReader wires the bus the DMC reads samples from.
func (a *APU) SetReader(reader MemoryReader) {
	a.dmc.reader = reader
}

// Tick advances the APU by the given amount of CPU cycles.
func (a *APU) Tick(cycles int) {
	for i := 0; i < cycles; i++ {
		a.Step()
	}
}

// Step advances the APU by one CPU cycle.
func (a *APU) Step() {
	a.cycles++

	a.triangle.ClockTimer()
	a.noise.ClockTimer()
	a.dmc.ClockTimer()

	// pulse timers and the frame counter run on APU cycles, every other CPU cycle
	if a.cycles%2 == 0 {
		a.pulse1.ClockTimer()
		a.pulse2.ClockTimer()
		a.clockFrame(a.frame.Step())
	}

	if float64(a.cycles) >= a.nextSample {
		a.nextSample += a.cyclesPerSample
		a.generateSample()
	}
}

func (a *APU) clockFrame(quarter, half bool) {
	if quarter {
		a.pulse1.ClockQuarter()
		a.pulse2.ClockQuarter()
		a.triangle.ClockQuarter()
		a.noise.ClockQuarter()
	}
	if half {
		a.pulse1.ClockHalf()
		a.pulse2.ClockHalf()
		a.triangle.ClockHalf()
		a.noise.ClockHalf()
	}
}

func (a *APU) generateSample() {
	a.mu.Lock()
	level := a.mixer.Mix(a.pulse1.Output(), a.pulse2.Output(), a.triangle.Output(), a.noise.Output(), a.dmc.Output())
	a.mu.Unlock()

	filtered := a.filter.filter(level)
	if filtered > 1 {
		filtered = 1
	} else if filtered < -1 {
		filtered = -1
	}
	sample := int16(filtered * 32767)

	a.sampleBufferMu.Lock()
	a.sampleBuffer = append(a.sampleBuffer, sample)
	if len(a.sampleBuffer) > maxBufferSize {
		a.sampleBuffer = a.sampleBuffer[len(a.sampleBuffer)-bufferRetainSize:]
	}
	a.sampleBufferMu.Unlock()
}

// ReadStatus implements the 0x4015 read: length counter status of every
// channel plus the interrupt flags. Reading acknowledges the frame IRQ.
func (a *APU) ReadStatus() uint8 {
	var status uint8
	if a.pulse1.Active() {
		status |= statusPulse1
	}
	if a.pulse2.Active() {
		status |= statusPulse2
	}
	if a.triangle.Active() {
		status |= statusTriangle
	}
	if a.noise.Active() {
		status |= statusNoise
	}
	if a.dmc.Active() {
		status |= statusDMC
	}
	if a.frame.IRQ() {
		status |= statusFrameIRQ
	}
	if a.dmc.IRQ() {
		status |= statusDMCIRQ
	}

	a.frame.ClearIRQ()
	return status
}

// WriteRegister handles writes to 0x4000-0x4013, 0x4015 and 0x4017.
func (a *APU) WriteRegister(address uint16, value uint8) {
	switch {
	case address >= addr.Pulse1Control && address <= addr.Pulse1TimerHi:
		a.pulse1.Write(address-addr.Pulse1Control, value)
	case address >= addr.Pulse2Control && address <= addr.Pulse2TimerHi:
		a.pulse2.Write(address-addr.Pulse2Control, value)
	case address >= addr.TriangleLinear && address <= addr.TriangleTimerHi:
		a.triangle.Write(address-addr.TriangleLinear, value)
	case address >= addr.NoiseControl && address <= addr.NoiseLength:
		a.noise.Write(address-addr.NoiseControl, value)
	case address >= addr.DMCControl && address <= addr.DMCLength:
		a.dmc.Write(address-addr.DMCControl, value)
	case address == addr.APUStatus:
		a.pulse1.SetEnabled(value&statusPulse1 != 0)
		a.pulse2.SetEnabled(value&statusPulse2 != 0)
		a.triangle.SetEnabled(value&statusTriangle != 0)
		a.noise.SetEnabled(value&statusNoise != 0)
		a.dmc.SetEnabled(value&statusDMC != 0)
	case address == addr.FrameCounter:
		a.clockFrame(a.frame.Write(value))
	}
}

// IRQ reports whether the frame counter or the DMC asserts the IRQ line.
func (a *APU) IRQ() bool {
	return a.frame.IRQ() || a.dmc.IRQ()
}

// TakeStall returns and clears the CPU cycles stolen by DMC fetches.
func (a *APU) TakeStall() int {
	return a.dmc.TakeStall()
}

// GetSamples retrieves up to count samples, padding with silence.
func (a *APU) GetSamples(count int) []int16 {
	a.sampleBufferMu.Lock()
	defer a.sampleBufferMu.Unlock()

	if len(a.sampleBuffer) < count {
		samples := make([]int16, count)
		copy(samples, a.sampleBuffer)
		a.sampleBuffer = a.sampleBuffer[:0]
		return samples
	}

	samples := make([]int16, count)
	copy(samples, a.sampleBuffer)
	a.sampleBuffer = a.sampleBuffer[:copy(a.sampleBuffer, a.sampleBuffer[count:])]
	return samples
}

// DrainSamples returns every buffered sample and empties the buffer.
func (a *APU) DrainSamples() []int16 {
	a.sampleBufferMu.Lock()
	defer a.sampleBufferMu.Unlock()

	samples := make([]int16, len(a.sampleBuffer))
	copy(samples, a.sampleBuffer)
	a.sampleBuffer = a.sampleBuffer[:0]
	return samples
}

func (a *APU) SampleRate() int      { return a.sampleRate }
func (a *APU) Cycles() uint64       { return a.cycles }
func (a *APU) Pulse1() *Pulse       { return a.pulse1 }
func (a *APU) Pulse2() *Pulse       { return a.pulse2 }
func (a *APU) Frame() *FrameCounter { return &a.frame }

