package apu

// Timing constants
// Reference: https://www.nesdev.org/wiki/APU_Frame_Counter
const (
	// CPUFrequency is the NTSC 2A03 clock in Hz.
	CPUFrequency = 1789773

	// DefaultSampleRate is the host sample rate used when none is configured.
	DefaultSampleRate = 44100

	// frame counter steps, in APU cycles (one APU cycle = two CPU cycles).
	// The documented boundaries fall on half cycles (3728.5, 7456.5, ...),
	// they are all rounded up to the next whole cycle.
	stepQuarter1 = 3729
	stepHalf1    = 7457
	stepQuarter3 = 11186
	stepIRQ      = 14914
	stepFour     = 14915
	stepFive     = 18641
)

// Channel indices used by the debugging controls (1-based like the register docs).
const (
	ChannelPulse1 = iota + 1
	ChannelPulse2
	ChannelTriangle
	ChannelNoise
	ChannelDMC

	ChannelCount = ChannelDMC
)

// Buffer constants
const (
	initialBufferCapacity = 4096
	// maxBufferSize drops the oldest samples when nobody consumes them
	maxBufferSize    = 16384
	bufferRetainSize = 8192
)

// 0x4015 bits
const (
	statusPulse1   = 1 << 0
	statusPulse2   = 1 << 1
	statusTriangle = 1 << 2
	statusNoise    = 1 << 3
	statusDMC      = 1 << 4
	statusFrameIRQ = 1 << 6
	statusDMCIRQ   = 1 << 7
)

// lengthTable maps the 5-bit length index written to the high timer registers.
var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

var dutyTable = [4][8]uint8{
	{0, 1, 0, 0, 0, 0, 0, 0}, // 12.5%
	{0, 1, 1, 0, 0, 0, 0, 0}, // 25%
	{0, 1, 1, 1, 1, 0, 0, 0}, // 50%
	{1, 0, 0, 1, 1, 1, 1, 1}, // 25% negated
}

var triangleTable = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

// noise and DMC periods are in CPU cycles
var noiseTable = [16]uint16{
	4, 8, 16, 32, 64, 96, 128, 160, 202, 254, 380, 508, 762, 1016, 2034, 4068,
}

var dmcTable = [16]uint16{
	428, 380, 340, 320, 286, 254, 226, 214, 190, 160, 142, 128, 106, 84, 72, 54,
}
