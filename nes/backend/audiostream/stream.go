package audiostream

import (
	"encoding/binary"
)

const bytesPerSample = 2

// SampleSource is the pull side of the APU sample buffer. It pads with
// silence when the emulator falls behind the device.
type SampleSource interface {
	GetSamples(count int) []int16
}

// Stream is an io.Reader of interleaved little endian signed 16-bit PCM,
// duplicating the mono APU output on every channel.
type Stream struct {
	source   SampleSource
	channels int
}

func NewStream(source SampleSource, channels int) *Stream {
	if channels < 1 {
		channels = 1
	}
	return &Stream{source: source, channels: channels}
}

// Read fills whole frames only, a trailing partial frame is left unread.
func (s *Stream) Read(p []byte) (int, error) {
	frames := len(p) / (bytesPerSample * s.channels)
	if frames == 0 {
		return 0, nil
	}

	out := Encode(p[:0], s.source.GetSamples(frames), s.channels)
	return len(out), nil
}

// Encode appends samples to dst as interleaved PCM.
func Encode(dst []byte, samples []int16, channels int) []byte {
	for _, sample := range samples {
		for range channels {
			dst = binary.LittleEndian.AppendUint16(dst, uint16(sample))
		}
	}
	return dst
}
