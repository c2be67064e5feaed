package debug

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavBitDepth    = 16
	wavChannels    = 1
	wavFormatPCM   = 1
	wavChunkLength = 4096
)

var errRecorderClosed = errors.New("WAV recorder is closed")

// WAVRecorder streams mono 16-bit samples to a WAV file. It implements the
// emulator's audio sink so a session can be recorded without a sound device.
type WAVRecorder struct {
	mu      sync.Mutex
	file    *os.File
	encoder *wav.Encoder
	buf     *audio.IntBuffer
	written int
	closed  bool
	err     error
}

func NewWAVRecorder(path string, sampleRate int) (*WAVRecorder, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create WAV file %s: %w", path, err)
	}

	return &WAVRecorder{
		file:    file,
		encoder: wav.NewEncoder(file, sampleRate, wavBitDepth, wavChannels, wavFormatPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: wavChannels, SampleRate: sampleRate},
			Data:           make([]int, 0, wavChunkLength),
			SourceBitDepth: wavBitDepth,
		},
	}, nil
}

// Write queues a single sample. Encoder failures are kept and reported by
// Close, so the recorder can sit behind the per-sample audio sink.
func (r *WAVRecorder) Write(sample int16) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.append(sample); err != nil && r.err == nil {
		r.err = err
	}
}

// WriteSamples queues samples, flushing to the encoder in fixed size chunks.
func (r *WAVRecorder) WriteSamples(samples []int16) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range samples {
		if err := r.append(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *WAVRecorder) append(sample int16) error {
	if r.closed {
		return errRecorderClosed
	}

	r.buf.Data = append(r.buf.Data, int(sample))
	if len(r.buf.Data) == wavChunkLength {
		return r.flush()
	}
	return nil
}

func (r *WAVRecorder) flush() error {
	if len(r.buf.Data) == 0 {
		return nil
	}
	if err := r.encoder.Write(r.buf); err != nil {
		return fmt.Errorf("failed to write WAV samples: %w", err)
	}
	r.written += len(r.buf.Data)
	r.buf.Data = r.buf.Data[:0]
	return nil
}

// Samples returns how many samples have been handed to the encoder.
func (r *WAVRecorder) Samples() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.written + len(r.buf.Data)
}

// Close flushes pending samples and finalizes the WAV header.
func (r *WAVRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	flushErr := r.err
	if err := r.flush(); err != nil && flushErr == nil {
		flushErr = err
	}
	if err := r.encoder.Close(); err != nil && flushErr == nil {
		flushErr = fmt.Errorf("failed to finalize WAV file: %w", err)
	}
	if err := r.file.Close(); err != nil && flushErr == nil {
		flushErr = err
	}
	return flushErr
}
