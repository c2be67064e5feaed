package nes

import (
	"log/slog"

	"github.com/valerio/go-nes/nes/ppu"
)

// AudioSink receives mixed samples once per emulated frame.
type AudioSink interface {
	Write(sample int16)
}

// AudioSinkFunc adapts a function to AudioSink.
type AudioSinkFunc func(sample int16)

func (f AudioSinkFunc) Write(sample int16) { f(sample) }

// Option configures an NES.
type Option func(*NES)

// WithLogger sets the logger used for bus diagnostics and trace output.
func WithLogger(logger *slog.Logger) Option {
	return func(n *NES) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithRenderer receives every visible scanline as soon as the PPU completes it.
func WithRenderer(renderer ppu.LineRenderer) Option {
	return func(n *NES) {
		n.renderer = renderer
	}
}

// WithAudioSink adds a sink, may be given more than once.
func WithAudioSink(sink AudioSink) Option {
	return func(n *NES) {
		if sink != nil {
			n.sinks = append(n.sinks, sink)
		}
	}
}

// WithSampleRate sets the host audio rate the APU downsamples to.
func WithSampleRate(rate int) Option {
	return func(n *NES) {
		if rate > 0 {
			n.sampleRate = rate
		}
	}
}

// WithTrace logs every instruction in nestest format at debug level.
func WithTrace(enabled bool) Option {
	return func(n *NES) {
		n.trace = enabled
	}
}
