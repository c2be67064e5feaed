package timing

import (
	"fmt"
	"time"
)

// Limiter controls frame rate timing for emulation.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// Limiter kinds accepted by NewLimiter.
const (
	KindAdaptive = "adaptive"
	KindTicker   = "ticker"
	KindNone     = "none"
)

// NewLimiter builds the limiter named by kind. An empty kind selects the
// adaptive limiter.
func NewLimiter(kind string) (Limiter, error) {
	switch kind {
	case KindAdaptive, "":
		return NewAdaptiveLimiter(), nil
	case KindTicker:
		return NewTickerLimiter(), nil
	case KindNone:
		return NewNoOpLimiter(), nil
	default:
		return nil, fmt.Errorf("unknown frame limiter %q", kind)
	}
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// NTSC timing. A frame is 341*262 PPU dots minus the dot skipped on odd
// frames, averaged to 89341.5 dots, or 29780.5 CPU cycles.
const (
	CPUFrequency   = 1789773
	CyclesPerFrame = 29780.5
)

// TargetFPS calculates the exact NTSC frame rate, about 60.0988 Hz.
func TargetFPS() float64 {
	return CPUFrequency / CyclesPerFrame
}

// FrameDuration returns the target duration of a single frame.
func FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / TargetFPS())
}
