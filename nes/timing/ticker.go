package timing

import "time"

// TickerLimiter paces frames on a time.Ticker running at the NTSC frame
// rate. Ticks that fire while a frame is still being emulated are dropped, so
// a slow frame is followed by one wait, not a burst of catch-up frames.
type TickerLimiter struct {
	ticker *time.Ticker
	period time.Duration
}

func NewTickerLimiter() *TickerLimiter {
	return newTickerLimiter(FrameDuration())
}

func newTickerLimiter(period time.Duration) *TickerLimiter {
	return &TickerLimiter{
		ticker: time.NewTicker(period),
		period: period,
	}
}

func (t *TickerLimiter) WaitForNextFrame() {
	<-t.ticker.C
}

// Reset restarts the frame period from now, used when leaving a pause.
func (t *TickerLimiter) Reset() {
	t.ticker.Reset(t.period)
}

// Stop releases the ticker. The limiter must not be used afterwards.
func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
