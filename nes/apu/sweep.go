package apu

import "github.com/valerio/go-nes/nes/bit"

const maxPulsePeriod = 0x7FF

// SweepUnit periodically adjusts a pulse channel period.
// Reference: https://www.nesdev.org/wiki/APU_Sweep
type SweepUnit struct {
	enabled bool
	negate  bool
	shift   uint8
	reload  bool
	divider Divider

	// onesComplement is set for pulse 1, which subtracts an extra 1 when negating
	onesComplement bool
}

// Update loads the EPPP NSSS sweep register and sets the reload flag.
func (s *SweepUnit) Update(value uint8) {
	s.enabled = value&0x80 != 0
	s.divider.SetPeriod(uint16(bit.ExtractBits(value, 6, 4)))
	s.negate = value&0x08 != 0
	s.shift = value & 0x07
	s.reload = true
}

// Target computes the period the sweep would move to. Negative results
// saturate to zero.
func (s *SweepUnit) Target(period uint16) uint16 {
	change := int(period >> s.shift)
	target := int(period)
	if s.negate {
		target -= change
		if s.onesComplement {
			target--
		}
	} else {
		target += change
	}
	if target < 0 {
		return 0
	}
	return uint16(target)
}

// Muting reports whether the channel is silenced by the sweep, which is
// evaluated continuously even when the sweep is disabled.
func (s *SweepUnit) Muting(period uint16) bool {
	return period < 8 || s.Target(period) > maxPulsePeriod
}

// Clock is driven by the half frame pulse and may rewrite the timer period.
func (s *SweepUnit) Clock(timer *Timer) {
	period := timer.Period()
	if s.divider.Counter() == 0 && s.enabled && s.shift > 0 && !s.Muting(period) {
		timer.SetPeriod(s.Target(period))
	}

	if s.divider.Counter() == 0 || s.reload {
		s.divider.Reload()
		s.reload = false
		return
	}
	s.divider.Clock()
}
