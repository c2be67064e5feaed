package apu

import "math"

// Mixer combines the channel outputs with the non-linear 2A03 DAC model.
// Reference: https://www.nesdev.org/wiki/APU_Mixer
type Mixer struct {
	muted [ChannelCount]bool
}

// Mix returns a level in [0, 1) for the five raw channel outputs.
// Muted channels contribute nothing.
func (m *Mixer) Mix(pulse1, pulse2, triangle, noise, dmc uint8) float64 {
	levels := [ChannelCount]uint8{pulse1, pulse2, triangle, noise, dmc}
	for i, muted := range m.muted {
		if muted {
			levels[i] = 0
		}
	}

	return pulseLevel(levels[0], levels[1]) + tndLevel(levels[2], levels[3], levels[4])
}

func pulseLevel(pulse1, pulse2 uint8) float64 {
	sum := float64(pulse1) + float64(pulse2)
	if sum == 0 {
		return 0
	}
	return 95.88 / (8128/sum + 100)
}

func tndLevel(triangle, noise, dmc uint8) float64 {
	sum := float64(triangle)/8227 + float64(noise)/12241 + float64(dmc)/22638
	if sum == 0 {
		return 0
	}
	return 159.79 / (1/sum + 100)
}

// highPass is a first order filter removing the DC offset of the unipolar mix.
type highPass struct {
	alpha      float64
	prevInput  float64
	prevOutput float64
}

func newHighPass(sampleRate int, cutoff float64) *highPass {
	rc := 1 / (2 * math.Pi * cutoff)
	dt := 1 / float64(sampleRate)
	return &highPass{alpha: rc / (rc + dt)}
}

func (h *highPass) filter(input float64) float64 {
	output := h.alpha * (h.prevOutput + input - h.prevInput)
	h.prevInput = input
	h.prevOutput = output
	return output
}
