package apu

type Provider interface {
	// GetSamples retrieves audio samples for playback
	GetSamples(count int) []int16

	// Audio debugging controls

	ToggleChannel(channel int)
	SoloChannel(channel int)
	UnmuteAll()
	GetChannelStatus() [ChannelCount]bool
}

var _ Provider = (*APU)(nil)

// MuteChannel silences a channel (1-5) in the mix without stopping it.
func (a *APU) MuteChannel(channel int, muted bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if channel >= ChannelPulse1 && channel <= ChannelCount {
		a.mixer.muted[channel-1] = muted
	}
}

func (a *APU) ToggleChannel(channel int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if channel >= ChannelPulse1 && channel <= ChannelCount {
		a.mixer.muted[channel-1] = !a.mixer.muted[channel-1]
	}
}

// SoloChannel mutes every channel but the given one.
func (a *APU) SoloChannel(channel int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.mixer.muted {
		a.mixer.muted[i] = i != channel-1
	}
}

func (a *APU) UnmuteAll() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.mixer.muted = [ChannelCount]bool{}
}

// GetChannelStatus reports, per channel, whether it is audible in the mix.
func (a *APU) GetChannelStatus() [ChannelCount]bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	var status [ChannelCount]bool
	for i, muted := range a.mixer.muted {
		status[i] = !muted
	}
	return status
}

// GetChannelOutputs returns the raw output of every channel, for the debug panel.
func (a *APU) GetChannelOutputs() [ChannelCount]uint8 {
	return [ChannelCount]uint8{
		a.pulse1.Output(),
		a.pulse2.Output(),
		a.triangle.Output(),
		a.noise.Output(),
		a.dmc.Output(),
	}
}
