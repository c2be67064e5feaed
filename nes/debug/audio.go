package debug

import "github.com/valerio/go-nes/nes/apu"

var channelNames = [apu.ChannelCount]string{"Pulse 1", "Pulse 2", "Triangle", "Noise", "DMC"}

type ChannelStatus struct {
	Name    string
	Audible bool  // not muted by the debugging controls
	Output  uint8 // raw DAC input, 4 bits except for the DMC's 7
}

type AudioData struct {
	Channels   [apu.ChannelCount]ChannelStatus
	SampleRate int
}

// AudioProvider is the slice of the APU the debug panel needs.
type AudioProvider interface {
	GetChannelStatus() [apu.ChannelCount]bool
	GetChannelOutputs() [apu.ChannelCount]uint8
	SampleRate() int
}

func ExtractAudioData(provider AudioProvider) *AudioData {
	if provider == nil {
		return nil
	}

	data := &AudioData{SampleRate: provider.SampleRate()}
	status := provider.GetChannelStatus()
	outputs := provider.GetChannelOutputs()
	for i := range data.Channels {
		data.Channels[i] = ChannelStatus{
			Name:    channelNames[i],
			Audible: status[i],
			Output:  outputs[i],
		}
	}
	return data
}
