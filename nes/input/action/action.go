package action

// Action represents input actions that can be performed in the emulator
type Action int

const (
	// NES controller, player 1
	NESButtonA Action = iota
	NESButtonB
	NESButtonSelect
	NESButtonStart
	NESDPadUp
	NESDPadDown
	NESDPadLeft
	NESDPadRight

	// Emulator features
	EmulatorDebugToggle
	EmulatorSnapshot
	EmulatorPauseToggle
	EmulatorStepFrame
	EmulatorStepInstruction
	EmulatorReset
	EmulatorQuit

	// Audio debugging, channel order matches the APU status register
	AudioToggleChannel1
	AudioToggleChannel2
	AudioToggleChannel3
	AudioToggleChannel4
	AudioToggleChannel5
	AudioSoloChannel1
	AudioSoloChannel2
	AudioSoloChannel3
	AudioSoloChannel4
	AudioSoloChannel5
	AudioUnmuteAll

	// Debug controls
	DebugLogLevelIncrease
	DebugLogLevelDecrease
)

// IsController reports whether the action maps to a controller button.
func (a Action) IsController() bool {
	return a >= NESButtonA && a <= NESDPadRight
}
