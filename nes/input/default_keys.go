package input

import "github.com/valerio/go-nes/nes/input/action"

// DefaultKeyMap provides default key mappings that work across backends.
// Backends can use these mappings as a base and override/extend as needed.
var DefaultKeyMap = map[string]action.Action{
	// NES controls
	"z":      action.NESButtonA,
	"x":      action.NESButtonB,
	"Enter":  action.NESButtonStart,
	"Shift":  action.NESButtonSelect,
	"Select": action.NESButtonSelect,
	"Up":     action.NESDPadUp,
	"Down":   action.NESDPadDown,
	"Left":   action.NESDPadLeft,
	"Right":  action.NESDPadRight,

	// WASD
	"w": action.NESDPadUp,
	"s": action.NESDPadDown,
	"a": action.NESDPadLeft,
	"d": action.NESDPadRight,

	// Emulator controls
	"Space":  action.EmulatorPauseToggle,
	"p":      action.EmulatorPauseToggle,
	"o":      action.EmulatorStepFrame,
	"i":      action.EmulatorStepInstruction,
	"F8":     action.EmulatorReset,
	"F9":     action.EmulatorSnapshot,
	"F10":    action.EmulatorDebugToggle,
	"Escape": action.EmulatorQuit,
	"q":      action.EmulatorQuit,

	// Audio debug controls
	"F1": action.AudioToggleChannel1,
	"F2": action.AudioToggleChannel2,
	"F3": action.AudioToggleChannel3,
	"F4": action.AudioToggleChannel4,
	"F5": action.AudioToggleChannel5,
	"1":  action.AudioSoloChannel1,
	"2":  action.AudioSoloChannel2,
	"3":  action.AudioSoloChannel3,
	"4":  action.AudioSoloChannel4,
	"5":  action.AudioSoloChannel5,
	"0":  action.AudioUnmuteAll,

	// Debug controls
	"+": action.DebugLogLevelIncrease,
	"=": action.DebugLogLevelIncrease, // without shift
	"-": action.DebugLogLevelDecrease,
	"_": action.DebugLogLevelDecrease,
}

// GetDefaultMapping returns the default action for a key, if one exists
func GetDefaultMapping(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}
