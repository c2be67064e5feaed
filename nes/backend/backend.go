package backend

import (
	"log/slog"

	"github.com/valerio/go-nes/nes/apu"
	"github.com/valerio/go-nes/nes/debug"
	"github.com/valerio/go-nes/nes/input/action"
	"github.com/valerio/go-nes/nes/input/event"
	"github.com/valerio/go-nes/nes/ppu"
)

// Backend represents a complete emulator platform (rendering + input + audio)
// Backends are responsible for:
// - Rendering frames to their specific output (terminal, window, etc.)
// - Translating platform-specific input events to Actions
// - Handling backend-specific features (snapshots, debug panels, log filters)
type Backend interface {
	// Init configures the backend with the provided configuration.
	// This is a required step before calling Update.
	Init(config BackendConfig) error

	// Update renders the frame, polls platform events and returns them as
	// actions for the caller to dispatch.
	Update(frame *ppu.FrameBuffer) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// InputEvent is an action produced by the platform in the last Update.
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// DebugDataProvider gives backends access to emulator state for debug panels.
type DebugDataProvider interface {
	ExtractDebugData() *debug.CompleteDebugData
}

// BackendConfig holds configuration for backends
type BackendConfig struct {
	Title         string
	Scale         int
	ShowDebug     bool              // Backends may ignore unsupported features
	DebugProvider DebugDataProvider // Optional, enables the debug panels
	AudioProvider apu.Provider      // Optional, backends with audio output pull samples from it
	SampleRate    int               // Rate of AudioProvider samples, defaults to apu.DefaultSampleRate
	LogLevel      slog.Level        // Minimum level for backends that install their own log handler
	Callbacks     BackendCallbacks
}

// BackendCallbacks allows backends to communicate with the emulator
type BackendCallbacks struct {
	// OnQuit is called when the platform requests shutdown (e.g., window close)
	OnQuit func()
}
