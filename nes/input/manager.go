package input

import (
	"time"

	"github.com/valerio/go-nes/nes/controller"
	"github.com/valerio/go-nes/nes/input/action"
	"github.com/valerio/go-nes/nes/input/event"
)

const (
	// debounceDuration is the minimum time between debounced events
	debounceDuration = 300 * time.Millisecond
)

// Manager handles input actions and their associated callbacks
type Manager struct {
	handlers      map[action.Action]map[event.Type][]func()
	lastTriggered map[action.Action]map[event.Type]time.Time
	pad           *controller.Controller
	now           func() time.Time
}

// NewManager creates a manager feeding controller buttons into pad, which may be nil.
func NewManager(pad *controller.Controller) *Manager {
	return &Manager{
		handlers:      make(map[action.Action]map[event.Type][]func()),
		lastTriggered: make(map[action.Action]map[event.Type]time.Time),
		pad:           pad,
		now:           time.Now,
	}
}

// On registers a callback for a specific action and event type
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}
	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Trigger handles the given action and event type. Controller buttons go
// straight to the pad, games poll them every frame and must see every edge.
func (m *Manager) Trigger(act action.Action, evt event.Type) {
	if m.pad != nil {
		if button, ok := ControllerButton(act); ok {
			switch evt {
			case event.Press, event.Hold:
				m.pad.Press(button)
			case event.Release:
				m.pad.Release(button)
			}
			return
		}
	}

	// Debounce Press and Release events of emulator actions
	if evt == event.Press || evt == event.Release {
		now := m.now()
		if m.lastTriggered[act] == nil {
			m.lastTriggered[act] = make(map[event.Type]time.Time)
		}
		if last, ok := m.lastTriggered[act][evt]; ok && now.Sub(last) < debounceDuration {
			return
		}
		m.lastTriggered[act][evt] = now
	}

	for _, callback := range m.handlers[act][evt] {
		callback()
	}
}

// ControllerButton maps controller actions to NES buttons
func ControllerButton(act action.Action) (controller.Button, bool) {
	switch act {
	case action.NESButtonA:
		return controller.ButtonA, true
	case action.NESButtonB:
		return controller.ButtonB, true
	case action.NESButtonSelect:
		return controller.ButtonSelect, true
	case action.NESButtonStart:
		return controller.ButtonStart, true
	case action.NESDPadUp:
		return controller.ButtonUp, true
	case action.NESDPadDown:
		return controller.ButtonDown, true
	case action.NESDPadLeft:
		return controller.ButtonLeft, true
	case action.NESDPadRight:
		return controller.ButtonRight, true
	default:
		return 0, false
	}
}
