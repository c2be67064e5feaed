//go:build sdl2

package sdl2

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/valerio/go-nes/nes/apu"
	"github.com/valerio/go-nes/nes/backend"
	"github.com/valerio/go-nes/nes/backend/audiostream"
	"github.com/valerio/go-nes/nes/debug"
	"github.com/valerio/go-nes/nes/input"
	"github.com/valerio/go-nes/nes/input/action"
	"github.com/valerio/go-nes/nes/input/event"
	"github.com/valerio/go-nes/nes/ppu"
)

const (
	defaultScale  = 3
	bytesPerPixel = 4

	// audio queued ahead of the device, in samples
	audioLatency = 2048
	audioChunk   = 735
)

// Backend implements the Backend interface using SDL2 bindings
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stubbed renderer, see build tags (sdl2)
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	running  bool
	config   backend.BackendConfig

	pixels []byte
	events []backend.InputEvent

	audioDevice   sdl.AudioDeviceID
	audioProvider apu.Provider
	audioBuf      []byte

	keys map[sdl.Keycode]action.Action
}

// New creates a new SDL2 backend
func New() *Backend {
	return &Backend{
		pixels: make([]byte, ppu.ScreenWidth*ppu.ScreenHeight*bytesPerPixel),
		keys:   buildKeyMapping(),
	}
}

// Init initializes the SDL2 backend
func (s *Backend) Init(config backend.BackendConfig) error {
	s.config = config
	scale := config.Scale
	if scale <= 0 {
		scale = defaultScale
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %v", err)
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(ppu.ScreenWidth*scale),
		int32(ppu.ScreenHeight*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %v", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %v", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA8888,
		sdl.TEXTUREACCESS_STREAMING,
		ppu.ScreenWidth,
		ppu.ScreenHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create texture: %v", err)
	}
	s.texture = texture

	if config.AudioProvider != nil {
		if err := s.openAudio(config.AudioProvider, config.SampleRate); err != nil {
			slog.Warn("Audio disabled", "error", err)
		}
	}

	s.running = true
	slog.Info("SDL2 backend initialized", "scale", scale)
	return nil
}

func (s *Backend) openAudio(provider apu.Provider, sampleRate int) error {
	if sampleRate <= 0 {
		sampleRate = apu.DefaultSampleRate
	}

	spec := sdl.AudioSpec{
		Freq:     int32(sampleRate),
		Format:   sdl.AUDIO_S16LSB,
		Channels: 1,
		Samples:  1024,
	}
	dev, err := sdl.OpenAudioDevice("", false, &spec, nil, 0)
	if err != nil {
		return fmt.Errorf("failed to open audio device: %v", err)
	}

	s.audioDevice = dev
	s.audioProvider = provider
	sdl.PauseAudioDevice(dev, false)
	return nil
}

// Update renders a frame and processes events
func (s *Backend) Update(frame *ppu.FrameBuffer) ([]backend.InputEvent, error) {
	if !s.running {
		return nil, nil
	}

	s.events = s.events[:0]
	for evt := sdl.PollEvent(); evt != nil; evt = sdl.PollEvent() {
		s.handleEvent(evt, frame)
	}

	s.queueAudio()
	if err := s.renderFrame(frame); err != nil {
		return nil, err
	}

	events := make([]backend.InputEvent, len(s.events))
	copy(events, s.events)
	return events, nil
}

// Cleanup cleans up SDL2 resources
func (s *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")

	if s.audioDevice != 0 {
		sdl.CloseAudioDevice(s.audioDevice)
	}
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()

	return nil
}

func (s *Backend) handleEvent(evt sdl.Event, frame *ppu.FrameBuffer) {
	switch e := evt.(type) {
	case *sdl.QuitEvent:
		s.running = false
		s.events = append(s.events, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
		if s.config.Callbacks.OnQuit != nil {
			s.config.Callbacks.OnQuit()
		}

	case *sdl.KeyboardEvent:
		act, ok := s.keys[e.Keysym.Sym]
		if !ok {
			return
		}

		switch {
		case e.Type == sdl.KEYDOWN && e.Repeat != 0:
			if act.IsController() {
				s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Hold})
			}
		case e.Type == sdl.KEYDOWN:
			if act == action.EmulatorSnapshot {
				debug.TakeSnapshot(frame)
				return
			}
			if act == action.EmulatorQuit {
				s.running = false
			}
			s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Press})
		case e.Type == sdl.KEYUP && act.IsController():
			s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}
}

func (s *Backend) queueAudio() {
	if s.audioDevice == 0 {
		return
	}

	queued := int(sdl.GetQueuedAudioSize(s.audioDevice)) / 2
	if queued >= audioLatency {
		return
	}

	samples := s.audioProvider.GetSamples(audioChunk)
	s.audioBuf = audiostream.Encode(s.audioBuf[:0], samples, 1)
	if err := sdl.QueueAudio(s.audioDevice, s.audioBuf); err != nil {
		slog.Debug("Failed to queue audio", "error", err)
	}
}

func (s *Backend) renderFrame(frame *ppu.FrameBuffer) error {
	if frame == nil {
		return nil
	}

	// ABGR byte order for little-endian RGBA8888
	for i, pixel := range frame.ToSlice() {
		idx := i * bytesPerPixel
		s.pixels[idx] = 0xFF
		s.pixels[idx+1] = byte(pixel)
		s.pixels[idx+2] = byte(pixel >> 8)
		s.pixels[idx+3] = byte(pixel >> 16)
	}

	if err := s.texture.Update(nil, unsafe.Pointer(&s.pixels[0]), ppu.ScreenWidth*bytesPerPixel); err != nil {
		return fmt.Errorf("failed to update texture: %v", err)
	}

	s.renderer.SetDrawColor(0, 0, 0, 0xFF)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
	return nil
}

var sdlKeyNames = map[sdl.Keycode]string{
	sdl.K_z:      "z",
	sdl.K_x:      "x",
	sdl.K_w:      "w",
	sdl.K_a:      "a",
	sdl.K_s:      "s",
	sdl.K_d:      "d",
	sdl.K_p:      "p",
	sdl.K_o:      "o",
	sdl.K_i:      "i",
	sdl.K_q:      "q",
	sdl.K_RETURN: "Enter",
	sdl.K_LSHIFT: "Shift",
	sdl.K_RSHIFT: "Shift",
	sdl.K_UP:     "Up",
	sdl.K_DOWN:   "Down",
	sdl.K_LEFT:   "Left",
	sdl.K_RIGHT:  "Right",
	sdl.K_SPACE:  "Space",
	sdl.K_ESCAPE: "Escape",
	sdl.K_F1:     "F1",
	sdl.K_F2:     "F2",
	sdl.K_F3:     "F3",
	sdl.K_F4:     "F4",
	sdl.K_F5:     "F5",
	sdl.K_F8:     "F8",
	sdl.K_F9:     "F9",
	sdl.K_F10:    "F10",
	sdl.K_0:      "0",
	sdl.K_1:      "1",
	sdl.K_2:      "2",
	sdl.K_3:      "3",
	sdl.K_4:      "4",
	sdl.K_5:      "5",
}

func buildKeyMapping() map[sdl.Keycode]action.Action {
	mapping := make(map[sdl.Keycode]action.Action)
	for key, name := range sdlKeyNames {
		if act, ok := input.GetDefaultMapping(name); ok {
			mapping[key] = act
		}
	}
	return mapping
}
