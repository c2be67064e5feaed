package window

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

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
	audioChannels = 2
)

// Backend renders through ebiten. Ebiten owns the main goroutine, so the
// emulator loop runs on its own goroutine and exchanges frames and input
// with the game loop under a mutex; see Run.
type Backend struct {
	config backend.BackendConfig
	scale  int

	mu      sync.Mutex
	pixels  *image.RGBA
	events  []backend.InputEvent
	overlay string
	quit    bool

	screen      *ebiten.Image
	audioPlayer *audio.Player
	keys        map[ebiten.Key]action.Action
}

func New() *Backend {
	return &Backend{
		pixels: image.NewRGBA(image.Rect(0, 0, ppu.ScreenWidth, ppu.ScreenHeight)),
		keys:   buildKeyMapping(),
	}
}

func (w *Backend) Init(config backend.BackendConfig) error {
	w.config = config
	w.scale = config.Scale
	if w.scale <= 0 {
		w.scale = defaultScale
	}

	ebiten.SetWindowTitle(config.Title)
	ebiten.SetWindowSize(ppu.ScreenWidth*w.scale, ppu.ScreenHeight*w.scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	if config.AudioProvider != nil {
		if err := w.initAudio(config.AudioProvider, config.SampleRate); err != nil {
			slog.Warn("Audio disabled", "error", err)
		}
	}

	slog.Info("Window backend initialized", "scale", w.scale)
	return nil
}

func (w *Backend) initAudio(provider apu.Provider, sampleRate int) error {
	if sampleRate <= 0 {
		sampleRate = apu.DefaultSampleRate
	}

	ctx := audio.NewContext(sampleRate)
	player, err := ctx.NewPlayer(audiostream.NewStream(provider, audioChannels))
	if err != nil {
		return fmt.Errorf("failed to create audio player: %w", err)
	}
	player.Play()
	w.audioPlayer = player
	return nil
}

// Run blocks on the ebiten game loop and must be called from the main
// goroutine. It returns once the window closes or a quit action is handled.
func (w *Backend) Run() error {
	err := ebiten.RunGame(&game{w})
	if w.config.Callbacks.OnQuit != nil {
		w.config.Callbacks.OnQuit()
	}
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Update hands the frame to the game loop and returns the input collected
// since the previous call. It is called from the emulator goroutine.
func (w *Backend) Update(frame *ppu.FrameBuffer) ([]backend.InputEvent, error) {
	var overlay string
	if w.config.ShowDebug && w.config.DebugProvider != nil {
		overlay = formatOverlay(w.config.DebugProvider.ExtractDebugData())
	}

	w.mu.Lock()
	copyFrame(w.pixels, frame)
	w.overlay = overlay
	events := w.events
	w.events = nil
	w.mu.Unlock()

	for _, evt := range events {
		if evt.Type != event.Press {
			continue
		}
		switch evt.Action {
		case action.EmulatorSnapshot:
			debug.TakeSnapshot(frame)
		case action.EmulatorDebugToggle:
			w.config.ShowDebug = !w.config.ShowDebug
		case action.EmulatorQuit:
			w.mu.Lock()
			w.quit = true
			w.mu.Unlock()
		}
	}

	return events, nil
}

func (w *Backend) Cleanup() error {
	if w.audioPlayer != nil {
		return w.audioPlayer.Close()
	}
	return nil
}

// game adapts the backend to ebiten.Game, whose Update would otherwise
// clash with backend.Backend's.
type game struct {
	w *Backend
}

func (g *game) Update() error {
	w := g.w
	var events []backend.InputEvent
	for key, act := range w.keys {
		switch {
		case inpututil.IsKeyJustPressed(key):
			events = append(events, backend.InputEvent{Action: act, Type: event.Press})
		case inpututil.IsKeyJustReleased(key):
			events = append(events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.events = append(w.events, events...)
	if w.quit {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	w := g.w
	if w.screen == nil {
		w.screen = ebiten.NewImage(ppu.ScreenWidth, ppu.ScreenHeight)
	}

	w.mu.Lock()
	w.screen.WritePixels(w.pixels.Pix)
	overlay := w.overlay
	w.mu.Unlock()

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w.scale), float64(w.scale))
	screen.DrawImage(w.screen, op)

	if overlay != "" {
		ebitenutil.DebugPrint(screen, overlay)
	}
}

func (g *game) Layout(_, _ int) (int, int) {
	return ppu.ScreenWidth * g.w.scale, ppu.ScreenHeight * g.w.scale
}

func copyFrame(dst *image.RGBA, frame *ppu.FrameBuffer) {
	if frame == nil {
		return
	}
	for i, pixel := range frame.ToSlice() {
		idx := i * 4
		dst.Pix[idx] = byte(pixel >> 16)
		dst.Pix[idx+1] = byte(pixel >> 8)
		dst.Pix[idx+2] = byte(pixel)
		dst.Pix[idx+3] = 0xFF
	}
}

func formatOverlay(data *debug.CompleteDebugData) string {
	if data == nil || data.CPU == nil {
		return ""
	}
	cpu := data.CPU
	s := fmt.Sprintf("FPS %0.0f  %s\nPC %04X A %02X X %02X Y %02X P %02X SP %02X\n",
		ebiten.ActualFPS(), data.DebuggerState, cpu.PC, cpu.A, cpu.X, cpu.Y, cpu.P, cpu.SP)
	for _, line := range data.Disassembly {
		s += line.Instruction + "\n"
	}
	return s
}

// ebitenKeyNames maps ebiten keys to the names used by the default key map
var ebitenKeyNames = map[ebiten.Key]string{
	ebiten.KeyZ:          "z",
	ebiten.KeyX:          "x",
	ebiten.KeyW:          "w",
	ebiten.KeyA:          "a",
	ebiten.KeyS:          "s",
	ebiten.KeyD:          "d",
	ebiten.KeyP:          "p",
	ebiten.KeyO:          "o",
	ebiten.KeyI:          "i",
	ebiten.KeyQ:          "q",
	ebiten.KeyEnter:      "Enter",
	ebiten.KeyShiftRight: "Shift",
	ebiten.KeyShiftLeft:  "Shift",
	ebiten.KeyArrowUp:    "Up",
	ebiten.KeyArrowDown:  "Down",
	ebiten.KeyArrowLeft:  "Left",
	ebiten.KeyArrowRight: "Right",
	ebiten.KeySpace:      "Space",
	ebiten.KeyEscape:     "Escape",
	ebiten.KeyF1:         "F1",
	ebiten.KeyF2:         "F2",
	ebiten.KeyF3:         "F3",
	ebiten.KeyF4:         "F4",
	ebiten.KeyF5:         "F5",
	ebiten.KeyF8:         "F8",
	ebiten.KeyF9:         "F9",
	ebiten.KeyF10:        "F10",
	ebiten.KeyDigit0:     "0",
	ebiten.KeyDigit1:     "1",
	ebiten.KeyDigit2:     "2",
	ebiten.KeyDigit3:     "3",
	ebiten.KeyDigit4:     "4",
	ebiten.KeyDigit5:     "5",
	ebiten.KeyEqual:      "=",
	ebiten.KeyMinus:      "-",
}

func buildKeyMapping() map[ebiten.Key]action.Action {
	mapping := make(map[ebiten.Key]action.Action)
	for key, name := range ebitenKeyNames {
		if act, ok := input.GetDefaultMapping(name); ok {
			mapping[key] = act
		}
	}
	return mapping
}
