package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-nes/nes/backend"
	"github.com/valerio/go-nes/nes/backend/terminal/render"
	"github.com/valerio/go-nes/nes/debug"
	"github.com/valerio/go-nes/nes/input"
	"github.com/valerio/go-nes/nes/input/action"
	"github.com/valerio/go-nes/nes/input/event"
	"github.com/valerio/go-nes/nes/ppu"
)

const (
	// each cell shows a 2x2 pixel block: two columns averaged, two rows as half blocks
	pixelsPerColumn = 2
	screenColumns   = ppu.ScreenWidth / pixelsPerColumn
	screenRows      = ppu.ScreenHeight / 2

	registerHeight = 12
	disasmHeight   = 9
	minTermWidth   = screenColumns + 20
	minTermHeight  = 24
	logCapacity    = 200
)

// Key expiry timeout - slightly longer than typical key repeat interval.
// Terminals only report presses, so a held key is one that keeps repeating.
const keyTimeout = 100 * time.Millisecond

// Backend implements the Backend interface using tcell for terminal rendering
type Backend struct {
	screen    tcell.Screen
	running   bool
	logBuffer *render.LogBuffer
	logLevel  slog.LevelVar
	config    backend.BackendConfig

	mu         sync.Mutex
	eventQueue []backend.InputEvent // non controller events, collected between updates

	keyStates  map[action.Action]time.Time // Last time each key was pressed
	activeKeys map[action.Action]bool      // Keys active in previous frame

	debugProvider backend.DebugDataProvider
	currentFrame  *ppu.FrameBuffer
}

// New creates a new terminal backend
func New() *Backend {
	return &Backend{}
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.BackendConfig) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	return t.initWithScreen(config, screen)
}

func (t *Backend) initWithScreen(config backend.BackendConfig, screen tcell.Screen) error {
	t.config = config
	t.debugProvider = config.DebugProvider
	t.keyStates = make(map[action.Action]time.Time)
	t.activeKeys = make(map[action.Action]bool)

	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}

	t.screen = screen
	t.running = true

	// the log panel replaces stderr, which would corrupt the screen
	t.logBuffer = render.NewLogBuffer(logCapacity)
	t.logLevel.Set(config.LogLevel)
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, &t.logLevel)))

	slog.Info("Terminal backend initialized")
	if config.ShowDebug {
		slog.Debug("Debug mode enabled")
	}

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	go t.handleSignals()

	return nil
}

// Update renders a frame and processes events
func (t *Backend) Update(frame *ppu.FrameBuffer) ([]backend.InputEvent, error) {
	now := time.Now()

	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	events := t.controllerEvents(now)

	t.mu.Lock()
	for _, evt := range t.eventQueue {
		slog.Debug("UI event", "action", evt.Action, "type", evt.Type)
		t.handleLocalAction(evt.Action)
	}
	events = append(events, t.eventQueue...)
	t.eventQueue = nil
	running := t.running
	t.mu.Unlock()

	if !running {
		return events, nil
	}

	t.currentFrame = frame
	t.render(frame)
	t.screen.Show()

	return events, nil
}

// controllerEvents turns the key repeat stream into press, hold and release edges.
func (t *Backend) controllerEvents(now time.Time) []backend.InputEvent {
	var events []backend.InputEvent
	currentlyActive := make(map[action.Action]bool)

	for act, lastPressed := range t.keyStates {
		if now.Sub(lastPressed) >= keyTimeout {
			delete(t.keyStates, act)
			continue
		}

		currentlyActive[act] = true
		if !t.activeKeys[act] {
			events = append(events, backend.InputEvent{Action: act, Type: event.Press})
		} else {
			events = append(events, backend.InputEvent{Action: act, Type: event.Hold})
		}
	}

	for act := range t.activeKeys {
		if !currentlyActive[act] {
			events = append(events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}

	t.activeKeys = currentlyActive
	return events
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
	}
	return nil
}

// handleLocalAction applies the actions the terminal owns. They are still
// returned to the caller, which ignores the ones it has no use for.
func (t *Backend) handleLocalAction(act action.Action) {
	switch act {
	case action.EmulatorSnapshot:
		debug.TakeSnapshot(t.currentFrame)
	case action.EmulatorDebugToggle:
		t.config.ShowDebug = !t.config.ShowDebug
		slog.Info("Debug display toggled", "enabled", t.config.ShowDebug)
	case action.DebugLogLevelIncrease:
		t.changeLogLevel(1)
	case action.DebugLogLevelDecrease:
		t.changeLogLevel(-1)
	}
}

func (t *Backend) handleSignals() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	<-signals
	t.queue(action.EmulatorQuit)
}

func (t *Backend) queue(act action.Action) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if act == action.EmulatorQuit {
		t.running = false
	}
	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey, now time.Time) {
	act, ok := keyMapping[ev.Key()]
	if !ok && ev.Key() == tcell.KeyRune {
		act, ok = runeMapping[ev.Rune()]
	}
	if !ok {
		return
	}

	if !act.IsController() {
		t.queue(act)
		return
	}

	// a terminal cannot report two held keys, so directions are exclusive
	if act >= action.NESDPadUp && act <= action.NESDPadRight {
		for dir := action.NESDPadUp; dir <= action.NESDPadRight; dir++ {
			delete(t.keyStates, dir)
		}
	}
	t.keyStates[act] = now
}

// tcellKeyNameMap converts tcell keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyEnter:  "Enter",
	tcell.KeyTab:    "Select",
	tcell.KeyUp:     "Up",
	tcell.KeyDown:   "Down",
	tcell.KeyLeft:   "Left",
	tcell.KeyRight:  "Right",
	tcell.KeyEscape: "Escape",
	tcell.KeyF1:     "F1",
	tcell.KeyF2:     "F2",
	tcell.KeyF3:     "F3",
	tcell.KeyF4:     "F4",
	tcell.KeyF5:     "F5",
	tcell.KeyF8:     "F8",
	tcell.KeyF9:     "F9",
	tcell.KeyF10:    "F10",
}

func buildKeyMapping() map[tcell.Key]action.Action {
	mapping := make(map[tcell.Key]action.Action)
	for key, keyName := range tcellKeyNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[key] = act
		}
	}
	mapping[tcell.KeyCtrlC] = action.EmulatorQuit
	return mapping
}

func buildRuneMapping() map[rune]action.Action {
	mapping := make(map[rune]action.Action)
	for keyName, act := range input.DefaultKeyMap {
		if keyName == "Space" {
			mapping[' '] = act
			continue
		}
		if runes := []rune(keyName); len(runes) == 1 {
			mapping[runes[0]] = act
		}
	}
	return mapping
}

var (
	keyMapping  = buildKeyMapping()
	runeMapping = buildRuneMapping()
)

func (t *Backend) changeLogLevel(direction int) {
	levels := []slog.Level{slog.LevelError, slog.LevelWarn, slog.LevelInfo, slog.LevelDebug}

	oldLevel := t.logLevel.Level()
	for i, level := range levels {
		if level != oldLevel {
			continue
		}
		if next := i + direction; next >= 0 && next < len(levels) {
			t.logLevel.Set(levels[next])
			slog.Info("Log filter changed", "from", oldLevel, "to", levels[next])
		}
		return
	}
}

func (t *Backend) render(frame *ppu.FrameBuffer) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, tcell.StyleDefault.Foreground(tcell.ColorRed))
		return
	}

	dividerX := screenColumns + 1
	rightPanelX := dividerX + 2
	rightPanelWidth := max(termWidth-rightPanelX, 0)

	t.drawBorders(termWidth, termHeight, dividerX)
	t.drawScreen(frame)

	logsY := 1
	if t.config.ShowDebug && t.debugProvider != nil {
		if data := t.debugProvider.ExtractDebugData(); data != nil {
			t.drawRegisters(data, rightPanelX, 1, rightPanelWidth)
			t.drawDisassembly(data, rightPanelX, registerHeight+2, rightPanelWidth)
		}
		logsY = registerHeight + disasmHeight + 3
	}
	t.drawLogs(rightPanelX, logsY, rightPanelWidth, termHeight)
}

func (t *Backend) drawText(x, y, width int, text string, style tcell.Style) {
	i := 0
	for _, ch := range text {
		if i >= width {
			return
		}
		t.screen.SetContent(x+i, y, ch, nil, style)
		i++
	}
}

func (t *Backend) drawBorders(termWidth, termHeight, dividerX int) {
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	for y := 0; y < termHeight-1; y++ {
		t.screen.SetContent(dividerX, y, '│', nil, borderStyle)
	}

	title := t.config.Title
	if title == "" {
		title = "NES"
	}
	t.drawText(1, 0, dividerX-1, " "+title+" ", titleStyle)

	panelX := dividerX + 2
	panelWidth := termWidth - panelX
	if t.config.ShowDebug {
		registerEndY := registerHeight + 1
		disasmEndY := registerEndY + disasmHeight + 1
		for _, y := range []int{registerEndY, disasmEndY} {
			for x := dividerX + 1; x < termWidth; x++ {
				t.screen.SetContent(x, y, '─', nil, borderStyle)
			}
			t.screen.SetContent(dividerX, y, '├', nil, borderStyle)
		}
		t.drawText(panelX, 0, panelWidth, " CPU ", titleStyle)
		t.drawText(panelX, registerEndY, panelWidth, " Disassembly ", titleStyle)
		t.drawText(panelX, disasmEndY, panelWidth, fmt.Sprintf(" Logs [%s] (-/+ filter) ", t.logLevel.Level()), titleStyle)
	}

	help := " F10=debug SPACE=pause O=frame I=step F8=reset F9=snapshot Q=quit | F1-F5 mute 1-5 solo 0 unmute "
	t.drawText(0, termHeight-1, termWidth, help, borderStyle)
}

// drawScreen packs two rows of pixels into each cell with an upper half
// block: the foreground paints the top row and the background the bottom.
func (t *Backend) drawScreen(frame *ppu.FrameBuffer) {
	if frame == nil {
		return
	}

	for row := 0; row < screenRows; row++ {
		y := row * 2
		for col := 0; col < screenColumns; col++ {
			x := col * pixelsPerColumn
			top := render.Average(frame.GetPixel(x, y), frame.GetPixel(x+1, y))
			bottom := render.Average(frame.GetPixel(x, y+1), frame.GetPixel(x+1, y+1))

			style := tcell.StyleDefault.Foreground(toColor(top)).Background(toColor(bottom))
			t.screen.SetContent(col, row+1, '▀', nil, style)
		}
	}
}

func toColor(pixel uint32) tcell.Color {
	r, g, b := render.RGB(pixel)
	return tcell.NewRGBColor(r, g, b)
}

func (t *Backend) drawRegisters(data *debug.CompleteDebugData, x, y, width int) {
	if data.CPU == nil {
		return
	}
	cpu := data.CPU

	lines := []string{
		fmt.Sprintf("Status: %s", data.DebuggerState),
		fmt.Sprintf("A: %02X  X: %02X  Y: %02X", cpu.A, cpu.X, cpu.Y),
		fmt.Sprintf("P: %02X [%s]", cpu.P, cpu.Flags),
		fmt.Sprintf("SP: %02X  PC: %04X", cpu.SP, cpu.PC),
		fmt.Sprintf("Pending: %s", cpu.Pending),
		fmt.Sprintf("Cycles: %d", cpu.Cycles),
	}
	if p := data.PPU; p != nil {
		lines = append(lines,
			fmt.Sprintf("PPU line %d dot %d frame %d", p.Line, p.Dot, p.Frame),
			fmt.Sprintf("CTRL %02X MASK %02X STATUS %02X", p.Ctrl, p.Mask, p.Status),
			fmt.Sprintf("v %04X t %04X x %d", p.V, p.T, p.FineX))
	}
	if a := data.Audio; a != nil {
		muted := ""
		for i, ch := range a.Channels {
			if !ch.Audible {
				muted += fmt.Sprintf(" %d", i+1)
			}
		}
		if muted == "" {
			muted = " none"
		}
		lines = append(lines, "Muted:"+muted)
	}
	if o := data.OAM; o != nil {
		lines = append(lines, fmt.Sprintf("Sprites on line: %d", o.ActiveSprites))
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	for i, line := range lines {
		if i >= registerHeight {
			break
		}
		t.drawText(x, y+i, width, line, style)
	}
}

func (t *Backend) drawDisassembly(data *debug.CompleteDebugData, x, y, width int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	currentStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)

	lines := data.Disassembly
	current := 0
	for i, line := range lines {
		if line.IsCurrent {
			current = i
		}
	}
	start := max(current-disasmHeight/2, 0)

	for i := 0; i < disasmHeight && start+i < len(lines); i++ {
		line := lines[start+i]
		useStyle := style
		if line.IsCurrent {
			useStyle = currentStyle
		}
		t.drawText(x, y+i, width, line.Instruction, useStyle)
	}
}

func (t *Backend) drawLogs(x, y, width, termHeight int) {
	availableHeight := termHeight - y - 1
	if width <= 0 || availableHeight <= 0 {
		return
	}

	minLevel := t.logLevel.Level()
	logs := make([]render.LogEntry, 0, availableHeight)
	for _, entry := range t.logBuffer.GetRecent(0) {
		if entry.Level >= minLevel {
			logs = append(logs, entry)
			if len(logs) >= availableHeight {
				break
			}
		}
	}

	for i, entry := range logs {
		style := tcell.StyleDefault.Foreground(tcell.ColorBlue)
		switch entry.Level {
		case slog.LevelDebug:
			style = tcell.StyleDefault.Foreground(tcell.ColorGray)
		case slog.LevelWarn:
			style = tcell.StyleDefault.Foreground(tcell.ColorYellow)
		case slog.LevelError:
			style = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
		}

		text := render.FormatLogEntry(entry)
		if len(text) > width && width > 3 {
			text = text[:width-3] + "..."
		}
		t.drawText(x, y+i, width, text, style)
	}
}
