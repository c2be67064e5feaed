package nes

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/valerio/go-nes/nes/addr"
	"github.com/valerio/go-nes/nes/apu"
	"github.com/valerio/go-nes/nes/cartridge"
	"github.com/valerio/go-nes/nes/controller"
	"github.com/valerio/go-nes/nes/cpu"
	"github.com/valerio/go-nes/nes/debug"
	"github.com/valerio/go-nes/nes/disasm"
	"github.com/valerio/go-nes/nes/memory"
	"github.com/valerio/go-nes/nes/ppu"
)

// dotsPerCPUCycle is the NTSC PPU to CPU clock ratio.
const dotsPerCPUCycle = 3

// ErrNoCartridge is returned when running without an inserted cartridge.
var ErrNoCartridge = errors.New("no cartridge inserted")

// interruptLine forwards interrupts raised by the PPU to the CPU, which is
// created after the PPU it depends on.
type interruptLine struct {
	cpu *cpu.CPU
}

func (l *interruptLine) Request(interrupt addr.Interrupt) {
	if l.cpu != nil {
		l.cpu.Request(interrupt)
	}
}

// NES is the console: it owns every component and advances them in lockstep.
type NES struct {
	cpu  *cpu.CPU
	ppu  *ppu.PPU
	apu  *apu.APU
	bus  *memory.Bus
	pads [2]*controller.Controller
	cart *cartridge.Cartridge

	frame    *ppu.FrameBuffer
	renderer ppu.LineRenderer
	sinks    []AudioSink

	logger     *slog.Logger
	trace      bool
	sampleRate int

	debuggerState debug.DebuggerState
	instructions  uint64
}

// New creates a console with no cartridge inserted.
func New(opts ...Option) *NES {
	n := &NES{
		frame:      ppu.NewScreenBuffer(),
		logger:     slog.Default(),
		sampleRate: apu.DefaultSampleRate,
	}
	for _, opt := range opts {
		opt(n)
	}

	line := &interruptLine{}
	n.pads = [2]*controller.Controller{controller.New(), controller.New()}
	n.ppu = ppu.New(nil, line)
	n.apu = apu.New(n.sampleRate, nil)
	n.bus = memory.New(n.ppu, n.apu, n.pads[0], n.pads[1], n.logger)
	n.cpu = cpu.New(n.bus)
	line.cpu = n.cpu

	n.apu.SetReader(n.bus)
	n.bus.SetClock(n.cpu)
	n.ppu.SetRenderer(ppu.LineRendererFunc(n.renderLine))

	return n
}

// NewWithFile creates a console and inserts the iNES image at path.
func NewWithFile(path string, opts ...Option) (*NES, error) {
	cart, err := cartridge.Load(path)
	if err != nil {
		return nil, err
	}

	n := New(opts...)
	if err := n.InsertCartridge(cart); err != nil {
		return nil, err
	}
	return n, nil
}

// InsertCartridge connects cart to both buses and powers the console on:
// work RAM, PPU and APU are cleared and RESET is asserted, so the next Step
// loads PC from the reset vector. The mapper is rebuilt from the header on
// every insert. Nothing changes when the mapper is unsupported.
func (n *NES) InsertCartridge(cart *cartridge.Cartridge) error {
	if cart == nil {
		return ErrNoCartridge
	}
	mapper, err := cartridge.NewMapper(cart)
	if err != nil {
		return fmt.Errorf("failed to insert cartridge: %w", err)
	}
	cart.Mapper = mapper

	n.cart = cart
	n.bus.SetMapper(cart.Mapper)
	n.ppu.SetMapper(cart.Mapper)

	n.bus.ClearRAM()
	n.ppu.Reset()
	n.apu.Reset()
	n.cpu.PowerOn()
	n.frame.Clear(0)
	n.instructions = 0

	n.logger.Debug("Cartridge inserted",
		"mapper", cart.Header.Mapper(),
		"mirroring", cart.Mapper.Mirroring())
	return nil
}

// SetLogger swaps the logger after construction, for frontends that install
// their own handler once the console exists. Nil is ignored.
func (n *NES) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	n.logger = logger
	n.bus.SetLogger(logger)
}

// Reset presses the console reset button. Work RAM keeps its contents.
func (n *NES) Reset() {
	n.ppu.Reset()
	n.apu.Reset()
	n.cpu.Request(addr.Reset)
}

// Step executes one CPU instruction, or interrupt, and advances the PPU and
// APU by the cycles it consumed. DMA stalls are charged to the same step.
func (n *NES) Step() int {
	if n.trace {
		n.logger.Debug(disasm.Trace(n.registers(), peeker{n.bus}))
	}

	cycles := n.cpu.Step()
	if stall := n.bus.TakeStall(); stall > 0 {
		n.cpu.SetCycles(n.cpu.GetCycles() + uint64(stall))
		cycles += stall
	}

	for range cycles {
		n.apu.Step()
		for range dotsPerCPUCycle {
			if n.ppu.Step() == ppu.FrameChanged {
				n.flushAudio()
			}
		}
	}

	// the APU holds IRQ low until its flags are acknowledged
	if n.apu.IRQ() {
		n.cpu.Request(addr.IRQ)
	} else {
		n.cpu.Clear(addr.IRQ)
	}

	n.instructions++
	return cycles
}

// RunFrame steps until the PPU starts a new frame and returns the CPU cycles spent.
func (n *NES) RunFrame() int {
	total := 0
	start := n.ppu.Frames()
	for n.ppu.Frames() == start {
		total += n.Step()
	}
	return total
}

func (n *NES) renderLine(line int, pixels []uint32) {
	n.frame.SetLine(line, pixels)
	if n.renderer != nil {
		n.renderer.RenderLine(line, pixels)
	}
}

// flushAudio hands the samples of the last frame to the sinks. Without sinks
// they stay buffered in the APU for pull based consumers.
func (n *NES) flushAudio() {
	if len(n.sinks) == 0 {
		return
	}

	for _, sample := range n.apu.DrainSamples() {
		for _, sink := range n.sinks {
			sink.Write(sample)
		}
	}
}

func (n *NES) registers() disasm.Registers {
	return disasm.Registers{
		PC:     n.cpu.GetPC(),
		A:      n.cpu.GetA(),
		X:      n.cpu.GetX(),
		Y:      n.cpu.GetY(),
		P:      n.cpu.GetP(),
		SP:     n.cpu.GetSP(),
		Cycles: n.cpu.GetCycles(),
	}
}

// peeker reads memory for debug tools without register side effects.
type peeker struct {
	bus *memory.Bus
}

func (p peeker) Read(address uint16) uint8 { return p.bus.Peek(address) }

// Controller returns the pad plugged in port 0 or 1.
func (n *NES) Controller(port int) *controller.Controller { return n.pads[port] }

func (n *NES) CPU() *cpu.CPU                      { return n.cpu }
func (n *NES) PPU() *ppu.PPU                      { return n.ppu }
func (n *NES) APU() *apu.APU                      { return n.apu }
func (n *NES) Bus() *memory.Bus                   { return n.bus }
func (n *NES) Cartridge() *cartridge.Cartridge    { return n.cart }
func (n *NES) GetFrameCount() uint64              { return n.ppu.Frames() }
func (n *NES) GetInstructionCount() uint64        { return n.instructions }
func (n *NES) DebuggerState() debug.DebuggerState { return n.debuggerState }
