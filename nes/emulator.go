package nes

import (
	"github.com/valerio/go-nes/nes/apu"
	"github.com/valerio/go-nes/nes/debug"
	"github.com/valerio/go-nes/nes/input"
	"github.com/valerio/go-nes/nes/input/action"
	"github.com/valerio/go-nes/nes/ppu"
)

const (
	debugMemoryBefore = 0x40
	debugMemorySize   = 0x100
	debugDisasmLines  = 24
)

// Emulator is the interface backends drive
type Emulator interface {
	RunUntilFrame() error
	GetCurrentFrame() *ppu.FrameBuffer
	HandleAction(act action.Action, pressed bool)
	ExtractDebugData() *debug.CompleteDebugData
}

var _ Emulator = (*NES)(nil)

// RunUntilFrame advances emulation according to the debugger state: a full
// frame while running, nothing while paused, and a single frame or
// instruction when stepping, pausing again afterwards.
func (n *NES) RunUntilFrame() error {
	if n.cart == nil {
		return ErrNoCartridge
	}

	switch n.debuggerState {
	case debug.DebuggerPaused:
		return nil
	case debug.DebuggerStepInstruction:
		n.Step()
		n.debuggerState = debug.DebuggerPaused
	case debug.DebuggerStepFrame:
		n.RunFrame()
		n.debuggerState = debug.DebuggerPaused
	default:
		n.RunFrame()
	}
	return nil
}

// GetCurrentFrame returns the framebuffer the visible scanlines are stitched into.
func (n *NES) GetCurrentFrame() *ppu.FrameBuffer {
	return n.frame
}

// HandleAction applies controller buttons to player 1 and emulator actions
// on press. Actions owned by the backend (snapshots, quitting, the debug view)
// are ignored.
func (n *NES) HandleAction(act action.Action, pressed bool) {
	if button, ok := input.ControllerButton(act); ok {
		if pressed {
			n.pads[0].Press(button)
		} else {
			n.pads[0].Release(button)
		}
		return
	}

	if !pressed {
		return
	}

	switch {
	case act == action.EmulatorPauseToggle:
		if n.debuggerState == debug.DebuggerRunning {
			n.debuggerState = debug.DebuggerPaused
		} else {
			n.debuggerState = debug.DebuggerRunning
		}
		n.logger.Info("Debugger state changed", "state", n.debuggerState)
	case act == action.EmulatorStepFrame:
		n.debuggerState = debug.DebuggerStepFrame
	case act == action.EmulatorStepInstruction:
		n.debuggerState = debug.DebuggerStepInstruction
	case act == action.EmulatorReset:
		n.logger.Info("Console reset")
		n.Reset()
	case act >= action.AudioToggleChannel1 && act <= action.AudioToggleChannel5:
		n.apu.ToggleChannel(apu.ChannelPulse1 + int(act-action.AudioToggleChannel1))
	case act >= action.AudioSoloChannel1 && act <= action.AudioSoloChannel5:
		n.apu.SoloChannel(apu.ChannelPulse1 + int(act-action.AudioSoloChannel1))
	case act == action.AudioUnmuteAll:
		n.apu.UnmuteAll()
	}
}

// ExtractDebugData snapshots the console for the debug panels. Memory is
// read without side effects, so it is safe between any two steps.
func (n *NES) ExtractDebugData() *debug.CompleteDebugData {
	if n.cpu == nil || n.ppu == nil {
		return nil
	}

	pc := n.cpu.GetPC()
	start := uint16(0)
	if pc > debugMemoryBefore {
		start = pc - debugMemoryBefore
	}
	mem := peeker{n.bus}

	spriteHeight := 8
	if n.ppu.GetCtrl()&0x20 != 0 {
		spriteHeight = 16
	}
	scan := n.ppu.Scan()

	return &debug.CompleteDebugData{
		OAM: debug.ExtractOAMData(n.ppu.OAM(), scan.Line, spriteHeight),
		CPU: &debug.CPUState{
			A:       n.cpu.GetA(),
			X:       n.cpu.GetX(),
			Y:       n.cpu.GetY(),
			P:       n.cpu.GetP(),
			SP:      n.cpu.GetSP(),
			PC:      pc,
			Cycles:  n.cpu.GetCycles(),
			Flags:   n.cpu.GetFlagString(),
			Pending: n.cpu.Pending().String(),
		},
		PPU: &debug.PPUState{
			Line:   scan.Line,
			Dot:    scan.Dot,
			Frame:  scan.Frames,
			Ctrl:   n.ppu.GetCtrl(),
			Mask:   n.ppu.GetMask(),
			Status: n.ppu.GetStatus(),
			V:      n.ppu.GetV(),
			T:      n.ppu.GetT(),
			FineX:  n.ppu.GetFineX(),
		},
		Audio:         debug.ExtractAudioData(n.apu),
		Memory:        debug.SnapshotMemory(mem, start, debugMemorySize),
		Disassembly:   debug.CreateDisassembly(mem, pc, debugDisasmLines),
		DebuggerState: n.debuggerState,
	}
}
