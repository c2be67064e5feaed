package nes

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-nes/nes/addr"
	"github.com/valerio/go-nes/nes/apu"
	"github.com/valerio/go-nes/nes/cartridge"
	"github.com/valerio/go-nes/nes/controller"
	"github.com/valerio/go-nes/nes/debug"
	"github.com/valerio/go-nes/nes/input/action"
	"github.com/valerio/go-nes/nes/ppu"
)

const (
	nmiHandler = 0x9000
	irqHandler = 0x9100
)

// buildROM assembles an NROM-128 image. The 16KB bank is mirrored at 0x8000
// and 0xC000, code is placed by CPU address.
func buildROM(t testing.TB, mapper uint8, code map[uint16][]byte) []byte {
	t.Helper()

	prg := make([]byte, cartridge.PRGBankSize)
	for address, bytes := range code {
		copy(prg[address&0x3FFF:], bytes)
	}

	// NMI handler: INC $10; RTI
	copy(prg[nmiHandler&0x3FFF:], []byte{0xE6, 0x10, 0x40})
	// IRQ handler: LDA $4015; INC $11; RTI
	copy(prg[irqHandler&0x3FFF:], []byte{0xAD, 0x15, 0x40, 0xE6, 0x11, 0x40})

	prg[0x3FFA], prg[0x3FFB] = 0x00, 0x90 // NMI
	prg[0x3FFC], prg[0x3FFD] = 0x00, 0x80 // RESET
	prg[0x3FFE], prg[0x3FFF] = 0x00, 0x91 // IRQ/BRK

	header := []byte{'N', 'E', 'S', 0x1A, 1, 1, mapper << 4, mapper & 0xF0, 0, 0, 0, 0, 0, 0, 0, 0}
	rom := append(header, prg...)
	return append(rom, make([]byte, cartridge.CHRBankSize)...)
}

func newTestNES(t testing.TB, code map[uint16][]byte, opts ...Option) *NES {
	t.Helper()

	cart, err := cartridge.Parse(buildROM(t, 0, code))
	require.NoError(t, err)

	n := New(opts...)
	require.NoError(t, n.InsertCartridge(cart))
	return n
}

// jmp $8000
var idleLoop = map[uint16][]byte{0x8000: {0x4C, 0x00, 0x80}}

func TestNES_PowerOnInvariant(t *testing.T) {
	n := newTestNES(t, idleLoop)

	assert.Equal(t, addr.Reset, n.CPU().Pending())

	cycles := n.Step()
	assert.Equal(t, 7, cycles)
	assert.Equal(t, uint16(0x8000), n.CPU().GetPC())
	assert.Equal(t, uint8(0xFD), n.CPU().GetSP())
	assert.Equal(t, uint64(7), n.CPU().GetCycles())
	assert.Equal(t, uint64(0), n.GetFrameCount())
}

func TestNES_StepAdvancesPPUThreeDotsPerCycle(t *testing.T) {
	n := newTestNES(t, idleLoop)

	for i := 0; i < 100; i++ {
		before := n.PPU().Scan()
		cycles := n.Step()
		after := n.PPU().Scan()

		dots := (after.Line-before.Line)*ppu.DotsPerLine + after.Dot - before.Dot
		require.Equal(t, 3*cycles, dots, "step %d", i)
	}
}

func TestNES_RunFrame(t *testing.T) {
	lines := map[int]bool{}
	n := newTestNES(t, idleLoop, WithRenderer(ppu.LineRendererFunc(func(line int, pixels []uint32) {
		lines[line] = true
		assert.Len(t, pixels, ppu.ScreenWidth)
	})))

	cycles := n.RunFrame()
	assert.Equal(t, uint64(1), n.GetFrameCount())
	assert.InDelta(t, 29781, cycles, 5)
	assert.Len(t, lines, ppu.ScreenHeight)

	n.RunFrame()
	assert.Equal(t, uint64(2), n.GetFrameCount())
}

func TestNES_NMIPropagation(t *testing.T) {
	n := newTestNES(t, map[uint16][]byte{
		// lda #$80; sta $2000; jmp $8005
		0x8000: {0xA9, 0x80, 0x8D, 0x00, 0x20, 0x4C, 0x05, 0x80},
	})

	n.RunFrame()
	n.RunFrame()
	n.RunFrame()

	assert.GreaterOrEqual(t, n.Bus().Read(0x0010), uint8(2))
}

func TestNES_APUFrameIRQ(t *testing.T) {
	n := newTestNES(t, map[uint16][]byte{
		// cli; jmp $8001
		0x8000: {0x58, 0x4C, 0x01, 0x80},
	})

	n.RunFrame()
	n.RunFrame()

	assert.GreaterOrEqual(t, n.Bus().Read(0x0011), uint8(1))
	assert.False(t, n.APU().IRQ(), "handler acknowledged the frame IRQ")
}

func TestNES_IRQMaskedWhileInterruptsDisabled(t *testing.T) {
	n := newTestNES(t, idleLoop)

	n.RunFrame()
	n.RunFrame()

	assert.Equal(t, uint8(0), n.Bus().Read(0x0011))
	assert.True(t, n.CPU().Pending().Has(addr.IRQ), "line stays asserted until acknowledged")
}

func TestNES_OAMDMAStall(t *testing.T) {
	n := newTestNES(t, map[uint16][]byte{
		// lda #$02; sta $4014; jmp $8005
		0x8000: {0xA9, 0x02, 0x8D, 0x14, 0x40, 0x4C, 0x05, 0x80},
	})
	n.Step() // reset
	n.Step() // lda

	cycles := n.Step()
	assert.Contains(t, []int{4 + 513, 4 + 514}, cycles)
	assert.Equal(t, uint64(7+2)+uint64(cycles), n.CPU().GetCycles())
}

func TestNES_AudioSink(t *testing.T) {
	var samples []int16
	n := newTestNES(t, idleLoop, WithAudioSink(AudioSinkFunc(func(s int16) {
		samples = append(samples, s)
	})))

	n.RunFrame()
	n.RunFrame()

	// samples produced after the frame boundary wait for the next flush
	rest := n.APU().DrainSamples()
	assert.LessOrEqual(t, len(rest), 1)
	assert.InDelta(t, 2*apu.DefaultSampleRate/60, len(samples)+len(rest), 5)
}

func TestNES_SampleRateOption(t *testing.T) {
	n := New(WithSampleRate(48000))
	assert.Equal(t, 48000, n.APU().SampleRate())

	n = New(WithSampleRate(-1))
	assert.Equal(t, apu.DefaultSampleRate, n.APU().SampleRate())
}

func TestNES_Trace(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	n := newTestNES(t, idleLoop, WithLogger(logger), WithTrace(true))

	n.Step()
	n.Step()

	assert.Contains(t, buf.String(), "8000  4C 00 80  JMP $8000")
}

func TestNES_InsertCartridge(t *testing.T) {
	t.Run("unsupported mapper leaves the console untouched", func(t *testing.T) {
		cart, err := cartridge.Parse(buildROM(t, 0, idleLoop))
		require.NoError(t, err)
		cart.Header.Flags6 = 0x50 // mapper 5
		cart.Mapper = nil

		n := New()
		err = n.InsertCartridge(cart)

		var unsupported *cartridge.UnsupportedMapperError
		require.True(t, errors.As(err, &unsupported))
		assert.Equal(t, uint8(5), unsupported.Mapper)
		assert.Nil(t, n.Cartridge())
	})

	t.Run("nil cartridge", func(t *testing.T) {
		assert.ErrorIs(t, New().InsertCartridge(nil), ErrNoCartridge)
	})

	t.Run("clears work RAM", func(t *testing.T) {
		n := newTestNES(t, idleLoop)
		n.Bus().Write(0x0100, 0xAA)

		cart, err := cartridge.Parse(buildROM(t, 0, idleLoop))
		require.NoError(t, err)
		require.NoError(t, n.InsertCartridge(cart))
		assert.Equal(t, uint8(0), n.Bus().Read(0x0100))
	})

	testCases := []struct {
		desc   string
		mapper uint8
	}{
		{desc: "NROM", mapper: 0},
		{desc: "MMC1", mapper: 1},
	}
	for _, tC := range testCases {
		t.Run("reinsert drops mapper state/"+tC.desc, func(t *testing.T) {
			cart, err := cartridge.Parse(buildROM(t, tC.mapper, idleLoop))
			require.NoError(t, err)

			n := New()
			require.NoError(t, n.InsertCartridge(cart))
			first := cart.Mapper
			n.Bus().Write(0x6000, 0x42)
			require.Equal(t, uint8(0x42), n.Bus().Read(0x6000))

			require.NoError(t, n.InsertCartridge(cart))
			assert.NotSame(t, first, cart.Mapper)
			assert.Equal(t, uint8(0), n.Bus().Read(0x6000))

			n.Step()
			assert.Equal(t, uint16(0x8000), n.CPU().GetPC())
		})
	}
}

func TestNES_Reset(t *testing.T) {
	n := newTestNES(t, idleLoop)
	n.RunFrame()
	n.Bus().Write(0x0100, 0xAA)

	n.Reset()
	assert.True(t, n.CPU().Pending().Has(addr.Reset))

	n.Step()
	assert.Equal(t, uint16(0x8000), n.CPU().GetPC())
	assert.Equal(t, uint8(0xAA), n.Bus().Read(0x0100))
}

func TestNES_RunUntilFrame(t *testing.T) {
	t.Run("no cartridge", func(t *testing.T) {
		assert.ErrorIs(t, New().RunUntilFrame(), ErrNoCartridge)
	})

	testCases := []struct {
		desc         string
		actions      []action.Action
		frames       uint64
		instructions uint64
		state        debug.DebuggerState
	}{
		{desc: "running", frames: 1, state: debug.DebuggerRunning},
		{desc: "paused", actions: []action.Action{action.EmulatorPauseToggle}, state: debug.DebuggerPaused},
		{desc: "resumed", actions: []action.Action{action.EmulatorPauseToggle, action.EmulatorPauseToggle}, frames: 1, state: debug.DebuggerRunning},
		{desc: "step frame", actions: []action.Action{action.EmulatorStepFrame}, frames: 1, state: debug.DebuggerPaused},
		{desc: "step instruction", actions: []action.Action{action.EmulatorStepInstruction}, instructions: 1, state: debug.DebuggerPaused},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			n := newTestNES(t, idleLoop)
			for _, act := range tC.actions {
				n.HandleAction(act, true)
			}

			require.NoError(t, n.RunUntilFrame())

			assert.Equal(t, tC.frames, n.GetFrameCount())
			if tC.instructions > 0 {
				assert.Equal(t, tC.instructions, n.GetInstructionCount())
			}
			assert.Equal(t, tC.state, n.DebuggerState())
		})
	}
}

func TestNES_HandleAction(t *testing.T) {
	t.Run("controller buttons go to player 1", func(t *testing.T) {
		n := newTestNES(t, idleLoop)
		n.HandleAction(action.NESButtonStart, true)
		assert.Equal(t, uint8(1<<controller.ButtonStart), n.Controller(0).Buttons())

		n.HandleAction(action.NESButtonStart, false)
		assert.Equal(t, uint8(0), n.Controller(0).Buttons())
		assert.Equal(t, uint8(0), n.Controller(1).Buttons())
	})

	t.Run("audio channels", func(t *testing.T) {
		n := newTestNES(t, idleLoop)
		n.HandleAction(action.AudioToggleChannel3, true)
		assert.Equal(t, [apu.ChannelCount]bool{true, true, false, true, true}, n.APU().GetChannelStatus())

		n.HandleAction(action.AudioSoloChannel5, true)
		assert.Equal(t, [apu.ChannelCount]bool{false, false, false, false, true}, n.APU().GetChannelStatus())

		n.HandleAction(action.AudioUnmuteAll, false)
		assert.Equal(t, [apu.ChannelCount]bool{false, false, false, false, true}, n.APU().GetChannelStatus(), "releases are ignored")

		n.HandleAction(action.AudioUnmuteAll, true)
		assert.Equal(t, [apu.ChannelCount]bool{true, true, true, true, true}, n.APU().GetChannelStatus())
	})

	t.Run("reset", func(t *testing.T) {
		n := newTestNES(t, idleLoop)
		n.Step()
		n.HandleAction(action.EmulatorReset, true)
		assert.True(t, n.CPU().Pending().Has(addr.Reset))
	})
}

func TestNES_ExtractDebugData(t *testing.T) {
	n := newTestNES(t, idleLoop)
	n.Step()

	data := n.ExtractDebugData()
	require.NotNil(t, data)

	assert.Equal(t, uint16(0x8000), data.CPU.PC)
	assert.Equal(t, uint8(0xFD), data.CPU.SP)
	assert.Equal(t, "none", data.CPU.Pending)

	require.NotNil(t, data.Memory)
	assert.Equal(t, uint16(0x8000-debugMemoryBefore), data.Memory.StartAddr)
	assert.Equal(t, uint8(0x4C), data.Memory.Bytes[debugMemoryBefore])

	require.NotEmpty(t, data.Disassembly)
	assert.Len(t, data.OAM.Sprites, debug.OAMSpriteCount)
	assert.Equal(t, 8, data.OAM.SpriteHeight)
	require.NotNil(t, data.Audio)
	assert.Equal(t, debug.DebuggerRunning, data.DebuggerState)

	assert.Nil(t, (&NES{}).ExtractDebugData())
}

func TestNES_GetCurrentFrame(t *testing.T) {
	n := newTestNES(t, map[uint16][]byte{
		// lda #$3F; sta $2006; lda #$00; sta $2006; lda #$16; sta $2007; jmp $800F
		0x8000: {0xA9, 0x3F, 0x8D, 0x06, 0x20, 0xA9, 0x00, 0x8D, 0x06, 0x20, 0xA9, 0x16, 0x8D, 0x07, 0x20, 0x4C, 0x0F, 0x80},
	})

	n.RunFrame()
	n.RunFrame()

	frame := n.GetCurrentFrame()
	assert.Equal(t, ppu.ScreenWidth, frame.Width())
	assert.Equal(t, ppu.ScreenHeight, frame.Height())
	assert.Equal(t, ppu.Color(0x16), frame.GetPixel(128, 120), "backdrop colour with rendering disabled")
}
