package debug

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-nes/nes/apu"
	"github.com/valerio/go-nes/nes/ppu"
)

type flatMemory map[uint16]uint8

func (m flatMemory) Read(addr uint16) uint8 { return m[addr] }

func TestExtractOAMData(t *testing.T) {
	var oam [256]uint8
	// sprite 0: Y=49 draws from line 50
	oam[0], oam[1], oam[2], oam[3] = 49, 0x42, 0xE1, 30
	// sprite 1: Y=59 draws from line 60
	oam[4], oam[5], oam[6], oam[7] = 59, 0x24, 0x00, 40

	data := ExtractOAMData(oam, 55, 8)

	require.Len(t, data.Sprites, OAMSpriteCount)
	assert.Equal(t, 55, data.CurrentLine)

	sprite0 := data.Sprites[0]
	assert.Equal(t, 50, sprite0.Y)
	assert.Equal(t, 30, sprite0.X)
	assert.Equal(t, uint8(0x42), sprite0.TileIndex)
	assert.True(t, sprite0.IsVisible)
	assert.Equal(t, SpriteAttributes{BehindBackground: true, FlipX: true, FlipY: true, Palette: 1}, sprite0.DecodeAttributes())

	assert.False(t, data.Sprites[1].IsVisible)
	assert.Equal(t, 1, data.ActiveSprites)
	assert.Len(t, data.GetVisibleSprites(), 1)
	assert.Contains(t, data.FormatSummary(), "Sprites on line: 1")
}

func TestSpriteVisibility(t *testing.T) {
	tests := []struct {
		name         string
		oamY         uint8
		currentLine  int
		spriteHeight int
		expected     bool
	}{
		{"sprite above line", 9, 20, 8, false},
		{"first line of sprite", 19, 20, 8, true},
		{"last line of sprite", 12, 20, 8, true},
		{"below line", 24, 20, 8, false},
		{"8x16 sprite", 9, 20, 16, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var oam [256]uint8
			oam[0] = tt.oamY
			data := ExtractOAMData(oam, tt.currentLine, tt.spriteHeight)
			assert.Equal(t, tt.expected, data.Sprites[0].IsVisible)
		})
	}
}

func TestSnapshotMemory(t *testing.T) {
	mem := flatMemory{0x8000: 1, 0x8001: 2, 0xFFFF: 9}

	snap := SnapshotMemory(mem, 0x8000, 4)
	assert.Equal(t, uint16(0x8000), snap.StartAddr)
	assert.Equal(t, []uint8{1, 2, 0, 0}, snap.Bytes)

	tail := SnapshotMemory(mem, 0xFFFE, 16)
	assert.Equal(t, []uint8{0, 9}, tail.Bytes, "snapshot stops at the top of memory")
}

func TestCreateDisassembly(t *testing.T) {
	mem := flatMemory{
		0x8000: 0xA9, 0x8001: 0x10, // LDA #$10
		0x8002: 0x8D, 0x8003: 0x00, 0x8004: 0x20, // STA $2000
		0x8005: 0xEA, // NOP
	}

	lines := CreateDisassembly(mem, 0x8002, 3)
	require.NotEmpty(t, lines)

	var current *DisasmLine
	for i := range lines {
		if lines[i].IsCurrent {
			current = &lines[i]
		}
	}
	require.NotNil(t, current)
	assert.Equal(t, uint16(0x8002), current.Address)
	assert.Contains(t, current.Instruction, "STA")

	assert.Nil(t, CreateDisassembly(nil, 0x8000, 3))
	assert.Nil(t, CreateDisassembly(mem, 0x8000, 0))
}

func TestExtractAudioData(t *testing.T) {
	a := apu.New(apu.DefaultSampleRate, nil)
	a.MuteChannel(apu.ChannelNoise, true)

	data := ExtractAudioData(a)
	require.NotNil(t, data)
	assert.Equal(t, apu.DefaultSampleRate, data.SampleRate)
	assert.Equal(t, "Noise", data.Channels[apu.ChannelNoise-1].Name)
	assert.False(t, data.Channels[apu.ChannelNoise-1].Audible)
	assert.True(t, data.Channels[apu.ChannelPulse1-1].Audible)

	assert.Nil(t, ExtractAudioData(nil))
}

func TestDebuggerStateString(t *testing.T) {
	assert.Equal(t, "PAUSED", DebuggerPaused.String())
	assert.Equal(t, "UNKNOWN", DebuggerState(42).String())
}

func TestEncodeFramePNG(t *testing.T) {
	frame := ppu.NewFrameBuffer(4, 2)
	frame.Clear(0xFF000000)
	frame.ToSlice()[1] = 0xFF102030

	t.Run("native size", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, EncodeFramePNG(&buf, frame, 1))

		img, err := png.Decode(&buf)
		require.NoError(t, err)
		assert.Equal(t, 4, img.Bounds().Dx())
		r, g, b, a := img.At(1, 0).RGBA()
		assert.Equal(t, []uint32{0x10, 0x20, 0x30, 0xFF}, []uint32{r >> 8, g >> 8, b >> 8, a >> 8})
	})

	t.Run("scaled", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, EncodeFramePNG(&buf, frame, 3))

		img, err := png.Decode(&buf)
		require.NoError(t, err)
		assert.Equal(t, 12, img.Bounds().Dx())
		assert.Equal(t, 6, img.Bounds().Dy())
		r, _, _, _ := img.At(5, 2).RGBA()
		assert.Equal(t, uint32(0x10), r>>8, "pixel (1,0) covers (3..5, 0..2)")
	})
}

func TestSaveFramePNGToDir(t *testing.T) {
	dir := t.TempDir()
	frame := ppu.NewScreenBuffer()

	require.NoError(t, SaveFramePNGToDir(frame, "test", dir, 2))

	matches, err := filepath.Glob(filepath.Join(dir, "test_*.png"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	f, err := os.Open(matches[0])
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, ppu.ScreenWidth*2, cfg.Width)
	assert.Equal(t, ppu.ScreenHeight*2, cfg.Height)
}

func TestWAVRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	rec, err := NewWAVRecorder(path, apu.DefaultSampleRate)
	require.NoError(t, err)

	samples := make([]int16, wavChunkLength+100)
	for i := range samples {
		samples[i] = int16(i - 2000)
	}
	for _, s := range samples[:10] {
		rec.Write(s)
	}
	require.NoError(t, rec.WriteSamples(samples[10:]))
	assert.Equal(t, len(samples), rec.Samples())

	require.NoError(t, rec.Close())
	require.NoError(t, rec.Close(), "close is idempotent")
	assert.ErrorIs(t, rec.WriteSamples(samples[:1]), errRecorderClosed)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)

	assert.Equal(t, uint32(apu.DefaultSampleRate), dec.SampleRate)
	assert.Equal(t, uint16(1), dec.NumChans)
	require.Len(t, buf.Data, len(samples))
	assert.Equal(t, -2000, buf.Data[0])
	assert.Equal(t, int(samples[len(samples)-1]), buf.Data[len(samples)-1])
}
