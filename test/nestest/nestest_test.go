package nestest

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-nes/nes"
)

const (
	baseDir = "../../test-roms"

	// automated mode entry point, bypasses the menu
	automationStart = 0xC000
)

type expectedState struct {
	line      int
	pc        uint16
	registers string
	cycles    uint64
}

// parseLog reads nestest.log, keeping the columns the CPU is responsible for.
func parseLog(t *testing.T, path string) []expectedState {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var states []expectedState
	scanner := bufio.NewScanner(f)
	for n := 1; scanner.Scan(); n++ {
		text := scanner.Text()
		if len(text) < 4 {
			continue
		}

		pc, err := strconv.ParseUint(text[:4], 16, 16)
		require.NoError(t, err, "line %d", n)

		regStart := strings.Index(text, "A:")
		regEnd := strings.Index(text, " PPU:")
		cycStart := strings.Index(text, "CYC:")
		require.True(t, regStart > 0 && regEnd > regStart && cycStart > 0, "line %d: unexpected layout", n)

		cycles, err := strconv.ParseUint(strings.TrimSpace(text[cycStart+4:]), 10, 64)
		require.NoError(t, err, "line %d", n)

		states = append(states, expectedState{
			line:      n,
			pc:        uint16(pc),
			registers: text[regStart:regEnd],
			cycles:    cycles,
		})
	}
	require.NoError(t, scanner.Err())
	return states
}

func TestNestest(t *testing.T) {
	romPath := filepath.Join(baseDir, "nestest.nes")
	logPath := filepath.Join(baseDir, "nestest.log")
	if _, err := os.Stat(romPath); os.IsNotExist(err) {
		t.Skipf("ROM file not found: %s", romPath)
	}
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Skipf("log file not found: %s", logPath)
	}

	expected := parseLog(t, logPath)
	require.NotEmpty(t, expected)

	emu, err := nes.NewWithFile(romPath)
	require.NoError(t, err)

	// service RESET, then jump into automated mode
	emu.Step()
	c := emu.CPU()
	c.SetPC(automationStart)

	for _, want := range expected {
		got := fmt.Sprintf("A:%02X X:%02X Y:%02X P:%02X SP:%02X", c.GetA(), c.GetX(), c.GetY(), c.GetP(), c.GetSP())
		require.Equal(t, want.pc, c.GetPC(), "PC mismatch at log line %d", want.line)
		require.Equal(t, want.registers, got, "register mismatch at log line %d (PC %04X)", want.line, want.pc)
		require.Equal(t, want.cycles, c.GetCycles(), "cycle mismatch at log line %d (PC %04X)", want.line, want.pc)
		emu.Step()
	}

	// nestest stores its failure codes in $02 and $03
	bus := emu.Bus()
	assert.Equal(t, uint8(0), bus.Peek(0x0002), "official opcode failure code")
	assert.Equal(t, uint8(0), bus.Peek(0x0003), "unofficial opcode failure code")
}
