package integration

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/valerio/go-nes/nes"
	"github.com/valerio/go-nes/nes/debug"
	"github.com/valerio/go-nes/nes/ppu"
)

type IntegrationTestCase struct {
	ROMPath string
	Frames  int
	Name    string
}

func GetIntegrationTests() []IntegrationTestCase {
	baseDir := "../../test-roms"

	return []IntegrationTestCase{
		{
			ROMPath: filepath.Join(baseDir, "nestest.nes"),
			Frames:  60,
			Name:    "nestest-menu",
		},
		{
			ROMPath: filepath.Join(baseDir, "blargg_ppu_tests/palette_ram.nes"),
			Frames:  120,
			Name:    "palette_ram",
		},
		{
			ROMPath: filepath.Join(baseDir, "blargg_ppu_tests/sprite_ram.nes"),
			Frames:  120,
			Name:    "sprite_ram",
		},
		{
			ROMPath: filepath.Join(baseDir, "blargg_ppu_tests/vram_access.nes"),
			Frames:  120,
			Name:    "vram_access",
		},
		{
			ROMPath: filepath.Join(baseDir, "cpu_timing_test6/cpu_timing_test.nes"),
			Frames:  900,
			Name:    "cpu_timing",
		},
	}
}

// frameBytes serializes the frame as little-endian ARGB words.
func frameBytes(fb *ppu.FrameBuffer) []byte {
	pixels := fb.ToSlice()
	data := make([]byte, 0, len(pixels)*4)
	for _, p := range pixels {
		data = binary.LittleEndian.AppendUint32(data, p)
	}
	return data
}

func writeSnapshot(fb *ppu.FrameBuffer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return debug.EncodeFramePNG(f, fb, 2)
}

func runIntegrationTest(t *testing.T, testCase IntegrationTestCase) {
	if _, err := os.Stat(testCase.ROMPath); os.IsNotExist(err) {
		t.Skipf("ROM file not found: %s", testCase.ROMPath)
		return
	}

	t.Logf("Running integration test: %s (%s)", testCase.Name, testCase.ROMPath)
	emu, err := nes.NewWithFile(testCase.ROMPath)
	require.NoError(t, err)

	for range testCase.Frames {
		require.NoError(t, emu.RunUntilFrame())
	}

	fb := emu.GetCurrentFrame()
	screenDataPath := filepath.Join("testdata", testCase.Name+".bin")
	snapshotPath := filepath.Join("testdata", "snapshots", testCase.Name+".png")
	require.NoError(t, os.MkdirAll(filepath.Join("testdata", "snapshots"), 0755))

	binaryData := frameBytes(fb)
	hash := fmt.Sprintf("%x", md5.Sum(binaryData))

	if os.Getenv("NES_GENERATE_GOLDEN") == "true" {
		t.Logf("Generating reference files for %s", testCase.Name)
		require.NoError(t, os.WriteFile(screenDataPath, binaryData, 0644))
		require.NoError(t, writeSnapshot(fb, snapshotPath))
		t.Logf("Reference files generated - hash: %s", hash)
		return
	}

	expectedData, err := os.ReadFile(screenDataPath)
	if os.IsNotExist(err) {
		t.Skipf("Screen data file not found: %s. Run with NES_GENERATE_GOLDEN=true to generate it.", screenDataPath)
	}
	require.NoError(t, err)

	expectedHash := fmt.Sprintf("%x", md5.Sum(expectedData))
	if hash != expectedHash {
		actualBinPath := filepath.Join("testdata", testCase.Name+"_actual.bin")
		actualPngPath := filepath.Join("testdata", "snapshots", testCase.Name+"_actual.png")

		os.WriteFile(actualBinPath, binaryData, 0644)
		writeSnapshot(fb, actualPngPath)

		t.Errorf("Test output differs from expected\n  Expected hash: %s\n  Actual hash:   %s\n  Files saved:   %s, %s",
			expectedHash, hash, actualBinPath, actualPngPath)
	} else {
		t.Logf("Test passed - hash: %s", hash)
	}
}

func TestIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	for _, testCase := range GetIntegrationTests() {
		t.Run(testCase.Name, func(t *testing.T) {
			t.Parallel()
			runIntegrationTest(t, testCase)
		})
	}
}
