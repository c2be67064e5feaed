package debug

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"

	"github.com/valerio/go-nes/nes/ppu"
)

// TakeSnapshot handles the snapshot hotkey for backends
func TakeSnapshot(frame *ppu.FrameBuffer) {
	if frame == nil {
		slog.Warn("No frame data available for snapshot")
		return
	}

	if err := SaveFramePNGToDir(frame, "nes_snapshot", "", 1); err != nil {
		slog.Error("Failed to save snapshot", "error", err)
	}
}

// FrameToImage converts an ARGB framebuffer to an RGBA image.
func FrameToImage(frame *ppu.FrameBuffer) *image.RGBA {
	width, height := frame.Width(), frame.Height()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, pixel := range frame.ToSlice() {
		idx := i * 4
		img.Pix[idx] = byte(pixel >> 16)
		img.Pix[idx+1] = byte(pixel >> 8)
		img.Pix[idx+2] = byte(pixel)
		img.Pix[idx+3] = byte(pixel >> 24)
	}
	return img
}

// EncodeFramePNG writes the frame as PNG, scaled up by an integer factor with
// nearest neighbor sampling so pixels stay sharp.
func EncodeFramePNG(w io.Writer, frame *ppu.FrameBuffer, scale int) error {
	var img image.Image = FrameToImage(frame)
	if scale > 1 {
		bounds := img.Bounds()
		scaled := image.NewRGBA(image.Rect(0, 0, bounds.Dx()*scale, bounds.Dy()*scale))
		draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)
		img = scaled
	}
	return png.Encode(w, img)
}

// SaveFramePNGToDir saves a framebuffer as PNG with timestamp to a specific directory
func SaveFramePNGToDir(frame *ppu.FrameBuffer, baseName, directory string, scale int) error {
	if scale < 1 {
		scale = 1
	}

	timestamp := time.Now().Format("20060102_150405.000")
	filename := fmt.Sprintf("%s_%s.png", baseName, timestamp)

	outputDir := directory
	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		outputDir = cwd
	}

	filePath := filepath.Join(outputDir, filename)
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", filePath, err)
	}
	defer file.Close()

	if err := EncodeFramePNG(file, frame, scale); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}

	slog.Info("Snapshot saved", "path", filePath,
		"size", fmt.Sprintf("%dx%d", frame.Width()*scale, frame.Height()*scale), "format", "PNG")
	return nil
}
