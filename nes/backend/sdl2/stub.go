//go:build !sdl2

package sdl2

import (
	"errors"

	"github.com/valerio/go-nes/nes/backend"
	"github.com/valerio/go-nes/nes/ppu"
)

var errNotAvailable = errors.New("SDL2 backend not available - build with -tags sdl2 to enable")

// Backend stub for when SDL2 is not available
type Backend struct{}

// New creates a stub SDL2 backend that returns an error
func New() *Backend {
	return &Backend{}
}

// Init returns an error indicating SDL2 is not available
func (s *Backend) Init(config backend.BackendConfig) error {
	return errNotAvailable
}

func (s *Backend) Update(frame *ppu.FrameBuffer) ([]backend.InputEvent, error) {
	return nil, errNotAvailable
}

// Cleanup does nothing
func (s *Backend) Cleanup() error {
	return nil
}
