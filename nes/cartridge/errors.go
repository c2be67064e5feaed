package cartridge

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMagic is returned when the image does not start with "NES\x1A".
	ErrInvalidMagic = errors.New("invalid iNES magic")
	// ErrInvalidPadding is returned when header bytes 11-15 are not zero.
	ErrInvalidPadding = errors.New("invalid iNES header padding")
	// ErrTruncated is returned when the image is shorter than the header declares.
	ErrTruncated = errors.New("truncated ROM image")
)

// UnsupportedMapperError is returned for mapper numbers without an implementation.
type UnsupportedMapperError struct {
	Mapper uint8
}

func (e *UnsupportedMapperError) Error() string {
	return fmt.Sprintf("unsupported mapper %d", e.Mapper)
}
