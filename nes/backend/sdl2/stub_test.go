//go:build !sdl2

package sdl2

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valerio/go-nes/nes/backend"
)

func TestStubReportsUnavailable(t *testing.T) {
	var b backend.Backend = New()

	assert.ErrorIs(t, b.Init(backend.BackendConfig{}), errNotAvailable)
	_, err := b.Update(nil)
	assert.ErrorIs(t, err, errNotAvailable)
	assert.NoError(t, b.Cleanup())
}
