package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapper0(t *testing.T) {
	t.Run("16KB program ROM is mirrored", func(t *testing.T) {
		prg := make([]uint8, PRGBankSize)
		for i := range prg {
			prg[i] = uint8(i)
		}
		m := NewMapper0(prg, make([]uint8, CHRBankSize), false, Vertical)

		for _, address := range []uint16{0x8000, 0x8123, 0xBFFF} {
			assert.Equal(t, m.Read(address), m.Read(address+0x4000), "0x%04X should mirror 0x%04X", address, address+0x4000)
		}
		assert.Equal(t, uint8(0x23), m.Read(0xC123))
	})

	t.Run("32KB program ROM is direct", func(t *testing.T) {
		cart, err := Parse(buildROM(2, 1, 0, 0))
		require.NoError(t, err)

		assert.Equal(t, uint8(0), cart.Mapper.Read(0x8000))
		assert.Equal(t, uint8(1), cart.Mapper.Read(0xC000))
		assert.Equal(t, uint8(1), cart.Mapper.Read(0xFFFF))
	})

	t.Run("character ROM is read-only", func(t *testing.T) {
		cart, err := Parse(buildROM(1, 1, 0, 0))
		require.NoError(t, err)

		cart.Mapper.Write(0x0010, 0x55)
		assert.Equal(t, uint8(0xC0), cart.Mapper.Read(0x0010))
	})

	t.Run("character RAM is writable", func(t *testing.T) {
		cart, err := Parse(buildROM(1, 0, 0, 0))
		require.NoError(t, err)

		cart.Mapper.Write(0x1FFF, 0x55)
		assert.Equal(t, uint8(0x55), cart.Mapper.Read(0x1FFF))
	})

	t.Run("program ROM writes are ignored, PRG RAM is not", func(t *testing.T) {
		cart, err := Parse(buildROM(1, 1, 0, 0))
		require.NoError(t, err)

		cart.Mapper.Write(0x8000, 0xFF)
		assert.Equal(t, uint8(0), cart.Mapper.Read(0x8000))

		cart.Mapper.Write(0x6000, 0x42)
		assert.Equal(t, uint8(0x42), cart.Mapper.Read(0x6000))
	})

	t.Run("mirroring is fixed by the header", func(t *testing.T) {
		cart, err := Parse(buildROM(1, 1, 0x01, 0))
		require.NoError(t, err)
		assert.Equal(t, Vertical, cart.Mapper.Mirroring())
	})
}

func writeMMC1(m *MMC1, address uint16, value uint8) {
	for i := 0; i < 5; i++ {
		m.Write(address, (value>>i)&1)
	}
}

func TestMMC1(t *testing.T) {
	cart, err := Parse(buildROM(4, 2, 0x10, 0))
	require.NoError(t, err)
	m, ok := cart.Mapper.(*MMC1)
	require.True(t, ok)

	t.Run("power on fixes last bank at 0xC000", func(t *testing.T) {
		assert.Equal(t, uint8(0), m.Read(0x8000))
		assert.Equal(t, uint8(3), m.Read(0xC000))
	})

	t.Run("PRG bank switch in mode 3", func(t *testing.T) {
		writeMMC1(m, 0xE000, 2)
		assert.Equal(t, uint8(2), m.Read(0x8000))
		assert.Equal(t, uint8(3), m.Read(0xC000))
	})

	t.Run("32KB mode ignores the low bank bit", func(t *testing.T) {
		writeMMC1(m, 0x8000, 0x00)
		writeMMC1(m, 0xE000, 3)
		assert.Equal(t, uint8(2), m.Read(0x8000))
		assert.Equal(t, uint8(3), m.Read(0xC000))
	})

	t.Run("mirroring control", func(t *testing.T) {
		testCases := []struct {
			desc     string
			control  uint8
			expected Mirroring
		}{
			{desc: "single lower", control: 0x00, expected: SingleScreenLower},
			{desc: "single upper", control: 0x01, expected: SingleScreenUpper},
			{desc: "vertical", control: 0x02, expected: Vertical},
			{desc: "horizontal", control: 0x03, expected: Horizontal},
		}
		for _, tC := range testCases {
			t.Run(tC.desc, func(t *testing.T) {
				writeMMC1(m, 0x8000, tC.control)
				assert.Equal(t, tC.expected, m.Mirroring())
			})
		}
	})

	t.Run("4KB CHR banks", func(t *testing.T) {
		writeMMC1(m, 0x8000, 0x10)
		writeMMC1(m, 0xA000, 3)
		writeMMC1(m, 0xC000, 0)
		assert.Equal(t, uint8(0xC1), m.Read(0x0000))
		assert.Equal(t, uint8(0xC0), m.Read(0x1000))
	})

	t.Run("reset bit restores PRG mode 3", func(t *testing.T) {
		m.Write(0x8000, 0x80)
		assert.Equal(t, uint8(0x0C), m.control&0x0C)
	})
}

func TestUxROM(t *testing.T) {
	cart, err := Parse(buildROM(8, 0, 0x20, 0))
	require.NoError(t, err)

	assert.Equal(t, uint8(0), cart.Mapper.Read(0x8000))
	assert.Equal(t, uint8(7), cart.Mapper.Read(0xC000))

	cart.Mapper.Write(0x8000, 5)
	assert.Equal(t, uint8(5), cart.Mapper.Read(0x8000))
	assert.Equal(t, uint8(7), cart.Mapper.Read(0xFFFF))

	cart.Mapper.Write(0x0000, 0x99)
	assert.Equal(t, uint8(0x99), cart.Mapper.Read(0x0000))
}

func TestCNROM(t *testing.T) {
	cart, err := Parse(buildROM(1, 4, 0x30, 0))
	require.NoError(t, err)

	assert.Equal(t, uint8(0xC0), cart.Mapper.Read(0x0000))
	cart.Mapper.Write(0x8000, 2)
	assert.Equal(t, uint8(0xC2), cart.Mapper.Read(0x0000))
	assert.Equal(t, uint8(0), cart.Mapper.Read(0xC000))
}
