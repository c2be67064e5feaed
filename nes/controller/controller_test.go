package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func readReport(c *Controller) []uint8 {
	report := make([]uint8, 8)
	for i := range report {
		report[i] = c.Read()
	}
	return report
}

func TestController_report(t *testing.T) {
	testCases := []struct {
		desc    string
		pressed []Button
		want    []uint8
	}{
		{desc: "nothing pressed", want: []uint8{0x40, 0x40, 0x40, 0x40, 0x40, 0x40, 0x40, 0x40}},
		{desc: "A", pressed: []Button{ButtonA}, want: []uint8{0x41, 0x40, 0x40, 0x40, 0x40, 0x40, 0x40, 0x40}},
		{desc: "Start and Right", pressed: []Button{ButtonStart, ButtonRight}, want: []uint8{0x40, 0x40, 0x40, 0x41, 0x40, 0x40, 0x40, 0x41}},
		{desc: "Select and Up", pressed: []Button{ButtonSelect, ButtonUp}, want: []uint8{0x40, 0x40, 0x41, 0x40, 0x41, 0x40, 0x40, 0x40}},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c := New()
			for _, b := range tC.pressed {
				c.Press(b)
			}

			c.Write(1)
			c.Write(0)

			assert.Equal(t, tC.want, readReport(c))
		})
	}
}

func TestController_afterReport(t *testing.T) {
	c := New()
	c.Write(1)
	c.Write(0)
	readReport(c)

	assert.Equal(t, uint8(0x41), c.Read())
}

func TestController_strobeHeld(t *testing.T) {
	c := New()
	c.Press(ButtonA)
	c.Write(1)

	assert.Equal(t, uint8(0x41), c.Read())
	assert.Equal(t, uint8(0x41), c.Read())

	c.Release(ButtonA)
	assert.Equal(t, uint8(0x40), c.Read())
}

func TestController_latchIgnoresLaterPresses(t *testing.T) {
	c := New()
	c.Write(1)
	c.Write(0)
	c.Press(ButtonA)

	assert.Equal(t, uint8(0x40), c.Read())
	assert.Equal(t, uint8(0x01), c.Buttons())
}

func TestController_releaseClearsOnlyThatButton(t *testing.T) {
	c := New()
	c.Press(ButtonA)
	c.Press(ButtonB)
	c.Release(ButtonA)
	c.Release(ButtonSelect)

	c.Write(1)
	c.Write(0)

	assert.Equal(t, []uint8{0x40, 0x41, 0x40, 0x40, 0x40, 0x40, 0x40, 0x40}, readReport(c))
}
