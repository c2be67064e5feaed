package controller

import "github.com/valerio/go-nes/nes/bit"

// Button represents a key on the standard NES controller. The value is the
// position of the button in the serial report.
type Button uint8

const (
	ButtonA Button = iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

var buttonNames = [...]string{"A", "B", "Select", "Start", "Up", "Down", "Left", "Right"}

func (b Button) String() string {
	if int(b) < len(buttonNames) {
		return buttonNames[b]
	}
	return "Unknown"
}

// openBus is the pattern left on the upper data lines by the last bus read
const openBus = 0x40

// Controller represents a standard NES controller: an 8 bit parallel-in
// serial-out shift register latched by the strobe bit.
type Controller struct {
	buttons uint8
	shift   uint8
	strobe  bool
}

// New creates a controller with no buttons pressed
func New() *Controller {
	return &Controller{}
}

// Write handles writes to the strobe port. While bit 0 is high the shift
// register is continuously reloaded with the current button state.
func (c *Controller) Write(value uint8) {
	c.strobe = bit.IsSet(0, value)
	if c.strobe {
		c.shift = c.buttons
	}
}

// Read returns the next button state in bit 0. After all eight buttons have
// been shifted out, an official controller reports 1.
func (c *Controller) Read() uint8 {
	if c.strobe {
		return bit.GetBitValue(0, c.buttons) | openBus
	}

	value := bit.GetBitValue(0, c.shift) | openBus
	c.shift = c.shift>>1 | 0x80
	return value
}

// Press updates the controller state when a button is pressed
func (c *Controller) Press(button Button) {
	c.setButton(button, true)
}

// Release updates the controller state when a button is released
func (c *Controller) Release(button Button) {
	c.setButton(button, false)
}

func (c *Controller) setButton(button Button, pressed bool) {
	c.buttons = bit.SetTo(uint8(button), c.buttons, pressed)
	if c.strobe {
		c.shift = c.buttons
	}
}

// Buttons returns the raw button state, bit n set when Button(n) is held
func (c *Controller) Buttons() uint8 {
	return c.buttons
}
