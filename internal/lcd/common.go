package lcd

import (
	"errors"
	"periph.io/x/conn/v3/gpio"
	"time"
)

// Line is the DDRAM address command selecting the start of a display row.
type Line byte

const (
	Line1 Line = 0x80
	Line2 Line = 0xC0

	Rows      = 2
	LineWidth = 16

	character = gpio.High
	command   = gpio.Low

	cmdClear       = 0x01
	cmdHome        = 0x02
	cmdFunctionSet = 0x28 // 4-bit bus, 2 lines, 5x8 font
	cmdDisplayOn   = 0x0C // display on, cursor off, no blink
	cmdEntryMode   = 0x06 // increment, no shift
)

var lines = [Rows]Line{Line1, Line2}

// ErrPosition is returned for a cursor outside the 16x2 surface.
var ErrPosition = errors.New("cursor position out of range")

// Timing holds the fixed waits of the open loop protocol. Nothing is read back
// from the display, so these are the only thing keeping it in sync.
type Timing struct {
	// PowerOn is waited once in Init before the first transfer.
	PowerOn time.Duration
	// Pulse is the width of the enable strobe.
	Pulse time.Duration
	// Nibble separates the high and the low nibble of a byte.
	Nibble time.Duration
	// Settle follows every command and character.
	Settle time.Duration
	// Clear is the extra wait for the clear display instruction.
	Clear time.Duration
	// Cursor is the extra wait after moving the cursor.
	Cursor time.Duration
}

var DefaultTiming = Timing{
	PowerOn: 15 * time.Millisecond,
	Pulse:   time.Microsecond,
	Nibble:  200 * time.Microsecond,
	Settle:  2 * time.Millisecond,
	Clear:   2 * time.Millisecond,
	Cursor:  100 * time.Microsecond,
}

// Pins are the six lines of a 4-bit HD44780 bus. Data holds D4 to D7.
type Pins struct {
	RegisterSelect gpio.PinOut
	Enable         gpio.PinOut
	Data           [4]gpio.PinOut
}
