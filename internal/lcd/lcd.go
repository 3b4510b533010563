// Package lcd drives a 16x2 HD44780 character display over a 4-bit parallel
// bus, bit-banging the register select, enable and D4..D7 lines.
//
// The protocol is open loop: nothing is read back from the controller and every
// transfer is followed by a fixed wait. The driver owns its pins exclusively and
// is not safe for concurrent use.
package lcd

import (
	"fmt"
	"periph.io/x/conn/v3/gpio"
	"time"
)

type Driver struct {
	pins   Pins
	timing Timing
	sleep  func(time.Duration)
}

type Option func(*Driver)

// WithTiming replaces DefaultTiming.
func WithTiming(t Timing) Option {
	return func(d *Driver) {
		d.timing = t
	}
}

// WithSleep replaces time.Sleep for every wait the driver makes.
func WithSleep(sleep func(time.Duration)) Option {
	return func(d *Driver) {
		d.sleep = sleep
	}
}

func New(pins Pins, opts ...Option) *Driver {
	d := &Driver{
		pins:   pins,
		timing: DefaultTiming,
		sleep:  time.Sleep,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Init drives every line low, waits for the display to power up and puts it in
// 4-bit, two line mode with the cursor hidden. It must be called once before
// anything else.
func (d *Driver) Init() error {
	for _, pin := range d.allPins() {
		if err := pin.Out(gpio.Low); err != nil {
			return fmt.Errorf("unable to configure %v: %w", pin, err)
		}
	}
	d.sleep(d.timing.PowerOn)

	for _, c := range []byte{cmdHome, cmdFunctionSet, cmdDisplayOn, cmdEntryMode, cmdClear} {
		if err := d.Command(c); err != nil {
			return err
		}
	}
	d.sleep(d.timing.Clear)
	return nil
}

// Command sends one instruction byte.
func (d *Driver) Command(code byte) error {
	return d.sendByte(code, command)
}

// Clear blanks the display and moves the cursor to column 1 of row 1.
func (d *Driver) Clear() error {
	if err := d.Command(cmdClear); err != nil {
		return err
	}
	d.sleep(d.timing.Clear)
	return d.Command(byte(Line1))
}

// SetCursor moves the cursor to a 1-based column and row.
func (d *Driver) SetCursor(column, row int) error {
	if row < 1 || row > Rows || column < 1 || column > LineWidth {
		return fmt.Errorf("%w: column %d, row %d", ErrPosition, column, row)
	}
	if err := d.Command(byte(lines[row-1]) + byte(column-1)); err != nil {
		return err
	}
	d.sleep(d.timing.Cursor)
	return nil
}

// Print writes text from the cursor onwards. Writing stops at the first NUL
// byte. The display advances the cursor by itself.
func (d *Driver) Print(text string) error {
	for i := 0; i < len(text) && text[i] != 0; i++ {
		if err := d.sendByte(text[i], character); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) sendByte(bits byte, mode gpio.Level) error {
	if err := d.pins.RegisterSelect.Out(mode); err != nil {
		return err
	}
	if err := d.pulseNibble(bits >> 4); err != nil {
		return err
	}
	d.sleep(d.timing.Nibble)
	if err := d.pulseNibble(bits & 0x0F); err != nil {
		return err
	}
	d.sleep(d.timing.Settle)
	return nil
}

func (d *Driver) pulseNibble(nibble byte) error {
	for i, pin := range d.pins.Data {
		if err := pin.Out(gpio.Level(nibble&(1<<uint(i)) != 0)); err != nil {
			return err
		}
	}
	if err := d.pins.Enable.Out(gpio.High); err != nil {
		return err
	}
	d.sleep(d.timing.Pulse)
	return d.pins.Enable.Out(gpio.Low)
}

func (d *Driver) allPins() []gpio.PinOut {
	return []gpio.PinOut{
		d.pins.RegisterSelect,
		d.pins.Enable,
		d.pins.Data[0],
		d.pins.Data[1],
		d.pins.Data[2],
		d.pins.Data[3],
	}
}
