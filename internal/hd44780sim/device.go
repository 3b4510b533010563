// Package hd44780sim simulates an HD44780 character LCD wired in 4-bit mode.
//
// The device watches its RS, E and D4..D7 pins, latches a nibble on every
// falling edge of E and executes each completed byte the way the controller
// would. Timing is checked against the datasheet: a transfer started while the
// controller is still executing the previous instruction is recorded as a
// violation and dropped, which is what makes real displays show garbage.
package hd44780sim

import (
	"fmt"
	"periph.io/x/conn/v3/gpio"
	"sync"
	"time"
)

const (
	// Rows and Columns of the visible area.
	Rows    = 2
	Columns = 16

	lineLength = 40

	PowerOnDelay    = 15 * time.Millisecond
	ClearExecTime   = 1520 * time.Microsecond
	CommandExecTime = 37 * time.Microsecond
	DataExecTime    = 41 * time.Microsecond
	MinPulseWidth   = 450 * time.Nanosecond
)

// Kind tells commands apart from character data.
type Kind int

const (
	Command Kind = iota
	Data
)

func (k Kind) String() string {
	if k == Data {
		return "data"
	}
	return "command"
}

// Pulse is one latched nibble.
type Pulse struct {
	Rose, Fell time.Duration
	RS         gpio.Level
	Nibble     byte
}

// Transaction is one byte executed by the controller.
type Transaction struct {
	At    time.Duration
	Kind  Kind
	Value byte
}

type Violation struct {
	At     time.Duration
	Reason string
}

func (v Violation) String() string {
	return fmt.Sprintf("%v: %s", v.At, v.Reason)
}

// Device is a simulated HD44780. The zero value is not usable; use New.
type Device struct {
	RS   *Pin
	E    *Pin
	Data [4]*Pin

	clock Clock

	mu           sync.Mutex
	rose         time.Duration
	pending      *Pulse
	dropping     bool
	busyUntil    time.Duration
	functionSet  bool
	displayOn    bool
	increment    bool
	addr         byte
	ddram        [Rows][lineLength]byte
	pulses       []Pulse
	transactions []Transaction
	violations   []Violation
}

// New powers up a device at the clock's current time.
func New(clock Clock) *Device {
	d := &Device{
		clock:     clock,
		busyUntil: clock.Now() + PowerOnDelay,
		increment: true,
	}
	d.RS = newPin(d, "RS", 0)
	d.E = newPin(d, "E", 1)
	for i := range d.Data {
		d.Data[i] = newPin(d, fmt.Sprintf("D%d", i+4), i+4)
	}
	d.blank()
	return d
}

func (d *Device) changed(p *Pin, prev, now gpio.Level) {
	if p != d.E || prev == now {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	t := d.clock.Now()
	if now == gpio.High {
		d.rose = t
		return
	}

	pulse := Pulse{Rose: d.rose, Fell: t, RS: d.RS.level()}
	for i, pin := range d.Data {
		if pin.level() == gpio.High {
			pulse.Nibble |= 1 << uint(i)
		}
	}
	d.pulses = append(d.pulses, pulse)
	if t-d.rose < MinPulseWidth {
		d.violate(t, fmt.Sprintf("enable pulse of %v is shorter than %v", t-d.rose, MinPulseWidth))
	}

	if d.pending == nil {
		// A transfer begins with the high nibble. The controller ignores it
		// when it is still executing the previous instruction.
		d.dropping = false
		if d.rose < d.busyUntil {
			d.violate(t, fmt.Sprintf("transfer started %v before the controller was ready", d.busyUntil-d.rose))
			d.dropping = true
		}
		d.pending = &pulse
		return
	}

	high := d.pending
	d.pending = nil
	if d.dropping {
		return
	}

	value := high.Nibble<<4 | pulse.Nibble
	kind := Command
	if high.RS == gpio.High {
		kind = Data
	}
	if high.RS != pulse.RS {
		d.violate(t, "register select changed between nibbles")
	}
	d.execute(t, kind, value)
}

func (d *Device) violate(at time.Duration, reason string) {
	d.violations = append(d.violations, Violation{At: at, Reason: reason})
}

func (d *Device) execute(t time.Duration, kind Kind, b byte) {
	d.transactions = append(d.transactions, Transaction{At: t, Kind: kind, Value: b})

	if kind == Data {
		if !d.functionSet {
			d.violate(t, fmt.Sprintf("character 0x%02x written before the function set", b))
		}
		d.write(b)
		d.busyUntil = t + DataExecTime
		return
	}

	d.busyUntil = t + CommandExecTime
	switch {
	case b&0x80 != 0:
		d.addr = b & 0x7F
	case b&0x40 != 0:
		// CGRAM address, custom characters are not simulated.
	case b&0x20 != 0:
		d.functionSet = true
	case b&0x10 != 0:
		// cursor or display shift
	case b&0x08 != 0:
		d.displayOn = b&0x04 != 0
	case b&0x04 != 0:
		d.increment = b&0x02 != 0
	case b&0x02 != 0:
		d.addr = 0
		d.busyUntil = t + ClearExecTime
	case b&0x01 != 0:
		d.blank()
		d.addr = 0
		d.increment = true
		d.busyUntil = t + ClearExecTime
	}
}

func (d *Device) blank() {
	for r := range d.ddram {
		for c := range d.ddram[r] {
			d.ddram[r][c] = ' '
		}
	}
}

func (d *Device) write(b byte) {
	row, col := d.position()
	if col < lineLength {
		d.ddram[row][col] = b
	}

	if !d.increment {
		switch d.addr {
		case 0x00:
			d.addr = 0x40 + lineLength - 1
		case 0x40:
			d.addr = lineLength - 1
		default:
			d.addr--
		}
		return
	}
	switch d.addr {
	case lineLength - 1:
		d.addr = 0x40
	case 0x40 + lineLength - 1:
		d.addr = 0x00
	default:
		d.addr++
	}
}

func (d *Device) position() (row, col int) {
	if d.addr&0x40 != 0 {
		row = 1
	}
	return row, int(d.addr & 0x3F)
}

// Lines returns the visible text, one string per row. A display that is
// switched off shows blank rows.
func (d *Device) Lines() [Rows]string {
	d.mu.Lock()
	defer d.mu.Unlock()

	var lines [Rows]string
	for r := range lines {
		if !d.displayOn {
			lines[r] = fmt.Sprintf("%*s", Columns, "")
			continue
		}
		lines[r] = string(d.ddram[r][:Columns])
	}
	return lines
}

// Cursor returns the 1-based column and row of the address counter.
func (d *Device) Cursor() (column, row int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	r, c := d.position()
	return c + 1, r + 1
}

// Ready reports whether the function set has been received.
func (d *Device) Ready() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.functionSet
}

func (d *Device) Pulses() []Pulse {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Pulse(nil), d.pulses...)
}

func (d *Device) Transactions() []Transaction {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Transaction(nil), d.transactions...)
}

func (d *Device) Violations() []Violation {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Violation(nil), d.violations...)
}

// Reset forgets the recorded pulses, transactions and violations, keeping the
// display contents.
func (d *Device) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pulses = nil
	d.transactions = nil
	d.violations = nil
}
