// Package uart is a transmit-only serial line: 8 data bits, 2 stop bits, no
// parity, at a fixed baud rate.
package uart

import (
	"errors"
	"io"
	"runtime"
)

const DefaultBaud = 9600

var ErrBaud = errors.New("unsupported baud rate")

// Port is the transmitter hardware. Ready mirrors the data register empty bit.
type Port interface {
	io.Writer
	Ready() bool
}

type Transmitter struct {
	port Port
	buf  [1]byte
}

func NewTransmitter(p Port) *Transmitter {
	return &Transmitter{port: p}
}

// SendByte waits until the port can take another byte and writes it.
func (t *Transmitter) SendByte(b byte) error {
	for !t.port.Ready() {
		runtime.Gosched()
	}
	t.buf[0] = b
	_, err := t.port.Write(t.buf[:])
	return err
}

// SendString sends s up to its first NUL byte.
func (t *Transmitter) SendString(s string) error {
	for i := 0; i < len(s) && s[i] != 0; i++ {
		if err := t.SendByte(s[i]); err != nil {
			return err
		}
	}
	return nil
}

// SendDecimal sends x as decimal text without leading zeros.
func (t *Transmitter) SendDecimal(x uint8) error {
	h := x / 100
	x -= h * 100
	d := x / 10
	x -= d * 10

	var digits []byte
	switch {
	case h > 0:
		digits = []byte{'0' + h, '0' + d, '0' + x}
	case d > 0:
		digits = []byte{'0' + d, '0' + x}
	default:
		digits = []byte{'0' + x}
	}
	for _, c := range digits {
		if err := t.SendByte(c); err != nil {
			return err
		}
	}
	return nil
}

// Newline sends a line feed followed by a carriage return.
func (t *Transmitter) Newline() error {
	if err := t.SendByte('\n'); err != nil {
		return err
	}
	return t.SendByte('\r')
}
