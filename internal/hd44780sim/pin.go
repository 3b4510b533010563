package hd44780sim

import (
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// Pin is one line of the simulated device. Writes are forwarded to the device
// so it can react on edges.
type Pin struct {
	gpiotest.Pin
	dev *Device
}

func newPin(dev *Device, name string, num int) *Pin {
	return &Pin{
		Pin: gpiotest.Pin{N: name, Num: num},
		dev: dev,
	}
}

func (p *Pin) Out(l gpio.Level) error {
	p.Lock()
	prev := p.L
	p.L = l
	p.Unlock()

	p.dev.changed(p, prev, l)
	return nil
}

func (p *Pin) level() gpio.Level {
	p.Lock()
	defer p.Unlock()
	return p.L
}

var _ gpio.PinOut = &Pin{}
