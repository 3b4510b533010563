package lcd

import (
	"fmt"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// PinNames names the GPIO lines wired to the display, as known to gpioreg.
type PinNames struct {
	RegisterSelect string
	Enable         string
	Data           [4]string
}

// Lookup resolves the names through gpioreg. The host drivers must have been
// loaded first.
func (n PinNames) Lookup() (Pins, error) {
	var p Pins
	var err error
	if p.RegisterSelect, err = byName(n.RegisterSelect); err != nil {
		return Pins{}, err
	}
	if p.Enable, err = byName(n.Enable); err != nil {
		return Pins{}, err
	}
	for i, name := range n.Data {
		if p.Data[i], err = byName(name); err != nil {
			return Pins{}, err
		}
	}
	return p, nil
}

func byName(name string) (gpio.PinOut, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("no GPIO pin named %q", name)
	}
	return p, nil
}
