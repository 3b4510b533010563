//go:build !pi

package neopixel

import (
	"github.com/callebjorkell/gas-sensor/internal/adc"
	log "github.com/sirupsen/logrus"
)

type mockEngine struct {
	colors []uint32
}

func (d mockEngine) Init() error {
	return nil
}

func (d mockEngine) Render() error {
	log.Tracef("neopixel: render %06x", d.colors[0])
	return nil
}

func (d mockEngine) Wait() error {
	return nil
}

func (d mockEngine) Fini() {
	log.Debug("neopixel: fini")
}

func (d mockEngine) Leds(_ int) []uint32 {
	return d.colors
}

func NewLedController(warn, alarm adc.Sample) (*LedController, error) {
	return newController(mockEngine{
		colors: make([]uint32, ledCounts),
	}, warn, alarm), nil
}
