//go:build pi

package neopixel

import (
	"github.com/callebjorkell/gas-sensor/internal/adc"
	ws "github.com/rpi-ws281x/rpi-ws281x-go"
)

func NewLedController(warn, alarm adc.Sample) (*LedController, error) {
	opt := ws.DefaultOptions
	opt.Channels[0].Brightness = brightness
	opt.Channels[0].LedCount = ledCounts

	dev, err := ws.MakeWS2811(&opt)
	if err != nil {
		return nil, err
	}
	err = dev.Init()
	if err != nil {
		return nil, err
	}

	return newController(dev, warn, alarm), nil
}
