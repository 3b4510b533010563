//go:build !pi

package main

import (
	"github.com/callebjorkell/gas-sensor/internal/adc"
	"github.com/callebjorkell/gas-sensor/internal/hd44780sim"
	"github.com/callebjorkell/gas-sensor/internal/lcd"
	"github.com/callebjorkell/gas-sensor/internal/uart"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
)

// openHardware binds a simulated display, converter and serial port so the
// whole loop runs without a board attached.
func openHardware(c *Config) (*hardware, error) {
	log.Info("Running against simulated hardware")

	dev := hd44780sim.New(hd44780sim.WallClock())
	h := &hardware{
		display: lcd.New(lcd.Pins{
			RegisterSelect: dev.RS,
			Enable:         dev.E,
			Data:           [4]gpio.PinOut{dev.Data[0], dev.Data[1], dev.Data[2], dev.Data[3]},
		}),
		sampler: adc.NewReader(&adc.Simulated{
			Base:  adc.Sample(c.Indicator.Warn - 50),
			Polls: 100,
		}),
	}

	var port *uart.Buffer
	if c.Serial.Enabled {
		port = &uart.Buffer{}
		h.serial = port
	}

	h.observer = func(adc.Sample) {
		lines := dev.Lines()
		log.Infof("|%s|", lines[0])
		log.Infof("|%s|", lines[1])
		for _, v := range dev.Violations() {
			log.Warnf("Display timing violation: %v", v)
		}
		dev.Reset()

		if port == nil {
			return
		}
		for {
			line, ok := port.TakeLine()
			if !ok {
				break
			}
			log.Infof("serial: %s", line)
		}
	}

	return h, nil
}
