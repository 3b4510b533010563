//go:build pi

package main

import (
	"fmt"
	"github.com/callebjorkell/gas-sensor/internal/adc"
	"github.com/callebjorkell/gas-sensor/internal/lcd"
	"github.com/callebjorkell/gas-sensor/internal/uart"
	log "github.com/sirupsen/logrus"
	"periph.io/x/host/v3"
)

func openHardware(c *Config) (*hardware, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("could not load host drivers: %w", err)
	}
	h := &hardware{}

	switch c.LCD.Bus {
	case busI2C:
		d, err := lcd.OpenI2C(c.LCD.I2C.Address, c.LCD.I2C.Bus)
		if err != nil {
			return nil, fmt.Errorf("could not open i2c display: %w", err)
		}
		h.display = d
		h.closers = append(h.closers, d.Close)
	default:
		p := c.LCD.Pins
		pins, err := lcd.PinNames{
			RegisterSelect: p.RS,
			Enable:         p.Enable,
			Data:           [4]string{p.D4, p.D5, p.D6, p.D7},
		}.Lookup()
		if err != nil {
			return nil, err
		}
		log.Infof("Using parallel display on RS=%v E=%v D4-D7=%v,%v,%v,%v", p.RS, p.Enable, p.D4, p.D5, p.D6, p.D7)
		h.display = lcd.New(pins)
	}

	conv, port, err := adc.OpenMCP3008(c.ADC.SPIPort, c.ADC.Channel)
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("could not open converter: %w", err)
	}
	h.closers = append(h.closers, port.Close)
	h.sampler = adc.NewReader(conv)

	if c.Serial.Enabled {
		tty, err := uart.OpenTTY(c.Serial.Device, c.Serial.Baud)
		if err != nil {
			h.Close()
			return nil, fmt.Errorf("could not open serial port: %w", err)
		}
		h.serial = tty
		h.closers = append(h.closers, tty.Close)
	}

	return h, nil
}
