//go:build linux

package lcd

import (
	"fmt"
	device "github.com/d2r2/go-hd44780"
	"github.com/d2r2/go-i2c"
	d2r2log "github.com/d2r2/go-logger"
	log "github.com/sirupsen/logrus"
)

// I2CDisplay is a 16x2 display behind a PCF8574 backpack. The backpack runs the
// bus timing itself, so there is nothing to tune here.
type I2CDisplay struct {
	bus *i2c.I2C
	dev *device.Lcd
}

// OpenI2C opens the backpack at addr on /dev/i2c-<bus>.
func OpenI2C(addr uint8, bus int) (*I2CDisplay, error) {
	for _, pkg := range []string{"i2c", "hd44780"} {
		if err := d2r2log.ChangePackageLogLevel(pkg, d2r2log.WarnLevel); err != nil {
			log.Debugf("Unable to quieten %v logging: %v", pkg, err)
		}
	}

	log.Infof("Opening I2C display at 0x%02x on bus %d", addr, bus)
	b, err := i2c.NewI2C(addr, bus)
	if err != nil {
		return nil, err
	}
	return &I2CDisplay{bus: b}, nil
}

func (l *I2CDisplay) Init() error {
	dev, err := device.NewLcd(l.bus, device.LCD_16x2)
	if err != nil {
		return err
	}
	l.dev = dev
	return l.dev.BacklightOn()
}

func (l *I2CDisplay) Clear() error {
	if err := l.dev.Clear(); err != nil {
		return err
	}
	return l.dev.Home()
}

func (l *I2CDisplay) SetCursor(column, row int) error {
	if row < 1 || row > Rows || column < 1 || column > LineWidth {
		return fmt.Errorf("%w: column %d, row %d", ErrPosition, column, row)
	}
	return l.dev.SetPosition(row-1, column-1)
}

func (l *I2CDisplay) Print(text string) error {
	n := 0
	for n < len(text) && text[n] != 0 {
		n++
	}
	_, err := l.dev.Write([]byte(text[:n]))
	return err
}

func (l *I2CDisplay) Close() error {
	return l.bus.Close()
}
