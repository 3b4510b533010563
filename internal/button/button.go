//go:build pi

package button

import (
	"fmt"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"time"
)

// InitButton initializes the acknowledge button pin and fetches a button event channel
func InitButton(pinName string) (<-chan ButtonEvent, error) {
	log.Infof("Initializing button handler on %v", pinName)
	button := gpioreg.ByName(pinName)
	if button == nil {
		return nil, fmt.Errorf("no GPIO pin named %q", pinName)
	}
	if err := button.In(gpio.PullUp, gpio.BothEdges); err != nil {
		return nil, err
	}

	c := make(chan ButtonEvent, 5)
	go handleButton(button, c)
	return c, nil
}

func handleButton(b gpio.PinIO, c chan ButtonEvent) {
	last := b.Read()
	for {
		// wait for the edge
		if !b.WaitForEdge(time.Second) {
			continue
		}

		// debounce
		l := b.Read()
		if l == last {
			continue
		}

		time.Sleep(15 * time.Millisecond)
		if l == b.Read() {
			// ... and handle
			last = l
			c <- ButtonEvent{
				Pressed: l == gpio.Low,
			}
		}
	}
}
