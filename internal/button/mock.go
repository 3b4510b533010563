//go:build !pi

package button

import (
	log "github.com/sirupsen/logrus"
	"os"
	"os/signal"
	"syscall"
)

// InitButton fetches a button event channel where a SIGHUP stands in for a press
func InitButton(pinName string) (<-chan ButtonEvent, error) {
	log.Infof("Initializing simulated button for %v, send SIGHUP to press", pinName)

	c := make(chan ButtonEvent, 5)
	go simulateButton(c)
	return c, nil
}

func simulateButton(c chan<- ButtonEvent) {
	hupChan := make(chan os.Signal, 1)
	signal.Notify(hupChan, syscall.SIGHUP)
	defer close(hupChan)

	for {
		<-hupChan
		c <- ButtonEvent{
			Pressed: true,
		}
	}
}
