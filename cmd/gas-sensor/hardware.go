package main

import (
	"github.com/callebjorkell/gas-sensor/internal/adc"
	"github.com/callebjorkell/gas-sensor/internal/monitor"
	"github.com/callebjorkell/gas-sensor/internal/uart"
	log "github.com/sirupsen/logrus"
)

// hardware is what the monitor runs against, bound by openHardware for either
// the real board or the simulation.
type hardware struct {
	display  monitor.Display
	sampler  monitor.Sampler
	serial   uart.Port
	observer func(adc.Sample)
	closers  []func() error
}

func (h *hardware) Close() {
	for i := len(h.closers) - 1; i >= 0; i-- {
		if err := h.closers[i](); err != nil {
			log.Warn("Unable to release hardware: ", err)
		}
	}
}
