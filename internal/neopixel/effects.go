package neopixel

import (
	"fmt"
	log "github.com/sirupsen/logrus"
	"time"
)

func (l *LedController) Flash(color uint32) {
	done := l.interruptor.Interrupt()
	defer done()

	l.flash(color)
}

// flash blinks the color three times. It returns false when another effect
// interrupted it.
func (l *LedController) flash(color uint32) bool {
	log.Debugf("Flashing color %06x", color)

	steps := []struct {
		color uint32
		hold  time.Duration
	}{
		{color, 250 * time.Millisecond},
		{0, 40 * time.Millisecond},
		{color, 100 * time.Millisecond},
		{0, 40 * time.Millisecond},
		{color, 100 * time.Millisecond},
	}
	for _, s := range steps {
		l.setColor(s.color)
		if !l.pause(s.hold) {
			log.Debug("Flashing interrupted.")
			return false
		}
	}
	l.setColor(0)

	log.Debug("Flashing done...")
	return true
}

// pause waits for d, returning false as soon as the effect is interrupted.
func (l *LedController) pause(d time.Duration) bool {
	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	deadline := time.After(d)
	for {
		if l.interruptor.IsInterrupted() {
			return false
		}
		select {
		case <-deadline:
			return true
		case <-tick.C:
		}
	}
}

// Breathe pulses the color until another effect interrupts it.
func (l *LedController) Breathe(color uint32) {
	done := l.interruptor.Interrupt()

	go func() {
		defer done()
		for {
			err := l.singleBreath(color)
			if err != nil {
				log.Debug("Stopping breathing: ", err)
				break
			}
		}
	}()
}

func (l *LedController) singleBreath(color uint32) error {
	light := uint32(0)
	increase := true
	log.Tracef("Breathing color: %06x", color)
	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	for {
		if l.interruptor.IsInterrupted() {
			log.Debug("Animation interrupted.")
			return fmt.Errorf("animation is interrupted")
		}

		c := withBrightness(color, light)

		err := l.setColor(c)
		if err != nil {
			return err
		}

		if increase {
			light++
			if light > 100 {
				increase = false
			}
		} else {
			if light == 0 {
				break
			}
			light--
		}

		<-tick.C
	}
	return nil
}
