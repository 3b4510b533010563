// Package neopixel shows the gas level on a WS281x LED ring: green while the
// level is normal, amber above the warning threshold and breathing red above the
// alarm threshold until somebody acknowledges it.
package neopixel

import (
	"github.com/callebjorkell/gas-sensor/internal/adc"
	log "github.com/sirupsen/logrus"
	"sync"
)

const (
	brightness = 90
	ledCounts  = 16

	green = 0x00ff00
	amber = 0xffa000
	red   = 0xff0000
	white = 0xffffff
)

type wsEngine interface {
	Init() error
	Render() error
	Wait() error
	Fini()
	Leds(channel int) []uint32
}

type Level int

const (
	Unknown Level = iota
	Normal
	Warning
	Alarm
)

func (l Level) String() string {
	switch l {
	case Normal:
		return "normal"
	case Warning:
		return "warning"
	case Alarm:
		return "alarm"
	}
	return "unknown"
}

type LedController struct {
	ws          wsEngine
	interruptor Queue
	warn, alarm adc.Sample

	mu           sync.Mutex
	level        Level
	acknowledged bool
}

func newController(ws wsEngine, warn, alarm adc.Sample) *LedController {
	return &LedController{
		ws:    ws,
		warn:  warn,
		alarm: alarm,
	}
}

// Classify maps a sample onto a level.
func (l *LedController) Classify(s adc.Sample) Level {
	switch {
	case s >= l.alarm:
		return Alarm
	case s >= l.warn:
		return Warning
	}
	return Normal
}

// Show updates the ring for a new sample. Nothing changes while the level stays
// the same.
func (l *LedController) Show(s adc.Sample) {
	level := l.Classify(s)

	l.mu.Lock()
	prev := l.level
	l.level = level
	if level != Alarm {
		l.acknowledged = false
	}
	l.mu.Unlock()

	if level == prev {
		return
	}
	log.Debugf("Gas level changed from %v to %v at %v", prev, level, s)

	switch level {
	case Normal:
		l.steady(green)
	case Warning:
		l.steady(amber)
	case Alarm:
		log.Warnf("Gas level %v is above the alarm threshold %v", s, l.alarm)
		l.Breathe(red)
	}
}

// Acknowledge silences a running alarm: the ring flashes and stays red until
// the level drops. The flash runs in the background and gives way to the next
// level change.
func (l *LedController) Acknowledge() {
	l.mu.Lock()
	if l.level != Alarm || l.acknowledged {
		l.mu.Unlock()
		return
	}
	l.acknowledged = true
	l.mu.Unlock()

	log.Info("Alarm acknowledged")
	done := l.interruptor.Interrupt()
	go func() {
		defer done()
		if l.flash(white) {
			if err := l.setColor(red); err != nil {
				log.Warn("Unable to set LED color: ", err)
			}
		}
	}()
}

func (l *LedController) steady(color uint32) {
	done := l.interruptor.Interrupt()
	defer done()

	if err := l.setColor(color); err != nil {
		log.Warn("Unable to set LED color: ", err)
	}
}

func (l *LedController) setColor(color uint32) error {
	leds := l.ws.Leds(0)
	for i := range leds {
		leds[i] = color
	}
	return l.ws.Render()
}

func (l *LedController) clear() error {
	return l.setColor(0)
}

// Stop interrupts any running effect and turns the LEDs off.
func (l *LedController) Stop() {
	done := l.interruptor.Interrupt()
	defer done()

	l.mu.Lock()
	l.level = Unknown
	l.mu.Unlock()

	if err := l.clear(); err != nil {
		log.Warn("Unable to clear LEDs: ", err)
	}
}

func (l *LedController) Close() {
	l.Stop()
	l.ws.Fini()
}

// Get the same color, but with a lower or equal brightness, on a scale from 0-100, where 100 is the same as the input.
func withBrightness(color, light uint32) uint32 {
	if light >= 100 {
		return color
	}
	if light == 0 {
		return 0
	}

	r, g, b := (color>>16)&0xff, (color>>8)&0xff, color&0xff

	red := r * light / 100
	green := g * light / 100
	blue := b * light / 100

	return (red << 16) | (green << 8) | blue
}
