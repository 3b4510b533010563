package neopixel

import (
	"errors"
	log "github.com/sirupsen/logrus"
	"sync"
)

// Queue shares the LEDs between effects, where for example breathing runs until something else wants the ring.
// Interrupt sets an "interrupted" state that a running effect can check, and then waits for the run lock. An effect
// that sees the interruption SHOULD return and release the LEDs.
type Queue struct {
	waiting       int
	runLock       sync.Mutex
	interruptLock sync.Mutex
}

type Unlocker func()

// Interrupt queues for the LEDs and waits for the turn.
func (i *Queue) Interrupt() Unlocker {
	i.interrupt()
	i.runLock.Lock()

	i.running()
	return func() {
		i.done()
	}
}

func (i *Queue) running() {
	i.interruptLock.Lock()
	defer i.interruptLock.Unlock()

	i.waiting--
}

func (i *Queue) interrupt() {
	i.interruptLock.Lock()
	defer i.interruptLock.Unlock()

	i.waiting++
	log.Trace("Added to queue: ", i.waiting)
}

func (i *Queue) IsInterrupted() bool {
	i.interruptLock.Lock()
	defer i.interruptLock.Unlock()

	return i.waiting != 0
}

func (i *Queue) done() {
	defer i.runLock.Unlock()

	i.interruptLock.Lock()
	defer i.interruptLock.Unlock()
	if i.waiting < 0 {
		log.Warn(errors.New("number waiting in queue less than zero"))
	}
}
