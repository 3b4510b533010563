package hd44780sim

import (
	"sync"
	"time"
)

// Clock reports the time elapsed since the simulated device was powered.
type Clock interface {
	Now() time.Duration
}

// VirtualClock only moves when Sleep is called. Hand its Sleep method to the
// driver under test to run the whole protocol without real waiting.
type VirtualClock struct {
	mu  sync.Mutex
	now time.Duration
}

func (c *VirtualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *VirtualClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d
}

type wallClock struct {
	start time.Time
}

// WallClock follows real time, starting now.
func WallClock() Clock {
	return wallClock{start: time.Now()}
}

func (w wallClock) Now() time.Duration {
	return time.Since(w.start)
}
