package adc

import (
	"math/rand"
	"sync"
	"sync/atomic"
)

// Simulated is a converter that takes a few status polls to finish. Its
// samples come from Next, or drift around Base when Next is nil.
type Simulated struct {
	// Base is the level the random walk starts from.
	Base Sample
	// Polls is the number of Busy calls that report a running conversion.
	Polls int
	// Next produces the result of each conversion when set.
	Next func() Sample

	stuck atomic.Bool

	mu        sync.Mutex
	remaining int
	last      Sample
	started   bool
	result    uint16
}

// Stick makes every conversion from now on never complete.
func (s *Simulated) Stick(stuck bool) {
	s.stuck.Store(stuck)
}

func (s *Simulated) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.remaining = s.Polls
	if s.Next != nil {
		s.result = uint16(s.Next())
		return nil
	}
	if !s.started {
		s.last = s.Base
		s.started = true
	}
	step := Sample(rand.Intn(9))
	switch {
	case s.last+step < 4:
		s.last = 0
	case s.last+step-4 > MaxSample:
		s.last = MaxSample
	default:
		s.last = s.last + step - 4
	}
	s.result = uint16(s.last)
	return nil
}

func (s *Simulated) Busy() bool {
	if s.stuck.Load() {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.remaining > 0 {
		s.remaining--
		return true
	}
	return false
}

func (s *Simulated) Result() uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}
