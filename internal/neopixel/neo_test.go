package neopixel

import (
	"github.com/callebjorkell/gas-sensor/internal/adc"
	"github.com/stretchr/testify/assert"
	"sync"
	"testing"
	"time"
)

func TestColor(t *testing.T) {
	tt := []struct {
		name   string
		input  uint32
		light  uint32
		output uint32
	}{
		{
			"full brightness red",
			0xff0000,
			100,
			0xff0000,
		},
		{
			"full brightness green",
			0x00ff00,
			100,
			0x00ff00,
		},
		{
			"full brightness blue",
			0x0000ff,
			100,
			0x0000ff,
		},
		{
			"zero brightness red",
			0xff0000,
			0,
			0x000000,
		},
		{
			"zero brightness green",
			0x00ff00,
			0,
			0x000000,
		},
		{
			"zero brightness blue",
			0x0000ff,
			0,
			0x000000,
		},
		{
			"50 percent",
			0x806040,
			50,
			0x403020,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			o := withBrightness(tc.input, tc.light)
			assert.Equal(t, tc.output, o)
		})
	}
}

type recordingEngine struct {
	mu      sync.Mutex
	leds    []uint32
	renders []uint32
	closed  bool
}

func (r *recordingEngine) Init() error { return nil }

func (r *recordingEngine) Render() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renders = append(r.renders, r.leds[0])
	return nil
}

func (r *recordingEngine) Wait() error { return nil }

func (r *recordingEngine) Fini() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

func (r *recordingEngine) Leds(_ int) []uint32 {
	return r.leds
}

func (r *recordingEngine) last() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.renders) == 0 {
		return 0
	}
	return r.renders[len(r.renders)-1]
}

func (r *recordingEngine) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.renders)
}

func newRecording() (*LedController, *recordingEngine) {
	e := &recordingEngine{leds: make([]uint32, ledCounts)}
	return newController(e, 400, 700), e
}

func TestClassify(t *testing.T) {
	l, _ := newRecording()

	tt := []struct {
		sample adc.Sample
		level  Level
	}{
		{0, Normal},
		{399, Normal},
		{400, Warning},
		{699, Warning},
		{700, Alarm},
		{adc.MaxSample, Alarm},
	}

	for _, tc := range tt {
		t.Run(tc.sample.String(), func(t *testing.T) {
			assert.Equal(t, tc.level, l.Classify(tc.sample))
		})
	}
}

func TestShowSteadyLevels(t *testing.T) {
	l, e := newRecording()

	l.Show(100)
	assert.Equal(t, uint32(green), e.last())
	n := e.count()

	// same level, no render
	l.Show(120)
	assert.Equal(t, n, e.count())

	l.Show(500)
	assert.Equal(t, uint32(amber), e.last())
	for _, c := range e.leds {
		assert.Equal(t, uint32(amber), c)
	}
}

func TestShowAlarmBreathes(t *testing.T) {
	l, e := newRecording()

	l.Show(900)
	assert.Eventually(t, func() bool {
		return e.count() > 10
	}, time.Second, 5*time.Millisecond)

	l.Show(100)
	assert.Equal(t, uint32(green), e.last())

	// the breathing goroutine is gone, so nothing renders anymore
	n := e.count()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, n, e.count())
}

func (r *recordingEngine) acknowledged() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	sawWhite := false
	for _, c := range r.renders {
		if c == white {
			sawWhite = true
		}
	}
	return sawWhite && r.renders[len(r.renders)-1] == red
}

func TestAcknowledge(t *testing.T) {
	l, e := newRecording()

	// nothing to acknowledge
	l.Show(100)
	n := e.count()
	l.Acknowledge()
	assert.Equal(t, n, e.count())

	l.Show(800)
	l.Acknowledge()
	assert.Eventually(t, e.acknowledged, 2*time.Second, 10*time.Millisecond)

	// a second acknowledge for the same alarm is ignored
	n = e.count()
	l.Acknowledge()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, n, e.count())

	l.Close()
	assert.Equal(t, uint32(0), e.last())
	assert.True(t, e.closed)
}

func TestLevelChangeInterruptsAcknowledge(t *testing.T) {
	l, e := newRecording()

	l.Show(800)
	l.Acknowledge()

	start := time.Now()
	l.Show(100)
	elapsed := time.Since(start)

	assert.True(t, elapsed < 100*time.Millisecond, "level change waited %v", elapsed)
	assert.Equal(t, uint32(green), e.last())

	// the interrupted flash does not come back
	time.Sleep(600 * time.Millisecond)
	assert.Equal(t, uint32(green), e.last())
}
