// Package monitor is the sampling loop: read the gas sensor, show the value on
// the display and hand it to whatever else is listening.
package monitor

import (
	"context"
	"errors"
	"github.com/callebjorkell/gas-sensor/internal/adc"
	"github.com/callebjorkell/gas-sensor/internal/uart"
	log "github.com/sirupsen/logrus"
	"time"
)

const (
	DefaultLabel        = "Gas Sensor"
	DefaultInterval     = 500 * time.Millisecond
	DefaultStartupDelay = 250 * time.Millisecond
)

// Display is a 2x16 character display with 1-based cursor positions.
type Display interface {
	Init() error
	Clear() error
	SetCursor(column, row int) error
	Print(text string) error
}

type Sampler interface {
	Read() (adc.Sample, error)
}

// Indicator shows the level somewhere else than the display, like an LED ring.
type Indicator interface {
	Show(s adc.Sample)
}

type Recorder interface {
	Record(ctx context.Context, s adc.Sample) error
}

type Config struct {
	Label        string
	Interval     time.Duration
	StartupDelay time.Duration
}

type Option func(*Monitor)

// WithSerial reports the 8-bit reading on the serial line whenever it changes.
func WithSerial(t *uart.Transmitter) Option {
	return func(m *Monitor) {
		m.serial = t
	}
}

func WithIndicator(i Indicator) Option {
	return func(m *Monitor) {
		m.indicator = i
	}
}

func WithRecorder(r Recorder) Option {
	return func(m *Monitor) {
		m.recorder = r
	}
}

// WithObserver is called after every refresh that reached the display.
func WithObserver(f func(adc.Sample)) Option {
	return func(m *Monitor) {
		m.observer = f
	}
}

type Monitor struct {
	display Display
	sampler Sampler
	conf    Config

	serial    *uart.Transmitter
	indicator Indicator
	recorder  Recorder
	observer  func(adc.Sample)

	text     []byte
	reported int
}

func New(d Display, s Sampler, c Config, opts ...Option) *Monitor {
	if c.Label == "" {
		c.Label = DefaultLabel
	}
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.StartupDelay < 0 {
		c.StartupDelay = 0
	}

	m := &Monitor{
		display:  d,
		sampler:  s,
		conf:     c,
		text:     make([]byte, 0, 8),
		reported: -1,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start initializes and clears the display, then waits the startup delay.
func (m *Monitor) Start(ctx context.Context) error {
	log.Info("Initializing display")
	if err := m.display.Init(); err != nil {
		return err
	}
	if err := m.display.Clear(); err != nil {
		return err
	}
	return wait(ctx, m.conf.StartupDelay)
}

// Run starts the monitor and refreshes the display every interval until the
// context is cancelled. A cancelled context is not an error.
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.Start(ctx); err != nil {
		return ignoreCancel(err)
	}

	for {
		if err := m.Refresh(ctx); err != nil {
			return err
		}
		if err := wait(ctx, m.conf.Interval); err != nil {
			return ignoreCancel(err)
		}
	}
}

// Refresh takes one sample and redraws the display: the label on the first
// row and the decimal value on the second.
func (m *Monitor) Refresh(ctx context.Context) error {
	s, err := m.sampler.Read()
	if err != nil {
		return err
	}
	log.Debugf("Gas level: %v", s)

	m.text = s.AppendDecimal(m.text[:0])

	if err := m.display.Clear(); err != nil {
		return err
	}
	if err := m.display.SetCursor(1, 1); err != nil {
		return err
	}
	if err := m.display.Print(m.conf.Label); err != nil {
		return err
	}
	if err := m.display.SetCursor(1, 2); err != nil {
		return err
	}
	if err := m.display.Print(string(m.text)); err != nil {
		return err
	}

	if m.serial != nil {
		if err := m.report(s); err != nil {
			log.Warn("Unable to report on serial: ", err)
		}
	}
	if m.indicator != nil {
		m.indicator.Show(s)
	}
	if m.recorder != nil {
		m.record(ctx, s)
	}
	if m.observer != nil {
		m.observer(s)
	}
	return nil
}

// record gives the recorder at most one interval, so a slow server cannot hold
// up the display.
func (m *Monitor) record(ctx context.Context, s adc.Sample) {
	ctx, cancel := context.WithTimeout(ctx, m.conf.Interval)
	defer cancel()

	if err := m.recorder.Record(ctx, s); err != nil {
		log.Warn("Unable to record reading: ", err)
	}
}

func (m *Monitor) report(s adc.Sample) error {
	b := s.Byte()
	if int(b) == m.reported {
		return nil
	}

	if err := m.serial.SendString(m.conf.Label); err != nil {
		return err
	}
	if err := m.serial.SendString("= "); err != nil {
		return err
	}
	if err := m.serial.SendDecimal(b); err != nil {
		return err
	}
	if err := m.serial.Newline(); err != nil {
		return err
	}
	m.reported = int(b)
	return nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
