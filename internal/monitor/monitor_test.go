package monitor

import (
	"context"
	"errors"
	"github.com/callebjorkell/gas-sensor/internal/adc"
	"github.com/callebjorkell/gas-sensor/internal/hd44780sim"
	"github.com/callebjorkell/gas-sensor/internal/lcd"
	"github.com/callebjorkell/gas-sensor/internal/telemetry"
	"github.com/callebjorkell/gas-sensor/internal/uart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"periph.io/x/conn/v3/gpio"
	"sync"
	"testing"
	"time"
)

func simulatedDisplay() (*lcd.Driver, *hd44780sim.Device) {
	clock := &hd44780sim.VirtualClock{}
	dev := hd44780sim.New(clock)
	d := lcd.New(lcd.Pins{
		RegisterSelect: dev.RS,
		Enable:         dev.E,
		Data:           [4]gpio.PinOut{dev.Data[0], dev.Data[1], dev.Data[2], dev.Data[3]},
	}, lcd.WithSleep(clock.Sleep))
	return d, dev
}

// sequence returns the samples in order and then repeats the last one.
func sequence(samples ...adc.Sample) *adc.Simulated {
	i := 0
	return &adc.Simulated{
		Polls: 3,
		Next: func() adc.Sample {
			s := samples[i]
			if i < len(samples)-1 {
				i++
			}
			return s
		},
	}
}

func TestRefresh(t *testing.T) {
	d, dev := simulatedDisplay()
	m := New(d, adc.NewReader(sequence(512, 7)), Config{})

	require.NoError(t, m.Start(context.Background()))
	require.NoError(t, m.Refresh(context.Background()))
	assert.Equal(t, [2]string{"Gas Sensor      ", "512             "}, dev.Lines())

	// a shorter number must not leave digits from the previous one behind
	require.NoError(t, m.Refresh(context.Background()))
	assert.Equal(t, [2]string{"Gas Sensor      ", "7               "}, dev.Lines())

	assert.Empty(t, dev.Violations())
}

func TestRefreshOrder(t *testing.T) {
	d, dev := simulatedDisplay()
	m := New(d, adc.NewReader(sequence(42)), Config{Label: "CO"})
	require.NoError(t, m.Start(context.Background()))
	dev.Reset()

	require.NoError(t, m.Refresh(context.Background()))

	var got []byte
	for _, tr := range dev.Transactions() {
		got = append(got, tr.Value)
	}
	assert.Equal(t, []byte{0x01, 0x80, 0x80, 'C', 'O', 0xC0, '4', '2'}, got)
}

func TestSerialReportsChanges(t *testing.T) {
	d, _ := simulatedDisplay()
	port := &uart.Buffer{BusyPolls: 2}
	m := New(d, adc.NewReader(sequence(512, 513, 600)), Config{}, WithSerial(uart.NewTransmitter(port)))
	require.NoError(t, m.Start(context.Background()))

	for i := 0; i < 4; i++ {
		require.NoError(t, m.Refresh(context.Background()))
	}

	line, ok := port.TakeLine()
	require.True(t, ok)
	assert.Equal(t, "Gas Sensor= 128", line)
	line, ok = port.TakeLine()
	require.True(t, ok)
	assert.Equal(t, "Gas Sensor= 150", line)
	_, ok = port.TakeLine()
	assert.False(t, ok)
}

type indicatorStub struct {
	shown []adc.Sample
}

func (i *indicatorStub) Show(s adc.Sample) {
	i.shown = append(i.shown, s)
}

type recorderStub struct {
	err      error
	recorded []adc.Sample
}

func (r *recorderStub) Record(_ context.Context, s adc.Sample) error {
	r.recorded = append(r.recorded, s)
	return r.err
}

func TestListeners(t *testing.T) {
	d, _ := simulatedDisplay()
	ind := &indicatorStub{}
	rec := &recorderStub{err: errors.New("influx is down")}
	var observed []adc.Sample

	m := New(d, adc.NewReader(sequence(100, 800)), Config{},
		WithIndicator(ind),
		WithRecorder(rec),
		WithObserver(func(s adc.Sample) { observed = append(observed, s) }),
	)
	require.NoError(t, m.Start(context.Background()))

	// recorder failures do not stop the refresh
	require.NoError(t, m.Refresh(context.Background()))
	require.NoError(t, m.Refresh(context.Background()))

	assert.Equal(t, []adc.Sample{100, 800}, ind.shown)
	assert.Equal(t, []adc.Sample{100, 800}, rec.recorded)
	assert.Equal(t, []adc.Sample{100, 800}, observed)
}

func TestRefreshWithHangingRecorder(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	rec := telemetry.NewRecorder(telemetry.Config{URL: srv.URL, Org: "home", Bucket: "air", Sensor: "kitchen", Vref: 3.3})
	defer rec.Close()

	d, dev := simulatedDisplay()
	interval := 100 * time.Millisecond
	m := New(d, adc.NewReader(sequence(512)), Config{Interval: interval}, WithRecorder(rec))
	require.NoError(t, m.Start(context.Background()))

	start := time.Now()
	require.NoError(t, m.Refresh(context.Background()))
	elapsed := time.Since(start)

	assert.True(t, elapsed < 10*interval, "refresh took %v", elapsed)
	assert.Equal(t, "512             ", dev.Lines()[1])
}

func TestRunUntilCancelled(t *testing.T) {
	d, dev := simulatedDisplay()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	refreshes := 0
	m := New(d, adc.NewReader(sequence(300)), Config{Interval: time.Millisecond},
		WithObserver(func(adc.Sample) {
			mu.Lock()
			defer mu.Unlock()
			refreshes++
			if refreshes == 3 {
				cancel()
			}
		}),
	)

	assert.NoError(t, m.Run(ctx))
	assert.Equal(t, 3, refreshes)
	assert.Equal(t, "300             ", dev.Lines()[1])
}

type failingSampler struct{}

var errSample = errors.New("spi transfer failed")

func (failingSampler) Read() (adc.Sample, error) {
	return 0, errSample
}

func TestRunStopsOnSampleError(t *testing.T) {
	d, _ := simulatedDisplay()
	m := New(d, failingSampler{}, Config{StartupDelay: time.Millisecond})

	assert.ErrorIs(t, m.Run(context.Background()), errSample)
}

type deadDisplay struct{}

var errDisplay = errors.New("no display")

func (deadDisplay) Init() error { return errDisplay }

func (deadDisplay) Clear() error { return errDisplay }

func (deadDisplay) SetCursor(_, _ int) error { return errDisplay }

func (deadDisplay) Print(_ string) error { return errDisplay }

func TestRunStopsOnDisplayError(t *testing.T) {
	m := New(deadDisplay{}, failingSampler{}, Config{})

	assert.ErrorIs(t, m.Run(context.Background()), errDisplay)
}

func TestRunCancelledDuringStartup(t *testing.T) {
	d, _ := simulatedDisplay()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := New(d, failingSampler{}, Config{StartupDelay: time.Hour})
	assert.NoError(t, m.Run(ctx))
}
