package uart

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestSendDecimal(t *testing.T) {
	tt := []struct {
		input  uint8
		output string
	}{
		{0, "0"},
		{7, "7"},
		{10, "10"},
		{99, "99"},
		{100, "100"},
		{105, "105"},
		{255, "255"},
	}

	for _, tc := range tt {
		t.Run(tc.output, func(t *testing.T) {
			b := &Buffer{}
			require.NoError(t, NewTransmitter(b).SendDecimal(tc.input))
			assert.Equal(t, tc.output, b.String())
		})
	}
}

func TestSendStringStopsAtTerminator(t *testing.T) {
	b := &Buffer{}
	tx := NewTransmitter(b)

	require.NoError(t, tx.SendString("Gas= \x00ignored"))
	require.NoError(t, tx.SendDecimal(42))
	require.NoError(t, tx.Newline())

	assert.Equal(t, "Gas= 42\n\r", b.String())
	line, ok := b.TakeLine()
	assert.True(t, ok)
	assert.Equal(t, "Gas= 42", line)
	_, ok = b.TakeLine()
	assert.False(t, ok)
}

func TestSendByteWaitsForReady(t *testing.T) {
	b := &Buffer{BusyPolls: 5}

	require.NoError(t, NewTransmitter(b).SendString("ok"))

	assert.Equal(t, "ok", b.String())
}

type failingPort struct{}

var errWrite = errors.New("write failed")

func (failingPort) Ready() bool { return true }

func (failingPort) Write([]byte) (int, error) { return 0, errWrite }

func TestWriteErrors(t *testing.T) {
	tx := NewTransmitter(failingPort{})

	assert.ErrorIs(t, tx.SendByte('a'), errWrite)
	assert.ErrorIs(t, tx.SendString("abc"), errWrite)
	assert.ErrorIs(t, tx.SendDecimal(12), errWrite)
	assert.ErrorIs(t, tx.Newline(), errWrite)
}
