package uart

import (
	"bytes"
	"sync"
)

// Buffer is an in-memory port. BusyPolls makes Ready report false that many
// times before each byte is accepted.
type Buffer struct {
	BusyPolls int

	mu      sync.Mutex
	polled  int
	written bytes.Buffer
}

func (b *Buffer) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.polled < b.BusyPolls {
		b.polled++
		return false
	}
	b.polled = 0
	return true
}

func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.written.Write(p)
}

// String returns everything written so far.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.written.String()
}

// TakeLine removes and returns the first line terminated by LF CR.
func (b *Buffer) TakeLine() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data := b.written.Bytes()
	i := bytes.Index(data, []byte("\n\r"))
	if i < 0 {
		return "", false
	}
	line := string(data[:i])
	b.written.Next(i + 2)
	return line, true
}
