package uart

import (
	"fmt"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
	"os"
)

var baudRates = map[int]uint32{
	1200:   unix.B1200,
	2400:   unix.B2400,
	4800:   unix.B4800,
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
}

// TTY is a serial device configured for raw 8N2 output.
type TTY struct {
	f *os.File
}

// OpenTTY opens a serial device such as /dev/serial0 for writing.
func OpenTTY(device string, baud int) (*TTY, error) {
	speed, ok := baudRates[baud]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrBaud, baud)
	}

	f, err := os.OpenFile(device, os.O_WRONLY|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, err
	}

	fd := int(f.Fd())
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("unable to read settings of %s: %w", device, err)
	}

	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB | unix.CBAUD
	t.Cflag |= unix.CS8 | unix.CSTOPB | unix.CREAD | unix.CLOCAL | speed
	t.Ispeed = speed
	t.Ospeed = speed

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, t); err != nil {
		f.Close()
		return nil, fmt.Errorf("unable to configure %s: %w", device, err)
	}

	log.Infof("Serial output on %s at %d baud, 8N2", device, baud)
	return &TTY{f: f}, nil
}

func (t *TTY) Write(p []byte) (int, error) {
	return t.f.Write(p)
}

// Ready is always true: the kernel buffers output and Write blocks when full.
func (t *TTY) Ready() bool {
	return true
}

func (t *TTY) Close() error {
	return t.f.Close()
}
