package adc

import (
	"errors"
	"fmt"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

const mcp3008Clock = physic.MegaHertz

var ErrChannel = errors.New("MCP3008 channel out of range")

// MCP3008 is an 8 channel, 10-bit SPI converter read in single ended mode. The
// whole conversion happens inside one SPI transaction, so it is never busy.
type MCP3008 struct {
	conn    spi.Conn
	channel int
	result  uint16
}

func NewMCP3008(conn spi.Conn, channel int) (*MCP3008, error) {
	if channel < 0 || channel > 7 {
		return nil, fmt.Errorf("%w: %d", ErrChannel, channel)
	}
	return &MCP3008{conn: conn, channel: channel}, nil
}

// OpenMCP3008 connects to the converter on an SPI port known to spireg. An
// empty port name picks the first one.
func OpenMCP3008(port string, channel int) (*MCP3008, spi.PortCloser, error) {
	p, err := spireg.Open(port)
	if err != nil {
		return nil, nil, err
	}
	c, err := p.Connect(mcp3008Clock, spi.Mode0, 8)
	if err != nil {
		p.Close()
		return nil, nil, err
	}
	m, err := NewMCP3008(c, channel)
	if err != nil {
		p.Close()
		return nil, nil, err
	}
	log.Infof("Reading MCP3008 channel %d on %v", channel, p)
	return m, p, nil
}

func (m *MCP3008) Start() error {
	w := []byte{0x01, byte(0x80 | m.channel<<4), 0x00}
	r := make([]byte, len(w))
	if err := m.conn.Tx(w, r); err != nil {
		return err
	}
	m.result = uint16(r[1]&0x03)<<8 | uint16(r[2])
	return nil
}

func (m *MCP3008) Busy() bool {
	return false
}

func (m *MCP3008) Result() uint16 {
	return m.result
}
