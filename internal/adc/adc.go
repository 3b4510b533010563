// Package adc reads 10-bit samples from an analog to digital converter.
package adc

import (
	"runtime"
	"strconv"
)

// Sample is a 10-bit conversion result.
type Sample uint16

const MaxSample Sample = 1<<10 - 1

// Byte is the sample reduced to its 8 most significant bits.
func (s Sample) Byte() uint8 {
	return uint8(s >> 2)
}

// Volts scales the sample against the reference voltage.
func (s Sample) Volts(vref float64) float64 {
	return float64(s) * vref / float64(MaxSample)
}

// AppendDecimal appends the decimal text of the sample to buf.
func (s Sample) AppendDecimal(buf []byte) []byte {
	return strconv.AppendUint(buf, uint64(s), 10)
}

func (s Sample) String() string {
	return strconv.FormatUint(uint64(s), 10)
}

// Converter is the register level view of a converter: a start bit, a status
// bit that stays set while converting, and a result register.
type Converter interface {
	Start() error
	Busy() bool
	Result() uint16
}

type Reader struct {
	conv Converter
}

func NewReader(c Converter) *Reader {
	return &Reader{conv: c}
}

// Read starts a conversion and spins on the status bit until it is done. There
// is no timeout: a converter that never finishes blocks Read forever.
func (r *Reader) Read() (Sample, error) {
	if err := r.conv.Start(); err != nil {
		return 0, err
	}
	for r.conv.Busy() {
		runtime.Gosched()
	}
	return Sample(r.conv.Result()) & MaxSample, nil
}
