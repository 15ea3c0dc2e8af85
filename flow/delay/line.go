// Package delay provides a circular delay line with fractional readout
// and the delay unit built on it.
package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-flow/flow/interp"
)

// Line is a circular delay line.
type Line struct {
	buffer   []float64
	writePos int
}

// NewLine returns a delay line of fixed size.
func NewLine(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay: line size must be > 0: %d", size)
	}
	return &Line{buffer: make([]float64, size)}, nil
}

// Len returns the internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Write writes one sample.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	readPos := (d.writePos - delay + size) % size
	if readPos < 0 {
		readPos += size
	}
	return d.buffer[readPos]
}

// ReadFractional reads with cubic Hermite interpolation.
func (d *Line) ReadFractional(delay float64) float64 {
	size := len(d.buffer)
	if delay < 0 {
		delay = 0
	}
	maxDelay := float64(size - 3)
	if delay > maxDelay {
		delay = maxDelay
	}

	p := int(math.Floor(delay))
	t := delay - float64(p)

	pm1 := p - 1
	if pm1 < 0 {
		pm1 = 0
	}
	xm1 := d.Read(pm1)
	x0 := d.Read(p)
	x1 := d.Read(p + 1)
	x2 := d.Read(p + 2)
	return interp.Hermite4(t, xm1, x0, x1, x2)
}

// Reset clears the line state.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}

// Clone returns an independent copy including buffered samples.
func (d *Line) Clone() *Line {
	clone := &Line{
		buffer:   make([]float64, len(d.buffer)),
		writePos: d.writePos,
	}
	copy(clone.buffer, d.buffer)
	return clone
}
