package gen

import (
	"fmt"

	"github.com/cwbudde/algo-flow/flow/block"
	"github.com/cwbudde/algo-flow/flow/core"
	"github.com/cwbudde/algo-flow/flow/unit"
)

// Const emits a constant value (0 inputs, 1 output). Control: "value".
type Const struct {
	value float64
}

// NewConst returns a constant source.
func NewConst(value float64) (*Const, error) {
	if !core.IsFinite(value) {
		return nil, fmt.Errorf("gen: const value must be finite: %v", value)
	}
	return &Const{value: value}, nil
}

// Inputs returns 0.
func (c *Const) Inputs() int { return 0 }

// Outputs returns 1.
func (c *Const) Outputs() int { return 1 }

// Process fills the output channel with the current value.
func (c *Const) Process(in, out *block.Block) {
	buf := out.Channel(0)
	for i := range buf {
		buf[i] = c.value
	}
}

// SetControl updates "value"; non-finite values are ignored.
func (c *Const) SetControl(addr string, value float64) error {
	if !core.IsFinite(value) {
		return nil
	}
	if addr != "value" {
		return fmt.Errorf("%w: %q", unit.ErrUnknownControl, addr)
	}
	c.value = value
	return nil
}

// GetControl reads back "value".
func (c *Const) GetControl(addr string) (float64, bool) {
	if addr == "value" {
		return c.value, true
	}
	return 0, false
}

// Reset keeps the value.
func (c *Const) Reset(sampleRate float64) {}

// Latency returns 0.
func (c *Const) Latency() int { return 0 }

// Clone returns an independent copy.
func (c *Const) Clone() unit.Unit {
	clone := *c
	return &clone
}

// Impulse emits a single unit impulse on the first frame after a
// reset, then silence (0 inputs, 1 output). Control: "amp".
type Impulse struct {
	amp   float64
	fired bool
}

// NewImpulse returns an impulse source.
func NewImpulse() *Impulse {
	return &Impulse{amp: 1}
}

// Inputs returns 0.
func (im *Impulse) Inputs() int { return 0 }

// Outputs returns 1.
func (im *Impulse) Outputs() int { return 1 }

// Process writes the impulse once, then zeros.
func (im *Impulse) Process(in, out *block.Block) {
	buf := out.Channel(0)
	for i := range buf {
		buf[i] = 0
	}
	if !im.fired && len(buf) > 0 {
		buf[0] = im.amp
		im.fired = true
	}
}

// SetControl updates "amp"; non-finite values are ignored.
func (im *Impulse) SetControl(addr string, value float64) error {
	if !core.IsFinite(value) {
		return nil
	}
	if addr != "amp" {
		return fmt.Errorf("%w: %q", unit.ErrUnknownControl, addr)
	}
	im.amp = value
	return nil
}

// GetControl reads back "amp".
func (im *Impulse) GetControl(addr string) (float64, bool) {
	if addr == "amp" {
		return im.amp, true
	}
	return 0, false
}

// Reset re-arms the impulse.
func (im *Impulse) Reset(sampleRate float64) {
	im.fired = false
}

// Latency returns 0.
func (im *Impulse) Latency() int { return 0 }

// Clone returns an independent copy.
func (im *Impulse) Clone() unit.Unit {
	clone := *im
	return &clone
}
