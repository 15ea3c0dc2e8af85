package gen

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-flow/flow/block"
	"github.com/cwbudde/algo-flow/flow/core"
	"github.com/cwbudde/algo-flow/flow/unit"
)

// Pan is a mono-to-stereo equal-power panner (1 input, 2 outputs).
// Control: "pan" in [-1, 1], -1 hard left, +1 hard right. Out-of-range
// values are clamped.
type Pan struct {
	pan         float64
	left, right float64
}

// NewPan returns a panner at the given position.
func NewPan(pan float64) (*Pan, error) {
	if !core.IsFinite(pan) {
		return nil, fmt.Errorf("gen: pan must be finite: %v", pan)
	}

	p := &Pan{}
	p.set(pan)
	return p, nil
}

// set updates the constant-power weights: cos/sin over a quarter turn.
func (p *Pan) set(pan float64) {
	p.pan = core.Clamp11(pan)
	angle := (p.pan + 1) * math.Pi * 0.25
	p.left = math.Cos(angle)
	p.right = math.Sin(angle)
}

// Inputs returns 1.
func (p *Pan) Inputs() int { return 1 }

// Outputs returns 2.
func (p *Pan) Outputs() int { return 2 }

// Process weights the mono input into left and right.
func (p *Pan) Process(in, out *block.Block) {
	src := in.Channel(0)
	left := out.Channel(0)
	right := out.Channel(1)
	for i := range src {
		left[i] = p.left * src[i]
		right[i] = p.right * src[i]
	}
}

// SetControl updates "pan", clamped to [-1, 1]; non-finite values are
// ignored.
func (p *Pan) SetControl(addr string, value float64) error {
	if !core.IsFinite(value) {
		return nil
	}
	if addr != "pan" {
		return fmt.Errorf("%w: %q", unit.ErrUnknownControl, addr)
	}
	p.set(value)
	return nil
}

// GetControl reads back "pan".
func (p *Pan) GetControl(addr string) (float64, bool) {
	if addr == "pan" {
		return p.pan, true
	}
	return 0, false
}

// Reset keeps the pan position.
func (p *Pan) Reset(sampleRate float64) {}

// Latency returns 0.
func (p *Pan) Latency() int { return 0 }

// Clone returns an independent copy.
func (p *Pan) Clone() unit.Unit {
	clone := *p
	return &clone
}
