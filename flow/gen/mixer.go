package gen

import (
	"fmt"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-flow/flow/block"
	"github.com/cwbudde/algo-flow/flow/core"
	"github.com/cwbudde/algo-flow/flow/unit"
)

// Mixer averages any number of input channels into one (any inputs,
// 1 output). The input count is pinned by the enclosing combinator or
// fixed up front with NewMixerN. Control: "gain".
type Mixer struct {
	ins  int
	gain float64
}

// NewMixer returns a mixer with a variable input count.
func NewMixer() *Mixer {
	return &Mixer{ins: unit.AnyArity, gain: 1}
}

// NewMixerN returns a mixer with a fixed input count.
func NewMixerN(inputs int) (*Mixer, error) {
	if inputs < 1 {
		return nil, fmt.Errorf("gen: mixer input count must be >= 1: %d", inputs)
	}
	return &Mixer{ins: inputs, gain: 1}, nil
}

// Pin fixes the input count; the output side must stay mono.
func (m *Mixer) Pin(inputs, outputs int) error {
	if outputs != unit.AnyArity && outputs != 1 {
		return fmt.Errorf("gen: mixer output is mono, cannot pin to %d", outputs)
	}
	if inputs == unit.AnyArity {
		return nil
	}
	if inputs < 1 {
		return fmt.Errorf("gen: mixer input count must be >= 1: %d", inputs)
	}
	if m.ins != unit.AnyArity && m.ins != inputs {
		return fmt.Errorf("gen: mixer already pinned to %d inputs", m.ins)
	}
	m.ins = inputs
	return nil
}

// Inputs returns the pinned input count or unit.AnyArity.
func (m *Mixer) Inputs() int { return m.ins }

// Outputs returns 1.
func (m *Mixer) Outputs() int { return 1 }

// Process averages all input channels into the output channel.
func (m *Mixer) Process(in, out *block.Block) {
	dst := out.Channel(0)
	copy(dst, in.Channel(0))
	for c := 1; c < m.ins; c++ {
		vecmath.AddBlockInPlace(dst, in.Channel(c))
	}
	scale := m.gain / float64(m.ins)
	if scale != 1 {
		vecmath.ScaleBlock(dst, dst, scale)
	}
}

// SetControl updates "gain"; non-finite values are ignored.
func (m *Mixer) SetControl(addr string, value float64) error {
	if !core.IsFinite(value) {
		return nil
	}
	if addr != "gain" {
		return fmt.Errorf("%w: %q", unit.ErrUnknownControl, addr)
	}
	m.gain = value
	return nil
}

// GetControl reads back "gain".
func (m *Mixer) GetControl(addr string) (float64, bool) {
	if addr == "gain" {
		return m.gain, true
	}
	return 0, false
}

// Reset keeps the gain.
func (m *Mixer) Reset(sampleRate float64) {}

// Latency returns 0.
func (m *Mixer) Latency() int { return 0 }

// Clone returns an independent copy.
func (m *Mixer) Clone() unit.Unit {
	clone := *m
	return &clone
}
