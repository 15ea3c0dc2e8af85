package gen

import (
	"fmt"

	"github.com/cwbudde/algo-flow/flow/block"
	"github.com/cwbudde/algo-flow/flow/core"
	"github.com/cwbudde/algo-flow/flow/unit"
)

// Noise is a deterministic white noise source (0 inputs, 1 output). It
// uses an xorshift64* generator so clones carry the exact generator
// state and Reset replays the same sequence.
type Noise struct {
	seed  uint64
	state uint64
	amp   float64
}

// NewNoise returns a noise source with the given seed. Control: "amp".
func NewNoise(seed int64) (*Noise, error) {
	if seed == 0 {
		return nil, fmt.Errorf("gen: noise seed must be nonzero")
	}
	return &Noise{
		seed:  uint64(seed),
		state: uint64(seed),
		amp:   1,
	}, nil
}

// Inputs returns 0.
func (n *Noise) Inputs() int { return 0 }

// Outputs returns 1.
func (n *Noise) Outputs() int { return 1 }

// Process fills the output channel with uniform noise in [-amp, amp].
func (n *Noise) Process(in, out *block.Block) {
	buf := out.Channel(0)
	for i := range buf {
		x := n.state
		x ^= x >> 12
		x ^= x << 25
		x ^= x >> 27
		n.state = x
		u := float64(x*0x2545F4914F6CDD1D>>11) / (1 << 53)
		buf[i] = (u*2 - 1) * n.amp
	}
}

// SetControl updates "amp"; non-finite values are ignored.
func (n *Noise) SetControl(addr string, value float64) error {
	if !core.IsFinite(value) {
		return nil
	}
	if addr != "amp" {
		return fmt.Errorf("%w: %q", unit.ErrUnknownControl, addr)
	}
	n.amp = value
	return nil
}

// GetControl reads back "amp".
func (n *Noise) GetControl(addr string) (float64, bool) {
	if addr == "amp" {
		return n.amp, true
	}
	return 0, false
}

// Reset rewinds the generator to the seed.
func (n *Noise) Reset(sampleRate float64) {
	n.state = n.seed
}

// Latency returns 0.
func (n *Noise) Latency() int { return 0 }

// Clone returns an independent copy including the generator state.
func (n *Noise) Clone() unit.Unit {
	clone := *n
	return &clone
}
