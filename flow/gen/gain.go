package gen

import (
	"fmt"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-flow/flow/block"
	"github.com/cwbudde/algo-flow/flow/core"
	"github.com/cwbudde/algo-flow/flow/unit"
)

// Gain scales every channel by a factor (any inputs, same outputs).
// The channel count is pinned by the enclosing combinator or fixed up
// front with NewGainN. Control: "gain".
type Gain struct {
	channels int
	gain     float64
}

// NewGain returns a gain stage with a variable channel count.
func NewGain(gain float64) (*Gain, error) {
	if !core.IsFinite(gain) {
		return nil, fmt.Errorf("gen: gain must be finite: %v", gain)
	}
	return &Gain{channels: unit.AnyArity, gain: gain}, nil
}

// NewGainN returns a gain stage with a fixed channel count.
func NewGainN(gain float64, channels int) (*Gain, error) {
	if !core.IsFinite(gain) {
		return nil, fmt.Errorf("gen: gain must be finite: %v", gain)
	}
	if channels < 1 {
		return nil, fmt.Errorf("gen: gain channel count must be >= 1: %d", channels)
	}
	return &Gain{channels: channels, gain: gain}, nil
}

// Pin fixes the channel count; both sides must agree.
func (g *Gain) Pin(inputs, outputs int) error {
	want := inputs
	if want == unit.AnyArity {
		want = outputs
	}
	if want == unit.AnyArity {
		return nil
	}
	if outputs != unit.AnyArity && inputs != unit.AnyArity && inputs != outputs {
		return fmt.Errorf("gen: gain needs matching channel counts, got %d in / %d out", inputs, outputs)
	}
	if want < 1 {
		return fmt.Errorf("gen: gain channel count must be >= 1: %d", want)
	}
	if g.channels != unit.AnyArity && g.channels != want {
		return fmt.Errorf("gen: gain already pinned to %d channels", g.channels)
	}
	g.channels = want
	return nil
}

// Inputs returns the pinned channel count or unit.AnyArity.
func (g *Gain) Inputs() int { return g.channels }

// Outputs returns the pinned channel count or unit.AnyArity.
func (g *Gain) Outputs() int { return g.channels }

// Process scales every channel into out.
func (g *Gain) Process(in, out *block.Block) {
	for c := 0; c < g.channels; c++ {
		vecmath.ScaleBlock(out.Channel(c), in.Channel(c), g.gain)
	}
}

// SetControl updates "gain"; non-finite values are ignored.
func (g *Gain) SetControl(addr string, value float64) error {
	if !core.IsFinite(value) {
		return nil
	}
	if addr != "gain" {
		return fmt.Errorf("%w: %q", unit.ErrUnknownControl, addr)
	}
	g.gain = value
	return nil
}

// GetControl reads back "gain".
func (g *Gain) GetControl(addr string) (float64, bool) {
	if addr == "gain" {
		return g.gain, true
	}
	return 0, false
}

// Reset keeps the gain.
func (g *Gain) Reset(sampleRate float64) {}

// Latency returns 0.
func (g *Gain) Latency() int { return 0 }

// Clone returns an independent copy.
func (g *Gain) Clone() unit.Unit {
	clone := *g
	return &clone
}

// Pass copies its input unchanged (n inputs, n outputs).
type Pass struct {
	channels int
}

// NewPass returns an identity unit over the given channel count.
func NewPass(channels int) (*Pass, error) {
	if channels < 1 {
		return nil, fmt.Errorf("gen: pass channel count must be >= 1: %d", channels)
	}
	return &Pass{channels: channels}, nil
}

// Inputs returns the channel count.
func (p *Pass) Inputs() int { return p.channels }

// Outputs returns the channel count.
func (p *Pass) Outputs() int { return p.channels }

// Process copies every channel.
func (p *Pass) Process(in, out *block.Block) {
	out.CopyFrom(in)
}

// SetControl reports every address as unknown.
func (p *Pass) SetControl(addr string, value float64) error {
	return fmt.Errorf("%w: %q", unit.ErrUnknownControl, addr)
}

// Reset does nothing.
func (p *Pass) Reset(sampleRate float64) {}

// Latency returns 0.
func (p *Pass) Latency() int { return 0 }

// Clone returns an independent copy.
func (p *Pass) Clone() unit.Unit {
	clone := *p
	return &clone
}
