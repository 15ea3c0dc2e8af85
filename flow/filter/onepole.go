package filter

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-flow/flow/block"
	"github.com/cwbudde/algo-flow/flow/core"
	"github.com/cwbudde/algo-flow/flow/unit"
)

// OnePole is a single-channel first-order filter leaf (1 input, 1
// output). Control: "freq".
type OnePole struct {
	highpass bool

	freq float64

	sampleRate float64
	a          float64
	state      float64
}

// NewOnePoleLowpass returns a first-order lowpass filter.
func NewOnePoleLowpass(freq float64) (*OnePole, error) {
	return newOnePole(freq, false)
}

// NewOnePoleHighpass returns a first-order highpass filter.
func NewOnePoleHighpass(freq float64) (*OnePole, error) {
	return newOnePole(freq, true)
}

func newOnePole(freq float64, highpass bool) (*OnePole, error) {
	if !core.IsFinite(freq) || freq <= 0 {
		return nil, fmt.Errorf("filter: one-pole frequency must be finite and > 0: %v", freq)
	}

	p := &OnePole{
		highpass:   highpass,
		freq:       freq,
		sampleRate: core.DefaultConfig().SampleRate,
	}
	p.redesign()
	return p, nil
}

func (p *OnePole) redesign() {
	p.a = 1 - math.Exp(-2*math.Pi*p.freq/p.sampleRate)
}

// Inputs returns 1.
func (p *OnePole) Inputs() int { return 1 }

// Outputs returns 1.
func (p *OnePole) Outputs() int { return 1 }

// Process filters the input channel into the output channel.
func (p *OnePole) Process(in, out *block.Block) {
	src := in.Channel(0)
	dst := out.Channel(0)
	state := p.state
	for i, x := range src {
		state += p.a * (x - state)
		if p.highpass {
			dst[i] = x - state
		} else {
			dst[i] = state
		}
	}
	p.state = core.FlushDenormals(state)
}

// SetControl updates "freq". Non-positive or non-finite values are
// ignored; the state is kept for a continuous sweep.
func (p *OnePole) SetControl(addr string, value float64) error {
	if addr != "freq" {
		return fmt.Errorf("%w: %q", unit.ErrUnknownControl, addr)
	}
	if !core.IsFinite(value) || value <= 0 {
		return nil
	}
	p.freq = value
	p.redesign()
	return nil
}

// GetControl reads back "freq".
func (p *OnePole) GetControl(addr string) (float64, bool) {
	if addr == "freq" {
		return p.freq, true
	}
	return 0, false
}

// Reset clears the state and redesigns for the new rate.
func (p *OnePole) Reset(sampleRate float64) {
	if sampleRate > 0 {
		p.sampleRate = sampleRate
	}
	p.state = 0
	p.redesign()
}

// Latency returns 0.
func (p *OnePole) Latency() int { return 0 }

// Clone returns an independent copy including the filter state.
func (p *OnePole) Clone() unit.Unit {
	clone := *p
	return &clone
}
