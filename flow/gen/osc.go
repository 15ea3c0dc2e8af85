package gen

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-flow/flow/block"
	"github.com/cwbudde/algo-flow/flow/core"
	"github.com/cwbudde/algo-flow/flow/unit"
)

// Osc is a single-channel oscillator leaf (0 inputs, 1 output). The
// waveform is fixed at construction; frequency and amplitude are
// control parameters ("freq", "amp").
type Osc struct {
	wave func(phase float64) float64

	freq   float64
	amp    float64
	phase0 float64

	sampleRate float64
	phase      float64
}

// Option configures an oscillator.
type Option func(*Osc)

// WithAmplitude sets the output amplitude. Default is 1.
func WithAmplitude(amp float64) Option {
	return func(o *Osc) {
		if core.IsFinite(amp) {
			o.amp = amp
		}
	}
}

// WithPhase sets the initial phase in cycles [0, 1).
func WithPhase(phase float64) Option {
	return func(o *Osc) {
		if core.IsFinite(phase) {
			o.phase0 = phase - math.Floor(phase)
		}
	}
}

func newOsc(freq float64, wave func(float64) float64, opts ...Option) (*Osc, error) {
	if !core.IsFinite(freq) || freq < 0 {
		return nil, fmt.Errorf("gen: oscillator frequency must be finite and >= 0: %v", freq)
	}

	o := &Osc{
		wave:       wave,
		freq:       freq,
		amp:        1,
		sampleRate: core.DefaultConfig().SampleRate,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	o.phase = o.phase0
	return o, nil
}

// NewSine returns a sine oscillator.
func NewSine(freq float64, opts ...Option) (*Osc, error) {
	return newOsc(freq, func(p float64) float64 {
		return math.Sin(2 * math.Pi * p)
	}, opts...)
}

// NewSaw returns a rising sawtooth oscillator in [-1, 1].
func NewSaw(freq float64, opts ...Option) (*Osc, error) {
	return newOsc(freq, func(p float64) float64 {
		return 2*p - 1
	}, opts...)
}

// NewSquare returns a square oscillator.
func NewSquare(freq float64, opts ...Option) (*Osc, error) {
	return newOsc(freq, func(p float64) float64 {
		if p < 0.5 {
			return 1
		}
		return -1
	}, opts...)
}

// NewTriangle returns a triangle oscillator.
func NewTriangle(freq float64, opts ...Option) (*Osc, error) {
	return newOsc(freq, func(p float64) float64 {
		return 1 - 4*math.Abs(p-0.5)
	}, opts...)
}

// Inputs returns 0.
func (o *Osc) Inputs() int { return 0 }

// Outputs returns 1.
func (o *Osc) Outputs() int { return 1 }

// Process fills the output channel and advances the phase.
func (o *Osc) Process(in, out *block.Block) {
	buf := out.Channel(0)
	step := o.freq / o.sampleRate
	for i := range buf {
		buf[i] = o.amp * o.wave(o.phase)
		o.phase += step
		if o.phase >= 1 {
			o.phase -= math.Floor(o.phase)
		}
	}
}

// SetControl updates "freq" or "amp". Negative frequencies are clamped
// to zero; non-finite values are ignored.
func (o *Osc) SetControl(addr string, value float64) error {
	if !core.IsFinite(value) {
		return nil
	}
	switch addr {
	case "freq":
		if value < 0 {
			value = 0
		}
		o.freq = value
	case "amp":
		o.amp = value
	default:
		return fmt.Errorf("%w: %q", unit.ErrUnknownControl, addr)
	}
	return nil
}

// GetControl reads back "freq" or "amp".
func (o *Osc) GetControl(addr string) (float64, bool) {
	switch addr {
	case "freq":
		return o.freq, true
	case "amp":
		return o.amp, true
	}
	return 0, false
}

// Reset rewinds the phase to its initial value for the new rate.
func (o *Osc) Reset(sampleRate float64) {
	if sampleRate > 0 {
		o.sampleRate = sampleRate
	}
	o.phase = o.phase0
}

// Latency returns 0.
func (o *Osc) Latency() int { return 0 }

// Clone returns an independent copy including the current phase.
func (o *Osc) Clone() unit.Unit {
	clone := *o
	return &clone
}
