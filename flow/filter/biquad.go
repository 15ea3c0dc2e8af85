package filter

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-flow/flow/block"
	"github.com/cwbudde/algo-flow/flow/core"
	"github.com/cwbudde/algo-flow/flow/unit"
)

// Coefficients holds the transfer function coefficients for a single
// second-order section. a0 is normalized to 1 and not stored.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// LowpassCoefficients designs an RBJ cookbook lowpass section.
func LowpassCoefficients(freq, q, sampleRate float64) Coefficients {
	w0 := 2 * math.Pi * freq / sampleRate
	cosw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	a0 := 1 + alpha
	return Coefficients{
		B0: (1 - cosw) / 2 / a0,
		B1: (1 - cosw) / a0,
		B2: (1 - cosw) / 2 / a0,
		A1: -2 * cosw / a0,
		A2: (1 - alpha) / a0,
	}
}

// HighpassCoefficients designs an RBJ cookbook highpass section.
func HighpassCoefficients(freq, q, sampleRate float64) Coefficients {
	w0 := 2 * math.Pi * freq / sampleRate
	cosw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	a0 := 1 + alpha
	return Coefficients{
		B0: (1 + cosw) / 2 / a0,
		B1: -(1 + cosw) / a0,
		B2: (1 + cosw) / 2 / a0,
		A1: -2 * cosw / a0,
		A2: (1 - alpha) / a0,
	}
}

// BandpassCoefficients designs an RBJ cookbook constant-skirt bandpass
// section.
func BandpassCoefficients(freq, q, sampleRate float64) Coefficients {
	w0 := 2 * math.Pi * freq / sampleRate
	cosw := math.Cos(w0)
	sinw := math.Sin(w0)
	alpha := sinw / (2 * q)

	a0 := 1 + alpha
	return Coefficients{
		B0: sinw / 2 / a0,
		B1: 0,
		B2: -sinw / 2 / a0,
		A1: -2 * cosw / a0,
		A2: (1 - alpha) / a0,
	}
}

// biquadDesign maps a response shape to its coefficient designer.
type biquadDesign func(freq, q, sampleRate float64) Coefficients

// Biquad is a single-channel second-order filter leaf (1 input, 1
// output). Controls: "freq", "q". Coefficients are redesigned whenever
// a control changes or the unit is reset for a new rate.
type Biquad struct {
	design biquadDesign

	freq float64
	q    float64

	sampleRate float64
	coeff      Coefficients
	d0, d1     float64
}

func newBiquad(freq, q float64, design biquadDesign) (*Biquad, error) {
	if !core.IsFinite(freq) || freq <= 0 {
		return nil, fmt.Errorf("filter: biquad frequency must be finite and > 0: %v", freq)
	}
	if !core.IsFinite(q) || q <= 0 {
		return nil, fmt.Errorf("filter: biquad Q must be finite and > 0: %v", q)
	}

	b := &Biquad{
		design:     design,
		freq:       freq,
		q:          q,
		sampleRate: core.DefaultConfig().SampleRate,
	}
	b.redesign()
	return b, nil
}

// NewLowpass returns a second-order lowpass filter.
func NewLowpass(freq, q float64) (*Biquad, error) {
	return newBiquad(freq, q, LowpassCoefficients)
}

// NewHighpass returns a second-order highpass filter.
func NewHighpass(freq, q float64) (*Biquad, error) {
	return newBiquad(freq, q, HighpassCoefficients)
}

// NewBandpass returns a second-order bandpass filter.
func NewBandpass(freq, q float64) (*Biquad, error) {
	return newBiquad(freq, q, BandpassCoefficients)
}

// redesign recomputes coefficients, keeping the cutoff below Nyquist.
func (b *Biquad) redesign() {
	freq := b.freq
	nyquist := b.sampleRate * 0.5
	if freq > nyquist*0.99 {
		freq = nyquist * 0.99
	}
	b.coeff = b.design(freq, b.q, b.sampleRate)
}

// Inputs returns 1.
func (b *Biquad) Inputs() int { return 1 }

// Outputs returns 1.
func (b *Biquad) Outputs() int { return 1 }

// Process filters the input channel into the output channel.
func (b *Biquad) Process(in, out *block.Block) {
	src := in.Channel(0)
	dst := out.Channel(0)
	c := b.coeff
	d0, d1 := b.d0, b.d1
	for i, x := range src {
		y := c.B0*x + d0
		d0 = c.B1*x - c.A1*y + d1
		d1 = c.B2*x - c.A2*y
		dst[i] = y
	}
	b.d0 = core.FlushDenormals(d0)
	b.d1 = core.FlushDenormals(d1)
}

// SetControl updates "freq" or "q" and redesigns the section. The
// delay-line state is kept so a parameter sweep stays continuous.
// Non-positive or non-finite values are ignored.
func (b *Biquad) SetControl(addr string, value float64) error {
	switch addr {
	case "freq", "q":
	default:
		return fmt.Errorf("%w: %q", unit.ErrUnknownControl, addr)
	}
	if !core.IsFinite(value) || value <= 0 {
		return nil
	}
	if addr == "freq" {
		b.freq = value
	} else {
		b.q = value
	}
	b.redesign()
	return nil
}

// GetControl reads back "freq" or "q".
func (b *Biquad) GetControl(addr string) (float64, bool) {
	switch addr {
	case "freq":
		return b.freq, true
	case "q":
		return b.q, true
	}
	return 0, false
}

// Reset clears the delay-line state and redesigns for the new rate.
func (b *Biquad) Reset(sampleRate float64) {
	if sampleRate > 0 {
		b.sampleRate = sampleRate
	}
	b.d0, b.d1 = 0, 0
	b.redesign()
}

// Latency returns 0.
func (b *Biquad) Latency() int { return 0 }

// Clone returns an independent copy including the delay-line state.
func (b *Biquad) Clone() unit.Unit {
	clone := *b
	return &clone
}
