package graph

import (
	"fmt"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-flow/flow/block"
	"github.com/cwbudde/algo-flow/flow/core"
	"github.com/cwbudde/algo-flow/flow/unit"
)

// Feedback closes a loop around U through a delay edge of at least one
// sample. Each processed sample U sees is the sum of the external input
// and U's own output from delay samples earlier, which keeps the cycle
// causal: output at time t never depends on output at time >= t-delay.
//
// Blocks are processed in chunks no longer than the delay, so the ring
// is always read before the samples it holds are overwritten.
type Feedback struct {
	u unit.Unit

	channels int
	delay    int
	chunk    int
	maxBlock int

	ring [][]float64 // channels x delay
	pos  int

	sum     *block.Block // delayed output + external input
	sumView *block.Block
	inView  *block.Block
	outView *block.Block
}

// NewFeedback wraps U in a feedback loop with the given delay edge
// length in samples. U must have matching input and output counts; a
// variable side is pinned from the other.
func NewFeedback(u unit.Unit, delay int, opts ...core.Option) (*Feedback, error) {
	cfg := core.ApplyOptions(opts...)

	if delay < 1 {
		return nil, fmt.Errorf("feedback: %w: delay must be >= 1 sample: %d", ErrInvalidConfig, delay)
	}

	channels, err := matchArity(u.Inputs(), u.Outputs())
	if err != nil {
		return nil, fmt.Errorf("feedback: %w", err)
	}
	if err := pinIfVariable(u, channels, channels); err != nil {
		return nil, fmt.Errorf("feedback: %w", err)
	}
	if err := requireConcrete(u); err != nil {
		return nil, fmt.Errorf("feedback: %w", err)
	}
	if channels == 0 {
		return nil, fmt.Errorf("feedback: %w: loop needs at least one channel", ErrInvalidConfig)
	}

	chunk := delay
	if chunk > cfg.MaxBlock {
		chunk = cfg.MaxBlock
	}

	ring := make([][]float64, channels)
	for c := range ring {
		ring[c] = make([]float64, delay)
	}

	return &Feedback{
		u:        u,
		channels: channels,
		delay:    delay,
		chunk:    chunk,
		maxBlock: cfg.MaxBlock,
		ring:     ring,
		sum:      block.New(channels, chunk),
		sumView:  block.NewView(channels),
		inView:   block.NewView(channels),
		outView:  block.NewView(channels),
	}, nil
}

// Inputs returns the loop channel count.
func (f *Feedback) Inputs() int { return f.channels }

// Outputs returns the loop channel count.
func (f *Feedback) Outputs() int { return f.channels }

// Process advances the loop. Per chunk: read the delayed output from
// the ring, add the external input, run U, then overwrite the slots
// just read with U's fresh output.
func (f *Feedback) Process(in, out *block.Block) {
	total := out.Frames()
	for off := 0; off < total; {
		m := total - off
		if m > f.chunk {
			m = f.chunk
		}

		in.Sub(f.inView, off, off+m)
		out.Sub(f.outView, off, off+m)
		f.sum.Sub(f.sumView, 0, m)

		for c := 0; c < f.channels; c++ {
			s := f.sumView.Channel(c)
			rc := f.ring[c]
			p := f.pos
			for i := range s {
				s[i] = rc[p]
				p++
				if p == f.delay {
					p = 0
				}
			}
			vecmath.AddBlockInPlace(s, f.inView.Channel(c))
		}

		f.u.Process(f.sumView, f.outView)

		for c := 0; c < f.channels; c++ {
			o := f.outView.Channel(c)
			rc := f.ring[c]
			p := f.pos
			for i := range o {
				rc[p] = o[i]
				p++
				if p == f.delay {
					p = 0
				}
			}
		}

		f.pos += m
		if f.pos >= f.delay {
			f.pos -= f.delay
		}
		off += m
	}
}

// SetControl routes "0/..." to the looped unit.
func (f *Feedback) SetControl(addr string, value float64) error {
	return routeSingle(f.u, addr, value)
}

// GetControl reads back "0/..." from the looped unit.
func (f *Feedback) GetControl(addr string) (float64, bool) {
	return readSingle(f.u, addr)
}

// Reset resets the looped unit and clears the delay edge.
func (f *Feedback) Reset(sampleRate float64) {
	f.u.Reset(sampleRate)
	for c := range f.ring {
		for i := range f.ring[c] {
			f.ring[c][i] = 0
		}
	}
	f.pos = 0
	f.sum.Zero()
}

// Latency returns the looped unit's latency. The delay edge itself is
// part of the loop semantics, not a reporting latency.
func (f *Feedback) Latency() int {
	return f.u.Latency()
}

// Clone returns an independent copy with a cloned loop unit and a
// copied delay edge, so both loops evolve separately from here on.
func (f *Feedback) Clone() unit.Unit {
	clone, err := NewFeedback(f.u.Clone(), f.delay, core.WithMaxBlock(f.maxBlock))
	if err != nil {
		panic("graph: feedback clone: " + err.Error())
	}
	for c := range f.ring {
		copy(clone.ring[c], f.ring[c])
	}
	clone.pos = f.pos
	return clone
}
