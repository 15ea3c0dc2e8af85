package graph

import (
	"fmt"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-flow/flow/block"
	"github.com/cwbudde/algo-flow/flow/core"
	"github.com/cwbudde/algo-flow/flow/unit"
)

// Sum feeds the same input to A and B and adds their outputs
// sample-wise. Both operands must agree on input and output counts.
type Sum struct {
	a, b unit.Unit

	ins, outs int
	maxBlock  int

	scratch     *block.Block // B's output before mixing
	scratchView *block.Block
	inView      *block.Block
	outView     *block.Block
}

// NewSum composes A plus B.
func NewSum(a, b unit.Unit, opts ...core.Option) (*Sum, error) {
	cfg := core.ApplyOptions(opts...)

	ins, err := matchArity(a.Inputs(), b.Inputs())
	if err != nil {
		return nil, fmt.Errorf("sum: inputs: %w", err)
	}
	outs, err := matchArity(a.Outputs(), b.Outputs())
	if err != nil {
		return nil, fmt.Errorf("sum: outputs: %w", err)
	}
	if err := pinIfVariable(a, ins, outs); err != nil {
		return nil, fmt.Errorf("sum: %w", err)
	}
	if err := pinIfVariable(b, ins, outs); err != nil {
		return nil, fmt.Errorf("sum: %w", err)
	}
	if err := requireConcrete(a); err != nil {
		return nil, fmt.Errorf("sum: %w", err)
	}
	if err := requireConcrete(b); err != nil {
		return nil, fmt.Errorf("sum: %w", err)
	}

	return &Sum{
		a:           a,
		b:           b,
		ins:         ins,
		outs:        outs,
		maxBlock:    cfg.MaxBlock,
		scratch:     block.New(outs, cfg.MaxBlock),
		scratchView: block.NewView(outs),
		inView:      block.NewView(maxInt(ins, 0)),
		outView:     block.NewView(outs),
	}, nil
}

// Inputs returns the shared input count.
func (s *Sum) Inputs() int { return s.ins }

// Outputs returns the shared output count.
func (s *Sum) Outputs() int { return s.outs }

// Process runs A directly into out, B into the scratch block, then
// accumulates the scratch into out.
func (s *Sum) Process(in, out *block.Block) {
	total := out.Frames()
	for off := 0; off < total; {
		n := total - off
		if n > s.maxBlock {
			n = s.maxBlock
		}
		in.Sub(s.inView, off, off+n)
		out.Sub(s.outView, off, off+n)
		s.scratch.Sub(s.scratchView, 0, n)

		s.a.Process(s.inView, s.outView)
		s.b.Process(s.inView, s.scratchView)
		for c := 0; c < s.outs; c++ {
			vecmath.AddBlockInPlace(s.outView.Channel(c), s.scratchView.Channel(c))
		}
		off += n
	}
}

// SetControl routes "0/..." to A and "1/..." to B.
func (s *Sum) SetControl(addr string, value float64) error {
	return routePair(s.a, s.b, addr, value)
}

// GetControl reads back "0/..." from A and "1/..." from B.
func (s *Sum) GetControl(addr string) (float64, bool) {
	return readPair(s.a, s.b, addr)
}

// Reset resets both operands and clears the scratch block.
func (s *Sum) Reset(sampleRate float64) {
	s.a.Reset(sampleRate)
	s.b.Reset(sampleRate)
	s.scratch.Zero()
}

// Latency is the longer of the two parallel paths.
func (s *Sum) Latency() int {
	return maxInt(s.a.Latency(), s.b.Latency())
}

// Clone returns an independent copy with cloned operands and fresh
// scratch.
func (s *Sum) Clone() unit.Unit {
	clone, err := NewSum(s.a.Clone(), s.b.Clone(), core.WithMaxBlock(s.maxBlock))
	if err != nil {
		panic("graph: sum clone: " + err.Error())
	}
	return clone
}
