package graph

import (
	"fmt"

	"github.com/cwbudde/algo-flow/flow/block"
	"github.com/cwbudde/algo-flow/flow/core"
	"github.com/cwbudde/algo-flow/flow/unit"
)

// Stack runs A and B on disjoint channel ranges: A owns the first
// A.in/A.out channels, B the rest. Inputs and outputs concatenate, so
// there is nothing to check beyond concreteness.
type Stack struct {
	a, b unit.Unit

	ins, outs int

	inA, inB   *block.Block
	outA, outB *block.Block
}

// NewStack composes A beside B.
func NewStack(a, b unit.Unit, opts ...core.Option) (*Stack, error) {
	if err := requireConcrete(a); err != nil {
		return nil, fmt.Errorf("stack: %w", err)
	}
	if err := requireConcrete(b); err != nil {
		return nil, fmt.Errorf("stack: %w", err)
	}

	return &Stack{
		a:    a,
		b:    b,
		ins:  a.Inputs() + b.Inputs(),
		outs: a.Outputs() + b.Outputs(),
		inA:  block.NewView(a.Inputs()),
		inB:  block.NewView(b.Inputs()),
		outA: block.NewView(a.Outputs()),
		outB: block.NewView(b.Outputs()),
	}, nil
}

// NewDeck left-folds NewStack over two or more units.
func NewDeck(opts []core.Option, units ...unit.Unit) (unit.Unit, error) {
	if len(units) == 0 {
		return nil, fmt.Errorf("deck: %w: no units", ErrInvalidConfig)
	}
	acc := units[0]
	for _, u := range units[1:] {
		s, err := NewStack(acc, u, opts...)
		if err != nil {
			return nil, err
		}
		acc = s
	}
	return acc, nil
}

// Inputs returns the concatenated input count.
func (s *Stack) Inputs() int { return s.ins }

// Outputs returns the concatenated output count.
func (s *Stack) Outputs() int { return s.outs }

// Process splits the channel ranges and runs both operands. No frame
// chunking is needed: the stack holds no frame-sized scratch.
func (s *Stack) Process(in, out *block.Block) {
	aIns := s.a.Inputs()
	aOuts := s.a.Outputs()

	in.Span(s.inA, 0, aIns)
	in.Span(s.inB, aIns, s.ins)
	out.Span(s.outA, 0, aOuts)
	out.Span(s.outB, aOuts, s.outs)

	s.a.Process(s.inA, s.outA)
	s.b.Process(s.inB, s.outB)
}

// SetControl routes "0/..." to A and "1/..." to B.
func (s *Stack) SetControl(addr string, value float64) error {
	return routePair(s.a, s.b, addr, value)
}

// GetControl reads back "0/..." from A and "1/..." from B.
func (s *Stack) GetControl(addr string) (float64, bool) {
	return readPair(s.a, s.b, addr)
}

// Reset resets both operands.
func (s *Stack) Reset(sampleRate float64) {
	s.a.Reset(sampleRate)
	s.b.Reset(sampleRate)
}

// Latency is the longer of the two parallel paths.
func (s *Stack) Latency() int {
	return maxInt(s.a.Latency(), s.b.Latency())
}

// Clone returns an independent copy with cloned operands.
func (s *Stack) Clone() unit.Unit {
	clone, err := NewStack(s.a.Clone(), s.b.Clone())
	if err != nil {
		panic("graph: stack clone: " + err.Error())
	}
	return clone
}
