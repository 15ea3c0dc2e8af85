package graph

import (
	"fmt"

	"github.com/cwbudde/algo-flow/flow/block"
	"github.com/cwbudde/algo-flow/flow/core"
	"github.com/cwbudde/algo-flow/flow/unit"
)

// Branch feeds the same input to A and B and concatenates their
// outputs.
type Branch struct {
	a, b unit.Unit

	ins, outs int

	outA, outB *block.Block
}

// NewBranch composes A and B over a shared input. Both operands must
// consume the same number of channels; a variable input side is pinned
// from the other operand.
func NewBranch(a, b unit.Unit, opts ...core.Option) (*Branch, error) {
	ins, err := matchArity(a.Inputs(), b.Inputs())
	if err != nil {
		return nil, fmt.Errorf("branch: %w", err)
	}
	if err := pinIfVariable(a, ins, unit.AnyArity); err != nil {
		return nil, fmt.Errorf("branch: %w", err)
	}
	if err := pinIfVariable(b, ins, unit.AnyArity); err != nil {
		return nil, fmt.Errorf("branch: %w", err)
	}
	if err := requireConcrete(a); err != nil {
		return nil, fmt.Errorf("branch: %w", err)
	}
	if err := requireConcrete(b); err != nil {
		return nil, fmt.Errorf("branch: %w", err)
	}

	return &Branch{
		a:    a,
		b:    b,
		ins:  ins,
		outs: a.Outputs() + b.Outputs(),
		outA: block.NewView(a.Outputs()),
		outB: block.NewView(b.Outputs()),
	}, nil
}

// Inputs returns the shared input count.
func (br *Branch) Inputs() int { return br.ins }

// Outputs returns the concatenated output count.
func (br *Branch) Outputs() int { return br.outs }

// Process runs both operands over the same input block.
func (br *Branch) Process(in, out *block.Block) {
	aOuts := br.a.Outputs()
	out.Span(br.outA, 0, aOuts)
	out.Span(br.outB, aOuts, br.outs)

	br.a.Process(in, br.outA)
	br.b.Process(in, br.outB)
}

// SetControl routes "0/..." to A and "1/..." to B.
func (br *Branch) SetControl(addr string, value float64) error {
	return routePair(br.a, br.b, addr, value)
}

// GetControl reads back "0/..." from A and "1/..." from B.
func (br *Branch) GetControl(addr string) (float64, bool) {
	return readPair(br.a, br.b, addr)
}

// Reset resets both operands.
func (br *Branch) Reset(sampleRate float64) {
	br.a.Reset(sampleRate)
	br.b.Reset(sampleRate)
}

// Latency is the longer of the two parallel paths.
func (br *Branch) Latency() int {
	return maxInt(br.a.Latency(), br.b.Latency())
}

// Clone returns an independent copy with cloned operands.
func (br *Branch) Clone() unit.Unit {
	clone, err := NewBranch(br.a.Clone(), br.b.Clone())
	if err != nil {
		panic("graph: branch clone: " + err.Error())
	}
	return clone
}
