package graph

import (
	"fmt"

	"github.com/cwbudde/algo-flow/flow/block"
	"github.com/cwbudde/algo-flow/flow/core"
	"github.com/cwbudde/algo-flow/flow/unit"
)

// Pipe feeds A's outputs into B's inputs. Its arity is A's inputs and
// B's outputs; its latency is the sum of both operands.
type Pipe struct {
	a, b unit.Unit

	ins, outs int
	maxBlock  int

	mid     *block.Block // A's output, B's input
	midView *block.Block
	inView  *block.Block
	outView *block.Block
}

// NewPipe composes A then B. A's output count must match B's input
// count; a variable side is pinned from the other operand.
func NewPipe(a, b unit.Unit, opts ...core.Option) (*Pipe, error) {
	cfg := core.ApplyOptions(opts...)

	mid, err := matchArity(a.Outputs(), b.Inputs())
	if err != nil {
		return nil, fmt.Errorf("pipe: %w", err)
	}
	if err := pinIfVariable(a, unit.AnyArity, mid); err != nil {
		return nil, fmt.Errorf("pipe: %w", err)
	}
	if err := pinIfVariable(b, mid, unit.AnyArity); err != nil {
		return nil, fmt.Errorf("pipe: %w", err)
	}
	if err := requireConcrete(a); err != nil {
		return nil, fmt.Errorf("pipe: %w", err)
	}
	if err := requireConcrete(b); err != nil {
		return nil, fmt.Errorf("pipe: %w", err)
	}

	return &Pipe{
		a:        a,
		b:        b,
		ins:      a.Inputs(),
		outs:     b.Outputs(),
		maxBlock: cfg.MaxBlock,
		mid:      block.New(mid, cfg.MaxBlock),
		midView:  block.NewView(mid),
		inView:   block.NewView(a.Inputs()),
		outView:  block.NewView(b.Outputs()),
	}, nil
}

// NewChain left-folds NewPipe over two or more units.
func NewChain(opts []core.Option, units ...unit.Unit) (unit.Unit, error) {
	if len(units) == 0 {
		return nil, fmt.Errorf("chain: %w: no units", ErrInvalidConfig)
	}
	acc := units[0]
	for _, u := range units[1:] {
		p, err := NewPipe(acc, u, opts...)
		if err != nil {
			return nil, err
		}
		acc = p
	}
	return acc, nil
}

// Inputs returns A's input count.
func (p *Pipe) Inputs() int { return p.ins }

// Outputs returns B's output count.
func (p *Pipe) Outputs() int { return p.outs }

// Process runs A into the intermediate block, then B into out. Blocks
// longer than the configured maximum are processed in chunks.
func (p *Pipe) Process(in, out *block.Block) {
	total := out.Frames()
	if total <= p.maxBlock {
		p.mid.Sub(p.midView, 0, total)
		p.a.Process(in, p.midView)
		p.b.Process(p.midView, out)
		return
	}

	for off := 0; off < total; {
		n := total - off
		if n > p.maxBlock {
			n = p.maxBlock
		}
		in.Sub(p.inView, off, off+n)
		out.Sub(p.outView, off, off+n)
		p.mid.Sub(p.midView, 0, n)
		p.a.Process(p.inView, p.midView)
		p.b.Process(p.midView, p.outView)
		off += n
	}
}

// SetControl routes "0/..." to A and "1/..." to B.
func (p *Pipe) SetControl(addr string, value float64) error {
	return routePair(p.a, p.b, addr, value)
}

// GetControl reads back "0/..." from A and "1/..." from B.
func (p *Pipe) GetControl(addr string) (float64, bool) {
	return readPair(p.a, p.b, addr)
}

// Reset resets both operands and clears the intermediate block.
func (p *Pipe) Reset(sampleRate float64) {
	p.a.Reset(sampleRate)
	p.b.Reset(sampleRate)
	p.mid.Zero()
}

// Latency is the sum along the pipe.
func (p *Pipe) Latency() int {
	return p.a.Latency() + p.b.Latency()
}

// Clone returns an independent copy with cloned operands and fresh
// scratch.
func (p *Pipe) Clone() unit.Unit {
	clone, err := NewPipe(p.a.Clone(), p.b.Clone(), core.WithMaxBlock(p.maxBlock))
	if err != nil {
		// Arities were validated when p was built; clones keep them.
		panic("graph: pipe clone: " + err.Error())
	}
	return clone
}
