package graph

import (
	"fmt"

	"github.com/cwbudde/algo-flow/flow/block"
	"github.com/cwbudde/algo-flow/flow/core"
	"github.com/cwbudde/algo-flow/flow/unit"
)

// Bus routes the channel range [offset, offset+U.in) of a wider signal
// through U and passes every other channel unchanged. U must preserve
// its channel count so the bus's total width is stable.
type Bus struct {
	u unit.Unit

	offset int
	width  int
	total  int

	inSpan  *block.Block
	outSpan *block.Block
}

// NewBus wraps U over a channel range of a total-channel signal. The
// selected range must fit within the total channel count.
func NewBus(u unit.Unit, offset, total int, opts ...core.Option) (*Bus, error) {
	if err := requireConcrete(u); err != nil {
		return nil, fmt.Errorf("bus: %w", err)
	}
	if u.Inputs() != u.Outputs() {
		return nil, fmt.Errorf("bus: %w: sub-unit must preserve channel count, has %d in / %d out",
			ErrArityMismatch, u.Inputs(), u.Outputs())
	}

	width := u.Inputs()
	if total <= 0 {
		return nil, fmt.Errorf("bus: %w: total channel count must be > 0: %d", ErrInvalidConfig, total)
	}
	if offset < 0 || offset+width > total {
		return nil, fmt.Errorf("bus: %w: range [%d, %d) outside %d channels",
			ErrInvalidConfig, offset, offset+width, total)
	}

	return &Bus{
		u:       u,
		offset:  offset,
		width:   width,
		total:   total,
		inSpan:  block.NewView(width),
		outSpan: block.NewView(width),
	}, nil
}

// Inputs returns the total channel count.
func (b *Bus) Inputs() int { return b.total }

// Outputs returns the total channel count.
func (b *Bus) Outputs() int { return b.total }

// Process copies the passthrough channels and runs U over the selected
// range.
func (b *Bus) Process(in, out *block.Block) {
	for c := 0; c < b.offset; c++ {
		copy(out.Channel(c), in.Channel(c))
	}
	for c := b.offset + b.width; c < b.total; c++ {
		copy(out.Channel(c), in.Channel(c))
	}

	in.Span(b.inSpan, b.offset, b.offset+b.width)
	out.Span(b.outSpan, b.offset, b.offset+b.width)
	b.u.Process(b.inSpan, b.outSpan)
}

// SetControl routes "0/..." to the sub-unit.
func (b *Bus) SetControl(addr string, value float64) error {
	return routeSingle(b.u, addr, value)
}

// GetControl reads back "0/..." from the sub-unit.
func (b *Bus) GetControl(addr string) (float64, bool) {
	return readSingle(b.u, addr)
}

// Reset resets the sub-unit.
func (b *Bus) Reset(sampleRate float64) {
	b.u.Reset(sampleRate)
}

// Latency returns the sub-unit's latency. Passthrough channels are not
// delay-compensated; align them externally if the sub-unit is latent.
func (b *Bus) Latency() int {
	return b.u.Latency()
}

// Clone returns an independent copy with a cloned sub-unit.
func (b *Bus) Clone() unit.Unit {
	clone, err := NewBus(b.u.Clone(), b.offset, b.total)
	if err != nil {
		panic("graph: bus clone: " + err.Error())
	}
	return clone
}
