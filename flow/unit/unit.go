package unit

import (
	"errors"

	"github.com/cwbudde/algo-flow/flow/block"
)

// AnyArity marks a variable channel count. A unit declaring AnyArity on
// one side is pinned to a concrete count by the combinator that wraps
// it, at construction time (see Variable).
const AnyArity = -1

// ErrUnknownControl is returned by SetControl for an unrecognized
// parameter address. Callers decide whether to surface or ignore it;
// it is never fatal.
var ErrUnknownControl = errors.New("unit: unknown control address")

// Unit is the contract every processing node satisfies, leaf or
// composite.
//
// Process consumes exactly Inputs() channels from in and produces
// exactly Outputs() channels into out, advancing internal state by the
// block's frame count. It must be deterministic given state and input,
// must not allocate, and must yield identical results regardless of how
// a sample stream is chunked into blocks. in and out must not alias.
//
// SetControl updates a named scalar parameter. Addresses on composite
// units are child-index paths such as "0/freq" (see package graph).
// Non-finite values are dropped; unknown addresses report
// ErrUnknownControl.
//
// Reset reinitializes internal state for the given sample rate without
// changing arity or reallocating. Latency returns the unit's current
// latency in frames. Clone returns an independent deep copy so two
// copies evolve separately.
type Unit interface {
	Inputs() int
	Outputs() int
	Process(in, out *block.Block)
	SetControl(addr string, value float64) error
	Reset(sampleRate float64)
	Latency() int
	Clone() Unit
}

// ControlGetter is implemented by units whose control parameters can be
// read back. GetControl reports the current value of the parameter at
// addr, or false for an address the unit does not recognize. Composite
// units route the same child-index paths SetControl accepts and report
// false for children that do not implement the interface.
type ControlGetter interface {
	GetControl(addr string) (float64, bool)
}

// GetControl reads a control parameter from u if it supports readback.
func GetControl(u Unit, addr string) (float64, bool) {
	g, ok := u.(ControlGetter)
	if !ok {
		return 0, false
	}
	return g.GetControl(addr)
}

// Variable is implemented by units that declare AnyArity on one or both
// sides. Pin fixes the concrete channel counts; it is called once by
// the enclosing combinator during construction and never afterwards.
type Variable interface {
	Pin(inputs, outputs int) error
}
