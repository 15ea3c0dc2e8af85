package graph

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-flow/flow/unit"
)

// Construction errors. All arity and configuration problems surface
// here, at graph-assembly time; the processing path performs no shape
// checks of its own.
var (
	ErrArityMismatch   = errors.New("graph: arity mismatch")
	ErrUnresolvedArity = errors.New("graph: unresolved variable arity")
	ErrInvalidConfig   = errors.New("graph: invalid configuration")
)

// matchArity unifies two declared channel counts at a junction. A count
// of unit.AnyArity unifies with anything; two concrete counts must be
// equal.
func matchArity(x, y int) (int, error) {
	switch {
	case x == unit.AnyArity && y == unit.AnyArity:
		return 0, fmt.Errorf("%w: both sides variable", ErrUnresolvedArity)
	case x == unit.AnyArity:
		return y, nil
	case y == unit.AnyArity:
		return x, nil
	case x != y:
		return 0, fmt.Errorf("%w: %d vs %d channels", ErrArityMismatch, x, y)
	}
	return x, nil
}

// pinIfVariable fixes a variable-arity unit to the given channel
// counts. Passing unit.AnyArity for a side leaves that side to the
// unit. A no-op for units whose declared arities already match.
func pinIfVariable(u unit.Unit, ins, outs int) error {
	if u.Inputs() == ins && u.Outputs() == outs {
		return nil
	}
	if (ins == unit.AnyArity || u.Inputs() == ins) &&
		(outs == unit.AnyArity || u.Outputs() == outs) {
		return nil
	}

	v, ok := u.(unit.Variable)
	if !ok {
		return fmt.Errorf("%w: unit declares %d in / %d out, need %d in / %d out",
			ErrArityMismatch, u.Inputs(), u.Outputs(), ins, outs)
	}
	return v.Pin(ins, outs)
}

// requireConcrete rejects units whose arity is still variable after the
// enclosing combinator had its chance to resolve it.
func requireConcrete(u unit.Unit) error {
	if u.Inputs() == unit.AnyArity || u.Outputs() == unit.AnyArity {
		return fmt.Errorf("%w: arity must be concrete after composition", ErrUnresolvedArity)
	}
	return nil
}

// splitAddr splits a composite control address of the form
// "<child>/<rest>" into its child index and remainder.
func splitAddr(addr string) (child int, rest string, ok bool) {
	i := strings.IndexByte(addr, '/')
	if i <= 0 {
		return 0, "", false
	}
	n, err := strconv.Atoi(addr[:i])
	if err != nil || n < 0 {
		return 0, "", false
	}
	return n, addr[i+1:], true
}

// routePair forwards a control address to one of two children. Child 0
// is the first operand, child 1 the second.
func routePair(a, b unit.Unit, addr string, value float64) error {
	child, rest, ok := splitAddr(addr)
	if !ok {
		return fmt.Errorf("%w: %q", unit.ErrUnknownControl, addr)
	}
	switch child {
	case 0:
		return a.SetControl(rest, value)
	case 1:
		return b.SetControl(rest, value)
	}
	return fmt.Errorf("%w: %q", unit.ErrUnknownControl, addr)
}

// routeSingle forwards a control address to an only child (index 0).
func routeSingle(u unit.Unit, addr string, value float64) error {
	child, rest, ok := splitAddr(addr)
	if !ok || child != 0 {
		return fmt.Errorf("%w: %q", unit.ErrUnknownControl, addr)
	}
	return u.SetControl(rest, value)
}

// readPair reads a control value from one of two children, for units
// that support readback.
func readPair(a, b unit.Unit, addr string) (float64, bool) {
	child, rest, ok := splitAddr(addr)
	if !ok {
		return 0, false
	}
	switch child {
	case 0:
		return unit.GetControl(a, rest)
	case 1:
		return unit.GetControl(b, rest)
	}
	return 0, false
}

// readSingle reads a control value from an only child (index 0).
func readSingle(u unit.Unit, addr string) (float64, bool) {
	child, rest, ok := splitAddr(addr)
	if !ok || child != 0 {
		return 0, false
	}
	return unit.GetControl(u, rest)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
