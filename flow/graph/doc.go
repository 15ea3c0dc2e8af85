// Package graph implements the combinator algebra that composes units
// into larger units.
//
// Each combinator is a pure construction-time operator: it verifies the
// operand arities once, allocates whatever routing scratch it needs for
// the configured maximum block length, and returns a composite that is
// itself a unit. The processing path never allocates and never checks
// shapes.
//
//	Combinator  Meaning                         Arity rule
//	Pipe        feed A's outputs into B         A.out == B.in
//	Stack       A and B on disjoint channels    none (concatenate)
//	Branch      same input to A and B           A.in == B.in
//	Sum         same input, outputs added       A and B identical arities
//	Bus         sub-unit on a channel range     range fits input count
//	Feedback    loop through a delay edge       in == out
//
// Pipe and Stack are associative, so deep chains can be built with
// NewChain and NewDeck without special-casing.
//
// Control addresses on composites are child-index paths: "0/freq"
// addresses the first operand's "freq" parameter, "1/0/gain" the first
// child of the second operand, and so on.
package graph
