package unit

import "math"

// Event is a pending control change. At is the absolute sample index,
// counted from the start of the render, at which the new value must
// take effect; an event with At < 0 applies at the start of the next
// processed block.
type Event struct {
	Addr  string
	Value float64
	At    int64
}

// Immediate returns an event that applies at the next block boundary.
func Immediate(addr string, value float64) Event {
	return Event{Addr: addr, Value: value, At: -1}
}

// At returns an event scheduled for the given absolute sample index.
func At(addr string, value float64, sample int64) Event {
	return Event{Addr: addr, Value: value, At: sample}
}

// Valid reports whether the event carries a usable value. Events with
// NaN or infinite values are dropped by the scheduler, keeping the
// previous parameter value.
func (e Event) Valid() bool {
	return e.Addr != "" && !math.IsNaN(e.Value) && !math.IsInf(e.Value, 0)
}
