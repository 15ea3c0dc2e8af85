package delay

import (
	"fmt"

	"github.com/cwbudde/algo-flow/flow/block"
	"github.com/cwbudde/algo-flow/flow/core"
	"github.com/cwbudde/algo-flow/flow/unit"
)

// Unit is a single-channel fixed-capacity delay leaf (1 input, 1
// output). The delay time in samples is a control parameter ("time"),
// fractional values read through Hermite interpolation. Capacity is
// fixed at construction; times beyond it are clamped.
type Unit struct {
	line     *Line
	capacity int
	time     float64
}

// New returns a delay unit with the given capacity in samples and an
// initial delay time.
func New(capacity int, time float64) (*Unit, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("delay: capacity must be > 0: %d", capacity)
	}
	if !core.IsFinite(time) || time < 0 {
		return nil, fmt.Errorf("delay: time must be finite and >= 0: %v", time)
	}
	if time > float64(capacity) {
		return nil, fmt.Errorf("delay: time %v exceeds capacity %d", time, capacity)
	}

	// Four extra samples keep the Hermite neighborhood inside the line.
	line, err := NewLine(capacity + 4)
	if err != nil {
		return nil, err
	}

	return &Unit{
		line:     line,
		capacity: capacity,
		time:     time,
	}, nil
}

// Inputs returns 1.
func (u *Unit) Inputs() int { return 1 }

// Outputs returns 1.
func (u *Unit) Outputs() int { return 1 }

// Process writes each input sample and reads back at the current delay
// time.
func (u *Unit) Process(in, out *block.Block) {
	src := in.Channel(0)
	dst := out.Channel(0)
	for i, x := range src {
		u.line.Write(x)
		// Read(1) is the sample just written, so a delay of time
		// samples reads at time+1.
		dst[i] = u.line.ReadFractional(u.time + 1)
	}
}

// SetControl updates "time", clamped to [0, capacity]; non-finite
// values are ignored.
func (u *Unit) SetControl(addr string, value float64) error {
	if addr != "time" {
		return fmt.Errorf("%w: %q", unit.ErrUnknownControl, addr)
	}
	if !core.IsFinite(value) {
		return nil
	}
	u.time = core.Clamp(value, 0, float64(u.capacity))
	return nil
}

// GetControl reads back "time".
func (u *Unit) GetControl(addr string) (float64, bool) {
	if addr == "time" {
		return u.time, true
	}
	return 0, false
}

// Reset clears the buffered samples.
func (u *Unit) Reset(sampleRate float64) {
	u.line.Reset()
}

// Latency returns 0; the delay time is the unit's function, not
// processing latency.
func (u *Unit) Latency() int { return 0 }

// Clone returns an independent copy including buffered samples.
func (u *Unit) Clone() unit.Unit {
	return &Unit{
		line:     u.line.Clone(),
		capacity: u.capacity,
		time:     u.time,
	}
}
