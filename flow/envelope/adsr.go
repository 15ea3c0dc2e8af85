// Package envelope implements gate-driven control envelopes.
package envelope

import (
	"fmt"

	"github.com/cwbudde/algo-flow/flow/block"
	"github.com/cwbudde/algo-flow/flow/core"
	"github.com/cwbudde/algo-flow/flow/unit"
)

type stage int

const (
	stageIdle stage = iota
	stageAttack
	stageDecay
	stageSustain
	stageRelease
)

// ADSR is a gate-driven linear attack/decay/sustain/release envelope
// (0 inputs, 1 output). Controls: "gate" (>= 0.5 opens), "attack",
// "decay", "release" in seconds and "sustain" as a level in [0, 1].
type ADSR struct {
	attack  float64
	decay   float64
	sustain float64
	release float64

	sampleRate float64
	stage      stage
	level      float64
}

// NewADSR returns an envelope with the given segment times in seconds
// and sustain level in [0, 1].
func NewADSR(attack, decay, sustain, release float64) (*ADSR, error) {
	for _, v := range []float64{attack, decay, release} {
		if !core.IsFinite(v) || v < 0 {
			return nil, fmt.Errorf("envelope: segment time must be finite and >= 0: %v", v)
		}
	}
	if !core.IsFinite(sustain) || sustain < 0 || sustain > 1 {
		return nil, fmt.Errorf("envelope: sustain level must be in [0, 1]: %v", sustain)
	}

	return &ADSR{
		attack:     attack,
		decay:      decay,
		sustain:    sustain,
		release:    release,
		sampleRate: core.DefaultConfig().SampleRate,
	}, nil
}

// Inputs returns 0.
func (e *ADSR) Inputs() int { return 0 }

// Outputs returns 1.
func (e *ADSR) Outputs() int { return 1 }

// Process fills the output with the envelope level, advancing the
// active segment per sample.
func (e *ADSR) Process(in, out *block.Block) {
	buf := out.Channel(0)
	for i := range buf {
		switch e.stage {
		case stageAttack:
			e.level += e.slope(e.attack, 1)
			if e.level >= 1 {
				e.level = 1
				e.stage = stageDecay
			}
		case stageDecay:
			e.level -= e.slope(e.decay, 1-e.sustain)
			if e.level <= e.sustain {
				e.level = e.sustain
				e.stage = stageSustain
			}
		case stageRelease:
			e.level -= e.slope(e.release, 1)
			if e.level <= 0 {
				e.level = 0
				e.stage = stageIdle
			}
		}
		buf[i] = e.level
	}
}

// slope returns the per-sample increment covering span in the given
// segment time. A zero time jumps in a single sample.
func (e *ADSR) slope(seconds, span float64) float64 {
	if seconds <= 0 {
		return span + 1
	}
	return span / (seconds * e.sampleRate)
}

// SetControl updates the gate or a segment parameter. Malformed values
// are ignored.
func (e *ADSR) SetControl(addr string, value float64) error {
	if !core.IsFinite(value) {
		return nil
	}
	switch addr {
	case "gate":
		if value >= 0.5 {
			e.stage = stageAttack
		} else if e.stage != stageIdle {
			e.stage = stageRelease
		}
	case "attack":
		if value >= 0 {
			e.attack = value
		}
	case "decay":
		if value >= 0 {
			e.decay = value
		}
	case "sustain":
		if value >= 0 && value <= 1 {
			e.sustain = value
		}
	case "release":
		if value >= 0 {
			e.release = value
		}
	default:
		return fmt.Errorf("%w: %q", unit.ErrUnknownControl, addr)
	}
	return nil
}

// GetControl reads back a segment parameter. The gate is an edge
// trigger, not a stored value, and has no readback.
func (e *ADSR) GetControl(addr string) (float64, bool) {
	switch addr {
	case "attack":
		return e.attack, true
	case "decay":
		return e.decay, true
	case "sustain":
		return e.sustain, true
	case "release":
		return e.release, true
	}
	return 0, false
}

// Reset closes the gate and zeroes the level for the new rate.
func (e *ADSR) Reset(sampleRate float64) {
	if sampleRate > 0 {
		e.sampleRate = sampleRate
	}
	e.stage = stageIdle
	e.level = 0
}

// Latency returns 0.
func (e *ADSR) Latency() int { return 0 }

// Clone returns an independent copy including the current segment and
// level.
func (e *ADSR) Clone() unit.Unit {
	clone := *e
	return &clone
}
