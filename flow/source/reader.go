package source

import (
	"fmt"

	"github.com/cwbudde/algo-flow/flow/block"
	"github.com/cwbudde/algo-flow/flow/unit"
)

// Reader adapts a SampleSource into a generator unit (0 inputs, one
// output per source channel). Once the source is exhausted the reader
// emits silence.
type Reader struct {
	src      SampleSource
	view     *block.Block
	finished bool
}

// NewReader wraps src as a unit.
func NewReader(src SampleSource) (*Reader, error) {
	if src == nil {
		return nil, fmt.Errorf("source: reader needs a source")
	}
	if src.Channels() < 1 {
		return nil, fmt.Errorf("source: reader needs at least one channel, got %d", src.Channels())
	}
	return &Reader{
		src:  src,
		view: block.NewView(src.Channels()),
	}, nil
}

// Inputs returns 0.
func (r *Reader) Inputs() int { return 0 }

// Outputs returns the source channel count.
func (r *Reader) Outputs() int {
	return r.src.Channels()
}

// Finished reports whether the source has run out.
func (r *Reader) Finished() bool {
	return r.finished
}

// Process fills out with source material, padding with silence once
// the stream ends. A failing source also switches to silence.
func (r *Reader) Process(in, out *block.Block) {
	done := 0
	for !r.finished && done < out.Frames() {
		out.Sub(r.view, done, out.Frames())
		n, err := r.src.Read(r.view)
		if err != nil || n == 0 {
			r.finished = true
			break
		}
		done += n
	}
	if done < out.Frames() {
		out.Sub(r.view, done, out.Frames())
		r.view.Zero()
	}
}

// SetControl reports every address as unknown.
func (r *Reader) SetControl(addr string, value float64) error {
	return fmt.Errorf("%w: %q", unit.ErrUnknownControl, addr)
}

// Reset rewinds the source when it supports rewinding; otherwise the
// reader stays finished once exhausted.
func (r *Reader) Reset(sampleRate float64) {
	if rw, ok := r.src.(Rewinder); ok {
		if err := rw.Rewind(); err == nil {
			r.finished = false
		}
	}
}

// Latency returns 0.
func (r *Reader) Latency() int { return 0 }

// Clone returns a reader over the same source. The source itself is
// shared, so a clone must not run concurrently with the original.
func (r *Reader) Clone() unit.Unit {
	return &Reader{
		src:      r.src,
		view:     block.NewView(r.src.Channels()),
		finished: r.finished,
	}
}
