package source

import (
	"errors"

	"github.com/cwbudde/algo-flow/flow/block"
)

// ErrEndOfStream is returned by Read once a source has no more
// samples.
var ErrEndOfStream = errors.New("source: end of stream")

// SampleSource delivers blocks of audio from an external medium.
type SampleSource interface {
	// SampleRate returns the native rate of the material.
	SampleRate() float64

	// Channels returns the channel count of the material.
	Channels() int

	// Read fills up to dst.Frames() frames of every channel of dst
	// and returns the number of frames delivered. A short read is not
	// an error; once the source is exhausted Read returns 0 and
	// ErrEndOfStream.
	Read(dst *block.Block) (int, error)
}

// Rewinder is implemented by sources that can restart from the
// beginning.
type Rewinder interface {
	Rewind() error
}
