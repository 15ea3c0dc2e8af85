package source

import (
	"errors"

	"github.com/cwbudde/algo-flow/flow/block"
	"github.com/cwbudde/algo-flow/flow/core"
)

// Buffer serves audio held in memory. It is rewindable and cheap to
// share across tests.
type Buffer struct {
	data [][]float64
	rate float64
	pos  int
}

// NewBuffer wraps per-channel sample slices. All channels must share
// the same length.
func NewBuffer(sampleRate float64, channels ...[]float64) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, errors.New("source: sample rate must be positive")
	}
	if len(channels) == 0 {
		return nil, errors.New("source: buffer needs at least one channel")
	}
	for _, ch := range channels[1:] {
		if len(ch) != len(channels[0]) {
			return nil, errors.New("source: buffer channels differ in length")
		}
	}
	return &Buffer{data: channels, rate: sampleRate}, nil
}

// SampleRate returns the rate given at construction.
func (b *Buffer) SampleRate() float64 {
	return b.rate
}

// Channels returns the channel count.
func (b *Buffer) Channels() int {
	return len(b.data)
}

// Read copies up to dst.Frames() frames from the current position.
func (b *Buffer) Read(dst *block.Block) (int, error) {
	if dst.Channels() != len(b.data) {
		return 0, errors.New("source: block channel count mismatch")
	}

	remaining := len(b.data[0]) - b.pos
	if remaining <= 0 {
		return 0, ErrEndOfStream
	}
	frames := dst.Frames()
	if frames > remaining {
		frames = remaining
	}
	for c := range b.data {
		core.CopyInto(dst.Channel(c), b.data[c][b.pos:b.pos+frames])
	}
	b.pos += frames
	return frames, nil
}

// Rewind restarts playback from the first frame.
func (b *Buffer) Rewind() error {
	b.pos = 0
	return nil
}
