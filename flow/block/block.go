package block

import "github.com/cwbudde/algo-flow/flow/core"

// Block is a borrowed view over one or more channels of consecutive
// samples. Channel count and frame count are fixed for the duration of
// one Process call. A Block never owns its samples unless created with
// New, which allocates a single contiguous backing slice.
//
// A Block may have zero channels; it then still carries a frame count so
// that pure generators (no inputs) know how many frames to produce.
type Block struct {
	ch     [][]float64
	frames int
}

// New returns a Block owning channels*frames zeroed samples backed by a
// single allocation.
func New(channels, frames int) *Block {
	if channels < 0 {
		channels = 0
	}
	if frames < 0 {
		frames = 0
	}

	b := &Block{
		ch:     make([][]float64, channels),
		frames: frames,
	}
	if channels > 0 && frames > 0 {
		backing := make([]float64, channels*frames)
		for c := range b.ch {
			b.ch[c] = backing[c*frames : (c+1)*frames : (c+1)*frames]
		}
	}
	return b
}

// NewView returns an empty Block whose channel table can hold up to
// maxChannels views without further allocation. Use Sub and Span to
// populate it inside the processing path.
func NewView(maxChannels int) *Block {
	if maxChannels < 0 {
		maxChannels = 0
	}
	return &Block{ch: make([][]float64, 0, maxChannels)}
}

// FromSlices wraps existing per-channel slices without copying. All
// slices must share the same length.
func FromSlices(channels ...[]float64) *Block {
	b := &Block{ch: channels}
	if len(channels) > 0 {
		b.frames = len(channels[0])
	}
	return b
}

// Channels returns the channel count.
func (b *Block) Channels() int {
	return len(b.ch)
}

// Frames returns the number of samples per channel.
func (b *Block) Frames() int {
	return b.frames
}

// Channel returns the samples of channel c.
func (b *Block) Channel(c int) []float64 {
	return b.ch[c]
}

// Sub populates view with frames [from, to) of every channel of b.
// The view's channel table is reused; no allocation occurs as long as
// view was created with capacity for b's channel count.
func (b *Block) Sub(view *Block, from, to int) {
	view.ch = view.ch[:0]
	for c := range b.ch {
		view.ch = append(view.ch, b.ch[c][from:to])
	}
	view.frames = to - from
}

// Span populates view with channels [from, to) of b, all frames.
func (b *Block) Span(view *Block, from, to int) {
	view.ch = view.ch[:0]
	view.ch = append(view.ch, b.ch[from:to]...)
	view.frames = b.frames
}

// Zero sets every sample of every channel to 0.
func (b *Block) Zero() {
	for c := range b.ch {
		core.Zero(b.ch[c])
	}
}

// CopyFrom copies min(b.Frames, src.Frames) samples of every shared
// channel from src into b.
func (b *Block) CopyFrom(src *Block) {
	n := len(b.ch)
	if len(src.ch) < n {
		n = len(src.ch)
	}
	for c := 0; c < n; c++ {
		core.CopyInto(b.ch[c], src.ch[c])
	}
}
