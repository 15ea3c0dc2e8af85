package block

import (
	"sync"

	"github.com/cwbudde/algo-flow/flow/core"
)

// Pool provides sync.Pool-based Block reuse for offline rendering paths
// that cannot preallocate every scratch shape up front. It must not be
// used inside a unit's Process.
type Pool struct {
	pool sync.Pool
}

// NewPool returns a Pool ready for use.
func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any {
				return &Block{}
			},
		},
	}
}

// Get returns a zeroed Block with the requested shape. Callers must
// return it via Put when done.
func (p *Pool) Get(channels, frames int) *Block {
	b := p.pool.Get().(*Block)
	b.resize(channels, frames)
	b.Zero()
	return b
}

// Put returns a Block to the pool for reuse.
// The caller must not use the block after calling Put.
func (p *Pool) Put(b *Block) {
	if b == nil {
		return
	}
	p.pool.Put(b)
}

// resize reshapes b to channels*frames, reusing capacity when possible.
func (b *Block) resize(channels, frames int) {
	if channels < 0 {
		channels = 0
	}
	if frames < 0 {
		frames = 0
	}

	if cap(b.ch) >= channels {
		b.ch = b.ch[:channels]
	} else {
		b.ch = make([][]float64, channels)
	}

	for c := range b.ch {
		b.ch[c] = core.EnsureLen(b.ch[c], frames)
	}
	b.frames = frames
}
