package spectral

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-flow/flow/block"
	"github.com/cwbudde/algo-flow/flow/unit"
)

// Errors specific to the convolution units.
var (
	ErrEmptyKernel   = errors.New("spectral: empty kernel")
	ErrKernelTooLong = errors.New("spectral: kernel exceeds configured maximum")
)

// convConfig holds options for NewConvolver.
type convConfig struct {
	maxBlock      int
	directBudget  int
	partitionSize int
	maxKernel     int
}

// Option configures a spectral unit.
type Option func(*convConfig)

// WithMaxBlock sets the maximum Process block length the unit is sized
// for. Longer blocks are chunked internally. Default 1024.
func WithMaxBlock(frames int) Option {
	return func(cfg *convConfig) {
		if frames > 0 {
			cfg.maxBlock = frames
		}
	}
}

// WithDirectBudget sets the kernel length up to which the zero-latency
// direct overlap-add engine is used. Longer kernels switch to the
// partitioned engine. Default 4096.
func WithDirectBudget(samples int) Option {
	return func(cfg *convConfig) {
		if samples > 0 {
			cfg.directBudget = samples
		}
	}
}

// WithPartitionSize sets the partition length of the partitioned
// engine. Must be a power of two; it is also the engine's latency.
// Default 1024.
func WithPartitionSize(samples int) Option {
	return func(cfg *convConfig) {
		if samples > 0 {
			cfg.partitionSize = samples
		}
	}
}

// WithMaxKernelLen rejects kernels longer than the given length at
// construction time. Zero means unlimited. Default unlimited.
func WithMaxKernelLen(samples int) Option {
	return func(cfg *convConfig) {
		if samples >= 0 {
			cfg.maxKernel = samples
		}
	}
}

func defaultConvConfig() convConfig {
	return convConfig{
		maxBlock:      1024,
		directBudget:  4096,
		partitionSize: 1024,
	}
}

// convEngine is the single-channel streaming convolution core behind
// the Convolver unit.
type convEngine interface {
	process(dst, src []float64)
	reset()
	latency() int
	clone() convEngine
}

// Convolver convolves its input with a fixed kernel (1 input, 1
// output). Short kernels run through a zero-latency streaming
// overlap-add engine; kernels beyond the direct budget run through a
// uniformly partitioned engine with one partition of latency. A kernel
// longer than the configured maximum is rejected at construction,
// never truncated.
type Convolver struct {
	engine   convEngine
	maxBlock int
}

// NewConvolver creates a convolver for the given kernel.
func NewConvolver(kernel []float64, opts ...Option) (*Convolver, error) {
	cfg := defaultConvConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}
	if cfg.maxKernel > 0 && len(kernel) > cfg.maxKernel {
		return nil, fmt.Errorf("%w: %d > %d samples", ErrKernelTooLong, len(kernel), cfg.maxKernel)
	}

	var (
		engine convEngine
		err    error
	)
	if len(kernel) <= cfg.directBudget {
		engine, err = newDirectEngine(kernel, cfg.maxBlock)
	} else {
		engine, err = newPartitionedEngine(kernel, cfg.partitionSize)
	}
	if err != nil {
		return nil, err
	}

	return &Convolver{
		engine:   engine,
		maxBlock: cfg.maxBlock,
	}, nil
}

// Inputs returns 1.
func (c *Convolver) Inputs() int { return 1 }

// Outputs returns 1.
func (c *Convolver) Outputs() int { return 1 }

// Process convolves the input channel into the output channel,
// chunking blocks longer than the configured maximum.
func (c *Convolver) Process(in, out *block.Block) {
	src := in.Channel(0)
	dst := out.Channel(0)
	total := len(src)
	for off := 0; off < total; {
		n := total - off
		if n > c.maxBlock {
			n = c.maxBlock
		}
		c.engine.process(dst[off:off+n], src[off:off+n])
		off += n
	}
}

// SetControl reports every address as unknown; the kernel is fixed.
func (c *Convolver) SetControl(addr string, value float64) error {
	return fmt.Errorf("%w: %q", unit.ErrUnknownControl, addr)
}

// Reset clears the overlap state. The kernel is rate-agnostic; the
// caller resamples it externally if the graph rate changes.
func (c *Convolver) Reset(sampleRate float64) {
	c.engine.reset()
}

// Latency returns the engine latency: 0 for the direct engine, one
// partition for the partitioned engine.
func (c *Convolver) Latency() int {
	return c.engine.latency()
}

// Clone returns an independent copy including overlap state.
func (c *Convolver) Clone() unit.Unit {
	return &Convolver{
		engine:   c.engine.clone(),
		maxBlock: c.maxBlock,
	}
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func isPowerOf2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func newPlan(size int) (*algofft.Plan[complex128], error) {
	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectral: failed to create FFT plan: %w", err)
	}
	return plan, nil
}
