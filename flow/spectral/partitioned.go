package spectral

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// partitionedEngine implements uniformly partitioned overlap-save
// convolution with a frequency-domain delay line. The kernel is split
// into partitions of partSize samples; each processed input block is
// multiplied against every partition spectrum at its matching age.
// Input is gathered into partSize blocks, so the engine's latency is
// one partition.
type partitionedEngine struct {
	partSize int
	fftSize  int // 2 * partSize

	plan *algofft.Plan[complex128]

	partSpectra [][]complex128 // kernel partitions in frequency domain
	fdl         [][]complex128 // input spectra history ring
	fdlPos      int
	fdlFilled   int

	// Time-domain input: previous partition followed by the one being
	// gathered (overlap-save layout).
	inBlock []float64
	fill    int

	spectrum []complex128
	accum    []complex128

	// Output queue primed with partSize zeros of latency.
	outBuf   []float64
	outHead  int
	outCount int
}

func newPartitionedEngine(kernel []float64, partSize int) (*partitionedEngine, error) {
	if !isPowerOf2(partSize) {
		return nil, fmt.Errorf("spectral: partition size must be a power of two: %d", partSize)
	}

	fftSize := 2 * partSize
	plan, err := newPlan(fftSize)
	if err != nil {
		return nil, err
	}

	parts := (len(kernel) + partSize - 1) / partSize
	spectra := make([][]complex128, parts)
	padded := make([]complex128, fftSize)
	for p := 0; p < parts; p++ {
		for i := range padded {
			padded[i] = 0
		}
		start := p * partSize
		end := start + partSize
		if end > len(kernel) {
			end = len(kernel)
		}
		for i, v := range kernel[start:end] {
			padded[i] = complex(v, 0)
		}

		spectra[p] = make([]complex128, fftSize)
		if err := plan.Forward(spectra[p], padded); err != nil {
			return nil, err
		}
	}

	fdl := make([][]complex128, parts)
	for i := range fdl {
		fdl[i] = make([]complex128, fftSize)
	}

	e := &partitionedEngine{
		partSize:    partSize,
		fftSize:     fftSize,
		plan:        plan,
		partSpectra: spectra,
		fdl:         fdl,
		inBlock:     make([]float64, fftSize),
		spectrum:    make([]complex128, fftSize),
		accum:       make([]complex128, fftSize),
		outBuf:      make([]float64, fftSize),
	}
	e.prime()
	return e, nil
}

// prime loads the latency zeros into the output queue.
func (e *partitionedEngine) prime() {
	e.outHead = 0
	e.outCount = e.partSize
	for i := 0; i < e.outCount; i++ {
		e.outBuf[i] = 0
	}
}

func (e *partitionedEngine) process(dst, src []float64) {
	for i, x := range src {
		e.inBlock[e.partSize+e.fill] = x
		e.fill++
		if e.fill == e.partSize {
			e.compute()
		}
		dst[i] = e.pop()
	}
}

// compute runs one partition block: FFT the gathered 2*partSize input
// window, rotate it into the delay line, accumulate against every
// partition spectrum, inverse transform, and queue the last partSize
// samples (overlap-save discards the first half).
func (e *partitionedEngine) compute() {
	for i, v := range e.inBlock {
		e.spectrum[i] = complex(v, 0)
	}
	_ = e.plan.Forward(e.spectrum, e.spectrum)

	e.fdlPos--
	if e.fdlPos < 0 {
		e.fdlPos = len(e.fdl) - 1
	}
	copy(e.fdl[e.fdlPos], e.spectrum)
	if e.fdlFilled < len(e.fdl) {
		e.fdlFilled++
	}

	for i := range e.accum {
		e.accum[i] = 0
	}
	for p := 0; p < e.fdlFilled; p++ {
		hist := e.fdl[(e.fdlPos+p)%len(e.fdl)]
		spec := e.partSpectra[p]
		for i := range e.accum {
			e.accum[i] += hist[i] * spec[i]
		}
	}

	_ = e.plan.Inverse(e.accum, e.accum)

	for i := 0; i < e.partSize; i++ {
		e.push(real(e.accum[e.partSize+i]))
	}

	copy(e.inBlock[:e.partSize], e.inBlock[e.partSize:])
	e.fill = 0
}

func (e *partitionedEngine) push(v float64) {
	e.outBuf[(e.outHead+e.outCount)%len(e.outBuf)] = v
	e.outCount++
}

func (e *partitionedEngine) pop() float64 {
	v := e.outBuf[e.outHead]
	e.outHead = (e.outHead + 1) % len(e.outBuf)
	e.outCount--
	return v
}

func (e *partitionedEngine) reset() {
	for i := range e.fdl {
		for j := range e.fdl[i] {
			e.fdl[i][j] = 0
		}
	}
	e.fdlPos = 0
	e.fdlFilled = 0
	for i := range e.inBlock {
		e.inBlock[i] = 0
	}
	e.fill = 0
	e.prime()
}

func (e *partitionedEngine) latency() int { return e.partSize }

func (e *partitionedEngine) clone() convEngine {
	clone := *e

	clone.fdl = make([][]complex128, len(e.fdl))
	for i := range e.fdl {
		clone.fdl[i] = make([]complex128, e.fftSize)
		copy(clone.fdl[i], e.fdl[i])
	}
	clone.inBlock = make([]float64, e.fftSize)
	copy(clone.inBlock, e.inBlock)
	clone.spectrum = make([]complex128, e.fftSize)
	clone.accum = make([]complex128, e.fftSize)
	clone.outBuf = make([]float64, e.fftSize)
	copy(clone.outBuf, e.outBuf)

	return &clone
}
