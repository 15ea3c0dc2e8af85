package spectral

import (
	algofft "github.com/MeKo-Christian/algo-fft"
)

// directEngine implements streaming FFT-based convolution using
// overlap-add with a single kernel spectrum. It accepts blocks of any
// length up to the configured maximum and adds zero latency: the tail
// of each block's linear convolution carries into the next call.
type directEngine struct {
	kernelFFT []complex128
	kernelLen int
	maxBlock  int
	fftSize   int

	plan *algofft.Plan[complex128]

	inputPadded  []complex128
	outputPadded []complex128
	convResult   []float64

	// Overlap carried from previous blocks, kernelLen-1 samples.
	tail []float64
}

func newDirectEngine(kernel []float64, maxBlock int) (*directEngine, error) {
	kernelLen := len(kernel)
	fftSize := nextPowerOf2(maxBlock + kernelLen - 1)

	plan, err := newPlan(fftSize)
	if err != nil {
		return nil, err
	}

	e := &directEngine{
		kernelFFT:    make([]complex128, fftSize),
		kernelLen:    kernelLen,
		maxBlock:     maxBlock,
		fftSize:      fftSize,
		plan:         plan,
		inputPadded:  make([]complex128, fftSize),
		outputPadded: make([]complex128, fftSize),
		convResult:   make([]float64, maxBlock+kernelLen-1),
		tail:         make([]float64, kernelLen-1),
	}

	kernelPadded := make([]complex128, fftSize)
	for i, v := range kernel {
		kernelPadded[i] = complex(v, 0)
	}
	if err := plan.Forward(e.kernelFFT, kernelPadded); err != nil {
		return nil, err
	}

	return e, nil
}

// process convolves one block of len(src) <= maxBlock samples into dst.
func (e *directEngine) process(dst, src []float64) {
	n := len(src)

	for i := range e.inputPadded {
		e.inputPadded[i] = 0
	}
	for i, v := range src {
		e.inputPadded[i] = complex(v, 0)
	}

	// Plan errors cannot occur after construction: sizes are fixed.
	_ = e.plan.Forward(e.inputPadded, e.inputPadded)
	for i := range e.outputPadded {
		e.outputPadded[i] = e.inputPadded[i] * e.kernelFFT[i]
	}
	_ = e.plan.Inverse(e.outputPadded, e.outputPadded)

	resultLen := n + e.kernelLen - 1
	for i := 0; i < resultLen; i++ {
		e.convResult[i] = real(e.outputPadded[i])
	}

	// The previous tail spans kernelLen-1 samples; with n possibly
	// smaller than that, part of it lands beyond this block and is
	// carried again through the new tail.
	for i := 0; i < len(e.tail) && i < resultLen; i++ {
		e.convResult[i] += e.tail[i]
	}

	copy(dst, e.convResult[:n])

	for i := range e.tail {
		e.tail[i] = e.convResult[n+i]
	}
}

func (e *directEngine) reset() {
	for i := range e.tail {
		e.tail[i] = 0
	}
}

func (e *directEngine) latency() int { return 0 }

func (e *directEngine) clone() convEngine {
	clone := *e
	clone.inputPadded = make([]complex128, e.fftSize)
	clone.outputPadded = make([]complex128, e.fftSize)
	clone.convResult = make([]float64, len(e.convResult))
	clone.tail = make([]float64, len(e.tail))
	copy(clone.tail, e.tail)
	return &clone
}
