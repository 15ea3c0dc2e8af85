package spectral

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-flow/flow/block"
	"github.com/cwbudde/algo-flow/flow/unit"
	"github.com/cwbudde/algo-flow/flow/window"
)

// SpectralGain applies a fixed per-bin gain curve to its input through
// a windowed overlap-add analysis/synthesis pipeline (1 input, 1
// output). Frame and hop size are fixed at construction. The streaming
// pipeline buffers one full analysis frame, which it reports as its
// latency.
type SpectralGain struct {
	frameSize int
	hop       int

	plan   *algofft.Plan[complex128]
	coeffs []float64 // analysis window
	gains  []float64 // frameSize/2+1 bin gains
	cola   []float64 // per-phase overlap gain, hop entries

	inBuf   []float64 // last frameSize input samples
	pending []float64 // partial hop being gathered
	fill    int

	frame []complex128
	acc   []float64 // overlap-add accumulator

	outBuf   []float64
	outHead  int
	outCount int
}

// NewSpectralGain creates a spectral gain unit. gains must hold
// frameSize/2+1 values, one per non-negative frequency bin; frameSize
// must be a power of two and hop must divide frameSize with
// hop <= frameSize/2.
func NewSpectralGain(gains []float64, frameSize, hop int, windowType window.Type) (*SpectralGain, error) {
	if !isPowerOf2(frameSize) || frameSize < 4 {
		return nil, fmt.Errorf("spectral: frame size must be a power of two >= 4: %d", frameSize)
	}
	if hop < 1 || hop > frameSize/2 || frameSize%hop != 0 {
		return nil, fmt.Errorf("spectral: hop must divide the frame size and be <= %d: %d", frameSize/2, hop)
	}
	if len(gains) != frameSize/2+1 {
		return nil, fmt.Errorf("spectral: need %d bin gains, got %d", frameSize/2+1, len(gains))
	}

	plan, err := newPlan(frameSize)
	if err != nil {
		return nil, err
	}

	coeffs, err := window.Generate(windowType, frameSize)
	if err != nil {
		return nil, err
	}

	// Per-phase constant-overlap-add gain: every output position at
	// phase p mod hop collects window samples congruent to p.
	cola := make([]float64, hop)
	for p := 0; p < hop; p++ {
		sum := 0.0
		for i := p; i < frameSize; i += hop {
			sum += coeffs[i]
		}
		if sum <= 0 {
			return nil, fmt.Errorf("spectral: window has zero overlap gain at phase %d", p)
		}
		cola[p] = sum
	}

	s := &SpectralGain{
		frameSize: frameSize,
		hop:       hop,
		plan:      plan,
		coeffs:    coeffs,
		gains:     append([]float64(nil), gains...),
		cola:      cola,
		inBuf:     make([]float64, frameSize),
		pending:   make([]float64, hop),
		frame:     make([]complex128, frameSize),
		acc:       make([]float64, frameSize),
		outBuf:    make([]float64, 2*frameSize),
	}
	s.prime()
	return s, nil
}

// prime loads the intra-hop buffering zeros into the output queue. The
// analysis prehistory (frameSize-hop zeros in inBuf) supplies the rest
// of the one-frame latency.
func (s *SpectralGain) prime() {
	s.outHead = 0
	s.outCount = s.hop
	for i := 0; i < s.outCount; i++ {
		s.outBuf[i] = 0
	}
}

// Inputs returns 1.
func (s *SpectralGain) Inputs() int { return 1 }

// Outputs returns 1.
func (s *SpectralGain) Outputs() int { return 1 }

// Process streams samples through the analysis pipeline.
func (s *SpectralGain) Process(in, out *block.Block) {
	src := in.Channel(0)
	dst := out.Channel(0)
	for i, x := range src {
		s.pending[s.fill] = x
		s.fill++
		if s.fill == s.hop {
			s.processFrame()
		}
		dst[i] = s.pop()
	}
}

// processFrame slides the analysis buffer by one hop, transforms the
// windowed frame, applies the bin gains and overlap-adds the result.
func (s *SpectralGain) processFrame() {
	n := s.frameSize
	copy(s.inBuf, s.inBuf[s.hop:])
	copy(s.inBuf[n-s.hop:], s.pending)
	s.fill = 0

	for i := 0; i < n; i++ {
		s.frame[i] = complex(s.inBuf[i]*s.coeffs[i], 0)
	}
	_ = s.plan.Forward(s.frame, s.frame)

	for k := 0; k <= n/2; k++ {
		g := complex(s.gains[k], 0)
		s.frame[k] *= g
		if k > 0 && k < n/2 {
			s.frame[n-k] *= g
		}
	}
	_ = s.plan.Inverse(s.frame, s.frame)

	for i := 0; i < n; i++ {
		s.acc[i] += real(s.frame[i])
	}

	// The first hop samples have collected every frame that covers
	// them; emit, then slide the accumulator.
	for i := 0; i < s.hop; i++ {
		s.push(s.acc[i] / s.cola[i])
	}
	copy(s.acc, s.acc[s.hop:])
	for i := n - s.hop; i < n; i++ {
		s.acc[i] = 0
	}
}

func (s *SpectralGain) push(v float64) {
	s.outBuf[(s.outHead+s.outCount)%len(s.outBuf)] = v
	s.outCount++
}

func (s *SpectralGain) pop() float64 {
	v := s.outBuf[s.outHead]
	s.outHead = (s.outHead + 1) % len(s.outBuf)
	s.outCount--
	return v
}

// SetControl reports every address as unknown; the gain curve is
// fixed at construction.
func (s *SpectralGain) SetControl(addr string, value float64) error {
	return fmt.Errorf("%w: %q", unit.ErrUnknownControl, addr)
}

// Reset clears all buffered audio.
func (s *SpectralGain) Reset(sampleRate float64) {
	for i := range s.inBuf {
		s.inBuf[i] = 0
	}
	for i := range s.acc {
		s.acc[i] = 0
	}
	s.fill = 0
	s.prime()
}

// Latency returns one full analysis frame. A per-sample streaming
// pipeline cannot do better than that while staying block-size
// invariant: an output sample at the start of a hop needs the analysis
// frame ending a full frame length later. Output sample t carries
// input t-frameSize, so the report matches the actual delay.
func (s *SpectralGain) Latency() int {
	return s.frameSize
}

// Clone returns an independent copy including buffered audio.
func (s *SpectralGain) Clone() unit.Unit {
	clone := *s
	clone.inBuf = append([]float64(nil), s.inBuf...)
	clone.pending = append([]float64(nil), s.pending...)
	clone.frame = make([]complex128, s.frameSize)
	clone.acc = append([]float64(nil), s.acc...)
	clone.outBuf = append([]float64(nil), s.outBuf...)
	return &clone
}
