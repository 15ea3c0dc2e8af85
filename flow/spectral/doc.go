// Package spectral provides FFT-based processing units: streaming
// convolution against a fixed kernel and frame-based per-bin gain
// shaping.
//
// Convolver picks its engine from the kernel length. Short kernels run
// through a single overlap-add FFT per block with zero latency; long
// kernels use uniformly partitioned overlap-save with a
// frequency-domain delay line, trading one partition of latency for
// bounded per-block cost.
//
// SpectralGain windows the input into overlapping frames, scales each
// frequency bin by a fixed gain curve and resynthesizes by
// overlap-add. Overlap normalization is exact for any window whose
// per-phase overlap sum is positive, so a unity gain curve reproduces
// the input delayed by one frame.
package spectral
