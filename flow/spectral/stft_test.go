package spectral

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-flow/flow/unit"
	"github.com/cwbudde/algo-flow/flow/window"
	"github.com/cwbudde/algo-flow/internal/testutil"
)

func unityGains(frameSize int) []float64 {
	return testutil.DC(1, frameSize/2+1)
}

func TestSpectralGain_UnityIsDelayedIdentity(t *testing.T) {
	const frameSize, hop = 64, 16

	s, err := NewSpectralGain(unityGains(frameSize), frameSize, hop, window.TypeHann)
	if err != nil {
		t.Fatalf("NewSpectralGain: %v", err)
	}
	if s.Latency() != frameSize {
		t.Fatalf("Latency() = %d, want %d", s.Latency(), frameSize)
	}

	in := testutil.DeterministicNoise(31, 1, 1024)
	out := testutil.ProcessMono(s, in)

	testutil.RequireSilent(t, out[:frameSize], 1e-9)
	testutil.RequireSliceNearlyEqual(t, out[frameSize:], in[:len(in)-frameSize], 1e-9)
}

func TestSpectralGain_BlockSizeInvariance(t *testing.T) {
	const frameSize, hop = 32, 8
	in := testutil.DeterministicNoise(33, 1, 400)

	build := func() *SpectralGain {
		s, err := NewSpectralGain(unityGains(frameSize), frameSize, hop, window.TypeHann)
		if err != nil {
			t.Fatalf("NewSpectralGain: %v", err)
		}
		return s
	}

	whole := testutil.ProcessMono(build(), in)
	ragged := testutil.ProcessMono(build(), in, 5, 1, 27)
	testutil.RequireSliceNearlyEqual(t, ragged, whole, 1e-12)
}

func TestSpectralGain_ZeroGainsSilence(t *testing.T) {
	const frameSize, hop = 32, 8

	s, err := NewSpectralGain(testutil.DC(0, frameSize/2+1), frameSize, hop, window.TypeHann)
	if err != nil {
		t.Fatalf("NewSpectralGain: %v", err)
	}
	out := testutil.ProcessMono(s, testutil.DeterministicNoise(35, 1, 512))
	testutil.RequireSilent(t, out, 1e-12)
}

func TestSpectralGain_RectangularWindow(t *testing.T) {
	// A rectangular window with any dividing hop has per-phase overlap
	// gain N/hop; normalization still restores identity.
	const frameSize, hop = 32, 16

	s, err := NewSpectralGain(unityGains(frameSize), frameSize, hop, window.TypeRectangular)
	if err != nil {
		t.Fatalf("NewSpectralGain: %v", err)
	}
	in := testutil.DeterministicSine(1000, 48000, 0.5, 512)
	out := testutil.ProcessMono(s, in)
	testutil.RequireSliceNearlyEqual(t, out[frameSize:], in[:len(in)-frameSize], 1e-9)
}

func TestSpectralGain_ResetReproduces(t *testing.T) {
	const frameSize, hop = 32, 8

	s, err := NewSpectralGain(unityGains(frameSize), frameSize, hop, window.TypeHamming)
	if err != nil {
		t.Fatalf("NewSpectralGain: %v", err)
	}
	in := testutil.DeterministicNoise(37, 1, 256)

	first := testutil.ProcessMono(s, in)
	s.Reset(48000)
	second := testutil.ProcessMono(s, in)
	testutil.RequireSliceNearlyEqual(t, second, first, 0)
}

func TestSpectralGain_ControlsUnknown(t *testing.T) {
	s, _ := NewSpectralGain(unityGains(32), 32, 8, window.TypeHann)
	if err := s.SetControl("gain", 1); !errors.Is(err, unit.ErrUnknownControl) {
		t.Fatalf("err = %v, want ErrUnknownControl", err)
	}
}

func TestNewSpectralGain_Validation(t *testing.T) {
	tests := []struct {
		name      string
		gains     int
		frameSize int
		hop       int
	}{
		{"frame not power of two", 13, 24, 8},
		{"hop does not divide", 17, 32, 12},
		{"hop too large", 17, 32, 32},
		{"hop zero", 17, 32, 0},
		{"wrong gain count", 10, 32, 8},
	}
	for _, tt := range tests {
		_, err := NewSpectralGain(testutil.DC(1, tt.gains), tt.frameSize, tt.hop, window.TypeHann)
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}
