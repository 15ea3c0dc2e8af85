package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		value, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-2, 0, 1, 0},
		{3, 0, 1, 1},
		{0.5, 1, 0, 0.5}, // swapped bounds
		{-1, -1, 1, -1},
	}
	for _, tt := range tests {
		if got := Clamp(tt.value, tt.min, tt.max); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.value, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestClamp11(t *testing.T) {
	if got := Clamp11(1.5); got != 1 {
		t.Errorf("Clamp11(1.5) = %v, want 1", got)
	}
	if got := Clamp11(-1.5); got != -1 {
		t.Errorf("Clamp11(-1.5) = %v, want -1", got)
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(2, 6, 0.25); got != 3 {
		t.Errorf("Lerp(2, 6, 0.25) = %v, want 3", got)
	}
	if got := Lerp(2, 6, 0); got != 2 {
		t.Errorf("Lerp(2, 6, 0) = %v, want 2", got)
	}
	if got := Lerp(2, 6, 1); got != 6 {
		t.Errorf("Lerp(2, 6, 1) = %v, want 6", got)
	}
}

func TestSoftSign(t *testing.T) {
	if got := SoftSign(0); got != 0 {
		t.Errorf("SoftSign(0) = %v, want 0", got)
	}
	if got := SoftSign(1); got != 0.5 {
		t.Errorf("SoftSign(1) = %v, want 0.5", got)
	}
	if got := SoftSign(-1); got != -0.5 {
		t.Errorf("SoftSign(-1) = %v, want -0.5", got)
	}
	// Saturates toward +-1 but never reaches it.
	if got := SoftSign(1e9); got >= 1 || got < 0.999 {
		t.Errorf("SoftSign(1e9) = %v, want just below 1", got)
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(0) || !IsFinite(-1e300) {
		t.Error("finite values reported non-finite")
	}
	if IsFinite(math.NaN()) {
		t.Error("NaN reported finite")
	}
	if IsFinite(math.Inf(1)) || IsFinite(math.Inf(-1)) {
		t.Error("Inf reported finite")
	}
}

func TestFlushDenormals(t *testing.T) {
	if got := FlushDenormals(1e-40); got != 0 {
		t.Errorf("FlushDenormals(1e-40) = %v, want 0", got)
	}
	if got := FlushDenormals(1e-20); got != 1e-20 {
		t.Errorf("FlushDenormals(1e-20) = %v, want unchanged", got)
	}
}

func TestDBRoundTrip(t *testing.T) {
	for _, db := range []float64{-60, -6, 0, 6, 20} {
		lin := DBToLinear(db)
		if got := LinearToDB(lin); math.Abs(got-db) > 1e-12 {
			t.Errorf("round trip %v dB -> %v", db, got)
		}
	}
	if !math.IsInf(LinearToDB(0), -1) {
		t.Error("LinearToDB(0) should be -Inf")
	}
	if !math.IsNaN(LinearToDB(-1)) {
		t.Error("LinearToDB(-1) should be NaN")
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1, 1+1e-13, 1e-12) {
		t.Error("values within eps reported unequal")
	}
	if NearlyEqual(1, 1.1, 1e-6) {
		t.Error("distant values reported equal")
	}
	if !NearlyEqual(0, 0, 0) {
		t.Error("zeros with default eps reported unequal")
	}
}

func TestApplyOptions(t *testing.T) {
	cfg := ApplyOptions(WithSampleRate(44100), WithMaxBlock(256))
	if cfg.SampleRate != 44100 {
		t.Errorf("SampleRate = %v, want 44100", cfg.SampleRate)
	}
	if cfg.MaxBlock != 256 {
		t.Errorf("MaxBlock = %d, want 256", cfg.MaxBlock)
	}

	// Invalid values keep the defaults.
	def := ApplyOptions(WithSampleRate(-1), WithMaxBlock(0))
	if def != DefaultConfig() {
		t.Errorf("config = %+v, want defaults", def)
	}
}
