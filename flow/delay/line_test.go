package delay

import (
	"math"
	"testing"
)

func TestLine_IntegerRead(t *testing.T) {
	line, err := NewLine(8)
	if err != nil {
		t.Fatalf("NewLine: %v", err)
	}

	for i := 1; i <= 5; i++ {
		line.Write(float64(i))
	}
	// Delay 1 is the most recent sample.
	if got := line.Read(1); got != 5 {
		t.Fatalf("Read(1) = %v, want 5", got)
	}
	if got := line.Read(5); got != 1 {
		t.Fatalf("Read(5) = %v, want 1", got)
	}
}

func TestLine_WrapAround(t *testing.T) {
	line, _ := NewLine(4)
	for i := 1; i <= 10; i++ {
		line.Write(float64(i))
	}
	if got := line.Read(1); got != 10 {
		t.Fatalf("Read(1) = %v, want 10", got)
	}
	if got := line.Read(4); got != 7 {
		t.Fatalf("Read(4) = %v, want 7", got)
	}
}

func TestLine_FractionalOnRamp(t *testing.T) {
	line, _ := NewLine(16)
	for i := 0; i < 16; i++ {
		line.Write(float64(i))
	}
	// The buffer holds a linear ramp; Hermite reads are exact on it
	// once the full four-point neighborhood lies on the ramp.
	for _, d := range []float64{2.25, 3.5, 7.75} {
		want := 15 - (d - 1)
		if got := line.ReadFractional(d); math.Abs(got-want) > 1e-12 {
			t.Fatalf("ReadFractional(%v) = %v, want %v", d, got, want)
		}
	}
}

func TestLine_Reset(t *testing.T) {
	line, _ := NewLine(4)
	line.Write(1)
	line.Reset()
	for d := 1; d <= 4; d++ {
		if got := line.Read(d); got != 0 {
			t.Fatalf("Read(%d) = %v after Reset, want 0", d, got)
		}
	}
}

func TestLine_Clone(t *testing.T) {
	line, _ := NewLine(4)
	line.Write(1)
	line.Write(2)

	clone := line.Clone()
	line.Write(9)
	if got := clone.Read(1); got != 2 {
		t.Fatalf("clone Read(1) = %v, want 2", got)
	}
}

func TestLine_InvalidSize(t *testing.T) {
	if _, err := NewLine(0); err == nil {
		t.Fatal("expected error for size 0")
	}
}
