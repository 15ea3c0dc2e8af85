package gen_test

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-flow/flow/gen"
	"github.com/cwbudde/algo-flow/flow/unit"
	"github.com/cwbudde/algo-flow/internal/testutil"
)

func TestSine_MatchesReference(t *testing.T) {
	osc, err := gen.NewSine(440)
	if err != nil {
		t.Fatalf("NewSine: %v", err)
	}
	osc.Reset(48000)

	out := testutil.RenderMono(osc, 256)
	want := testutil.DeterministicSine(440, 48000, 1, 256)
	testutil.RequireSliceNearlyEqual(t, out, want, 1e-9)
}

func TestSine_BlockSizeInvariance(t *testing.T) {
	a, _ := gen.NewSine(1000)
	b, _ := gen.NewSine(1000)
	a.Reset(48000)
	b.Reset(48000)

	whole := testutil.RenderMono(a, 200)
	ragged := testutil.RenderMono(b, 200, 7, 13, 1)
	testutil.RequireSliceNearlyEqual(t, ragged, whole, 0)
}

func TestSine_Amplitude(t *testing.T) {
	osc, err := gen.NewSine(440, gen.WithAmplitude(0.25))
	if err != nil {
		t.Fatalf("NewSine: %v", err)
	}
	osc.Reset(48000)

	for i, v := range testutil.RenderMono(osc, 128) {
		if math.Abs(v) > 0.25+1e-12 {
			t.Fatalf("index %d: %v exceeds amplitude 0.25", i, v)
		}
	}
}

func TestSine_FreqControl(t *testing.T) {
	osc, _ := gen.NewSine(440)
	if err := osc.SetControl("freq", 880); err != nil {
		t.Fatalf("SetControl(freq): %v", err)
	}
	if err := osc.SetControl("vibrato", 1); !errors.Is(err, unit.ErrUnknownControl) {
		t.Fatalf("err = %v, want ErrUnknownControl", err)
	}
	// Negative frequencies clamp to zero: output freezes at the phase.
	if err := osc.SetControl("freq", -100); err != nil {
		t.Fatalf("SetControl(freq, -100): %v", err)
	}
	osc.Reset(48000)
	out := testutil.RenderMono(osc, 16)
	testutil.RequireSilent(t, out, 1e-15)
}

func TestSaw_Range(t *testing.T) {
	osc, _ := gen.NewSaw(100)
	osc.Reset(48000)
	out := testutil.RenderMono(osc, 960) // two cycles
	for i, v := range out {
		if v < -1 || v > 1 {
			t.Fatalf("index %d: %v out of [-1, 1]", i, v)
		}
	}
	// Phase 0 maps to -1 on a rising saw.
	if out[0] != -1 {
		t.Fatalf("out[0] = %v, want -1", out[0])
	}
}

func TestSquare_TogglesHalfCycle(t *testing.T) {
	osc, _ := gen.NewSquare(4800) // 10-sample period at 48 kHz
	osc.Reset(48000)
	out := testutil.RenderMono(osc, 20)
	for i := 0; i < 5; i++ {
		if out[i] != 1 {
			t.Fatalf("out[%d] = %v, want 1 in first half cycle", i, out[i])
		}
		if out[i+5] != -1 {
			t.Fatalf("out[%d] = %v, want -1 in second half cycle", i+5, out[i+5])
		}
	}
}

func TestTriangle_Peaks(t *testing.T) {
	osc, _ := gen.NewTriangle(4800)
	osc.Reset(48000)
	out := testutil.RenderMono(osc, 10)
	if math.Abs(out[0]-(-1)) > 1e-12 {
		t.Fatalf("out[0] = %v, want -1", out[0])
	}
	if math.Abs(out[5]-1) > 1e-12 {
		t.Fatalf("out[5] = %v, want 1", out[5])
	}
}

func TestOsc_ResetRewindsPhase(t *testing.T) {
	osc, _ := gen.NewSine(440, gen.WithPhase(0.25))
	osc.Reset(48000)
	first := testutil.RenderMono(osc, 64)
	osc.Reset(48000)
	second := testutil.RenderMono(osc, 64)
	testutil.RequireSliceNearlyEqual(t, second, first, 0)
}

func TestNoise_Deterministic(t *testing.T) {
	a, err := gen.NewNoise(12345)
	if err != nil {
		t.Fatalf("NewNoise: %v", err)
	}
	b, _ := gen.NewNoise(12345)

	x := testutil.RenderMono(a, 512)
	y := testutil.RenderMono(b, 512)
	testutil.RequireSliceNearlyEqual(t, y, x, 0)
	testutil.RequireFinite(t, x)
	for i, v := range x {
		if v < -1 || v > 1 {
			t.Fatalf("index %d: %v out of [-1, 1]", i, v)
		}
	}
}

func TestNoise_CloneSharesSequencePoint(t *testing.T) {
	n, _ := gen.NewNoise(99)
	_ = testutil.RenderMono(n, 100)

	clone := n.Clone()
	a := testutil.RenderMono(n, 100)
	b := testutil.RenderMono(clone, 100)
	testutil.RequireSliceNearlyEqual(t, b, a, 0)
}

func TestNoise_ZeroSeedRejected(t *testing.T) {
	if _, err := gen.NewNoise(0); err == nil {
		t.Fatal("expected error for zero seed")
	}
}

func TestConst_Value(t *testing.T) {
	c, err := gen.NewConst(0.3)
	if err != nil {
		t.Fatalf("NewConst: %v", err)
	}
	out := testutil.RenderMono(c, 16)
	testutil.RequireSliceNearlyEqual(t, out, testutil.DC(0.3, 16), 0)

	if err := c.SetControl("value", -0.1); err != nil {
		t.Fatalf("SetControl(value): %v", err)
	}
	out = testutil.RenderMono(c, 4)
	testutil.RequireSliceNearlyEqual(t, out, testutil.DC(-0.1, 4), 0)
}

func TestImpulse_FiresOnce(t *testing.T) {
	im := gen.NewImpulse()
	out := testutil.RenderMono(im, 32)
	testutil.RequireSliceNearlyEqual(t, out, testutil.Impulse(32, 0), 0)

	// Silent until re-armed.
	out = testutil.RenderMono(im, 8)
	testutil.RequireSilent(t, out, 0)

	im.Reset(48000)
	out = testutil.RenderMono(im, 8)
	testutil.RequireSliceNearlyEqual(t, out, testutil.Impulse(8, 0), 0)
}

func TestPan_EqualPower(t *testing.T) {
	tests := []struct {
		pan         float64
		left, right float64
	}{
		{-1, 1, 0},
		{0, math.Sqrt2 / 2, math.Sqrt2 / 2},
		{1, 0, 1},
	}
	for _, tt := range tests {
		p, err := gen.NewPan(tt.pan)
		if err != nil {
			t.Fatalf("NewPan(%v): %v", tt.pan, err)
		}
		out := testutil.ProcessBlock(p, testutil.DC(1, 4))
		testutil.RequireSliceNearlyEqual(t, out[0], testutil.DC(tt.left, 4), 1e-15)
		testutil.RequireSliceNearlyEqual(t, out[1], testutil.DC(tt.right, 4), 1e-15)
	}
}

func TestPan_PowerIsConstant(t *testing.T) {
	for _, pan := range []float64{-1, -0.5, 0, 0.3, 1} {
		p, _ := gen.NewPan(pan)
		out := testutil.ProcessBlock(p, []float64{1})
		power := out[0][0]*out[0][0] + out[1][0]*out[1][0]
		if math.Abs(power-1) > 1e-12 {
			t.Errorf("pan %v: power = %v, want 1", pan, power)
		}
	}
}

func TestPan_ClampsControl(t *testing.T) {
	p, _ := gen.NewPan(0)
	if err := p.SetControl("pan", 5); err != nil {
		t.Fatalf("SetControl(pan): %v", err)
	}
	out := testutil.ProcessBlock(p, []float64{1})
	if math.Abs(out[0][0]) > 1e-12 || math.Abs(out[1][0]-1) > 1e-12 {
		t.Fatalf("out = %v/%v, want hard right", out[0][0], out[1][0])
	}
}

func TestMixer_Averages(t *testing.T) {
	m, err := gen.NewMixerN(3)
	if err != nil {
		t.Fatalf("NewMixerN: %v", err)
	}
	out := testutil.ProcessBlock(m,
		testutil.DC(0.3, 4),
		testutil.DC(0.6, 4),
		testutil.DC(0.9, 4),
	)
	testutil.RequireSliceNearlyEqual(t, out[0], testutil.DC(0.6, 4), 1e-15)
}

func TestMixer_PinRules(t *testing.T) {
	m := gen.NewMixer()
	if m.Inputs() != unit.AnyArity {
		t.Fatalf("Inputs() = %d, want AnyArity", m.Inputs())
	}
	if err := m.Pin(4, 1); err != nil {
		t.Fatalf("Pin(4, 1): %v", err)
	}
	if m.Inputs() != 4 {
		t.Fatalf("Inputs() = %d, want 4 after pin", m.Inputs())
	}
	if err := m.Pin(2, 1); err == nil {
		t.Fatal("expected error re-pinning to a different count")
	}
	if err := gen.NewMixer().Pin(2, 3); err == nil {
		t.Fatal("expected error pinning mixer output to 3")
	}
}

func TestGain_PinRequiresSquare(t *testing.T) {
	g, _ := gen.NewGain(0.5)
	if err := g.Pin(2, 3); err == nil {
		t.Fatal("expected error for mismatched sides")
	}
	if err := g.Pin(2, 2); err != nil {
		t.Fatalf("Pin(2, 2): %v", err)
	}
	if g.Inputs() != 2 || g.Outputs() != 2 {
		t.Fatalf("arity = %d/%d, want 2/2", g.Inputs(), g.Outputs())
	}
}

func TestPass_Identity(t *testing.T) {
	p, err := gen.NewPass(2)
	if err != nil {
		t.Fatalf("NewPass: %v", err)
	}
	in0 := testutil.DeterministicNoise(1, 1, 32)
	in1 := testutil.DeterministicNoise(2, 1, 32)
	out := testutil.ProcessBlock(p, in0, in1)
	testutil.RequireSliceNearlyEqual(t, out[0], in0, 0)
	testutil.RequireSliceNearlyEqual(t, out[1], in1, 0)
}
