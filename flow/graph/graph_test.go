package graph_test

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-flow/flow/core"
	"github.com/cwbudde/algo-flow/flow/filter"
	"github.com/cwbudde/algo-flow/flow/gen"
	"github.com/cwbudde/algo-flow/flow/graph"
	"github.com/cwbudde/algo-flow/flow/unit"
	"github.com/cwbudde/algo-flow/internal/testutil"
)

func mustGain(t *testing.T, gain float64, channels int) unit.Unit {
	t.Helper()
	g, err := gen.NewGainN(gain, channels)
	if err != nil {
		t.Fatalf("NewGainN: %v", err)
	}
	return g
}

func TestPipe_GainComposition(t *testing.T) {
	p, err := graph.NewPipe(mustGain(t, 2, 1), mustGain(t, 3, 1))
	if err != nil {
		t.Fatalf("NewPipe: %v", err)
	}
	if p.Inputs() != 1 || p.Outputs() != 1 {
		t.Fatalf("arity = %d/%d, want 1/1", p.Inputs(), p.Outputs())
	}

	in := testutil.Ramp(32)
	out := testutil.ProcessMono(p, in)
	want := make([]float64, len(in))
	for i := range in {
		want[i] = 6 * in[i]
	}
	testutil.RequireSliceNearlyEqual(t, out, want, 1e-15)
}

func TestPipe_ChunkingMatchesSingleBlock(t *testing.T) {
	in := testutil.DeterministicNoise(7, 1, 300)

	build := func(maxBlock int) unit.Unit {
		lp, err := filter.NewLowpass(2000, 0.707)
		if err != nil {
			t.Fatalf("NewLowpass: %v", err)
		}
		p, err := graph.NewPipe(lp, mustGain(t, 0.5, 1), core.WithMaxBlock(maxBlock))
		if err != nil {
			t.Fatalf("NewPipe: %v", err)
		}
		p.Reset(48000)
		return p
	}

	whole := testutil.ProcessMono(build(1024), in)
	chunked := testutil.ProcessMono(build(7), in)
	testutil.RequireSliceNearlyEqual(t, chunked, whole, 1e-15)
}

func TestChain_Associativity(t *testing.T) {
	in := testutil.DeterministicSine(440, 48000, 1, 128)

	left, err := graph.NewPipe(mustGain(t, 2, 1), mustGain(t, 3, 1))
	if err != nil {
		t.Fatalf("NewPipe: %v", err)
	}
	leftFirst, err := graph.NewPipe(left, mustGain(t, 0.25, 1))
	if err != nil {
		t.Fatalf("NewPipe: %v", err)
	}

	right, err := graph.NewPipe(mustGain(t, 3, 1), mustGain(t, 0.25, 1))
	if err != nil {
		t.Fatalf("NewPipe: %v", err)
	}
	rightFirst, err := graph.NewPipe(mustGain(t, 2, 1), right)
	if err != nil {
		t.Fatalf("NewPipe: %v", err)
	}

	a := testutil.ProcessMono(leftFirst, in)
	b := testutil.ProcessMono(rightFirst, in)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("index %d: %v vs %v, want bit-identical", i, a[i], b[i])
		}
	}
}

func TestPipe_ArityMismatch(t *testing.T) {
	pan, err := gen.NewPan(0)
	if err != nil {
		t.Fatalf("NewPan: %v", err)
	}
	_, err = graph.NewPipe(pan, mustGain(t, 1, 3))
	if !errors.Is(err, graph.ErrArityMismatch) {
		t.Fatalf("err = %v, want ErrArityMismatch", err)
	}
}

func TestPipe_PinsVariableSide(t *testing.T) {
	pan, err := gen.NewPan(0)
	if err != nil {
		t.Fatalf("NewPan: %v", err)
	}
	g, err := gen.NewGain(0.5)
	if err != nil {
		t.Fatalf("NewGain: %v", err)
	}

	p, err := graph.NewPipe(pan, g)
	if err != nil {
		t.Fatalf("NewPipe: %v", err)
	}
	if p.Inputs() != 1 || p.Outputs() != 2 {
		t.Fatalf("arity = %d/%d, want 1/2", p.Inputs(), p.Outputs())
	}
}

func TestPipe_UnresolvedArity(t *testing.T) {
	a, _ := gen.NewGain(1)
	b, _ := gen.NewGain(1)
	_, err := graph.NewPipe(a, b)
	if !errors.Is(err, graph.ErrUnresolvedArity) {
		t.Fatalf("err = %v, want ErrUnresolvedArity", err)
	}
}

func TestPipe_ControlRouting(t *testing.T) {
	p, err := graph.NewPipe(mustGain(t, 2, 1), mustGain(t, 3, 1))
	if err != nil {
		t.Fatalf("NewPipe: %v", err)
	}

	if err := p.SetControl("1/gain", 5); err != nil {
		t.Fatalf("SetControl(1/gain): %v", err)
	}
	out := testutil.ProcessMono(p, []float64{1})
	if out[0] != 10 {
		t.Fatalf("output = %v, want 10 after retargeting gain", out[0])
	}

	if err := p.SetControl("bogus", 1); !errors.Is(err, unit.ErrUnknownControl) {
		t.Fatalf("err = %v, want ErrUnknownControl", err)
	}
	if err := p.SetControl("2/gain", 1); !errors.Is(err, unit.ErrUnknownControl) {
		t.Fatalf("err = %v, want ErrUnknownControl for child 2", err)
	}
}

func TestPipe_ControlReadback(t *testing.T) {
	p, err := graph.NewPipe(mustGain(t, 2, 1), mustGain(t, 3, 1))
	if err != nil {
		t.Fatalf("NewPipe: %v", err)
	}

	if v, ok := unit.GetControl(p, "0/gain"); !ok || v != 2 {
		t.Fatalf("0/gain = %v, %v; want 2, true", v, ok)
	}
	if v, ok := unit.GetControl(p, "1/gain"); !ok || v != 3 {
		t.Fatalf("1/gain = %v, %v; want 3, true", v, ok)
	}

	if err := p.SetControl("1/gain", 5); err != nil {
		t.Fatalf("SetControl: %v", err)
	}
	if v, ok := unit.GetControl(p, "1/gain"); !ok || v != 5 {
		t.Fatalf("1/gain after set = %v, %v; want 5, true", v, ok)
	}

	if _, ok := unit.GetControl(p, "2/gain"); ok {
		t.Fatal("expected no readback for child 2")
	}
	if _, ok := unit.GetControl(p, "bogus"); ok {
		t.Fatal("expected no readback for a bare address")
	}
}

func TestStack_Arity(t *testing.T) {
	pan, err := gen.NewPan(0)
	if err != nil {
		t.Fatalf("NewPan: %v", err)
	}
	pass, err := gen.NewPass(1)
	if err != nil {
		t.Fatalf("NewPass: %v", err)
	}

	s, err := graph.NewStack(pan, pass)
	if err != nil {
		t.Fatalf("NewStack: %v", err)
	}
	if s.Inputs() != 2 || s.Outputs() != 3 {
		t.Fatalf("arity = %d/%d, want 2/3", s.Inputs(), s.Outputs())
	}
}

func TestStack_IndependentLanes(t *testing.T) {
	s, err := graph.NewStack(mustGain(t, 2, 1), mustGain(t, 3, 1))
	if err != nil {
		t.Fatalf("NewStack: %v", err)
	}

	out := testutil.ProcessBlock(s, []float64{1, 2}, []float64{10, 20})
	testutil.RequireSliceNearlyEqual(t, out[0], []float64{2, 4}, 0)
	testutil.RequireSliceNearlyEqual(t, out[1], []float64{30, 60}, 0)
}

func TestBranch_DuplicatesInput(t *testing.T) {
	pass, err := gen.NewPass(1)
	if err != nil {
		t.Fatalf("NewPass: %v", err)
	}
	br, err := graph.NewBranch(pass, mustGain(t, 2, 1))
	if err != nil {
		t.Fatalf("NewBranch: %v", err)
	}
	if br.Inputs() != 1 || br.Outputs() != 2 {
		t.Fatalf("arity = %d/%d, want 1/2", br.Inputs(), br.Outputs())
	}

	out := testutil.ProcessBlock(br, []float64{1, -0.5})
	testutil.RequireSliceNearlyEqual(t, out[0], []float64{1, -0.5}, 0)
	testutil.RequireSliceNearlyEqual(t, out[1], []float64{2, -1}, 0)
}

func TestSum_AddsOutputs(t *testing.T) {
	s, err := graph.NewSum(mustGain(t, 2, 1), mustGain(t, 3, 1))
	if err != nil {
		t.Fatalf("NewSum: %v", err)
	}

	out := testutil.ProcessBlock(s, []float64{1, 2, -1})
	testutil.RequireSliceNearlyEqual(t, out[0], []float64{5, 10, -5}, 0)
}

func TestSum_Generators(t *testing.T) {
	a, err := gen.NewConst(0.25)
	if err != nil {
		t.Fatalf("NewConst: %v", err)
	}
	b, err := gen.NewConst(0.5)
	if err != nil {
		t.Fatalf("NewConst: %v", err)
	}
	s, err := graph.NewSum(a, b)
	if err != nil {
		t.Fatalf("NewSum: %v", err)
	}
	if s.Inputs() != 0 {
		t.Fatalf("Inputs() = %d, want 0", s.Inputs())
	}

	out := testutil.RenderMono(s, 16)
	testutil.RequireSliceNearlyEqual(t, out, testutil.DC(0.75, 16), 1e-15)
}

func TestBus_Passthrough(t *testing.T) {
	bus, err := graph.NewBus(mustGain(t, 2, 1), 1, 3)
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	if bus.Inputs() != 3 || bus.Outputs() != 3 {
		t.Fatalf("arity = %d/%d, want 3/3", bus.Inputs(), bus.Outputs())
	}

	out := testutil.ProcessBlock(bus,
		[]float64{1, 2},
		[]float64{3, 4},
		[]float64{5, 6},
	)
	testutil.RequireSliceNearlyEqual(t, out[0], []float64{1, 2}, 0)
	testutil.RequireSliceNearlyEqual(t, out[1], []float64{6, 8}, 0)
	testutil.RequireSliceNearlyEqual(t, out[2], []float64{5, 6}, 0)
}

func TestBus_RangeValidation(t *testing.T) {
	_, err := graph.NewBus(mustGain(t, 1, 2), 2, 3)
	if !errors.Is(err, graph.ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}

	pan, _ := gen.NewPan(0)
	if _, err := graph.NewBus(pan, 0, 2); !errors.Is(err, graph.ErrArityMismatch) {
		t.Fatalf("err = %v, want ErrArityMismatch for non-square sub-unit", err)
	}
}

func TestDeck_Fold(t *testing.T) {
	a, _ := gen.NewConst(1)
	b, _ := gen.NewConst(2)
	c, _ := gen.NewConst(3)

	d, err := graph.NewDeck(nil, a, b, c)
	if err != nil {
		t.Fatalf("NewDeck: %v", err)
	}
	if d.Inputs() != 0 || d.Outputs() != 3 {
		t.Fatalf("arity = %d/%d, want 0/3", d.Inputs(), d.Outputs())
	}
}
