package graph_test

import (
	"fmt"

	"github.com/cwbudde/algo-flow/flow/filter"
	"github.com/cwbudde/algo-flow/flow/gen"
	"github.com/cwbudde/algo-flow/flow/graph"
)

func ExampleNewChain() {
	osc, _ := gen.NewSine(220)
	lp, _ := filter.NewLowpass(4000, 0.707)
	pan, _ := gen.NewPan(-0.3)

	patch, _ := graph.NewChain(nil, osc, lp, pan)

	fmt.Printf("inputs=%d outputs=%d\n", patch.Inputs(), patch.Outputs())
	// Output:
	// inputs=0 outputs=2
}

func ExampleNewBranch() {
	// Split a mono signal into a dry lane and a filtered lane.
	dry, _ := gen.NewPass(1)
	wet, _ := filter.NewLowpass(800, 1)

	split, _ := graph.NewBranch(dry, wet)

	fmt.Printf("inputs=%d outputs=%d\n", split.Inputs(), split.Outputs())
	// Output:
	// inputs=1 outputs=2
}

func ExampleNewFeedback() {
	// A quarter-second echo at 48 kHz: the loop unit scales what comes
	// back around.
	tap, _ := gen.NewGainN(0.5, 1)
	echo, _ := graph.NewFeedback(tap, 12000)

	fmt.Printf("inputs=%d outputs=%d latency=%d\n", echo.Inputs(), echo.Outputs(), echo.Latency())
	// Output:
	// inputs=1 outputs=1 latency=0
}
