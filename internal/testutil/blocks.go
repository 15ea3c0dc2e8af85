package testutil

import (
	"github.com/cwbudde/algo-flow/flow/block"
	"github.com/cwbudde/algo-flow/flow/unit"
)

// ProcessMono runs a one-in one-out unit over input, split into chunks
// of the given sizes cycled in order. With no sizes the whole input is
// one block.
func ProcessMono(u unit.Unit, input []float64, blockSizes ...int) []float64 {
	out := make([]float64, len(input))
	inView := block.NewView(1)
	outView := block.NewView(1)
	src := block.FromSlices(input)
	dst := block.FromSlices(out)

	for done, i := 0, 0; done < len(input); i++ {
		end := len(input)
		if len(blockSizes) > 0 {
			if n := done + blockSizes[i%len(blockSizes)]; n < end {
				end = n
			}
		}
		src.Sub(inView, done, end)
		dst.Sub(outView, done, end)
		u.Process(inView, outView)
		done = end
	}
	return out
}

// RenderMono runs a generator unit with one output for length frames,
// split into chunks of the given sizes cycled in order.
func RenderMono(u unit.Unit, length int, blockSizes ...int) []float64 {
	out := make([]float64, length)
	zero := block.New(0, length)
	inView := block.NewView(0)
	outView := block.NewView(1)
	dst := block.FromSlices(out)

	for done, i := 0, 0; done < length; i++ {
		end := length
		if len(blockSizes) > 0 {
			if n := done + blockSizes[i%len(blockSizes)]; n < end {
				end = n
			}
		}
		zero.Sub(inView, done, end)
		dst.Sub(outView, done, end)
		u.Process(inView, outView)
		done = end
	}
	return out
}

// ProcessBlock is a single-shot run of a unit over per-channel input
// slices, returning per-channel outputs sized to the unit. The unit
// must take at least one input; drive generators through RenderMono.
func ProcessBlock(u unit.Unit, input ...[]float64) [][]float64 {
	frames := len(input[0])
	out := make([][]float64, u.Outputs())
	for c := range out {
		out[c] = make([]float64, frames)
	}
	u.Process(block.FromSlices(input...), block.FromSlices(out...))
	return out
}
