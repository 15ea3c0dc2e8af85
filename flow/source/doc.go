// Package source brings external audio into a graph. A SampleSource
// delivers blocks from some medium (a wav file, an in-memory buffer);
// Reader adapts any source into a generator unit that pads with
// silence once the material runs out.
package source
