// Package block implements the multichannel sample block every unit
// processes. Blocks are borrowed, per-channel float64 views; owning
// blocks are backed by a single allocation and view blocks carry a
// preallocated channel table so the processing path never allocates.
package block
