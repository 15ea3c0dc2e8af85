// Package sched renders a unit graph on an absolute sample clock.
//
// A Scheduler owns the clock and a sorted list of pending control
// events. Each Process call is split into sub-blocks at every event
// boundary, so a parameter change scheduled for sample k takes effect
// exactly at sample k regardless of block size. Events landing beyond
// the current block stay pending; events whose time has already passed
// fire at the next block start.
//
// ControlQueue feeds the scheduler from another goroutine without
// locks or allocation on the render path.
package sched
