package sched

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/xid"

	"github.com/cwbudde/algo-flow/flow/block"
	"github.com/cwbudde/algo-flow/flow/core"
	"github.com/cwbudde/algo-flow/flow/unit"
)

var (
	ErrInvalidEvent  = errors.New("sched: event has no address or a non-finite value")
	ErrNotAGenerator = errors.New("sched: root unit has inputs, use Process")
	ErrShapeMismatch = errors.New("sched: block channel count does not match the root unit")
)

type config struct {
	core    core.Config
	queue   *ControlQueue
	onError func(unit.Event, error)
}

// Option configures a Scheduler.
type Option func(*config)

// WithSampleRate sets the render sample rate.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *config) {
		core.WithSampleRate(sampleRate)(&cfg.core)
	}
}

// WithMaxBlock caps the frames handed to the root unit per call.
func WithMaxBlock(frames int) Option {
	return func(cfg *config) {
		core.WithMaxBlock(frames)(&cfg.core)
	}
}

// WithControlQueue attaches a queue drained at each Process call.
func WithControlQueue(q *ControlQueue) Option {
	return func(cfg *config) {
		cfg.queue = q
	}
}

// WithErrorFunc installs a callback for events the root unit rejects,
// typically with unit.ErrUnknownControl. Without one, rejected events
// are dropped.
func WithErrorFunc(fn func(unit.Event, error)) Option {
	return func(cfg *config) {
		cfg.onError = fn
	}
}

// Scheduler drives a unit graph on an absolute sample clock and
// applies control events sample-accurately by splitting blocks at
// event boundaries.
type Scheduler struct {
	id      xid.ID
	root    unit.Unit
	cfg     core.Config
	queue   *ControlQueue
	onError func(unit.Event, error)

	clock   int64
	pending []unit.Event

	inView  *block.Block
	outView *block.Block
	zeroIn  *block.Block
}

// New creates a scheduler for the given root unit. The root must have
// a concrete arity and is reset to the configured sample rate.
func New(root unit.Unit, opts ...Option) (*Scheduler, error) {
	if root == nil {
		return nil, errors.New("sched: root unit must not be nil")
	}

	cfg := config{core: core.DefaultConfig()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if root.Inputs() < 0 || root.Outputs() < 0 {
		return nil, errors.New("sched: root unit arity is unresolved")
	}

	s := &Scheduler{
		id:      xid.New(),
		root:    root,
		cfg:     cfg.core,
		queue:   cfg.queue,
		onError: cfg.onError,
		inView:  block.NewView(root.Inputs()),
		outView: block.NewView(root.Outputs()),
		zeroIn:  block.New(0, cfg.core.MaxBlock),
	}
	root.Reset(s.cfg.SampleRate)
	return s, nil
}

// ID returns the unique identifier of this scheduler instance.
func (s *Scheduler) ID() string {
	return s.id.String()
}

// Clock returns the absolute sample index of the next frame to render.
func (s *Scheduler) Clock() int64 {
	return s.clock
}

// Config returns the render configuration.
func (s *Scheduler) Config() core.Config {
	return s.cfg
}

// Schedule queues a control event. Events with At < 0 apply at the
// start of the next processed block; others at their absolute sample
// index, or immediately if that index has already passed. Events with
// non-finite values are rejected.
func (s *Scheduler) Schedule(ev unit.Event) error {
	if !ev.Valid() {
		return fmt.Errorf("%w: %q=%v", ErrInvalidEvent, ev.Addr, ev.Value)
	}
	s.insert(ev)
	return nil
}

// insert keeps pending sorted by At; ties keep arrival order.
func (s *Scheduler) insert(ev unit.Event) {
	i := sort.Search(len(s.pending), func(i int) bool {
		return s.pending[i].At > ev.At
	})
	s.pending = append(s.pending, unit.Event{})
	copy(s.pending[i+1:], s.pending[i:])
	s.pending[i] = ev
}

// drain moves queued events into the pending list. Immediate events
// are pinned to the current clock so they fire at this block's start.
func (s *Scheduler) drain() {
	if s.queue == nil {
		return
	}
	for {
		ev, ok := s.queue.Pop()
		if !ok {
			return
		}
		if !ev.Valid() {
			continue
		}
		if ev.At < 0 {
			ev.At = s.clock
		}
		s.insert(ev)
	}
}

// Process renders one block through the root unit, splitting it at
// every pending event boundary. in may carry any number of frames;
// the root unit never sees more than MaxBlock at once.
func (s *Scheduler) Process(in, out *block.Block) error {
	if in.Channels() != s.root.Inputs() || out.Channels() != s.root.Outputs() {
		return fmt.Errorf("%w: got %d in / %d out, root wants %d/%d",
			ErrShapeMismatch, in.Channels(), out.Channels(), s.root.Inputs(), s.root.Outputs())
	}

	s.drain()

	frames := out.Frames()
	done := 0
	for done < frames {
		end := frames
		if end-done > s.cfg.MaxBlock {
			end = done + s.cfg.MaxBlock
		}

		// Apply everything due now, then stop the segment at the next
		// boundary inside it.
		s.applyDue(s.clock)
		if len(s.pending) > 0 {
			next := s.pending[0].At
			if boundary := int(next - s.clock + int64(done)); boundary < end {
				end = boundary
			}
		}

		in.Sub(s.inView, done, end)
		out.Sub(s.outView, done, end)
		s.root.Process(s.inView, s.outView)

		s.clock += int64(end - done)
		done = end
	}
	return nil
}

// applyDue fires every pending event at or before the given sample.
func (s *Scheduler) applyDue(now int64) {
	for len(s.pending) > 0 && s.pending[0].At <= now {
		ev := s.pending[0]
		s.pending = s.pending[1:]
		if err := s.root.SetControl(ev.Addr, ev.Value); err != nil && s.onError != nil {
			s.onError(ev, err)
		}
	}
}

// Render is Process for generator graphs: the root unit must not take
// inputs.
func (s *Scheduler) Render(dst *block.Block) error {
	if s.root.Inputs() != 0 {
		return fmt.Errorf("%w: %d inputs", ErrNotAGenerator, s.root.Inputs())
	}
	return s.Process(s.zeroIn, dst)
}

// Reset rewinds the clock, discards pending events and resets the
// root unit.
func (s *Scheduler) Reset() {
	s.clock = 0
	s.pending = s.pending[:0]
	if s.queue != nil {
		for {
			if _, ok := s.queue.Pop(); !ok {
				break
			}
		}
	}
	s.root.Reset(s.cfg.SampleRate)
}
