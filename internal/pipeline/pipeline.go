package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
)

// State is the pipeline run-state. Transitions are monotonic:
// Created -> Running -> Stopping -> Stopped.
type State int32

const (
	Created State = iota
	Running
	Stopping
	Stopped
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// StageFunc performs one unit of stage work per invocation: acquire one
// block, or consume one buffer, or similar. The first stage of a chain is
// invoked with a nil input queue, the last with a nil output queue.
// Returning false signals an unrecoverable local failure and triggers a
// pipeline-wide stop; recoverable errors must be handled (and logged)
// inside the stage.
//
// A stage that runs out of work gracefully must not return false while
// items may still sit in the queues downstream: it closes its output queue
// and keeps returning true, so each downstream stage drains its input to
// Closed in turn. The last stage returns false once its input reads
// Closed, which stops the whole chain.
type StageFunc[T any] func(in, out *Queue[T]) bool

// WithLogger sets the logger for the pipeline
func WithLogger[T any](logger *slog.Logger) func(*Pipeline[T]) {
	return func(p *Pipeline[T]) {
		p.logger = logger
	}
}

// Pipeline owns an ordered chain of stages, each running on its own
// goroutine, with a bounded queue between every adjacent pair. The shared
// run-state is the sole cancellation signal; stage loops observe it between
// iterations, so shutdown latency is bounded by a single unit of stage work.
type Pipeline[T any] struct {
	stages []StageFunc[T]
	queues []*Queue[T]

	state  atomic.Int32
	wg     sync.WaitGroup
	logger *slog.Logger
}

// New creates a pipeline from an ordered list of stage functions, allocating
// one queue of the given capacity between each adjacent pair.
func New[T any](queueCapacity int, stages []StageFunc[T], options ...func(*Pipeline[T])) (*Pipeline[T], error) {
	if len(stages) == 0 {
		return nil, fmt.Errorf("pipeline: at least one stage is required")
	}

	p := Pipeline[T]{
		stages: stages,
		queues: make([]*Queue[T], len(stages)-1),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // nil logger
	}

	for i := range p.queues {
		q, err := NewQueue[T](queueCapacity)
		if err != nil {
			return nil, err
		}
		p.queues[i] = q
	}

	for _, option := range options {
		option(&p)
	}

	return &p, nil
}

// State returns the current run-state
func (p *Pipeline[T]) State() State {
	return State(p.state.Load())
}

// Start transitions the pipeline to Running and spawns one goroutine per
// stage. It fails if the pipeline has already been started or stopped.
func (p *Pipeline[T]) Start() error {
	if !p.state.CompareAndSwap(int32(Created), int32(Running)) {
		return fmt.Errorf("pipeline: cannot start from state %s", p.State())
	}

	p.logger.Info("starting pipeline", slog.Int("stages", len(p.stages)))

	for i, fn := range p.stages {
		p.wg.Add(1)
		go p.runStage(i, fn)
	}

	return nil
}

// Stop requests cooperative termination of all stage goroutines by advancing
// the run-state and closing every queue. It is idempotent and safe to call
// concurrently from any goroutine, including a signal-cancellation path and
// a failing stage.
func (p *Pipeline[T]) Stop() {
	for {
		s := p.state.Load()
		if State(s) >= Stopping {
			return
		}
		if p.state.CompareAndSwap(s, int32(Stopping)) {
			break
		}
	}

	p.logger.Info("stopping pipeline")

	for _, q := range p.queues {
		q.Close()
	}
}

// Join blocks until every stage goroutine has exited, then marks the
// pipeline Stopped. Call it exactly once after Start.
func (p *Pipeline[T]) Join() {
	p.wg.Wait()

	for {
		s := p.state.Load()
		if State(s) == Stopped {
			return
		}
		if p.state.CompareAndSwap(s, int32(Stopped)) {
			break
		}
	}

	p.logger.Info("pipeline stopped")
}

func (p *Pipeline[T]) runStage(i int, fn StageFunc[T]) {
	defer p.wg.Done()

	var in, out *Queue[T]
	if i > 0 {
		in = p.queues[i-1]
	}
	if i < len(p.stages)-1 {
		out = p.queues[i]
	}

	for p.State() == Running {
		if !fn(in, out) {
			p.logger.Info("stage requested pipeline stop", slog.Int("stage", i))
			p.Stop()
			return
		}

		runtime.Gosched()
	}
}
