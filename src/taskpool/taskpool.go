// Package taskpool is the cooperative worker pool the resolver's two
// recursive procedures run on, adapted from the teacher's core.Pool: an
// unbuffered channel of func() consumed by worker goroutines, grown and
// shrunk dynamically around blocking points rather than held at a fixed
// size.
package taskpool

import (
	"sync"

	"gopkg.in/op/go-logging.v1"

	"github.com/javaorbit/orbit/src/rerr"
)

var log = logging.MustGetLogger("taskpool")

// A Pool is a worker pool. Submit hands work directly to a waiting worker;
// the channel itself is unbuffered by design (see run): every dependency
// explored recursively submits its children back onto this same pool, so a
// fixed-size buffered pool can fill up and deadlock against its own
// in-flight workers. AddWorker/StopWorker let run keep the pool elastic
// around exactly that blocking point.
type Pool chan func()

// New constructs a pool of the given size and starts its workers.
func New(size int) Pool {
	p := make(Pool)
	for i := 0; i < size; i++ {
		go p.run()
	}
	return p
}

// AddWorker starts one more worker goroutine.
func (p Pool) AddWorker() {
	go p.run()
}

// StopWorker asks one worker to exit once it next becomes idle. Invoked in
// its own goroutine so it never blocks the caller waiting for a worker to
// pick it up.
func (p Pool) StopWorker() {
	go func() { p <- nil }()
}

// run is a worker function that consumes off the queue. Every task it runs
// may itself call Submit and block waiting for a free worker - that is
// exactly what a dependency fan-out does, submitting each child back onto
// this pool before returning. A temporary replacement worker covers for the
// duration of f so that Submit always finds someone to hand off to, instead
// of deadlocking against this worker's own siblings; it is shed again once
// f returns.
func (p Pool) run() {
	for f := range p {
		if f == nil {
			return // poison value, tells this worker to stop
		}
		p.AddWorker()
		f()
		p.StopWorker()
	}
}

// Submit enqueues f to run on some worker goroutine.
func (p Pool) Submit(f func()) {
	p <- f
}

// Stop asks one worker to exit; call it size times to fully drain a pool
// you own exclusively.
func (p Pool) Stop() {
	p.StopWorker()
}

// A Sink is the task-publication channel the resolver's explorers publish
// spawned task handles onto, and that the top-level caller owns the sole
// consumer of. It is a thin wrapper over a channel of error-returning
// futures rather than the raw channel itself, so Drain can report failures
// without the caller re-deriving done/error bookkeeping.
type Sink struct {
	tasks chan *Task
	wg    sync.WaitGroup
}

// A Task is a handle to one unit of fanned-out work; Err is only valid
// after the task's Done channel has closed.
type Task struct {
	Done chan struct{}
	Err  error
}

func newTask() *Task {
	return &Task{Done: make(chan struct{})}
}

// finish records the task's outcome and wakes anyone waiting on Done.
func (t *Task) finish(err error) {
	t.Err = err
	close(t.Done)
}

// NewSink creates a task-publication channel; the top-level caller that
// creates a Sink is the one that must call Drain on it.
func NewSink() *Sink {
	return &Sink{tasks: make(chan *Task, 64)}
}

// Spawn submits f to run on pool and publishes its Task handle onto the
// sink, so the sink's owner can observe its completion even though f itself
// may publish further tasks onto the same sink before it returns.
func (s *Sink) Spawn(pool Pool, f func() error) {
	t := newTask()
	s.wg.Add(1)
	s.tasks <- t
	pool.Submit(func() {
		defer s.wg.Done()
		t.finish(f())
	})
}

// close closes the sink once the root task has returned and no further
// Spawn calls will occur. It must only be called by the sink's owner, after
// the producer side is quiescent.
func (s *Sink) close() {
	close(s.tasks)
}

// Drain joins every task published on the sink, including tasks spawned by
// tasks that were themselves still running when Drain started, and returns
// the first non-nil error encountered (if any). It blocks until the
// producer side has gone quiet: s.wg reaches zero and the channel is
// closed.
//
// The loop over s.tasks never blocks waiting on an individual task's Done
// channel: it only hands each task off to its own joiner goroutine and
// keeps consuming, so a full s.tasks buffer always drains regardless of how
// long any one task takes. Every failure past the first is still collected
// and reported together through rerr.Append as a diagnostic once Drain
// finishes, so stragglers that fail after cancellation was already
// triggered aren't silently dropped - they just never change the reported
// root cause.
func (s *Sink) Drain() error {
	go func() {
		s.wg.Wait()
		s.close()
	}()

	outcomes := make(chan error, 64)
	var joiners sync.WaitGroup
	for t := range s.tasks {
		joiners.Add(1)
		go func(t *Task) {
			defer joiners.Done()
			<-t.Done
			outcomes <- t.Err
		}(t)
	}
	go func() {
		joiners.Wait()
		close(outcomes)
	}()

	var firstErr error
	var stragglers []error
	for err := range outcomes {
		if err == nil {
			continue
		}
		if firstErr == nil {
			firstErr = err
			continue
		}
		stragglers = append(stragglers, err)
	}
	if len(stragglers) > 0 {
		log.Warning("%d further task(s) failed after the first error: %v", len(stragglers), rerr.Append(nil, stragglers...))
	}
	return firstErr
}
