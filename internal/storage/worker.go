package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/thisdougb/framemetrics/internal/config"
	"go.uber.org/zap"
)

var (
	ErrQueueFull     = errors.New("worker queue full")
	ErrWorkerStopped = errors.New("worker stopped")
)

// Task is a unit of write-path work run on the worker goroutine.
type Task func()

// Worker runs every submitted Task on a single goroutine, in submission
// order. It owns all file and ledger I/O so producers never block on it.
type Worker struct {
	tasks   chan Task
	mu      sync.RWMutex // guards started/stopped and sends on tasks
	started bool
	stopped bool
	done    chan struct{}
}

// NewWorker creates a worker with a bounded queue of queueSize tasks.
// Start must be called before tasks are executed.
func NewWorker(queueSize int) *Worker {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Worker{
		tasks: make(chan Task, queueSize),
		done:  make(chan struct{}),
	}
}

// Start launches the worker goroutine. Calling it again is a no-op.
func (w *Worker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started || w.stopped {
		return
	}
	w.started = true

	go w.processQueue()
}

// Submit queues task without blocking. It fails with ErrQueueFull when the
// queue is at capacity and ErrWorkerStopped after Stop.
func (w *Worker) Submit(task Task) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		return ErrWorkerStopped
	}

	select {
	case w.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// SubmitWait queues task, blocking while the queue is full. Used for
// open and close tasks, which must not be dropped.
func (w *Worker) SubmitWait(task Task) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		return ErrWorkerStopped
	}
	if !w.started && len(w.tasks) == cap(w.tasks) {
		return fmt.Errorf("submit to idle worker: %w", ErrQueueFull)
	}

	w.tasks <- task
	return nil
}

// Flush blocks until every task queued before the call has run.
func (w *Worker) Flush() {
	w.mu.RLock()
	started := w.started
	w.mu.RUnlock()
	if !started {
		return
	}

	barrier := make(chan struct{})
	if err := w.SubmitWait(func() { close(barrier) }); err != nil {
		return
	}
	<-barrier
}

// Pending returns the number of queued tasks.
func (w *Worker) Pending() int {
	return len(w.tasks)
}

// Stop refuses new tasks, runs everything already queued and waits for
// the worker goroutine to exit. Safe to call more than once.
func (w *Worker) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		<-w.done
		return
	}
	w.stopped = true
	started := w.started
	close(w.tasks)
	w.mu.Unlock()

	if !started {
		// never started, drain on the caller's goroutine
		w.processQueue()
	}
	<-w.done
}

// processQueue runs until the task channel is closed and drained.
func (w *Worker) processQueue() {
	defer close(w.done)

	for task := range w.tasks {
		w.run(task)
	}
}

// run executes one task, a panicking task must not take the worker down.
func (w *Worker) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			config.LogError(context.Background(), "worker task panicked", zap.Any("panic", r))
		}
	}()
	task()
}
