// Package worker provides a worker pool for running tasks in parallel.
package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc/panics"
)

// Task represents a task to be executed by a worker.
type Task interface {
	Execute(ctx context.Context) error
	ID() string
}

// Result contains the result of a task execution.
type Result struct {
	TaskID string
	Error  error
}

// PanicError is the result error of a task that panicked.
type PanicError struct {
	TaskID string
	Value  any
	Stack  []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task %s panicked: %v", e.TaskID, e.Value)
}

// Pool manages a pool of workers for parallel processing.
type Pool struct {
	workers   int
	tasks     chan Task
	results   chan Result
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	started   atomic.Bool
	processed atomic.Int64
	errors    atomic.Int64
}

// Config configures the worker pool.
type Config struct {
	Workers   int // Number of workers (default: 1)
	QueueSize int // Size of task and result queues (default: workers * 2)
}

// NewPool creates a new worker pool. Tasks receive a context derived from ctx.
func NewPool(ctx context.Context, cfg Config) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = cfg.Workers * 2
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers: cfg.Workers,
		tasks:   make(chan Task, cfg.QueueSize),
		results: make(chan Result, cfg.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start starts the worker pool.
func (p *Pool) Start() {
	if p.started.Swap(true) {
		return
	}

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return

		case task, ok := <-p.tasks:
			if !ok {
				return
			}

			err := p.execute(task)

			p.processed.Add(1)
			if err != nil {
				p.errors.Add(1)
			}

			select {
			case p.results <- Result{TaskID: task.ID(), Error: err}:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

func (p *Pool) execute(task Task) (err error) {
	var catcher panics.Catcher
	catcher.Try(func() {
		err = task.Execute(p.ctx)
	})
	if rec := catcher.Recovered(); rec != nil {
		return &PanicError{TaskID: task.ID(), Value: rec.Value, Stack: rec.Stack}
	}
	return err
}

// Submit submits a task to the pool.
func (p *Pool) Submit(task Task) error {
	if !p.started.Load() {
		return fmt.Errorf("pool not started")
	}

	select {
	case p.tasks <- task:
		return nil
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

// Results returns the results channel.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// StopWait stops accepting tasks and waits for queued ones to complete.
func (p *Pool) StopWait() {
	close(p.tasks)
	p.wg.Wait()
	p.cancel()
	close(p.results)
}

// Stats returns pool statistics.
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:   p.workers,
		Processed: p.processed.Load(),
		Errors:    p.errors.Load(),
		Pending:   len(p.tasks),
	}
}

// Stats contains pool statistics.
type Stats struct {
	Workers   int
	Processed int64
	Errors    int64
	Pending   int
}

// String returns a string representation of the stats.
func (s Stats) String() string {
	return fmt.Sprintf("workers=%d processed=%d errors=%d pending=%d",
		s.Workers, s.Processed, s.Errors, s.Pending)
}

// RunAll executes every task and waits for all of them. At most maxWorkers run
// at once; zero or less means all tasks start together. Results are returned in
// task order.
func RunAll(ctx context.Context, tasks []Task, maxWorkers int) ([]Result, Stats) {
	if len(tasks) == 0 {
		return nil, Stats{}
	}
	workers := len(tasks)
	if maxWorkers > 0 && maxWorkers < workers {
		workers = maxWorkers
	}

	pool := NewPool(ctx, Config{Workers: workers, QueueSize: len(tasks)})
	pool.Start()

	for i, t := range tasks {
		// The queue holds every task, so Submit does not block.
		if err := pool.Submit(&indexedTask{Task: t, index: i}); err != nil {
			pool.results <- Result{TaskID: indexedID(i, t), Error: err}
		}
	}
	pool.StopWait()

	results := make([]Result, len(tasks))
	seen := make([]bool, len(tasks))
	for r := range pool.Results() {
		i, id := splitIndexedID(r.TaskID)
		r.TaskID = id
		if pe, ok := r.Error.(*PanicError); ok {
			pe.TaskID = id
		}
		results[i] = r
		seen[i] = true
	}

	// Workers stop picking up tasks once ctx is done.
	for i, ok := range seen {
		if !ok {
			err := ctx.Err()
			if err == nil {
				err = fmt.Errorf("task %s did not run", tasks[i].ID())
			}
			results[i] = Result{TaskID: tasks[i].ID(), Error: err}
		}
	}
	return results, pool.Stats()
}
