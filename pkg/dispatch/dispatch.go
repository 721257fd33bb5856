// Package dispatch runs fire-and-forget background tasks on a bounded worker pool.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrStopped is returned by Shutdown when the dispatcher was already stopped
var ErrStopped = errors.New("dispatch: dispatcher stopped")

// Task is one unit of background work
type Task struct {
	Name string
	Run  func(ctx context.Context) error
	// Fields are attached to the log lines of this task
	Fields map[string]string
}

// Options configures a Dispatcher
type Options struct {
	Workers     int
	QueueSize   int
	TaskTimeout time.Duration
}

// Dispatcher executes submitted tasks on a fixed set of workers. Submit never blocks;
// failures and panics are logged and never reach the submitter.
type Dispatcher struct {
	jobs    chan Task
	timeout time.Duration
	log     zerolog.Logger

	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
}

// New starts a dispatcher with opts.Workers workers
func New(opts Options, log zerolog.Logger) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.TaskTimeout <= 0 {
		opts.TaskTimeout = 30 * time.Second
	}

	base, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		jobs:    make(chan Task, opts.QueueSize),
		timeout: opts.TaskTimeout,
		log:     log,
		base:    base,
		cancel:  cancel,
	}

	for w := 0; w < opts.Workers; w++ {
		d.wg.Add(1)
		go func(workerID int) {
			defer d.wg.Done()
			for task := range d.jobs {
				d.run(workerID, task)
			}
		}(w)
	}
	return d
}

// Submit queues a task. It returns false when the queue is full or the dispatcher is stopped.
func (d *Dispatcher) Submit(task Task) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.event(d.log.Warn(), task).Msg("dispatcher stopped, dropping task")
		return false
	}

	select {
	case d.jobs <- task:
		return true
	default:
		d.event(d.log.Warn(), task).Msg("task queue full, dropping task")
		return false
	}
}

// Shutdown stops accepting tasks and waits for queued ones to finish or ctx to expire.
// In-flight tasks see their context cancelled when ctx expires.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return ErrStopped
	}
	d.stopped = true
	close(d.jobs)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}

func (d *Dispatcher) run(workerID int, task Task) {
	ctx, cancel := context.WithTimeout(d.base, d.timeout)
	defer cancel()

	start := time.Now()
	err := safeRun(ctx, task)

	ev := d.event(d.log.Debug(), task)
	if err != nil {
		ev = d.event(d.log.Error(), task).Err(err)
	}
	ev.Int("worker", workerID).Dur("elapsed", time.Since(start)).Msg("task finished")
}

func (d *Dispatcher) event(ev *zerolog.Event, task Task) *zerolog.Event {
	ev = ev.Str("task", task.Name)
	for k, v := range task.Fields {
		ev = ev.Str(k, v)
	}
	return ev
}

func safeRun(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panicked: %v", task.Name, r)
		}
	}()
	return task.Run(ctx)
}
