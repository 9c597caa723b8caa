package parallel

import (
	"context"
	"runtime"
	"sync"

	"github.com/YuminosukeSato/interactlab/pkg/errors"
	"github.com/YuminosukeSato/interactlab/pkg/log"
)

// ErrPoolClosed is returned when work is submitted to a closed Pool.
var ErrPoolClosed = errors.New("parallel: pool is closed")

// Pool is a fixed-size worker pool with an explicit lifecycle.
//
//	pool := parallel.NewPool(4)
//	defer pool.Close()
//	for i := range jobs {
//	    _ = pool.Go(func() error { return work(i) })
//	}
//	err := pool.Wait()
//
// Tasks that panic are reported as *errors.PanicError. A Pool may be shared:
// ForEach calls track their own tasks and errors, while Go and Wait share
// one pool-wide batch.
type Pool struct {
	tasks   chan task
	workers int
	logger  log.Logger

	submitMu sync.RWMutex // guards closed and sends on tasks
	closed   bool

	pending sync.WaitGroup
	running sync.WaitGroup

	errMu    sync.Mutex
	firstErr error
}

// task は実行する関数と、その結果を受け取るコールバックの組
type task struct {
	fn   func() error
	done func(err error)
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithPoolLogger sets the logger used for task failures.
func WithPoolLogger(logger log.Logger) PoolOption {
	return func(p *Pool) {
		p.logger = logger
	}
}

// NewPool starts workers goroutines. workers <= 0 means runtime.NumCPU().
func NewPool(workers int, opts ...PoolOption) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Pool{
		tasks:   make(chan task, workers),
		workers: workers,
		logger:  log.GetLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.running.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work(i)
	}
	p.logger.Debug("worker pool started", log.WorkersKey, workers)
	return p
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.workers
}

// submit queues t. before runs under the submit lock once the pool is known
// to be open, so a closed pool never sees a half-registered task.
func (p *Pool) submit(t task, before func()) error {
	p.submitMu.RLock()
	defer p.submitMu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	before()
	p.tasks <- t
	return nil
}

// Go submits fn to the pool-wide batch collected by Wait. It blocks while
// every worker is busy and the queue is full.
func (p *Pool) Go(fn func() error) error {
	return p.submit(task{fn: fn, done: p.finish}, func() { p.pending.Add(1) })
}

func (p *Pool) finish(err error) {
	if err != nil {
		p.errMu.Lock()
		if p.firstErr == nil {
			p.firstErr = err
		}
		p.errMu.Unlock()
	}
	p.pending.Done()
}

// ForEach runs fn(i) for i in [0, n) on the pool and waits for those calls
// only. Errors from other users of the pool are never returned. Indices not
// yet submitted when ctx is cancelled are skipped and ctx.Err() is returned
// unless a task already failed.
func (p *Pool) ForEach(ctx context.Context, n int, fn func(i int) error) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	done := func(err error) {
		if err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
		}
		wg.Done()
	}

	var stopErr error
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			stopErr = err
			break
		}
		i := i
		t := task{fn: func() error { return fn(i) }, done: done}
		if err := p.submit(t, func() { wg.Add(1) }); err != nil {
			stopErr = err
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return stopErr
}

// Wait blocks until every task submitted with Go finished and returns the
// first of their errors since the previous Wait.
func (p *Pool) Wait() error {
	p.pending.Wait()

	p.errMu.Lock()
	defer p.errMu.Unlock()
	err := p.firstErr
	p.firstErr = nil
	return err
}

// Close stops accepting work, lets queued tasks finish and stops the workers.
// It is safe to call more than once.
func (p *Pool) Close() {
	p.submitMu.Lock()
	if p.closed {
		p.submitMu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.submitMu.Unlock()

	p.running.Wait()
	p.logger.Debug("worker pool stopped", log.WorkersKey, p.workers)
}

func (p *Pool) work(id int) {
	defer p.running.Done()
	for t := range p.tasks {
		err := errors.SafeExecute("parallel.Pool", t.fn)
		if err != nil {
			p.logger.Debug("task failed", err, "worker", id)
		}
		t.done(err)
	}
}
