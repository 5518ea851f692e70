// Package workerpool runs batches of wine invocations with a bounded number
// of concurrent processes.
package workerpool

import (
	"context"
	"runtime"
	"sync"

	"github.com/terrorizer1980/librarywine/pkg/wine"
)

// Job is one invocation queued on the pool. Index is the caller's position
// for the job and is copied to its Result.
type Job struct {
	Index      int
	Invocation wine.Invocation
}

// Result pairs a job with the outcome of running it.
type Result struct {
	Job    Job
	Result wine.Result
	Err    error
}

// ExecutorFunc runs one invocation. (*wine.Executor).Execute satisfies it;
// tests inject fakes.
type ExecutorFunc func(ctx context.Context, inv wine.Invocation) (wine.Result, error)

// Pool manages a bounded set of workers that process Jobs.
type Pool struct {
	concurrency int
	executor    ExecutorFunc
	jobs        chan Job
	results     chan Result
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	startOnce   sync.Once
	closeOnce   sync.Once
}

// NewPool creates a worker pool with the given concurrency limit.
// If concurrency <= 0, it defaults to runtime.NumCPU().
func NewPool(ctx context.Context, concurrency int, executor ExecutorFunc) *Pool {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		concurrency: concurrency,
		executor:    executor,
		jobs:        make(chan Job, concurrency*2),
		results:     make(chan Result, concurrency*2),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// start launches the worker goroutines (called once).
func (p *Pool) start() {
	for i := 0; i < p.concurrency; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	// Close results channel when all workers finish.
	go func() {
		p.wg.Wait()
		close(p.results)
	}()
}

// worker pulls jobs from the channel and executes them. Jobs dequeued after
// Cancel are reported with the context error instead of being launched.
func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		if err := p.ctx.Err(); err != nil {
			p.results <- Result{Job: job, Err: err}
			continue
		}
		res, err := p.executor(p.ctx, job.Invocation)
		p.results <- Result{Job: job, Result: res, Err: err}
	}
}

// Submit adds an invocation to the work queue. It starts workers on first
// call and blocks if the job buffer is full.
func (p *Pool) Submit(index int, inv wine.Invocation) {
	p.startOnce.Do(p.start)
	p.jobs <- Job{Index: index, Invocation: inv}
}

// Results returns the channel from which completed results can be read.
// The channel is closed once Shutdown has been called and all jobs finished.
func (p *Pool) Results() <-chan Result {
	p.startOnce.Do(p.start)
	return p.results
}

// Shutdown signals that no more jobs will be submitted and waits for
// in-flight work. Results must be drained concurrently.
func (p *Pool) Shutdown() {
	p.startOnce.Do(p.start)
	p.closeOnce.Do(func() { close(p.jobs) })
	p.wg.Wait()
}

// Cancel terminates the pool context. Running processes are killed and
// queued jobs are skipped.
func (p *Pool) Cancel() {
	p.cancel()
}

// Run submits every invocation, waits for all of them and returns the
// results in submission order.
func Run(ctx context.Context, concurrency int, executor ExecutorFunc, invs []wine.Invocation) []Result {
	pool := NewPool(ctx, concurrency, executor)
	defer pool.Cancel()

	go func() {
		for i, inv := range invs {
			pool.Submit(i, inv)
		}
		pool.Shutdown()
	}()

	out := make([]Result, len(invs))
	for r := range pool.Results() {
		out[r.Job.Index] = r
	}
	return out
}
