// Package workpool runs indexed jobs on a bounded set of goroutines.
package workpool

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrStop can be returned by a job to end the run early without reporting
// a failure. Run returns it so callers can tell a stop from completion.
var ErrStop = errors.New("workpool: stopped")

// Pool distributes the indices 0..n-1 over a fixed number of workers.
type Pool struct {
	workers   int
	processed atomic.Int64
}

// New returns a pool with the given number of workers. Zero or a negative
// count means one worker per CPU.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{workers: workers}
}

// Workers returns the number of goroutines Run starts.
func (p *Pool) Workers() int { return p.workers }

// Processed returns the number of jobs finished by all Run calls.
func (p *Pool) Processed() int64 { return p.processed.Load() }

// Run calls fn for every index until all are done, ctx is cancelled or a
// job returns an error. The first error wins; remaining work is
// abandoned.
func (p *Pool) Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	work := make(chan int, p.workers*10)
	var (
		once     sync.Once
		firstErr error
		wg       sync.WaitGroup
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case i, ok := <-work:
					if !ok {
						return
					}
					err := fn(ctx, i)
					p.processed.Add(1)
					if err != nil {
						fail(err)
						return
					}
				}
			}
		}()
	}

	go func() {
		defer close(work)
		for i := 0; i < n; i++ {
			select {
			case <-ctx.Done():
				return
			case work <- i:
			}
		}
	}()

	wg.Wait()
	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}
