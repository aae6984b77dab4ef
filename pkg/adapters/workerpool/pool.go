// Package workerpool provides a fixed-size goroutine pool implementing
// ports.ParallelRunner.
package workerpool

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/user/pfmshot/pkg/ports"
)

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("workerpool: pool is closed")

// Pool runs batches of indexed jobs on a fixed number of workers.
type Pool struct {
	mu         sync.Mutex
	numWorkers int
	closed     bool
}

// New creates a pool. A non-positive numWorkers selects runtime.NumCPU().
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pool{numWorkers: numWorkers}
}

// Workers returns the number of concurrent workers.
func (p *Pool) Workers() int {
	return p.numWorkers
}

// Run executes fn for every index in [0, n) and waits for all of them.
// Once a job fails no further jobs are started and the first error is returned.
func (p *Pool) Run(n int, fn func(i int) error) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if n <= 0 {
		return nil
	}

	workers := p.numWorkers
	if workers > n {
		workers = n
	}

	jobs := make(chan int, n)
	errChan := make(chan error, workers)
	var failed sync.Once
	stop := make(chan struct{})

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				select {
				case <-stop:
					return
				default:
				}
				if err := fn(idx); err != nil {
					failed.Do(func() {
						errChan <- fmt.Errorf("job %d: %w", idx, err)
						close(stop)
					})
					return
				}
			}
		}()
	}

	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(errChan)

	return <-errChan
}

// Close marks the pool as closed. It is safe to call more than once.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Ensure Pool implements ports.ParallelRunner
var _ ports.ParallelRunner = (*Pool)(nil)
