package mocks

import (
	"sync"

	"github.com/user/pfmshot/pkg/ports"
)

// ParallelRunner is a mock implementation of ports.ParallelRunner.
// Jobs run sequentially on the calling goroutine unless RunFunc is set.
type ParallelRunner struct {
	mu sync.Mutex

	RunFunc   func(n int, fn func(i int) error) error
	CloseFunc func() error
	NumWorker int

	// Recorded calls for verification
	RunCalls   []int
	CloseCalls int
}

func (m *ParallelRunner) Run(n int, fn func(i int) error) error {
	m.mu.Lock()
	m.RunCalls = append(m.RunCalls, n)
	m.mu.Unlock()
	if m.RunFunc != nil {
		return m.RunFunc(n, fn)
	}
	for i := 0; i < n; i++ {
		if err := fn(i); err != nil {
			return err
		}
	}
	return nil
}

func (m *ParallelRunner) Workers() int {
	if m.NumWorker > 0 {
		return m.NumWorker
	}
	return 1
}

func (m *ParallelRunner) Close() error {
	m.mu.Lock()
	m.CloseCalls++
	m.mu.Unlock()
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

var _ ports.ParallelRunner = (*ParallelRunner)(nil)
