package ports

// ParallelRunner abstracts the execution scheduler an encoder fans work out to.
type ParallelRunner interface {
	// Run executes fn for every index in [0, n) and blocks until all jobs
	// finished. It returns the first error reported by a job.
	Run(n int, fn func(i int) error) error

	// Workers returns the number of concurrent workers.
	Workers() int

	// Close releases the workers. Run fails after Close.
	Close() error
}
