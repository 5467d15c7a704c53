// Package worker runs batch ranking jobs on a bounded pool of goroutines.
package worker

import (
	"github.com/okian/eventmatch/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// PoolOption applies a configuration option to the Pool.
type PoolOption func(*Pool)

// WithWorkerCount sets how many workers the pool runs.
func WithWorkerCount(n int) PoolOption {
	return func(p *Pool) {
		if n > 0 {
			p.workerCount = n
		}
	}
}

// WithQueueCapacity bounds how many jobs may wait for a worker.
func WithQueueCapacity(n int) PoolOption {
	return func(p *Pool) {
		if n > 0 {
			p.queueCapacity = n
		}
	}
}

// WithRanker replaces the ranking function the workers call.
func WithRanker(r Ranker) PoolOption {
	return func(p *Pool) {
		if r != nil {
			p.ranker = r
		}
	}
}

// WithPoolLogger sets the logger for the pool and its workers.
func WithPoolLogger(l logger.Logger) PoolOption {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}
