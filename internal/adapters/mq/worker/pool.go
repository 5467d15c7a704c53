package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/okian/eventmatch/internal/adapters/mq/queue"
	"github.com/okian/eventmatch/internal/domain/matching"
	"github.com/okian/eventmatch/internal/domain/model"
	"github.com/okian/eventmatch/internal/domain/types"
	"github.com/okian/eventmatch/pkg/logger"
	"github.com/okian/eventmatch/pkg/metrics"
)

const (
	defaultWorkerMultiplier = 2
	defaultQueueCapacity    = 1024
)

// Pool ranks batches of preference sets on a fixed number of workers fed
// by a bounded queue.
type Pool struct {
	workerCount   int
	queueCapacity int
	ranker        Ranker
	logger        logger.Logger

	queue *queue.InMemoryQueue[*Job]

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
	err     error
}

// NewPool creates a pool. Call Start before Submit.
func NewPool(opts ...PoolOption) *Pool {
	p := &Pool{
		workerCount:   runtime.NumCPU() * defaultWorkerMultiplier,
		queueCapacity: defaultQueueCapacity,
		ranker:        RankerFunc(matching.Rank),
		done:          make(chan struct{}),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = logger.Get().Named("worker-pool")
	}

	p.queue = queue.NewInMemoryQueue[*Job](queue.WithCapacity(p.queueCapacity))
	return p
}

// Start launches the workers. The pool stops when ctx is canceled or Stop
// is called; either way the queue is closed once the workers have exited.
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return ErrPoolStarted
	}
	if p.queue.IsClosed() {
		return ErrPoolClosed
	}
	p.started = true

	ctx, p.cancel = context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < p.workerCount; i++ {
		w := NewInMemoryWorker(p.queue, p.ranker,
			WithName("worker-"+strconv.Itoa(i)),
			WithLogger(p.logger),
		)
		g.Go(func() error {
			w.Run(gctx)
			return nil
		})
	}
	metrics.UpdateWorkerCount(p.workerCount)

	go func() {
		err := g.Wait()
		metrics.UpdateWorkerCount(0)
		// Nobody reads the queue anymore; refuse further jobs.
		_ = p.queue.Close()
		p.mu.Lock()
		p.err = err
		p.mu.Unlock()
		close(p.done)
	}()

	p.logger.Info(ctx, "worker pool started",
		logger.Int("workers", p.workerCount),
		logger.Int("queue_capacity", p.queueCapacity),
	)
	return nil
}

// Stop closes the queue and waits for the workers to drain it. If ctx
// expires first the workers are canceled and queued jobs are dropped.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	started := p.started
	p.mu.Unlock()

	if err := p.queue.Close(); err != nil {
		return fmt.Errorf("close queue: %w", err)
	}
	if !started {
		return nil
	}

	select {
	case <-p.done:
	case <-ctx.Done():
		p.cancel()
		<-p.done
		p.logger.Warn(ctx, "worker pool stop timed out", logger.Error(ctx.Err()))
		return fmt.Errorf("stop worker pool: %w", ctx.Err())
	}
	p.cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.logger.Info(ctx, "worker pool stopped")
	return p.err
}

// Submit ranks pkgs against every set and returns the results in the
// order of sets. It fails with ErrBackpressure when the queue cannot take
// the whole batch and ErrPoolClosed once the pool is stopping. A batch is
// either queued whole or not at all.
func (p *Pool) Submit(ctx context.Context, sets []types.PreferenceSet, pkgs []model.Package) ([]types.RankingResult, error) {
	if len(sets) == 0 {
		return []types.RankingResult{}, nil
	}

	replies := make(chan reply, len(sets))
	if err := p.enqueueBatch(ctx, sets, pkgs, replies); err != nil {
		return nil, err
	}

	results := make([]types.RankingResult, len(sets))
	for received := 0; received < len(sets); received++ {
		select {
		case r := <-replies:
			results[r.index] = r.result
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-p.done:
			// Workers drain the queue before exiting, so whatever is left
			// is already buffered.
			for ; received < len(sets); received++ {
				select {
				case r := <-replies:
					results[r.index] = r.result
				default:
					return nil, ErrPoolClosed
				}
			}
			return results, nil
		}
	}
	return results, nil
}

// enqueueBatch queues one job per set. Submit is the only producer and
// holds p.mu here, so free capacity can only grow between the check and
// the last Enqueue.
func (p *Pool) enqueueBatch(ctx context.Context, sets []types.PreferenceSet, pkgs []model.Package, replies chan reply) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started || p.queue.IsClosed() {
		return ErrPoolClosed
	}
	select {
	case <-p.done:
		return ErrPoolClosed
	default:
	}

	if free := p.queue.Capacity() - p.queue.Len(); len(sets) > free {
		metrics.RecordQueueRejected()
		p.logger.Warn(ctx, "batch rejected, queue full",
			logger.Int("sets", len(sets)),
			logger.Int("free", free),
		)
		return ErrBackpressure
	}

	for i, set := range sets {
		job := &Job{Index: i, Set: set, Packages: pkgs, reply: replies}
		if err := p.queue.Enqueue(ctx, job); err != nil {
			switch {
			case errors.Is(err, queue.ErrFull):
				return ErrBackpressure
			case errors.Is(err, queue.ErrClosed):
				return ErrPoolClosed
			default:
				return fmt.Errorf("enqueue job %d: %w", i, err)
			}
		}
	}
	return nil
}

// Done is closed once every worker has exited.
func (p *Pool) Done() <-chan struct{} {
	return p.done
}

// WorkerCount returns the number of workers the pool runs.
func (p *Pool) WorkerCount() int {
	return p.workerCount
}

// QueueLen returns the number of jobs waiting for a worker.
func (p *Pool) QueueLen() int {
	return p.queue.Len()
}

// QueueCapacity returns the queue bound.
func (p *Pool) QueueCapacity() int {
	return p.queue.Capacity()
}
