package worker

import (
	"context"
	"time"

	"github.com/okian/eventmatch/internal/domain/matching"
	"github.com/okian/eventmatch/internal/domain/model"
	"github.com/okian/eventmatch/internal/domain/types"
	"github.com/okian/eventmatch/pkg/logger"
	"github.com/okian/eventmatch/pkg/metrics"
)

// Ranker ranks a catalog snapshot against one set of preferences.
type Ranker interface {
	Rank(pkgs []model.Package, prefs model.Preferences) matching.Ranking
}

// RankerFunc adapts a plain function to Ranker.
type RankerFunc func(pkgs []model.Package, prefs model.Preferences) matching.Ranking

// Rank calls f.
func (f RankerFunc) Rank(pkgs []model.Package, prefs model.Preferences) matching.Ranking {
	return f(pkgs, prefs)
}

// Job is one preference set waiting to be ranked. Packages is a read-only
// snapshot shared by every job of the same batch.
type Job struct {
	Index    int
	Set      types.PreferenceSet
	Packages []model.Package

	reply chan<- reply
}

type reply struct {
	index  int
	result types.RankingResult
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue() <-chan *Job
}

// InMemoryWorker pulls jobs off a queue and ranks them.
type InMemoryWorker struct {
	queue  Queue
	ranker Ranker
	name   string
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, ranker Ranker, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:  queue,
		ranker: ranker,
		name:   "worker",
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.logger == nil {
		w.logger = logger.Get()
	}
	w.logger = w.logger.Named(w.name)

	return w
}

// Run processes jobs until ctx is canceled or the queue is closed and
// drained.
func (w *InMemoryWorker) Run(ctx context.Context) {
	jobs := w.queue.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			metrics.UpdateQueueSize(len(jobs))
			w.process(ctx, job)
		}
	}
}

func (w *InMemoryWorker) process(ctx context.Context, job *Job) {
	start := time.Now()
	ranking := w.ranker.Rank(job.Packages, job.Set.Preferences)
	elapsed := time.Since(start)
	latencyMs := float64(elapsed.Microseconds()) / 1000

	scores := make([]int, len(ranking.Packages))
	for i, sp := range ranking.Packages {
		scores[i] = sp.MatchScore
	}
	metrics.RecordWorkerJob(latencyMs)
	metrics.RecordRanking(latencyMs, scores, ranking.AverageScore, ranking.HasBestMatch)

	w.logger.Debug(ctx, "ranked preference set",
		logger.String("set", job.Set.Name),
		logger.Int("packages", len(ranking.Packages)),
		logger.Int("average_score", ranking.AverageScore),
		logger.Duration("took", elapsed),
	)

	// reply is buffered for the whole batch, so this never blocks.
	job.reply <- reply{
		index:  job.Index,
		result: types.RankingResult{Name: job.Set.Name, Ranking: ranking},
	}
}
