// Package service wires the package catalog, the matching engine and the
// batch worker pool into the operations the HTTP API and CLI expose.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	workerpool "github.com/okian/eventmatch/internal/adapters/mq/worker"
	repository "github.com/okian/eventmatch/internal/adapters/repository"
	"github.com/okian/eventmatch/internal/domain/matching"
	"github.com/okian/eventmatch/internal/domain/model"
	"github.com/okian/eventmatch/internal/domain/types"
	"github.com/okian/eventmatch/pkg/logger"
	"github.com/okian/eventmatch/pkg/metrics"
)

// Default service configuration.
const (
	defaultBatchQueueSize = 1024
	defaultMaxBatchSize   = 64
	defaultMaxMatchLimit  = 100
)

// Service implements the API dependencies for package matching.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalog repository.Store
	pool    *workerpool.Pool

	// Configuration
	workerCount    int
	batchQueueSize int
	maxBatchSize   int
	maxMatchLimit  int
	seed           []model.Package

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service. The catalog is usable immediately; batch
// matching needs Start.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    runtime.NumCPU() * 2,
		batchQueueSize: defaultBatchQueueSize,
		maxBatchSize:   defaultMaxBatchSize,
		maxMatchLimit:  defaultMaxMatchLimit,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	ctx := context.Background()
	if s.catalog == nil {
		store := repository.NewMemoryStore(repository.WithPackages(s.seed))
		for _, err := range store.Seeded() {
			s.logger.Warn(ctx, "skipping catalog package", logger.Error(err))
		}
		s.catalog = store
		s.seed = nil
	}
	s.loadSeed(ctx)

	return s
}

// loadSeed upserts seed packages into a catalog supplied through WithCatalog.
func (s *Service) loadSeed(ctx context.Context) {
	for _, pkg := range s.seed {
		if _, _, err := s.catalog.Upsert(ctx, pkg); err != nil {
			s.logger.Warn(ctx, "skipping catalog package",
				logger.String("id", pkg.ID),
				logger.String("name", pkg.Name),
				logger.Error(err),
			)
		}
	}
	s.seed = nil
}

// Start starts the batch worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting matching service...")

	pool := workerpool.NewPool(
		workerpool.WithWorkerCount(s.workerCount),
		workerpool.WithQueueCapacity(s.batchQueueSize),
		workerpool.WithPoolLogger(s.logger.Named("pool")),
	)
	// Workers outlive the start context; Stop is the only way to end them.
	if err := pool.Start(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("start worker pool: %w", err)
	}
	s.pool = pool

	s.started = true
	s.logger.Info(ctx, "matching service started",
		logger.Int("workers", s.workerCount),
		logger.Int("batchQueueSize", s.batchQueueSize),
		logger.Int("packages", s.catalog.Count(ctx)),
	)

	return nil
}

// Stop drains the worker pool and shuts the service down.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.logger.Info(ctx, "stopping matching service...")

	err := s.pool.Stop(ctx)
	s.pool = nil
	s.started = false

	if err != nil {
		s.logger.Error(ctx, "worker pool did not stop cleanly", logger.Error(err))
		return err
	}
	s.logger.Info(ctx, "matching service stopped")
	return nil
}

// ListPackages returns the catalog ordered by id.
func (s *Service) ListPackages(ctx context.Context) ([]model.Package, error) {
	return s.catalog.List(ctx)
}

// GetPackage returns one catalog package.
func (s *Service) GetPackage(ctx context.Context, id string) (model.Package, error) {
	return s.catalog.Get(ctx, id)
}

// PutPackage creates or replaces a catalog package. created reports whether
// the id was new.
func (s *Service) PutPackage(ctx context.Context, pkg model.Package) (model.Package, bool, error) {
	stored, created, err := s.catalog.Upsert(ctx, pkg)
	if err != nil {
		return model.Package{}, false, err
	}
	s.logger.Debug(ctx, "catalog package stored",
		logger.String("id", stored.ID),
		logger.Bool("created", created),
	)
	return stored, created, nil
}

// DeletePackage removes a catalog package.
func (s *Service) DeletePackage(ctx context.Context, id string) error {
	if err := s.catalog.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Debug(ctx, "catalog package deleted", logger.String("id", id))
	return nil
}

// Match ranks the whole catalog against prefs. A positive limit trims the
// returned packages; the best match and average still cover the catalog.
func (s *Service) Match(ctx context.Context, prefs model.Preferences, limit int) (matching.Ranking, error) {
	if limit < 0 || limit > s.maxMatchLimit {
		return matching.Ranking{}, fmt.Errorf("%w: %d not within [0, %d]", ErrInvalidLimit, limit, s.maxMatchLimit)
	}

	pkgs, err := s.catalog.List(ctx)
	if err != nil {
		return matching.Ranking{}, fmt.Errorf("list catalog: %w", err)
	}

	start := time.Now()
	ranking := matching.Rank(pkgs, prefs)
	recordRanking(time.Since(start), ranking)

	s.logger.Debug(ctx, "ranked catalog",
		logger.Int("packages", len(ranking.Packages)),
		logger.Int("average_score", ranking.AverageScore),
		logger.Bool("has_best_match", ranking.HasBestMatch),
	)

	return ranking.Top(limit), nil
}

// ScorePackage returns the score breakdown of one catalog package.
func (s *Service) ScorePackage(ctx context.Context, id string, prefs model.Preferences) (matching.Breakdown, error) {
	pkg, err := s.catalog.Get(ctx, id)
	if err != nil {
		return matching.Breakdown{}, err
	}
	b := matching.ScoreBreakdown(pkg, prefs)
	metrics.RecordPackageScored(b.TotalScore)
	return b, nil
}

// MatchBatch ranks the catalog against every set on the worker pool.
// Results keep the order of sets.
func (s *Service) MatchBatch(ctx context.Context, sets []types.PreferenceSet) ([]types.RankingResult, error) {
	if len(sets) > s.maxBatchSize {
		return nil, fmt.Errorf("%w: %d sets, at most %d allowed", ErrBatchTooLarge, len(sets), s.maxBatchSize)
	}

	s.mu.RLock()
	pool := s.pool
	s.mu.RUnlock()
	if pool == nil {
		return nil, ErrNotStarted
	}

	pkgs, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}

	results, err := pool.Submit(ctx, sets, pkgs)
	if err != nil {
		s.logger.Warn(ctx, "batch match failed",
			logger.Strings("sets", types.Names(sets)),
			logger.Error(err),
		)
		return nil, err
	}
	return results, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	packages := s.catalog.Count(ctx)
	stats := map[string]interface{}{
		"started":        s.started,
		"workerCount":    s.workerCount,
		"batchQueueSize": s.batchQueueSize,
		"maxBatchSize":   s.maxBatchSize,
		"maxMatchLimit":  s.maxMatchLimit,
		"totalPackages":  packages,
	}
	metrics.UpdateCatalogPackages(packages)

	if s.started {
		stats["queueLength"] = s.pool.QueueLen()
	}

	return stats
}

func recordRanking(elapsed time.Duration, r matching.Ranking) {
	scores := make([]int, len(r.Packages))
	for i, sp := range r.Packages {
		scores[i] = sp.MatchScore
	}
	metrics.RecordRanking(float64(elapsed.Microseconds())/1000, scores, r.AverageScore, r.HasBestMatch)
}
