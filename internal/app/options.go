package service

import (
	repository "github.com/okian/eventmatch/internal/adapters/repository"
	"github.com/okian/eventmatch/internal/domain/model"
	"github.com/okian/eventmatch/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of batch ranking workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithBatchQueueSize bounds how many preference sets may wait for a worker.
func WithBatchQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.batchQueueSize = size
		}
	}
}

// WithMaxBatchSize caps the number of preference sets in one batch request.
func WithMaxBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.maxBatchSize = size
		}
	}
}

// WithMaxMatchLimit caps the limit a match request may ask for.
func WithMaxMatchLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxMatchLimit = limit
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCatalog replaces the in-memory catalog.
func WithCatalog(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.catalog = store
		}
	}
}

// WithSeedPackages loads pkgs into the catalog when the service is built.
// Invalid packages are logged and skipped.
func WithSeedPackages(pkgs []model.Package) Option {
	return func(s *Service) {
		s.seed = append(s.seed, pkgs...)
	}
}
