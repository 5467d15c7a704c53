package repository

import "github.com/okian/eventmatch/internal/domain/model"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithIDGenerator replaces the uuid-based ID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *MemoryStore) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithPackages seeds the store. Invalid packages are skipped and reported
// by Seeded.
func WithPackages(pkgs []model.Package) Option {
	return func(s *MemoryStore) {
		s.seed = append(s.seed, pkgs...)
	}
}
