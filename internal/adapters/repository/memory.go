package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/okian/eventmatch/internal/domain/model"
	"github.com/okian/eventmatch/pkg/metrics"
)

// MemoryStore is an in-memory Store. Packages are copied on the way in and
// out so callers never share tag slices with the catalog.
type MemoryStore struct {
	mu       sync.RWMutex
	packages map[string]model.Package
	newID    func() string

	seed    []model.Package
	skipped []error
}

// NewMemoryStore creates an empty catalog, optionally seeded.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		packages: make(map[string]model.Package),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, p := range s.seed {
		if _, _, err := s.upsert(p); err != nil {
			s.skipped = append(s.skipped, fmt.Errorf("seed package %q (%s): %w", p.ID, p.Name, err))
		}
	}
	s.seed = nil
	metrics.UpdateCatalogPackages(len(s.packages))
	return s
}

// Seeded returns the errors for seed packages that were rejected.
func (s *MemoryStore) Seeded() []error {
	return slices.Clone(s.skipped)
}

// Upsert implements Store.
func (s *MemoryStore) Upsert(_ context.Context, pkg model.Package) (model.Package, bool, error) {
	metrics.RecordCatalogOperation("upsert")
	stored, created, err := s.upsert(pkg)
	if err != nil {
		metrics.RecordCatalogError("upsert")
		return model.Package{}, false, err
	}
	metrics.UpdateCatalogPackages(s.Count(context.Background()))
	return stored, created, nil
}

func (s *MemoryStore) upsert(pkg model.Package) (model.Package, bool, error) {
	if err := pkg.Validate(); err != nil {
		return model.Package{}, false, err
	}
	pkg = pkg.Clone()
	pkg.ID = strings.TrimSpace(pkg.ID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if pkg.ID == "" {
		pkg.ID = s.newID()
	}
	_, exists := s.packages[pkg.ID]
	s.packages[pkg.ID] = pkg
	return pkg.Clone(), !exists, nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (model.Package, error) {
	metrics.RecordCatalogOperation("get")
	s.mu.RLock()
	defer s.mu.RUnlock()

	pkg, ok := s.packages[id]
	if !ok {
		metrics.RecordCatalogError("get")
		return model.Package{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return pkg.Clone(), nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	metrics.RecordCatalogOperation("delete")
	s.mu.Lock()
	_, ok := s.packages[id]
	delete(s.packages, id)
	n := len(s.packages)
	s.mu.Unlock()

	if !ok {
		metrics.RecordCatalogError("delete")
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	metrics.UpdateCatalogPackages(n)
	return nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context) ([]model.Package, error) {
	metrics.RecordCatalogOperation("list")
	s.mu.RLock()
	out := make([]model.Package, 0, len(s.packages))
	for _, p := range s.packages {
		out = append(out, p.Clone())
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b model.Package) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.packages)
}
