// Package repository holds the package catalog the matcher ranks against.
package repository

import (
	"context"

	"github.com/okian/eventmatch/internal/domain/model"
)

// Store provides read/write access to the package catalog.
type Store interface {
	// Upsert inserts or replaces a package. An empty ID gets a generated one.
	// Returns the stored package and whether it was newly created.
	Upsert(ctx context.Context, pkg model.Package) (model.Package, bool, error)

	// Get returns the package with id, or ErrNotFound.
	Get(ctx context.Context, id string) (model.Package, error)

	// Delete removes the package with id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// List returns every package ordered by ID.
	List(ctx context.Context) ([]model.Package, error)

	// Count returns the number of packages in the catalog.
	Count(ctx context.Context) int
}
