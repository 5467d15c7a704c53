package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/eventmatch/internal/domain/model"
)

func samplePackage(id string) model.Package {
	return model.Package{
		ID:                  id,
		Name:                "Package " + id,
		IdealGatheringSizes: []string{"party"},
		IdealEnergyLevels:   []string{"moderate"},
		IdealVibes:          []string{"nightlife"},
		Rating:              4.2,
		ReviewCount:         10,
	}
}

func TestMemoryStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	stored, created, err := store.Upsert(ctx, samplePackage("b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected first upsert to create")
	}
	if stored.ID != "b" {
		t.Errorf("expected id b, got %s", stored.ID)
	}

	got, err := store.Get(ctx, "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Package b" {
		t.Errorf("expected name 'Package b', got %q", got.Name)
	}

	if _, _, err := store.Upsert(ctx, samplePackage("a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "b" {
		t.Errorf("expected [a b] ordered by id, got %+v", list)
	}

	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}
}

func TestMemoryStore_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, _, err := store.Upsert(ctx, samplePackage("p")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	updated := samplePackage("p")
	updated.Rating = 1.5
	_, created, err := store.Upsert(ctx, updated)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected second upsert to replace, not create")
	}
	got, _ := store.Get(ctx, "p")
	if got.Rating != 1.5 {
		t.Errorf("expected rating 1.5, got %f", got.Rating)
	}
	if store.Count(ctx) != 1 {
		t.Errorf("expected count 1, got %d", store.Count(ctx))
	}
}

func TestMemoryStore_GeneratesIDs(t *testing.T) {
	ctx := context.Background()
	n := 0
	store := NewMemoryStore(WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}))

	pkg := samplePackage("  ")
	stored, created, err := store.Upsert(ctx, pkg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created || stored.ID != "gen-1" {
		t.Errorf("expected generated id gen-1, got %q (created=%v)", stored.ID, created)
	}

	// Default generator produces uuids.
	stored, _, err = NewMemoryStore().Upsert(ctx, samplePackage(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stored.ID) != 36 {
		t.Errorf("expected uuid id, got %q", stored.ID)
	}
}

func TestMemoryStore_Errors(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	bad := samplePackage("bad")
	bad.Rating = 9
	if _, _, err := store.Upsert(ctx, bad); !errors.Is(err, model.ErrInvalidPackage) {
		t.Errorf("expected ErrInvalidPackage, got %v", err)
	}
	if store.Count(ctx) != 0 {
		t.Error("invalid package must not be stored")
	}
}

func TestMemoryStore_CopiesPackages(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	pkg := samplePackage("p")
	if _, _, err := store.Upsert(ctx, pkg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pkg.IdealVibes[0] = "changed by caller"

	got, _ := store.Get(ctx, "p")
	if got.IdealVibes[0] != "nightlife" {
		t.Errorf("store shares slices with the caller: %v", got.IdealVibes)
	}
	got.IdealVibes[0] = "changed by reader"

	again, _ := store.Get(ctx, "p")
	if again.IdealVibes[0] != "nightlife" {
		t.Errorf("store shares slices with readers: %v", again.IdealVibes)
	}
}

func TestMemoryStore_Seed(t *testing.T) {
	ctx := context.Background()
	bad := samplePackage("bad")
	bad.Name = ""

	store := NewMemoryStore(WithPackages([]model.Package{samplePackage("a"), bad, samplePackage("b")}))

	if store.Count(ctx) != 2 {
		t.Errorf("expected 2 seeded packages, got %d", store.Count(ctx))
	}
	skipped := store.Seeded()
	if len(skipped) != 1 || !errors.Is(skipped[0], model.ErrInvalidPackage) {
		t.Errorf("expected one invalid seed, got %v", skipped)
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("p-%02d", i)
			if _, _, err := store.Upsert(ctx, samplePackage(id)); err != nil {
				t.Errorf("upsert %s: %v", id, err)
			}
			_, _ = store.List(ctx)
			_, _ = store.Get(ctx, id)
		}(i)
	}
	wg.Wait()

	if store.Count(ctx) != 50 {
		t.Errorf("expected 50 packages, got %d", store.Count(ctx))
	}
}
