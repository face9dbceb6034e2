package reconcile

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// Indices are the loaded sets of one spec.
type Indices struct {
	Exported  Set
	Generated Set
	Published Set
	Built     time.Time
}

// BuildIndices loads every source of spec concurrently.
func BuildIndices(ctx context.Context, spec *Spec) (*Indices, error) {
	idx := &Indices{Published: Set{}}

	g, ctx := errgroup.WithContext(ctx)
	load := func(name string, l Loader, dst *Set) {
		g.Go(func() error {
			set, err := l(ctx)
			if err != nil {
				return fmt.Errorf("failed to load %s index: %w", name, err)
			}
			if set == nil {
				set = Set{}
			}
			*dst = set
			return nil
		})
	}

	load("exported", spec.Exported, &idx.Exported)
	load("generated", spec.Generated, &idx.Generated)
	if spec.Publishing() {
		load("published", spec.Published, &idx.Published)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	idx.Built = time.Now()
	return idx, nil
}

// ReconcileAll returns one result per key found in any source, sorted by key.
func ReconcileAll(ctx context.Context, cache *Cache, spec *Spec) ([]Result, error) {
	idx, err := cache.GetOrBuild(ctx, spec)
	if err != nil {
		return nil, err
	}
	return reconcileFromIndices(idx), nil
}

// ReconcileOne returns the result for key. A key found nowhere yields a
// result with every flag false.
func ReconcileOne(ctx context.Context, cache *Cache, spec *Spec, key string) (Result, error) {
	idx, err := cache.GetOrBuild(ctx, spec)
	if err != nil {
		return Result{}, err
	}
	return buildResult(key, idx), nil
}

func reconcileFromIndices(idx *Indices) []Result {
	union := buildUnion(idx.Exported, idx.Generated, idx.Published)
	results := make([]Result, 0, len(union))
	for key := range union {
		results = append(results, buildResult(key, idx))
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Key < results[j].Key
	})
	return results
}

func buildUnion(sets ...Set) Set {
	union := Set{}
	for _, s := range sets {
		for key := range s {
			union.Add(key)
		}
	}
	return union
}

func buildResult(key string, idx *Indices) Result {
	return Result{
		Key:       key,
		Exported:  idx.Exported.Has(key),
		Generated: idx.Generated.Has(key),
		Published: idx.Published.Has(key),
	}
}
