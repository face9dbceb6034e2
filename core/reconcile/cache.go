package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache reuses built indices per spec name until their TTL expires.
type Cache struct {
	mu      sync.RWMutex
	indices map[string]*Indices
	sf      singleflight.Group
	now     func() time.Time
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		indices: make(map[string]*Indices),
		now:     time.Now,
	}
}

// GetOrBuild returns the cached indices of spec or builds them. Concurrent
// builds of the same spec are collapsed into one.
func (c *Cache) GetOrBuild(ctx context.Context, spec *Spec) (*Indices, error) {
	if c == nil || spec.CacheTTL <= 0 {
		return BuildIndices(ctx, spec)
	}

	if idx, ok := c.fresh(spec); ok {
		return idx, nil
	}

	v, err, _ := c.sf.Do(spec.Name, func() (interface{}, error) {
		if idx, ok := c.fresh(spec); ok {
			return idx, nil
		}
		idx, err := BuildIndices(ctx, spec)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.indices[spec.Name] = idx
		c.mu.Unlock()
		return idx, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Indices), nil
}

// Invalidate drops the indices cached under name.
func (c *Cache) Invalidate(name string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.indices, name)
	c.mu.Unlock()
}

func (c *Cache) fresh(spec *Spec) (*Indices, bool) {
	c.mu.RLock()
	idx, ok := c.indices[spec.Name]
	c.mu.RUnlock()
	if !ok || c.now().Sub(idx.Built) > spec.CacheTTL {
		return nil, false
	}
	return idx, true
}
