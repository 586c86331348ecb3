package persist

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Coalescing wraps a Store so that concurrent reads of the same key share one
// backend call. Parallel hydration of several containers bound to one key
// then costs a single read.
type Coalescing struct {
	Store
	group singleflight.Group
}

// NewCoalescing wraps s.
func NewCoalescing(s Store) *Coalescing {
	return &Coalescing{Store: s}
}

type getResult struct {
	value string
	ok    bool
}

// Get implements Store.
func (c *Coalescing) Get(ctx context.Context, key string) (string, bool, error) {
	v, err, _ := c.group.Do(key, func() (any, error) {
		value, ok, err := c.Store.Get(ctx, key)
		return getResult{value: value, ok: ok}, err
	})
	if err != nil {
		return "", false, err
	}
	r := v.(getResult)
	return r.value, r.ok, nil
}

// Set implements Store. Pending reads of key are forgotten so later reads
// observe the write.
func (c *Coalescing) Set(ctx context.Context, key, value string) error {
	c.group.Forget(key)
	return c.Store.Set(ctx, key, value)
}

// Remove implements Store.
func (c *Coalescing) Remove(ctx context.Context, key string) error {
	c.group.Forget(key)
	return c.Store.Remove(ctx, key)
}
