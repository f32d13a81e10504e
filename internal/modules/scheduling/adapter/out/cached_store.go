package out

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"srs/internal/modules/scheduling/domain"
	schedulingout "srs/internal/modules/scheduling/port/out"
)

type cacheEntry struct {
	state   domain.ReviewState
	tracked bool
}

// CachedStore is a read-through LRU in front of another store. Entries are
// only written after the inner store accepted the write. Records that fail
// validation and items with no state are never cached.
type CachedStore struct {
	inner schedulingout.DataStore
	cache *lru.Cache[string, cacheEntry]
}

var _ schedulingout.DataStore = (*CachedStore)(nil)

func NewCachedStore(inner schedulingout.DataStore, size int) (*CachedStore, error) {
	cache, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, fmt.Errorf("create state cache: %w", err)
	}
	return &CachedStore{inner: inner, cache: cache}, nil
}

func (c *CachedStore) Load(ctx context.Context, itemID string) (domain.ReviewState, bool, error) {
	if entry, ok := c.cache.Get(itemID); ok {
		return entry.state, entry.tracked, nil
	}
	state, ok, err := c.inner.Load(ctx, itemID)
	if err != nil {
		return domain.ReviewState{}, false, err
	}
	// Untracked results are not cached: another process may schedule the
	// item while this one is running.
	if ok {
		c.cache.Add(itemID, cacheEntry{state: state, tracked: true})
	}
	return state, ok, nil
}

func (c *CachedStore) Save(ctx context.Context, itemID string, state domain.ReviewState) error {
	if err := c.inner.Save(ctx, itemID, state); err != nil {
		c.cache.Remove(itemID)
		return err
	}
	c.cache.Add(itemID, cacheEntry{state: state, tracked: true})
	return nil
}

func (c *CachedStore) Remove(ctx context.Context, itemID string) error {
	c.cache.Remove(itemID)
	return c.inner.Remove(ctx, itemID)
}

func (c *CachedStore) AllTrackedIDs(ctx context.Context) ([]string, error) {
	return c.inner.AllTrackedIDs(ctx)
}

func (c *CachedStore) Len() int {
	return c.cache.Len()
}

func (c *CachedStore) Close() error {
	c.cache.Purge()
	return c.inner.Close()
}
