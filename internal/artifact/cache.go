package artifact

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"nostressia/internal/logger"
	"nostressia/internal/ml"
)

// Cache maps artifact locations to decoded artifacts. Entries are added once
// and never replaced; activating a new model means a new location.
type Cache struct {
	store   Store
	timeout time.Duration
	log     *logger.Logger

	mu      sync.RWMutex
	entries map[string]*ml.Artifact
	group   singleflight.Group
}

func NewCache(store Store, timeout time.Duration, log *logger.Logger) *Cache {
	return &Cache{
		store:   store,
		timeout: timeout,
		log:     log.With("component", "ArtifactCache"),
		entries: make(map[string]*ml.Artifact),
	}
}

func (c *Cache) get(location string) (*ml.Artifact, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	art, ok := c.entries[location]
	return art, ok
}

// Load returns the artifact at location, downloading it on a miss. Concurrent
// misses for the same location share one download.
func (c *Cache) Load(ctx context.Context, location string) (*ml.Artifact, error) {
	if art, ok := c.get(location); ok {
		return art, nil
	}

	v, err, _ := c.group.Do(location, func() (interface{}, error) {
		if art, ok := c.get(location); ok {
			return art, nil
		}

		// Waiters share this fetch, so the first caller's cancellation must not end it.
		fetchCtx := context.WithoutCancel(ctx)
		if c.timeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(fetchCtx, c.timeout)
			defer cancel()
		}

		start := time.Now()
		data, err := c.store.Fetch(fetchCtx, location)
		if err != nil {
			return nil, &UnavailableError{Location: location, Err: err}
		}
		art, err := ml.Decode(data)
		if err != nil {
			var unknown *ml.UnknownModelTypeError
			if errors.As(err, &unknown) {
				return nil, err
			}
			return nil, &UnavailableError{Location: location, Err: err}
		}

		c.mu.Lock()
		c.entries[location] = art
		c.mu.Unlock()

		c.log.Info("model artifact loaded", "location", location, "type", art.Type, "elapsed", time.Since(start))
		return art, nil
	})
	if err != nil {
		c.log.Warn("model artifact load failed", "location", location, "error", err)
		return nil, err
	}
	return v.(*ml.Artifact), nil
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
