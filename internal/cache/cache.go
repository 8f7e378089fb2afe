// Package cache keeps the catalog taxonomy in memory. Metadata changes
// rarely and is read on every storefront page, so reads are served from here
// and refreshed on writes plus a background interval.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Space-Xplorer/Erimuga-sub000/internal/models"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/repository"
)

type MetadataCache struct {
	mu      sync.RWMutex
	entries []*models.Metadata
}

func NewMetadataCache() *MetadataCache {
	return &MetadataCache{entries: []*models.Metadata{}}
}

func (c *MetadataCache) Refresh(ctx context.Context, repo repository.MetadataRepository) error {
	entries, err := repo.List(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
	return nil
}

func (c *MetadataCache) Get() []*models.Metadata {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries
}

func (c *MetadataCache) StartAutoRefresh(ctx context.Context, repo repository.MetadataRepository, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := c.Refresh(ctx, repo); err != nil {
				continue
			}
		case <-ctx.Done():
			return
		}
	}
}
