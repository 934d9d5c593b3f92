// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package estat

import (
	"context"
	"strings"
	"time"

	"github.com/tomtom215/estat-mcp/internal/cache"
	"github.com/tomtom215/estat-mcp/internal/metrics"
	"github.com/tomtom215/estat-mcp/internal/models"
)

// CachedClient keeps GetMeta results for a fixed TTL. Table metadata only
// changes when a table is republished, and tools typically ask for the same
// meta before every data query. Other calls pass straight through.
type CachedClient struct {
	inner    StatsClient
	meta     *cache.Cache[*models.StatsMeta]
	maxPages int
}

var _ StatsClient = (*CachedClient)(nil)

// NewCachedClient wraps inner with a metadata cache.
func NewCachedClient(inner StatsClient, ttl time.Duration) *CachedClient {
	return &CachedClient{
		inner:    inner,
		meta:     cache.New[*models.StatsMeta](ttl),
		maxPages: pageCap(inner),
	}
}

// GetMeta serves from the cache when it can. Errors are not cached. Each
// call returns its own copy of the metadata.
func (cc *CachedClient) GetMeta(ctx context.Context, statsID string) (*models.StatsMeta, error) {
	key := strings.TrimSpace(statsID)
	if meta, ok := cc.meta.Get(key); ok {
		metrics.RecordMetaCacheLookup(true)
		return meta.Clone(), nil
	}
	metrics.RecordMetaCacheLookup(false)

	meta, err := cc.inner.GetMeta(ctx, statsID)
	if err != nil {
		return nil, err
	}
	cc.meta.Set(key, meta)
	return meta.Clone(), nil
}

// CacheStats reports hit/miss counts for the metadata cache.
func (cc *CachedClient) CacheStats() cache.Stats { return cc.meta.GetStats() }

func (cc *CachedClient) SearchStats(ctx context.Context, q models.SearchQuery) ([]models.StatsTable, error) {
	return cc.inner.SearchStats(ctx, q)
}

func (cc *CachedClient) GetData(ctx context.Context, q models.DataQuery) (*models.StatsData, error) {
	return cc.inner.GetData(ctx, q)
}

func (cc *CachedClient) GetAllData(ctx context.Context, q models.DataQuery, maxPages int) (*models.StatsData, error) {
	return cc.inner.GetAllData(ctx, q, maxPages)
}

func (cc *CachedClient) RegisterDataset(ctx context.Context, req models.DatasetRequest) (*models.DataSet, error) {
	return cc.inner.RegisterDataset(ctx, req)
}

func (cc *CachedClient) Ping(ctx context.Context) error { return cc.inner.Ping(ctx) }

// Close stops the cache sweeper and closes inner.
func (cc *CachedClient) Close() error {
	cc.meta.Close()
	return cc.inner.Close()
}

// MaxPages returns the page cap used when GetAllData is given 0.
func (cc *CachedClient) MaxPages() int { return cc.maxPages }
