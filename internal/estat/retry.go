// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package estat

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/tomtom215/estat-mcp/internal/logging"
	"github.com/tomtom215/estat-mcp/internal/metrics"
	"github.com/tomtom215/estat-mcp/internal/models"
)

// RetryingClient repeats calls that failed with a retryable error (see
// IsRetryable) using exponential backoff. Client itself never retries.
type RetryingClient struct {
	inner    StatsClient
	attempts int
	newBO    func() backoff.BackOff
	maxPages int
}

var _ StatsClient = (*RetryingClient)(nil)

// NewRetryingClient retries each call up to attempts more times after the
// first failure.
func NewRetryingClient(inner StatsClient, attempts int) *RetryingClient {
	return &RetryingClient{
		inner:    inner,
		attempts: attempts,
		maxPages: pageCap(inner),
		newBO: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			b.MaxInterval = 30 * time.Second
			b.MaxElapsedTime = 2 * time.Minute
			return b
		},
	}
}

func retry[T any](ctx context.Context, rc *RetryingClient, op string, fn func() (T, error)) (T, error) {
	b := backoff.WithContext(backoff.WithMaxRetries(rc.newBO(), uint64(rc.attempts)), ctx)

	v, err := backoff.RetryNotifyWithData(func() (T, error) {
		v, err := fn()
		if err != nil && !IsRetryable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, b, func(err error, wait time.Duration) {
		metrics.EstatRetries.WithLabelValues(op).Inc()
		logging.Ctx(ctx).Debug().Err(err).Str("op", op).Dur("wait", wait).Msg("Retrying e-Stat request")
	})

	// Cancellation while waiting between attempts comes back bare.
	var netErr *NetworkError
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) && !errors.As(err, &netErr) {
		err = &NetworkError{Op: op, Err: err}
	}
	return v, err
}

func (rc *RetryingClient) SearchStats(ctx context.Context, q models.SearchQuery) ([]models.StatsTable, error) {
	return retry(ctx, rc, "search_stats", func() ([]models.StatsTable, error) {
		return rc.inner.SearchStats(ctx, q)
	})
}

func (rc *RetryingClient) GetMeta(ctx context.Context, statsID string) (*models.StatsMeta, error) {
	return retry(ctx, rc, "get_meta", func() (*models.StatsMeta, error) {
		return rc.inner.GetMeta(ctx, statsID)
	})
}

func (rc *RetryingClient) GetData(ctx context.Context, q models.DataQuery) (*models.StatsData, error) {
	return retry(ctx, rc, "get_data", func() (*models.StatsData, error) {
		return rc.inner.GetData(ctx, q)
	})
}

// GetAllData retries individual pages, not the whole retrieval.
func (rc *RetryingClient) GetAllData(ctx context.Context, q models.DataQuery, maxPages int) (*models.StatsData, error) {
	if maxPages == 0 {
		maxPages = rc.maxPages
	}
	return Paginate(ctx, rc.GetData, q, maxPages)
}

// RegisterDataset is not retried: a repeated POST could register twice.
func (rc *RetryingClient) RegisterDataset(ctx context.Context, req models.DatasetRequest) (*models.DataSet, error) {
	return rc.inner.RegisterDataset(ctx, req)
}

func (rc *RetryingClient) Ping(ctx context.Context) error {
	_, err := retry(ctx, rc, "ping", func() (struct{}, error) {
		return struct{}{}, rc.inner.Ping(ctx)
	})
	return err
}

func (rc *RetryingClient) Close() error { return rc.inner.Close() }

// MaxPages returns the page cap used when GetAllData is given 0.
func (rc *RetryingClient) MaxPages() int { return rc.maxPages }
