// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package estat

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/estat-mcp/internal/metrics"
)

// RateLimiter spaces requests at least 1/rate seconds apart. It holds a
// single token, so there is no burst: concurrent callers are released one
// at a time in arrival order.
type RateLimiter struct {
	lim *rate.Limiter
}

// NewRateLimiter returns a limiter allowing perSecond requests per second.
// perSecond <= 0 disables limiting.
func NewRateLimiter(perSecond float64) *RateLimiter {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &RateLimiter{lim: rate.NewLimiter(limit, 1)}
}

// Acquire blocks until the caller may send a request. It fails only when
// ctx is done first, or when ctx's deadline is too close to wait out.
func (r *RateLimiter) Acquire(ctx context.Context) error {
	start := time.Now()
	err := r.lim.Wait(ctx)
	metrics.RecordRateLimitWait(time.Since(start))
	return err
}

// Interval returns the minimum spacing between acquisitions, or 0 when
// limiting is disabled.
func (r *RateLimiter) Interval() time.Duration {
	l := r.lim.Limit()
	if l == rate.Inf || l <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / float64(l))
}
