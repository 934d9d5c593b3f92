// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package services

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/estat-mcp/internal/estat"
	"github.com/tomtom215/estat-mcp/internal/logging"
	"github.com/tomtom215/estat-mcp/internal/metrics"
)

// Pinger is satisfied by estat.StatsClient.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProbeService pings e-Stat on an interval and publishes the result as the
// estat_up gauge and through LastResult, which the health endpoints read
// instead of pinging themselves. It logs only when reachability changes.
type ProbeService struct {
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration

	mu        sync.RWMutex
	checkedAt time.Time // zero until the first probe completes
	lastErr   error
}

// NewProbeService creates a probe. timeout bounds each ping and defaults to
// 10s, capped at interval.
func NewProbeService(pinger Pinger, interval, timeout time.Duration) *ProbeService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if timeout > interval {
		timeout = interval
	}
	return &ProbeService{pinger: pinger, interval: interval, timeout: timeout}
}

// Serve implements suture.Service.
func (p *ProbeService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.probe(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *ProbeService) probe(ctx context.Context) {
	pctx, cancel := context.WithTimeout(logging.WithCorrelationID(ctx, logging.NewCorrelationID()), p.timeout)
	defer cancel()

	err := p.pinger.Ping(pctx)
	if ctx.Err() != nil {
		return
	}
	ok := err == nil
	metrics.RecordProbe(ok)

	p.mu.Lock()
	changed := p.checkedAt.IsZero() || (p.lastErr == nil) != ok
	p.checkedAt, p.lastErr = time.Now(), err
	p.mu.Unlock()

	if !changed {
		return
	}
	if ok {
		logging.Info().Msg("e-Stat reachable")
		return
	}
	logging.Warn().Err(err).Str("outcome", estat.Outcome(err)).Msg("e-Stat unreachable")
}

// LastResult returns the time and error of the most recent completed probe.
// checkedAt is zero before the first probe finishes.
func (p *ProbeService) LastResult() (checkedAt time.Time, err error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.checkedAt, p.lastErr
}

// String implements fmt.Stringer for logging.
func (p *ProbeService) String() string {
	return "estat-probe"
}
