// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package estat

import (
	"github.com/tomtom215/estat-mcp/internal/config"
	"github.com/tomtom215/estat-mcp/internal/logging"
)

// NewStack builds the client and the decorators enabled in cfg, innermost
// first: Client, metadata cache, retries, circuit breaker. The breaker sits
// outermost so that a burst of retries counts once against it.
func NewStack(cfg *config.Config) (StatsClient, *Client) {
	base := NewClient(&cfg.Estat)
	var sc StatsClient = base

	if cfg.Cache.Enabled {
		sc = NewCachedClient(sc, cfg.Cache.MetaTTL)
	}
	if cfg.Estat.RetryAttempts > 0 {
		sc = NewRetryingClient(sc, cfg.Estat.RetryAttempts)
	}
	if cfg.Estat.CircuitBreaker {
		sc = NewCircuitBreakerClient(sc)
	}

	logging.Debug().
		Bool("app_id_set", base.HasAppID()).
		Str("base_url", base.baseURL).
		Dur("rate_interval", base.limiter.Interval()).
		Bool("cache", cfg.Cache.Enabled).
		Int("retry_attempts", cfg.Estat.RetryAttempts).
		Bool("circuit_breaker", cfg.Estat.CircuitBreaker).
		Msg("e-Stat client configured")

	return sc, base
}
