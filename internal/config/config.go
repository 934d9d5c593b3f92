// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

// Package config loads estat-mcp settings from defaults, an optional YAML
// file and the environment (in that order of precedence, lowest first).
//
// The resolved Config is treated as immutable: components copy what they
// need at construction time and never re-read the environment.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root configuration.
type Config struct {
	Estat   EstatConfig   `koanf:"estat"`
	Cache   CacheConfig   `koanf:"cache"`
	Server  ServerConfig  `koanf:"server"`
	MCP     MCPConfig     `koanf:"mcp"`
	Logging LoggingConfig `koanf:"logging"`
}

// EstatConfig configures the e-Stat API client.
type EstatConfig struct {
	// AppID is the e-Stat application ID (ESTAT_APP_ID). Operations fail
	// with an authentication error while it is empty.
	AppID string `koanf:"app_id"`

	// BaseURL is the JSON API root, ending in a slash.
	BaseURL string `koanf:"base_url"`

	// Timeout bounds each HTTP request.
	Timeout time.Duration `koanf:"timeout"`

	// RateLimit is the maximum requests per second. Zero or less disables
	// client-side limiting.
	RateLimit float64 `koanf:"rate_limit"`

	// MaxPages is the default page cap for GetAllData.
	MaxPages int `koanf:"max_pages"`

	// RetryAttempts enables caller-side retries of transient failures.
	// Zero disables retries.
	RetryAttempts int `koanf:"retry_attempts"`

	// CircuitBreaker wraps the client in a circuit breaker.
	CircuitBreaker bool `koanf:"circuit_breaker"`

	// UserAgent overrides the default "estat-mcp/<version>".
	UserAgent string `koanf:"user_agent"`
}

// CacheConfig configures the metadata cache. Table metadata changes only
// when a table is republished, so it is the one response worth caching.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	MetaTTL time.Duration `koanf:"meta_ttl"`
}

// ServerConfig configures the HTTP server started by cmd/server.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	Timeout           time.Duration `koanf:"timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// ProbeInterval is how often the server pings e-Stat in the background
	// to keep estat_up current. Zero disables the probe.
	ProbeInterval time.Duration `koanf:"probe_interval"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// MCPConfig configures the Model Context Protocol adapter.
type MCPConfig struct {
	// MaxOutputValues caps the number of data values a tool returns to the
	// model. The total count is always reported.
	MaxOutputValues int `koanf:"max_output_values"`

	// HTTPEnabled mounts the streamable HTTP transport at /mcp.
	HTTPEnabled bool `koanf:"http_enabled"`
}

// LoggingConfig configures internal/logging.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
