// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Bounds for values the e-Stat service itself constrains.
const (
	maxRetryAttempts  = 10
	maxPagesCeiling   = 1000
	maxRateLimit      = 100.0
	minRateLimitReqs  = 1
	maxRateLimitReqs  = 100000
	minRateLimitWin   = time.Second
	maxRateLimitWin   = time.Hour
	maxOutputCeiling  = 100000
	minRequestTimeout = time.Second
	minProbeInterval  = 10 * time.Second
)

// Validate checks value ranges and enumerations. An empty app ID is not an
// error here: the CLI must still be able to start and report it.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateEstat,
		c.validateCache,
		c.validateServer,
		c.validateMCP,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateEstat() error {
	u, err := url.Parse(c.Estat.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("ESTAT_BASE_URL must be an absolute http(s) URL, got %q", c.Estat.BaseURL)
	}
	if c.Estat.Timeout < minRequestTimeout {
		return fmt.Errorf("ESTAT_TIMEOUT must be at least %v", minRequestTimeout)
	}
	if c.Estat.RateLimit > maxRateLimit {
		return fmt.Errorf("ESTAT_RATE_LIMIT must not exceed %v requests per second", maxRateLimit)
	}
	if c.Estat.MaxPages < 1 || c.Estat.MaxPages > maxPagesCeiling {
		return fmt.Errorf("ESTAT_MAX_PAGES must be between 1 and %d", maxPagesCeiling)
	}
	if c.Estat.RetryAttempts < 0 || c.Estat.RetryAttempts > maxRetryAttempts {
		return fmt.Errorf("ESTAT_RETRY_ATTEMPTS must be between 0 and %d", maxRetryAttempts)
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Enabled && c.Cache.MetaTTL <= 0 {
		return fmt.Errorf("ESTAT_CACHE_META_TTL must be positive when the cache is enabled")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ProbeInterval != 0 && c.Server.ProbeInterval < minProbeInterval {
		return fmt.Errorf("PROBE_INTERVAL must be 0 or at least %v", minProbeInterval)
	}
	if c.Server.RateLimitDisabled {
		return nil
	}
	if c.Server.RateLimitReqs < minRateLimitReqs || c.Server.RateLimitReqs > maxRateLimitReqs {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitReqs, maxRateLimitReqs)
	}
	if c.Server.RateLimitWindow < minRateLimitWin || c.Server.RateLimitWindow > maxRateLimitWin {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWin, maxRateLimitWin)
	}
	return nil
}

func (c *Config) validateMCP() error {
	if c.MCP.MaxOutputValues < 1 || c.MCP.MaxOutputValues > maxOutputCeiling {
		return fmt.Errorf("MCP_MAX_OUTPUT_VALUES must be between 1 and %d", maxOutputCeiling)
	}
	return nil
}

var (
	validLogLevels  = []string{"trace", "debug", "info", "warn", "error", "fatal", "disabled"}
	validLogFormats = []string{"json", "console"}
)

func (c *Config) validateLogging() error {
	if !contains(validLogLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", "))
	}
	if !contains(validLogFormats, strings.ToLower(c.Logging.Format)) {
		return fmt.Errorf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", "))
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
