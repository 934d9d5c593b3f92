// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultBaseURL is the e-Stat API v3.0 JSON endpoint root.
const DefaultBaseURL = "https://api.e-stat.go.jp/rest/3.0/app/json/"

// ConfigPathEnvVar overrides the config file search.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"estat-mcp.yaml",
	"config.yaml",
	"/etc/estat-mcp/config.yaml",
}

func defaultConfig() *Config {
	return &Config{
		Estat: EstatConfig{
			BaseURL:        DefaultBaseURL,
			Timeout:        60 * time.Second,
			RateLimit:      1.0,
			MaxPages:       10,
			RetryAttempts:  0,
			CircuitBreaker: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			MetaTTL: time.Hour,
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8787,
			Timeout:         5 * time.Minute,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   60,
			RateLimitWindow: time.Minute,
			ProbeInterval:   5 * time.Minute,
		},
		MCP: MCPConfig{
			MaxOutputValues: 100,
			HTTPEnabled:     true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Default returns the built-in configuration without consulting files or
// the environment.
func Default() *Config {
	return defaultConfig()
}

// Load resolves configuration from defaults, the first config file found
// (see findConfigFile) and environment variables, then validates it.
func Load() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile is Load with an explicit config file. An empty path skips the
// file layer.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitCommaLists(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var listPaths = []string{"server.cors_origins"}

// splitCommaLists turns comma-separated env values into string slices.
func splitCommaLists(k *koanf.Koanf) error {
	for _, path := range listPaths {
		s, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		var items []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		if err := k.Set(path, items); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings lists every environment variable the service reads. Other
// variables are ignored.
var envMappings = map[string]string{
	"estat_app_id":          "estat.app_id",
	"estat_base_url":        "estat.base_url",
	"estat_timeout":         "estat.timeout",
	"estat_rate_limit":      "estat.rate_limit",
	"estat_max_pages":       "estat.max_pages",
	"estat_retry_attempts":  "estat.retry_attempts",
	"estat_circuit_breaker": "estat.circuit_breaker",
	"estat_user_agent":      "estat.user_agent",

	"estat_cache_enabled":  "cache.enabled",
	"estat_cache_meta_ttl": "cache.meta_ttl",

	"http_host":           "server.host",
	"http_port":           "server.port",
	"http_timeout":        "server.timeout",
	"cors_origins":        "server.cors_origins",
	"rate_limit_requests": "server.rate_limit_reqs",
	"rate_limit_window":   "server.rate_limit_window",
	"disable_rate_limit":  "server.rate_limit_disabled",
	"probe_interval":      "server.probe_interval",

	"mcp_max_output_values": "mcp.max_output_values",
	"mcp_http_enabled":      "mcp.http_enabled",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
