// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Estat.BaseURL != DefaultBaseURL {
		t.Errorf("Estat.BaseURL = %q, want %q", cfg.Estat.BaseURL, DefaultBaseURL)
	}
	if cfg.Estat.Timeout != 60*time.Second {
		t.Errorf("Estat.Timeout = %v, want 60s", cfg.Estat.Timeout)
	}
	if cfg.Estat.RateLimit != 1.0 {
		t.Errorf("Estat.RateLimit = %v, want 1.0", cfg.Estat.RateLimit)
	}
	if cfg.Estat.MaxPages != 10 {
		t.Errorf("Estat.MaxPages = %d, want 10", cfg.Estat.MaxPages)
	}
	if cfg.MCP.MaxOutputValues != 100 {
		t.Errorf("MCP.MaxOutputValues = %d, want 100", cfg.MCP.MaxOutputValues)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestLoadFileEnvOverrides(t *testing.T) {
	t.Setenv("ESTAT_APP_ID", "test-app-id")
	t.Setenv("ESTAT_TIMEOUT", "15s")
	t.Setenv("ESTAT_RATE_LIMIT", "0.5")
	t.Setenv("ESTAT_MAX_PAGES", "3")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Estat.AppID != "test-app-id" {
		t.Errorf("Estat.AppID = %q, want test-app-id", cfg.Estat.AppID)
	}
	if cfg.Estat.Timeout != 15*time.Second {
		t.Errorf("Estat.Timeout = %v, want 15s", cfg.Estat.Timeout)
	}
	if cfg.Estat.RateLimit != 0.5 {
		t.Errorf("Estat.RateLimit = %v, want 0.5", cfg.Estat.RateLimit)
	}
	if cfg.Estat.MaxPages != 3 {
		t.Errorf("Estat.MaxPages = %d, want 3", cfg.Estat.MaxPages)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.Server.CORSOrigins, want) {
		t.Errorf("Server.CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadFileYAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
estat:
  app_id: from-file
  rate_limit: 2
  max_pages: 5
server:
  port: 9000
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ESTAT_MAX_PAGES", "7")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Estat.AppID != "from-file" {
		t.Errorf("Estat.AppID = %q, want from-file", cfg.Estat.AppID)
	}
	if cfg.Estat.RateLimit != 2 {
		t.Errorf("Estat.RateLimit = %v, want 2", cfg.Estat.RateLimit)
	}
	if cfg.Estat.MaxPages != 7 {
		t.Errorf("Estat.MaxPages = %d, want 7 (env beats file)", cfg.Estat.MaxPages)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Estat.Timeout != 60*time.Second {
		t.Errorf("Estat.Timeout = %v, want default 60s", cfg.Estat.Timeout)
	}
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	t.Setenv("ESTAT_MAX_PAGES", "0")

	_, err := LoadFile("")
	if err == nil {
		t.Fatal("LoadFile() error = nil, want validation error")
	}
	if !strings.Contains(err.Error(), "ESTAT_MAX_PAGES") {
		t.Errorf("error %q does not name ESTAT_MAX_PAGES", err)
	}
}

func TestFindConfigFileFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	if got := findConfigFile(); got != path {
		t.Errorf("findConfigFile() = %q, want %q", got, path)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"relative base url", func(c *Config) { c.Estat.BaseURL = "/rest/" }, "ESTAT_BASE_URL"},
		{"tiny timeout", func(c *Config) { c.Estat.Timeout = time.Millisecond }, "ESTAT_TIMEOUT"},
		{"zero rate disables limiting", func(c *Config) { c.Estat.RateLimit = 0 }, ""},
		{"absurd rate", func(c *Config) { c.Estat.RateLimit = 1000 }, "ESTAT_RATE_LIMIT"},
		{"negative retries", func(c *Config) { c.Estat.RetryAttempts = -1 }, "ESTAT_RETRY_ATTEMPTS"},
		{"cache without ttl", func(c *Config) { c.Cache.MetaTTL = 0 }, "ESTAT_CACHE_META_TTL"},
		{"cache disabled without ttl", func(c *Config) { c.Cache.Enabled = false; c.Cache.MetaTTL = 0 }, ""},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"rate limit window", func(c *Config) { c.Server.RateLimitWindow = time.Millisecond }, "RATE_LIMIT_WINDOW"},
		{"rate limit disabled skips bounds", func(c *Config) {
			c.Server.RateLimitDisabled = true
			c.Server.RateLimitReqs = 0
		}, ""},
		{"probe too frequent", func(c *Config) { c.Server.ProbeInterval = time.Second }, "PROBE_INTERVAL"},
		{"probe disabled", func(c *Config) { c.Server.ProbeInterval = 0 }, ""},
		{"mcp output cap", func(c *Config) { c.MCP.MaxOutputValues = 0 }, "MCP_MAX_OUTPUT_VALUES"},
		{"log level", func(c *Config) { c.Logging.Level = "chatty" }, "LOG_LEVEL"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "0.0.0.0", Port: 8787}
	if got := s.Addr(); got != "0.0.0.0:8787" {
		t.Errorf("Addr() = %q, want 0.0.0.0:8787", got)
	}
}
