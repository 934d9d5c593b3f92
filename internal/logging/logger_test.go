// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestValidLevel(t *testing.T) {
	t.Parallel()

	if !ValidLevel("warn") {
		t.Error("ValidLevel(warn) = false, want true")
	}
	if ValidLevel("loud") {
		t.Error("ValidLevel(loud) = true, want false")
	}
}

// Tests below touch the global logger and must not run in parallel.

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Debug().Str("stats_id", "0003448237").Msg("fetching")

	out := buf.String()
	if !strings.Contains(out, `"stats_id":"0003448237"`) {
		t.Errorf("output missing field: %s", out)
	}
	if !strings.Contains(out, `"level":"debug"`) {
		t.Errorf("output missing level: %s", out)
	}
}

func TestInitLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Output: &buf})
	defer Init(DefaultConfig())

	Info().Msg("hidden")
	Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info event written at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn event missing: %s", out)
	}
}

func TestCtxAddsIDs(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))
	defer Init(DefaultConfig())
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	ctx := WithCorrelationID(context.Background(), "abc12345")
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithTool(ctx, "search_statistics")
	Ctx(ctx).Info().Msg("hello")

	out := buf.String()
	for _, want := range []string{`"correlation_id":"abc12345"`, `"request_id":"req-1"`, `"tool":"search_statistics"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestEnsureCorrelationID(t *testing.T) {
	t.Parallel()

	ctx := EnsureCorrelationID(context.Background())
	id := CorrelationID(ctx)
	if len(id) != 8 {
		t.Fatalf("correlation id %q, want 8 chars", id)
	}
	if again := CorrelationID(EnsureCorrelationID(ctx)); again != id {
		t.Errorf("EnsureCorrelationID replaced %q with %q", id, again)
	}
}

func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))
	defer Init(DefaultConfig())
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	l := NewSlogLogger("supervisor").WithGroup("svc")
	l.Warn("restarting", "name", "http", "attempt", 2)

	out := buf.String()
	for _, want := range []string{`"component":"supervisor"`, `"svc.name":"http"`, `"svc.attempt":2`, `"level":"warn"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}
