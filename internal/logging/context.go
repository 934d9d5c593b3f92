// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	correlationIDKey contextKey = "correlation_id"
	requestIDKey     contextKey = "request_id"
	toolKey          contextKey = "tool"
)

// NewCorrelationID returns a short ID used to tie together the page
// requests of one GetAllData call or the calls made by one MCP tool.
func NewCorrelationID() string {
	return uuid.New().String()[:8]
}

// NewRequestID returns a full UUID for an inbound HTTP request.
func NewRequestID() string {
	return uuid.New().String()
}

// WithCorrelationID attaches id to ctx.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// EnsureCorrelationID returns ctx unchanged if it already carries a
// correlation ID, otherwise a copy with a fresh one.
func EnsureCorrelationID(ctx context.Context) context.Context {
	if CorrelationID(ctx) != "" {
		return ctx
	}
	return WithCorrelationID(ctx, NewCorrelationID())
}

// CorrelationID returns the correlation ID stored in ctx, or "".
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey).(string)
	return id
}

// WithRequestID attaches an HTTP request ID to ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithTool records the MCP tool name handling the current call.
func WithTool(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, toolKey, name)
}

// Ctx returns the global logger enriched with whatever IDs ctx carries.
//
//	logging.Ctx(ctx).Debug().Str("endpoint", "getStatsData").Msg("request")
func Ctx(ctx context.Context) *zerolog.Logger {
	zctx := Logger().With()
	if id := CorrelationID(ctx); id != "" {
		zctx = zctx.Str("correlation_id", id)
	}
	if id := RequestID(ctx); id != "" {
		zctx = zctx.Str("request_id", id)
	}
	if tool, ok := ctx.Value(toolKey).(string); ok && tool != "" {
		zctx = zctx.Str("tool", tool)
	}
	l := zctx.Logger()
	return &l
}
