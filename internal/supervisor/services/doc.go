// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

/*
Package services provides suture.Service wrappers for estat-mcp components.

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTPServerService wraps *http.Server: REST API, /metrics, /health and the
MCP streamable transport all share one listener. Context cancellation
triggers Shutdown with a bounded timeout.

ProbeService pings e-Stat periodically and sets the estat_up gauge. It never
returns an error of its own; a failing ping is a reading, not a crash.
*/
package services
