// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

/*
Package main is the estat-mcp HTTP server.

It serves the e-Stat client as a JSON/CSV REST API and, when enabled, the
MCP tools over streamable HTTP. All routes share one client, so every
caller is paced by the same rate limiter.

# Supervision

	RootSupervisor ("estat-mcp")
	├── UpstreamSupervisor ("upstream-layer")
	│   └── estat-probe (optional, SERVER_PROBE_INTERVAL > 0)
	└── APISupervisor ("api-layer")
	    └── http-server

# Routes

	GET /health, /health/live, /health/ready
	GET /metrics
	GET /api/v1/stats?q=...
	GET /api/v1/stats/{statsID}/meta
	GET /api/v1/stats/{statsID}/data
	GET /api/v1/stats/{statsID}/data/all
	    /mcp (MCP_HTTP_ENABLED=true)

# Configuration

Settings come from built-in defaults, then the first config file found
(CONFIG_PATH, estat-mcp.yaml, config.yaml, /etc/estat-mcp/config.yaml),
then environment variables. The only required setting is ESTAT_APP_ID;
without it the server starts but every e-Stat call returns an
authentication error and /health/ready reports 503.

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests for up to ten seconds, then the client's idle
connections are closed.
*/
package main
