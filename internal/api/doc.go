// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

/*
Package api provides the HTTP REST API served by cmd/server.

The API is a thin JSON (or CSV) façade over estat.StatsClient. Every
endpoint maps one client operation:

	GET /api/v1/stats                         SearchStats
	GET /api/v1/stats/{statsID}/meta          GetMeta
	GET /api/v1/stats/{statsID}/data          GetData (one page)
	GET /api/v1/stats/{statsID}/data/all      GetAllData (page capped)

Responses use the envelope in response.go. Client errors are mapped to HTTP
statuses in errors.go:

	ValidationError      400 VALIDATION_FAILED
	AuthenticationError  502 UPSTREAM_AUTH_FAILED
	NotFoundError        404 NOT_FOUND
	ServiceError         502 EXTERNAL_SERVICE_FAILED, 503 SERVICE_UNAVAILABLE when transient
	NetworkError         504 UPSTREAM_UNREACHABLE

An upstream authentication failure is a server misconfiguration, not a
problem with the caller's credentials, so it is reported as 502 rather
than 401.

Besides the REST routes the router mounts /health, /health/live,
/health/ready, /metrics and, when enabled, the MCP streamable transport at
/mcp.
*/
package api
