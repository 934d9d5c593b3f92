// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

/*
Package supervisor runs the long-lived parts of cmd/server under suture v4.

	RootSupervisor ("estat-mcp")
	├── UpstreamSupervisor ("upstream-layer")
	│   └── ProbeService (if PROBE_INTERVAL > 0)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Supervisor events (restarts, backoff, timeouts) are logged through
sutureslog into the zerolog logger via logging.NewSlogLogger.

Usage:

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	tree.AddAPIService(services.NewHTTPServerService("http-server", srv, 10*time.Second))
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    ...
	}
*/
package supervisor
