// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

// Package version holds build information set with -ldflags:
//
//	go build -ldflags "-X github.com/tomtom215/estat-mcp/internal/version.Version=v1.2.0 \
//	  -X github.com/tomtom215/estat-mcp/internal/version.Commit=$(git rev-parse --short HEAD)"
package version

import "fmt"

var (
	Version = "dev"
	Commit  = "unknown"
)

// UserAgent is sent with every e-Stat request unless configured otherwise.
func UserAgent() string {
	return "estat-mcp/" + Version
}

// String returns the version line printed by the CLI.
func String() string {
	return fmt.Sprintf("estat-mcp %s (commit %s)", Version, Commit)
}
