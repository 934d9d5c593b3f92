// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

// Package mcp exposes the e-Stat client as Model Context Protocol tools.
//
// Four tools are registered:
//
//   - search_statistics: keyword search of the table catalogue
//   - get_statistic_meta: axes and codes of one table
//   - get_statistic_data: one page of cells
//   - get_all_statistic_data: several pages, with a page cap
//
// Data tools cap the number of values returned to the model (see
// config.MCPConfig.MaxOutputValues) and report how many were omitted plus
// the position to continue from. The server runs over stdio (the estat mcp
// command) or streamable HTTP mounted by cmd/server.
package mcp

import (
	"context"
	"net/http"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tomtom215/estat-mcp/internal/config"
	"github.com/tomtom215/estat-mcp/internal/estat"
	"github.com/tomtom215/estat-mcp/internal/logging"
	"github.com/tomtom215/estat-mcp/internal/version"
)

// ServerName is reported to MCP clients during initialization.
const ServerName = "estat-mcp"

const instructions = `Tools for Japan's official statistics portal e-Stat.
Typical flow: search_statistics to find a table ID, get_statistic_meta to
learn its axis codes, then get_statistic_data with cd_* filters. Values are
strings; "-", "X" and "***" are placeholders described in the notes field.`

// Server adapts an estat.StatsClient to MCP.
type Server struct {
	client    estat.StatsClient
	maxOutput int
	server    *sdk.Server
}

// NewServer registers the tools on a new MCP server.
func NewServer(client estat.StatsClient, cfg config.MCPConfig) *Server {
	s := &Server{
		client:    client,
		maxOutput: cfg.MaxOutputValues,
		server: sdk.NewServer(&sdk.Implementation{
			Name:    ServerName,
			Version: version.Version,
		}, &sdk.ServerOptions{Instructions: instructions}),
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying SDK server.
func (s *Server) MCPServer() *sdk.Server { return s.server }

// RunStdio serves a single session on stdin/stdout until ctx is done or the
// client disconnects.
func (s *Server) RunStdio(ctx context.Context) error {
	logging.Info().Str("transport", "stdio").Msg("MCP server starting")
	return s.server.Run(ctx, &sdk.StdioTransport{})
}

// HTTPHandler returns the streamable HTTP transport. Every session shares
// this server and therefore the same client and rate limiter.
func (s *Server) HTTPHandler() http.Handler {
	return sdk.NewStreamableHTTPHandler(func(*http.Request) *sdk.Server {
		return s.server
	}, nil)
}
