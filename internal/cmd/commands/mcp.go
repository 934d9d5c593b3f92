// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mitchellh/cli"

	"github.com/tomtom215/estat-mcp/internal/cmd/base"
	"github.com/tomtom215/estat-mcp/internal/mcp"
)

// MCPCommand is `estat mcp`: an MCP server on stdin/stdout.
type MCPCommand struct {
	*base.Command

	client base.ClientFlags
}

func (c *MCPCommand) Synopsis() string {
	return "Serve MCP tools over stdio"
}

func (c *MCPCommand) Help() string {
	return `Usage: estat mcp [options]

  Runs a Model Context Protocol server on stdin/stdout for use by an MCP
  client such as a desktop assistant. Logs go to stderr.` + c.flags().Help()
}

func (c *MCPCommand) flags() *base.FlagSet {
	f := base.NewFlagSet("mcp")
	c.client.Register(f)
	return f
}

func (c *MCPCommand) Run(args []string) int {
	f := c.flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return cli.RunResultHelp
	}

	client, cfg, err := c.Setup(&c.client)
	if err != nil {
		return c.Fail(err)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mcp.NewServer(client, cfg.MCP).RunStdio(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return c.Fail(err)
	}
	return 0
}
