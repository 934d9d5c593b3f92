// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/mitchellh/cli"

	"github.com/tomtom215/estat-mcp/internal/cmd/base"
)

// TestCommand is `estat test`: a connectivity and credentials check.
type TestCommand struct {
	*base.Command

	client      base.ClientFlags
	flagTimeout time.Duration
}

func (c *TestCommand) Synopsis() string {
	return "Check the application ID and connectivity"
}

func (c *TestCommand) Help() string {
	return `Usage: estat test [options]

  Sends a one-result search to e-Stat. Exits 0 when the application ID is
  accepted.` + c.flags().Help()
}

func (c *TestCommand) flags() *base.FlagSet {
	f := base.NewFlagSet("test")
	c.client.Register(f)
	f.DurationVar(&c.flagTimeout, "timeout", 30*time.Second, "Give up after this long")
	return f
}

func (c *TestCommand) Run(args []string) int {
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

	ctx, cancel := context.WithTimeout(context.Background(), c.flagTimeout)
	defer cancel()

	start := time.Now()
	if err := client.Ping(ctx); err != nil {
		return c.Fail(err)
	}
	c.UI.Output(fmt.Sprintf("OK: %s answered in %v", cfg.Estat.BaseURL, time.Since(start).Round(time.Millisecond)))
	return 0
}
