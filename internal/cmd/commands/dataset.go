// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package commands

import (
	"context"
	"fmt"

	"github.com/mitchellh/cli"

	"github.com/tomtom215/estat-mcp/internal/cmd/base"
	"github.com/tomtom215/estat-mcp/internal/models"
)

// DatasetCommand is `estat dataset`.
type DatasetCommand struct {
	*base.Command

	client   base.ClientFlags
	filters  base.DataFlags
	flagName string
}

func (c *DatasetCommand) Synopsis() string {
	return "Register a named filter over a table"
}

func (c *DatasetCommand) Help() string {
	return `Usage: estat dataset [options] <stats-id>

  Registers the given filters with e-Stat and prints the dataset ID, which
  can then be passed to estat data -dataset.` + c.flags().Help()
}

func (c *DatasetCommand) flags() *base.FlagSet {
	f := base.NewFlagSet("dataset")
	c.client.Register(f)
	c.filters.Register(f)
	f.StringVar(&c.flagName, "name", "", "Dataset name shown on e-Stat")
	return f
}

func (c *DatasetCommand) Run(args []string) int {
	f := c.flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return cli.RunResultHelp
	}
	if f.NArg() != 1 {
		c.UI.Error("exactly one stats ID is required")
		return cli.RunResultHelp
	}

	client, _, err := c.Setup(&c.client)
	if err != nil {
		return c.Fail(err)
	}
	defer client.Close()

	ds, err := client.RegisterDataset(context.Background(), models.DatasetRequest{
		StatsID: f.Arg(0),
		Name:    c.flagName,
		Filters: c.filters.Query(f.Arg(0)),
	})
	if err != nil {
		return c.Fail(err)
	}
	c.UI.Output(ds.ID)
	return 0
}
