// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package commands

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/mitchellh/cli"

	"github.com/tomtom215/estat-mcp/internal/cmd/base"
	"github.com/tomtom215/estat-mcp/internal/models"
)

// DataCommand is `estat data`.
type DataCommand struct {
	*base.Command

	client       base.ClientFlags
	filters      base.DataFlags
	flagDataset  string
	flagLimit    int
	flagStart    int
	flagAll      bool
	flagMaxPages int
	flagFormat   string
}

func (c *DataCommand) Synopsis() string {
	return "Fetch cells from a table as CSV or JSON"
}

func (c *DataCommand) Help() string {
	return `Usage: estat data [options] <stats-id>

  Fetches one page of cells, or several with -all. Placeholder values such
  as "-" and "X" are printed as published.

      estat data -cd-area 13000 0003410379
      estat data -all -max-pages 5 -format json 0003410379
      estat data -dataset <dataset-id>` + c.flags().Help()
}

func (c *DataCommand) flags() *base.FlagSet {
	f := base.NewFlagSet("data")
	c.client.Register(f)
	c.filters.Register(f)
	f.StringVar(&c.flagDataset, "dataset", "", "Registered dataset ID, instead of a stats ID")
	f.IntVar(&c.flagLimit, "limit", models.DefaultDataLimit, "Cells per request")
	f.IntVar(&c.flagStart, "start", models.DefaultStartPosition, "1-based position of the first cell")
	f.BoolVar(&c.flagAll, "all", false, "Follow pages until the end or -max-pages")
	f.IntVar(&c.flagMaxPages, "max-pages", 0, "[ESTAT_MAX_PAGES] Page cap for -all")
	f.StringVar(&c.flagFormat, "format", "csv", "Output format: csv or json")
	return f
}

func (c *DataCommand) Run(args []string) int {
	f := c.flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return cli.RunResultHelp
	}
	format := strings.ToLower(c.flagFormat)
	if format != "csv" && format != "json" {
		c.UI.Error(fmt.Sprintf("unknown format %q", c.flagFormat))
		return cli.RunResultHelp
	}
	var statsID string
	switch {
	case f.NArg() == 1 && c.flagDataset == "":
		statsID = f.Arg(0)
	case f.NArg() == 0 && c.flagDataset != "":
	default:
		c.UI.Error("give either one stats ID or -dataset")
		return cli.RunResultHelp
	}

	client, _, err := c.Setup(&c.client)
	if err != nil {
		return c.Fail(err)
	}
	defer client.Close()

	q := c.filters.Query(statsID)
	q.DatasetID = c.flagDataset
	q.Limit = c.flagLimit
	q.StartPosition = c.flagStart

	var data *models.StatsData
	if c.flagAll {
		data, err = client.GetAllData(context.Background(), q, c.flagMaxPages)
	} else {
		data, err = client.GetData(context.Background(), q)
	}
	if err != nil {
		return c.Fail(err)
	}

	if format == "json" {
		if err := c.PrintJSON(data); err != nil {
			return c.Fail(err)
		}
	} else {
		var buf bytes.Buffer
		if err := data.WriteCSV(&buf); err != nil {
			return c.Fail(err)
		}
		c.UI.Output(strings.TrimRight(buf.String(), "\n"))
	}

	switch {
	case data.Truncated:
		c.UI.Warn(fmt.Sprintf("stopped after %d pages: %d of %d cells, continue with -start %d",
			data.PagesFetched, len(data.Values), data.TotalCount, data.NextPosition))
	case data.HasMore():
		c.UI.Warn(fmt.Sprintf("%d of %d cells, next page: -start %d", len(data.Values), data.TotalCount, data.NextPosition))
	}
	return 0
}
