// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/mitchellh/cli"

	"github.com/tomtom215/estat-mcp/internal/cmd/base"
	"github.com/tomtom215/estat-mcp/internal/models"
)

// MetaCommand is `estat meta`.
type MetaCommand struct {
	*base.Command

	client   base.ClientFlags
	flagJSON bool
}

func (c *MetaCommand) Synopsis() string {
	return "Show the axes and codes of a table"
}

func (c *MetaCommand) Help() string {
	return `Usage: estat meta [options] <stats-id>

  Prints the table items, classifications, time codes and area codes of a
  table. Use the codes as -cd-* filters for estat data.` + c.flags().Help()
}

func (c *MetaCommand) flags() *base.FlagSet {
	f := base.NewFlagSet("meta")
	c.client.Register(f)
	f.BoolVar(&c.flagJSON, "json", false, "Print JSON")
	return f
}

func (c *MetaCommand) Run(args []string) int {
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

	meta, err := client.GetMeta(context.Background(), f.Arg(0))
	if err != nil {
		return c.Fail(err)
	}
	if c.flagJSON {
		if err := c.PrintJSON(meta); err != nil {
			return c.Fail(err)
		}
		return 0
	}
	c.UI.Output(formatMeta(meta))
	return 0
}

func formatMeta(m *models.StatsMeta) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", m.StatsID, m.Title)
	writeAxis(&b, "tab", "table items", m.TableItems)
	for _, a := range m.Classifications {
		writeAxis(&b, a.ID, a.Name, a.Items)
	}
	writeAxis(&b, "time", "time", m.TimeItems)
	writeAxis(&b, "area", "area", m.AreaItems)
	return strings.TrimRight(b.String(), "\n")
}

func writeAxis(b *strings.Builder, id, name string, items []models.MetaItem) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n[%s] %s (%d)\n", id, name, len(items))
	for _, it := range items {
		indent := ""
		if it.Level > 1 {
			indent = strings.Repeat("  ", it.Level-1)
		}
		if it.Unit != "" {
			fmt.Fprintf(b, "  %s%s  %s (%s)\n", indent, it.Code, it.Name, it.Unit)
			continue
		}
		fmt.Fprintf(b, "  %s%s  %s\n", indent, it.Code, it.Name)
	}
}
