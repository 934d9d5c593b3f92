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
	"text/tabwriter"

	"github.com/mitchellh/cli"

	"github.com/tomtom215/estat-mcp/internal/cmd/base"
	"github.com/tomtom215/estat-mcp/internal/models"
)

// SearchCommand is `estat search`.
type SearchCommand struct {
	*base.Command

	client     base.ClientFlags
	flagLimit  int
	flagSurvey string
	flagOpen   string
	flagField  string
	flagCode   string
	flagJSON   bool
}

func (c *SearchCommand) Synopsis() string {
	return "Search statistical tables by keyword"
}

func (c *SearchCommand) Help() string {
	return `Usage: estat search [options] <keyword>

  Searches the e-Stat table catalogue. Japanese keywords work best:

      estat search 人口
      estat search -limit 5 -survey-years 2020 消費者物価指数` + c.flags().Help()
}

func (c *SearchCommand) flags() *base.FlagSet {
	f := base.NewFlagSet("search")
	c.client.Register(f)
	f.IntVar(&c.flagLimit, "limit", models.DefaultSearchLimit, "Maximum number of tables")
	f.StringVar(&c.flagSurvey, "survey-years", "", "Survey period: yyyy, yyyymm or yyyymm-yyyymm")
	f.StringVar(&c.flagOpen, "open-years", "", "Publication period: yyyy, yyyymm or yyyymm-yyyymm")
	f.StringVar(&c.flagField, "field", "", "Statistics field code (2 or 4 digits)")
	f.StringVar(&c.flagCode, "code", "", "Government statistics code (5 or 8 digits)")
	f.BoolVar(&c.flagJSON, "json", false, "Print JSON instead of a table")
	return f
}

func (c *SearchCommand) Run(args []string) int {
	f := c.flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return cli.RunResultHelp
	}
	if f.NArg() == 0 {
		c.UI.Error("a keyword is required")
		return cli.RunResultHelp
	}

	client, _, err := c.Setup(&c.client)
	if err != nil {
		return c.Fail(err)
	}
	defer client.Close()

	tables, err := client.SearchStats(context.Background(), models.SearchQuery{
		Keyword:     strings.Join(f.Args(), " "),
		Limit:       c.flagLimit,
		SurveyYears: c.flagSurvey,
		OpenYears:   c.flagOpen,
		StatsField:  c.flagField,
		StatsCode:   c.flagCode,
	})
	if err != nil {
		return c.Fail(err)
	}

	if c.flagJSON {
		if tables == nil {
			tables = []models.StatsTable{}
		}
		if err := c.PrintJSON(tables); err != nil {
			return c.Fail(err)
		}
		return 0
	}
	if len(tables) == 0 {
		c.UI.Info("no tables found")
		return 0
	}
	c.UI.Output(formatTables(tables))
	return 0
}

func formatTables(tables []models.StatsTable) string {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tORGANIZATION\tSURVEY\tCELLS")
	for _, t := range tables {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", t.ID, t.Name, t.Organization, t.SurveyDate, t.TotalNumber)
	}
	_ = tw.Flush()
	return strings.TrimRight(buf.String(), "\n")
}
