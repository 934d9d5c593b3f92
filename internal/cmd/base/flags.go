// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package base

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/tomtom215/estat-mcp/internal/config"
	"github.com/tomtom215/estat-mcp/internal/models"
)

// FlagSet wraps flag.FlagSet with generated help text.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet returns a FlagSet that reports parse errors to the caller
// instead of exiting.
func NewFlagSet(name string) *FlagSet {
	f := flag.NewFlagSet(name, flag.ContinueOnError)
	f.SetOutput(io.Discard)
	return &FlagSet{FlagSet: f}
}

// Help lists the flags for a command's Help text.
func (f *FlagSet) Help() string {
	var b strings.Builder
	b.WriteString("\n\nOptions:\n")
	f.VisitAll(func(fl *flag.Flag) {
		fmt.Fprintf(&b, "\n  -%s", fl.Name)
		if fl.DefValue != "" && fl.DefValue != "false" && fl.DefValue != "0" {
			fmt.Fprintf(&b, "=%s", fl.DefValue)
		}
		fmt.Fprintf(&b, "\n      %s\n", fl.Usage)
	})
	return strings.TrimRight(b.String(), "\n")
}

// ClientFlags are accepted by every command that talks to e-Stat.
type ClientFlags struct {
	ConfigPath string
	AppID      string
	LogLevel   string
}

// Register adds -config, -app-id and -log-level to f.
func (cf *ClientFlags) Register(f *FlagSet) {
	f.StringVar(&cf.ConfigPath, "config", "", "[CONFIG_PATH] YAML configuration file")
	f.StringVar(&cf.AppID, "app-id", "", "[ESTAT_APP_ID] e-Stat application ID")
	f.StringVar(&cf.LogLevel, "log-level", "", "[LOG_LEVEL] debug, info, warn or error")
}

func (cf *ClientFlags) apply(cfg *config.Config) {
	if cf.AppID != "" {
		cfg.Estat.AppID = cf.AppID
	}
	if cf.LogLevel != "" {
		cfg.Logging.Level = cf.LogLevel
	}
}

// DataFlags select cells; shared by data and dataset.
type DataFlags struct {
	CdTab, CdTime, CdArea, CdCat01 string
	LvTab, LvTime, LvArea          string
}

// Register adds the filter flags to f.
func (df *DataFlags) Register(f *FlagSet) {
	f.StringVar(&df.CdTab, "cd-tab", "", "Table item codes, comma separated")
	f.StringVar(&df.CdTime, "cd-time", "", "Time codes, comma separated")
	f.StringVar(&df.CdArea, "cd-area", "", "Area codes, comma separated (13000 is Tokyo)")
	f.StringVar(&df.CdCat01, "cd-cat01", "", "Classification 01 codes, comma separated")
	f.StringVar(&df.LvTab, "lv-tab", "", "Table item hierarchy level, e.g. 1 or 1-2")
	f.StringVar(&df.LvTime, "lv-time", "", "Time hierarchy level")
	f.StringVar(&df.LvArea, "lv-area", "", "Area hierarchy level")
}

// Query returns a DataQuery for statsID carrying these filters.
func (df *DataFlags) Query(statsID string) models.DataQuery {
	return models.DataQuery{
		StatsID: statsID,
		CdTab:   df.CdTab,
		CdTime:  df.CdTime,
		CdArea:  df.CdArea,
		CdCat01: df.CdCat01,
		LvTab:   df.LvTab,
		LvTime:  df.LvTime,
		LvArea:  df.LvArea,
	}
}
