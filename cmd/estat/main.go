// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

// Command estat searches and downloads e-Stat statistics from the terminal
// and serves the MCP tools over stdio.
//
//	export ESTAT_APP_ID=...
//	estat search 人口推計
//	estat meta 0003410379
//	estat data -cd-area 13000 -format csv 0003410379
//	estat mcp
package main

import (
	"os"

	"github.com/tomtom215/estat-mcp/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
