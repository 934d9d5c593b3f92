// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

// Package commands implements the estat subcommands.
package commands

import (
	"github.com/mitchellh/cli"

	"github.com/tomtom215/estat-mcp/internal/cmd/base"
)

// Factories returns the command table for cli.CLI. Every command shares b.
func Factories(b *base.Command) map[string]cli.CommandFactory {
	return map[string]cli.CommandFactory{
		"search": func() (cli.Command, error) {
			return &SearchCommand{Command: b}, nil
		},
		"meta": func() (cli.Command, error) {
			return &MetaCommand{Command: b}, nil
		},
		"data": func() (cli.Command, error) {
			return &DataCommand{Command: b}, nil
		},
		"dataset": func() (cli.Command, error) {
			return &DatasetCommand{Command: b}, nil
		},
		"test": func() (cli.Command, error) {
			return &TestCommand{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &VersionCommand{Command: b}, nil
		},
		"mcp": func() (cli.Command, error) {
			return &MCPCommand{Command: b}, nil
		},
	}
}
