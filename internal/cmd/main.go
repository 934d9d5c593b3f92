// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

// Package cmd is the estat command line.
package cmd

import (
	"bufio"
	"os"

	"github.com/mitchellh/cli"

	"github.com/tomtom215/estat-mcp/internal/cmd/base"
	"github.com/tomtom215/estat-mcp/internal/cmd/commands"
	"github.com/tomtom215/estat-mcp/internal/version"
)

// Main runs the CLI with the given arguments and returns the exit code.
func Main(args []string) int {
	ui := &cli.BasicUi{
		Reader:      bufio.NewReader(os.Stdin),
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}
	return Run(args, base.New(ui))
}

// Run is Main with the UI and client factory supplied by the caller.
func Run(args []string, b *base.Command) int {
	cliName := "estat"
	if len(args) > 0 {
		cliName = args[0]
		args = args[1:]
	}

	if len(args) == 1 && (args[0] == "-version" || args[0] == "-v") {
		args = []string{"version"}
	}

	c := &cli.CLI{
		Name:       cliName,
		Args:       args,
		Version:    version.String(),
		Commands:   commands.Factories(b),
		HelpWriter: os.Stderr,
	}

	exitCode, err := c.Run()
	if err != nil {
		b.UI.Error(err.Error())
		return 1
	}
	return exitCode
}
