// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

// Package base holds what every estat subcommand shares: the UI, config
// loading and client construction.
package base

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/mitchellh/cli"

	"github.com/tomtom215/estat-mcp/internal/config"
	"github.com/tomtom215/estat-mcp/internal/estat"
	"github.com/tomtom215/estat-mcp/internal/logging"
)

// StackFunc builds the client a command talks to.
type StackFunc func(cfg *config.Config) estat.StatsClient

// DefaultStack is estat.NewStack without the inner client.
func DefaultStack(cfg *config.Config) estat.StatsClient {
	sc, _ := estat.NewStack(cfg)
	return sc
}

// Command is embedded by every subcommand.
type Command struct {
	UI cli.Ui

	// NewStack defaults to DefaultStack.
	NewStack StackFunc
}

// New returns a Command writing to ui.
func New(ui cli.Ui) *Command {
	return &Command{UI: ui, NewStack: DefaultStack}
}

// Setup loads configuration, applies flag overrides, switches logging to
// the console writer on stderr and builds the client. The caller closes
// the client.
func (c *Command) Setup(f *ClientFlags) (estat.StatsClient, *config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.ConfigPath != "" {
		cfg, err = config.LoadFile(f.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, err
	}
	f.apply(cfg)

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: "console",
		Output: os.Stderr,
	})

	stack := c.NewStack
	if stack == nil {
		stack = DefaultStack
	}
	return stack(cfg), cfg, nil
}

// PrintJSON writes v to the UI as indented JSON.
func (c *Command) PrintJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	c.UI.Output(string(b))
	return nil
}

// Fail reports err and returns the exit code. Missing credentials get a
// hint since that is the first error most users see.
func (c *Command) Fail(err error) int {
	c.UI.Error(fmt.Sprintf("error: %v", err))
	var authErr *estat.AuthenticationError
	if errors.As(err, &authErr) {
		c.UI.Error("hint: register at https://www.e-stat.go.jp/api/ and set " + estat.AppIDEnvVar)
	}
	return 1
}
