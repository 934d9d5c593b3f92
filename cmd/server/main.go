// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/estat-mcp/internal/api"
	"github.com/tomtom215/estat-mcp/internal/config"
	"github.com/tomtom215/estat-mcp/internal/estat"
	"github.com/tomtom215/estat-mcp/internal/logging"
	"github.com/tomtom215/estat-mcp/internal/mcp"
	"github.com/tomtom215/estat-mcp/internal/supervisor"
	"github.com/tomtom215/estat-mcp/internal/supervisor/services"
	"github.com/tomtom215/estat-mcp/internal/version"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().Str("version", version.String()).Msg("Starting estat-mcp server")

	client, base := estat.NewStack(cfg)
	defer func() {
		if err := client.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing e-Stat client")
		}
	}()
	if !base.HasAppID() {
		logging.Warn().Msg("ESTAT_APP_ID is not set; e-Stat calls will fail with authentication errors")
	}

	var mcpHandler http.Handler
	if cfg.MCP.HTTPEnabled {
		mcpHandler = mcp.NewServer(client, cfg.MCP).HTTPHandler()
		logging.Info().Int("max_output_values", cfg.MCP.MaxOutputValues).Msg("MCP streamable HTTP enabled at /mcp")
	}

	handler := api.NewHandler(client)
	var probe *services.ProbeService
	if cfg.Server.ProbeInterval > 0 {
		probe = services.NewProbeService(client, cfg.Server.ProbeInterval, 0)
		handler.SetUpstreamStatus(probe)
	}

	router := api.NewRouter(
		handler,
		api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(cfg.Server)),
		mcpHandler,
	)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	tree.AddAPIService(services.NewHTTPServerService("http-server", server, shutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	if probe != nil {
		tree.AddUpstreamService(probe)
		logging.Info().Dur("interval", cfg.Server.ProbeInterval).Msg("e-Stat probe service added")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := tree.ServeBackground(ctx)
	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish")
		treeErr = <-errCh
	case treeErr = <-errCh:
	}
	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		logging.Error().Err(treeErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Server stopped")
}
