// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/tomtom215/estat-mcp/internal/estat"
	"github.com/tomtom215/estat-mcp/internal/version"
)

const (
	// pingTimeout bounds the upstream check made without a background probe.
	pingTimeout = 5 * time.Second

	// pingCacheTTL is how long that check's result answers health requests.
	pingCacheTTL = 30 * time.Second
)

// errProbePending is reported until the background probe has completed once.
var errProbePending = errors.New("e-Stat probe has not completed yet")

// UpstreamStatus is the background reachability check run by the server
// (services.ProbeService).
type UpstreamStatus interface {
	LastResult() (checkedAt time.Time, err error)
}

// SetUpstreamStatus makes the health endpoints report s instead of pinging
// e-Stat per request.
func (h *Handler) SetUpstreamStatus(s UpstreamStatus) {
	h.upstream = s
}

// HealthStatus is returned by /health.
type HealthStatus struct {
	Status         string     `json:"status"`
	Version        string     `json:"version"`
	EstatReachable bool       `json:"estat_reachable"`
	EstatError     string     `json:"estat_error,omitempty"`
	EstatCheckedAt *time.Time `json:"estat_checked_at,omitempty"`
	Uptime         float64    `json:"uptime_seconds"`
}

// pingCache shares one upstream ping among concurrent health requests and
// reuses its result for pingCacheTTL.
type pingCache struct {
	mu        sync.Mutex
	checkedAt time.Time
	err       error
}

// upstreamStatus never sends more than one e-Stat request per pingCacheTTL,
// and none at all when a background probe is configured.
func (h *Handler) upstreamStatus(ctx context.Context) (time.Time, error) {
	if h.upstream != nil {
		at, err := h.upstream.LastResult()
		if at.IsZero() {
			return at, errProbePending
		}
		return at, err
	}

	h.ping.mu.Lock()
	defer h.ping.mu.Unlock()
	if !h.ping.checkedAt.IsZero() && time.Since(h.ping.checkedAt) < pingCacheTTL {
		return h.ping.checkedAt, h.ping.err
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	err := h.client.Ping(ctx)
	h.ping.checkedAt, h.ping.err = time.Now(), err
	return h.ping.checkedAt, err
}

func describeUpstreamError(err error) string {
	if errors.Is(err, errProbePending) {
		return "pending"
	}
	return estat.Outcome(err)
}

// Health reports whether e-Stat answers with the configured application ID.
// It always returns 200; Status is "degraded" when the last check failed.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health := HealthStatus{
		Status:         "healthy",
		Version:        version.Version,
		EstatReachable: true,
		Uptime:         time.Since(h.startTime).Seconds(),
	}
	at, err := h.upstreamStatus(r.Context())
	if !at.IsZero() {
		health.EstatCheckedAt = &at
	}
	if err != nil {
		health.Status = "degraded"
		health.EstatReachable = false
		health.EstatError = describeUpstreamError(err)
	}
	WriteSuccess(w, r, health)
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]any{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady returns 503 until the last check of e-Stat succeeded.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if _, err := h.upstreamStatus(r.Context()); err != nil {
		NewResponseWriter(w, r).ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable,
			"e-Stat is not reachable", map[string]string{"outcome": describeUpstreamError(err)})
		return
	}
	WriteSuccess(w, r, map[string]any{"ready": true})
}
