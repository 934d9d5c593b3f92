// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for upstream calls. They mirror the estat error kinds so a
// dashboard can tell user mistakes from service trouble.
const (
	OutcomeSuccess        = "success"
	OutcomeValidation     = "validation"
	OutcomeAuthentication = "authentication"
	OutcomeNotFound       = "not_found"
	OutcomeService        = "service"
	OutcomeNetwork        = "network"
)

var (
	// e-Stat upstream
	EstatRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estat_requests_total",
			Help: "Requests sent to the e-Stat API by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	EstatRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "estat_request_duration_seconds",
			Help:    "e-Stat API request latency, excluding rate limiter wait",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"endpoint"},
	)

	EstatRateLimitWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "estat_rate_limit_wait_seconds",
			Help:    "Time spent waiting on the client-side rate limiter",
			Buckets: []float64{0.001, 0.01, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	EstatPagesFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "estat_pages_fetched_total",
			Help: "Data pages fetched by multi-page retrievals",
		},
	)

	EstatTruncatedRetrievals = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "estat_truncated_retrievals_total",
			Help: "Multi-page retrievals that stopped at the page cap before the total count",
		},
	)

	EstatUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "estat_up",
			Help: "1 when the last background ping of e-Stat succeeded, 0 otherwise",
		},
	)

	EstatRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estat_retries_total",
			Help: "Caller-side retries of transient e-Stat failures",
		},
		[]string{"operation"},
	)

	// Metadata cache
	MetaCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "estat_meta_cache_hits_total",
			Help: "Metadata lookups served from cache",
		},
	)

	MetaCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "estat_meta_cache_misses_total",
			Help: "Metadata lookups that went to the e-Stat API",
		},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Requests passed through the circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// HTTP API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "HTTP API requests by method, route and status code",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP API request latency",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "HTTP API requests currently in flight",
		},
	)

	// MCP
	MCPToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcp_tool_calls_total",
			Help: "MCP tool invocations by tool and outcome",
		},
		[]string{"tool", "outcome"},
	)

	MCPToolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mcp_tool_duration_seconds",
			Help:    "MCP tool latency including upstream pagination",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"tool"},
	)
)

// RecordEstatRequest records one upstream HTTP exchange.
func RecordEstatRequest(endpoint, outcome string, duration time.Duration) {
	EstatRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	EstatRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordRateLimitWait records the time a caller was held by the limiter.
func RecordRateLimitWait(d time.Duration) {
	EstatRateLimitWait.Observe(d.Seconds())
}

// RecordPagination records the result of a multi-page retrieval.
func RecordPagination(pages int, truncated bool) {
	EstatPagesFetched.Add(float64(pages))
	if truncated {
		EstatTruncatedRetrievals.Inc()
	}
}

// RecordMetaCacheLookup counts a metadata cache hit or miss.
func RecordMetaCacheLookup(hit bool) {
	if hit {
		MetaCacheHits.Inc()
		return
	}
	MetaCacheMisses.Inc()
}

// RecordAPIRequest records a served HTTP API request.
func RecordAPIRequest(method, route, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordMCPToolCall records one MCP tool invocation.
func RecordMCPToolCall(tool, outcome string, duration time.Duration) {
	MCPToolCalls.WithLabelValues(tool, outcome).Inc()
	MCPToolDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// RecordProbe sets estat_up from the outcome of a background ping.
func RecordProbe(ok bool) {
	if ok {
		EstatUp.Set(1)
		return
	}
	EstatUp.Set(0)
}
