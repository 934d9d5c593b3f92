// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package estat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/estat-mcp/internal/logging"
	"github.com/tomtom215/estat-mcp/internal/metrics"
	"github.com/tomtom215/estat-mcp/internal/models"
)

// CircuitBreakerName labels the breaker in logs and metrics.
const CircuitBreakerName = "estat-api"

// CircuitBreakerClient wraps a StatsClient with a circuit breaker so that an
// unavailable e-Stat is not hammered by every caller.
//
// Validation, authentication and not-found errors count as successes: they
// describe the request, not the health of the service.
//
// The breaker uses real time for its interval and timeout. Tests exercise
// tripping through a short Timeout rather than a fake clock.
type CircuitBreakerClient struct {
	inner    StatsClient
	cb       *gobreaker.CircuitBreaker[any]
	name     string
	maxPages int
}

var _ StatsClient = (*CircuitBreakerClient)(nil)

// BreakerSettings tunes the breaker. Zero fields take defaults.
type BreakerSettings struct {
	MaxRequests  uint32        // probes allowed while half-open (3)
	Interval     time.Duration // closed-state count reset (1m)
	Timeout      time.Duration // open -> half-open delay (2m)
	MinRequests  uint32        // requests before the ratio is considered (10)
	FailureRatio float64       // trip threshold (0.6)
}

func (s BreakerSettings) withDefaults() BreakerSettings {
	if s.MaxRequests == 0 {
		s.MaxRequests = 3
	}
	if s.Interval == 0 {
		s.Interval = time.Minute
	}
	if s.Timeout == 0 {
		s.Timeout = 2 * time.Minute
	}
	if s.MinRequests == 0 {
		s.MinRequests = 10
	}
	if s.FailureRatio == 0 {
		s.FailureRatio = 0.6
	}
	return s
}

// NewCircuitBreakerClient wraps inner with default settings.
func NewCircuitBreakerClient(inner StatsClient) *CircuitBreakerClient {
	return NewCircuitBreakerClientWithSettings(inner, BreakerSettings{})
}

// NewCircuitBreakerClientWithSettings wraps inner with the given settings.
func NewCircuitBreakerClientWithSettings(inner StatsClient, s BreakerSettings) *CircuitBreakerClient {
	s = s.withDefaults()
	name := CircuitBreakerName

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			trip := ratio >= s.FailureRatio
			if trip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", ratio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return trip
		},

		IsSuccessful: func(err error) bool {
			return err == nil || IsClientError(err) || errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &CircuitBreakerClient{inner: inner, cb: cb, name: name, maxPages: pageCap(inner)}
}

// State returns the breaker's current state.
func (cbc *CircuitBreakerClient) State() gobreaker.State { return cbc.cb.State() }

// execute runs fn through the breaker. A rejected call surfaces as a
// ServiceError so callers only deal with the documented error kinds.
func (cbc *CircuitBreakerClient) execute(op string, fn func() (any, error)) (any, error) {
	result, err := cbc.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Warn().Err(err).Str("op", op).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, &ServiceError{Op: op, HTTPStatus: http.StatusServiceUnavailable, Message: "e-Stat temporarily unavailable: " + err.Error()}
		}
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	return result, nil
}

// castResult type-asserts a breaker result.
func castResult[T any](result any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func (cbc *CircuitBreakerClient) SearchStats(ctx context.Context, q models.SearchQuery) ([]models.StatsTable, error) {
	return castResult[[]models.StatsTable](cbc.execute("search_stats", func() (any, error) {
		return cbc.inner.SearchStats(ctx, q)
	}))
}

func (cbc *CircuitBreakerClient) GetMeta(ctx context.Context, statsID string) (*models.StatsMeta, error) {
	return castResult[*models.StatsMeta](cbc.execute("get_meta", func() (any, error) {
		return cbc.inner.GetMeta(ctx, statsID)
	}))
}

func (cbc *CircuitBreakerClient) GetData(ctx context.Context, q models.DataQuery) (*models.StatsData, error) {
	return castResult[*models.StatsData](cbc.execute("get_data", func() (any, error) {
		return cbc.inner.GetData(ctx, q)
	}))
}

// GetAllData paginates through the breaker one page at a time.
func (cbc *CircuitBreakerClient) GetAllData(ctx context.Context, q models.DataQuery, maxPages int) (*models.StatsData, error) {
	if maxPages == 0 {
		maxPages = cbc.maxPages
	}
	return Paginate(ctx, cbc.GetData, q, maxPages)
}

func (cbc *CircuitBreakerClient) RegisterDataset(ctx context.Context, req models.DatasetRequest) (*models.DataSet, error) {
	return castResult[*models.DataSet](cbc.execute("register_dataset", func() (any, error) {
		return cbc.inner.RegisterDataset(ctx, req)
	}))
}

func (cbc *CircuitBreakerClient) Ping(ctx context.Context) error {
	_, err := cbc.execute("ping", func() (any, error) {
		return nil, cbc.inner.Ping(ctx)
	})
	return err
}

func (cbc *CircuitBreakerClient) Close() error { return cbc.inner.Close() }

// MaxPages returns the page cap used when GetAllData is given 0.
func (cbc *CircuitBreakerClient) MaxPages() int { return cbc.maxPages }

// pageCap reads the default page cap from a StatsClient that exposes one.
func pageCap(c StatsClient) int {
	if p, ok := c.(interface{ MaxPages() int }); ok && p.MaxPages() > 0 {
		return p.MaxPages()
	}
	return models.DefaultMaxPages
}
