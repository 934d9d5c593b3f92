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

	"github.com/tomtom215/estat-mcp/internal/metrics"
)

// ErrClientClosed is wrapped in a NetworkError when an operation is called
// after Close.
var ErrClientClosed = errors.New("estat: client closed")

// ValidationError reports arguments rejected before any request was sent.
type ValidationError struct {
	Op     string
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("estat: %s: invalid %s: %s", e.Op, e.Field, e.Reason)
}

// AuthenticationError reports a missing or rejected application ID.
type AuthenticationError struct {
	Op         string
	HTTPStatus int
	Status     int
	Message    string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("estat: %s: authentication failed: %s", e.Op, e.Message)
}

// NotFoundError reports a table ID (or dataset ID) the service does not
// know, or a filter combination that matches no cells.
type NotFoundError struct {
	Op      string
	StatsID string
	Status  int
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("estat: %s: %s not found", e.Op, e.StatsID)
	}
	return fmt.Sprintf("estat: %s: %s not found: %s", e.Op, e.StatsID, e.Message)
}

// ServiceError reports a failure signalled by the service, either as a
// non-2xx HTTP status or as a non-success STATUS inside an HTTP 200 body.
// HTTPStatus is 0 for in-body failures; Status is 0 for HTTP-level ones.
type ServiceError struct {
	Op         string
	HTTPStatus int
	Status     int
	Message    string
}

func (e *ServiceError) Error() string {
	switch {
	case e.HTTPStatus != 0 && e.HTTPStatus != http.StatusOK:
		return fmt.Sprintf("estat: %s: service error (HTTP %d): %s", e.Op, e.HTTPStatus, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("estat: %s: service error (status %d): %s", e.Op, e.Status, e.Message)
	default:
		return fmt.Sprintf("estat: %s: service error: %s", e.Op, e.Message)
	}
}

// Retryable reports whether repeating the request may succeed: throttling,
// upstream 5xx responses and in-body system errors.
func (e *ServiceError) Retryable() bool {
	return e.HTTPStatus == http.StatusTooManyRequests ||
		e.HTTPStatus >= http.StatusInternalServerError ||
		e.Status >= statusSystemError
}

// NetworkError reports a transport failure: DNS, connection reset, timeout,
// cancellation, or use of a closed client.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("estat: %s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is a transient failure worth repeating.
// Caller cancellation and closed clients are not.
func IsRetryable(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, ErrClientClosed)
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Retryable()
	}
	return false
}

// IsClientError reports whether err was caused by the caller's input or
// credentials rather than by the service or the network.
func IsClientError(err error) bool {
	var (
		v *ValidationError
		a *AuthenticationError
		n *NotFoundError
	)
	return errors.As(err, &v) || errors.As(err, &a) || errors.As(err, &n)
}

// Outcome maps err to a metrics outcome label.
func Outcome(err error) string {
	var (
		v *ValidationError
		a *AuthenticationError
		n *NotFoundError
		s *ServiceError
	)
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.As(err, &v):
		return metrics.OutcomeValidation
	case errors.As(err, &a):
		return metrics.OutcomeAuthentication
	case errors.As(err, &n):
		return metrics.OutcomeNotFound
	case errors.As(err, &s):
		return metrics.OutcomeService
	default:
		return metrics.OutcomeNetwork
	}
}
