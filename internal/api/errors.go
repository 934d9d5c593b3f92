// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/estat-mcp/internal/estat"
	"github.com/tomtom215/estat-mcp/internal/logging"
)

// errQueryParam reports a query string value that is not a usable integer.
var errQueryParam = errors.New("invalid query parameter")

// ClientError writes the response for an error returned by estat.StatsClient.
func (rw *ResponseWriter) ClientError(err error) {
	var (
		valErr  *estat.ValidationError
		authErr *estat.AuthenticationError
		nfErr   *estat.NotFoundError
		svcErr  *estat.ServiceError
	)
	log := logging.Ctx(rw.r.Context())

	switch {
	case errors.As(err, &valErr):
		rw.ValidationError(valErr.Error(), map[string]any{
			"field":  valErr.Field,
			"reason": valErr.Reason,
		})
	case errors.As(err, &authErr):
		log.Error().Err(err).Msg("e-Stat rejected the application ID")
		rw.Error(http.StatusBadGateway, ErrCodeUpstreamAuth, "e-Stat rejected the configured application ID")
	case errors.As(err, &nfErr):
		rw.NotFound(nfErr.Error())
	case errors.As(err, &svcErr):
		log.Warn().Err(err).Msg("e-Stat service error")
		if svcErr.Retryable() {
			rw.Error(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, svcErr.Error())
			return
		}
		rw.Error(http.StatusBadGateway, ErrCodeExternalServiceFail, svcErr.Error())
	default:
		log.Warn().Err(err).Msg("e-Stat unreachable")
		rw.Error(http.StatusGatewayTimeout, ErrCodeUpstreamUnreachable, "e-Stat could not be reached")
	}
}
