// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package estat

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/estat-mcp/internal/logging"
	"github.com/tomtom215/estat-mcp/internal/metrics"
	"github.com/tomtom215/estat-mcp/internal/models"
)

// e-Stat API endpoints (relative to the JSON base URL).
const (
	endpointStatsList  = "getStatsList"
	endpointMetaInfo   = "getMetaInfo"
	endpointStatsData  = "getStatsData"
	endpointPostDatset = "postDataset"
)

const (
	// maxErrorBodySize bounds how much of a failed response is kept for the
	// error message.
	maxErrorBodySize = 64 * 1024

	// maxResponseSize bounds a decoded body. A 100000-cell page is roughly
	// 20 MB of JSON.
	maxResponseSize = 256 << 20
)

// apiRequest is one call to an e-Stat endpoint.
type apiRequest struct {
	op       string // client operation, for errors and logs
	endpoint string
	target   string // stats or dataset ID, for NotFoundError
	method   string
	emptyOK  bool
	params   url.Values
}

func newAPIRequest(op, endpoint string) *apiRequest {
	return &apiRequest{op: op, endpoint: endpoint, method: http.MethodGet, params: url.Values{}}
}

// addParam sets key unless value is empty.
func (r *apiRequest) addParam(key, value string) *apiRequest {
	if value = strings.TrimSpace(value); value != "" {
		r.params.Set(key, value)
	}
	return r
}

// addIntParam sets key when value > 0.
func (r *apiRequest) addIntParam(key string, value int) *apiRequest {
	if value > 0 {
		r.params.Set(key, strconv.Itoa(value))
	}
	return r
}

// addDataFilters adds the statsDataId/dataSetId and the cd*/lv* filters
// shared by getStatsData and postDataset.
func (r *apiRequest) addDataFilters(q *models.DataQuery) *apiRequest {
	return r.
		addParam("statsDataId", q.StatsID).
		addParam("dataSetId", q.DatasetID).
		addParam("cdTab", q.CdTab).
		addParam("cdTime", q.CdTime).
		addParam("cdArea", q.CdArea).
		addParam("cdCat01", q.CdCat01).
		addParam("lvTab", q.LvTab).
		addParam("lvTime", q.LvTime).
		addParam("lvArea", q.LvArea)
}

// values returns the encoded parameters with appId added.
func (r *apiRequest) values(appID string) url.Values {
	v := make(url.Values, len(r.params)+1)
	for k, vals := range r.params {
		v[k] = vals
	}
	v.Set("appId", appID)
	return v
}

func (r *apiRequest) buildHTTPRequest(ctx context.Context, baseURL, appID, userAgent string) (*http.Request, error) {
	endpointURL := baseURL + r.endpoint
	var (
		req *http.Request
		err error
	)
	if r.method == http.MethodPost {
		body := strings.NewReader(r.values(appID).Encode())
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, body)
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, endpointURL+"?"+r.values(appID).Encode(), http.NoBody)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", r.endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	return req, nil
}

// readBodyForError reads at most maxErrorBodySize bytes for diagnostics.
func readBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return "(failed to read response body)"
	}
	s := strings.TrimSpace(string(body))
	if len(body) == maxErrorBodySize {
		s += " ... (truncated)"
	}
	return s
}

// httpStatusError maps a non-200 response to an error kind.
func httpStatusError(r *apiRequest, resp *http.Response) error {
	msg := readBodyForError(resp.Body)
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthenticationError{Op: r.op, HTTPStatus: resp.StatusCode, Message: msg}
	case http.StatusNotFound:
		return &NotFoundError{Op: r.op, StatsID: r.target, Message: msg}
	default:
		return &ServiceError{Op: r.op, HTTPStatus: resp.StatusCode, Message: msg}
	}
}

// executeAPIRequest waits on the limiter, sends r, decodes the body into T
// and converts RESULT.STATUS with checkStatus. Every outcome is recorded in
// estat_requests_total.
func executeAPIRequest[T any](ctx context.Context, c *Client, r *apiRequest, result func(*T) *resultInf) (*T, error) {
	if c.closed.Load() {
		return nil, &NetworkError{Op: r.op, Err: ErrClientClosed}
	}
	if c.appID == "" {
		return nil, &AuthenticationError{Op: r.op, Message: "no application ID configured (set ESTAT_APP_ID)"}
	}

	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, &NetworkError{Op: r.op, Err: fmt.Errorf("waiting for rate limiter: %w", err)}
	}

	start := time.Now()
	out, err := roundTrip(ctx, c, r, result)
	metrics.RecordEstatRequest(r.endpoint, Outcome(err), time.Since(start))

	log := logging.Ctx(ctx)
	if err != nil {
		ev := log.Debug()
		if !IsClientError(err) {
			ev = log.Warn()
		}
		ev.Str("endpoint", r.endpoint).Str("target", r.target).Dur("elapsed", time.Since(start)).Err(err).Msg("e-Stat request failed")
		return nil, err
	}
	log.Debug().Str("endpoint", r.endpoint).Str("target", r.target).Dur("elapsed", time.Since(start)).Msg("e-Stat request completed")
	return out, nil
}

func roundTrip[T any](ctx context.Context, c *Client, r *apiRequest, result func(*T) *resultInf) (*T, error) {
	req, err := r.buildHTTPRequest(ctx, c.baseURL, c.appID, c.userAgent)
	if err != nil {
		return nil, &ValidationError{Op: r.op, Field: "request", Reason: err.Error()}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: r.op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpStatusError(r, resp)
	}

	var out T
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&out); err != nil {
		if ctx.Err() != nil {
			return nil, &NetworkError{Op: r.op, Err: ctx.Err()}
		}
		return nil, &ServiceError{Op: r.op, HTTPStatus: resp.StatusCode, Message: "malformed response: " + err.Error()}
	}

	ri := result(&out)
	if err := checkStatus(r.op, r.target, int(ri.Status), ri.ErrorMsg.String(), r.emptyOK); err != nil {
		return nil, err
	}
	return &out, nil
}
