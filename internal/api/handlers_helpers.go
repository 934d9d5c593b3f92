// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/estat-mcp/internal/models"
)

// Output formats accepted by the data endpoints.
const (
	formatJSON = "json"
	formatCSV  = "csv"
)

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// getIntParam extracts an integer query parameter. A missing parameter
// yields 0 so the client applies its own default.
func getIntParam(r *http.Request, key string) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", errQueryParam, key, sanitizeLogValue(value))
	}
	return n, nil
}

// searchQueryFromRequest reads /api/v1/stats parameters.
func searchQueryFromRequest(r *http.Request) (models.SearchQuery, error) {
	q := r.URL.Query()
	limit, err := getIntParam(r, "limit")
	if err != nil {
		return models.SearchQuery{}, err
	}
	return models.SearchQuery{
		Keyword:     q.Get("q"),
		Limit:       limit,
		SurveyYears: q.Get("survey_years"),
		OpenYears:   q.Get("open_years"),
		StatsField:  q.Get("stats_field"),
		StatsCode:   q.Get("stats_code"),
	}, nil
}

// dataQueryFromRequest reads the statsID path parameter and the filter and
// paging query parameters shared by both data endpoints.
func dataQueryFromRequest(r *http.Request) (models.DataQuery, error) {
	q := r.URL.Query()
	limit, err := getIntParam(r, "limit")
	if err != nil {
		return models.DataQuery{}, err
	}
	start, err := getIntParam(r, "start_position")
	if err != nil {
		return models.DataQuery{}, err
	}
	return models.DataQuery{
		StatsID:       chi.URLParam(r, "statsID"),
		CdTab:         q.Get("cd_tab"),
		CdTime:        q.Get("cd_time"),
		CdArea:        q.Get("cd_area"),
		CdCat01:       q.Get("cd_cat01"),
		LvTab:         q.Get("lv_tab"),
		LvTime:        q.Get("lv_time"),
		LvArea:        q.Get("lv_area"),
		Limit:         limit,
		StartPosition: start,
	}, nil
}

// outputFormat returns json or csv; anything else is an error.
func outputFormat(r *http.Request) (string, error) {
	switch f := strings.ToLower(r.URL.Query().Get("format")); f {
	case "", formatJSON:
		return formatJSON, nil
	case formatCSV:
		return formatCSV, nil
	default:
		return "", fmt.Errorf("%w: format must be json or csv, got %q", errQueryParam, sanitizeLogValue(f))
	}
}
