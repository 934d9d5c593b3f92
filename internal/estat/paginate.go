// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package estat

import (
	"context"
	"fmt"

	"github.com/tomtom215/estat-mcp/internal/logging"
	"github.com/tomtom215/estat-mcp/internal/metrics"
	"github.com/tomtom215/estat-mcp/internal/models"
)

// PageFunc fetches one page of data.
type PageFunc func(ctx context.Context, q models.DataQuery) (*models.StatsData, error)

// ValidateRequestedPages checks a page cap supplied by a remote caller.
// 0 is accepted and selects the configured default.
func ValidateRequestedPages(maxPages int) error {
	if maxPages < 0 || maxPages > models.MaxRequestedPages {
		return &ValidationError{
			Op:     "get_all_data",
			Field:  "max_pages",
			Value:  maxPages,
			Reason: fmt.Sprintf("max_pages must be between 0 and %d", models.MaxRequestedPages),
		}
	}
	return nil
}

// Paginate calls fetch for consecutive pages and concatenates the values in
// service order. Each page starts where the previous one ended. The loop
// stops when the values collected reach the service's total, when a page is
// empty, or after maxPages pages. In the last case the result has Truncated
// set and NextPosition pointing at the first cell not fetched.
//
// maxPages == 0 selects models.DefaultMaxPages. An error on any page fails
// the whole call and the pages already fetched are discarded.
func Paginate(ctx context.Context, fetch PageFunc, q models.DataQuery, maxPages int) (*models.StatsData, error) {
	const op = "get_all_data"
	switch {
	case maxPages < 0:
		return nil, &ValidationError{Op: op, Field: "max_pages", Value: maxPages, Reason: "max_pages must not be negative"}
	case maxPages == 0:
		maxPages = models.DefaultMaxPages
	}
	q = q.WithDefaults()

	var result *models.StatsData
	page := q
	for result == nil || result.PagesFetched < maxPages {
		if err := ctx.Err(); err != nil {
			return nil, &NetworkError{Op: op, Err: err}
		}

		data, err := fetch(ctx, page)
		if err != nil {
			if result != nil {
				return nil, fmt.Errorf("page %d (start %d): %w", result.PagesFetched+1, page.StartPosition, err)
			}
			return nil, err
		}

		if result == nil {
			result = data
			result.Query = q
		} else {
			mergePage(result, data)
		}

		if len(data.Values) == 0 || data.NextPosition == 0 || len(result.Values) >= result.TotalCount {
			result.NextPosition = 0
			break
		}
		result.NextPosition = data.NextPosition
		page.StartPosition = data.NextPosition
	}

	result.Truncated = result.NextPosition > 0
	metrics.RecordPagination(result.PagesFetched, result.Truncated)

	if result.Truncated {
		logging.Ctx(ctx).Warn().
			Str("stats_id", result.StatsID).
			Int("pages", result.PagesFetched).
			Int("fetched", len(result.Values)).
			Int("total", result.TotalCount).
			Int("next_position", result.NextPosition).
			Msg("Page cap reached before end of table; result truncated")
	}
	return result, nil
}

func mergePage(dst, page *models.StatsData) {
	dst.Values = append(dst.Values, page.Values...)
	dst.PagesFetched++
	if page.TotalCount > dst.TotalCount {
		dst.TotalCount = page.TotalCount
	}
	if len(dst.Values) > dst.TotalCount {
		dst.TotalCount = len(dst.Values)
	}
	for k, v := range page.Notes {
		if dst.Notes == nil {
			dst.Notes = make(map[string]string, len(page.Notes))
		}
		if _, ok := dst.Notes[k]; !ok {
			dst.Notes[k] = v
		}
	}
}
