// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package models

import "sort"

// StatsValue is one cell of a table. Classifications maps a classification
// axis id (cat01, cat02, ...) to this cell's code on that axis.
type StatsValue struct {
	Value           Value             `json:"value"`
	TableCode       string            `json:"table_code,omitempty"`
	TimeCode        string            `json:"time_code,omitempty"`
	AreaCode        string            `json:"area_code,omitempty"`
	Unit            string            `json:"unit,omitempty"`
	Classifications map[string]string `json:"classifications,omitempty"`
}

// StatsData is a page of cells, or several pages concatenated in service
// order. len(Values) never exceeds TotalCount.
type StatsData struct {
	StatsID    string       `json:"stats_id"`
	TotalCount int          `json:"total_count"`
	Values     []StatsValue `json:"values"`

	// Notes maps placeholder text to its published meaning.
	Notes map[string]string `json:"notes,omitempty"`

	// Query is the query that produced the first page.
	Query DataQuery `json:"query"`

	// NextPosition is the start position of the first cell not returned, or
	// 0 when the result reaches the end of the table.
	NextPosition int `json:"next_position,omitempty"`

	// Truncated is set by multi-page retrieval when it stopped at its page
	// cap before reaching TotalCount.
	Truncated    bool `json:"truncated"`
	PagesFetched int  `json:"pages_fetched"`
}

// HasMore reports whether cells beyond this result exist.
func (d *StatsData) HasMore() bool {
	return d.NextPosition > 0
}

// ClassificationKeys returns the sorted union of classification axis ids
// present on any value.
func (d *StatsData) ClassificationKeys() []string {
	seen := make(map[string]struct{})
	for i := range d.Values {
		for k := range d.Values[i].Classifications {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Head returns a shallow copy holding at most n values. The counts and
// position fields are kept so the caller can still see how much exists.
func (d *StatsData) Head(n int) *StatsData {
	out := *d
	if n >= 0 && len(out.Values) > n {
		out.Values = out.Values[:n]
	}
	return &out
}
