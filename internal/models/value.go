// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package models

import (
	"strconv"
	"strings"
)

// Value is the text of one data cell exactly as e-Stat returned it.
//
// Published tables use placeholders instead of numbers for suppressed or
// unavailable cells ("-" nothing to report, "X" confidential, "***" not
// applicable, "..." not yet available). They are kept verbatim and are never
// coerced to zero.
type Value string

var missingMarkers = map[string]struct{}{
	"":    {},
	"-":   {},
	"***": {},
	"x":   {},
	"X":   {},
	"...": {},
	"…":   {},
}

// Raw returns the original text.
func (v Value) Raw() string { return string(v) }

// IsMissing reports whether the cell holds a placeholder rather than a number.
func (v Value) IsMissing() bool {
	_, ok := missingMarkers[strings.TrimSpace(string(v))]
	return ok
}

// Float64 parses the cell. Thousands separators are accepted. ok is false
// for placeholders and any other non-numeric text.
func (v Value) Float64() (f float64, ok bool) {
	if v.IsMissing() {
		return 0, false
	}
	s := strings.ReplaceAll(strings.TrimSpace(string(v)), ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Export returns a float64 for numeric cells and the raw string otherwise.
func (v Value) Export() any {
	if f, ok := v.Float64(); ok {
		return f
	}
	return string(v)
}
