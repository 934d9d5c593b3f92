// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

/*
Package models defines the normalized e-Stat entities returned by the
client and serialized by the HTTP API, the MCP tools and the CLI.

Entities:

  - StatsTable: one search hit (a statistical table and its catalogue fields)
  - StatsMeta: the code lists of a table, split into the tab, time and area
    axes plus any number of classification axes (cat01, cat02, ...)
  - StatsValue: one cell; Value keeps the service's text so placeholders
    such as "-" or "X" survive
  - StatsData: one page, or the concatenation of several pages, of cells
  - DataSet: a registered dataset (a saved filter over a table)

Query types (SearchQuery, DataQuery) carry validate tags checked by
internal/validation before any request is sent.

All entities are plain values built from a single response. Nothing here
performs I/O.
*/
package models
