// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package models

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Fixed export columns. Classification axes follow in sorted order.
const (
	ColValue     = "value"
	ColUnit      = "unit"
	ColTableCode = "table_code"
	ColTimeCode  = "time_code"
	ColAreaCode  = "area_code"
)

var fixedColumns = []string{ColValue, ColUnit, ColTableCode, ColTimeCode, ColAreaCode}

// Table is a column-oriented export of StatsData. Every row has one entry
// per column; the value column holds float64 for numeric cells and the raw
// string for placeholders.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Columns returns the export column names for d.
func (d *StatsData) Columns() []string {
	cats := d.ClassificationKeys()
	cols := make([]string, 0, len(fixedColumns)+len(cats))
	cols = append(cols, fixedColumns...)
	return append(cols, cats...)
}

// ToRecords returns one map per value keyed by Columns(). Absent codes are
// empty strings so every record carries the same keys.
func (d *StatsData) ToRecords() []map[string]any {
	cats := d.ClassificationKeys()
	out := make([]map[string]any, len(d.Values))
	for i := range d.Values {
		v := &d.Values[i]
		rec := make(map[string]any, len(fixedColumns)+len(cats))
		rec[ColValue] = v.Value.Export()
		rec[ColUnit] = v.Unit
		rec[ColTableCode] = v.TableCode
		rec[ColTimeCode] = v.TimeCode
		rec[ColAreaCode] = v.AreaCode
		for _, c := range cats {
			rec[c] = v.Classifications[c]
		}
		out[i] = rec
	}
	return out
}

// ToTable returns the same data as ToRecords in row-major form.
func (d *StatsData) ToTable() Table {
	cats := d.ClassificationKeys()
	t := Table{Columns: d.Columns(), Rows: make([][]any, len(d.Values))}
	for i := range d.Values {
		v := &d.Values[i]
		row := make([]any, 0, len(t.Columns))
		row = append(row, v.Value.Export(), v.Unit, v.TableCode, v.TimeCode, v.AreaCode)
		for _, c := range cats {
			row = append(row, v.Classifications[c])
		}
		t.Rows[i] = row
	}
	return t
}

// WriteCSV writes a header row and one row per value. The value column is
// the raw cell text.
func (d *StatsData) WriteCSV(w io.Writer) error {
	cats := d.ClassificationKeys()
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Columns()); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	row := make([]string, 0, len(fixedColumns)+len(cats))
	for i := range d.Values {
		v := &d.Values[i]
		row = append(row[:0], v.Value.Raw(), v.Unit, v.TableCode, v.TimeCode, v.AreaCode)
		for _, c := range cats {
			row = append(row, v.Classifications[c])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
