// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package models

// Defaults applied when a query leaves a field at its zero value.
const (
	DefaultSearchLimit   = 20
	DefaultDataLimit     = 100
	DefaultStartPosition = 1
	DefaultMaxPages      = 10

	// MaxRequestedPages bounds a page cap chosen by a remote caller (MCP
	// tool argument or HTTP parameter). The configured default may be higher.
	MaxRequestedPages = 50

	// MaxServiceLimit is the largest page e-Stat will return.
	MaxServiceLimit = 100000
)

// SearchQuery selects tables from the catalogue.
type SearchQuery struct {
	Keyword string `json:"keyword" validate:"required,notblank,max=200"`
	Limit   int    `json:"limit,omitempty" validate:"min=0"`

	// SurveyYears is yyyy, yyyymm or a range yyyymm-yyyymm.
	SurveyYears string `json:"survey_years,omitempty" validate:"omitempty,estatperiod"`
	OpenYears   string `json:"open_years,omitempty" validate:"omitempty,estatperiod"`
	// StatsField is a two or four digit field code.
	StatsField string `json:"stats_field,omitempty" validate:"omitempty,numeric,min=2,max=4"`
	// StatsCode is a government statistics code (5 or 8 digits).
	StatsCode string `json:"stats_code,omitempty" validate:"omitempty,numeric,min=5,max=8"`
}

// WithDefaults returns a copy with zero fields replaced by defaults and the
// limit capped at MaxServiceLimit.
func (q SearchQuery) WithDefaults() SearchQuery {
	if q.Limit == 0 {
		q.Limit = DefaultSearchLimit
	}
	if q.Limit > MaxServiceLimit {
		q.Limit = MaxServiceLimit
	}
	return q
}

// DataQuery selects cells from one table. Filter codes are exact-match and
// are applied by the service; several codes may be joined with commas.
type DataQuery struct {
	StatsID   string `json:"stats_id,omitempty" validate:"required_without=DatasetID,statsid"`
	DatasetID string `json:"dataset_id,omitempty" validate:"omitempty,max=64,printascii"`

	CdTab   string `json:"cd_tab,omitempty" validate:"omitempty,estatcodes"`
	CdTime  string `json:"cd_time,omitempty" validate:"omitempty,estatcodes"`
	CdArea  string `json:"cd_area,omitempty" validate:"omitempty,estatcodes"`
	CdCat01 string `json:"cd_cat01,omitempty" validate:"omitempty,estatcodes"`

	// Level filters restrict an axis to a hierarchy level, e.g. "1" or "1-2".
	LvTab  string `json:"lv_tab,omitempty" validate:"omitempty,estatlevel"`
	LvTime string `json:"lv_time,omitempty" validate:"omitempty,estatlevel"`
	LvArea string `json:"lv_area,omitempty" validate:"omitempty,estatlevel"`

	Limit         int `json:"limit,omitempty" validate:"min=0"`
	StartPosition int `json:"start_position,omitempty" validate:"min=0"`
}

// WithDefaults returns a copy with zero Limit/StartPosition defaulted and the
// limit capped at MaxServiceLimit.
func (q DataQuery) WithDefaults() DataQuery {
	if q.Limit == 0 {
		q.Limit = DefaultDataLimit
	}
	if q.Limit > MaxServiceLimit {
		q.Limit = MaxServiceLimit
	}
	if q.StartPosition == 0 {
		q.StartPosition = DefaultStartPosition
	}
	return q
}

// Target returns whichever of StatsID or DatasetID identifies the table.
func (q DataQuery) Target() string {
	if q.StatsID != "" {
		return q.StatsID
	}
	return q.DatasetID
}

// DatasetRequest registers a named filter over a table.
type DatasetRequest struct {
	StatsID string `json:"stats_id" validate:"required,statsid"`
	Name    string `json:"name,omitempty" validate:"omitempty,max=100"`
	// Filters uses the same codes as DataQuery; its StatsID is replaced by
	// the StatsID above before validation.
	Filters DataQuery `json:"filters" validate:"-"`
}
