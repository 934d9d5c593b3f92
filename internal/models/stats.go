// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package models

// StatsTable is a statistical table found by search. Optional fields are
// empty when the catalogue omits them.
type StatsTable struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	GovCode        string `json:"gov_code,omitempty"`
	Organization   string `json:"organization,omitempty"`
	StatisticsName string `json:"statistics_name,omitempty"`
	StatCode       string `json:"stat_code,omitempty"`
	StatName       string `json:"stat_name,omitempty"`
	SurveyDate     string `json:"survey_date,omitempty"`
	OpenDate       string `json:"open_date,omitempty"`
	UpdatedDate    string `json:"updated_date,omitempty"`
	MainCategory   string `json:"main_category,omitempty"`
	Cycle          string `json:"cycle,omitempty"`
	Unit           string `json:"unit,omitempty"`
	TotalNumber    int    `json:"total_number,omitempty"`
}

// MetaItem is one code of an axis. Level is 0 when the service gives none.
type MetaItem struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Level      int    `json:"level,omitempty"`
	ParentCode string `json:"parent_code,omitempty"`
	Unit       string `json:"unit,omitempty"`
}

// ClassificationAxis is a cat01..catNN axis. ID is the key that data values
// use for their code on this axis.
type ClassificationAxis struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Items []MetaItem `json:"items"`
}

// StatsMeta is the set of code lists describing one table. The slices are
// never nil; an axis the table lacks is an empty slice.
type StatsMeta struct {
	StatsID         string               `json:"stats_id"`
	Title           string               `json:"title,omitempty"`
	TableItems      []MetaItem           `json:"table_items"`
	Classifications []ClassificationAxis `json:"classifications"`
	TimeItems       []MetaItem           `json:"time_items"`
	AreaItems       []MetaItem           `json:"area_items"`
}

// NewStatsMeta returns a StatsMeta with every axis initialised.
func NewStatsMeta(statsID string) *StatsMeta {
	return &StatsMeta{
		StatsID:         statsID,
		TableItems:      []MetaItem{},
		Classifications: []ClassificationAxis{},
		TimeItems:       []MetaItem{},
		AreaItems:       []MetaItem{},
	}
}

// Axis returns the classification axis with the given id.
func (m *StatsMeta) Axis(id string) (ClassificationAxis, bool) {
	for _, a := range m.Classifications {
		if a.ID == id {
			return a, true
		}
	}
	return ClassificationAxis{}, false
}

// AllClassificationItems flattens every classification axis in order.
func (m *StatsMeta) AllClassificationItems() []MetaItem {
	n := 0
	for _, a := range m.Classifications {
		n += len(a.Items)
	}
	out := make([]MetaItem, 0, n)
	for _, a := range m.Classifications {
		out = append(out, a.Items...)
	}
	return out
}

// Clone returns a deep copy. Callers that share a cached StatsMeta hand out
// clones so one reader cannot change what the next one sees.
func (m *StatsMeta) Clone() *StatsMeta {
	if m == nil {
		return nil
	}
	out := *m
	out.TableItems = append([]MetaItem{}, m.TableItems...)
	out.TimeItems = append([]MetaItem{}, m.TimeItems...)
	out.AreaItems = append([]MetaItem{}, m.AreaItems...)
	out.Classifications = make([]ClassificationAxis, len(m.Classifications))
	for i, a := range m.Classifications {
		a.Items = append([]MetaItem{}, a.Items...)
		out.Classifications[i] = a
	}
	return &out
}

// FindArea looks up an area code by exact name, e.g. "東京都" -> "13000".
func (m *StatsMeta) FindArea(name string) (MetaItem, bool) {
	for _, it := range m.AreaItems {
		if it.Name == name {
			return it, true
		}
	}
	return MetaItem{}, false
}

// DataSet is a dataset registered with postDataset.
type DataSet struct {
	ID      string `json:"id"`
	StatsID string `json:"stats_id"`
	Name    string `json:"name,omitempty"`
}
