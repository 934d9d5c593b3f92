// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package mcp

import (
	"context"
	"fmt"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tomtom215/estat-mcp/internal/estat"
	"github.com/tomtom215/estat-mcp/internal/logging"
	"github.com/tomtom215/estat-mcp/internal/metrics"
	"github.com/tomtom215/estat-mcp/internal/models"
)

// Tool names.
const (
	ToolSearch  = "search_statistics"
	ToolMeta    = "get_statistic_meta"
	ToolData    = "get_statistic_data"
	ToolAllData = "get_all_statistic_data"
)

// SearchInput is the search_statistics argument.
type SearchInput struct {
	Keyword     string `json:"keyword" jsonschema:"search word, Japanese works best (e.g. 人口, 消費者物価指数)"`
	Limit       int    `json:"limit,omitempty" jsonschema:"maximum number of tables, default 20"`
	SurveyYears string `json:"survey_years,omitempty" jsonschema:"survey period yyyy, yyyymm or yyyymm-yyyymm"`
	OpenYears   string `json:"open_years,omitempty" jsonschema:"publication period yyyy, yyyymm or yyyymm-yyyymm"`
	StatsField  string `json:"stats_field,omitempty" jsonschema:"statistics field code, 2 or 4 digits"`
	StatsCode   string `json:"stats_code,omitempty" jsonschema:"government statistics code, 5 or 8 digits"`
}

// SearchOutput is the search_statistics result.
type SearchOutput struct {
	Count  int                 `json:"count"`
	Tables []models.StatsTable `json:"tables"`
}

// MetaInput is the get_statistic_meta argument.
type MetaInput struct {
	StatsID string `json:"stats_id" jsonschema:"statistics table ID from search_statistics"`
}

// MetaOutput is the get_statistic_meta result.
type MetaOutput struct {
	Meta *models.StatsMeta `json:"meta"`
}

// DataInput is the get_statistic_data argument.
type DataInput struct {
	StatsID       string `json:"stats_id,omitempty" jsonschema:"statistics table ID; required unless dataset_id is given"`
	DatasetID     string `json:"dataset_id,omitempty" jsonschema:"registered dataset ID, used instead of stats_id"`
	CdTab         string `json:"cd_tab,omitempty" jsonschema:"table item codes, comma separated"`
	CdTime        string `json:"cd_time,omitempty" jsonschema:"time codes, comma separated"`
	CdArea        string `json:"cd_area,omitempty" jsonschema:"area codes, comma separated (e.g. 13000 for Tokyo)"`
	CdCat01       string `json:"cd_cat01,omitempty" jsonschema:"classification 01 codes, comma separated"`
	LvTab         string `json:"lv_tab,omitempty" jsonschema:"table item hierarchy level, e.g. 1 or 1-2"`
	LvTime        string `json:"lv_time,omitempty" jsonschema:"time hierarchy level"`
	LvArea        string `json:"lv_area,omitempty" jsonschema:"area hierarchy level"`
	Limit         int    `json:"limit,omitempty" jsonschema:"cells per request, default 100"`
	StartPosition int    `json:"start_position,omitempty" jsonschema:"1-based position of the first cell, default 1"`
}

func (in DataInput) query() models.DataQuery {
	return models.DataQuery{
		StatsID:       in.StatsID,
		DatasetID:     in.DatasetID,
		CdTab:         in.CdTab,
		CdTime:        in.CdTime,
		CdArea:        in.CdArea,
		CdCat01:       in.CdCat01,
		LvTab:         in.LvTab,
		LvTime:        in.LvTime,
		LvArea:        in.LvArea,
		Limit:         in.Limit,
		StartPosition: in.StartPosition,
	}
}

// AllDataInput is the get_all_statistic_data argument.
type AllDataInput struct {
	StatsID   string `json:"stats_id,omitempty" jsonschema:"statistics table ID; required unless dataset_id is given"`
	DatasetID string `json:"dataset_id,omitempty" jsonschema:"registered dataset ID, used instead of stats_id"`
	CdTab     string `json:"cd_tab,omitempty" jsonschema:"table item codes, comma separated"`
	CdTime    string `json:"cd_time,omitempty" jsonschema:"time codes, comma separated"`
	CdArea    string `json:"cd_area,omitempty" jsonschema:"area codes, comma separated"`
	CdCat01   string `json:"cd_cat01,omitempty" jsonschema:"classification 01 codes, comma separated"`
	LvTab     string `json:"lv_tab,omitempty" jsonschema:"table item hierarchy level, e.g. 1 or 1-2"`
	LvTime    string `json:"lv_time,omitempty" jsonschema:"time hierarchy level"`
	LvArea    string `json:"lv_area,omitempty" jsonschema:"area hierarchy level"`
	Limit     int    `json:"limit,omitempty" jsonschema:"cells per page, default 100"`

	// StartPosition resumes a truncated fetch from its next_position.
	StartPosition int `json:"start_position,omitempty" jsonschema:"1-based position of the first cell; pass next_position to continue, default 1"`
	MaxPages      int `json:"max_pages,omitempty" jsonschema:"maximum pages to fetch, at most 50, default from server configuration"`
}

func (in AllDataInput) query() models.DataQuery {
	return models.DataQuery{
		StatsID:   in.StatsID,
		DatasetID: in.DatasetID,
		CdTab:     in.CdTab,
		CdTime:    in.CdTime,
		CdArea:    in.CdArea,
		CdCat01:   in.CdCat01,
		LvTab:     in.LvTab,
		LvTime:    in.LvTime,
		LvArea:    in.LvArea,
		Limit:     in.Limit,

		StartPosition: in.StartPosition,
	}
}

// DataOutput is the result of both data tools.
type DataOutput struct {
	StatsID      string              `json:"stats_id"`
	TotalCount   int                 `json:"total_count"`
	Fetched      int                 `json:"fetched"`
	Returned     int                 `json:"returned"`
	Values       []models.StatsValue `json:"values"`
	Notes        map[string]string   `json:"notes,omitempty"`
	HasMore      bool                `json:"has_more"`
	NextPosition int                 `json:"next_position,omitempty"`
	Truncated    bool                `json:"truncated"`
	PagesFetched int                 `json:"pages_fetched"`
	// Omitted counts fetched values left out by the output cap.
	Omitted int `json:"omitted,omitempty"`
}

// dataOutput applies the output cap. When values are omitted NextPosition
// points at the first omitted cell so the model can continue from there.
func (s *Server) dataOutput(d *models.StatsData) DataOutput {
	out := DataOutput{
		StatsID:      d.StatsID,
		TotalCount:   d.TotalCount,
		Fetched:      len(d.Values),
		Notes:        d.Notes,
		HasMore:      d.HasMore(),
		NextPosition: d.NextPosition,
		Truncated:    d.Truncated,
		PagesFetched: d.PagesFetched,
	}
	shown := d
	if s.maxOutput > 0 && len(d.Values) > s.maxOutput {
		shown = d.Head(s.maxOutput)
		out.Omitted = len(d.Values) - s.maxOutput
		out.HasMore = true
		out.NextPosition = d.Query.WithDefaults().StartPosition + s.maxOutput
	}
	out.Values = shown.Values
	if out.Values == nil {
		out.Values = []models.StatsValue{}
	}
	out.Returned = len(out.Values)
	return out
}

func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        ToolSearch,
		Description: "Search e-Stat statistical tables by keyword. Returns table IDs, titles and publishing organizations.",
	}, instrument(ToolSearch, s.search))

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        ToolMeta,
		Description: "Get the axes of a statistical table: table items, classifications (cat01...), time and area codes.",
	}, instrument(ToolMeta, s.meta))

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        ToolData,
		Description: "Get one page of cells from a statistical table, optionally filtered by cd_* codes from get_statistic_meta.",
	}, instrument(ToolData, s.data))

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        ToolAllData,
		Description: "Get several consecutive pages of cells. Stops at max_pages and reports truncated=true with next_position when more remain.",
	}, instrument(ToolAllData, s.allData))
}

func (s *Server) search(ctx context.Context, in SearchInput) (SearchOutput, error) {
	tables, err := s.client.SearchStats(ctx, models.SearchQuery{
		Keyword:     in.Keyword,
		Limit:       in.Limit,
		SurveyYears: in.SurveyYears,
		OpenYears:   in.OpenYears,
		StatsField:  in.StatsField,
		StatsCode:   in.StatsCode,
	})
	if err != nil {
		return SearchOutput{}, err
	}
	if tables == nil {
		tables = []models.StatsTable{}
	}
	return SearchOutput{Count: len(tables), Tables: tables}, nil
}

func (s *Server) meta(ctx context.Context, in MetaInput) (MetaOutput, error) {
	meta, err := s.client.GetMeta(ctx, in.StatsID)
	if err != nil {
		return MetaOutput{}, err
	}
	return MetaOutput{Meta: meta}, nil
}

func (s *Server) data(ctx context.Context, in DataInput) (DataOutput, error) {
	d, err := s.client.GetData(ctx, in.query())
	if err != nil {
		return DataOutput{}, err
	}
	return s.dataOutput(d), nil
}

func (s *Server) allData(ctx context.Context, in AllDataInput) (DataOutput, error) {
	if err := estat.ValidateRequestedPages(in.MaxPages); err != nil {
		return DataOutput{}, err
	}
	d, err := s.client.GetAllData(ctx, in.query(), in.MaxPages)
	if err != nil {
		return DataOutput{}, err
	}
	return s.dataOutput(d), nil
}

// instrument adapts a plain handler to the SDK signature, adding a
// correlation ID, metrics and an error prefix naming the error kind.
func instrument[In, Out any](tool string, fn func(context.Context, In) (Out, error)) sdk.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, _ *sdk.CallToolRequest, in In) (*sdk.CallToolResult, Out, error) {
		ctx = logging.WithTool(logging.EnsureCorrelationID(ctx), tool)
		start := time.Now()

		out, err := fn(ctx, in)
		outcome := estat.Outcome(err)
		metrics.RecordMCPToolCall(tool, outcome, time.Since(start))

		if err != nil {
			logging.Ctx(ctx).Info().Err(err).Str("outcome", outcome).Msg("Tool call failed")
			var zero Out
			return nil, zero, toolError(err)
		}
		logging.Ctx(ctx).Debug().Dur("elapsed", time.Since(start)).Msg("Tool call completed")
		return nil, out, nil
	}
}

// toolError prefixes err with its kind so the model can tell a bad argument
// from an outage.
func toolError(err error) error {
	return fmt.Errorf("%s: %w", estat.Outcome(err), err)
}
