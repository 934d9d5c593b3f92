// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package mcp

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tomtom215/estat-mcp/internal/config"
	"github.com/tomtom215/estat-mcp/internal/estat"
	"github.com/tomtom215/estat-mcp/internal/models"
)

type fakeClient struct {
	tables   []models.StatsTable
	total    int
	err      error
	lastQ    models.DataQuery
	maxPages int
}

func (f *fakeClient) SearchStats(_ context.Context, q models.SearchQuery) ([]models.StatsTable, error) {
	if strings.TrimSpace(q.Keyword) == "" {
		return nil, &estat.ValidationError{Op: "search_stats", Field: "keyword", Reason: "is required"}
	}
	return f.tables, f.err
}

func (f *fakeClient) GetMeta(_ context.Context, id string) (*models.StatsMeta, error) {
	if f.err != nil {
		return nil, f.err
	}
	return models.NewStatsMeta(id), nil
}

func (f *fakeClient) GetData(_ context.Context, q models.DataQuery) (*models.StatsData, error) {
	f.lastQ = q
	if f.err != nil {
		return nil, f.err
	}
	q = q.WithDefaults()
	d := &models.StatsData{StatsID: q.StatsID, TotalCount: f.total, Query: q, PagesFetched: 1}
	for i := q.StartPosition; i < q.StartPosition+q.Limit && i <= f.total; i++ {
		d.Values = append(d.Values, models.StatsValue{Value: models.Value(strconv.Itoa(i))})
	}
	if next := q.StartPosition + len(d.Values); len(d.Values) > 0 && next <= f.total {
		d.NextPosition = next
	}
	return d, nil
}

func (f *fakeClient) GetAllData(ctx context.Context, q models.DataQuery, maxPages int) (*models.StatsData, error) {
	f.maxPages = maxPages
	if maxPages == 0 {
		maxPages = 3
	}
	return estat.Paginate(ctx, f.GetData, q, maxPages)
}

func (f *fakeClient) RegisterDataset(context.Context, models.DatasetRequest) (*models.DataSet, error) {
	return nil, errors.New("not supported")
}

func (f *fakeClient) Ping(context.Context) error { return f.err }
func (f *fakeClient) Close() error                { return nil }

func newTestServer(c estat.StatsClient, maxOutput int) *Server {
	return NewServer(c, config.MCPConfig{MaxOutputValues: maxOutput})
}

func TestSearchTool(t *testing.T) {
	t.Parallel()
	fc := &fakeClient{tables: []models.StatsTable{{ID: "0003410379", Name: "人口推計"}}}
	s := newTestServer(fc, 100)

	out, err := s.search(context.Background(), SearchInput{Keyword: "人口"})
	if err != nil {
		t.Fatalf("search() error = %v", err)
	}
	if out.Count != 1 || out.Tables[0].ID != "0003410379" {
		t.Errorf("search() = %+v, want one table 0003410379", out)
	}

	fc.tables = nil
	out, err = s.search(context.Background(), SearchInput{Keyword: "none"})
	if err != nil {
		t.Fatalf("search() error = %v", err)
	}
	if out.Tables == nil || out.Count != 0 {
		t.Errorf("empty search = %+v, want non-nil empty tables", out)
	}
}

func TestMetaTool(t *testing.T) {
	t.Parallel()
	s := newTestServer(&fakeClient{}, 100)
	out, err := s.meta(context.Background(), MetaInput{StatsID: "0003410379"})
	if err != nil {
		t.Fatalf("meta() error = %v", err)
	}
	if out.Meta == nil || out.Meta.StatsID != "0003410379" {
		t.Errorf("meta() = %+v, want stats ID 0003410379", out.Meta)
	}
}

func TestDataTool_PassesFilters(t *testing.T) {
	t.Parallel()
	fc := &fakeClient{total: 5}
	s := newTestServer(fc, 100)

	in := DataInput{StatsID: "0003410379", CdArea: "13000", CdTime: "2020000000", LvArea: "2", Limit: 3, StartPosition: 2}
	out, err := s.data(context.Background(), in)
	if err != nil {
		t.Fatalf("data() error = %v", err)
	}
	if fc.lastQ.CdArea != "13000" || fc.lastQ.CdTime != "2020000000" || fc.lastQ.LvArea != "2" {
		t.Errorf("query = %+v, want filters passed through", fc.lastQ)
	}
	if out.Returned != 3 || out.Omitted != 0 {
		t.Errorf("returned/omitted = %d/%d, want 3/0", out.Returned, out.Omitted)
	}
	if !out.HasMore || out.NextPosition != 5 {
		t.Errorf("has_more/next = %v/%d, want true/5", out.HasMore, out.NextPosition)
	}
}

func TestDataOutput_Cap(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		maxOutput   int
		total       int
		wantRet     int
		wantOmitted int
		wantMore    bool
		wantNext    int
	}{
		{"under cap", 10, 5, 5, 0, false, 0},
		{"at cap", 5, 5, 5, 0, false, 0},
		{"over cap", 4, 10, 4, 6, true, 5},
		{"cap disabled", 0, 10, 10, 0, false, 0},
		{"empty", 10, 0, 0, 0, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newTestServer(&fakeClient{total: tt.total}, tt.maxOutput)
			out, err := s.data(context.Background(), DataInput{StatsID: "0003410379", Limit: 100})
			if err != nil {
				t.Fatalf("data() error = %v", err)
			}
			if out.Returned != tt.wantRet || len(out.Values) != tt.wantRet {
				t.Errorf("Returned = %d (len %d), want %d", out.Returned, len(out.Values), tt.wantRet)
			}
			if out.Omitted != tt.wantOmitted {
				t.Errorf("Omitted = %d, want %d", out.Omitted, tt.wantOmitted)
			}
			if out.HasMore != tt.wantMore {
				t.Errorf("HasMore = %v, want %v", out.HasMore, tt.wantMore)
			}
			if out.NextPosition != tt.wantNext {
				t.Errorf("NextPosition = %d, want %d", out.NextPosition, tt.wantNext)
			}
			if out.Fetched != tt.total {
				t.Errorf("Fetched = %d, want %d", out.Fetched, tt.total)
			}
			if out.Values == nil {
				t.Error("Values = nil, want empty slice")
			}
		})
	}
}

func TestAllDataTool(t *testing.T) {
	t.Parallel()
	fc := &fakeClient{total: 25}
	s := newTestServer(fc, 1000)

	out, err := s.allData(context.Background(), AllDataInput{StatsID: "0003410379", Limit: 5, MaxPages: 2})
	if err != nil {
		t.Fatalf("allData() error = %v", err)
	}
	if fc.maxPages != 2 {
		t.Errorf("maxPages = %d, want 2", fc.maxPages)
	}
	if out.Returned != 10 || !out.Truncated || out.NextPosition != 11 || out.PagesFetched != 2 {
		t.Errorf("allData() = returned %d truncated %v next %d pages %d, want 10 true 11 2",
			out.Returned, out.Truncated, out.NextPosition, out.PagesFetched)
	}

	out, err = s.allData(context.Background(), AllDataInput{StatsID: "0003410379", Limit: 10})
	if err != nil {
		t.Fatalf("allData() error = %v", err)
	}
	if out.Returned != 25 || out.Truncated || out.HasMore {
		t.Errorf("allData() default pages = returned %d truncated %v, want 25 false", out.Returned, out.Truncated)
	}
}

func TestAllDataTool_ResumesFromNextPosition(t *testing.T) {
	t.Parallel()
	fc := &fakeClient{total: 25}
	s := newTestServer(fc, 1000)

	out, err := s.allData(context.Background(), AllDataInput{
		StatsID:       "0003410379",
		LvArea:        "2",
		LvTab:         "1",
		LvTime:        "1-2",
		Limit:         5,
		StartPosition: 11,
		MaxPages:      2,
	})
	if err != nil {
		t.Fatalf("allData() error = %v", err)
	}
	if out.Returned != 10 || out.Values[0].Value.Raw() != "11" {
		t.Errorf("allData() returned %d starting at %v, want 10 starting at 11", out.Returned, out.Values[0].Value)
	}
	if !out.Truncated || out.NextPosition != 21 {
		t.Errorf("truncated/next = %v/%d, want true/21", out.Truncated, out.NextPosition)
	}
	if fc.lastQ.LvArea != "2" || fc.lastQ.LvTab != "1" || fc.lastQ.LvTime != "1-2" {
		t.Errorf("query = %+v, want level filters passed through", fc.lastQ)
	}
}

func TestAllDataTool_MaxPagesBound(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		maxPages int
		wantErr  bool
	}{
		{"default", 0, false},
		{"at bound", models.MaxRequestedPages, false},
		{"above bound", models.MaxRequestedPages + 1, true},
		{"negative", -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fc := &fakeClient{total: 3}
			_, err := newTestServer(fc, 100).allData(context.Background(), AllDataInput{StatsID: "0003410379", MaxPages: tt.maxPages})
			if (err != nil) != tt.wantErr {
				t.Fatalf("allData(max_pages=%d) error = %v, wantErr %v", tt.maxPages, err, tt.wantErr)
			}
			if tt.wantErr {
				var ve *estat.ValidationError
				if !errors.As(err, &ve) || ve.Field != "max_pages" {
					t.Errorf("error = %v, want ValidationError on max_pages", err)
				}
			}
		})
	}
}

func TestToolError_PrefixesKind(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  error
		want string
	}{
		{&estat.ValidationError{Op: "get_meta", Field: "stats_id", Reason: "is required"}, "validation: "},
		{&estat.AuthenticationError{Op: "get_meta", Status: 100}, "authentication: "},
		{&estat.NotFoundError{Op: "get_meta", StatsID: "x"}, "not_found: "},
		{&estat.ServiceError{Op: "get_meta", HTTPStatus: 503}, "service: "},
		{&estat.NetworkError{Op: "get_meta", Err: errors.New("reset")}, "network: "},
	}
	for _, tt := range tests {
		got := toolError(tt.err)
		if !strings.HasPrefix(got.Error(), tt.want) {
			t.Errorf("toolError(%T) = %q, want prefix %q", tt.err, got, tt.want)
		}
		if !errors.Is(got, tt.err) {
			t.Errorf("toolError(%T) does not wrap the original", tt.err)
		}
	}
}

func TestInMemorySession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestServer(&fakeClient{total: 3, tables: []models.StatsTable{{ID: "0003410379"}}}, 100)

	serverT, clientT := sdk.NewInMemoryTransports()
	ss, err := s.MCPServer().Connect(ctx, serverT, nil)
	if err != nil {
		t.Fatalf("server Connect() error = %v", err)
	}
	defer ss.Close()

	client := sdk.NewClient(&sdk.Implementation{Name: "test", Version: "0"}, nil)
	cs, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client Connect() error = %v", err)
	}
	defer cs.Close()

	tools, err := cs.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("ListTools() error = %v", err)
	}
	names := make(map[string]bool)
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{ToolSearch, ToolMeta, ToolData, ToolAllData} {
		if !names[want] {
			t.Errorf("tool %s not listed", want)
		}
	}

	res, err := cs.CallTool(ctx, &sdk.CallToolParams{
		Name:      ToolSearch,
		Arguments: map[string]any{"keyword": "人口"},
	})
	if err != nil {
		t.Fatalf("CallTool(search) error = %v", err)
	}
	if res.IsError {
		t.Errorf("CallTool(search) IsError = true, want false")
	}

	res, err = cs.CallTool(ctx, &sdk.CallToolParams{
		Name:      ToolSearch,
		Arguments: map[string]any{"keyword": " "},
	})
	if err != nil {
		t.Fatalf("CallTool(blank) error = %v", err)
	}
	if !res.IsError {
		t.Fatal("CallTool(blank) IsError = false, want true")
	}
	text := ""
	for _, c := range res.Content {
		if tc, ok := c.(*sdk.TextContent); ok {
			text += tc.Text
		}
	}
	if !strings.Contains(text, "validation") {
		t.Errorf("error content = %q, want validation kind", text)
	}
}
