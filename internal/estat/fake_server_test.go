// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package estat

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/estat-mcp/internal/config"
)

const testAppID = "test-app-id"

// fakeCell is one cell of a fake table.
type fakeCell struct {
	value string
	tab   string
	time  string
	area  string
	cat01 string
}

type fakeTable struct {
	id    string
	title string
	org   string
	unit  string
	cells []fakeCell
}

// populationTable has 2 times x 3 areas x 2 categories = 12 cells, with
// placeholders in two of them.
func populationTable() *fakeTable {
	t := &fakeTable{id: "0003410379", title: "人口推計 都道府県別人口", org: "総務省", unit: "千人"}
	values := []string{"126146", "61350", "64797", "14047", "6868", "X", "8838", "4235", "4603", "125502", "-", "64478"}
	i := 0
	for _, tm := range []string{"2020000000", "2021000000"} {
		for _, area := range []string{"00000", "13000", "27000"} {
			for _, cat := range []string{"001", "002"} {
				t.cells = append(t.cells, fakeCell{value: values[i], tab: "020", time: tm, area: area, cat01: cat})
				i++
			}
		}
	}
	return t
}

// seqTable has n cells with values "1".."n".
func seqTable(id string, n int) *fakeTable {
	t := &fakeTable{id: id, title: "連番テスト表 " + id, org: "テスト省"}
	for i := 1; i <= n; i++ {
		t.cells = append(t.cells, fakeCell{
			value: strconv.Itoa(i),
			tab:   "001",
			time:  "2020000000",
			area:  "00000",
			cat01: strconv.Itoa(100 + i%3),
		})
	}
	return t
}

// fakeEstat is an in-process stand-in for the e-Stat JSON API.
type fakeEstat struct {
	t      *testing.T
	server *httptest.Server

	mu     sync.Mutex
	tables map[string]*fakeTable
	order  []string
	// collapse renders single-element lists as a bare object, as e-Stat does.
	collapse bool
	// overrides serve a fixed status/body for an endpoint.
	overrides map[string]func(w http.ResponseWriter, r *http.Request)
	queries   []url.Values
	times     []time.Time
	datasets  int

	requests atomic.Int64
}

func newFakeEstat(t *testing.T, tables ...*fakeTable) *fakeEstat {
	t.Helper()
	f := &fakeEstat{
		t:         t,
		tables:    make(map[string]*fakeTable),
		collapse:  true,
		overrides: make(map[string]func(http.ResponseWriter, *http.Request)),
	}
	for _, tbl := range tables {
		f.tables[tbl.id] = tbl
		f.order = append(f.order, tbl.id)
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

// config returns client settings pointing at the fake, with rate limiting
// disabled unless the test sets it.
func (f *fakeEstat) config() *config.EstatConfig {
	return &config.EstatConfig{
		AppID:     testAppID,
		BaseURL:   f.server.URL + "/rest/3.0/app/json/",
		Timeout:   5 * time.Second,
		RateLimit: 0,
		MaxPages:  10,
		UserAgent: "estat-mcp-test",
	}
}

func (f *fakeEstat) client() *Client {
	c := NewClient(f.config())
	f.t.Cleanup(func() { _ = c.Close() })
	return c
}

func (f *fakeEstat) override(endpoint string, h func(http.ResponseWriter, *http.Request)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overrides[endpoint] = h
}

func (f *fakeEstat) lastQuery() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return nil
	}
	return f.queries[len(f.queries)-1]
}

func (f *fakeEstat) requestTimes() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time(nil), f.times...)
}

func (f *fakeEstat) serve(w http.ResponseWriter, r *http.Request) {
	f.requests.Add(1)
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	endpoint := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

	f.mu.Lock()
	f.queries = append(f.queries, r.Form)
	f.times = append(f.times, time.Now())
	h := f.overrides[endpoint]
	f.mu.Unlock()

	if h != nil {
		h(w, r)
		return
	}

	if r.Form.Get("appId") != testAppID {
		f.write(w, rootKey(endpoint), result(100, "認証に失敗しました。"), nil)
		return
	}

	switch endpoint {
	case endpointStatsList:
		f.serveList(w, r.Form)
	case endpointMetaInfo:
		f.serveMeta(w, r.Form)
	case endpointStatsData:
		f.serveData(w, r.Form)
	case endpointPostDatset:
		f.servePost(w, r)
	default:
		http.NotFound(w, r)
	}
}

func rootKey(endpoint string) string {
	switch endpoint {
	case endpointStatsList:
		return "GET_STATS_LIST"
	case endpointMetaInfo:
		return "GET_META_INFO"
	case endpointStatsData:
		return "GET_STATS_DATA"
	default:
		return "POST_DATASET"
	}
}

func result(status int, msg string) map[string]any {
	return map[string]any{"STATUS": status, "ERROR_MSG": msg, "DATE": "2026-10-19T10:00:00.000+09:00"}
}

func (f *fakeEstat) write(w http.ResponseWriter, root string, res map[string]any, body map[string]any) {
	inner := map[string]any{"RESULT": res}
	for k, v := range body {
		inner[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{root: inner}); err != nil {
		f.t.Errorf("fake e-Stat encode: %v", err)
	}
}

// list renders items the way e-Stat does: one element is a bare object.
func (f *fakeEstat) list(items []any) any {
	if f.collapse && len(items) == 1 {
		return items[0]
	}
	return items
}

func tableInfJSON(t *fakeTable) map[string]any {
	inf := map[string]any{
		"@id":             t.id,
		"STAT_NAME":       map[string]any{"@code": "00200524", "$": "人口推計"},
		"GOV_ORG":         map[string]any{"@code": "00200", "$": t.org},
		"STATISTICS_NAME": "各年10月1日現在人口",
		"TITLE":           map[string]any{"@no": "001", "$": t.title},
		"CYCLE":           "年次",
		"SURVEY_DATE":     202110,
		"OPEN_DATE":       "2022-04-15",
		"SMALL_AREA":      0,
		"MAIN_CATEGORY":   map[string]any{"@code": "02", "$": "人口・世帯"},
		"UPDATED_DATE":    "2022-04-15",
		// Keys the client does not know about are ignored.
		"COLLECT_AREA":         "該当なし",
		"OVERALL_TOTAL_NUMBER": len(t.cells),
	}
	if t.unit != "" {
		inf["UNIT"] = t.unit
	}
	return inf
}

func (f *fakeEstat) serveList(w http.ResponseWriter, q url.Values) {
	word := q.Get("searchWord")
	limit, _ := strconv.Atoi(q.Get("limit"))

	f.mu.Lock()
	var items []any
	for _, id := range f.order {
		tbl := f.tables[id]
		if word == "" || strings.Contains(tbl.title, word) || strings.Contains(tbl.org, word) {
			items = append(items, tableInfJSON(tbl))
		}
	}
	f.mu.Unlock()

	if len(items) == 0 {
		f.write(w, "GET_STATS_LIST", result(1, "正常に終了しましたが、該当データはありませんでした。"), nil)
		return
	}
	total := len(items)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	f.write(w, "GET_STATS_LIST", result(0, "正常に終了しました。"), map[string]any{
		"PARAMETER": map[string]any{"LANG": "J", "SEARCH_WORD": word},
		"DATALIST_INF": map[string]any{
			"NUMBER":     total,
			"RESULT_INF": map[string]any{"FROM_NUMBER": 1, "TO_NUMBER": len(items)},
			"TABLE_INF":  f.list(items),
		},
	})
}

func (f *fakeEstat) lookup(id string) *fakeTable {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tables[id]
}

func notFound(root string, f *fakeEstat, w http.ResponseWriter) {
	f.write(w, root, result(101, "指定された統計表IDは存在しません。"), nil)
}

func (f *fakeEstat) classObjs(t *fakeTable) []any {
	axis := func(id, name string, codes []string, extra func(code string) map[string]any) map[string]any {
		var items []any
		seen := map[string]bool{}
		for _, c := range codes {
			if seen[c] {
				continue
			}
			seen[c] = true
			item := map[string]any{"@code": c, "@name": id + "-" + c, "@level": "1"}
			for k, v := range extra(c) {
				item[k] = v
			}
			items = append(items, item)
		}
		return map[string]any{"@id": id, "@name": name, "CLASS": f.list(items)}
	}
	var tabs, times, areas, cats []string
	for _, c := range t.cells {
		tabs = append(tabs, c.tab)
		times = append(times, c.time)
		areas = append(areas, c.area)
		cats = append(cats, c.cat01)
	}
	none := func(string) map[string]any { return nil }
	return []any{
		axis("tab", "表章項目", tabs, func(string) map[string]any { return map[string]any{"@unit": "千人"} }),
		axis("cat01", "男女別", cats, none),
		axis("area", "全国・都道府県", areas, func(code string) map[string]any {
			if code == "00000" {
				return nil
			}
			return map[string]any{"@level": "2", "@parentCode": "00000"}
		}),
		axis("time", "時間軸（年次）", times, none),
	}
}

func (f *fakeEstat) serveMeta(w http.ResponseWriter, q url.Values) {
	t := f.lookup(q.Get("statsDataId"))
	if t == nil {
		notFound("GET_META_INFO", f, w)
		return
	}
	f.write(w, "GET_META_INFO", result(0, "正常に終了しました。"), map[string]any{
		"METADATA_INF": map[string]any{
			"TABLE_INF": tableInfJSON(t),
			"CLASS_INF": map[string]any{"CLASS_OBJ": f.list(f.classObjs(t))},
		},
	})
}

func matches(filter, code string) bool {
	if filter == "" {
		return true
	}
	for _, c := range strings.Split(filter, ",") {
		if c == code {
			return true
		}
	}
	return false
}

func (f *fakeEstat) serveData(w http.ResponseWriter, q url.Values) {
	id := q.Get("statsDataId")
	if ds := q.Get("dataSetId"); ds != "" && id == "" {
		id = strings.TrimPrefix(ds, "ds-")
	}
	t := f.lookup(id)
	if t == nil {
		notFound("GET_STATS_DATA", f, w)
		return
	}

	var cells []fakeCell
	for _, c := range t.cells {
		if matches(q.Get("cdTab"), c.tab) && matches(q.Get("cdTime"), c.time) &&
			matches(q.Get("cdArea"), c.area) && matches(q.Get("cdCat01"), c.cat01) {
			cells = append(cells, c)
		}
	}
	if len(cells) == 0 {
		f.write(w, "GET_STATS_DATA", result(1, "正常に終了しましたが、該当データはありませんでした。"), nil)
		return
	}

	start, _ := strconv.Atoi(q.Get("startPosition"))
	if start < 1 {
		start = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 100000
	}
	total := len(cells)
	from := start - 1
	if from > total {
		from = total
	}
	to := from + limit
	if to > total {
		to = total
	}

	var values []any
	for _, c := range cells[from:to] {
		values = append(values, map[string]any{
			"@tab": c.tab, "@cat01": c.cat01, "@area": c.area, "@time": c.time,
			"@unit": "千人", "$": c.value,
		})
	}

	resultInf := map[string]any{"TOTAL_NUMBER": total, "FROM_NUMBER": from + 1, "TO_NUMBER": to}
	if to < total {
		resultInf["NEXT_KEY"] = to + 1
	}
	f.write(w, "GET_STATS_DATA", result(0, "正常に終了しました。"), map[string]any{
		"STATISTICAL_DATA": map[string]any{
			"RESULT_INF": resultInf,
			"TABLE_INF":  tableInfJSON(t),
			"DATA_INF": map[string]any{
				"NOTE": f.list([]any{
					map[string]any{"@char": "-", "$": "数値が得られないもの"},
					map[string]any{"@char": "X", "$": "秘匿"},
				}),
				"VALUE": f.list(values),
			},
		},
	})
}

func (f *fakeEstat) servePost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := r.PostForm.Get("statsDataId")
	if f.lookup(id) == nil {
		notFound("POST_DATASET", f, w)
		return
	}
	f.mu.Lock()
	f.datasets++
	f.mu.Unlock()
	f.write(w, "POST_DATASET", result(0, "正常に終了しました。"), map[string]any{"DATASET_ID": "ds-" + id})
}
