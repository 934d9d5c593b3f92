// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package estat

import (
	"strconv"
	"strings"

	"github.com/tomtom215/estat-mcp/internal/models"
)

// Fixed axis ids in CLASS_OBJ/@id and VALUE attributes. Every other id
// (cat01, cat02, ...) is a classification axis.
const (
	axisTab  = "tab"
	axisTime = "time"
	axisArea = "area"
	axisUnit = "unit"

	classificationPrefix = "cat"
)

func normalizeTable(t *tableInf) models.StatsTable {
	name := t.Title.Text
	if name == "" {
		name = t.StatisticsName.Text
	}
	return models.StatsTable{
		ID:             strings.TrimSpace(t.ID),
		Name:           name,
		GovCode:        t.GovOrg.Code,
		Organization:   t.GovOrg.Text,
		StatisticsName: t.StatisticsName.Text,
		StatCode:       t.StatName.Code,
		StatName:       t.StatName.Text,
		SurveyDate:     t.SurveyDate.Text,
		OpenDate:       t.OpenDate.Text,
		UpdatedDate:    t.UpdatedDate.Text,
		MainCategory:   t.MainCategory.Text,
		Cycle:          t.Cycle.Text,
		Unit:           t.Unit.Text,
		TotalNumber:    int(t.OverallTotalNumber),
	}
}

// normalizeTables drops entries without an ID; a table that cannot be
// addressed is of no use to the caller.
func normalizeTables(in []tableInf) []models.StatsTable {
	out := make([]models.StatsTable, 0, len(in))
	for i := range in {
		t := normalizeTable(&in[i])
		if t.ID == "" {
			continue
		}
		if t.Name == "" {
			t.Name = t.ID
		}
		out = append(out, t)
	}
	return out
}

func normalizeItem(c *classItem) models.MetaItem {
	level, _ := strconv.Atoi(c.Level.String())
	return models.MetaItem{
		Code:       c.Code.String(),
		Name:       c.Name.String(),
		Level:      level,
		ParentCode: c.ParentCode.String(),
		Unit:       c.Unit.String(),
	}
}

func normalizeItems(in []classItem) []models.MetaItem {
	out := make([]models.MetaItem, len(in))
	for i := range in {
		out[i] = normalizeItem(&in[i])
	}
	return out
}

// normalizeMeta routes each CLASS_OBJ to an axis by its @id. Classification
// axes keep the order the service lists them in.
func normalizeMeta(statsID string, table *tableInf, classes []classObj) *models.StatsMeta {
	meta := models.NewStatsMeta(statsID)
	meta.Title = table.Title.Text
	if meta.Title == "" {
		meta.Title = table.StatisticsName.Text
	}

	for i := range classes {
		obj := &classes[i]
		items := normalizeItems(obj.Class)
		switch id := strings.TrimSpace(obj.ID); {
		case id == axisTab:
			meta.TableItems = append(meta.TableItems, items...)
		case id == axisTime:
			meta.TimeItems = append(meta.TimeItems, items...)
		case id == axisArea:
			meta.AreaItems = append(meta.AreaItems, items...)
		case id != "":
			meta.Classifications = append(meta.Classifications, models.ClassificationAxis{
				ID:    id,
				Name:  obj.Name.String(),
				Items: items,
			})
		}
	}
	return meta
}

// normalizeValue maps VALUE attributes onto typed fields. Attributes that
// name a classification axis go into Classifications keyed by axis id;
// anything else (annotations, unknown future keys) is ignored.
func normalizeValue(c *valueCell) models.StatsValue {
	v := models.StatsValue{Value: models.Value(c.Text)}
	for k, code := range c.Attrs {
		switch {
		case k == axisTab:
			v.TableCode = code
		case k == axisTime:
			v.TimeCode = code
		case k == axisArea:
			v.AreaCode = code
		case k == axisUnit:
			v.Unit = code
		case strings.HasPrefix(k, classificationPrefix):
			if v.Classifications == nil {
				v.Classifications = make(map[string]string, 2)
			}
			v.Classifications[k] = code
		}
	}
	return v
}

func normalizeNotes(in []noteItem) map[string]string {
	if len(in) == 0 {
		return nil
	}
	notes := make(map[string]string, len(in))
	for _, n := range in {
		if ch := n.Char.String(); ch != "" {
			notes[ch] = n.Text.String()
		}
	}
	return notes
}

// normalizePage builds one page of StatsData for query q (already
// defaulted). The result never holds more than q.Limit values, and
// TotalCount is raised if the service under-reports it.
func normalizePage(q models.DataQuery, resp *statsDataResponse) *models.StatsData {
	sd := &resp.GetStatsData.StatisticalData

	values := make([]models.StatsValue, 0, len(sd.DataInf.Value))
	for i := range sd.DataInf.Value {
		if len(values) == q.Limit {
			break
		}
		values = append(values, normalizeValue(&sd.DataInf.Value[i]))
	}

	total := int(sd.ResultInf.TotalNumber)
	if floor := q.StartPosition - 1 + len(values); total < floor {
		total = floor
	}

	statsID := q.StatsID
	if statsID == "" {
		statsID = strings.TrimSpace(sd.TableInf.ID)
	}
	if statsID == "" {
		statsID = q.DatasetID
	}

	data := &models.StatsData{
		StatsID:      statsID,
		TotalCount:   total,
		Values:       values,
		Notes:        normalizeNotes(sd.DataInf.Note),
		Query:        q,
		PagesFetched: 1,
	}
	if next := q.StartPosition + len(values); len(values) > 0 && next <= total {
		data.NextPosition = next
	}
	return data
}
