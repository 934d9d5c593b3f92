// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package estat

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// The e-Stat JSON encoding is a mechanical translation of its XML schema:
//
//   - repeated elements appear as an object when there is one and as an
//     array when there are several;
//   - XML attributes become keys prefixed with "@", element text becomes "$";
//   - an element with no attributes collapses to a bare string, and numeric
//     looking text is sometimes emitted as a JSON number.
//
// The types below absorb those variations so the normalizer sees one shape.

var jsonNull = []byte("null")

// oneOrMany decodes either a single T or an array of T into a slice.
type oneOrMany[T any] []T

func (o *oneOrMany[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, jsonNull) {
		*o = nil
		return nil
	}
	if b[0] == '[' {
		var items []T
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*o = items
		return nil
	}
	var item T
	if err := json.Unmarshal(b, &item); err != nil {
		return err
	}
	*o = oneOrMany[T]{item}
	return nil
}

// flexString decodes a JSON string, number or boolean into its text.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, jsonNull):
		*s = ""
	case b[0] == '"':
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = flexString(str)
	case b[0] == '{' || b[0] == '[':
		return fmt.Errorf("expected scalar, got %s", abbreviate(b))
	default:
		*s = flexString(b)
	}
	return nil
}

func (s flexString) String() string { return strings.TrimSpace(string(s)) }

// flexInt decodes a JSON number or numeric string. Empty decodes to 0.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	str := s.String()
	if str == "" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(str)
	if err != nil {
		f, ferr := strconv.ParseFloat(str, 64)
		if ferr != nil {
			return fmt.Errorf("expected integer, got %q", str)
		}
		v = int(f)
	}
	*n = flexInt(v)
	return nil
}

// textNode is an element that may be a bare scalar or an object carrying
// "$" text plus attributes such as "@code" or "@no".
type textNode struct {
	Text string
	Code string
	No   string
	Name string
}

func (t *textNode) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, jsonNull) {
		*t = textNode{}
		return nil
	}
	if b[0] != '{' {
		var s flexString
		if err := s.UnmarshalJSON(b); err != nil {
			return err
		}
		*t = textNode{Text: s.String()}
		return nil
	}
	var obj struct {
		Text flexString `json:"$"`
		Code flexString `json:"@code"`
		No   flexString `json:"@no"`
		Name flexString `json:"@name"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*t = textNode{Text: obj.Text.String(), Code: obj.Code.String(), No: obj.No.String(), Name: obj.Name.String()}
	return nil
}

// valueCell is one DATA_INF.VALUE element: "$" holds the cell text and every
// "@" key is an axis code (or unit/annotation).
type valueCell struct {
	Text  string
	Attrs map[string]string
}

func (v *valueCell) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] != '{' {
		var s flexString
		if err := s.UnmarshalJSON(b); err != nil {
			return err
		}
		*v = valueCell{Text: string(s)}
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	cell := valueCell{Attrs: make(map[string]string, len(raw))}
	for k, msg := range raw {
		if k != "$" && !strings.HasPrefix(k, "@") {
			continue
		}
		// Non-scalar entries are not part of the cell schema; skip them.
		var val flexString
		if err := val.UnmarshalJSON(msg); err != nil {
			continue
		}
		if k == "$" {
			cell.Text = string(val)
		} else {
			cell.Attrs[k[1:]] = val.String()
		}
	}
	*v = cell
	return nil
}

func abbreviate(b []byte) string {
	const n = 40
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// resultInf is the RESULT block common to every response.
type resultInf struct {
	Status   flexInt    `json:"STATUS"`
	ErrorMsg flexString `json:"ERROR_MSG"`
	Date     flexString `json:"DATE"`
}

// tableInf describes one table in search results and in meta/data responses.
type tableInf struct {
	ID                 string     `json:"@id"`
	StatName           textNode   `json:"STAT_NAME"`
	GovOrg             textNode   `json:"GOV_ORG"`
	StatisticsName     textNode   `json:"STATISTICS_NAME"`
	Title              textNode   `json:"TITLE"`
	Cycle              textNode   `json:"CYCLE"`
	SurveyDate         textNode   `json:"SURVEY_DATE"`
	OpenDate           textNode   `json:"OPEN_DATE"`
	UpdatedDate        textNode   `json:"UPDATED_DATE"`
	MainCategory       textNode   `json:"MAIN_CATEGORY"`
	Unit               textNode   `json:"UNIT"`
	OverallTotalNumber flexInt    `json:"OVERALL_TOTAL_NUMBER"`
	SmallArea          flexString `json:"SMALL_AREA"`
}

// getStatsList
type statsListResponse struct {
	GetStatsList struct {
		Result      resultInf `json:"RESULT"`
		DatalistInf struct {
			Number    flexInt `json:"NUMBER"`
			ResultInf struct {
				FromNumber flexInt `json:"FROM_NUMBER"`
				ToNumber   flexInt `json:"TO_NUMBER"`
				NextKey    flexInt `json:"NEXT_KEY"`
			} `json:"RESULT_INF"`
			TableInf oneOrMany[tableInf] `json:"TABLE_INF"`
		} `json:"DATALIST_INF"`
	} `json:"GET_STATS_LIST"`
}

// classItem is one code inside CLASS_OBJ.CLASS.
type classItem struct {
	Code       flexString `json:"@code"`
	Name       flexString `json:"@name"`
	Level      flexString `json:"@level"`
	Unit       flexString `json:"@unit"`
	ParentCode flexString `json:"@parentCode"`
}

// classObj is one axis of CLASS_INF.
type classObj struct {
	ID    string               `json:"@id"`
	Name  flexString           `json:"@name"`
	Class oneOrMany[classItem] `json:"CLASS"`
}

type classInf struct {
	ClassObj oneOrMany[classObj] `json:"CLASS_OBJ"`
}

// getMetaInfo
type metaInfoResponse struct {
	GetMetaInfo struct {
		Result      resultInf `json:"RESULT"`
		MetadataInf struct {
			TableInf tableInf `json:"TABLE_INF"`
			ClassInf classInf `json:"CLASS_INF"`
		} `json:"METADATA_INF"`
	} `json:"GET_META_INFO"`
}

type noteItem struct {
	Char flexString `json:"@char"`
	Text flexString `json:"$"`
}

// getStatsData
type statsDataResponse struct {
	GetStatsData struct {
		Result          resultInf `json:"RESULT"`
		StatisticalData struct {
			ResultInf struct {
				TotalNumber flexInt `json:"TOTAL_NUMBER"`
				FromNumber  flexInt `json:"FROM_NUMBER"`
				ToNumber    flexInt `json:"TO_NUMBER"`
				NextKey     flexInt `json:"NEXT_KEY"`
			} `json:"RESULT_INF"`
			TableInf tableInf `json:"TABLE_INF"`
			ClassInf classInf `json:"CLASS_INF"`
			DataInf  struct {
				Note  oneOrMany[noteItem]  `json:"NOTE"`
				Value oneOrMany[valueCell] `json:"VALUE"`
			} `json:"DATA_INF"`
		} `json:"STATISTICAL_DATA"`
	} `json:"GET_STATS_DATA"`
}

// postDataset
type postDatasetResponse struct {
	PostDataset struct {
		Result    resultInf  `json:"RESULT"`
		DatasetID flexString `json:"DATASET_ID"`
	} `json:"POST_DATASET"`
}
