package loader

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shandysiswandi/goprofile/internal/profile/entity"
)

// naValues are the cell texts read as missing, matching pandas' defaults.
//
//nolint:gochecknoglobals // lookup table
var naValues = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

//nolint:gochecknoglobals // lookup table
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"1/2/06",
	"01-02-06",
	"02-Jan-2006",
	"Jan 2, 2006",
	"1/2/06 15:04",
}

func normalizeCell(v string) string {
	v = strings.TrimSpace(v)
	if _, ok := naValues[v]; ok {
		return ""
	}
	return v
}

// uniqueHeader names blank headers "Unnamed: i" and suffixes repeats with
// ".1", ".2" the way pandas mangles duplicate column names.
func uniqueHeader(raw []string) []string {
	header := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	dupes := make(map[string]int)

	for i, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}

		candidate := name
		for used[candidate] {
			dupes[name]++
			candidate = name + "." + strconv.Itoa(dupes[name])
		}
		used[candidate] = true
		header[i] = candidate
	}

	return header
}

func build(header []string, rows [][]string) *entity.Dataset {
	width := len(header)
	cols := make([]entity.Column, width)
	for j := range cols {
		cols[j] = entity.Column{Name: header[j], Values: make([]string, 0, len(rows))}
	}

	for _, row := range rows {
		for j := 0; j < width; j++ {
			cell := ""
			if j < len(row) {
				cell = normalizeCell(row[j])
			}
			cols[j].Values = append(cols[j].Values, cell)
		}
	}

	for j := range cols {
		inferKind(&cols[j])
	}

	return &entity.Dataset{Columns: cols, NumRows: len(rows)}
}

// dataRows drops rows whose cells are all empty.
func dataRows(rows [][]string) [][]string {
	out := rows[:0:0]
	for _, row := range rows {
		if !blankRow(row) {
			out = append(out, row)
		}
	}
	return out
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// inferKind picks the narrowest kind every present value fits:
// numeric, then boolean, then datetime, falling back to categorical.
func inferKind(col *entity.Column) {
	numeric, boolean, datetime := true, true, true
	present := 0

	for i := range col.Values {
		if col.IsMissing(i) {
			continue
		}
		present++
		v := col.Values[i]
		if numeric {
			if _, ok := parseNumber(v); !ok {
				numeric = false
			}
		}
		if boolean && !isBool(v) {
			boolean = false
		}
		if datetime && !isDate(v) {
			datetime = false
		}
		if !numeric && !boolean && !datetime {
			break
		}
	}

	switch {
	case numeric || present == 0:
		col.Kind = entity.ColumnKindNumeric
		col.Numbers = make([]float64, len(col.Values))
		for i := range col.Values {
			if col.IsMissing(i) {
				col.Numbers[i] = math.NaN()
				continue
			}
			col.Numbers[i], _ = parseNumber(col.Values[i])
		}
	case boolean:
		col.Kind = entity.ColumnKindBoolean
	case datetime:
		col.Kind = entity.ColumnKindDateTime
	default:
		col.Kind = entity.ColumnKindCategorical
	}
}

func parseNumber(v string) (float64, bool) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func isBool(v string) bool {
	switch v {
	case "True", "TRUE", "true", "False", "FALSE", "false":
		return true
	default:
		return false
	}
}

func isDate(v string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}
