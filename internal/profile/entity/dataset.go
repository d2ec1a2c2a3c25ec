package entity

import "math"

// Column is one named column of a Dataset. Values holds the raw cell text with
// missing cells normalized to "". Numbers is populated for numeric columns
// only and carries NaN where the cell is missing.
type Column struct {
	Name    string
	Kind    ColumnKind
	Values  []string
	Numbers []float64
}

// IsMissing reports whether row i of the column holds no value.
func (c *Column) IsMissing(i int) bool {
	return c.Values[i] == ""
}

// MissingCount returns the number of missing cells.
func (c *Column) MissingCount() int {
	n := 0
	for i := range c.Values {
		if c.IsMissing(i) {
			n++
		}
	}
	return n
}

// Finite returns the non-missing numeric values in row order.
func (c *Column) Finite() []float64 {
	out := make([]float64, 0, len(c.Numbers))
	for _, v := range c.Numbers {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// Present returns the numbers of non-missing cells, infinities included.
func (c *Column) Present() []float64 {
	out := make([]float64, 0, len(c.Numbers))
	for _, v := range c.Numbers {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Dataset is the table loaded from one uploaded file.
type Dataset struct {
	Name    string
	Format  Format
	Columns []Column
	NumRows int

	// Truncated counts rows dropped because of the configured row limit.
	Truncated int
}

// Header returns the column names in order.
func (d *Dataset) Header() []string {
	names := make([]string, len(d.Columns))
	for i := range d.Columns {
		names[i] = d.Columns[i].Name
	}
	return names
}

// Row returns the raw cells of row i.
func (d *Dataset) Row(i int) []string {
	row := make([]string, len(d.Columns))
	for j := range d.Columns {
		row[j] = d.Columns[j].Values[i]
	}
	return row
}

// Rows returns up to limit rows starting at offset.
func (d *Dataset) Rows(offset, limit int) [][]string {
	if offset < 0 {
		offset = 0
	}
	if offset >= d.NumRows || limit <= 0 {
		return [][]string{}
	}

	end := min(offset+limit, d.NumRows)
	rows := make([][]string, 0, end-offset)
	for i := offset; i < end; i++ {
		rows = append(rows, d.Row(i))
	}
	return rows
}

// Column returns the column with the given name.
func (d *Dataset) Column(name string) (*Column, bool) {
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			return &d.Columns[i], true
		}
	}
	return nil, false
}

// NumericColumns returns the numeric columns in order.
func (d *Dataset) NumericColumns() []*Column {
	return d.columnsOf(ColumnKindNumeric)
}

// CategoricalColumns returns the categorical (text) columns in order.
func (d *Dataset) CategoricalColumns() []*Column {
	return d.columnsOf(ColumnKindCategorical)
}

func (d *Dataset) columnsOf(kind ColumnKind) []*Column {
	var cols []*Column
	for i := range d.Columns {
		if d.Columns[i].Kind == kind {
			cols = append(cols, &d.Columns[i])
		}
	}
	return cols
}
