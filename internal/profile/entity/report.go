package entity

import (
	"math"
	"strconv"
	"time"
)

// Float is a float64 that encodes NaN and ±Inf as JSON null.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func (f *Float) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = Float(math.NaN())
		return nil
	}

	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// Report is the automatic profiling summary of a Dataset.
type Report struct {
	Analysis     Analysis       `json:"analysis"`
	Table        TableStats     `json:"table"`
	Variables    []Variable     `json:"variables"`
	Correlations Correlations   `json:"correlations"`
	Missing      map[string]int `json:"missing"`
	Sample       Sample         `json:"sample"`
	Alerts       []Alert        `json:"alerts"`
}

type Analysis struct {
	Title     string    `json:"title"`
	FileName  string    `json:"file_name"`
	Format    Format    `json:"format"`
	DateStart time.Time `json:"date_start"`
	DateEnd   time.Time `json:"date_end"`
}

type TableStats struct {
	Rows            int                `json:"n"`
	Variables       int                `json:"n_var"`
	Cells           int                `json:"n_cells"`
	MissingCells    int                `json:"n_cells_missing"`
	MissingRatio    Float              `json:"p_cells_missing"`
	VarsWithMissing int                `json:"n_vars_with_missing"`
	Duplicates      int                `json:"n_duplicates"`
	DuplicateRatio  Float              `json:"p_duplicates"`
	Types           map[ColumnKind]int `json:"types"`
	Truncated       int                `json:"n_truncated,omitempty"`
}

type Variable struct {
	Name          string        `json:"name"`
	Kind          ColumnKind    `json:"type"`
	Count         int           `json:"count"`
	Distinct      int           `json:"n_distinct"`
	DistinctRatio Float         `json:"p_distinct"`
	IsUnique      bool          `json:"is_unique"`
	Missing       int           `json:"n_missing"`
	MissingRatio  Float         `json:"p_missing"`
	ValueCounts   []ValueCount  `json:"value_counts"`
	Numeric       *NumericStats `json:"numeric,omitempty"`
	Text          *TextStats    `json:"text,omitempty"`
}

type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type NumericStats struct {
	Mean      Float            `json:"mean"`
	Std       Float            `json:"std"`
	Variance  Float            `json:"variance"`
	Min       Float            `json:"min"`
	Max       Float            `json:"max"`
	Range     Float            `json:"range"`
	Sum       Float            `json:"sum"`
	Quantiles map[string]Float `json:"quantiles"`
	IQR       Float            `json:"iqr"`
	Skewness  Float            `json:"skewness"`
	Kurtosis  Float            `json:"kurtosis"`
	Zeros     int              `json:"n_zeros"`
	Negatives int              `json:"n_negative"`
	Histogram Histogram        `json:"histogram"`
}

type Histogram struct {
	BinEdges []Float `json:"bin_edges"`
	Counts   []int   `json:"counts"`
}

type TextStats struct {
	MinLength  int   `json:"min_length"`
	MaxLength  int   `json:"max_length"`
	MeanLength Float `json:"mean_length"`
}

type Correlations struct {
	Pearson *CorrelationMatrix `json:"pearson,omitempty"`
}

// CorrelationMatrix is a symmetric matrix; Matrix[i][j] pairs Columns[i] and Columns[j].
type CorrelationMatrix struct {
	Columns []string  `json:"columns"`
	Matrix  [][]Float `json:"matrix"`
}

type Sample struct {
	Columns []string   `json:"columns"`
	Head    [][]string `json:"head"`
	Tail    [][]string `json:"tail"`
}

type AlertType string

const (
	AlertConstant        AlertType = "CONSTANT"
	AlertUnique          AlertType = "UNIQUE"
	AlertMissing         AlertType = "MISSING"
	AlertHighCorrelation AlertType = "HIGH_CORRELATION"
	AlertZeros           AlertType = "ZEROS"
	AlertDuplicates      AlertType = "DUPLICATES"
	AlertTruncated       AlertType = "TRUNCATED"
)

type Alert struct {
	Type    AlertType `json:"type"`
	Column  string    `json:"column,omitempty"`
	Message string    `json:"message"`
}

// DescribeTable is the numeric summary table: one row per statistic in Index,
// one column per numeric column.
type DescribeTable struct {
	Columns []string  `json:"columns"`
	Index   []string  `json:"index"`
	Values  [][]Float `json:"values"`
}
