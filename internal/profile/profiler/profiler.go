package profiler

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shandysiswandi/goprofile/internal/profile/entity"
)

const (
	sampleRows          = 10
	missingAlertRatio   = 0.2
	zerosAlertRatio     = 0.5
	correlationAlertAbs = 0.9
)

// Profiler builds profiling reports. The zero value is not usable; use New.
type Profiler struct {
	title string
	now   func() time.Time
}

type Option func(*Profiler)

// WithClock overrides the clock used for the analysis timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Profiler) { p.now = now }
}

// WithTitle sets the report title.
func WithTitle(title string) Option {
	return func(p *Profiler) { p.title = title }
}

func New(opts ...Option) *Profiler {
	p := &Profiler{title: "Profiling Report", now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Generate computes the profiling report of ds.
func (p *Profiler) Generate(ds *entity.Dataset) entity.Report {
	start := p.now()

	r := entity.Report{
		Analysis: entity.Analysis{
			Title:     p.title,
			FileName:  ds.Name,
			Format:    ds.Format,
			DateStart: start,
		},
		Variables: make([]entity.Variable, 0, len(ds.Columns)),
		Missing:   make(map[string]int, len(ds.Columns)),
		Alerts:    []entity.Alert{},
	}

	types := make(map[entity.ColumnKind]int)
	missingCells, varsWithMissing := 0, 0
	for i := range ds.Columns {
		col := &ds.Columns[i]
		v := describeVariable(col, ds.NumRows)
		r.Variables = append(r.Variables, v)
		r.Missing[col.Name] = v.Missing
		types[col.Kind]++
		missingCells += v.Missing
		if v.Missing > 0 {
			varsWithMissing++
		}
	}

	cells := ds.NumRows * len(ds.Columns)
	dups := duplicateRows(ds)
	r.Table = entity.TableStats{
		Rows:            ds.NumRows,
		Variables:       len(ds.Columns),
		Cells:           cells,
		MissingCells:    missingCells,
		MissingRatio:    ratio(missingCells, cells),
		VarsWithMissing: varsWithMissing,
		Duplicates:      dups,
		DuplicateRatio:  ratio(dups, ds.NumRows),
		Types:           types,
		Truncated:       ds.Truncated,
	}

	r.Correlations.Pearson = Pearson(ds)
	r.Sample = sample(ds, sampleRows)
	r.Alerts = alerts(ds, r)
	r.Analysis.DateEnd = p.now()
	return r
}

// Describe summarizes the numeric columns of ds.
func (p *Profiler) Describe(ds *entity.Dataset) entity.DescribeTable {
	return Describe(ds)
}

// JSON serializes the report.
func JSON(r entity.Report) ([]byte, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("profiler: encode report: %w", err)
	}
	return b, nil
}

func duplicateRows(ds *entity.Dataset) int {
	seen := make(map[string]struct{}, ds.NumRows)
	dups := 0
	for i := 0; i < ds.NumRows; i++ {
		key := strings.Join(ds.Row(i), "\x1f")
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

func sample(ds *entity.Dataset, n int) entity.Sample {
	tail := max(ds.NumRows-n, 0)
	return entity.Sample{
		Columns: ds.Header(),
		Head:    ds.Rows(0, n),
		Tail:    ds.Rows(tail, n),
	}
}

func alerts(ds *entity.Dataset, r entity.Report) []entity.Alert {
	out := []entity.Alert{}

	if ds.Truncated > 0 {
		out = append(out, entity.Alert{
			Type:    entity.AlertTruncated,
			Message: fmt.Sprintf("dataset truncated: %d rows were not loaded", ds.Truncated),
		})
	}
	if r.Table.Duplicates > 0 {
		out = append(out, entity.Alert{
			Type:    entity.AlertDuplicates,
			Message: fmt.Sprintf("dataset has %d (%.1f%%) duplicate rows", r.Table.Duplicates, float64(r.Table.DuplicateRatio)*100),
		})
	}

	for _, v := range r.Variables {
		switch {
		case v.Count > 0 && v.Distinct == 1:
			out = append(out, entity.Alert{
				Type: entity.AlertConstant, Column: v.Name,
				Message: fmt.Sprintf("%s has constant value %q", v.Name, v.ValueCounts[0].Value),
			})
		case v.IsUnique:
			out = append(out, entity.Alert{
				Type: entity.AlertUnique, Column: v.Name,
				Message: fmt.Sprintf("%s has unique values", v.Name),
			})
		}

		if float64(v.MissingRatio) > missingAlertRatio {
			out = append(out, entity.Alert{
				Type: entity.AlertMissing, Column: v.Name,
				Message: fmt.Sprintf("%s has %d (%.1f%%) missing values", v.Name, v.Missing, float64(v.MissingRatio)*100),
			})
		}

		if v.Numeric != nil && v.Count > 0 {
			if p := float64(v.Numeric.Zeros) / float64(v.Count); p > zerosAlertRatio {
				out = append(out, entity.Alert{
					Type: entity.AlertZeros, Column: v.Name,
					Message: fmt.Sprintf("%s has %d (%.1f%%) zeros", v.Name, v.Numeric.Zeros, p*100),
				})
			}
		}
	}

	if m := r.Correlations.Pearson; m != nil {
		for i := range m.Columns {
			for j := i + 1; j < len(m.Columns); j++ {
				c := float64(m.Matrix[i][j])
				if math.IsNaN(c) || math.Abs(c) <= correlationAlertAbs {
					continue
				}
				out = append(out, entity.Alert{
					Type: entity.AlertHighCorrelation, Column: m.Columns[i],
					Message: fmt.Sprintf("%s is highly correlated with %s (r=%.3f)", m.Columns[i], m.Columns[j], c),
				})
			}
		}
	}
	return out
}
