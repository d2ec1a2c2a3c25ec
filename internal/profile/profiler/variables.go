package profiler

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"unicode/utf8"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/shandysiswandi/goprofile/internal/profile/entity"
)

const topValues = 10

var quantileKeys = []struct {
	key string
	p   float64
}{
	{"5%", 0.05},
	{"25%", 0.25},
	{"50%", 0.5},
	{"75%", 0.75},
	{"95%", 0.95},
}

func describeVariable(col *entity.Column, rows int) entity.Variable {
	missing := col.MissingCount()
	count := rows - missing
	counts := valueCounts(col)

	v := entity.Variable{
		Name:          col.Name,
		Kind:          col.Kind,
		Count:         count,
		Distinct:      len(counts),
		DistinctRatio: ratio(len(counts), count),
		IsUnique:      count > 0 && len(counts) == count,
		Missing:       missing,
		MissingRatio:  ratio(missing, rows),
		ValueCounts:   topCounts(counts, topValues),
	}

	switch col.Kind {
	case entity.ColumnKindNumeric:
		v.Numeric = numericStats(col.Finite())
	case entity.ColumnKindCategorical:
		v.Text = textStats(col)
	}
	return v
}

// valueCounts counts non-missing values. Numeric cells are keyed by their
// parsed value so "1" and "1.0" count as the same value.
func valueCounts(col *entity.Column) map[string]int {
	counts := make(map[string]int)
	for i, raw := range col.Values {
		if col.IsMissing(i) {
			continue
		}
		key := raw
		if col.Kind == entity.ColumnKindNumeric {
			key = strconv.FormatFloat(col.Numbers[i], 'g', -1, 64)
		}
		counts[key]++
	}
	return counts
}

func topCounts(counts map[string]int, n int) []entity.ValueCount {
	out := make([]entity.ValueCount, 0, len(counts))
	for value, count := range counts {
		out = append(out, entity.ValueCount{Value: value, Count: count})
	}
	slices.SortFunc(out, func(a, b entity.ValueCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Value, b.Value)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func numericStats(values []float64) *entity.NumericStats {
	nan := entity.Float(math.NaN())
	ns := &entity.NumericStats{
		Mean: nan, Std: nan, Variance: nan, Min: nan, Max: nan, Range: nan,
		IQR: nan, Skewness: nan, Kurtosis: nan,
		Quantiles: make(map[string]entity.Float, len(quantileKeys)),
		Histogram: Histogram(values, AutoBins(len(values))),
	}
	for _, q := range quantileKeys {
		ns.Quantiles[q.key] = nan
	}
	if len(values) == 0 {
		return ns
	}

	sorted := sortedCopy(values)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	ns.Min, ns.Max, ns.Range = entity.Float(lo), entity.Float(hi), entity.Float(hi-lo)
	ns.Sum = entity.Float(floats.Sum(values))
	ns.Mean = entity.Float(stat.Mean(values, nil))

	if len(values) > 1 {
		variance := stat.Variance(values, nil)
		ns.Variance = entity.Float(variance)
		ns.Std = entity.Float(math.Sqrt(variance))
	}
	if len(values) > 2 {
		ns.Skewness = entity.Float(stat.Skew(values, nil))
	}
	if len(values) > 3 {
		ns.Kurtosis = entity.Float(stat.ExKurtosis(values, nil))
	}

	for _, q := range quantileKeys {
		ns.Quantiles[q.key] = entity.Float(Quantile(sorted, q.p))
	}
	ns.IQR = ns.Quantiles["75%"] - ns.Quantiles["25%"]

	for _, v := range values {
		switch {
		case v == 0:
			ns.Zeros++
		case v < 0:
			ns.Negatives++
		}
	}
	return ns
}

func textStats(col *entity.Column) *entity.TextStats {
	ts := &entity.TextStats{MeanLength: entity.Float(math.NaN())}
	total, n := 0, 0
	for i, s := range col.Values {
		if col.IsMissing(i) {
			continue
		}
		l := utf8.RuneCountInString(s)
		if n == 0 || l < ts.MinLength {
			ts.MinLength = l
		}
		if l > ts.MaxLength {
			ts.MaxLength = l
		}
		total += l
		n++
	}
	if n > 0 {
		ts.MeanLength = entity.Float(float64(total) / float64(n))
	}
	return ts
}

func ratio(part, whole int) entity.Float {
	if whole == 0 {
		return 0
	}
	return entity.Float(float64(part) / float64(whole))
}
