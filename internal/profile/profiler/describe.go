package profiler

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/shandysiswandi/goprofile/internal/profile/entity"
)

var describeIndex = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Describe summarizes every numeric column of ds. The table is empty when ds
// has no numeric column.
func Describe(ds *entity.Dataset) entity.DescribeTable {
	cols := ds.NumericColumns()
	table := entity.DescribeTable{
		Columns: make([]string, len(cols)),
		Index:   describeIndex,
		Values:  make([][]entity.Float, len(describeIndex)),
	}
	for i := range table.Values {
		table.Values[i] = make([]entity.Float, len(cols))
	}

	for j, c := range cols {
		table.Columns[j] = c.Name
		for i, v := range describeColumn(c.Present()) {
			table.Values[i][j] = entity.Float(v)
		}
	}
	return table
}

func describeColumn(values []float64) []float64 {
	nan := math.NaN()
	out := []float64{float64(len(values)), nan, nan, nan, nan, nan, nan, nan}
	if len(values) == 0 {
		return out
	}

	sorted := sortedCopy(values)
	out[1] = stat.Mean(values, nil)
	if len(values) > 1 {
		out[2] = stat.StdDev(values, nil)
	}
	out[3] = sorted[0]
	out[4] = Quantile(sorted, 0.25)
	out[5] = Quantile(sorted, 0.5)
	out[6] = Quantile(sorted, 0.75)
	out[7] = sorted[len(sorted)-1]
	return out
}
