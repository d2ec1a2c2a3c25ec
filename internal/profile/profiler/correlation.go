package profiler

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/shandysiswandi/goprofile/internal/profile/entity"
)

// Pearson returns the Pearson correlation matrix of the numeric columns of ds,
// computed over pairwise complete observations. It returns nil when ds has no
// numeric column.
func Pearson(ds *entity.Dataset) *entity.CorrelationMatrix {
	cols := ds.NumericColumns()
	if len(cols) == 0 {
		return nil
	}

	m := &entity.CorrelationMatrix{
		Columns: make([]string, len(cols)),
		Matrix:  make([][]entity.Float, len(cols)),
	}
	for i, c := range cols {
		m.Columns[i] = c.Name
		m.Matrix[i] = make([]entity.Float, len(cols))
	}

	for i := range cols {
		for j := i; j < len(cols); j++ {
			r := entity.Float(pairwise(cols[i].Numbers, cols[j].Numbers))
			m.Matrix[i][j] = r
			m.Matrix[j][i] = r
		}
	}
	return m
}

func pairwise(a, b []float64) float64 {
	x := make([]float64, 0, len(a))
	y := make([]float64, 0, len(b))
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	if len(x) < 2 {
		return math.NaN()
	}

	r := stat.Correlation(x, y, nil)
	// rounding can push a perfect correlation just past ±1
	return math.Max(-1, math.Min(1, r))
}
