package profiler

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/shandysiswandi/goprofile/internal/profile/entity"
)

// AutoBins picks a bin count for n values with Sturges' rule.
func AutoBins(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

// Histogram counts values into bins equal-width bins spanning [min, max].
// The last bin is closed on the right. A constant series gets one bin of
// width 1 centred on the value.
func Histogram(values []float64, bins int) entity.Histogram {
	if len(values) == 0 {
		return entity.Histogram{BinEdges: []entity.Float{}, Counts: []int{}}
	}
	if bins < 1 {
		bins = 1
	}

	lo, hi := floats.Min(values), floats.Max(values)
	if lo == hi {
		return entity.Histogram{
			BinEdges: []entity.Float{entity.Float(lo - 0.5), entity.Float(hi + 0.5)},
			Counts:   []int{len(values)},
		}
	}

	edges := binEdges(lo, hi, bins)
	counts := make([]int, bins)
	// Halved operands keep the scale finite when hi-lo overflows.
	scale := float64(bins) / (hi/2 - lo/2)
	for _, v := range values {
		idx := bins - 1
		if pos := (v/2 - lo/2) * scale; pos < float64(bins) {
			idx = max(int(pos), 0)
		}
		// Values on an edge belong to the bin it opens.
		for idx > 0 && v < edges[idx] {
			idx--
		}
		for idx+1 < bins && v >= edges[idx+1] {
			idx++
		}
		counts[idx]++
	}

	out := entity.Histogram{BinEdges: make([]entity.Float, len(edges)), Counts: counts}
	for i, e := range edges {
		out.BinEdges[i] = entity.Float(e)
	}
	return out
}

// binEdges returns bins+1 evenly spaced edges from lo to hi.
func binEdges(lo, hi float64, bins int) []float64 {
	if !math.IsInf(hi-lo, 0) {
		return floats.Span(make([]float64, bins+1), lo, hi)
	}

	edges := make([]float64, bins+1)
	for i := range edges {
		t := float64(i) / float64(bins)
		edges[i] = lo*(1-t) + hi*t
	}
	edges[bins] = hi
	return edges
}
