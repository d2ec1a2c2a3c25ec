package profiler

import (
	"math"
	"slices"
)

// Quantile returns the p-quantile of sorted using linear interpolation
// between closest ranks. It returns NaN for an empty input.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}

	h := p * float64(n-1)
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	frac := h - float64(lo)
	if frac == 0 {
		return sorted[lo]
	}
	d := sorted[hi] - sorted[lo]
	if math.IsInf(d, 0) {
		return sorted[lo]*(1-frac) + sorted[hi]*frac
	}
	return sorted[lo] + frac*d
}

func sortedCopy(values []float64) []float64 {
	out := slices.Clone(values)
	slices.Sort(out)
	return out
}
