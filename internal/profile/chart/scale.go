package chart

import (
	"fmt"
	"math"
)

// Axis values are kept within [1/magnitudeLimit, magnitudeLimit] in absolute
// value. Plot layout squares and sums data ranges, which overflows near the
// float64 limits and leaves the rasterizer with unbounded coordinates.
const magnitudeLimit = 1e12

// scaled divides values by a power of ten when their finite magnitude falls
// outside the plottable band. The returned suffix names the factor for the
// axis label and is empty when values are returned unchanged. Non-finite
// values pass through.
func scaled(values []float64) ([]float64, string) {
	maxAbs := 0.0
	for _, v := range values {
		if finite(v) {
			maxAbs = math.Max(maxAbs, math.Abs(v))
		}
	}
	if maxAbs == 0 || (maxAbs <= magnitudeLimit && maxAbs >= 1/magnitudeLimit) {
		return values, ""
	}

	exp := int(math.Floor(math.Log10(maxAbs)))
	factor := math.Pow10(exp)
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v / factor
	}
	return out, fmt.Sprintf(" (x1e%d)", exp)
}
