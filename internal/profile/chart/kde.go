package chart

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// kde returns a Gaussian kernel density estimate of values using Scott's
// bandwidth. It returns nil when the bandwidth would be zero.
func kde(values []float64) func(float64) float64 {
	n := len(values)
	if n < 2 {
		return nil
	}
	bw := stat.StdDev(values, nil) * math.Pow(float64(n), -0.2)
	if bw == 0 || math.IsNaN(bw) {
		return nil
	}

	return func(x float64) float64 {
		sum := 0.0
		for _, v := range values {
			sum += distuv.UnitNormal.Prob((x - v) / bw)
		}
		return sum / (float64(n) * bw)
	}
}
