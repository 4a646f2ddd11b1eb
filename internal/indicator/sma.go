// Package indicator provides the raw moving-average and oscillator math the
// strategies are built from. All functions operate on plain value slices and
// return slices aligned index-for-index with their input.
package indicator

import "math"

// SMA computes the simple moving average over the given period. Indexes with
// fewer than period observations carry NaN, so comparisons against a partial
// window are always false.
func SMA(values []float64, period int) []float64 {
	out := make([]float64, len(values))

	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		} else {
			out[i] = math.NaN()
		}
	}

	return out
}
