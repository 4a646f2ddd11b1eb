package indicator

// EMA computes the recursive exponential moving average with smoothing factor
// 2/(period+1). The first value seeds the series and no bias adjustment is
// applied, so early values lean toward the seed.
func EMA(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	alpha := 2.0 / (float64(period) + 1.0)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}

	return out
}
