package indicator

import "math"

// epsilon replaces a zero average loss so the relative strength stays finite
// and RSI caps just under 100 instead of dividing by zero.
var epsilon = math.Nextafter(1, 2) - 1

// RSI computes the relative strength index over a rolling window of period
// price deltas. The window may be partially filled at the start (minimum one
// observation), so the output is defined from the second bar on; the first
// bar has no delta and is held at the neutral 50. Output is always within
// [0, 100] for finite input.
func RSI(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	out[0] = 50

	gains := make([]float64, len(values))
	losses := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	var gainSum, lossSum float64
	for i := 1; i < len(values); i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > period {
			gainSum -= gains[i-period]
			lossSum -= losses[i-period]
		}

		observed := float64(min(i, period))
		avgGain := gainSum / observed
		avgLoss := lossSum / observed
		if avgLoss == 0 {
			avgLoss = epsilon
		}

		rs := avgGain / avgLoss
		out[i] = 100 - 100/(1+rs)
	}

	return out
}
