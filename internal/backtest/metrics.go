package backtest

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/tidemark-lab/tidemark/internal/types"
)

// annualization factor for per-bar Sharpe, assuming daily bars.
const tradingDaysPerYear = 252

// Metrics is the fixed performance tuple computed for every completed task.
type Metrics struct {
	PnLPercent  float64
	TotalTrades int
	WinRate     float64
	SharpeRatio float64
	MaxDrawdown float64
}

// Summarize runs a long-only simulation of the series' entry/exit flags over
// close prices and derives the performance metrics. A soft-failed series
// yields zero metrics. A position still open on the last bar is liquidated at
// the final close and counted as a trade.
func Summarize(series *types.SignalSeries) Metrics {
	if !series.HasSignals() || series.Len() == 0 {
		return Metrics{}
	}

	closes := types.Closes(series.Bars)

	equity := 1.0
	peak := 1.0
	maxDrawdown := 0.0
	returns := make([]float64, 0, len(closes)-1)

	inPosition := false
	entryPrice := 0.0
	totalTrades := 0
	winningTrades := 0

	closeTrade := func(exitPrice float64) {
		totalTrades++
		if tradeReturn(entryPrice, exitPrice) > 0 {
			winningTrades++
		}
		inPosition = false
	}

	for i := range closes {
		if i > 0 {
			barReturn := 0.0
			if inPosition && closes[i-1] != 0 {
				barReturn = closes[i]/closes[i-1] - 1
				equity *= 1 + barReturn
			}
			returns = append(returns, barReturn)

			if equity > peak {
				peak = equity
			}
			if drawdown := (equity - peak) / peak; drawdown < maxDrawdown {
				maxDrawdown = drawdown
			}
		}

		if series.Exit[i] && inPosition {
			closeTrade(closes[i])
		}
		if series.Entry[i] && !inPosition {
			inPosition = true
			entryPrice = closes[i]
		}
	}

	if inPosition {
		closeTrade(closes[len(closes)-1])
	}

	winRate := 0.0
	if totalTrades > 0 {
		winRate = float64(winningTrades) / float64(totalTrades)
	}

	return Metrics{
		PnLPercent:  (equity - 1) * 100,
		TotalTrades: totalTrades,
		WinRate:     winRate,
		SharpeRatio: sharpeRatio(returns),
		MaxDrawdown: maxDrawdown,
	}
}

// tradeReturn computes the fractional return of a single closed trade.
func tradeReturn(entryPrice, exitPrice float64) float64 {
	if entryPrice == 0 {
		return 0
	}

	entry := decimal.NewFromFloat(entryPrice)
	exit := decimal.NewFromFloat(exitPrice)
	result, _ := exit.Sub(entry).Div(entry).Float64()

	return result
}

// sharpeRatio annualizes the mean/stddev of the per-bar strategy returns.
// Returns 0 when the return series is empty or has zero variance.
func sharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)

	if variance == 0 {
		return 0
	}

	return mean / math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear)
}
