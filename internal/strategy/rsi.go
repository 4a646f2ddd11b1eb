package strategy

import (
	"fmt"

	"github.com/tidemark-lab/tidemark/internal/indicator"
	"github.com/tidemark-lab/tidemark/internal/types"
)

// Compile-time interface check.
var _ Strategy = (*RSI)(nil)

// RSI is a one-shot edge detector on the relative strength index: a buy
// fires on the bar where the series recovers from oversold, a sell on the
// bar where it drops back from overbought. The signal is not a sustained
// state, so entry/exit are set directly from it rather than through a
// position difference.
type RSI struct {
	params types.RSIParams
}

// NewRSI creates a new RSI strategy with the given period and thresholds.
func NewRSI(params types.RSIParams) *RSI {
	return &RSI{params: params}
}

// Name returns the display name, e.g. "RSI_14_70_30".
func (r *RSI) Name() string {
	return fmt.Sprintf("RSI_%d_%g_%g", r.params.Period, r.params.Overbought, r.params.Oversold)
}

// MinBars returns the RSI period.
func (r *RSI) MinBars() int {
	return r.params.Period
}

// Apply annotates the series with the rsi column, the edge signals and the
// entry/exit flags.
func (r *RSI) Apply(bars []types.Bar) *types.SignalSeries {
	if len(bars) < r.MinBars() {
		return types.SoftFail(bars, fmt.Sprintf("insufficient data: %s needs at least %d bars, got %d",
			r.Name(), r.MinBars(), len(bars)))
	}

	rsi := indicator.RSI(types.Closes(bars), r.params.Period)

	series := types.NewSignalSeries(bars)
	series.SetColumn(types.ColumnRSI, rsi)

	for i := 1; i < len(bars); i++ {
		prevOversold := rsi[i-1] < r.params.Oversold
		prevOverbought := rsi[i-1] > r.params.Overbought

		switch {
		case prevOversold && rsi[i] >= r.params.Oversold:
			series.Signal[i] = types.SignalBuy
			series.Entry[i] = true
		case prevOverbought && rsi[i] <= r.params.Overbought:
			series.Signal[i] = types.SignalSell
			series.Exit[i] = true
		}
	}

	return series
}
