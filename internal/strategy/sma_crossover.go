package strategy

import (
	"fmt"

	"github.com/tidemark-lab/tidemark/internal/indicator"
	"github.com/tidemark-lab/tidemark/internal/types"
)

// Compile-time interface check.
var _ Strategy = (*SMACrossover)(nil)

// SMACrossover signals long while the short moving average is above the long
// one and short while it is below. Ties produce a neutral bar, not a
// crossover.
type SMACrossover struct {
	params types.SMACrossoverParams
}

// NewSMACrossover creates a new SMA crossover strategy with the given
// windows.
func NewSMACrossover(params types.SMACrossoverParams) *SMACrossover {
	return &SMACrossover{params: params}
}

// Name returns the display name, e.g. "SMA_Cross_20_50".
func (s *SMACrossover) Name() string {
	return fmt.Sprintf("SMA_Cross_%d_%d", s.params.ShortWindow, s.params.LongWindow)
}

// MinBars returns the long window length.
func (s *SMACrossover) MinBars() int {
	return s.params.LongWindow
}

// Apply annotates the series with short/long SMA columns, the per-bar signal
// and the entry/exit transition flags.
func (s *SMACrossover) Apply(bars []types.Bar) *types.SignalSeries {
	if len(bars) < s.MinBars() {
		return types.SoftFail(bars, fmt.Sprintf("insufficient data: %s needs at least %d bars, got %d",
			s.Name(), s.MinBars(), len(bars)))
	}

	closes := types.Closes(bars)
	short := indicator.SMA(closes, s.params.ShortWindow)
	long := indicator.SMA(closes, s.params.LongWindow)

	series := types.NewSignalSeries(bars)
	series.SetColumn(types.ColumnShortSMA, short)
	series.SetColumn(types.ColumnLongSMA, long)

	for i := range bars {
		// NaN comparisons are false, so partial windows stay neutral.
		switch {
		case short[i] > long[i]:
			series.Signal[i] = types.SignalBuy
		case short[i] < long[i]:
			series.Signal[i] = types.SignalSell
		}
	}

	series.MarkTransitions(series.Signal)

	return series
}
