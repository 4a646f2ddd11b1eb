package strategy

import (
	"fmt"

	"github.com/tidemark-lab/tidemark/internal/indicator"
	"github.com/tidemark-lab/tidemark/internal/types"
)

// Compile-time interface check.
var _ Strategy = (*MACD)(nil)

// MACD signals long while the MACD line is above its signal line and short
// while it is below. Entries and exits are derived from the first difference
// of the signal: a move to +1 from a non-positive signal fires an entry, a
// move to -1 from a non-negative signal fires an exit, and a signal passing
// through neutral fires nothing until it reaches the opposite side.
type MACD struct {
	params types.MACDParams
}

// NewMACD creates a new MACD strategy with the given periods.
func NewMACD(params types.MACDParams) *MACD {
	return &MACD{params: params}
}

// Name returns the display name, e.g. "MACD_12_26_9".
func (m *MACD) Name() string {
	return fmt.Sprintf("MACD_%d_%d_%d", m.params.FastPeriod, m.params.SlowPeriod, m.params.SignalPeriod)
}

// MinBars returns the slow period plus the signal period.
func (m *MACD) MinBars() int {
	return m.params.SlowPeriod + m.params.SignalPeriod
}

// Apply annotates the series with the macd_line, signal_line and histogram
// columns, the per-bar signal and the entry/exit transition flags.
func (m *MACD) Apply(bars []types.Bar) *types.SignalSeries {
	if len(bars) < m.MinBars() {
		return types.SoftFail(bars, fmt.Sprintf("insufficient data: %s needs at least %d bars, got %d",
			m.Name(), m.MinBars(), len(bars)))
	}

	closes := types.Closes(bars)
	fast := indicator.EMA(closes, m.params.FastPeriod)
	slow := indicator.EMA(closes, m.params.SlowPeriod)

	macdLine := make([]float64, len(bars))
	for i := range macdLine {
		macdLine[i] = fast[i] - slow[i]
	}
	signalLine := indicator.EMA(macdLine, m.params.SignalPeriod)

	histogram := make([]float64, len(bars))
	for i := range histogram {
		histogram[i] = macdLine[i] - signalLine[i]
	}

	series := types.NewSignalSeries(bars)
	series.SetColumn(types.ColumnMACDLine, macdLine)
	series.SetColumn(types.ColumnSignalLine, signalLine)
	series.SetColumn(types.ColumnHistogram, histogram)

	for i := range bars {
		switch {
		case macdLine[i] > signalLine[i]:
			series.Signal[i] = types.SignalBuy
		case macdLine[i] < signalLine[i]:
			series.Signal[i] = types.SignalSell
		}
	}

	series.MarkTransitions(series.Signal)

	return series
}
