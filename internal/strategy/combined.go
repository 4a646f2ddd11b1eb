package strategy

import (
	"fmt"

	"github.com/tidemark-lab/tidemark/internal/types"
)

// Compile-time interface check.
var _ Strategy = (*Combined)(nil)

// Combined merges the entry/exit decisions of two strategies over a trailing
// confirmation window. A raw buy fires on bar i when both upstreams produced
// at least one entry within [i-window+1, i]; they need not agree on the same
// bar. The raw signals are then forward-filled into a held position and the
// final entry/exit flags come from the position's first difference, turning
// point-in-time agreement events into a persistent long/flat/short stance.
type Combined struct {
	a      Strategy
	b      Strategy
	window int
}

// NewCombined creates a combinator over two already-constructed strategies
// with the given confirmation window (>= 1).
func NewCombined(a, b Strategy, window int) *Combined {
	return &Combined{a: a, b: b, window: window}
}

// Name returns the display name, e.g. "Combined_3[MACD_12_26_9+RSI_14_70_30]".
func (c *Combined) Name() string {
	return fmt.Sprintf("Combined_%d[%s+%s]", c.window, c.a.Name(), c.b.Name())
}

// MinBars returns the larger of the two upstream requirements.
func (c *Combined) MinBars() int {
	return max(c.a.MinBars(), c.b.MinBars())
}

// Apply runs both upstream strategies and merges their entry/exit flags. The
// combined series soft-fails when either upstream soft-fails.
func (c *Combined) Apply(bars []types.Bar) *types.SignalSeries {
	seriesA := c.a.Apply(bars)
	if !seriesA.HasSignals() {
		return types.SoftFail(bars, seriesA.Warning)
	}
	seriesB := c.b.Apply(bars)
	if !seriesB.HasSignals() {
		return types.SoftFail(bars, seriesB.Warning)
	}

	series := types.NewSignalSeries(bars)

	// Bars before the confirmation window have insufficient trailing
	// history and never fire.
	for i := c.window; i < len(bars); i++ {
		from := i - c.window + 1
		if windowSum(seriesA.Entry, from, i) > 0 && windowSum(seriesB.Entry, from, i) > 0 {
			series.Signal[i] = types.SignalBuy
		}
		if windowSum(seriesA.Exit, from, i) > 0 && windowSum(seriesB.Exit, from, i) > 0 {
			series.Signal[i] = types.SignalSell
		}
	}

	position := make([]int, len(bars))
	held := 0
	for i, s := range series.Signal {
		if s != types.SignalNeutral {
			held = s
		}
		position[i] = held
	}

	positionColumn := make([]float64, len(position))
	for i, p := range position {
		positionColumn[i] = float64(p)
	}
	series.SetColumn(types.ColumnPosition, positionColumn)

	series.MarkTransitions(position)

	return series
}

// windowSum counts the set flags in the inclusive range [from, to].
func windowSum(flags []bool, from, to int) int {
	count := 0
	for i := from; i <= to; i++ {
		if flags[i] {
			count++
		}
	}

	return count
}
