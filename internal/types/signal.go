package types

// Signal values carried per bar by a SignalSeries.
const (
	SignalSell    = -1
	SignalNeutral = 0
	SignalBuy     = 1
)

// Column names used by the built-in strategies.
const (
	ColumnShortSMA   = "short_sma"
	ColumnLongSMA    = "long_sma"
	ColumnMACDLine   = "macd_line"
	ColumnSignalLine = "signal_line"
	ColumnHistogram  = "histogram"
	ColumnRSI        = "rsi"
	ColumnPosition   = "position"
)

// SignalSeries is the output of a strategy, aligned index-for-index with the
// input bars. The input bars are referenced, never mutated; all derived data
// lives in the series itself.
//
// When a strategy receives fewer bars than it requires it returns a series
// with Warning set and no signal columns. That is a degraded-but-valid
// result, not an error; callers must check HasSignals before reading Signal,
// Entry or Exit.
type SignalSeries struct {
	// Bars is the input price series the signals are aligned with.
	Bars []Bar
	// Columns holds the raw indicator value columns keyed by name.
	Columns map[string][]float64
	// Signal is the per-bar signal: -1, 0 or +1. Nil when the strategy
	// soft-failed.
	Signal []int
	// Entry marks the bar on which a long position is opened.
	Entry []bool
	// Exit marks the bar on which a position is closed.
	Exit []bool
	// Warning is set when the strategy could not produce signals, e.g. on
	// insufficient data.
	Warning string
}

// NewSignalSeries allocates a signal series aligned with the given bars.
func NewSignalSeries(bars []Bar) *SignalSeries {
	return &SignalSeries{
		Bars:    bars,
		Columns: make(map[string][]float64),
		Signal:  make([]int, len(bars)),
		Entry:   make([]bool, len(bars)),
		Exit:    make([]bool, len(bars)),
	}
}

// SoftFail returns a series carrying only the input bars and a warning,
// with no signal columns attached.
func SoftFail(bars []Bar, warning string) *SignalSeries {
	return &SignalSeries{
		Bars:    bars,
		Warning: warning,
	}
}

// HasSignals reports whether the strategy produced signal columns.
func (s *SignalSeries) HasSignals() bool {
	return s.Signal != nil
}

// Len returns the number of bars in the series.
func (s *SignalSeries) Len() int {
	return len(s.Bars)
}

// SetColumn attaches a raw indicator value column to the series.
func (s *SignalSeries) SetColumn(name string, values []float64) {
	if s.Columns == nil {
		s.Columns = make(map[string][]float64)
	}
	s.Columns[name] = values
}

// Column returns the named indicator column. The second return value
// indicates whether the column exists.
func (s *SignalSeries) Column(name string) ([]float64, bool) {
	values, ok := s.Columns[name]
	return values, ok
}

// MarkTransitions derives the Entry and Exit flags from the first difference
// of the given stance series. An entry fires on the bar where the stance
// moves from <= 0 to > 0, an exit where it moves from >= 0 to < 0. The first
// bar has no prior value and never fires, and the two flags are mutually
// exclusive per bar.
func (s *SignalSeries) MarkTransitions(stance []int) {
	for i := 1; i < len(stance); i++ {
		switch {
		case stance[i] > 0 && stance[i-1] <= 0:
			s.Entry[i] = true
		case stance[i] < 0 && stance[i-1] >= 0:
			s.Exit[i] = true
		}
	}
}
