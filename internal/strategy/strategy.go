// Package strategy implements the indicator trading strategies: SMA
// crossover, MACD, RSI recovery, and the confirmation-window combinator that
// merges two strategies into one decision.
package strategy

import (
	"fmt"

	"github.com/tidemark-lab/tidemark/internal/types"
)

// Strategy is a pure function from a price series to a signal-annotated
// series. Implementations never mutate the input bars.
type Strategy interface {
	// Name returns the deterministic display name derived from the
	// strategy's parameters.
	Name() string

	// MinBars returns the minimum number of bars the strategy needs to
	// produce signals. Apply soft-fails below this.
	MinBars() int

	// Apply computes the annotated signal series for the given bars. When
	// the series is shorter than MinBars the returned series carries a
	// warning and no signal columns.
	Apply(bars []types.Bar) *types.SignalSeries
}

// New constructs a strategy from a validated parameter set.
func New(params types.StrategyParams) (Strategy, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	switch params.Kind {
	case types.StrategyKindSMACrossover:
		return NewSMACrossover(*params.SMACrossover), nil
	case types.StrategyKindMACD:
		return NewMACD(*params.MACD), nil
	case types.StrategyKindRSI:
		return NewRSI(*params.RSI), nil
	case types.StrategyKindCombined:
		a, err := New(*params.Combined.A)
		if err != nil {
			return nil, fmt.Errorf("combined upstream a: %w", err)
		}
		b, err := New(*params.Combined.B)
		if err != nil {
			return nil, fmt.Errorf("combined upstream b: %w", err)
		}

		return NewCombined(a, b, params.Combined.ConfirmationWindow), nil
	default:
		return nil, fmt.Errorf("unknown strategy kind %q", params.Kind)
	}
}
