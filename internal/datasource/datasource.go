// Package datasource defines the data-provider collaborator that supplies
// price series to the backtest executor, and a CSV-backed implementation.
package datasource

import (
	"context"
	"time"

	"github.com/moznion/go-optional"

	"github.com/tidemark-lab/tidemark/internal/types"
)

// Provider supplies the historical price series for a symbol. Fetch failures
// are returned as errors and caught at the task boundary by the executor.
type Provider interface {
	// Fetch returns the bars for the symbol within the optional time range,
	// ordered by strictly increasing timestamp.
	Fetch(ctx context.Context, symbol string, start, end optional.Option[time.Time]) ([]types.Bar, error)
}

// filterRange keeps the bars inside the inclusive [start, end] range. A None
// bound leaves that side open.
func filterRange(bars []types.Bar, start, end optional.Option[time.Time]) []types.Bar {
	filtered := make([]types.Bar, 0, len(bars))
	for _, bar := range bars {
		if start.IsSome() && bar.Time.Before(start.Unwrap()) {
			continue
		}
		if end.IsSome() && bar.Time.After(end.Unwrap()) {
			continue
		}
		filtered = append(filtered, bar)
	}

	return filtered
}
