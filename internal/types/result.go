package types

import "time"

// BacktestResult is the immutable record produced exactly once per
// successfully completed task. Field names form the wire contract toward
// result consumers.
type BacktestResult struct {
	BacktestID string `yaml:"backtest_id" json:"backtest_id"`
	Symbol     string `yaml:"symbol" json:"symbol"`
	Strategy   string `yaml:"strategy" json:"strategy"`
	// ExecutionTime is the wall-clock duration of the run in seconds.
	ExecutionTime float64 `yaml:"execution_time" json:"execution_time"`
	PnLPercent    float64 `yaml:"pnl_percent" json:"pnl_percent"`
	TotalTrades   int     `yaml:"total_trades" json:"total_trades"`
	// WinRate is the fraction of winning trades in [0, 1].
	WinRate     float64 `yaml:"win_rate" json:"win_rate"`
	SharpeRatio float64 `yaml:"sharpe_ratio" json:"sharpe_ratio"`
	// MaxDrawdown is the largest peak-to-trough equity decline, <= 0.
	MaxDrawdown    float64   `yaml:"max_drawdown" json:"max_drawdown"`
	CompletionTime time.Time `yaml:"completion_time" json:"completion_time"`
}
