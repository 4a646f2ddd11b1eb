// Package backtest runs many strategy evaluations concurrently and tracks
// their lifecycle: submit, execute, and query aggregated results.
package backtest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/tidemark-lab/tidemark/internal/datasource"
	"github.com/tidemark-lab/tidemark/internal/logger"
	"github.com/tidemark-lab/tidemark/internal/strategy"
	"github.com/tidemark-lab/tidemark/internal/types"
)

// DefaultMaxConcurrent bounds the worker pool when no limit is configured.
const DefaultMaxConcurrent = 8

// Options configures an Executor.
type Options struct {
	// MaxConcurrent caps the number of backtests executing at once. Zero or
	// negative falls back to DefaultMaxConcurrent. Submissions beyond the
	// cap queue on the pool; Submit itself never blocks on them.
	MaxConcurrent int
	// StartTime and EndTime optionally bound every data fetch.
	StartTime optional.Option[time.Time]
	EndTime   optional.Option[time.Time]
}

// Executor schedules submitted backtests onto a bounded worker pool and owns
// the shared task and result tables. The tables are the only shared mutable
// state and every access goes through a single mutex; the data fetch and
// indicator computation run outside the lock so concurrent backtests never
// serialize on each other.
type Executor struct {
	provider datasource.Provider
	log      *logger.Logger
	opts     Options
	sem      *semaphore.Weighted
	wg       sync.WaitGroup

	mu      sync.Mutex
	tasks   map[string]*types.BacktestTask
	results map[string]*types.BacktestResult
	// completed holds result ids in publication order so sorting ties stay
	// deterministic.
	completed []string
}

// NewExecutor creates an executor reading price data from the given provider.
func NewExecutor(provider datasource.Provider, log *logger.Logger, opts Options) *Executor {
	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}

	return &Executor{
		provider: provider,
		log:      log,
		opts:     opts,
		sem:      semaphore.NewWeighted(int64(maxConcurrent)),
		tasks:    make(map[string]*types.BacktestTask),
		results:  make(map[string]*types.BacktestResult),
	}
}

// Submit validates the parameters, registers the task as running and
// schedules it for asynchronous execution. It returns the task id
// immediately and never waits for the backtest itself; the outcome is
// observable later through GetTask, GetResult and ListResults.
func (e *Executor) Submit(ctx context.Context, symbol string, params types.StrategyParams) (string, error) {
	strat, err := strategy.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to construct strategy: %w", err)
	}

	task := &types.BacktestTask{
		ID:        newTaskID(symbol, params.Kind),
		Symbol:    symbol,
		Params:    params,
		Status:    types.TaskStatusRunning,
		StartTime: time.Now(),
	}

	e.mu.Lock()
	e.tasks[task.ID] = task
	e.mu.Unlock()

	e.log.Info("Backtest submitted",
		zap.String("backtest_id", task.ID),
		zap.String("symbol", symbol),
		zap.String("strategy", strat.Name()),
	)

	e.wg.Add(1)
	go e.run(ctx, task, strat)

	return task.ID, nil
}

// run executes a single task on the worker pool and records its terminal
// state. Any failure, including a panic in strategy code, is converted into
// a Failed status and never propagates.
func (e *Executor) run(ctx context.Context, task *types.BacktestTask, strat strategy.Strategy) {
	defer e.wg.Done()

	if err := e.sem.Acquire(ctx, 1); err != nil {
		e.fail(task, fmt.Errorf("failed to acquire worker slot: %w", err))
		return
	}
	defer e.sem.Release(1)

	metrics, err := e.execute(ctx, task, strat)
	if err != nil {
		e.fail(task, err)
		return
	}

	e.complete(task, strat.Name(), metrics)
}

// execute performs the data fetch and the strategy evaluation, entirely
// outside the table lock.
func (e *Executor) execute(ctx context.Context, task *types.BacktestTask, strat strategy.Strategy) (metrics Metrics, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("backtest panicked: %v", r)
		}
	}()

	bars, err := e.provider.Fetch(ctx, task.Symbol, e.opts.StartTime, e.opts.EndTime)
	if err != nil {
		return Metrics{}, fmt.Errorf("failed to fetch price data: %w", err)
	}

	series := strat.Apply(bars)
	if !series.HasSignals() {
		e.log.Warn("Strategy produced no signals",
			zap.String("backtest_id", task.ID),
			zap.String("warning", series.Warning),
		)
	}

	return Summarize(series), nil
}

func (e *Executor) complete(task *types.BacktestTask, strategyName string, metrics Metrics) {
	now := time.Now()
	result := &types.BacktestResult{
		BacktestID:     task.ID,
		Symbol:         task.Symbol,
		Strategy:       strategyName,
		ExecutionTime:  now.Sub(task.StartTime).Seconds(),
		PnLPercent:     metrics.PnLPercent,
		TotalTrades:    metrics.TotalTrades,
		WinRate:        metrics.WinRate,
		SharpeRatio:    metrics.SharpeRatio,
		MaxDrawdown:    metrics.MaxDrawdown,
		CompletionTime: now,
	}

	// Status transition and result publication must appear atomic to
	// readers.
	e.mu.Lock()
	task.Status = types.TaskStatusCompleted
	task.CompletionTime = optional.Some(now)
	e.results[task.ID] = result
	e.completed = append(e.completed, task.ID)
	e.mu.Unlock()

	e.log.Info("Backtest completed",
		zap.String("backtest_id", task.ID),
		zap.Float64("pnl_percent", metrics.PnLPercent),
		zap.Int("total_trades", metrics.TotalTrades),
	)
}

func (e *Executor) fail(task *types.BacktestTask, err error) {
	e.mu.Lock()
	task.Status = types.TaskStatusFailed
	task.CompletionTime = optional.Some(time.Now())
	task.Error = optional.Some(err.Error())
	e.mu.Unlock()

	e.log.Error("Backtest failed",
		zap.String("backtest_id", task.ID),
		zap.String("symbol", task.Symbol),
		zap.Error(err),
	)
}

// GetTask returns a snapshot of the task with the given id.
func (e *Executor) GetTask(id string) (types.BacktestTask, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	task, ok := e.tasks[id]
	if !ok {
		return types.BacktestTask{}, false
	}

	return *task, true
}

// GetResult returns the result of a completed task, if any.
func (e *Executor) GetResult(id string) (types.BacktestResult, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	result, ok := e.results[id]
	if !ok {
		return types.BacktestResult{}, false
	}

	return *result, true
}

// ActiveCount returns the number of tasks currently running.
func (e *Executor) ActiveCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	count := 0
	for _, task := range e.tasks {
		if task.Status == types.TaskStatusRunning {
			count++
		}
	}

	return count
}

// ListResults returns up to limit results sorted by completion time
// descending. Equal completion times keep their publication order.
func (e *Executor) ListResults(limit int) []types.BacktestResult {
	e.mu.Lock()
	results := make([]types.BacktestResult, 0, len(e.completed))
	for _, id := range e.completed {
		results = append(results, *e.results[id])
	}
	e.mu.Unlock()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CompletionTime.After(results[j].CompletionTime)
	})

	if limit >= 0 && len(results) > limit {
		results = results[:limit]
	}

	return results
}

// Wait blocks until every submitted task has reached a terminal state.
func (e *Executor) Wait() {
	e.wg.Wait()
}

// newTaskID composes a process-unique task id from the symbol, the strategy
// kind, the submission timestamp and a random disambiguator.
func newTaskID(symbol string, kind types.StrategyKind) string {
	return fmt.Sprintf("%s_%s_%d_%s", symbol, kind, time.Now().UnixNano(), uuid.NewString()[:8])
}
