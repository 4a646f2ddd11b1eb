package backtest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/tidemark-lab/tidemark/internal/logger"
	"github.com/tidemark-lab/tidemark/internal/types"
)

type ExecutorTestSuite struct {
	suite.Suite
	provider *stubProvider
	executor *Executor
}

func TestExecutorSuite(t *testing.T) {
	suite.Run(t, new(ExecutorTestSuite))
}

// stubProvider deterministically serves the same crossing series for every
// symbol and fails for the symbols listed in failures.
type stubProvider struct {
	failures map[string]error
}

func (p *stubProvider) Fetch(_ context.Context, symbol string, _, _ optional.Option[time.Time]) ([]types.Bar, error) {
	if err, ok := p.failures[symbol]; ok {
		return nil, err
	}

	closes := []float64{10, 10, 10, 10, 1, 1, 20, 20, 25, 25}
	bars := make([]types.Bar, len(closes))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = types.Bar{Time: start.AddDate(0, 0, i), Close: c}
	}

	return bars, nil
}

func (suite *ExecutorTestSuite) SetupTest() {
	suite.provider = &stubProvider{failures: make(map[string]error)}
	suite.executor = NewExecutor(suite.provider, logger.NewNopLogger(), Options{MaxConcurrent: 4})
}

func testParams() types.StrategyParams {
	return types.StrategyParams{
		Kind:         types.StrategyKindSMACrossover,
		SMACrossover: &types.SMACrossoverParams{ShortWindow: 2, LongWindow: 3},
	}
}

func (suite *ExecutorTestSuite) TestSubmitReturnsImmediately() {
	id, err := suite.executor.Submit(context.Background(), "AAPL", testParams())
	suite.NoError(err)
	suite.NotEmpty(id)

	task, ok := suite.executor.GetTask(id)
	suite.True(ok)
	suite.Equal("AAPL", task.Symbol)

	suite.executor.Wait()

	task, ok = suite.executor.GetTask(id)
	suite.True(ok)
	suite.Equal(types.TaskStatusCompleted, task.Status)
	suite.True(task.CompletionTime.IsSome())
	suite.True(task.Error.IsNone())
}

func (suite *ExecutorTestSuite) TestSubmitRejectsInvalidParams() {
	params := types.StrategyParams{Kind: types.StrategyKindMACD}
	_, err := suite.executor.Submit(context.Background(), "AAPL", params)
	suite.Error(err)
}

func (suite *ExecutorTestSuite) TestConcurrentSubmissionsAllComplete() {
	symbols := []string{"AAPL", "MSFT", "GOOG", "AMZN", "NVDA"}
	ids := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		id, err := suite.executor.Submit(context.Background(), symbol, testParams())
		suite.NoError(err)
		ids = append(ids, id)
	}

	suite.executor.Wait()
	suite.Zero(suite.executor.ActiveCount())

	results := suite.executor.ListResults(len(ids))
	suite.Len(results, len(ids))

	seen := make(map[string]bool)
	for _, result := range results {
		suite.False(seen[result.BacktestID], "duplicate id %s", result.BacktestID)
		seen[result.BacktestID] = true

		suite.GreaterOrEqual(result.WinRate, 0.0)
		suite.LessOrEqual(result.WinRate, 1.0)
		suite.LessOrEqual(result.MaxDrawdown, 0.0)
		suite.GreaterOrEqual(result.ExecutionTime, 0.0)
		suite.Equal("SMA_Cross_2_3", result.Strategy)
	}

	for _, id := range ids {
		result, ok := suite.executor.GetResult(id)
		suite.True(ok, "missing result for %s", id)
		suite.Equal(id, result.BacktestID)
	}
}

func (suite *ExecutorTestSuite) TestFailedTaskDoesNotAffectSiblings() {
	suite.provider.failures["BROKEN"] = errors.New("upstream unavailable")

	brokenID, err := suite.executor.Submit(context.Background(), "BROKEN", testParams())
	suite.NoError(err)
	healthyID, err := suite.executor.Submit(context.Background(), "AAPL", testParams())
	suite.NoError(err)

	suite.executor.Wait()

	broken, ok := suite.executor.GetTask(brokenID)
	suite.True(ok)
	suite.Equal(types.TaskStatusFailed, broken.Status)
	suite.Contains(broken.Error.TakeOr(""), "upstream unavailable")
	suite.True(broken.CompletionTime.IsSome())

	_, ok = suite.executor.GetResult(brokenID)
	suite.False(ok, "failed task must not publish a result")

	healthy, ok := suite.executor.GetTask(healthyID)
	suite.True(ok)
	suite.Equal(types.TaskStatusCompleted, healthy.Status)

	_, ok = suite.executor.GetResult(healthyID)
	suite.True(ok)
}

func (suite *ExecutorTestSuite) TestListResultsOrderAndLimit() {
	for i := 0; i < 6; i++ {
		_, err := suite.executor.Submit(context.Background(), fmt.Sprintf("SYM%d", i), testParams())
		suite.NoError(err)
	}
	suite.executor.Wait()

	results := suite.executor.ListResults(4)
	suite.Len(results, 4)
	for i := 1; i < len(results); i++ {
		suite.False(results[i].CompletionTime.After(results[i-1].CompletionTime),
			"results must be sorted by completion time descending")
	}

	suite.Len(suite.executor.ListResults(100), 6)
	suite.Empty(suite.executor.ListResults(0))
}

func (suite *ExecutorTestSuite) TestGetResultAbsent() {
	_, ok := suite.executor.GetResult("missing")
	suite.False(ok)
}

func (suite *ExecutorTestSuite) TestTaskIDsUniqueUnderConcurrentSubmission() {
	const submissions = 50

	ids := make(chan string, submissions)
	for i := 0; i < submissions; i++ {
		go func() {
			id, err := suite.executor.Submit(context.Background(), "AAPL", testParams())
			suite.NoError(err)
			ids <- id
		}()
	}

	seen := make(map[string]bool)
	for i := 0; i < submissions; i++ {
		id := <-ids
		suite.False(seen[id], "duplicate task id %s", id)
		seen[id] = true
	}

	suite.executor.Wait()
	suite.Zero(suite.executor.ActiveCount())
}

func (suite *ExecutorTestSuite) TestInsufficientDataCompletesWithZeroMetrics() {
	params := types.StrategyParams{
		Kind:         types.StrategyKindSMACrossover,
		SMACrossover: &types.SMACrossoverParams{ShortWindow: 20, LongWindow: 50},
	}

	id, err := suite.executor.Submit(context.Background(), "AAPL", params)
	suite.NoError(err)
	suite.executor.Wait()

	task, ok := suite.executor.GetTask(id)
	suite.True(ok)
	suite.Equal(types.TaskStatusCompleted, task.Status, "soft-fail is not an error")

	result, ok := suite.executor.GetResult(id)
	suite.True(ok)
	suite.Zero(result.TotalTrades)
	suite.Zero(result.PnLPercent)
}
