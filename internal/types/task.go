package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// TaskStatus is the lifecycle state of a backtest task.
type TaskStatus string

const (
	// TaskStatusRunning means the task has been submitted and its worker has
	// not finished yet.
	TaskStatusRunning TaskStatus = "running"
	// TaskStatusCompleted means the worker finished and published a result.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusFailed means the worker hit an error; Error carries the
	// message. Terminal, never retried.
	TaskStatusFailed TaskStatus = "failed"
)

// BacktestTask is a single unit of backtest work. Created by the executor on
// submission, mutated only by the worker executing it, retained in memory for
// the lifetime of the process.
type BacktestTask struct {
	// ID is unique within the process lifetime, also under concurrent
	// submission.
	ID     string
	Symbol string
	Params StrategyParams
	Status TaskStatus
	// StartTime is when the task was submitted.
	StartTime time.Time
	// CompletionTime is set on the transition to Completed or Failed.
	CompletionTime optional.Option[time.Time]
	// Error is set only when the task failed.
	Error optional.Option[string]
}
