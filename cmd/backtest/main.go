package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/tidemark-lab/tidemark/internal/backtest"
	"github.com/tidemark-lab/tidemark/internal/config"
	"github.com/tidemark-lab/tidemark/internal/datasource"
	"github.com/tidemark-lab/tidemark/internal/logger"
	"github.com/tidemark-lab/tidemark/internal/types"
)

// runAction loads the configuration, submits every configured backtest and
// prints the aggregated results once all tasks reach a terminal state.
func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	logs, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logs.Sync()

	provider := datasource.NewCSVProvider(cfg.DataDir, logs)
	executor := backtest.NewExecutor(provider, logs, backtest.Options{
		MaxConcurrent: cfg.MaxConcurrentBacktests,
	})

	ids := make([]string, 0, len(cfg.Runs))
	for _, run := range cfg.Runs {
		id, err := executor.Submit(ctx, run.Symbol, run.Strategy)
		if err != nil {
			return fmt.Errorf("failed to submit backtest for %s: %w", run.Symbol, err)
		}
		ids = append(ids, id)
	}

	bar := progressbar.Default(int64(len(ids)), "running backtests")
	for executor.ActiveCount() > 0 {
		bar.Set(len(ids) - executor.ActiveCount())
		time.Sleep(100 * time.Millisecond)
	}
	executor.Wait()
	bar.Finish()

	printResults(executor, ids)

	return nil
}

func printResults(executor *backtest.Executor, ids []string) {
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "SYMBOL\tSTRATEGY\tPNL %\tTRADES\tWIN RATE\tSHARPE\tMAX DD\tTIME (S)")

	for _, result := range executor.ListResults(len(ids)) {
		fmt.Fprintf(writer, "%s\t%s\t%.2f\t%d\t%.2f\t%.2f\t%.2f\t%.3f\n",
			result.Symbol, result.Strategy, result.PnLPercent, result.TotalTrades,
			result.WinRate, result.SharpeRatio, result.MaxDrawdown, result.ExecutionTime)
	}
	writer.Flush()

	for _, id := range ids {
		task, ok := executor.GetTask(id)
		if ok && task.Status != types.TaskStatusCompleted {
			fmt.Fprintf(os.Stderr, "%s: %s (%s)\n", task.Symbol, task.Status, task.Error.TakeOr("no error"))
		}
	}
}

// schemaAction prints the JSON schema for the configuration file.
func schemaAction(_ context.Context, _ *cli.Command) error {
	schemaJSON, err := (&config.Config{}).GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	fmt.Println(schemaJSON)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Run indicator-strategy backtests over historical price data",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Submit every configured backtest and print the results",
				Action: runAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Path to the YAML run configuration",
						Required: true,
					},
				},
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema for the run configuration",
				Action: schemaAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
