package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/busbench/internal/harness"
	"github.com/roach88/busbench/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	Seed     int64
	Ticks    int64
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [scenario.yaml]",
		Short: "Run a conformance scenario",
		Long: `Run a conformance scenario against the reference controller model.

With no argument the built-in scripted scenario runs: two write transactions
with randomized address/data, the first without clock stretching and the
second with it. A scenario file can pin transactions, targets, and the
expected verdicts.

Example:
  busbench run
  busbench run scenarios/stretch.yaml --db ./busbench.db --verbose`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "override the generator seed")
	cmd.Flags().Int64Var(&opts.Ticks, "ticks", 0, "override the run length in ticks")

	return cmd
}

func runScenario(opts *RunOptions, args []string, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(handler)

	scenario := defaultScenario()
	if len(args) == 1 {
		loaded, err := harness.LoadScenario(args[0])
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load scenario", err)
		}
		scenario = loaded
	}
	if opts.Seed != 0 {
		scenario.Seed = opts.Seed
	}
	if opts.Ticks != 0 {
		scenario.RunTicks = opts.Ticks
	}

	logger.Info("scenario starting", "scenario", scenario.Name, "seed", scenario.Seed)
	result, err := harness.Run(cmd.Context(), scenario, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "scenario execution failed", err)
	}

	if opts.Database != "" {
		if err := recordRun(cmd.Context(), opts, scenario, result); err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		if err := printJSON(out, result); err != nil {
			return WrapExitError(ExitCommandError, "failed to encode result", err)
		}
	} else {
		for _, v := range result.Verdicts {
			status := "PASS"
			if !v.Pass {
				status = "FAIL"
			}
			fmt.Fprintf(out, "%s seq=%d addr=%d op=%s data=%d stretch=%t\n",
				status, v.Seq, v.Addr, v.Op, v.Data, v.Stretch)
		}
		for _, e := range result.Errors {
			fmt.Fprintf(out, "MISMATCH %s\n", e)
		}
		fmt.Fprintf(out, "Scenario %s complete: %d transactions checked.\n",
			result.ScenarioName, len(result.Verdicts))
	}

	if !result.Pass {
		return NewExitError(ExitFailure, "scenario failed")
	}
	return nil
}

// defaultScenario is the built-in scripted pair: randomized fields, first
// transaction without stretch, second with it.
func defaultScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "default",
		Description: "two randomized write transactions, no-stretch then with-stretch",
		Seed:        time.Now().UnixNano(),
	}
}

func recordRun(ctx context.Context, opts *RunOptions, scenario *harness.Scenario, result *harness.Result) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	run := store.Run{
		ID:        uuid.NewString(),
		Scenario:  scenario.Name,
		Seed:      scenario.Seed,
		RunTicks:  scenario.Config().RunTicks,
		CreatedAt: time.Now(),
	}
	return st.RecordRun(ctx, run, result.Verdicts)
}
