package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/busbench/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace [run-id]",
		Short: "Inspect recorded runs",
		Long: `List recorded bench runs, or print the verdict trace of one run.

Example:
  busbench trace --db ./busbench.db
  busbench trace --db ./busbench.db 0193e2f1-1c7a-7e6e-9d5c-2f6a0b8450aa`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showTrace(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func showTrace(opts *TraceOptions, args []string, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	if len(args) == 0 {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		if opts.Format == "json" {
			return printJSON(out, runs)
		}
		for _, r := range runs {
			fmt.Fprintf(out, "%s  %s  seed=%d ticks=%d  %s\n",
				r.ID, r.Scenario, r.Seed, r.RunTicks, r.CreatedAt.Format(time.RFC3339))
		}
		fmt.Fprintf(out, "%d runs recorded.\n", len(runs))
		return nil
	}

	verdicts, err := st.VerdictsForRun(ctx, args[0])
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load verdicts", err)
	}
	if len(verdicts) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("no verdicts found for run %s", args[0]))
	}
	if opts.Format == "json" {
		return printJSON(out, verdicts)
	}
	for _, v := range verdicts {
		status := "PASS"
		if !v.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(out, "%s seq=%d addr=%d op=%s data=%d stretch=%t ackErr=%t\n",
			status, v.Seq, v.Addr, v.Op, v.Data, v.Stretch, v.AckErr)
	}
	return nil
}
