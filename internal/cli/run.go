package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/cadence/internal/runner"
	"github.com/roach88/cadence/internal/scenario"
	"github.com/roach88/cadence/internal/trace"
)

// NewRunCommand creates the run command.
func NewRunCommand(opts *RootOptions) *cobra.Command {
	var dbPath string
	var maxTicks int

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Execute a scenario",
		Long:  "Validate a scenario file, execute it on the sequencing engine, and print its trace.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := NewOutputFormatter(opts.Format, opts.Verbose, cmd.OutOrStdout(), cmd.ErrOrStderr())

			s, err := scenario.Load(args[0])
			if err != nil {
				return formatter.Error(ExitFailure, "validation_failed", "%s: %v", args[0], err)
			}

			level := slog.LevelWarn
			if opts.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			runnerOpts := []runner.Option{
				runner.WithOutput(cmd.OutOrStdout()),
				runner.WithLogger(logger),
			}
			if maxTicks > 0 {
				runnerOpts = append(runnerOpts, runner.WithMaxTicks(maxTicks))
			}

			res, runErr := runner.New(runnerOpts...).Run(s)
			if runErr != nil && !runner.IsQuotaError(runErr) {
				return formatter.Error(ExitFailure, "run_failed", "%v", runErr)
			}

			if dbPath != "" && res != nil {
				store, err := trace.Open(dbPath)
				if err != nil {
					return formatter.Error(ExitFailure, "store_failed", "%v", err)
				}
				defer store.Close()
				if err := store.RecordRun(cmd.Context(), res.Snapshot(), res.Ticks); err != nil {
					return formatter.Error(ExitFailure, "store_failed", "%v", err)
				}
				formatter.VerboseLog("run %s recorded in %s", res.Token, dbPath)
			}

			if runner.IsQuotaError(runErr) {
				return formatter.Error(ExitFailure, "quota_exceeded", "%v", runErr)
			}

			traceJSON, err := res.Snapshot().MarshalCanonical()
			if err != nil {
				return formatter.Error(ExitFailure, "encode_failed", "%v", err)
			}

			result := map[string]interface{}{
				"token":    res.Token,
				"scenario": res.Scenario,
				"ticks":    res.Ticks,
				"events":   len(res.Events),
			}
			return formatter.Success(result, func(w io.Writer) {
				fmt.Fprintf(w, "run %s: %s finished in %d ticks (%d events)\n",
					res.Token, res.Scenario, res.Ticks, len(res.Events))
				if opts.Verbose {
					fmt.Fprintln(w, string(traceJSON))
				}
			})
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "record the run trace in a SQLite log at this path")
	cmd.Flags().IntVar(&maxTicks, "max-ticks", 0, "override the scenario's tick quota")

	return cmd
}
