package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/cadence/internal/trace"
)

// NewTraceCommand creates the trace command.
func NewTraceCommand(opts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "trace [run-token]",
		Short: "Inspect recorded runs",
		Long:  "List the runs recorded in a run log, or print the full trace of one run by token.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := NewOutputFormatter(opts.Format, opts.Verbose, cmd.OutOrStdout(), cmd.ErrOrStderr())

			store, err := trace.Open(dbPath)
			if err != nil {
				return formatter.Error(ExitFailure, "store_failed", "%v", err)
			}
			defer store.Close()

			if len(args) == 0 {
				runs, err := store.ListRuns(cmd.Context())
				if err != nil {
					return formatter.Error(ExitFailure, "store_failed", "%v", err)
				}
				return formatter.Success(runs, func(w io.Writer) {
					if len(runs) == 0 {
						fmt.Fprintln(w, "no runs recorded")
						return
					}
					for _, r := range runs {
						fmt.Fprintf(w, "%s  %s  %d ticks  %s\n", r.Token, r.Scenario, r.Ticks, r.CreatedAt)
					}
				})
			}

			snap, err := store.ReadRun(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, trace.ErrRunNotFound) {
					return formatter.Error(ExitFailure, "run_not_found", "%v", err)
				}
				return formatter.Error(ExitFailure, "store_failed", "%v", err)
			}

			return formatter.Success(snap, func(w io.Writer) {
				fmt.Fprintf(w, "run %s: %s (%d events)\n", snap.Token, snap.Scenario, len(snap.Events))
				for _, e := range snap.Events {
					fmt.Fprintf(w, "  %4d  tick %-3d  %-9s  %s\n", e.Seq, e.Tick, e.Type, e.Step)
				}
			})
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "path to the SQLite run log")
	cmd.MarkFlagRequired("db")

	return cmd
}
