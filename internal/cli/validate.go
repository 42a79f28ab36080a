package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/cadence/internal/scenario"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml>",
		Short: "Validate a scenario file",
		Long:  "Check a scenario file against the schema and verify its dependency graph is well formed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := NewOutputFormatter(opts.Format, opts.Verbose, cmd.OutOrStdout(), cmd.ErrOrStderr())

			s, err := scenario.Load(args[0])
			if err != nil {
				return formatter.Error(ExitFailure, "validation_failed", "%s: %v", args[0], err)
			}

			edges := 0
			for _, step := range s.Steps {
				edges += len(step.After)
			}

			result := map[string]interface{}{
				"scenario": s.Name,
				"steps":    len(s.Steps),
				"edges":    edges,
			}
			return formatter.Success(result, func(w io.Writer) {
				fmt.Fprintf(w, "%s: ok (%d steps, %d edges)\n", s.Name, len(s.Steps), edges)
			})
		},
	}
	return cmd
}
