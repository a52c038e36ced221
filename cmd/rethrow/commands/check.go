package commands

import (
	"github.com/spf13/cobra"

	"github.com/walteh/rethrow/cmd/rethrow/opts"
)

// NewCheckCmd creates the check command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	var flags migrationFlags

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report files that still need migration without writing",
		Long: `Check runs the same pipeline as migrate but never writes.
It exits non-zero when any targeted file would change, is missing or fails,
which makes it usable as a CI gate.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd.Context(), o, false, flags)
		},
	}
	flags.register(cmd)

	return cmd
}
