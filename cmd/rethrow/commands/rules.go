package commands

import (
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/rethrow/cmd/rethrow/opts"
	"github.com/walteh/rethrow/pkg/operation"
)

// NewRulesCmd creates the rules command
func NewRulesCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Compile every rule set and check marker consumption",
		Long: `Rules compiles each rule set without touching any file and checks
that no rule's pattern matches the text another rule emits. Such a pair would
re-wrap already migrated throw sites on a second run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := o.LoadConfig(ctx)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}

			o.Console.Header("checking " + cfg.String())
			checks, checkErr := operation.CheckRuleSets(ctx, cfg)
			if err := o.Console.RuleChecks(checks); err != nil {
				return errors.Errorf("rendering rule checks: %w", err)
			}
			if checkErr != nil {
				return checkErr
			}

			o.Console.Successf("%d rule set(s) ok", len(checks))
			return nil
		},
	}

	return cmd
}
