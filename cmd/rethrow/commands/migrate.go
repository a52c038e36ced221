package commands

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/rethrow/cmd/rethrow/opts"
	"github.com/walteh/rethrow/pkg/log"
	"github.com/walteh/rethrow/pkg/operation"
	"github.com/walteh/rethrow/pkg/status"
)

// NewMigrateCmd creates the migrate command
func NewMigrateCmd(o *opts.RootOpts) *cobra.Command {
	var flags migrationFlags

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Rewrite legacy throw sites in place",
		Long: `Migrate rewrites every targeted file. For each file it will:
1. Apply the rule set in order
2. Insert the missing imports after the anchor line if any rule fired
3. Re-apply the rules to the result and refuse to write if anything changes
4. Write the file only if its content changed

Missing files are reported and make the command exit non-zero; the
remaining files are still migrated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd.Context(), o, true, flags)
		},
	}
	flags.register(cmd)

	return cmd
}

type migrationFlags struct {
	concurrency int
	diff        bool
	around      int
}

func (f *migrationFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "files processed in parallel (0 uses the config value)")
	cmd.Flags().BoolVar(&f.diff, "diff", false, "print a line diff for every changed file")
	cmd.Flags().IntVar(&f.around, "context", 2, "unchanged lines shown around each change with --diff")
}

func runMigration(ctx context.Context, o *opts.RootOpts, write bool, flags migrationFlags) error {
	logger := zerolog.Ctx(ctx)

	cfg, err := o.LoadConfig(ctx)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}
	if flags.concurrency > 0 {
		cfg.Concurrency = flags.concurrency
	}
	root, err := o.ResolveRoot(cfg)
	if err != nil {
		return err
	}

	options := operation.Options{
		Config:  cfg,
		Files:   status.NewManager(root),
		Root:    root,
		Report:  status.NewReport(),
		Console: o.Console,
	}

	var op operation.Operation
	if write {
		op, err = operation.NewMigrateOperation(options)
	} else {
		op, err = operation.NewCheckOperation(options)
	}
	if err != nil {
		return errors.Errorf("creating operation: %w", err)
	}

	o.Console.StartRun(ctx, log.RunInfo{
		Operation: op.Name(),
		Root:      root,
		Config:    o.ConfigName(),
		Targets:   len(cfg.Targets),
	})
	runErr := operation.NewRunner(logger).Run(ctx, op)
	o.Console.EndRun(ctx)

	if flags.diff {
		o.Console.LogNewline()
		for _, rec := range options.Report.Records() {
			o.Console.LogDiff(rec, flags.around)
		}
	}

	o.Console.LogNewline()
	if err := o.Console.Summary(options.Report); err != nil {
		logger.Warn().Err(err).Msg("rendering summary")
	}

	counts := options.Report.Counts()
	if !write && counts.Changed > 0 {
		o.Console.Infof("%d file(s) need migration, run rethrow migrate to apply", counts.Changed)
	}
	if counts.Missing > 0 {
		o.Console.Warningf("%d target file(s) not found under %s", counts.Missing, root)
	}

	return runErr
}
