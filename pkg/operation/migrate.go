package operation

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/rethrow/pkg/status"
)

// 🔁 NewMigrateOperation rewrites every target file in place
func NewMigrateOperation(opts Options) (Operation, error) {
	return newMigration(opts, true)
}

// 🔍 NewCheckOperation runs the full pipeline without writing; pending
// changes make Execute fail with ErrPendingChanges
func NewCheckOperation(opts Options) (Operation, error) {
	return newMigration(opts, false)
}

func newMigration(opts Options, write bool) (Operation, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &migrateOperation{
		BaseOperation: NewBaseOperation(opts),
		transformer:   NewTransformer(opts.Files, write),
		write:         write,
	}, nil
}

// 📦 migrateOperation implements both migrate and check
type migrateOperation struct {
	BaseOperation
	transformer *Transformer
	write       bool
}

func (op *migrateOperation) Name() string {
	if op.write {
		return "migrate"
	}
	return "check"
}

// 🏃 Execute runs the migration over every target
func (op *migrateOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	jobs, err := BuildJobs(ctx, op.Config, op.Root)
	if err != nil {
		return errors.Errorf("planning: %w", err)
	}
	logger.Debug().Int("files", len(jobs)).Int("concurrency", op.Config.Concurrency).Msg("planned migration")

	op.Report.StartOperation(ctx, len(jobs))
	defer op.Report.FinishOperation(ctx)

	err = forEachJob(ctx, jobs, op.Config.Concurrency, func(ctx context.Context, job Job) {
		op.track(ctx, op.transformer.Transform(ctx, job))
	})
	if err != nil {
		return err
	}
	if op.write {
		op.Report.AddTally(writtenTally(op.Report))
	}

	return Outcome(op.Report, !op.write)
}

func writtenTally(report *status.Report) status.Tally {
	t := status.Tally{Label: "written"}
	for _, rec := range report.Records() {
		if !rec.Changed {
			continue
		}
		t.Total++
		if rec.Written {
			t.Succeeded++
		}
	}
	return t
}
