// Package operation runs rule sets over target files and reports the outcome
package operation

import (
	"context"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/rethrow/pkg/config"
	"github.com/walteh/rethrow/pkg/status"
)

var (
	ErrFileNotFound   = errors.Base("file not found")
	ErrWriteFailure   = errors.Base("write failure")
	ErrFilesMissing   = errors.Base("targeted files missing")
	ErrFilesFailed    = errors.Base("files failed")
	ErrPendingChanges = errors.Base("files need migration")
)

// 🎯 Operation is one runnable command over the configured targets
type Operation interface {
	Name() string
	Execute(ctx context.Context) error
}

// 🖥️ Console receives each finished file record for display
type Console interface {
	LogFileRecord(ctx context.Context, rec *status.FileRecord)
}

// 🔧 Options contains what every operation needs
type Options struct {
	// Config is the migration configuration
	Config *config.Config
	// Files reads and writes target files; paths are relative to its base
	Files status.FileManager
	// Root is the directory globs are expanded in
	Root string
	// Report collects the per-file records
	Report *status.Report
	// Console is optional
	Console Console
}

func (o Options) validate() error {
	if o.Config == nil {
		return errors.Errorf("config is required")
	}
	if o.Files == nil {
		return errors.Errorf("file manager is required")
	}
	if o.Report == nil {
		return errors.Errorf("report is required")
	}
	return nil
}

// 🧱 BaseOperation holds the shared options
type BaseOperation struct {
	Options
}

// NewBaseOperation wraps opts
func NewBaseOperation(opts Options) BaseOperation {
	if opts.Root == "" {
		opts.Root = "."
	}
	return BaseOperation{Options: opts}
}

func (op *BaseOperation) track(ctx context.Context, rec *status.FileRecord) {
	op.Report.TrackFile(ctx, rec)
	if op.Console != nil {
		op.Console.LogFileRecord(ctx, rec)
	}
}

// 🚦 Outcome converts the report into the process result: missing and failed
// files are errors, and so are pending changes when checking
func Outcome(report *status.Report, check bool) error {
	counts := report.Counts()

	var errs []error
	if counts.Missing > 0 {
		errs = append(errs, errors.Errorf("%w: %v", ErrFilesMissing, report.Paths(status.StatusMissing)))
	}
	if counts.Failed > 0 {
		errs = append(errs, errors.Errorf("%w: %v", ErrFilesFailed, report.Paths(status.StatusFailed)))
	}
	if check && counts.Changed > 0 {
		errs = append(errs, errors.Errorf("%w: %v", ErrPendingChanges, report.Paths(status.StatusChanged)))
	}
	return errors.Join(errs...)
}
