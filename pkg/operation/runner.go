// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 OperationRunner executes operations
type OperationRunner struct {
	logger *zerolog.Logger
}

// 🏗️ NewRunner creates a new runner
func NewRunner(logger *zerolog.Logger) *OperationRunner {
	return &OperationRunner{
		logger: logger,
	}
}

// 🏃 Run executes an operation
func (r *OperationRunner) Run(ctx context.Context, op Operation) error {
	if err := ctx.Err(); err != nil {
		return errors.Errorf("operation cancelled: %w", err)
	}

	start := time.Now()
	r.logger.Debug().Str("operation", op.Name()).Msg("starting operation")

	err := op.Execute(ctx)

	event := r.logger.Debug()
	if err != nil {
		event = r.logger.Warn().Err(err)
	}
	event.Str("operation", op.Name()).Dur("took", time.Since(start)).Msg("operation finished")
	return err
}

// ⚡ forEachJob runs fn for every job with at most limit in flight.
// Files are independent; rules within one file stay sequential inside fn.
func forEachJob(ctx context.Context, jobs []Job, limit int, fn func(ctx context.Context, job Job)) error {
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, job := range jobs {
		job := job
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(gctx, job)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return errors.Errorf("running jobs: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return errors.Errorf("running jobs: %w", err)
	}
	return nil
}
