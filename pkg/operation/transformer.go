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

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/rethrow/pkg/status"
	"github.com/walteh/rethrow/pkg/text"
)

// 📦 Job is one file paired with its compiled rule set and import directive
type Job struct {
	Path    string
	RuleSet *text.CompiledRuleSet
	// Imports is nil when the target declares none
	Imports *text.ImportDirective
	// CompileErrors are the rules of RuleSet that failed to compile
	CompileErrors []*text.RuleCompileError
	Verify        bool
}

// 🔄 Transformer runs one job through Loaded, ImportsEnsured, RulesApplied
// and Written. It never writes unchanged content.
type Transformer struct {
	files status.FileManager
	write bool
}

// NewTransformer creates a transformer; with write false nothing is persisted
func NewTransformer(files status.FileManager, write bool) *Transformer {
	return &Transformer{files: files, write: write}
}

// Transform processes one job. Every outcome is a record; nothing is returned as an error.
func (t *Transformer) Transform(ctx context.Context, job Job) *status.FileRecord {
	rec := &status.FileRecord{
		Path:    job.Path,
		RuleSet: job.RuleSet.Name(),
		Stage:   status.StageLoaded,
	}
	for _, ce := range job.CompileErrors {
		rec.AddProblem("compile", ce.Rule, ce)
	}

	exists, err := t.files.FileExists(ctx, job.Path)
	if err != nil {
		return fail(rec, "read", err)
	}
	if !exists {
		rec.Stage = status.StageFailed
		rec.Status = status.StatusMissing
		rec.AddProblem("read", "", errors.Errorf("%w: %s", ErrFileNotFound, job.Path))
		return rec
	}

	raw, err := t.files.ReadFile(ctx, job.Path)
	if err != nil {
		return fail(rec, "read", err)
	}
	rec.Original = string(raw)
	content := rec.Original

	// imports go only into files the rules rewrite
	result := job.RuleSet.Apply(job.Path, content)
	if job.Imports != nil && result.WasModified {
		res, err := job.Imports.Ensure(content)
		if err != nil {
			// rules still apply without the imports
			rec.AddProblem("imports", job.Imports.Name, err)
		} else if len(res.Inserted) > 0 {
			rec.Inserted = res.Inserted
			result = job.RuleSet.Apply(job.Path, res.Content)
		}
	}
	rec.Stage = status.StageImportsEnsured

	content = result.ModifiedContent
	rec.Hits = result.Hits
	rec.Replacements = result.ReplacementCount
	rec.Stage = status.StageRulesApplied
	rec.Transformed = content

	if job.Verify && result.WasModified {
		if err := job.RuleSet.VerifyIdempotent(job.Path, content); err != nil {
			return fail(rec, "verify", err)
		}
	}

	rec.Changed = content != rec.Original
	if !rec.Changed {
		rec.Status = status.StatusUnchanged
		return rec
	}
	rec.Status = status.StatusChanged
	if !t.write {
		return rec
	}

	if err := t.files.WriteFileAtomic(ctx, job.Path, []byte(content)); err != nil {
		return fail(rec, "write", errors.Errorf("%w: %s: %s", ErrWriteFailure, job.Path, err.Error()))
	}
	rec.Written = true
	rec.Stage = status.StageWritten
	return rec
}

func fail(rec *status.FileRecord, step string, err error) *status.FileRecord {
	rec.AddProblem(step, "", err)
	rec.Status = status.StatusFailed
	rec.Stage = status.StageFailed
	return rec
}
