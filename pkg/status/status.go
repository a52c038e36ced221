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

package status

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/walteh/rethrow/pkg/text"
)

// 📊 FileStatus is the outcome of one file's migration
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusChanged              // content differs from the original
	StatusUnchanged            // nothing matched, file left alone
	StatusMissing              // file does not exist
	StatusFailed               // write or verification failure
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusChanged:
		return "changed"
	case StatusUnchanged:
		return "unchanged"
	case StatusMissing:
		return "missing"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 🚦 Stage is the last state a file transformation reached
type Stage string

const (
	StageLoaded         Stage = "loaded"
	StageImportsEnsured Stage = "imports_ensured"
	StageRulesApplied   Stage = "rules_applied"
	StageWritten        Stage = "written"
	StageFailed         Stage = "failed"
)

// ⚠️ Problem is a reported, non-silent issue tied to one step of one file
type Problem struct {
	// Step is "read", "compile", "imports", "rules", "verify" or "write"
	Step string
	// Rule names the offending rule when the step is rule specific
	Rule string
	Err  error
}

func (p Problem) String() string {
	if p.Rule != "" {
		return fmt.Sprintf("%s[%s]: %v", p.Step, p.Rule, p.Err)
	}
	return fmt.Sprintf("%s: %v", p.Step, p.Err)
}

// 📄 FileRecord is the per-file result of a run
type FileRecord struct {
	Path        string
	RuleSet     string
	Original    string
	Transformed string
	Changed     bool
	// Written is false in check mode and whenever Changed is false
	Written      bool
	Stage        Stage
	Status       FileStatus
	Inserted     []string
	Hits         []text.RuleHit
	Replacements int
	Problems     []Problem
}

// Fatal reports whether the file failed outright (as opposed to warnings)
func (r *FileRecord) Fatal() bool {
	return r.Status == StatusFailed || r.Status == StatusMissing
}

// AddProblem records a problem for the given step
func (r *FileRecord) AddProblem(step, rule string, err error) {
	r.Problems = append(r.Problems, Problem{Step: step, Rule: rule, Err: err})
}

// 🧮 Counts summarises a report
type Counts struct {
	Total     int
	Changed   int
	Unchanged int
	Missing   int
	Failed    int
	Warnings  int
}

func (c Counts) String() string {
	return fmt.Sprintf("%d changed, %d unchanged, %d missing, %d failed (%d files)",
		c.Changed, c.Unchanged, c.Missing, c.Failed, c.Total)
}

// 🔢 Tally counts successes in a batch, e.g. "created 2/3"
type Tally struct {
	Label     string
	Succeeded int
	Total     int
}

func (t Tally) String() string {
	return fmt.Sprintf("%s %d/%d", t.Label, t.Succeeded, t.Total)
}

// 📈 StatusReporter tracks file records and reports progress
type StatusReporter interface {
	TrackFile(ctx context.Context, rec *FileRecord)
	StartOperation(ctx context.Context, total int)
	FinishOperation(ctx context.Context)
}

// 📋 Report is the Migration Report; safe for concurrent use
type Report struct {
	formatter FileFormatter

	mu      sync.Mutex
	records map[string]*FileRecord
	tallies []Tally

	total     int
	processed int
}

var _ StatusReporter = (*Report)(nil)

// 🏭 NewReport creates an empty report
func NewReport() *Report {
	return &Report{
		formatter: NewDefaultFileFormatter(),
		records:   make(map[string]*FileRecord),
	}
}

// TrackFile stores a finished record and logs it
func (r *Report) TrackFile(ctx context.Context, rec *FileRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[rec.Path] = rec
	r.processed++

	logger := zerolog.Ctx(ctx)
	event := logger.Info()
	if rec.Fatal() {
		event = logger.Warn()
	}
	event.
		Str("path", rec.Path).
		Str("rule_set", rec.RuleSet).
		Str("stage", string(rec.Stage)).
		Str("status", rec.Status.String()).
		Int("replacements", rec.Replacements).
		Int("imports_inserted", len(rec.Inserted)).
		Msg(r.formatter.FormatRecord(rec))

	for _, p := range rec.Problems {
		logger.Warn().Str("path", rec.Path).Str("step", p.Step).Str("rule", p.Rule).Msg(r.formatter.FormatError(p.Err))
	}
	if r.total > 0 {
		logger.Debug().Int("processed", r.processed).Int("total", r.total).Msg(r.formatter.FormatProgress(r.processed, r.total))
	}
}

func (r *Report) StartOperation(ctx context.Context, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.total = total
	r.processed = 0
	zerolog.Ctx(ctx).Debug().Int("total", total).Msg(r.formatter.FormatProgress(0, total))
}

func (r *Report) FinishOperation(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// TrackFile already logged the final progress
	if r.processed < r.total {
		zerolog.Ctx(ctx).Warn().
			Int("processed", r.processed).
			Int("total", r.total).
			Msg("operation finished before every file was tracked")
	}
}

// AddTally appends a batch count
func (r *Report) AddTally(t Tally) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tallies = append(r.tallies, t)
}

// Tallies returns the batch counts in insertion order
func (r *Report) Tallies() []Tally {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Tally(nil), r.tallies...)
}

// Record returns the record for path
func (r *Report) Record(path string) (*FileRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[path]
	return rec, ok
}

// Records returns every record sorted by path
func (r *Report) Records() []*FileRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*FileRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Counts tallies the records by status
func (r *Report) Counts() Counts {
	r.mu.Lock()
	defer r.mu.Unlock()

	var c Counts
	for _, rec := range r.records {
		c.Total++
		c.Warnings += len(rec.Problems)
		switch rec.Status {
		case StatusChanged:
			c.Changed++
		case StatusUnchanged:
			c.Unchanged++
		case StatusMissing:
			c.Missing++
		case StatusFailed:
			c.Failed++
		}
	}
	return c
}

// Paths returns the sorted paths with the given status
func (r *Report) Paths(s FileStatus) []string {
	var out []string
	for _, rec := range r.Records() {
		if rec.Status == s {
			out = append(out, rec.Path)
		}
	}
	return out
}

// Summary is the one-line human readable result
func (r *Report) Summary() string {
	parts := []string{r.Counts().String()}
	for _, t := range r.Tallies() {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, "; ")
}
