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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/walteh/rethrow/pkg/status"
)

// 🎯 RunInfo describes a run for the console header
type RunInfo struct {
	Operation string // migrate or check
	Root      string // directory the targets are resolved in
	Config    string // where the rules came from
	Targets   int    // number of configured targets
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	current *RunInfo
	records int
}

// 🏭 New creates a console logger backed by an existing structured logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{zlog: zlog, console: console}
}

// 📝 LogFileRecord prints one finished file
func (l *Logger) LogFileRecord(ctx context.Context, rec *status.FileRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records++
	fmt.Fprintln(l.console, status.FormatFileLine(rec))
	for _, p := range rec.Problems {
		fmt.Fprintf(l.console, "%*s%s %s\n", 6, "", color.New(color.FgYellow).Sprint("↳"), p.String())
	}

	l.zlog.Debug().
		Str("file", rec.Path).
		Str("rule_set", rec.RuleSet).
		Str("status", rec.Status.String()).
		Bool("written", rec.Written).
		Int("replacements", rec.Replacements).
		Msg("file record")
}

// 📝 StartRun prints the run header
func (l *Logger) StartRun(ctx context.Context, info RunInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current = &info
	l.records = 0

	fmt.Fprintf(l.console, "[%s %s]\n",
		info.Operation,
		color.New(color.FgCyan).Sprint(info.Root))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(info.Config),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprintf("%d targets", info.Targets))

	l.zlog.Info().
		Str("operation", info.Operation).
		Str("root", info.Root).
		Str("config", info.Config).
		Int("targets", info.Targets).
		Msg("starting run")
}

// 📝 EndRun closes the current run
func (l *Logger) EndRun(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return
	}

	l.zlog.Info().
		Str("operation", l.current.Operation).
		Int("files", l.records).
		Msg("run complete")

	l.current = nil
	l.records = 0
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("rethrow")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}

// 🔀 LogDiff prints the pending or applied change of one file
func (l *Logger) LogDiff(rec *status.FileRecord, around int) {
	diff := rec.Diff(around)
	if diff == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "%s %s\n", color.New(color.Bold).Sprint("---"), rec.Path)
	fmt.Fprint(l.console, diff)
}
