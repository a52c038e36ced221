package log

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/walteh/rethrow/pkg/operation"
	"github.com/walteh/rethrow/pkg/smoke"
	"github.com/walteh/rethrow/pkg/status"
)

// 📊 Summary prints the per-status table and the one-line result
func (l *Logger) Summary(report *status.Report) error {
	c := report.Counts()
	data := pterm.TableData{
		{"status", "files"},
		{"changed", strconv.Itoa(c.Changed)},
		{"unchanged", strconv.Itoa(c.Unchanged)},
		{"missing", strconv.Itoa(c.Missing)},
		{"failed", strconv.Itoa(c.Failed)},
		{"total", strconv.Itoa(c.Total)},
	}
	if err := l.table(data); err != nil {
		return err
	}

	msg := report.Summary()
	switch {
	case c.Missing > 0 || c.Failed > 0:
		l.Validation(false, msg, nil)
	default:
		l.Validation(true, msg, nil)
	}
	return nil
}

// 📋 RuleChecks prints one row per rule set
func (l *Logger) RuleChecks(checks []operation.RuleSetCheck) error {
	data := pterm.TableData{{"rule set", "rules", "compiled", "conflicts", "ok"}}
	for _, c := range checks {
		data = append(data, []string{
			c.Name,
			strconv.Itoa(c.Rules),
			strconv.Itoa(c.Compiled),
			strconv.Itoa(len(c.Conflicts)),
			mark(c.OK()),
		})
	}
	if err := l.table(data); err != nil {
		return err
	}

	for _, c := range checks {
		for _, ce := range c.CompileErrors {
			l.Validation(false, fmt.Sprintf("%s: rule %q does not compile", c.Name, ce.Rule), ce.Err)
		}
		for _, conflict := range c.Conflicts {
			l.Validation(false, fmt.Sprintf("%s: output of %q is matched by %q", c.Name, conflict.Producer, conflict.Consumer), nil)
		}
	}
	return nil
}

// 🔐 SmokeResults prints one row per user plus the tallies
func (l *Logger) SmokeResults(report *smoke.Report) error {
	data := pterm.TableData{{"email", "role", "created", "login", "user id"}}
	for _, r := range report.Results {
		id := ""
		if r.Session != nil {
			id = r.Session.User.ID
		}
		login := "-"
		if r.Created() {
			login = mark(r.LoggedIn())
		}
		data = append(data, []string{r.User.Email, r.User.Data["role"], mark(r.Created()), login, id})
	}
	if err := l.table(data); err != nil {
		return err
	}

	l.Validation(report.OK(), strings.Join([]string{report.Created().String(), report.LoggedIn().String()}, ", "), nil)
	return nil
}

// 🔍 Validation prints a pass/fail line with pterm prefixes
func (l *Logger) Validation(valid bool, description string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case valid:
		fmt.Fprint(l.console, pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Sprintln(description))
		l.zlog.Info().Msg(description)
	case err != nil:
		fmt.Fprint(l.console, pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Sprintln(description))
		fmt.Fprint(l.console, pterm.Error.Sprintln(err))
		l.zlog.Error().Err(err).Msg(description)
	default:
		fmt.Fprint(l.console, pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Sprintln(description))
		l.zlog.Warn().Msg(description)
	}
}

func (l *Logger) table(data pterm.TableData) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, out)
	return nil
}

func mark(ok bool) string {
	if ok {
		return "yes"
	}
	return "no"
}
