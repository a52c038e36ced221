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

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/rethrow/pkg/text"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// DefaultConcurrency is the number of files migrated in parallel when unset
const DefaultConcurrency = 4

// 📚 Config represents the complete migration configuration
type Config struct {
	Root        string `json:"root,omitempty" yaml:"root,omitempty"`
	Concurrency int    `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
	// VerifyIdempotent defaults to true
	VerifyIdempotent *bool `json:"verify_idempotent,omitempty" yaml:"verify_idempotent,omitempty"`
	// Variables is the default accepted error-variable set
	Variables   []string               `json:"variables,omitempty" yaml:"variables,omitempty"`
	Classifiers []text.Classifier      `json:"classifiers,omitempty" yaml:"classifiers,omitempty"`
	Imports     []text.ImportDirective `json:"imports,omitempty" yaml:"imports,omitempty"`
	RuleSets    []RuleSetConfig        `json:"rule_sets" yaml:"rule_sets"`
	Targets     []Target               `json:"targets" yaml:"targets"`

	location string
}

// 📦 RuleSetConfig is an ordered, named list of rules
type RuleSetConfig struct {
	Name  string       `json:"name" yaml:"name"`
	Rules []RuleConfig `json:"rules" yaml:"rules"`
}

// 🔧 RuleConfig is one rule: raw match/replacement, a legacy/emit pair, or a wildcard
type RuleConfig struct {
	Name        string `json:"name" yaml:"name"`
	Match       string `json:"match,omitempty" yaml:"match,omitempty"`
	Replacement string `json:"replacement,omitempty" yaml:"replacement,omitempty"`
	// InlineReplacement is used for matches with a non-empty lead capture
	InlineReplacement string `json:"inline_replacement,omitempty" yaml:"inline_replacement,omitempty"`
	Scope             string `json:"scope,omitempty" yaml:"scope,omitempty"`
	Marker            string `json:"marker,omitempty" yaml:"marker,omitempty"`
	DotAll            bool   `json:"dot_all,omitempty" yaml:"dot_all,omitempty"`

	Legacy   *text.LegacyThrow  `json:"legacy,omitempty" yaml:"legacy,omitempty"`
	Emit     *text.ThrowSite    `json:"emit,omitempty" yaml:"emit,omitempty"`
	Wildcard *text.WildcardRule `json:"wildcard,omitempty" yaml:"wildcard,omitempty"`

	// Classify prepends the config-level classifiers when the rule declares none
	Classify bool `json:"classify,omitempty" yaml:"classify,omitempty"`
}

// 🎯 Target names the files a rule set is applied to
type Target struct {
	// Path is a single file; Glob a doublestar pattern relative to Root
	Path    string            `json:"path,omitempty" yaml:"path,omitempty"`
	Glob    string            `json:"glob,omitempty" yaml:"glob,omitempty"`
	RuleSet string            `json:"rule_set" yaml:"rule_set"`
	Imports string            `json:"imports,omitempty" yaml:"imports,omitempty"`
	Vars    map[string]string `json:"vars,omitempty" yaml:"vars,omitempty"`
}

func (t Target) String() string {
	if t.Glob != "" {
		return t.Glob
	}
	return t.Path
}

// 🔍 Validate checks references and fills defaults
func (cfg *Config) Validate() error {
	if cfg.Concurrency < 0 {
		return errors.Errorf("concurrency must not be negative")
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.VerifyIdempotent == nil {
		v := true
		cfg.VerifyIdempotent = &v
	}
	if cfg.Root != "" {
		cfg.Root = filepath.Clean(cfg.Root)
	}

	imports := make(map[string]bool, len(cfg.Imports))
	for i, imp := range cfg.Imports {
		if imp.Name == "" {
			return errors.Errorf("imports[%d]: name is required", i)
		}
		if imports[imp.Name] {
			return errors.Errorf("imports[%d]: duplicate name %q", i, imp.Name)
		}
		if err := imp.Validate(); err != nil {
			return err
		}
		imports[imp.Name] = true
	}

	sets := make(map[string]bool, len(cfg.RuleSets))
	for i, rs := range cfg.RuleSets {
		if rs.Name == "" {
			return errors.Errorf("rule_sets[%d]: name is required", i)
		}
		if sets[rs.Name] {
			return errors.Errorf("rule_sets[%d]: duplicate name %q", i, rs.Name)
		}
		for j, r := range rs.Rules {
			if err := r.validate(); err != nil {
				return errors.Errorf("rule_sets[%s].rules[%d]: %w", rs.Name, j, err)
			}
		}
		sets[rs.Name] = true
	}

	if len(cfg.Targets) == 0 {
		return errors.Errorf("at least one target is required")
	}
	for i, t := range cfg.Targets {
		if (t.Path == "") == (t.Glob == "") {
			return errors.Errorf("targets[%d]: exactly one of path or glob is required", i)
		}
		if t.Glob != "" && !doublestar.ValidatePattern(t.Glob) {
			return errors.Errorf("targets[%d]: invalid glob %q", i, t.Glob)
		}
		if !sets[t.RuleSet] {
			return errors.Errorf("targets[%d]: unknown rule_set %q", i, t.RuleSet)
		}
		if t.Imports != "" && !imports[t.Imports] {
			return errors.Errorf("targets[%d]: unknown imports %q", i, t.Imports)
		}
	}

	return nil
}

func (r RuleConfig) validate() error {
	kinds := 0
	if r.Match != "" {
		kinds++
	}
	if r.Legacy != nil || r.Emit != nil {
		if r.Legacy == nil || r.Emit == nil {
			return errors.Errorf("rule %q: legacy and emit must be set together", r.Name)
		}
		kinds++
	}
	if r.Wildcard != nil {
		kinds++
	}
	if kinds != 1 {
		return errors.Errorf("rule %q: exactly one of match, legacy/emit or wildcard is required", r.Name)
	}
	return nil
}

// ShouldVerify reports whether the idempotency pass is on
func (cfg *Config) ShouldVerify() bool {
	return cfg.VerifyIdempotent == nil || *cfg.VerifyIdempotent
}

// Location is the file the config was loaded from, if any
func (cfg *Config) Location() string {
	return cfg.location
}

// Import returns the named import directive
func (cfg *Config) Import(name string) (text.ImportDirective, bool) {
	for _, imp := range cfg.Imports {
		if imp.Name == name {
			return imp, true
		}
	}
	return text.ImportDirective{}, false
}

// 📝 String returns a short description of the config
func (cfg *Config) String() string {
	src := cfg.location
	if src == "" {
		src = "<inline>"
	}
	return fmt.Sprintf("%s: %d rule set(s), %d target(s)", src, len(cfg.RuleSets), len(cfg.Targets))
}

// 🔤 ServiceName turns a file base name like projects_service.dart into ProjectsService
func ServiceName(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var b strings.Builder
	for _, part := range strings.FieldsFunc(base, func(r rune) bool { return r == '_' || r == '-' || r == '.' }) {
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// 🏷️ TargetVars returns the template vars for one resolved file of a target.
// Explicit vars win over the derived file and service names.
func TargetVars(t Target, path string) map[string]string {
	vars := map[string]string{
		"file":    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		"service": ServiceName(path),
	}
	for k, v := range t.Vars {
		vars[k] = v
	}
	return vars
}
