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

package text

import (
	"path/filepath"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 📐 PatternRule pairs a match pattern with a replacement template
//
// Match is an RE2 pattern compiled in multi-line mode (^ and $ match at line
// boundaries). Whitespace classes such as \s already cross lines; DotAll
// additionally lets '.' match a newline.
//
// Replacement follows regexp.Expand: $1 or ${name} reference captures and $$
// is a literal dollar sign.
type PatternRule struct {
	Name        string `json:"name" yaml:"name"`
	Match       string `json:"match" yaml:"match"`
	Replacement string `json:"replacement" yaml:"replacement"`
	// InlineReplacement, when set, is used instead of Replacement for matches
	// whose lead capture is non-empty, i.e. a throw that is not the first
	// token on its line
	InlineReplacement string `json:"inline_replacement,omitempty" yaml:"inline_replacement,omitempty"`
	// Scope is an optional doublestar glob restricting the rule to matching paths
	Scope string `json:"scope,omitempty" yaml:"scope,omitempty"`
	// Marker is an optional literal fragment every match must contain; content
	// without it is skipped without running the pattern
	Marker string `json:"marker,omitempty" yaml:"marker,omitempty"`
	DotAll bool   `json:"dot_all,omitempty" yaml:"dot_all,omitempty"`
}

// 📚 RuleSet is an ordered sequence of rules, most specific first
type RuleSet struct {
	Name  string
	Rules []PatternRule
}

// CompiledRule is a PatternRule with its pattern parsed and target variables bound
type CompiledRule struct {
	PatternRule
	re       *regexp.Regexp
	template string
	inline   string
	lead     int
}

// CompiledRuleSet is the immutable, ready-to-apply form of a RuleSet
type CompiledRuleSet struct {
	name  string
	rules []*CompiledRule
}

// 🏗️ Compile parses every rule in the set, binding vars into the replacement templates.
//
// A rule that fails to parse is reported in the returned slice and left out of
// the compiled set; all other rules still apply.
func Compile(set RuleSet, vars map[string]string) (*CompiledRuleSet, []*RuleCompileError) {
	out := &CompiledRuleSet{name: set.Name}
	var errs []*RuleCompileError

	for i, rule := range set.Rules {
		compiled, err := CompileRule(rule, vars)
		if err != nil {
			errs = append(errs, &RuleCompileError{
				RuleSet: set.Name,
				Rule:    rule.Name,
				Index:   i,
				Err:     err,
			})
			continue
		}
		out.rules = append(out.rules, compiled)
	}

	return out, errs
}

// CompileRule parses a single rule
func CompileRule(rule PatternRule, vars map[string]string) (*CompiledRule, error) {
	if rule.Match == "" {
		return nil, errors.Errorf("match is required")
	}
	if rule.Scope != "" && !doublestar.ValidatePattern(rule.Scope) {
		return nil, errors.Errorf("invalid scope glob %q", rule.Scope)
	}

	flags := "(?m)"
	if rule.DotAll {
		flags = "(?ms)"
	}
	re, err := regexp.Compile(flags + rule.Match)
	if err != nil {
		return nil, errors.Errorf("parsing pattern: %w", err)
	}

	lead := re.SubexpIndex("lead")
	if rule.InlineReplacement != "" && lead < 0 {
		return nil, errors.Errorf("inline replacement needs a (?P<lead>...) capture")
	}

	return &CompiledRule{
		PatternRule: rule,
		re:          re,
		template:    bindVars(rule.Replacement, vars, re.SubexpNames()),
		inline:      bindVars(rule.InlineReplacement, vars, re.SubexpNames()),
		lead:        lead,
	}, nil
}

// Name returns the rule set name
func (s *CompiledRuleSet) Name() string {
	return s.name
}

// Rules returns the compiled rules in application order
func (s *CompiledRuleSet) Rules() []*CompiledRule {
	return s.rules
}

// Len returns the number of rules that compiled
func (s *CompiledRuleSet) Len() int {
	return len(s.rules)
}

// Regexp returns the compiled pattern
func (r *CompiledRule) Regexp() *regexp.Regexp {
	return r.re
}

// Template returns the replacement template after variable binding
func (r *CompiledRule) Template() string {
	return r.template
}

// templates returns every template the rule can emit
func (r *CompiledRule) templates() []string {
	if r.inline == "" {
		return []string{r.template}
	}
	return []string{r.template, r.inline}
}

// templateFor picks the inline template when the match has a non-empty lead
func (r *CompiledRule) templateFor(m []int) string {
	if r.inline != "" && r.lead > 0 && m[2*r.lead+1] > m[2*r.lead] {
		return r.inline
	}
	return r.template
}

// InScope reports whether the rule applies to the given path
func (r *CompiledRule) InScope(path string) bool {
	if r.Scope == "" || path == "" {
		return true
	}
	ok, err := doublestar.Match(r.Scope, filepath.ToSlash(path))
	return err == nil && ok
}
