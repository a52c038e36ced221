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
	"regexp"

	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultExceptionPattern matches any legacy exception type name
	DefaultExceptionPattern = `\w+Exception`
	// DefaultActionPrefix is the phrase that opens every generic legacy message
	DefaultActionPrefix = "Error al"
	// DefaultWildcardMessage is the technical message used when none is configured
	DefaultWildcardMessage = "${action} failed in ${type}"
)

// 🃏 WildcardRule is the generic catch-all: any legacy exception type, any
// action phrase, followed by an interpolated error variable.
//
//	throw FooException('Error al bar: $e');
//
// captures type=FooException, action=bar, var=e. Only names listed in
// Variables are accepted as the error variable.
type WildcardRule struct {
	Name string `json:"name" yaml:"name"`
	// Exception is a pattern (not a literal) for the legacy type name
	Exception    string   `json:"exception,omitempty" yaml:"exception,omitempty"`
	ActionPrefix string   `json:"action_prefix,omitempty" yaml:"action_prefix,omitempty"`
	Variables    []string `json:"variables,omitempty" yaml:"variables,omitempty"`
	// Site is the structured throw to emit; its technical message may use
	// ${type} and ${action}. OriginalError is always on.
	Site ThrowSite `json:"site" yaml:"site"`
}

// Pattern builds the wildcard match pattern.
// Captures: indent, lead, type, action, var, end.
func (w WildcardRule) Pattern() (string, error) {
	exception := w.Exception
	if exception == "" {
		exception = DefaultExceptionPattern
	}
	if _, err := regexp.Compile(exception); err != nil {
		return "", errors.Errorf("parsing exception pattern: %w", err)
	}

	prefix := w.ActionPrefix
	if prefix == "" {
		prefix = DefaultActionPrefix
	}

	vars, err := variableAlternation(w.Variables)
	if err != nil {
		return "", err
	}

	// the action stops at the first colon, so "Error al a: b: $e" is not matched
	return throwHead + `(?P<type>` + exception + `)\(\s*'` +
		regexp.QuoteMeta(prefix) + ` (?P<action>[^:'\n]+): \$\{?(?P<var>` + vars + `)\}?` + throwTail, nil
}

// Rule renders the wildcard as a PatternRule
func (w WildcardRule) Rule() (PatternRule, error) {
	name := w.Name
	if name == "" {
		name = "wildcard"
	}

	pattern, err := w.Pattern()
	if err != nil {
		return PatternRule{}, errors.Errorf("rule %q: %w", name, err)
	}

	site := w.Site
	site.OriginalError = true
	if site.TechnicalMessage == "" {
		site.TechnicalMessage = DefaultWildcardMessage
	}
	tpl, err := site.Template()
	if err != nil {
		return PatternRule{}, errors.Errorf("rule %q: %w", name, err)
	}
	inline, err := site.InlineTemplate()
	if err != nil {
		return PatternRule{}, errors.Errorf("rule %q: %w", name, err)
	}

	prefix := w.ActionPrefix
	if prefix == "" {
		prefix = DefaultActionPrefix
	}

	return PatternRule{
		Name:              name,
		Match:             pattern,
		Replacement:       tpl,
		InlineReplacement: inline,
		Marker:            "'" + prefix + " ",
	}, nil
}
