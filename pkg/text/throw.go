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
	"fmt"
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// DefaultVariables is the accepted error-variable set when none is configured
var DefaultVariables = []string{"e"}

// 🔍 Classifier is an external predicate/constructor pair that recognises one
// error origin and builds the matching structured exception
type Classifier struct {
	Name        string `json:"name" yaml:"name"`
	Predicate   string `json:"predicate" yaml:"predicate"`
	Constructor string `json:"constructor" yaml:"constructor"`
}

// DefaultClassifiers are checked in this order before the fallback throw
var DefaultClassifiers = []Classifier{
	{Name: "transport", Predicate: "NetworkErrorDetector.isNetworkError", Constructor: "NetworkErrorDetector.detectNetworkError"},
	{Name: "backend", Predicate: "SupabaseErrorInterceptor.isSupabaseError", Constructor: "SupabaseErrorInterceptor.handleError"},
}

func (c Classifier) template() string {
	return fmt.Sprintf("${indent}if (%s(${var})) {\n${indent}  throw %s(${var});\n${indent}}\n", c.Predicate, c.Constructor)
}

func (c Classifier) inlineTemplate() string {
	return fmt.Sprintf("%s(${var}) ? %s(${var}) : ", c.Predicate, c.Constructor)
}

// throwHead opens every legacy pattern. lead is whatever code precedes the
// throw on its line; it never starts or contains a line comment.
const throwHead = `^(?P<indent>[ \t]*)(?P<lead>(?:[^ \t\n/*](?:[^/\n]|/[^/\n])*?)?)\bthrow\s+(?:const\s+)?`

// throwTail closes every legacy pattern; end keeps the terminating semicolon
// when there is one
const throwTail = `',?\s*\)(?P<end>;?)`

// 🪦 LegacyThrow describes an outdated string-keyed throw statement
type LegacyThrow struct {
	// Exception is the literal legacy exception name; empty matches any *Exception
	Exception string `json:"exception,omitempty" yaml:"exception,omitempty"`
	// Message is the literal message text
	Message string `json:"message" yaml:"message"`
	// Prefix lets Message match the start of a longer message
	Prefix bool `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	// Interpolated messages end with ": $var" for one of Variables
	Interpolated bool     `json:"interpolated,omitempty" yaml:"interpolated,omitempty"`
	Variables    []string `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// Pattern builds the match pattern.
// Captures: indent, lead, end, and var when interpolated.
func (l LegacyThrow) Pattern() (string, error) {
	if l.Message == "" {
		return "", errors.Errorf("legacy message is required")
	}

	exception := `\w+Exception`
	if l.Exception != "" {
		exception = regexp.QuoteMeta(l.Exception)
	}

	msg := regexp.QuoteMeta(l.Message)
	if l.Prefix {
		msg += `[^'\n]*`
	}
	if l.Interpolated {
		vars, err := variableAlternation(l.Variables)
		if err != nil {
			return "", err
		}
		msg += `: \$\{?(?P<var>` + vars + `)\}?`
	}

	return throwHead + exception + `\(\s*'` + msg + throwTail, nil
}

// 🏗️ ThrowSite describes the structured throw that replaces a legacy one
type ThrowSite struct {
	Kind             string `json:"kind" yaml:"kind"`
	Code             string `json:"code" yaml:"code"`
	TechnicalMessage string `json:"technical_message" yaml:"technical_message"`
	// OriginalError appends ": $var" to the message and passes var as originalError
	OriginalError bool         `json:"original_error,omitempty" yaml:"original_error,omitempty"`
	Classifiers   []Classifier `json:"classifiers,omitempty" yaml:"classifiers,omitempty"`
}

// NeedsVar reports whether the template references the captured error variable
func (s ThrowSite) NeedsVar() bool {
	return s.OriginalError || len(s.Classifiers) > 0
}

// Template renders the replacement template. Every line is prefixed by the
// captured indent; classifier branches come first, in declared order.
func (s ThrowSite) Template() (string, error) {
	if err := s.validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, c := range s.Classifiers {
		b.WriteString(c.template())
	}
	b.WriteString("${indent}${lead}throw ")
	s.writeConstructor(&b)

	return b.String(), nil
}

// InlineTemplate renders the form used when the throw follows other code on
// its line. Classifiers become a chain of conditional expressions ahead of
// the fallback constructor. Without classifiers it is empty, since Template
// already carries the lead.
func (s ThrowSite) InlineTemplate() (string, error) {
	if len(s.Classifiers) == 0 {
		return "", nil
	}
	if err := s.validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("${indent}${lead}throw ")
	for _, c := range s.Classifiers {
		b.WriteString(c.inlineTemplate())
	}
	s.writeConstructor(&b)

	return b.String(), nil
}

func (s ThrowSite) validate() error {
	if s.Kind == "" {
		return errors.Errorf("structured kind is required")
	}
	if s.Code == "" {
		return errors.Errorf("structured code is required")
	}
	for _, c := range s.Classifiers {
		if c.Predicate == "" || c.Constructor == "" {
			return errors.Errorf("classifier %q: predicate and constructor are required", c.Name)
		}
	}
	return nil
}

func (s ThrowSite) writeConstructor(b *strings.Builder) {
	msg := s.TechnicalMessage
	if msg == "" {
		msg = s.Code
	}
	if s.OriginalError {
		msg += ": $$${var}"
	}

	fmt.Fprintf(b, "%s(\n", s.Kind)
	fmt.Fprintf(b, "${indent}  '%s',\n", escapeQuote(s.Code))
	fmt.Fprintf(b, "${indent}  technicalMessage: '%s',\n", escapeQuote(msg))
	if s.OriginalError {
		b.WriteString("${indent}  originalError: ${var},\n")
	}
	b.WriteString("${indent})${end}")
}

// 🔧 BuildRule turns a legacy/structured pair into a PatternRule
func BuildRule(name string, legacy LegacyThrow, site ThrowSite) (PatternRule, error) {
	pattern, err := legacy.Pattern()
	if err != nil {
		return PatternRule{}, errors.Errorf("rule %q: %w", name, err)
	}
	if site.NeedsVar() && !legacy.Interpolated {
		return PatternRule{}, errors.Errorf("rule %q: classifiers and original_error need an interpolated legacy message", name)
	}
	tpl, err := site.Template()
	if err != nil {
		return PatternRule{}, errors.Errorf("rule %q: %w", name, err)
	}
	inline, err := site.InlineTemplate()
	if err != nil {
		return PatternRule{}, errors.Errorf("rule %q: %w", name, err)
	}

	return PatternRule{
		Name:              name,
		Match:             pattern,
		Replacement:       tpl,
		InlineReplacement: inline,
		Marker:            legacy.Message,
	}, nil
}

func variableAlternation(vars []string) (string, error) {
	if len(vars) == 0 {
		vars = DefaultVariables
	}
	quoted := make([]string, 0, len(vars))
	for _, v := range vars {
		if !isIdentifier(v) {
			return "", errors.Errorf("invalid error variable name %q", v)
		}
		quoted = append(quoted, regexp.QuoteMeta(v))
	}
	return strings.Join(quoted, "|"), nil
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func isIdentifier(s string) bool {
	return identifierRe.MatchString(s)
}

func escapeQuote(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}
