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

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrRuleCompile is returned for a rule whose pattern cannot be parsed.
	ErrRuleCompile = errors.Base("rule compile error")
	// ErrAnchorNotFound is returned when an import directive's anchor is absent.
	ErrAnchorNotFound = errors.Base("import anchor not found")
	// ErrMarkerNotConsumed is returned when a rule's pattern matches text produced by a replacement.
	ErrMarkerNotConsumed = errors.Base("marker not consumed")
	// ErrNotIdempotent is returned when a second pass over transformed content changes it again.
	ErrNotIdempotent = errors.Base("rule set is not idempotent")
)

// 🧱 RuleCompileError ties a compile failure to the rule that caused it
type RuleCompileError struct {
	RuleSet string
	Rule    string
	Index   int
	Err     error
}

func (e *RuleCompileError) Error() string {
	return fmt.Sprintf("%s: %s[%d] %s: %v", ErrRuleCompile, e.RuleSet, e.Index, e.Rule, e.Err)
}

func (e *RuleCompileError) Unwrap() []error {
	return []error{ErrRuleCompile, e.Err}
}
