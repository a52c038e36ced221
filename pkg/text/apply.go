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
	"strings"
)

// RuleHit records how many spans a single rule rewrote
type RuleHit struct {
	Rule  string
	Count int
}

// ReplacementResult contains the results of applying a rule set to one buffer
type ReplacementResult struct {
	// WasModified indicates if any replacements were made
	WasModified bool

	// ReplacementCount is the number of spans rewritten across all rules
	ReplacementCount int

	// Hits lists the rules that fired, in application order
	Hits []RuleHit

	OriginalContent string
	ModifiedContent string
}

// 🏃 Apply runs every in-scope rule once, in order, over the evolving content.
//
// Each rule sees the output of the rules before it, so a span rewritten by an
// earlier rule no longer carries the marker a later rule looks for.
func (s *CompiledRuleSet) Apply(path, content string) *ReplacementResult {
	result := &ReplacementResult{
		OriginalContent: content,
		ModifiedContent: content,
	}

	current := content
	for _, rule := range s.rules {
		if !rule.InScope(path) {
			continue
		}
		next, n := ApplyRule(current, rule)
		if n == 0 {
			continue
		}
		result.Hits = append(result.Hits, RuleHit{Rule: rule.Name, Count: n})
		result.ReplacementCount += n
		current = next
	}

	result.ModifiedContent = current
	result.WasModified = current != content
	return result
}

// ApplyRule replaces every non-overlapping match of rule in content.
// With zero matches the input string is returned as is.
func ApplyRule(content string, rule *CompiledRule) (string, int) {
	if rule.Marker != "" && !strings.Contains(content, rule.Marker) {
		return content, 0
	}

	matches := rule.re.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content, 0
	}

	var b strings.Builder
	b.Grow(len(content))
	last := 0
	count := 0
	for _, m := range matches {
		if rule.Marker != "" && !strings.Contains(content[m[0]:m[1]], rule.Marker) {
			continue
		}
		b.WriteString(content[last:m[0]])
		b.Write(rule.re.ExpandString(nil, rule.templateFor(m), content, m))
		last = m[1]
		count++
	}
	if count == 0 {
		return content, 0
	}
	b.WriteString(content[last:])

	return b.String(), count
}
