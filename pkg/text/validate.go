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

	"gitlab.com/tozd/go/errors"
)

// MarkerConflict names a rule whose pattern matches text another rule emits
type MarkerConflict struct {
	Producer string
	Consumer string
}

// 🔍 CheckMarkers verifies the marker-consumption property for every rule pair:
// no rule's pattern may match the literal text of any replacement in the set,
// with captures rendered empty.
func (s *CompiledRuleSet) CheckMarkers() []MarkerConflict {
	var conflicts []MarkerConflict
	for _, producer := range s.rules {
		for _, consumer := range s.rules {
			if producesMatch(producer, consumer) {
				conflicts = append(conflicts, MarkerConflict{
					Producer: producer.Name,
					Consumer: consumer.Name,
				})
			}
		}
	}
	return conflicts
}

func producesMatch(producer, consumer *CompiledRule) bool {
	for _, tpl := range producer.templates() {
		preview := previewTemplate(producer.re, tpl)
		if consumer.Marker != "" && !strings.Contains(preview, consumer.Marker) {
			continue
		}
		if consumer.re.MatchString(preview) {
			return true
		}
	}
	return false
}

// Validate reports every marker conflict as a joined ErrMarkerNotConsumed error
func (s *CompiledRuleSet) Validate() error {
	conflicts := s.CheckMarkers()
	if len(conflicts) == 0 {
		return nil
	}
	errs := make([]error, 0, len(conflicts))
	for _, c := range conflicts {
		errs = append(errs, errors.Errorf("%w: %s: output of %q is matched by %q", ErrMarkerNotConsumed, s.name, c.Producer, c.Consumer))
	}
	return errors.Join(errs...)
}

// 🔁 VerifyIdempotent re-applies the set to an already transformed buffer and
// fails if anything changes
func (s *CompiledRuleSet) VerifyIdempotent(path, transformed string) error {
	again := s.Apply(path, transformed)
	if !again.WasModified {
		return nil
	}
	names := make([]string, 0, len(again.Hits))
	for _, h := range again.Hits {
		names = append(names, h.Rule)
	}
	return errors.Errorf("%w: %s: second pass rewrote %d span(s) via %v", ErrNotIdempotent, s.name, again.ReplacementCount, names)
}
