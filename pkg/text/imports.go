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
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 📥 ImportDirective lists the import lines a file needs and where to put them
type ImportDirective struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Required import lines, inserted in this order
	Required []string `json:"required" yaml:"required"`
	// Anchor is an exact line (ignoring surrounding whitespace) to insert after
	Anchor string `json:"anchor,omitempty" yaml:"anchor,omitempty"`
	// AnchorPattern is tried when Anchor is empty or absent; the first line it matches is used
	AnchorPattern string `json:"anchor_pattern,omitempty" yaml:"anchor_pattern,omitempty"`
}

// ImportResult describes what Ensure did
type ImportResult struct {
	Content  string
	Inserted []string
	// AnchorLine is the zero-based line index the block was inserted after, or -1
	AnchorLine int
}

// Validate checks the directive can be applied
func (d ImportDirective) Validate() error {
	if len(d.Required) == 0 {
		return errors.Errorf("import directive %q: at least one required import is needed", d.Name)
	}
	if d.Anchor == "" && d.AnchorPattern == "" {
		return errors.Errorf("import directive %q: anchor or anchor_pattern is required", d.Name)
	}
	if d.AnchorPattern != "" {
		if _, err := regexp.Compile(d.AnchorPattern); err != nil {
			return errors.Errorf("import directive %q: parsing anchor_pattern: %w", d.Name, err)
		}
	}
	return nil
}

// 🧩 Ensure inserts every missing required line right after the anchor line.
//
// Lines already present anywhere in the file are left alone, so running Ensure
// on its own output is a no-op. A missing anchor returns ErrAnchorNotFound
// with the content untouched.
func (d ImportDirective) Ensure(content string) (*ImportResult, error) {
	result := &ImportResult{Content: content, AnchorLine: -1}

	newline := "\n"
	if strings.Contains(content, "\r\n") {
		newline = "\r\n"
	}
	lines := strings.Split(content, "\n")

	present := make(map[string]bool, len(lines))
	for _, line := range lines {
		present[strings.TrimSpace(line)] = true
	}

	var missing []string
	for _, req := range d.Required {
		req = strings.TrimSpace(req)
		if req == "" || present[req] {
			continue
		}
		missing = append(missing, req)
		present[req] = true
	}
	if len(missing) == 0 {
		return result, nil
	}

	anchor, err := d.findAnchor(lines)
	if err != nil {
		return result, err
	}

	block := make([]string, 0, len(missing))
	for _, m := range missing {
		if newline == "\r\n" {
			m += "\r"
		}
		block = append(block, m)
	}

	// the anchor line keeps its own \r (if any); inserted lines get one to match
	out := make([]string, 0, len(lines)+len(block))
	out = append(out, lines[:anchor+1]...)
	out = append(out, block...)
	out = append(out, lines[anchor+1:]...)

	result.Content = strings.Join(out, "\n")
	result.Inserted = missing
	result.AnchorLine = anchor
	return result, nil
}

func (d ImportDirective) findAnchor(lines []string) (int, error) {
	if d.Anchor != "" {
		want := strings.TrimSpace(d.Anchor)
		for i, line := range lines {
			if strings.TrimSpace(line) == want {
				return i, nil
			}
		}
	}

	if d.AnchorPattern != "" {
		re, err := regexp.Compile(d.AnchorPattern)
		if err != nil {
			return -1, errors.Errorf("parsing anchor_pattern: %w", err)
		}
		for i, line := range lines {
			if re.MatchString(strings.TrimRight(line, "\r")) {
				return i, nil
			}
		}
	}

	return -1, errors.Errorf("%w: %q", ErrAnchorNotFound, d.describeAnchor())
}

func (d ImportDirective) describeAnchor() string {
	switch {
	case d.Anchor != "" && d.AnchorPattern != "":
		return d.Anchor + " | /" + d.AnchorPattern + "/"
	case d.Anchor != "":
		return d.Anchor
	default:
		return "/" + d.AnchorPattern + "/"
	}
}
