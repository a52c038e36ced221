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

package status

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent   = 4  // spaces to indent file entries
	nameWidth    = 45 // Base width for filename
	ruleSetWidth = 15 // Width for rule set name
	statusWidth  = 12 // Width for status text
)

// 🎯 FormatFileLine formats a record as an aligned, coloured console line
func FormatFileLine(rec *FileRecord) string {
	var prefix string
	switch rec.Status {
	case StatusChanged:
		prefix = color.YellowString("⟳")
	case StatusMissing:
		prefix = color.MagentaString("?")
	case StatusFailed:
		prefix = color.RedString("✗")
	default:
		prefix = color.HiBlackString("-")
	}

	status := rec.Status.String()
	if rec.Status == StatusChanged && !rec.Written {
		status = "pending"
	}

	detail := ""
	if rec.Replacements > 0 {
		detail = fmt.Sprintf("%d replaced", rec.Replacements)
	}
	if n := len(rec.Inserted); n > 0 {
		if detail != "" {
			detail += ", "
		}
		detail += fmt.Sprintf("%d imports", n)
	}
	if n := len(rec.Problems); n > 0 {
		if detail != "" {
			detail += ", "
		}
		detail += color.YellowString("%d warnings", n)
	}

	return strings.TrimRight(fmt.Sprintf("%s%s %s %s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		fmt.Sprintf("%-*s", nameWidth, rec.Path),
		fmt.Sprintf("%-*s", ruleSetWidth, rec.RuleSet),
		fmt.Sprintf("%-*s", statusWidth, status),
		detail,
	), " ")
}
