package status

import (
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// 🔀 Diff renders a line diff between the original and transformed content.
// Unchanged lines are kept only as context around changes.
func (r *FileRecord) Diff(around int) string {
	if !r.Changed {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(r.Original, r.Transformed)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	type line struct {
		op   diffmatchpatch.Operation
		text string
	}
	var all []line
	for _, d := range diffs {
		for _, l := range strings.SplitAfter(d.Text, "\n") {
			if l == "" {
				continue
			}
			all = append(all, line{op: d.Type, text: strings.TrimRight(l, "\r\n")})
		}
	}

	keep := make([]bool, len(all))
	for i, l := range all {
		if l.op == diffmatchpatch.DiffEqual {
			continue
		}
		for j := max(0, i-around); j <= min(len(all)-1, i+around); j++ {
			keep[j] = true
		}
	}

	var out strings.Builder
	skipped := false
	for i, l := range all {
		if !keep[i] {
			skipped = true
			continue
		}
		if skipped {
			out.WriteString(color.HiBlackString("  ...") + "\n")
		}
		skipped = false
		switch l.op {
		case diffmatchpatch.DiffInsert:
			out.WriteString(color.GreenString("+ %s", l.text))
		case diffmatchpatch.DiffDelete:
			out.WriteString(color.RedString("- %s", l.text))
		default:
			out.WriteString("  " + l.text)
		}
		out.WriteString("\n")
	}
	return out.String()
}
