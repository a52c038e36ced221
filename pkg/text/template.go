package text

import (
	"regexp"
	"strings"
)

// bindVars substitutes ${name} references that name a target variable rather
// than a capture group. Substituted values are escaped so a later Expand keeps
// them literal.
func bindVars(tpl string, vars map[string]string, groups []string) string {
	if len(vars) == 0 || !strings.Contains(tpl, "${") {
		return tpl
	}

	captures := make(map[string]bool, len(groups))
	for _, g := range groups {
		if g != "" {
			captures[g] = true
		}
	}

	var b strings.Builder
	for i := 0; i < len(tpl); i++ {
		c := tpl[i]
		if c != '$' || i+1 >= len(tpl) {
			b.WriteByte(c)
			continue
		}
		if tpl[i+1] == '$' {
			b.WriteString("$$")
			i++
			continue
		}
		if tpl[i+1] != '{' {
			b.WriteByte(c)
			continue
		}
		end := strings.IndexByte(tpl[i+2:], '}')
		if end < 0 {
			b.WriteByte(c)
			continue
		}
		name := tpl[i+2 : i+2+end]
		value, ok := vars[name]
		if !ok || captures[name] {
			b.WriteString(tpl[i : i+3+end])
		} else {
			b.WriteString(strings.ReplaceAll(value, "$", "$$"))
		}
		i += 2 + end
	}
	return b.String()
}

// previewTemplate renders tpl the way Expand would with every capture empty.
// The result is the literal text a replacement is guaranteed to contain.
func previewTemplate(re *regexp.Regexp, tpl string) string {
	match := make([]int, 2*(re.NumSubexp()+1))
	for i := range match {
		match[i] = -1
	}
	return string(re.ExpandString(nil, tpl, "", match))
}
