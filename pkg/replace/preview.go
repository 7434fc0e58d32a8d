// Package replace computes replacement text for matches and applies
// approved replacements to documents in an offset-safe batched pass.
package replace

import (
	"github.com/walteh/notegrep/pkg/pattern"
	"github.com/walteh/notegrep/pkg/scan"
)

// Preview computes the text a match would be replaced with, without
// touching any document. Pure and idempotent.
//
// In regex mode the compiled pattern is re-run against just the matched
// text and template backreferences ($1, $2, ...) are expanded from its
// capture groups; anything that keeps the pattern from matching its own
// text returns the matched text unchanged. In literal mode the template is
// the replacement, verbatim.
func Preview(m scan.Match, template string, matcher *pattern.Matcher) string {
	if !matcher.IsRegex() {
		return template
	}

	re := matcher.Regexp()
	idx := re.FindStringSubmatchIndex(m.Text)
	if idx == nil {
		return m.Text
	}

	expanded := re.ExpandString(nil, template, m.Text, idx)
	return m.Text[:idx[0]] + string(expanded) + m.Text[idx[1]:]
}
