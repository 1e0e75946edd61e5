// Package latex normalizes text for inclusion in BibTeX field values.
package latex

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// escaper rewrites the nine characters LaTeX reserves. Tilde and caret need
// the spelled-out commands; a bare backslash form would eat the following
// character.
var escaper = strings.NewReplacer(
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
	"{", `\{`,
	"}", `\}`,
	"~", `\textasciitilde{}`,
	"^", `\textasciicircum{}`,
)

// Escape applies Unicode NFC composition and escapes LaTeX-reserved
// characters. Callers wrap the result in structural braces afterward; the
// braces emitted here only ever come from the input text itself. Empty input
// yields empty output.
func Escape(s string) string {
	if s == "" {
		return ""
	}
	return escaper.Replace(norm.NFC.String(s))
}
