// Package sanitize strips unsafe control characters from submitted text.
package sanitize

import (
	"strings"
	"unicode"
)

// Clean returns text with unsafe code points removed. Newlines are kept
// unconditionally. The ASCII control range (which includes ESC and GS, the
// lead bytes of printer control sequences) and DEL are dropped, then any
// remaining code point in Unicode category C (control, format, surrogate,
// private use) or without an assigned category. Everything else is kept in
// its original order. Clean never fails and is idempotent.
func Clean(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\n' {
			b.WriteRune(r)
			continue
		}
		if r < 0x20 || r == 0x7f {
			continue
		}
		if unicode.Is(unicode.C, r) {
			continue
		}
		// Unassigned code points belong to no category table.
		if !unicode.IsGraphic(r) && !unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
