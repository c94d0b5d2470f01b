// Package slug derives URL-safe identifiers from display names.
package slug

import "strings"

// Make lowercases name and collapses runs of spaces, underscores, and dashes
// into a single dash. No other characters are altered. The output is a pure
// function of the input; idempotent re-runs of the pipeline rely on that.
func Make(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(lower))
	pending := false
	for _, r := range lower {
		switch r {
		case ' ', '_', '-':
			if b.Len() > 0 {
				pending = true
			}
		default:
			if pending {
				b.WriteByte('-')
				pending = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
