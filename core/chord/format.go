package chord

import (
	"regexp"
	"strings"
)

// Display normalization collapses a spelled-out "minor" to the "m" suffix.
// Two spellings occur in the wild: glued to the note ("Cminor") and
// space-separated ("C Minor"). Both are case-insensitive.
var (
	gluedMinor  = regexp.MustCompile(`(?i)([A-Ga-g][#b]?)minor`)
	spacedMinor = regexp.MustCompile(`(?i)\s+minor(\s|$)`)
)

// FormatName normalizes the display form of a chord name ("C Minor" ->
// "Cm"). A ":position" tail, if present, is preserved unchanged.
// Idempotent.
func FormatName(name string) string {
	head, tail, hasTail := strings.Cut(name, ":")
	head = gluedMinor.ReplaceAllString(head, "${1}m")
	head = spacedMinor.ReplaceAllString(head, "m${1}")
	if hasTail {
		return head + ":" + tail
	}
	return head
}
