package chord

import (
	"regexp"
	"strings"
)

// The shorthand patterns are part of the search contract: a note letter
// with an optional accidental, then any prefix of "sharp" or "flat" down
// to a single letter.
var (
	flatShorthand  = regexp.MustCompile(`(?i)^([A-Ga-g][#b]?)\s*(flat|fla|fl|f)$`)
	sharpShorthand = regexp.MustCompile(`(?i)^([A-Ga-g][#b]?)\s*(sharp|shar|sha|sh|s)$`)
)

// NormalizeQuery collapses sharp/flat shorthand in a free-form search
// query to the canonical accidental form: "c sharp" and "csh" become "C#",
// "B fla" becomes "Bb". Anything else passes through trimmed. Idempotent.
func NormalizeQuery(query string) string {
	q := strings.TrimSpace(query)
	if m := flatShorthand.FindStringSubmatch(q); m != nil {
		return upperNote(m[1]) + "b"
	}
	if m := sharpShorthand.FindStringSubmatch(q); m != nil {
		return upperNote(m[1]) + "#"
	}
	return q
}

// upperNote uppercases the note letter and keeps any accidental as-is.
func upperNote(note string) string {
	if note == "" {
		return note
	}
	return strings.ToUpper(note[:1]) + note[1:]
}
