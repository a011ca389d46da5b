package chord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ParsedName is the structured form of a chord display name.
type ParsedName struct {
	// Root is the note with its accidental (e.g., "C", "Bb", "F#").
	Root string `json:"root"`

	// Suffix is the quality suffix (e.g., "m", "7", "m7b5"); empty for a
	// plain major chord.
	Suffix string `json:"suffix,omitempty"`

	// Position is the 1-based variation index; 1 when no ":position" tail
	// was given.
	Position int `json:"position"`
}

// nameGrammar is the participle grammar for the head of a chord name.
// Examples: "C", "C#", "Bb", "Am", "C#m7", "Gsus4"
//
//nolint:govet // participle grammar tags are not standard struct tags
type nameGrammar struct {
	Note       string  `parser:"@Note"`
	Accidental *string `parser:"@Accidental?"`
	Suffix     *string `parser:"@Suffix?"`
}

// nameLexer tokenizes chord names. Note is uppercase only so that the 'd'
// in "Bdim" reads as the start of a suffix, and Accidental is tried before
// Suffix so that the 'b' in "Bb" reads as a flat.
var nameLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Note", Pattern: `[A-G]`},
	{Name: "Accidental", Pattern: `[#b]`},
	{Name: "Suffix", Pattern: `[A-Za-z0-9][A-Za-z0-9#b+/()°\-]*`},
})

// nameParser is the participle parser for chord-name heads.
var nameParser = participle.MustBuild[nameGrammar](
	participle.Lexer(nameLexer),
)

// ParseName parses a chord display name, with an optional ":position"
// tail, into its structured form.
// Supported formats:
//   - "C" (major, position 1)
//   - "C#m7" (root and suffix)
//   - "Am:2" (explicit variation)
func ParseName(s string) (*ParsedName, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty chord name")
	}

	head, tail, hasTail := strings.Cut(s, ":")
	position := 1
	if hasTail {
		n, err := strconv.Atoi(tail)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid chord position %q in %q", tail, s)
		}
		position = n
	}

	parsed, err := nameParser.ParseString("", head)
	if err != nil {
		return nil, fmt.Errorf("invalid chord name %q: %w", s, err)
	}

	name := &ParsedName{
		Root:     strings.ToUpper(parsed.Note),
		Position: position,
	}
	if parsed.Accidental != nil {
		name.Root += *parsed.Accidental
	}
	if parsed.Suffix != nil {
		name.Suffix = *parsed.Suffix
	}
	return name, nil
}

// String renders the parsed name back to display form.
func (n *ParsedName) String() string {
	var sb strings.Builder
	sb.WriteString(n.Root)
	sb.WriteString(n.Suffix)
	if n.Position > 1 {
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(n.Position))
	}
	return sb.String()
}

// enharmonic maps each accidental root to its equivalent spelling.
var enharmonic = map[string]string{
	"C#": "Db", "Db": "C#",
	"D#": "Eb", "Eb": "D#",
	"F#": "Gb", "Gb": "F#",
	"G#": "Ab", "Ab": "G#",
	"A#": "Bb", "Bb": "A#",
}

// EnharmonicName returns the enharmonic spelling of a chord name, if one
// exists ("C#m" -> "Dbm"). ok is false for natural roots and unparseable
// names.
func EnharmonicName(name string) (string, bool) {
	parsed, err := ParseName(name)
	if err != nil {
		return "", false
	}
	alt, ok := enharmonic[parsed.Root]
	if !ok {
		return "", false
	}
	out := *parsed
	out.Root = alt
	return out.String(), true
}
