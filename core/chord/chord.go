// Package chord defines the chord record shared across the Strumkey core,
// the fret-encoding model, and the query/display normalization rules.
package chord

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Source identifies which partition of the library a chord belongs to.
type Source string

const (
	// SourceLibrary marks chords shipped with the catalogue.
	SourceLibrary Source = "library"
	// SourcePersonal marks chords the user designed and saved.
	SourcePersonal Source = "personal"
)

// DefaultSuffix is applied to user-made chords with no explicit suffix.
const DefaultSuffix = "custom"

// Chord is one fingering of one named chord. (Name, Position, Source) is
// unique within a library.
type Chord struct {
	Name     string   `json:"name"`
	Key      string   `json:"key"`
	Suffix   string   `json:"suffix"`
	Frets    FretList `json:"frets"`
	Fingers  []int    `json:"fingers,omitempty"`
	BaseFret int      `json:"baseFret,omitempty"`
	Barres   []int    `json:"barres,omitempty"`
	Position int      `json:"position"`
	Source   Source   `json:"source,omitempty"`
}

// DisplayName returns the name with its position suffix when the chord is
// not the canonical variation (position 1).
func (c Chord) DisplayName() string {
	if c.Position > 1 {
		return c.Name + strconv.Itoa(c.Position)
	}
	return c.Name
}

// MarkerText returns the textual marker form used in lyrics sources:
// "[Name]" for position 1, "[Name:Position]" otherwise.
func (c Chord) MarkerText() string {
	if c.Position > 1 {
		return "[" + c.Name + ":" + strconv.Itoa(c.Position) + "]"
	}
	return "[" + c.Name + "]"
}

// FretList is a per-string fret encoding. Entries are fret numbers,
// FretOpen (0) for an open string, or FretMuted for a muted string.
//
// Catalogues carry the encoding either as a string ("0003", "x232") or as
// an array ([0,0,0,3] with -1 for muted); both unmarshal to the same form.
type FretList []int

// FretMuted is the sentinel for a muted string.
const FretMuted = -1

// FretOpen is the fret value of an open string.
const FretOpen = 0

// MaxFret is the highest playable fret the model accepts.
const MaxFret = 24

// UnmarshalJSON accepts both the string form and the array form.
func (f *FretList) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseFretString(s)
		if err != nil {
			return err
		}
		*f = parsed
		return nil
	}
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return err
	}
	*f = FretList(ints)
	return nil
}

// MarshalJSON emits the compact string form when every fret is a single
// digit, the array form otherwise.
func (f FretList) MarshalJSON() ([]byte, error) {
	if s, ok := f.stringForm(); ok {
		return json.Marshal(s)
	}
	return json.Marshal([]int(f))
}

// String renders the encoding in its string form where possible, falling
// back to a dash-separated form for frets above 9.
func (f FretList) String() string {
	if s, ok := f.stringForm(); ok {
		return s
	}
	parts := make([]string, len(f))
	for i, v := range f {
		if v == FretMuted {
			parts[i] = "x"
		} else {
			parts[i] = strconv.Itoa(v)
		}
	}
	return strings.Join(parts, "-")
}

func (f FretList) stringForm() (string, bool) {
	var sb strings.Builder
	for _, v := range f {
		switch {
		case v == FretMuted:
			sb.WriteByte('x')
		case v >= 0 && v <= 9:
			sb.WriteByte(byte('0' + v))
		default:
			return "", false
		}
	}
	return sb.String(), true
}

// ParseFretString parses the string form of a fret encoding: one character
// per string, '0'..'9' for a fret, 'x' or 'X' for muted. A dash-separated
// form ("7-9-9-8") is accepted for frets above 9.
func ParseFretString(s string) (FretList, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty fret string")
	}
	if strings.Contains(s, "-") {
		parts := strings.Split(s, "-")
		out := make(FretList, len(parts))
		for i, p := range parts {
			if p == "x" || p == "X" {
				out[i] = FretMuted
				continue
			}
			n, err := strconv.Atoi(p)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("bad fret %q in %q", p, s)
			}
			out[i] = n
		}
		return out, nil
	}
	out := make(FretList, 0, len(s))
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			out = append(out, int(r-'0'))
		case r == 'x' || r == 'X':
			out = append(out, FretMuted)
		default:
			return nil, fmt.Errorf("bad character %q in fret string %q", r, s)
		}
	}
	return out, nil
}
