// Package songtext models a ChordPro-like lyrics source: content lines
// with embedded chord markers, plus heading and instruction directives.
// Rendering is pure over the source; mutation happens only through the
// high-level edit functions.
package songtext

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/strumkey/strumkey/core/chord"
)

// markerPattern matches a bracketed chord marker. The pattern is part of
// the source format: anything between '[' and the next ']'.
var markerPattern = regexp.MustCompile(`\[([^\]]+)\]`)

// Directive patterns. Directives sit at the start of a line, with no
// leading whitespace.
var (
	headingPattern     = regexp.MustCompile(`^\{heading:([^}]*)\}`)
	instructionPattern = regexp.MustCompile(`^\{instruction:([^}]*)\}`)
)

// Marker is a parsed chord reference from a lyrics source.
type Marker struct {
	ChordName     string `json:"chordName"`
	ChordPosition int    `json:"chordPosition"`
}

// DisplayName returns the marker's display form: the chord name with the
// position appended when it is not the canonical variation.
func (m Marker) DisplayName() string {
	if m.ChordPosition > 1 {
		return m.ChordName + strconv.Itoa(m.ChordPosition)
	}
	return m.ChordName
}

// Text returns the textual marker form as it appears in a source.
func (m Marker) Text() string {
	if m.ChordPosition > 1 {
		return "[" + m.ChordName + ":" + strconv.Itoa(m.ChordPosition) + "]"
	}
	return "[" + m.ChordName + "]"
}

// ParseMarker parses the inside of a bracketed fragment: "name" or
// "name:position" with a positive integer position. ok is false when the
// fragment is not a well-formed marker; the caller renders it as literal
// text.
func ParseMarker(s string) (Marker, bool) {
	if s == "" {
		return Marker{}, false
	}
	name, tail, hasTail := strings.Cut(s, ":")
	if name == "" {
		return Marker{}, false
	}
	position := 1
	if hasTail {
		n, err := strconv.Atoi(tail)
		if err != nil || n < 1 {
			return Marker{}, false
		}
		position = n
	}
	return Marker{ChordName: name, ChordPosition: position}, true
}

// LineKind classifies one source line.
type LineKind int

const (
	// LineContent is free text, possibly with chord markers.
	LineContent LineKind = iota
	// LineHeading is a section title directive.
	LineHeading
	// LineInstruction is a performance note directive.
	LineInstruction
)

// ClassifyLine tags a source line and extracts directive text. For
// content lines the text is the line itself.
func ClassifyLine(line string) (LineKind, string) {
	if m := headingPattern.FindStringSubmatch(line); m != nil {
		return LineHeading, m[1]
	}
	if m := instructionPattern.FindStringSubmatch(line); m != nil {
		return LineInstruction, m[1]
	}
	return LineContent, line
}

// UsedNames returns the distinct chord names referenced by markers in the
// source, in first-use order. Names are display-normalized so they match
// library entries.
func UsedNames(source string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, line := range strings.Split(source, "\n") {
		kind, _ := ClassifyLine(line)
		if kind != LineContent {
			continue
		}
		for _, m := range markerPattern.FindAllStringSubmatch(line, -1) {
			marker, ok := ParseMarker(m[1])
			if !ok {
				continue
			}
			name := chord.FormatName(marker.ChordName)
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// InsertMarker inserts a marker's textual form at a caret offset,
// clamping the offset into the source. Returns the edited source.
func InsertMarker(source string, caretOffset int, m Marker) string {
	if caretOffset < 0 {
		caretOffset = 0
	}
	if caretOffset > len(source) {
		caretOffset = len(source)
	}
	return source[:caretOffset] + m.Text() + source[caretOffset:]
}

// markerAt finds the marker whose brackets cover the given offset.
// Returns its start and end byte positions, or ok=false.
func markerAt(source string, offset int) (start, end int, ok bool) {
	for _, loc := range markerPattern.FindAllStringSubmatchIndex(source, -1) {
		if _, valid := ParseMarker(source[loc[2]:loc[3]]); !valid {
			continue
		}
		if offset >= loc[0] && offset <= loc[1] {
			return loc[0], loc[1], true
		}
	}
	return 0, 0, false
}

// ReplaceMarkerAt swaps the marker covering the caret offset for a new
// one. The source is returned unchanged when no marker covers the offset.
func ReplaceMarkerAt(source string, offset int, m Marker) string {
	start, end, ok := markerAt(source, offset)
	if !ok {
		return source
	}
	return source[:start] + m.Text() + source[end:]
}

// DeleteMarkerAt removes the marker covering the caret offset. The source
// is returned unchanged when no marker covers the offset.
func DeleteMarkerAt(source string, offset int) string {
	start, end, ok := markerAt(source, offset)
	if !ok {
		return source
	}
	return source[:start] + source[end:]
}
