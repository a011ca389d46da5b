package songtext

import (
	"strings"
)

// Segment is one run of an inline-rendered content line: either literal
// text or a chord marker, in source order.
type Segment struct {
	Text   string  `json:"text,omitempty"`
	Marker *Marker `json:"marker,omitempty"`
}

// InlineLine is one logical line of the inline rendering.
type InlineLine struct {
	Kind LineKind `json:"kind"`

	// Text carries the directive text for headings and instructions.
	Text string `json:"text,omitempty"`

	// Segments carries the mixed text/marker runs for content lines.
	Segments []Segment `json:"segments,omitempty"`
}

// RenderInline renders the source with chords embedded in the text flow.
// Bracketed fragments that are not well-formed markers stay literal.
func RenderInline(source string) []InlineLine {
	lines := strings.Split(source, "\n")
	out := make([]InlineLine, 0, len(lines))
	for _, line := range lines {
		kind, text := ClassifyLine(line)
		if kind != LineContent {
			out = append(out, InlineLine{Kind: kind, Text: text})
			continue
		}
		out = append(out, InlineLine{Kind: LineContent, Segments: splitSegments(line)})
	}
	return out
}

// splitSegments splits a content line into alternating text and marker
// runs. Empty text runs between adjacent markers are dropped.
func splitSegments(line string) []Segment {
	var segments []Segment
	last := 0
	for _, loc := range markerPattern.FindAllStringSubmatchIndex(line, -1) {
		marker, ok := ParseMarker(line[loc[2]:loc[3]])
		if !ok {
			continue
		}
		if loc[0] > last {
			segments = append(segments, Segment{Text: line[last:loc[0]]})
		}
		m := marker
		segments = append(segments, Segment{Marker: &m})
		last = loc[1]
	}
	if last < len(line) || len(segments) == 0 {
		segments = append(segments, Segment{Text: line[last:]})
	}
	return segments
}

// ChordSegment is one chord of an above-rendered line, anchored to the
// column of the '[' it replaced.
type ChordSegment struct {
	Col     int    `json:"col"`
	Content string `json:"content"`
}

// AboveLine is one logical line of the above rendering. For content lines
// ChordLine and LyricLine are parallel strings; for directives Text
// carries the directive text.
type AboveLine struct {
	Kind LineKind `json:"kind"`
	Text string   `json:"text,omitempty"`

	ChordLine string         `json:"chordLine,omitempty"`
	LyricLine string         `json:"lyricLine,omitempty"`
	Segments  []ChordSegment `json:"segments,omitempty"`
}

// RenderAbove renders the source as paired chord and lyric lines. Each
// chord's first character aligns with the column where its marker opened;
// chords that would collide are pushed right one space at a time.
func RenderAbove(source string) []AboveLine {
	lines := strings.Split(source, "\n")
	out := make([]AboveLine, 0, len(lines))
	for _, line := range lines {
		kind, text := ClassifyLine(line)
		if kind != LineContent {
			out = append(out, AboveLine{Kind: kind, Text: text})
			continue
		}
		out = append(out, renderAboveLine(line))
	}
	return out
}

func renderAboveLine(line string) AboveLine {
	var lyric strings.Builder
	var segments []ChordSegment

	last := 0
	for _, loc := range markerPattern.FindAllStringSubmatchIndex(line, -1) {
		marker, ok := ParseMarker(line[loc[2]:loc[3]])
		if !ok {
			continue
		}
		lyric.WriteString(line[last:loc[0]])
		segments = append(segments, ChordSegment{
			Col:     lyric.Len(),
			Content: marker.DisplayName(),
		})
		last = loc[1]
	}
	lyric.WriteString(line[last:])
	lyricLine := lyric.String()

	// Resolve collisions: each chord starts no earlier than one space
	// after the previous chord ends.
	cursor := 0
	for i := range segments {
		if i > 0 && segments[i].Col < cursor {
			segments[i].Col = cursor
		}
		cursor = segments[i].Col + len(segments[i].Content) + 1
	}

	var chordLine strings.Builder
	for _, seg := range segments {
		for chordLine.Len() < seg.Col {
			chordLine.WriteByte(' ')
		}
		chordLine.WriteString(seg.Content)
	}
	for chordLine.Len() < len(lyricLine) {
		chordLine.WriteByte(' ')
	}

	return AboveLine{
		Kind:      LineContent,
		ChordLine: chordLine.String(),
		LyricLine: lyricLine,
		Segments:  segments,
	}
}
