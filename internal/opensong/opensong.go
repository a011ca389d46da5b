// Package opensong imports OpenSong XML songs into marker-form lyric
// source. OpenSong interleaves `.`-prefixed chord lines with lyric
// lines; the importer folds each chord line into the following lyric
// line as inline [Chord] markers at the matching columns.
package opensong

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/strumkey/strumkey/core/chord"
	"github.com/strumkey/strumkey/core/errors"
)

// Song is an imported OpenSong song.
type Song struct {
	Title  string `json:"title"`
	Author string `json:"author,omitempty"`
	Key    string `json:"key,omitempty"`
	Body   string `json:"body"`
}

// Parse decodes an OpenSong XML document into marker-form source.
func Parse(data []byte) (*Song, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewParse("OpenSong XML", "", err.Error())
	}

	root, err := xmlquery.Query(doc, "//song")
	if err != nil || root == nil {
		return nil, errors.NewParse("OpenSong XML", "", "no <song> element")
	}

	song := &Song{
		Title:  nodeText(root, "title"),
		Author: nodeText(root, "author"),
		Key:    nodeText(root, "key"),
	}
	song.Body = convertLyrics(nodeText(root, "lyrics"))
	return song, nil
}

func nodeText(root *xmlquery.Node, name string) string {
	node, err := xmlquery.Query(root, name)
	if err != nil || node == nil {
		return ""
	}
	return strings.TrimSpace(node.InnerText())
}

// positionedChord is a chord token and the lyric column it sits over.
type positionedChord struct {
	col  int
	name string
}

// convertLyrics folds OpenSong's line conventions into marker form:
//
//	.C      Am      chord line, consumed into the next lyric line
//	 hello world    lyric line (leading space stripped)
//	[V1]            section header -> {heading:V1}
//	;note           comment -> {instruction:note}
func convertLyrics(raw string) string {
	var out []string
	var pending []positionedChord

	flushPending := func() {
		if len(pending) == 0 {
			return
		}
		// Chord line with no lyric line under it: emit markers alone.
		var sb strings.Builder
		for i, pc := range pending {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString("[" + pc.name + "]")
		}
		out = append(out, sb.String())
		pending = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case strings.HasPrefix(line, "."):
			flushPending()
			pending = chordColumns(line[1:])
		case strings.HasPrefix(line, "[") && strings.HasSuffix(strings.TrimSpace(line), "]"):
			flushPending()
			section := strings.Trim(strings.TrimSpace(line), "[]")
			out = append(out, fmt.Sprintf("{heading:%s}", section))
		case strings.HasPrefix(line, ";"):
			flushPending()
			out = append(out, fmt.Sprintf("{instruction:%s}", strings.TrimSpace(line[1:])))
		default:
			lyric := strings.TrimPrefix(line, " ")
			out = append(out, mergeMarkers(lyric, pending))
			pending = nil
		}
	}
	flushPending()

	// Drop trailing blank lines the XML blob usually carries.
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

// chordColumns extracts chord tokens and their columns from a chord
// line body (the text after the leading dot).
func chordColumns(body string) []positionedChord {
	var chords []positionedChord
	col := -1
	start := 0
	for i := 0; i <= len(body); i++ {
		atEnd := i == len(body)
		if !atEnd && body[i] != ' ' {
			if col < 0 {
				col = i
				start = i
			}
			continue
		}
		if col >= 0 {
			name := body[start:i]
			if _, err := chord.ParseName(name); err == nil {
				chords = append(chords, positionedChord{col: col, name: name})
			}
			col = -1
		}
	}
	return chords
}

// mergeMarkers inserts [Chord] markers into a lyric line at the columns
// the chord line put them. Inserting right to left keeps earlier
// columns stable.
func mergeMarkers(lyric string, chords []positionedChord) string {
	if len(chords) == 0 {
		return lyric
	}
	for i := len(chords) - 1; i >= 0; i-- {
		pc := chords[i]
		for len(lyric) < pc.col {
			lyric += " "
		}
		lyric = lyric[:pc.col] + "[" + pc.name + "]" + lyric[pc.col:]
	}
	return lyric
}
