// Package suggest proposes chord names for a fret encoding by matching it
// against the catalogue.
package suggest

import (
	"sort"

	"github.com/strumkey/strumkey/core/chord"
	"github.com/strumkey/strumkey/core/tuning"
	"github.com/strumkey/strumkey/internal/logging"
)

// Suggest returns candidate names for the given fret string on the given
// instrument, in descending preference: exact catalogue hits first (ties
// broken by ascending position), then enharmonic spellings of those hits.
// No catalogue hit yields an empty list; the user names the chord
// themselves. Invalid encodings also yield an empty list.
func Suggest(frets string, instrument, tun string, catalogue []chord.Chord) []string {
	parsed, err := chord.ParseFretString(frets)
	if err != nil {
		logging.Warn("suggest_rejected", "frets", frets, "error", err.Error())
		return nil
	}

	stringCount := tuning.StringCount(instrument, tun)
	cells, err := chord.Normalize(parsed, 0, stringCount)
	if err != nil {
		logging.Warn("suggest_rejected", "frets", frets, "error", err.Error())
		return nil
	}
	want := chord.Canonical(cells).String()

	hits := make([]chord.Chord, 0, 2)
	for _, c := range catalogue {
		key, ok := canonicalKey(c, stringCount)
		if ok && key == want {
			hits = append(hits, c)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Position < hits[j].Position
	})

	names := make([]string, 0, len(hits))
	seen := make(map[string]bool, len(hits)*2)
	for _, c := range hits {
		if !seen[c.Name] {
			seen[c.Name] = true
			names = append(names, c.Name)
		}
	}
	for _, c := range hits {
		if alt, ok := chord.EnharmonicName(c.Name); ok && !seen[alt] {
			seen[alt] = true
			names = append(names, alt)
		}
	}
	return names
}

// canonicalKey normalizes a catalogue entry's encoding to its absolute
// comparable form. Entries whose encoding does not fit the instrument are
// skipped rather than reported.
func canonicalKey(c chord.Chord, stringCount int) (string, bool) {
	cells, err := chord.Normalize(c.Frets, c.BaseFret, stringCount)
	if err != nil {
		return "", false
	}
	return chord.Canonical(cells).String(), true
}
