// Package library maintains the chord catalogue with its derived indices:
// name lookup, used-in-song tracking, and the personal partition.
package library

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/strumkey/strumkey/core/cache"
	"github.com/strumkey/strumkey/core/chord"
	"github.com/strumkey/strumkey/core/errors"
	"github.com/strumkey/strumkey/internal/logging"
)

// Index holds the chord catalogue and its derived views. The catalogue
// order is preserved; all filtered views keep relative order.
type Index struct {
	mu      sync.RWMutex
	chords  []chord.Chord
	byName  map[string][]chord.Chord
	used    map[string]bool
	filters *cache.FilterCache
}

// New creates an empty index.
func New() *Index {
	return &Index{
		byName:  make(map[string][]chord.Chord),
		used:    make(map[string]bool),
		filters: cache.NewDefaultFilterCache(),
	}
}

// Load bulk-ingests catalogue chords, replacing nothing: entries append in
// order. Display names are normalized before indexing.
func (x *Index) Load(chords []chord.Chord) {
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, c := range chords {
		c.Name = chord.FormatName(c.Name)
		if c.Source == "" {
			c.Source = chord.SourceLibrary
		}
		if c.Position < 1 {
			c.Position = 1
		}
		if c.BaseFret < 1 {
			c.BaseFret = 1
		}
		x.append(c)
	}
	x.filters.Clear()
}

// AddPersonal adds a user-made chord to the personal partition.
// The suffix defaults to "custom", the position to the next free variation
// of that name within the personal partition. (Name, Position, Source)
// must be unique.
func (x *Index) AddPersonal(c chord.Chord) (chord.Chord, error) {
	if len(c.Frets) == 0 {
		return chord.Chord{}, errors.NewValidation("frets", "must not be empty")
	}
	if len(c.Fingers) > 0 && len(c.Fingers) != len(c.Frets) {
		return chord.Chord{}, errors.NewValidation("fingers", "length must match frets")
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	c.Name = chord.FormatName(c.Name)
	if c.Name == "" {
		return chord.Chord{}, errors.NewValidation("name", "must not be empty")
	}
	c.Source = chord.SourcePersonal
	if c.Suffix == "" {
		c.Suffix = chord.DefaultSuffix
	}
	if c.BaseFret < 1 {
		c.BaseFret = 1
	}
	if c.Position < 1 {
		c.Position = x.nextPersonalPosition(c.Name)
	}
	for _, existing := range x.byName[c.Name] {
		if existing.Position == c.Position && existing.Source == c.Source {
			return chord.Chord{}, errors.Wrapf(errors.ErrAlreadyExists,
				"personal chord %s:%d", c.Name, c.Position)
		}
	}

	x.append(c)
	x.filters.Clear()
	return c, nil
}

// append inserts a chord into the flat list and the name index, keeping
// byName ordered by ascending position. Callers hold the write lock.
func (x *Index) append(c chord.Chord) {
	x.chords = append(x.chords, c)
	variations := append(x.byName[c.Name], c)
	sort.SliceStable(variations, func(i, j int) bool {
		return variations[i].Position < variations[j].Position
	})
	x.byName[c.Name] = variations
}

func (x *Index) nextPersonalPosition(name string) int {
	next := 1
	for _, existing := range x.byName[name] {
		if existing.Source == chord.SourcePersonal && existing.Position >= next {
			next = existing.Position + 1
		}
	}
	return next
}

// Filter returns the chords whose name contains the normalized query,
// case-insensitively. An empty query returns the whole catalogue. Results
// keep catalogue order and are stable under equal queries.
func (x *Index) Filter(query string) []chord.Chord {
	needle := strings.ToLower(chord.NormalizeQuery(query))

	if hit, ok := x.filters.Get(needle); ok {
		return hit
	}

	start := time.Now()
	x.mu.RLock()
	out := make([]chord.Chord, 0, len(x.chords))
	for _, c := range x.chords {
		if needle == "" || strings.Contains(strings.ToLower(c.Name), needle) {
			out = append(out, c)
		}
	}
	x.mu.RUnlock()

	x.filters.Put(needle, out)
	logging.FilterQuery(needle, len(out), time.Since(start))
	return out
}

// Variations returns all chords with the given name, ordered by ascending
// position. Nil when the name is unknown.
func (x *Index) Variations(name string) []chord.Chord {
	x.mu.RLock()
	defer x.mu.RUnlock()
	variations := x.byName[chord.FormatName(name)]
	out := make([]chord.Chord, len(variations))
	copy(out, variations)
	if len(out) == 0 {
		return nil
	}
	return out
}

// SetUsed replaces the used-in-song name set, normally derived from the
// markers of the current lyrics source.
func (x *Index) SetUsed(names []string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.used = make(map[string]bool, len(names))
	for _, n := range names {
		x.used[chord.FormatName(n)] = true
	}
}

// Used reports whether a chord name is referenced by the current song.
func (x *Index) Used(name string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.used[name]
}

// IsPersonal reports whether a (name, position) pair exists in the
// personal partition.
func (x *Index) IsPersonal(name string, position int) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	for _, c := range x.byName[chord.FormatName(name)] {
		if c.Position == position && c.Source == chord.SourcePersonal {
			return true
		}
	}
	return false
}

// All returns the full catalogue in order.
func (x *Index) All() []chord.Chord {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]chord.Chord, len(x.chords))
	copy(out, x.chords)
	return out
}

// Len returns the catalogue size.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.chords)
}

// Partition splits a filtered result into used-in-song chords and the
// rest, preserving relative order. The two halves are disjoint and their
// union is the input.
func (x *Index) Partition(filtered []chord.Chord) (used, rest []chord.Chord) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	used = make([]chord.Chord, 0)
	rest = make([]chord.Chord, 0)
	for _, c := range filtered {
		if x.used[c.Name] {
			used = append(used, c)
		} else {
			rest = append(rest, c)
		}
	}
	return used, rest
}

// SplitCommon splits a library slice into the common view (position 1
// only) and the full view. Consumers choose which to render first.
func SplitCommon(library []chord.Chord) (common, all []chord.Chord) {
	common = make([]chord.Chord, 0, len(library))
	for _, c := range library {
		if c.Position == 1 {
			common = append(common, c)
		}
	}
	return common, library
}
