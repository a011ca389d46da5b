package chord

import (
	"github.com/strumkey/strumkey/core/errors"
)

// CellKind tags one string of a normalized fret encoding.
type CellKind int

const (
	// CellMuted marks a string that is not played.
	CellMuted CellKind = iota
	// CellOpen marks a string played open.
	CellOpen
	// CellFretted marks a string stopped at Cell.Fret (absolute, >= 1).
	CellFretted
)

// Cell is one string of a normalized encoding.
type Cell struct {
	Kind CellKind
	Fret int // absolute fret, only meaningful for CellFretted
}

// Normalize validates a fret list against a string count and applies the
// base-fret shift: every positive fret n becomes baseFret + n - 1.
//
// Invariants enforced (violations return an EncodingError):
//   - len(frets) == stringCount
//   - every shifted fret within [1, MaxFret]
//   - at least one string is not muted
func Normalize(frets FretList, baseFret, stringCount int) ([]Cell, error) {
	if len(frets) != stringCount {
		return nil, errors.NewEncoding(frets.String(),
			"string count mismatch")
	}
	if baseFret < 0 {
		return nil, errors.NewEncoding(frets.String(), "negative base fret")
	}
	cells := make([]Cell, len(frets))
	playable := false
	for i, v := range frets {
		switch {
		case v == FretMuted:
			cells[i] = Cell{Kind: CellMuted}
		case v == FretOpen:
			cells[i] = Cell{Kind: CellOpen}
			playable = true
		case v > 0:
			fret := v
			if baseFret > 0 {
				fret = baseFret + v - 1
			}
			if fret > MaxFret {
				return nil, errors.NewEncoding(frets.String(), "fret out of range")
			}
			cells[i] = Cell{Kind: CellFretted, Fret: fret}
			playable = true
		default:
			return nil, errors.NewEncoding(frets.String(), "negative fret")
		}
	}
	if !playable {
		return nil, errors.NewEncoding(frets.String(), "all strings muted")
	}
	return cells, nil
}

// FretBounds returns the minimum and maximum fretted positions of a
// normalized encoding. ok is false when no string is fretted.
func FretBounds(cells []Cell) (minFret, maxFret int, ok bool) {
	for _, c := range cells {
		if c.Kind != CellFretted {
			continue
		}
		if !ok || c.Fret < minFret {
			minFret = c.Fret
		}
		if c.Fret > maxFret {
			maxFret = c.Fret
		}
		ok = true
	}
	return minFret, maxFret, ok
}

// Canonical returns a comparable absolute form of an encoding, suitable as
// a lookup key: the normalized cells rendered back to a FretList.
func Canonical(cells []Cell) FretList {
	out := make(FretList, len(cells))
	for i, c := range cells {
		switch c.Kind {
		case CellMuted:
			out[i] = FretMuted
		case CellOpen:
			out[i] = FretOpen
		case CellFretted:
			out[i] = c.Fret
		}
	}
	return out
}
