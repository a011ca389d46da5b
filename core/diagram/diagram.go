// Package diagram computes the geometric layout of a chord-fingering
// diagram on an abstract 2-D canvas. The host maps the layout onto its
// drawing primitives; this package fixes geometry and glyph roles only.
package diagram

import (
	"strconv"

	"github.com/strumkey/strumkey/core/chord"
	"github.com/strumkey/strumkey/core/tuning"
)

// Geometry constants, in abstract units at scale 1.
const (
	stringSpacing = 10.0
	fretSpacing   = 12.0
	dotRadius     = 3.5
	openRadius    = 2.5
	mutedSize     = 3.0
	lineWidth     = 1.0
	nutWidth      = 3.0
	nutOverhang   = 1.5
	leftPad       = 14.0
	rightPad      = 8.0
	topPad        = 10.0
	bottomPad     = 6.0
	labelGap      = 4.0
)

// minRows is the minimum number of horizontal fret lines in the window.
const minRows = 5

// Params describes the diagram to lay out.
type Params struct {
	// Frets is the per-string encoding. When BaseFret > 1 the positive
	// entries are window-relative and are shifted by BaseFret - 1;
	// otherwise they are absolute.
	Frets    chord.FretList
	BaseFret int

	Instrument string
	Tuning     string

	// Scale multiplies every geometric unit. Zero means 1.
	Scale float64
}

// Point is a position on the abstract canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Line is a straight segment with a stroke width.
type Line struct {
	From  Point   `json:"from"`
	To    Point   `json:"to"`
	Width float64 `json:"width"`
}

// GlyphKind identifies the role of a per-string glyph.
type GlyphKind int

const (
	// GlyphDot is a filled dot on a fretted string.
	GlyphDot GlyphKind = iota
	// GlyphOpen is an unfilled circle above the nut for an open string.
	GlyphOpen
	// GlyphMuted is an X for a muted string.
	GlyphMuted
)

// Glyph is one per-string marker.
type Glyph struct {
	Kind   GlyphKind `json:"kind"`
	Center Point     `json:"center"`
	Size   float64   `json:"size"` // radius for dots/circles, half-extent for the X
	String int       `json:"string"`
}

// Label is a text annotation.
type Label struct {
	Text string `json:"text"`
	At   Point  `json:"at"`
}

// Layout is the computed diagram geometry.
type Layout struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	ShowNut bool `json:"showNut"`
	Rows    int  `json:"rows"` // number of horizontal fret lines

	Strings []Line  `json:"strings"`
	Frets   []Line  `json:"frets"`
	Glyphs  []Glyph `json:"glyphs"`

	// BaseFretLabel is set when the nut is hidden; it names the fret of
	// the first window row.
	BaseFretLabel *Label `json:"baseFretLabel,omitempty"`
}

// New lays out a chord diagram. Inputs that violate the encoding
// invariants return (nil, err); callers render nothing and route the
// error to the log sink.
func New(p Params) (*Layout, error) {
	stringCount := tuning.StringCount(p.Instrument, p.Tuning)
	cells, err := chord.Normalize(p.Frets, p.BaseFret, stringCount)
	if err != nil {
		return nil, err
	}

	scale := p.Scale
	if scale <= 0 {
		scale = 1
	}

	minFret, maxFret, fretted := chord.FretBounds(cells)

	// Decide the visual window. Low chords show the nut and the first
	// four frets; anything higher scrolls the window to the base fret
	// and hides the nut.
	showNut := !fretted || maxFret <= 4
	windowStart := 1
	rows := minRows
	if !showNut {
		windowStart = p.BaseFret
		if windowStart <= 1 {
			windowStart = minFret
		}
		if maxFret-windowStart+2 > rows {
			rows = maxFret - windowStart + 2
		}
	}

	boardWidth := float64(stringCount-1) * stringSpacing
	boardHeight := float64(rows-1) * fretSpacing

	layout := &Layout{
		Width:   (leftPad + boardWidth + rightPad) * scale,
		Height:  (topPad + boardHeight + bottomPad) * scale,
		ShowNut: showNut,
		Rows:    rows,
	}

	stringX := func(i int) float64 { return (leftPad + float64(i)*stringSpacing) * scale }
	fretY := func(row int) float64 { return (topPad + float64(row)*fretSpacing) * scale }

	// Vertical string lines span the full fretboard height.
	for i := 0; i < stringCount; i++ {
		layout.Strings = append(layout.Strings, Line{
			From:  Point{X: stringX(i), Y: fretY(0)},
			To:    Point{X: stringX(i), Y: fretY(rows - 1)},
			Width: lineWidth * scale,
		})
	}

	// Horizontal fret lines. The nut is thicker and overreaches slightly.
	for row := 0; row < rows; row++ {
		line := Line{
			From:  Point{X: stringX(0), Y: fretY(row)},
			To:    Point{X: stringX(stringCount - 1), Y: fretY(row)},
			Width: lineWidth * scale,
		}
		if row == 0 && showNut {
			line.Width = nutWidth * scale
			line.From.X -= nutOverhang * scale
			line.To.X += nutOverhang * scale
		}
		layout.Frets = append(layout.Frets, line)
	}

	// Per-string glyphs.
	for i, cell := range cells {
		switch cell.Kind {
		case chord.CellMuted:
			center := Point{X: stringX(i), Y: fretY(0) - (mutedSize+2)*scale}
			if !showNut {
				// No headstock area without a nut; park the X inside row 1.
				center.Y = fretY(0) + fretSpacing/2*scale
			}
			layout.Glyphs = append(layout.Glyphs, Glyph{
				Kind: GlyphMuted, Center: center, Size: mutedSize * scale, String: i,
			})
		case chord.CellOpen:
			layout.Glyphs = append(layout.Glyphs, Glyph{
				Kind:   GlyphOpen,
				Center: Point{X: stringX(i), Y: fretY(0) - (openRadius+2)*scale},
				Size:   openRadius * scale,
				String: i,
			})
		case chord.CellFretted:
			row := cell.Fret - windowStart + 1
			if showNut {
				row = cell.Fret
			}
			layout.Glyphs = append(layout.Glyphs, Glyph{
				Kind:   GlyphDot,
				Center: Point{X: stringX(i), Y: fretY(row) - fretSpacing/2*scale},
				Size:   dotRadius * scale,
				String: i,
			})
		}
	}

	if !showNut {
		layout.BaseFretLabel = &Label{
			Text: strconv.Itoa(windowStart),
			At:   Point{X: stringX(0) - labelGap*scale, Y: fretY(0) + fretSpacing/2*scale},
		}
	}

	return layout, nil
}

// DotRow returns the 1-based window row a glyph sits in, or 0 for glyphs
// above the nut. Exposed for rendering backends that address rows rather
// than coordinates.
func (l *Layout) DotRow(g Glyph) int {
	top := l.Frets[0].From.Y
	if g.Center.Y <= top {
		return 0
	}
	spacing := l.Frets[1].From.Y - top
	return int((g.Center.Y-top)/spacing) + 1
}
