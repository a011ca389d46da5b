package chord

import (
	"encoding/json"
	"testing"

	"github.com/strumkey/strumkey/core/errors"
)

func TestParseFretString(t *testing.T) {
	cases := []struct {
		in   string
		want FretList
	}{
		{"0003", FretList{0, 0, 0, 3}},
		{"x232", FretList{FretMuted, 2, 3, 2}},
		{"X232", FretList{FretMuted, 2, 3, 2}},
		{"2100", FretList{2, 1, 0, 0}},
		{"7-9-9-8", FretList{7, 9, 9, 8}},
		{"x-10-12-10", FretList{FretMuted, 10, 12, 10}},
	}
	for _, c := range cases {
		got, err := ParseFretString(c.in)
		if err != nil {
			t.Fatalf("ParseFretString(%q) error: %v", c.in, err)
		}
		if len(got) != len(c.want) {
			t.Fatalf("ParseFretString(%q) = %v; want %v", c.in, got, c.want)
		}
		for i := range c.want {
			if got[i] != c.want[i] {
				t.Errorf("ParseFretString(%q)[%d] = %d; want %d", c.in, i, got[i], c.want[i])
			}
		}
	}
}

func TestParseFretString_Invalid(t *testing.T) {
	for _, in := range []string{"", "02a3", "0 03", "2-3-q"} {
		if _, err := ParseFretString(in); err == nil {
			t.Errorf("ParseFretString(%q) succeeded; want error", in)
		}
	}
}

func TestFretList_JSONBothForms(t *testing.T) {
	var fromString, fromArray FretList
	if err := json.Unmarshal([]byte(`"x232"`), &fromString); err != nil {
		t.Fatalf("unmarshal string form: %v", err)
	}
	if err := json.Unmarshal([]byte(`[-1,2,3,2]`), &fromArray); err != nil {
		t.Fatalf("unmarshal array form: %v", err)
	}
	for i := range fromString {
		if fromString[i] != fromArray[i] {
			t.Fatalf("string form %v != array form %v", fromString, fromArray)
		}
	}
}

func TestNormalize_BaseFretShift(t *testing.T) {
	// "0003" at baseFret 5 means frets 5,5,5,7 on the fretted strings --
	// except open strings stay open; only positive frets shift.
	cells, err := Normalize(FretList{0, 0, 0, 3}, 5, 4)
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	if cells[0].Kind != CellOpen || cells[1].Kind != CellOpen || cells[2].Kind != CellOpen {
		t.Error("open strings must stay open under a base-fret shift")
	}
	if cells[3].Kind != CellFretted || cells[3].Fret != 7 {
		t.Errorf("cells[3] = %+v; want fretted at 7", cells[3])
	}
}

func TestNormalize_NoBaseFret(t *testing.T) {
	cells, err := Normalize(FretList{FretMuted, 2, 3, 2}, 0, 4)
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	if cells[0].Kind != CellMuted {
		t.Error("cells[0] should be muted")
	}
	if cells[2].Kind != CellFretted || cells[2].Fret != 3 {
		t.Errorf("cells[2] = %+v; want fretted at 3", cells[2])
	}
}

func TestNormalize_Invariants(t *testing.T) {
	cases := []struct {
		name     string
		frets    FretList
		baseFret int
		strings  int
	}{
		{"length mismatch", FretList{0, 0, 0}, 0, 4},
		{"all muted", FretList{FretMuted, FretMuted, FretMuted, FretMuted}, 0, 4},
		{"fret out of range", FretList{0, 0, 0, 9}, 20, 4},
		{"negative fret", FretList{0, 0, 0, -2}, 0, 4},
	}
	for _, c := range cases {
		_, err := Normalize(c.frets, c.baseFret, c.strings)
		if err == nil {
			t.Errorf("%s: Normalize() succeeded; want error", c.name)
			continue
		}
		if !errors.Is(err, errors.ErrInvalidEncoding) {
			t.Errorf("%s: error %v does not wrap ErrInvalidEncoding", c.name, err)
		}
	}
}

func TestFretBounds(t *testing.T) {
	cells, err := Normalize(FretList{7, 9, 9, 8}, 0, 4)
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	minFret, maxFret, ok := FretBounds(cells)
	if !ok || minFret != 7 || maxFret != 9 {
		t.Errorf("FretBounds() = %d, %d, %v; want 7, 9, true", minFret, maxFret, ok)
	}

	open, err := Normalize(FretList{0, 0, 0, FretMuted}, 0, 4)
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	if _, _, ok := FretBounds(open); ok {
		t.Error("FretBounds() on an unfretted encoding should report ok=false")
	}
}

func TestCanonical_RoundTrip(t *testing.T) {
	cells, err := Normalize(FretList{0, 2, 3, 2}, 0, 4)
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	if got := Canonical(cells).String(); got != "0232" {
		t.Errorf("Canonical() = %q; want %q", got, "0232")
	}
}

func TestChord_MarkerText(t *testing.T) {
	c1 := Chord{Name: "Am", Position: 1}
	if got := c1.MarkerText(); got != "[Am]" {
		t.Errorf("MarkerText() = %q; want %q", got, "[Am]")
	}
	c2 := Chord{Name: "Am", Position: 2}
	if got := c2.MarkerText(); got != "[Am:2]" {
		t.Errorf("MarkerText() = %q; want %q", got, "[Am:2]")
	}
	if got := c2.DisplayName(); got != "Am2" {
		t.Errorf("DisplayName() = %q; want %q", got, "Am2")
	}
}
