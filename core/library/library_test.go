package library

import (
	"testing"

	"github.com/strumkey/strumkey/core/chord"
	"github.com/strumkey/strumkey/core/errors"
)

func catalogue() []chord.Chord {
	return []chord.Chord{
		{Name: "C", Key: "C", Frets: chord.FretList{0, 0, 0, 3}, Position: 1},
		{Name: "C", Key: "C", Frets: chord.FretList{5, 4, 3, 3}, Position: 2},
		{Name: "C#", Key: "C#", Frets: chord.FretList{1, 1, 1, 4}, Position: 1},
		{Name: "C#m", Key: "C#", Suffix: "m", Frets: chord.FretList{1, 1, 0, 4}, Position: 1},
		{Name: "D", Key: "D", Frets: chord.FretList{2, 2, 2, 0}, Position: 1},
		{Name: "Am", Key: "A", Suffix: "m", Frets: chord.FretList{2, 0, 0, 0}, Position: 1},
	}
}

func newIndex(t *testing.T) *Index {
	t.Helper()
	x := New()
	x.Load(catalogue())
	return x
}

func TestFilter_SharpShorthand(t *testing.T) {
	x := newIndex(t)

	got := x.Filter("c sh")
	if len(got) != 2 {
		t.Fatalf("Filter(c sh) returned %d chords; want 2", len(got))
	}
	if got[0].Name != "C#" || got[1].Name != "C#m" {
		t.Errorf("Filter(c sh) = [%s %s]; want [C# C#m]", got[0].Name, got[1].Name)
	}
}

func TestFilter_EmptyReturnsAll(t *testing.T) {
	x := newIndex(t)
	if got := x.Filter(""); len(got) != 6 {
		t.Errorf("Filter(\"\") returned %d chords; want 6", len(got))
	}
	if got := x.Filter("   "); len(got) != 6 {
		t.Errorf("Filter(whitespace) returned %d chords; want 6", len(got))
	}
}

func TestFilter_CaseInsensitiveSubstring(t *testing.T) {
	x := newIndex(t)
	got := x.Filter("am")
	if len(got) != 1 || got[0].Name != "Am" {
		t.Errorf("Filter(am) = %v; want [Am]", got)
	}
}

func TestFilter_StableUnderEqualQueries(t *testing.T) {
	x := newIndex(t)
	first := x.Filter("c")
	second := x.Filter("c")
	if len(first) != len(second) {
		t.Fatalf("unequal result sizes: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Name != second[i].Name || first[i].Position != second[i].Position {
			t.Errorf("result %d differs: %s:%d vs %s:%d",
				i, first[i].Name, first[i].Position, second[i].Name, second[i].Position)
		}
	}
}

func TestPartition_DisjointUnion(t *testing.T) {
	x := newIndex(t)
	x.SetUsed([]string{"C", "Am"})

	filtered := x.Filter("")
	used, rest := x.Partition(filtered)

	if len(used)+len(rest) != len(filtered) {
		t.Errorf("partition sizes %d + %d != %d", len(used), len(rest), len(filtered))
	}
	for _, c := range used {
		if c.Name != "C" && c.Name != "Am" {
			t.Errorf("chord %s in used partition; want only C and Am", c.Name)
		}
	}
	for _, c := range rest {
		if c.Name == "C" || c.Name == "Am" {
			t.Errorf("chord %s leaked into library partition", c.Name)
		}
	}
}

func TestSplitCommon(t *testing.T) {
	x := newIndex(t)
	common, all := SplitCommon(x.Filter(""))
	if len(all) != 6 {
		t.Errorf("all has %d chords; want 6", len(all))
	}
	if len(common) != 5 {
		t.Errorf("common has %d chords; want 5", len(common))
	}
	for _, c := range common {
		if c.Position != 1 {
			t.Errorf("chord %s:%d in common; want position 1 only", c.Name, c.Position)
		}
	}
}

func TestVariations_OrderedByPosition(t *testing.T) {
	x := newIndex(t)
	got := x.Variations("C")
	if len(got) != 2 {
		t.Fatalf("Variations(C) returned %d chords; want 2", len(got))
	}
	if got[0].Position != 1 || got[1].Position != 2 {
		t.Errorf("Variations(C) positions = [%d %d]; want [1 2]", got[0].Position, got[1].Position)
	}
	if x.Variations("Zzz") != nil {
		t.Error("Variations(Zzz) should be nil")
	}
}

func TestAddPersonal(t *testing.T) {
	x := newIndex(t)

	saved, err := x.AddPersonal(chord.Chord{
		Name:  "D7",
		Frets: chord.FretList{0, 2, 3, 2},
	})
	if err != nil {
		t.Fatalf("AddPersonal() error: %v", err)
	}
	if saved.Source != chord.SourcePersonal {
		t.Errorf("Source = %s; want personal", saved.Source)
	}
	if saved.Suffix != "custom" {
		t.Errorf("Suffix = %q; want custom", saved.Suffix)
	}
	if saved.Position != 1 {
		t.Errorf("Position = %d; want 1", saved.Position)
	}
	if saved.BaseFret != 1 {
		t.Errorf("BaseFret = %d; want 1", saved.BaseFret)
	}

	if !x.IsPersonal("D7", 1) {
		t.Error("IsPersonal(D7, 1) = false; want true")
	}

	// A second save of the same shape gets the next position.
	second, err := x.AddPersonal(chord.Chord{Name: "D7", Frets: chord.FretList{0, 2, 3, 5}})
	if err != nil {
		t.Fatalf("AddPersonal() error: %v", err)
	}
	if second.Position != 2 {
		t.Errorf("second Position = %d; want 2", second.Position)
	}
}

func TestAddPersonal_CoexistsWithLibraryName(t *testing.T) {
	x := newIndex(t)
	if _, err := x.AddPersonal(chord.Chord{Name: "C", Frets: chord.FretList{0, 0, 0, 3}}); err != nil {
		t.Fatalf("AddPersonal() error: %v", err)
	}
	// Both the library and the personal entry for "C" position 1 exist.
	variations := x.Variations("C")
	libraryHit, personalHit := false, false
	for _, c := range variations {
		if c.Position == 1 && c.Source == chord.SourceLibrary {
			libraryHit = true
		}
		if c.Position == 1 && c.Source == chord.SourcePersonal {
			personalHit = true
		}
	}
	if !libraryHit || !personalHit {
		t.Errorf("library=%v personal=%v; want both entries present", libraryHit, personalHit)
	}
}

func TestAddPersonal_Duplicate(t *testing.T) {
	x := newIndex(t)
	c := chord.Chord{Name: "E7", Frets: chord.FretList{1, 2, 0, 2}, Position: 1}
	if _, err := x.AddPersonal(c); err != nil {
		t.Fatalf("AddPersonal() error: %v", err)
	}
	if _, err := x.AddPersonal(c); !errors.Is(err, errors.ErrAlreadyExists) {
		t.Errorf("duplicate AddPersonal() error = %v; want ErrAlreadyExists", err)
	}
}

func TestAddPersonal_Validation(t *testing.T) {
	x := newIndex(t)
	if _, err := x.AddPersonal(chord.Chord{Name: "X"}); err == nil {
		t.Error("AddPersonal() with no frets should fail")
	}
	if _, err := x.AddPersonal(chord.Chord{
		Name:    "G",
		Frets:   chord.FretList{0, 2, 3, 2},
		Fingers: []int{1, 2},
	}); err == nil {
		t.Error("AddPersonal() with mismatched fingers should fail")
	}
}

func TestAddPersonal_InvalidatesFilterCache(t *testing.T) {
	x := newIndex(t)
	before := x.Filter("d7")
	if len(before) != 0 {
		t.Fatalf("Filter(d7) = %d chords before save; want 0", len(before))
	}
	if _, err := x.AddPersonal(chord.Chord{Name: "D7", Frets: chord.FretList{0, 2, 3, 2}}); err != nil {
		t.Fatalf("AddPersonal() error: %v", err)
	}
	after := x.Filter("d7")
	if len(after) != 1 || after[0].Name != "D7" {
		t.Errorf("Filter(d7) = %v after save; want [D7]", after)
	}
}

func TestLoad_FormatsNames(t *testing.T) {
	x := New()
	x.Load([]chord.Chord{{Name: "Bb Minor", Frets: chord.FretList{3, 1, 1, 1}, Position: 1}})
	got := x.Filter("bbm")
	if len(got) != 1 || got[0].Name != "Bbm" {
		t.Errorf("Filter(bbm) = %v; want [Bbm]", got)
	}
}
