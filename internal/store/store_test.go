package store

import (
	"path/filepath"
	"testing"

	"github.com/strumkey/strumkey/core/chord"
	"github.com/strumkey/strumkey/core/errors"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "personal.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndList(t *testing.T) {
	s := openTestStore(t)

	rec, err := s.Save(chord.Chord{
		Name:    "D7",
		Key:     "D",
		Suffix:  "7",
		Frets:   chord.FretList{0, 2, 3, 2},
		Fingers: []int{0, 1, 3, 2},
	})
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if rec.ID == "" {
		t.Error("Save() left ID empty")
	}
	if rec.Chord.Position != 1 || rec.Chord.BaseFret != 1 {
		t.Errorf("defaults not applied: position=%d baseFret=%d", rec.Chord.Position, rec.Chord.BaseFret)
	}

	records, err := s.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("List() got %d records; want 1", len(records))
	}
	got := records[0]
	if got.Chord.Name != "D7" || got.Chord.Frets.String() != "0232" {
		t.Errorf("List()[0] = %+v; want D7 0232", got.Chord)
	}
	if len(got.Chord.Fingers) != 4 || got.Chord.Fingers[2] != 3 {
		t.Errorf("fingers = %v; want [0 1 3 2]", got.Chord.Fingers)
	}
	if got.Chord.Source != chord.SourcePersonal {
		t.Errorf("source = %q; want personal", got.Chord.Source)
	}
}

func TestSave_DuplicateNamePosition(t *testing.T) {
	s := openTestStore(t)

	base := chord.Chord{Name: "G7", Frets: chord.FretList{0, 2, 1, 2}}
	if _, err := s.Save(base); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := s.Save(base); !errors.Is(err, errors.ErrAlreadyExists) {
		t.Errorf("duplicate Save() error = %v; want ErrAlreadyExists", err)
	}

	// Same name at a different position is fine.
	other := base
	other.Position = 2
	other.Frets = chord.FretList{5, 4, 5, 5}
	if _, err := s.Save(other); err != nil {
		t.Errorf("Save() at position 2 error: %v", err)
	}
}

func TestSave_Validation(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.Save(chord.Chord{Name: "E"}); err == nil {
		t.Error("Save() without frets should fail")
	}
	if _, err := s.Save(chord.Chord{Frets: chord.FretList{0, 0, 0, 0}}); err == nil {
		t.Error("Save() without name should fail")
	}
}

func TestGetAndDelete(t *testing.T) {
	s := openTestStore(t)

	rec, err := s.Save(chord.Chord{Name: "Bm", Frets: chord.FretList{4, 2, 2, 2}})
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := s.Get(rec.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Chord.Name != "Bm" {
		t.Errorf("Get() name = %q; want Bm", got.Chord.Name)
	}

	if err := s.Delete(rec.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := s.Get(rec.ID); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Get() after delete error = %v; want ErrNotFound", err)
	}
	if err := s.Delete(rec.ID); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("double Delete() error = %v; want ErrNotFound", err)
	}
}

func TestChords_MergesIntoLibraryShape(t *testing.T) {
	s := openTestStore(t)

	for _, c := range []chord.Chord{
		{Name: "D7", Frets: chord.FretList{0, 2, 3, 2}},
		{Name: "A7", Frets: chord.FretList{0, 1, 0, 0}},
	} {
		if _, err := s.Save(c); err != nil {
			t.Fatalf("Save(%s) error: %v", c.Name, err)
		}
	}

	chords, err := s.Chords()
	if err != nil {
		t.Fatalf("Chords() error: %v", err)
	}
	if len(chords) != 2 || chords[0].Name != "A7" || chords[1].Name != "D7" {
		t.Errorf("Chords() = %v; want [A7 D7] ordered by name", chords)
	}
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personal.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if _, err := s.Save(chord.Chord{Name: "F#m", Frets: chord.FretList{2, 1, 2, 0}}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer s2.Close()
	records, err := s2.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 1 || records[0].Chord.Name != "F#m" {
		t.Errorf("records after reopen = %v; want one F#m", records)
	}
}
