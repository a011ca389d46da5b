// Package store persists personal chords in a SQLite database.
//
// The database is a single personal_chords table keyed by a UUID, with
// a uniqueness constraint on (name, position) so the same chord name can
// carry several variations without colliding.
package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/strumkey/strumkey/core/chord"
	"github.com/strumkey/strumkey/core/errors"
	"github.com/strumkey/strumkey/core/sqlite"
	"github.com/strumkey/strumkey/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS personal_chords (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	key        TEXT,
	suffix     TEXT,
	frets      TEXT NOT NULL,
	fingers    TEXT,
	base_fret  INTEGER NOT NULL DEFAULT 1,
	barres     TEXT,
	position   INTEGER NOT NULL DEFAULT 1,
	created_at TEXT NOT NULL,
	UNIQUE (name, position)
);
CREATE INDEX IF NOT EXISTS idx_personal_chords_name ON personal_chords(name);
`

// Record is a stored personal chord with its database identity.
type Record struct {
	ID        string      `json:"id"`
	Chord     chord.Chord `json:"chord"`
	CreatedAt time.Time   `json:"created_at"`
}

// Store wraps a SQLite database holding personal chords.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the personal chord database at path.
func Open(path string) (*Store, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open personal store %s", path)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create personal_chords schema")
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts a personal chord and returns its record. The chord is
// stored as given; callers normalize names and positions first.
func (s *Store) Save(c chord.Chord) (*Record, error) {
	if len(c.Frets) == 0 {
		return nil, errors.NewValidation("frets", "must not be empty")
	}
	if c.Name == "" {
		return nil, errors.NewValidation("name", "must not be empty")
	}
	if c.Position < 1 {
		c.Position = 1
	}
	if c.BaseFret < 1 {
		c.BaseFret = 1
	}

	var exists int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM personal_chords WHERE name = ? AND position = ?`,
		c.Name, c.Position,
	).Scan(&exists)
	if err != nil {
		return nil, errors.Wrap(err, "check for existing chord")
	}
	if exists > 0 {
		return nil, errors.Wrapf(errors.ErrAlreadyExists, "chord %s position %d", c.Name, c.Position)
	}

	fingers, err := json.Marshal(c.Fingers)
	if err != nil {
		return nil, errors.Wrap(err, "encode fingers")
	}
	barres, err := json.Marshal(c.Barres)
	if err != nil {
		return nil, errors.Wrap(err, "encode barres")
	}

	rec := &Record{
		ID:        uuid.NewString(),
		Chord:     c,
		CreatedAt: time.Now().UTC(),
	}
	_, err = s.db.Exec(
		`INSERT INTO personal_chords (id, name, key, suffix, frets, fingers, base_fret, barres, position, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, c.Name, c.Key, c.Suffix, c.Frets.String(),
		string(fingers), c.BaseFret, string(barres), c.Position,
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "insert chord %s", c.Name)
	}
	logging.Debug("personal chord saved", "id", rec.ID, "name", c.Name, "position", c.Position)
	return rec, nil
}

// List returns all stored records ordered by name then position.
func (s *Store) List() ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT id, name, key, suffix, frets, fingers, base_fret, barres, position, created_at
		 FROM personal_chords ORDER BY name, position`,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list personal chords")
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Get returns the record with the given ID.
func (s *Store) Get(id string) (*Record, error) {
	row := s.db.QueryRow(
		`SELECT id, name, key, suffix, frets, fingers, base_fret, barres, position, created_at
		 FROM personal_chords WHERE id = ?`, id,
	)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("personal chord", id)
	}
	return rec, err
}

// Delete removes the record with the given ID.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM personal_chords WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "delete chord %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete chord")
	}
	if n == 0 {
		return errors.NewNotFound("personal chord", id)
	}
	return nil
}

// Chords returns all stored chords ready to merge into a library index.
func (s *Store) Chords() ([]chord.Chord, error) {
	records, err := s.List()
	if err != nil {
		return nil, err
	}
	chords := make([]chord.Chord, len(records))
	for i, rec := range records {
		chords[i] = rec.Chord
	}
	return chords, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		rec                     Record
		fretStr, createdAt      string
		fingersJSON, barresJSON sql.NullString
		key, suffix             sql.NullString
	)
	err := row.Scan(&rec.ID, &rec.Chord.Name, &key, &suffix, &fretStr,
		&fingersJSON, &rec.Chord.BaseFret, &barresJSON, &rec.Chord.Position, &createdAt)
	if err != nil {
		return nil, err
	}

	rec.Chord.Key = key.String
	rec.Chord.Suffix = suffix.String
	rec.Chord.Source = chord.SourcePersonal

	frets, err := chord.ParseFretString(fretStr)
	if err != nil {
		return nil, errors.Wrapf(err, "decode frets for %s", rec.ID)
	}
	rec.Chord.Frets = frets

	if fingersJSON.Valid && fingersJSON.String != "" && fingersJSON.String != "null" {
		if err := json.Unmarshal([]byte(fingersJSON.String), &rec.Chord.Fingers); err != nil {
			return nil, errors.Wrapf(err, "decode fingers for %s", rec.ID)
		}
	}
	if barresJSON.Valid && barresJSON.String != "" && barresJSON.String != "null" {
		if err := json.Unmarshal([]byte(barresJSON.String), &rec.Chord.Barres); err != nil {
			return nil, errors.Wrapf(err, "decode barres for %s", rec.ID)
		}
	}

	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		rec.CreatedAt = t
	}
	return &rec, nil
}
