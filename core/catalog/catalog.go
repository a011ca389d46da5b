// Package catalog ingests chord catalogues from JSON files, optionally
// xz-compressed, and records a BLAKE3 checksum of the raw bytes.
package catalog

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/strumkey/strumkey/core/chord"
	"github.com/strumkey/strumkey/core/errors"
	"github.com/strumkey/strumkey/internal/logging"
)

// Catalog is an ingested chord catalogue.
type Catalog struct {
	// Chords in catalogue order.
	Chords []chord.Chord `json:"chords"`

	// Checksum is the BLAKE3 hash of the raw file bytes, hex-encoded.
	Checksum string `json:"checksum"`
}

// catalogFile is the on-disk shape. A bare array of chords is also
// accepted.
type catalogFile struct {
	Chords []chord.Chord `json:"chords"`
}

// Load reads a catalogue from a path. Files ending in .xz are
// decompressed first.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read catalogue %s", path)
	}

	data := raw
	if strings.HasSuffix(path, ".xz") {
		r, err := xz.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, errors.NewParse("xz", path, err.Error())
		}
		data, err = io.ReadAll(r)
		if err != nil {
			return nil, errors.NewParse("xz", path, err.Error())
		}
	}

	cat, err := Parse(data)
	if err != nil {
		var parseErr *errors.ParseError
		if errors.As(err, &parseErr) {
			parseErr.Path = path
		}
		return nil, err
	}

	sum := blake3.Sum256(raw)
	cat.Checksum = hex.EncodeToString(sum[:])
	logging.CatalogLoaded(path, cat.Checksum, len(cat.Chords))
	return cat, nil
}

// Parse decodes catalogue JSON: either {"chords": [...]} or a bare array.
func Parse(data []byte) (*Catalog, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, errors.NewParse("JSON", "", "empty catalogue")
	}

	var chords []chord.Chord
	if trimmed[0] == '[' {
		if err := json.Unmarshal(data, &chords); err != nil {
			return nil, errors.NewParse("JSON", "", err.Error())
		}
	} else {
		var file catalogFile
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, errors.NewParse("JSON", "", err.Error())
		}
		chords = file.Chords
	}

	sum := blake3.Sum256(data)
	return &Catalog{
		Chords:   chords,
		Checksum: hex.EncodeToString(sum[:]),
	}, nil
}
