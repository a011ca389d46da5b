package insert

import (
	"github.com/strumkey/strumkey/core/chord"
	"github.com/strumkey/strumkey/core/diagram"
	"github.com/strumkey/strumkey/core/errors"
	"github.com/strumkey/strumkey/core/suggest"
	"github.com/strumkey/strumkey/core/tuning"
	"github.com/strumkey/strumkey/internal/logging"
)

// CustomFlow is the design-a-chord path: the user enters a fret encoding,
// previews the diagram, picks or types a name, and saves the chord into
// the personal partition.
type CustomFlow struct {
	ctrl        *Controller
	caretOffset int
	instrument  string
	tuning      string
}

// OpenCustom hands control to the custom-chord flow. The controller
// leaves the result list; the flow keeps the caret so a save can still
// emit an insertion.
func (c *Controller) OpenCustom(instrument, tun string) *CustomFlow {
	c.mu.Lock()
	defer c.mu.Unlock()
	flow := &CustomFlow{
		ctrl:        c,
		caretOffset: c.caretOffset,
		instrument:  instrument,
		tuning:      tun,
	}
	c.reset()
	return flow
}

// Preview lays out the entered encoding and proposes catalogue names for
// it. An invalid encoding yields a nil layout and no suggestions; the
// host disables save.
func (f *CustomFlow) Preview(frets string, scale float64) (*diagram.Layout, []string) {
	parsed, err := chord.ParseFretString(frets)
	if err != nil {
		logging.DiagramRejected(frets, err)
		return nil, nil
	}
	layout, err := diagram.New(diagram.Params{
		Frets:      parsed,
		Instrument: f.instrument,
		Tuning:     f.tuning,
		Scale:      scale,
	})
	if err != nil {
		logging.DiagramRejected(frets, err)
		return nil, nil
	}
	names := suggest.Suggest(frets, f.instrument, f.tuning, f.ctrl.lib.All())
	return layout, names
}

// CanSave reports whether the encoding passes the invariants, which gates
// the save action.
func (f *CustomFlow) CanSave(frets string) bool {
	parsed, err := chord.ParseFretString(frets)
	if err != nil {
		return false
	}
	_, err = chord.Normalize(parsed, 0, tuning.StringCount(f.instrument, f.tuning))
	return err == nil
}

// Save validates the chord, adds it to the personal partition, and emits
// the insertion for the host to apply at the original caret.
func (f *CustomFlow) Save(name, frets string) (*Insertion, error) {
	parsed, err := chord.ParseFretString(frets)
	if err != nil {
		return nil, err
	}
	if _, err := chord.Normalize(parsed, 0, tuning.StringCount(f.instrument, f.tuning)); err != nil {
		return nil, err
	}
	if _, err := chord.ParseName(name); err != nil {
		return nil, errors.NewValidation("name", err.Error())
	}

	saved, err := f.ctrl.lib.AddPersonal(chord.Chord{
		Name:  name,
		Frets: parsed,
	})
	if err != nil {
		return nil, err
	}
	return &Insertion{
		ChordName:   saved.Name,
		Position:    saved.Position,
		CaretOffset: f.caretOffset,
	}, nil
}
