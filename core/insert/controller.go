// Package insert drives the chord-insertion flow: it filters the library
// for a query, orders the result list, tracks the keyboard selection, and
// emits the marker to insert on commit.
package insert

import (
	"strings"
	"sync"
	"time"

	"github.com/strumkey/strumkey/core/chord"
	"github.com/strumkey/strumkey/core/library"
)

// DebounceWindow is the coalescing window for filter recomputation. Only
// the most recent query's results are ever surfaced.
const DebounceWindow = 400 * time.Millisecond

// DefaultRenderLimit caps the "all chords" section until the user picks
// the show-more entry.
const DefaultRenderLimit = 20

// ResultKind identifies a row of the result list.
type ResultKind int

const (
	// KindElement is a non-chord suggestion (heading or instruction).
	KindElement ResultKind = iota
	// KindUsed is a chord already referenced by the song.
	KindUsed
	// KindCommon is a position-1 library chord.
	KindCommon
	// KindAll is a library chord from the full set.
	KindAll
	// KindShowMore expands the capped "all" section.
	KindShowMore
	// KindCustom is the trailing create-custom-chord sentinel.
	KindCustom
)

// Result is one row of the ordered result list.
type Result struct {
	Kind    ResultKind   `json:"kind"`
	Chord   *chord.Chord `json:"chord,omitempty"`
	Element string       `json:"element,omitempty"`
	Label   string       `json:"label"`
}

// Insertion is the value handed to the host on commit. The host inserts
// the textual marker form at the caret.
type Insertion struct {
	ChordName   string `json:"chordName"`
	Position    int    `json:"position"`
	CaretOffset int    `json:"caretOffset"`
}

// MarkerText returns the text the host writes into the lyrics source.
func (i Insertion) MarkerText() string {
	return chord.Chord{Name: i.ChordName, Position: i.Position}.MarkerText()
}

// State is the controller lifecycle state.
type State int

const (
	// Idle means no insertion is in progress.
	Idle State = iota
	// Active means the result list is open and a selection exists.
	Active
)

// elementNames are the non-chord suggestions offered alongside chords.
var elementNames = []string{"heading", "instruction"}

// Controller is the insertion state machine. All mutation goes through
// its methods; the zero value is not usable, call New.
type Controller struct {
	mu  sync.Mutex
	lib *library.Index

	state         State
	query         string
	caretOffset   int
	selectedIndex int
	results       []Result

	limit    int
	expanded bool

	// debounce window; 0 recomputes synchronously.
	window     time.Duration
	generation int
	timer      *time.Timer

	// onResults surfaces a recomputed result list to the host. Only the
	// most recent query's results are delivered.
	onResults func([]Result)
}

// Option configures a Controller.
type Option func(*Controller)

// WithRenderLimit overrides the cap on the "all chords" section.
func WithRenderLimit(n int) Option {
	return func(c *Controller) { c.limit = n }
}

// WithDebounce overrides the coalescing window. Zero disables coalescing
// and recomputes synchronously.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) { c.window = d }
}

// WithResultSink registers a callback invoked whenever a debounced
// recomputation surfaces.
func WithResultSink(sink func([]Result)) Option {
	return func(c *Controller) { c.onResults = sink }
}

// New creates a controller over a library index.
func New(lib *library.Index, opts ...Option) *Controller {
	c := &Controller{
		lib:    lib,
		limit:  DefaultRenderLimit,
		window: DebounceWindow,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Open activates the controller with an initial query and the caret the
// eventual marker will land at. The selection starts at the top.
func (c *Controller) Open(initialQuery string, caretOffset int) []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Active
	c.query = initialQuery
	c.caretOffset = caretOffset
	c.selectedIndex = 0
	c.expanded = false
	c.recompute()
	return c.results
}

// SetQuery updates the query. Recomputation is coalesced into the
// debounce window; a newer query cancels an older pending one. The
// selection index is clamped into the new result list.
func (c *Controller) SetQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Active {
		return
	}
	c.query = query
	c.expanded = false
	c.generation++

	if c.window <= 0 {
		c.recompute()
		c.surface()
		return
	}

	gen := c.generation
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.window, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		// A newer keystroke superseded this recomputation.
		if gen != c.generation || c.state != Active {
			return
		}
		c.recompute()
		c.surface()
	})
}

func (c *Controller) surface() {
	if c.onResults != nil {
		results := make([]Result, len(c.results))
		copy(results, c.results)
		c.onResults(results)
	}
}

// Results returns the current result list.
func (c *Controller) Results() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Result, len(c.results))
	copy(out, c.results)
	return out
}

// SelectedIndex returns the current selection.
func (c *Controller) SelectedIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedIndex
}

// MoveSelection moves the selection by delta, saturating at the list
// bounds.
func (c *Controller) MoveSelection(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Active {
		return
	}
	c.selectedIndex += delta
	c.clamp()
}

// Select sets the selection directly (mouse hover/click equivalent).
func (c *Controller) Select(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Active {
		return
	}
	c.selectedIndex = index
	c.clamp()
}

// Commit resolves the current selection.
//
// For a chord row it returns the Insertion and transitions to Idle. For
// the show-more row it expands the list and stays Active. For an element
// or the custom sentinel it returns (nil, kind): the host opens the
// matching flow. Commit on an empty list is a no-op.
func (c *Controller) Commit() (*Insertion, ResultKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Active || len(c.results) == 0 {
		return nil, KindCustom
	}

	selected := c.results[c.selectedIndex]
	switch selected.Kind {
	case KindShowMore:
		c.expanded = true
		c.recompute()
		return nil, KindShowMore
	case KindElement:
		c.reset()
		return nil, KindElement
	case KindCustom:
		// The custom-chord flow takes over; see CustomFlow.
		return nil, KindCustom
	default:
		insertion := &Insertion{
			ChordName:   selected.Chord.Name,
			Position:    selected.Chord.Position,
			CaretOffset: c.caretOffset,
		}
		c.reset()
		return insertion, selected.Kind
	}
}

// Cancel discards the in-progress insertion.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// reset returns to Idle. Callers hold the lock.
func (c *Controller) reset() {
	c.state = Idle
	c.query = ""
	c.selectedIndex = 0
	c.results = nil
	c.expanded = false
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// clamp keeps the selection inside the result list. Callers hold the lock.
func (c *Controller) clamp() {
	if c.selectedIndex < 0 {
		c.selectedIndex = 0
	}
	if max := len(c.results) - 1; c.selectedIndex > max {
		c.selectedIndex = max
	}
	if c.selectedIndex < 0 {
		c.selectedIndex = 0
	}
}

// recompute rebuilds the ordered result list for the current query.
// Order: elements, used-in-song, common (position 1), the full set
// (capped until expanded), then the custom sentinel. Callers hold the
// lock.
func (c *Controller) recompute() {
	filtered := c.lib.Filter(c.query)
	used, rest := c.lib.Partition(filtered)
	common, all := library.SplitCommon(rest)

	results := make([]Result, 0, len(filtered)+4)

	needle := strings.ToLower(strings.TrimSpace(c.query))
	if needle != "" {
		for _, name := range elementNames {
			if strings.Contains(name, needle) {
				results = append(results, Result{Kind: KindElement, Element: name, Label: name})
			}
		}
	}

	for i := range used {
		results = append(results, Result{Kind: KindUsed, Chord: &used[i], Label: used[i].DisplayName()})
	}
	for i := range common {
		results = append(results, Result{Kind: KindCommon, Chord: &common[i], Label: common[i].DisplayName()})
	}

	capped := all
	truncated := false
	if !c.expanded && c.limit > 0 && len(capped) > c.limit {
		capped = capped[:c.limit]
		truncated = true
	}
	for i := range capped {
		results = append(results, Result{Kind: KindAll, Chord: &capped[i], Label: capped[i].DisplayName()})
	}
	if truncated {
		results = append(results, Result{Kind: KindShowMore, Label: "Show more"})
	}

	results = append(results, Result{Kind: KindCustom, Label: "Create custom chord"})

	c.results = results
	c.clamp()
}
