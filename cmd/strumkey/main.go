// Command strumkey is the CLI for the Strumkey songbook engine.
// It renders lyric sources, lays out chord diagrams, searches the chord
// catalogue, manages personal chords, and serves the live preview.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/strumkey/strumkey/core/catalog"
	"github.com/strumkey/strumkey/core/chord"
	"github.com/strumkey/strumkey/core/diagram"
	"github.com/strumkey/strumkey/core/library"
	"github.com/strumkey/strumkey/core/songtext"
	"github.com/strumkey/strumkey/core/suggest"
	"github.com/strumkey/strumkey/core/tuning"
	"github.com/strumkey/strumkey/internal/logging"
	"github.com/strumkey/strumkey/internal/opensong"
	"github.com/strumkey/strumkey/internal/store"
	"github.com/strumkey/strumkey/internal/web"
)

const version = "0.1.0"

// CLI defines the command-line interface for strumkey.
var CLI struct {
	// Global flags
	LogLevel   string `name:"log-level" default:"warn" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat  string `name:"log-format" default:"text" enum:"text,json" help:"Log format"`
	Catalog    string `name:"catalog" short:"c" env:"STRUMKEY_CATALOG" help:"Chord catalogue path (.json or .json.xz)"`
	DB         string `name:"db" env:"STRUMKEY_DB" help:"Personal chord database path"`
	Instrument string `name:"instrument" default:"ukulele" help:"Instrument name"`
	Tuning     string `name:"tuning" default:"ukulele_standard" help:"Tuning label"`

	Chords   ChordsGroup   `cmd:"" help:"Catalogue operations (search, show, suggest)"`
	Render   RenderGroup   `cmd:"" help:"Render a lyric source (inline, above)"`
	Diagram  DiagramCmd    `cmd:"" help:"Lay out a chord diagram from a fret encoding"`
	Personal PersonalGroup `cmd:"" help:"Personal chord management"`
	Import   ImportGroup   `cmd:"" help:"Import songs from other formats"`
	Serve    ServeCmd      `cmd:"" help:"Start the live-preview server"`
	Version  VersionCmd    `cmd:"" help:"Print version information"`
}

// ChordsGroup contains catalogue query operations.
type ChordsGroup struct {
	Search  SearchCmd  `cmd:"" help:"Filter the catalogue by a (shorthand) query"`
	Show    ShowCmd    `cmd:"" help:"Show all variations of a chord name"`
	Suggest SuggestCmd `cmd:"" help:"Suggest names for a fret encoding"`
}

// RenderGroup contains lyric rendering operations.
type RenderGroup struct {
	Inline InlineCmd `cmd:"" help:"Render with markers inline in the lyrics"`
	Above  AboveCmd  `cmd:"" help:"Render with chords on a line above the lyrics"`
}

// PersonalGroup contains personal chord operations.
type PersonalGroup struct {
	Add    PersonalAddCmd    `cmd:"" help:"Save a personal chord"`
	List   PersonalListCmd   `cmd:"" help:"List personal chords"`
	Delete PersonalDeleteCmd `cmd:"" help:"Delete a personal chord by ID"`
}

// ImportGroup contains song import operations.
type ImportGroup struct {
	Opensong OpensongCmd `cmd:"" help:"Convert an OpenSong XML file to marker form"`
}

// SearchCmd filters the catalogue.
type SearchCmd struct {
	Query string `arg:"" optional:"" help:"Query, shorthand accepted (\"c sh\" matches C#)"`
	JSON  bool   `name:"json" help:"Emit JSON"`
}

func (c *SearchCmd) Run() error {
	lib, err := openLibrary()
	if err != nil {
		return err
	}
	results := lib.Filter(c.Query)
	if c.JSON {
		return printJSON(results)
	}
	for _, ch := range results {
		fmt.Printf("%-10s %-10s %s\n", ch.DisplayName(), ch.Frets.String(), ch.Source)
	}
	return nil
}

// ShowCmd lists the variations of one chord name.
type ShowCmd struct {
	Name string `arg:"" help:"Chord name, e.g. Am or C#:2"`
	JSON bool   `name:"json" help:"Emit JSON"`
}

func (c *ShowCmd) Run() error {
	lib, err := openLibrary()
	if err != nil {
		return err
	}
	name := chord.FormatName(c.Name)
	variations := lib.Variations(name)
	if len(variations) == 0 {
		return fmt.Errorf("no chord named %s in the catalogue", name)
	}
	if c.JSON {
		return printJSON(variations)
	}
	for _, ch := range variations {
		fmt.Printf("%s position %d: %s (base fret %d)\n", ch.Name, ch.Position, ch.Frets.String(), ch.BaseFret)
	}
	return nil
}

// SuggestCmd infers chord names from a fret encoding.
type SuggestCmd struct {
	Frets string `arg:"" help:"Fret encoding, e.g. 2220 or x-7-9-8"`
}

func (c *SuggestCmd) Run() error {
	lib, err := openLibrary()
	if err != nil {
		return err
	}
	names := suggest.Suggest(c.Frets, CLI.Instrument, CLI.Tuning, lib.All())
	if len(names) == 0 {
		fmt.Println("no matches")
		return nil
	}
	fmt.Println(strings.Join(names, " "))
	return nil
}

// InlineCmd renders a source with markers kept inline.
type InlineCmd struct {
	Path string `arg:"" help:"Lyric source path, - for stdin" default:"-"`
	JSON bool   `name:"json" help:"Emit segment JSON instead of text"`
}

func (c *InlineCmd) Run() error {
	source, err := readSource(c.Path)
	if err != nil {
		return err
	}
	lines := songtext.RenderInline(source)
	if c.JSON {
		return printJSON(lines)
	}
	for _, line := range lines {
		if line.Kind != songtext.LineContent {
			fmt.Println(line.Text)
			continue
		}
		var sb strings.Builder
		for _, seg := range line.Segments {
			if seg.Marker != nil {
				sb.WriteString(seg.Marker.Text())
			} else {
				sb.WriteString(seg.Text)
			}
		}
		fmt.Println(sb.String())
	}
	return nil
}

// AboveCmd renders a source with chords above the lyrics.
type AboveCmd struct {
	Path string `arg:"" help:"Lyric source path, - for stdin" default:"-"`
	JSON bool   `name:"json" help:"Emit segment JSON instead of text"`
}

func (c *AboveCmd) Run() error {
	source, err := readSource(c.Path)
	if err != nil {
		return err
	}
	lines := songtext.RenderAbove(source)
	if c.JSON {
		return printJSON(lines)
	}
	for _, line := range lines {
		if line.Kind != songtext.LineContent {
			fmt.Println(line.Text)
			continue
		}
		if chordLine := strings.TrimRight(line.ChordLine, " "); chordLine != "" {
			fmt.Println(chordLine)
		}
		fmt.Println(line.LyricLine)
	}
	return nil
}

// DiagramCmd lays out a chord diagram.
type DiagramCmd struct {
	Frets    string  `arg:"" help:"Fret encoding, e.g. 0003 or 7-9-9-8"`
	BaseFret int     `name:"base-fret" default:"0" help:"Base fret of the encoding window"`
	Scale    float64 `name:"scale" default:"1" help:"Uniform scale factor"`
}

func (c *DiagramCmd) Run() error {
	frets, err := chord.ParseFretString(c.Frets)
	if err != nil {
		return err
	}
	layout, err := diagram.New(diagram.Params{
		Frets:      frets,
		BaseFret:   c.BaseFret,
		Instrument: CLI.Instrument,
		Tuning:     CLI.Tuning,
		Scale:      c.Scale,
	})
	if err != nil {
		return err
	}
	return printJSON(layout)
}

// PersonalAddCmd saves a personal chord to the database.
type PersonalAddCmd struct {
	Name     string `arg:"" help:"Chord name, e.g. D7"`
	Frets    string `arg:"" help:"Fret encoding, e.g. 0232"`
	Key      string `name:"key" help:"Root key"`
	Suffix   string `name:"suffix" help:"Chord suffix"`
	BaseFret int    `name:"base-fret" default:"1" help:"Base fret"`
	Position int    `name:"position" default:"0" help:"Variation position (0 = next free)"`
}

func (c *PersonalAddCmd) Run() error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	frets, err := chord.ParseFretString(c.Frets)
	if err != nil {
		return err
	}
	name := chord.FormatName(c.Name)
	if _, err := chord.ParseName(name); err != nil {
		return err
	}
	rec, err := s.Save(chord.Chord{
		Name:     name,
		Key:      c.Key,
		Suffix:   c.Suffix,
		Frets:    frets,
		BaseFret: c.BaseFret,
		Position: c.Position,
	})
	if err != nil {
		return err
	}
	fmt.Printf("saved %s position %d (%s)\n", rec.Chord.Name, rec.Chord.Position, rec.ID)
	return nil
}

// PersonalListCmd lists stored personal chords.
type PersonalListCmd struct {
	JSON bool `name:"json" help:"Emit JSON"`
}

func (c *PersonalListCmd) Run() error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := s.List()
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(records)
	}
	for _, rec := range records {
		fmt.Printf("%s  %-10s %-10s %s\n", rec.ID, rec.Chord.DisplayName(), rec.Chord.Frets.String(),
			rec.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

// PersonalDeleteCmd removes a personal chord.
type PersonalDeleteCmd struct {
	ID string `arg:"" help:"Record ID from 'personal list'"`
}

func (c *PersonalDeleteCmd) Run() error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.Delete(c.ID); err != nil {
		return err
	}
	fmt.Println("deleted", c.ID)
	return nil
}

// OpensongCmd converts an OpenSong XML file.
type OpensongCmd struct {
	Path   string `arg:"" help:"OpenSong XML path" type:"existingfile"`
	Output string `name:"output" short:"o" help:"Output path (default stdout)"`
}

func (c *OpensongCmd) Run() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return err
	}
	song, err := opensong.Parse(data)
	if err != nil {
		return err
	}
	if c.Output != "" {
		return os.WriteFile(c.Output, []byte(song.Body+"\n"), 0o644)
	}
	if song.Title != "" {
		fmt.Printf("{heading:%s}\n", song.Title)
	}
	fmt.Println(song.Body)
	return nil
}

// ServeCmd starts the live-preview server.
type ServeCmd struct {
	Addr string `name:"addr" default:":8090" help:"Listen address"`
}

func (c *ServeCmd) Run() error {
	lib, err := openLibrary()
	if err != nil {
		return err
	}
	return web.NewServer(lib, CLI.Instrument, CLI.Tuning).ListenAndServe(c.Addr)
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("strumkey version %s (%d-string %s)\n", version, tuning.StringCount(CLI.Instrument, CLI.Tuning), CLI.Instrument)
	return nil
}

// Helper functions

// openLibrary loads the catalogue and merges stored personal chords.
// The database handle is released once the chords are in memory.
func openLibrary() (*library.Index, error) {
	lib := library.New()
	if CLI.Catalog != "" {
		cat, err := catalog.Load(CLI.Catalog)
		if err != nil {
			return nil, err
		}
		lib.Load(cat.Chords)
	}

	if CLI.DB == "" {
		return lib, nil
	}
	s, err := store.Open(CLI.DB)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	chords, err := s.Chords()
	if err != nil {
		return nil, err
	}
	for _, c := range chords {
		if _, err := lib.AddPersonal(c); err != nil {
			logging.Warn("skipping stored chord", "name", c.Name, "error", err)
		}
	}
	return lib, nil
}

func openStore() (*store.Store, error) {
	if CLI.DB == "" {
		return nil, fmt.Errorf("no database path: set --db or STRUMKEY_DB")
	}
	return store.Open(CLI.DB)
}

func readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func logLevel() logging.Level {
	switch CLI.LogLevel {
	case "debug":
		return logging.LevelDebug
	case "info":
		return logging.LevelInfo
	case "error":
		return logging.LevelError
	default:
		return logging.LevelWarn
	}
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("strumkey"),
		kong.Description("Strumkey - songbook chord insertion engine"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	format := logging.FormatText
	if CLI.LogFormat == "json" {
		format = logging.FormatJSON
	}
	logging.InitLogger(logLevel(), format)

	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
