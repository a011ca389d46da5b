// Package web serves the live preview: editors POST lyric source to
// /render and subscribers on /ws receive the re-rendered document as
// JSON. Single writer, latest-wins.
package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/strumkey/strumkey/core/diagram"
	"github.com/strumkey/strumkey/core/library"
	"github.com/strumkey/strumkey/core/songtext"
	"github.com/strumkey/strumkey/internal/logging"
)

// RenderRequest is the body of POST /render.
type RenderRequest struct {
	Source     string  `json:"source"`
	Instrument string  `json:"instrument,omitempty"`
	Tuning     string  `json:"tuning,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
}

// ChordDiagram pairs a chord name with its rendered layout.
type ChordDiagram struct {
	Name   string          `json:"name"`
	Layout *diagram.Layout `json:"layout"`
}

// RenderUpdate is broadcast to subscribers after every render.
type RenderUpdate struct {
	Inline   []songtext.InlineLine `json:"inline"`
	Above    []songtext.AboveLine  `json:"above"`
	Diagrams []ChordDiagram        `json:"diagrams"`
}

// Server is the live-preview HTTP server.
type Server struct {
	hub        *Hub
	lib        *library.Index
	instrument string
	tuning     string
}

// NewServer creates a preview server over the given library index.
func NewServer(lib *library.Index, instrument, tuning string) *Server {
	return &Server{
		hub:        NewHub(),
		lib:        lib,
		instrument: instrument,
		tuning:     tuning,
	}
}

// Handler returns the HTTP routes: GET /ws, POST /render, GET /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/render", s.handleRender)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	// The upgrade handler needs the raw ResponseWriter (Hijacker), so it
	// bypasses the logging middleware's wrapper.
	root := http.NewServeMux()
	root.HandleFunc("/ws", s.hub.handleWebSocket)
	root.Handle("/", logging.CombinedMiddleware(mux))
	return root
}

// ListenAndServe starts the hub and serves on addr. It blocks.
func (s *Server) ListenAndServe(addr string) error {
	go s.hub.Run()
	logging.ServerStartup("preview", "http", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("bad request: %v", err), http.StatusBadRequest)
		return
	}

	update := s.Render(req)
	s.hub.Broadcast(update)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(update); err != nil {
		logging.Error("failed to encode render response", "error", err)
	}
}

// Render renders lyric source into both layouts plus one diagram per
// distinct chord name used. Chords missing from the library render no
// diagram; they still appear in the text layouts.
func (s *Server) Render(req RenderRequest) RenderUpdate {
	update := RenderUpdate{
		Inline: songtext.RenderInline(req.Source),
		Above:  songtext.RenderAbove(req.Source),
	}

	scale := req.Scale
	if scale <= 0 {
		scale = 1
	}
	instrument := req.Instrument
	if instrument == "" {
		instrument = s.instrument
	}
	tun := req.Tuning
	if tun == "" {
		tun = s.tuning
	}

	for _, name := range songtext.UsedNames(req.Source) {
		variations := s.lib.Variations(name)
		if len(variations) == 0 {
			continue
		}
		c := variations[0]
		layout, err := diagram.New(diagram.Params{
			Frets:      c.Frets,
			BaseFret:   c.BaseFret,
			Instrument: instrument,
			Tuning:     tun,
			Scale:      scale,
		})
		if err != nil {
			logging.DiagramRejected(c.Frets.String(), err)
			continue
		}
		update.Diagrams = append(update.Diagrams, ChordDiagram{Name: name, Layout: layout})
	}
	return update
}
