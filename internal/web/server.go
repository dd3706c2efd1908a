// Package web exposes the session over a local JSON API, for driving
// pthman from a browser or scripts instead of the TUI.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"pthman/internal/catalog"
	"pthman/internal/model"
	"pthman/internal/session"
)

// Server handles the HTTP surface around one session. The session
// assumes at most one in-flight command, so every request holds mu for
// its duration.
type Server struct {
	sess *session.Session
	mu   sync.Mutex
	log  zerolog.Logger
}

// New creates a server around sess.
func New(sess *session.Session, log zerolog.Logger) *Server {
	return &Server{sess: sess, log: log}
}

// Router builds the API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(s.serialize)

	r.Get("/api/healthz", s.handleHealth)
	r.Get("/api/versions", s.handleVersions)
	r.Post("/api/select", s.handleSelect)
	r.Get("/api/tree", s.handleTree)
	r.Post("/api/files", s.handleAddFile)
	r.Post("/api/entries", s.handleAddEntry)
	r.Put("/api/nodes/{id}", s.handleRename)
	r.Delete("/api/nodes/{id}", s.handleRemove)
	r.Get("/api/preview", s.handlePreview)
	r.Post("/api/save", s.handleSave)
	return r
}

// serialize admits one command at a time. The session and its tree are
// not safe for concurrent use; net/http runs handlers on per-connection
// goroutines.
func (s *Server) serialize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// Start blocks serving the API on addr.
func (s *Server) Start(addr string) error {
	s.log.Info().Str("addr", addr).Msg("web server listening")
	fmt.Printf("pthman web API at http://localhost%s/api/tree\n", addr)
	return http.ListenAndServe(addr, s.Router())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok", "version": model.Version})
}

func (s *Server) handleVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := s.sess.Versions()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string][]string{"versions": versions})
}

// SelectRequest is the body for POST /api/select.
type SelectRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.sess.Select(req.Name); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, catalog.ErrNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	s.writeTree(w)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	s.writeTree(w)
}

// AddFileRequest is the body for POST /api/files.
type AddFileRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleAddFile(w http.ResponseWriter, r *http.Request) {
	var req AddFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f, err := s.sess.AddFile(req.Name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, session.FileState{ID: f.NodeID(), Location: f.Location, Dirty: f.Dirty})
}

// AddEntryRequest is the body for POST /api/entries. ID may name a file
// or one of its entries; the value lands in that file either way.
type AddEntryRequest struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	var req AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	e, err := s.sess.AddEntry(req.ID, req.Path)
	if err != nil {
		s.writeNodeError(w, err)
		return
	}
	writeJSON(w, session.EntryState{ID: e.NodeID(), Value: e.Value, Dirty: e.Dirty})
}

// RenameRequest is the body for PUT /api/nodes/{id}.
type RenameRequest struct {
	Path string `json:"path"`
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.sess.SetEntryValue(chi.URLParam(r, "id"), req.Path); err != nil {
		s.writeNodeError(w, err)
		return
	}
	s.writeTree(w)
}

// RemoveResponse lists everything evicted by one remove command.
type RemoveResponse struct {
	Removed []string `json:"removed"`
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	removed, err := s.sess.Remove(chi.URLParam(r, "id"))
	if err != nil {
		s.writeNodeError(w, err)
		return
	}
	writeJSON(w, RemoveResponse{Removed: removed})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "missing path parameter", http.StatusBadRequest)
		return
	}
	writeJSON(w, model.GetDirPreview(path))
}

// SaveFailure mirrors one reconcile failure for the API.
type SaveFailure struct {
	Location string `json:"location"`
	Op       string `json:"op"`
	Error    string `json:"error"`
}

// SaveResponse reports the per-file outcome of a save command.
type SaveResponse struct {
	Saved    bool          `json:"saved"`
	Failures []SaveFailure `json:"failures,omitempty"`
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	failures := s.sess.Save()
	resp := SaveResponse{Saved: len(failures) == 0}
	for _, f := range failures {
		resp.Failures = append(resp.Failures, SaveFailure{
			Location: f.Location,
			Op:       f.Op,
			Error:    f.Err.Error(),
		})
	}
	writeJSON(w, resp)
}

func (s *Server) writeTree(w http.ResponseWriter) {
	state, err := s.sess.State()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, state)
}

func (s *Server) writeNodeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, model.ErrNotFound) {
		status = http.StatusNotFound
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
