// Package transport wires the REST surface over the document and commit
// services. Paths and status codes are kept compatible with existing editor
// clients: persist failures map to 500 with memory already rolled back,
// missing documents to 404, deletes to 204.
package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studiokit/studio/internal/commitlog"
	"github.com/studiokit/studio/internal/document"
)

// Server wires HTTP handlers.
type Server struct {
	projects  *document.Service
	templates *document.Service
	commits   *commitlog.Log
	logger    *slog.Logger
}

// NewRouter creates the HTTP router over the given services.
func NewRouter(projects, templates *document.Service, commits *commitlog.Log, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{projects: projects, templates: templates, commits: commits, logger: logger}

	r.Get("/health", s.handleHealth)

	r.Route("/api/projects", func(r chi.Router) {
		r.Get("/", s.handleList(s.projects))
		r.Post("/", s.handleSave(s.projects))
		r.Get("/{id}", s.handleGet(s.projects))
		r.Delete("/{id}", s.handleDelete(s.projects))

		r.Get("/{id}/commits", s.handleListCommits)
		r.Post("/{id}/commits", s.handleAppendCommit)
		r.Delete("/{id}/commits", s.handleClearCommits)
	})

	r.Route("/api/templates", func(r chi.Router) {
		r.Get("/", s.handleList(s.templates))
		r.Post("/", s.handleSave(s.templates))
		r.Get("/{id}", s.handleGet(s.templates))
		r.Delete("/{id}", s.handleDelete(s.templates))
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleList(svc *document.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, svc.List())
	}
}

func (s *Server) handleSave(svc *document.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "reading body", http.StatusBadRequest)
			return
		}

		saved, err := svc.Save(body)
		if errors.Is(err, document.ErrInvalidDocument) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			s.logger.Error("save document failed", "error", err)
			http.Error(w, "persist failed", http.StatusInternalServerError)
			return
		}
		s.writeRaw(w, http.StatusOK, saved)
	}
}

func (s *Server) handleGet(svc *document.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := svc.Get(chi.URLParam(r, "id"))
		if errors.Is(err, document.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		s.writeRaw(w, http.StatusOK, doc)
	}
}

func (s *Server) handleDelete(svc *document.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.Delete(chi.URLParam(r, "id"))
		if errors.Is(err, document.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err != nil {
			s.logger.Error("delete document failed", "error", err)
			http.Error(w, "persist failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// commitPayload is the append-commit request body. The commit id is assigned
// server-side.
type commitPayload struct {
	Message   string          `json:"message"`
	Timestamp float64         `json:"timestamp"`
	Snapshot  json.RawMessage `json:"snapshot"`
}

func (s *Server) handleListCommits(w http.ResponseWriter, r *http.Request) {
	commits, err := s.commits.List(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, commits)
}

func (s *Server) handleAppendCommit(w http.ResponseWriter, r *http.Request) {
	var payload commitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid commit payload", http.StatusBadRequest)
		return
	}

	commit, err := s.commits.Append(chi.URLParam(r, "id"), payload.Message, payload.Timestamp, payload.Snapshot)
	if err != nil {
		s.logger.Error("append commit failed", "error", err)
		http.Error(w, "persist failed", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, commit)
}

func (s *Server) handleClearCommits(w http.ResponseWriter, r *http.Request) {
	err := s.commits.Clear(chi.URLParam(r, "id"))
	if errors.Is(err, commitlog.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("clear commits failed", "error", err)
		http.Error(w, "persist failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

func (s *Server) writeRaw(w http.ResponseWriter, status int, doc json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(doc)
}
