package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zjrosen/keyreg/internal/app"
	"github.com/zjrosen/keyreg/internal/log"
	"github.com/zjrosen/keyreg/internal/presentation"
	"github.com/zjrosen/keyreg/internal/registry"
)

// handleNames returns the configured registry names in order.
func (s *Server) handleNames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Names())
}

// handleListing returns the full transformed contents of one registry.
func (s *Server) handleListing(w http.ResponseWriter, r *http.Request) {
	reg, ok := s.registry(w, r)
	if !ok {
		return
	}
	format, ok := s.format(w, r)
	if !ok {
		return
	}

	view := reg.View()
	body, err := presentation.NewPublisher(view, format).Render()
	if err != nil {
		log.ErrorErr(log.CatHTTP, "render listing failed", err, "name", reg.Name())
		writeError(w, http.StatusInternalServerError, "failed to render registry")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set(RevisionHeader, view.Revision())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// handleRecord returns the output record for one key.
func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	reg, ok := s.registry(w, r)
	if !ok {
		return
	}
	format, ok := s.format(w, r)
	if !ok {
		return
	}

	key := chi.URLParam(r, "key")
	view := reg.View()
	rec, err := view.Lookup(key)
	if errors.Is(err, registry.ErrUnknownKey) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		log.ErrorErr(log.CatHTTP, "lookup failed", err, "name", reg.Name(), "key", key)
		writeError(w, http.StatusInternalServerError, "failed to render record")
		return
	}

	var buf bytes.Buffer
	if err := presentation.NewFormatter(&buf, format).Format(rec); err != nil {
		log.ErrorErr(log.CatHTTP, "render record failed", err, "name", reg.Name(), "key", key)
		writeError(w, http.StatusInternalServerError, "failed to render record")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set(RevisionHeader, view.Revision())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// registry resolves the {name} parameter, writing a 404 when it is unknown.
func (s *Server) registry(w http.ResponseWriter, r *http.Request) (*registry.Registry, bool) {
	name := chi.URLParam(r, "name")
	reg, err := s.catalog.Get(name)
	if errors.Is(err, app.ErrUnknownRegistry) {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return reg, true
}

// format reads ?format=, falling back to the server default.
func (s *Server) format(w http.ResponseWriter, r *http.Request) (presentation.Format, bool) {
	raw := r.URL.Query().Get("format")
	if raw == "" {
		return s.opts.Format, true
	}
	format, err := presentation.ParseFormat(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return format, true
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
