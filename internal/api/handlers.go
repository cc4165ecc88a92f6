package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"nugettree/pkg/deps"
	"nugettree/pkg/nuget"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePackage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	version := r.URL.Query().Get("version")
	framework := r.URL.Query().Get("framework")

	info, err := s.fetcher.FetchPackage(r.Context(), id, version, framework)
	if err != nil {
		s.writeResolveError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	version := r.URL.Query().Get("version")
	framework := r.URL.Query().Get("framework")

	tree, err := deps.Resolve(r.Context(), s.fetcher, id, version, framework)
	if err != nil {
		s.writeResolveError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// writeResolveError maps resolution errors to HTTP statuses: unknown
// packages are 404, everything else (registry misconfiguration, network
// failures) is 502.
func (s *Server) writeResolveError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, nuget.ErrNotFound) {
		writeError(w, http.StatusNotFound, "package not found: "+id)
		return
	}
	s.logger.Error("resolve failed", "package", id, "err", err)
	writeError(w, http.StatusBadGateway, "registry error: "+err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
