package server

import (
	"errors"
	"net/http"

	"github.com/hupe1980/researchmesh/core"
)

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	identity := s.identity(w, r)
	if identity == nil {
		return
	}
	records, err := s.store.List(r.Context(), identity.ID)
	if err != nil {
		s.logger.Error("Failed to list sessions", "owner_id", identity.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": records})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	identity := s.identity(w, r)
	if identity == nil {
		return
	}
	rec, err := s.store.Get(r.Context(), r.PathValue("id"), identity.ID)
	if errors.Is(err, core.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		s.logger.Error("Failed to get session", "owner_id", identity.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get session")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	identity := s.identity(w, r)
	if identity == nil {
		return
	}
	deleted, err := s.store.Delete(r.Context(), r.PathValue("id"), identity.ID)
	if err != nil {
		s.logger.Error("Failed to delete session", "owner_id", identity.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete session")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
