package server

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ayusman/handrps/internal/app"
	"github.com/ayusman/handrps/internal/game"
	"github.com/ayusman/handrps/internal/store"
)

// DefaultListLimit is how many matches GET /api/matches returns without ?limit.
const DefaultListLimit = 20

// MaxListLimit caps ?limit.
const MaxListLimit = 500

// matchHandler serves the match history.
type matchHandler struct {
	store  *store.Store
	logger *log.Logger
}

type listMatchesResponse struct {
	Matches []*game.MatchSummary `json:"matches"`
}

// list handles GET /api/matches.
func (h *matchHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, MaxListLimit)
	}

	matches, err := h.store.Matches().List(limit)
	if err != nil {
		h.logger.Printf("list matches: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list matches")
		return
	}
	if matches == nil {
		matches = []*game.MatchSummary{}
	}

	writeJSON(w, http.StatusOK, listMatchesResponse{Matches: matches})
}

// get handles GET /api/matches/{id}.
func (h *matchHandler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	m, err := h.store.Matches().GetByID(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}
	if err != nil {
		h.logger.Printf("get match %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to get match")
		return
	}

	writeJSON(w, http.StatusOK, m)
}

// stats handles GET /api/stats.
func (h *matchHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Matches().Stats()
	if err != nil {
		h.logger.Printf("match stats: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

type startMatchResponse struct {
	Status string `json:"status"`
}

// handleStartMatch handles POST /api/matches.
func (s *Server) handleStartMatch(w http.ResponseWriter, r *http.Request) {
	if s.config.Matches == nil {
		writeError(w, http.StatusServiceUnavailable, "no game session")
		return
	}

	err := s.config.Matches.Restart()
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, startMatchResponse{Status: "starting"})
	case errors.Is(err, app.ErrMatchRunning):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, app.ErrNotStarted), errors.Is(err, app.ErrSessionEnded):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.logger.Printf("start match: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to start match")
	}
}
