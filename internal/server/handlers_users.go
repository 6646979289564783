package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/mediawatch/internal/db"
)

// handleGetUserStats returns a user's activity counters. Users with no
// recorded activity get a zeroed row rather than a 404.
func (s *Server) handleGetUserStats(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	stats, err := s.db.GetUserStats(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if stats == nil {
		stats = &db.UserStats{UserID: id}
	}

	s.jsonResponse(w, http.StatusOK, stats)
}
