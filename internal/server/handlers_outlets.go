package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/mediawatch/internal/db"
	"github.com/jonathan/mediawatch/internal/generation"
)

// createOutletRequest is the payload for registering a media outlet.
type createOutletRequest struct {
	Name            string `json:"name" validate:"required,max=300"`
	MediaType       string `json:"media_type" validate:"required,oneof=tv radio print online social"`
	ContactEmail    string `json:"contact_email,omitempty" validate:"omitempty,email"`
	ComplaintsEmail string `json:"complaints_email,omitempty" validate:"omitempty,email"`
	Website         string `json:"website,omitempty" validate:"omitempty,url"`
	Regulator       string `json:"regulator,omitempty" validate:"max=200"`
	Description     string `json:"description,omitempty" validate:"max=2000"`
}

func (s *Server) handleCreateOutlet(w http.ResponseWriter, r *http.Request) {
	var req createOutletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}

	if err := s.validate.Struct(&req); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			s.writeError(w, &ErrValidation{Field: invalid[0].Field(), Message: "failed " + invalid[0].Tag() + " check"})
			return
		}
		s.writeError(w, &ErrValidation{Field: "body", Message: "invalid request"})
		return
	}

	outlet, err := s.db.CreateOutlet(r.Context(), &db.OutletCreateInput{
		Name:            req.Name,
		MediaType:       req.MediaType,
		ContactEmail:    req.ContactEmail,
		ComplaintsEmail: req.ComplaintsEmail,
		Website:         req.Website,
		Regulator:       req.Regulator,
		Description:     req.Description,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, outlet)
}

func (s *Server) handleListOutlets(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	outlets, err := s.db.ListOutlets(r.Context(), includeInactive)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"outlets": outlets,
		"count":   len(outlets),
	})
}

func (s *Server) handleGetOutlet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	outlet, err := s.db.GetOutlet(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if outlet == nil {
		s.writeError(w, &ErrNotFound{Resource: "outlet", ID: id})
		return
	}

	s.jsonResponse(w, http.StatusOK, outlet)
}

// handleResearchOutlet crawls the outlet's website for complaint contact
// details and applies whatever was found. Existing values are kept when the
// research comes back empty.
func (s *Server) handleResearchOutlet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	outlet, err := s.db.GetOutlet(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if outlet == nil {
		s.writeError(w, &ErrNotFound{Resource: "outlet", ID: id})
		return
	}
	if outlet.Website == "" {
		s.writeError(w, &ErrConflict{Message: "outlet has no website to research"})
		return
	}

	findings, err := s.researcher.Research(r.Context(), outlet)
	if err != nil {
		var schemaErr *generation.SchemaError
		if errors.As(err, &schemaErr) {
			s.errorResponse(w, http.StatusBadGateway, "Research returned unusable content")
			return
		}
		s.errorResponse(w, http.StatusBadGateway, "Research failed: "+err.Error())
		return
	}

	updated, err := s.db.ApplyResearch(r.Context(), id,
		findings.ContactEmail, findings.ComplaintsEmail, findings.Regulator, findings.Notes)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if updated == nil {
		s.writeError(w, &ErrNotFound{Resource: "outlet", ID: id})
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"outlet":   updated,
		"findings": findings,
	})
}
