package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/mediawatch/internal/db"
	"github.com/jonathan/mediawatch/internal/incident"
)

// createSubmissionRequest is the intake payload for a new submission.
type createSubmissionRequest struct {
	OwnerID      string `json:"owner_id" validate:"required,uuid"`
	ContentType  string `json:"content_type" validate:"required,oneof=factcheck complaint"`
	OutletID     string `json:"outlet_id,omitempty" validate:"omitempty,uuid"`
	IncidentDate string `json:"incident_date" validate:"required"`
	Programme    string `json:"programme" validate:"required,max=300"`
	Presenter    string `json:"presenter,omitempty" validate:"max=200"`
	ClaimText    string `json:"claim_text" validate:"required,max=10000"`
	Context      string `json:"context,omitempty" validate:"max=10000"`
	Severity     int    `json:"severity" validate:"required,min=1,max=10"`
	Tone         string `json:"tone,omitempty" validate:"omitempty,oneof=professional academic passionate"`
}

// parseQueryInt parses an integer query parameter with default and max values
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 0 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

// handleCreateSubmission validates intake, persists the submission in
// pending, and dispatches it. On the asynchronous path the response shows
// status pending and the client polls; on the inline fallback the terminal
// status is already visible in the response.
func (s *Server) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	var req createSubmissionRequest
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

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "owner_id", Message: "must be a UUID"})
		return
	}

	incidentDate, err := time.Parse("2006-01-02", req.IncidentDate)
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "incident_date", Message: "expected YYYY-MM-DD"})
		return
	}

	input := &db.SubmissionCreateInput{
		OwnerID:      ownerID,
		ContentType:  req.ContentType,
		IncidentDate: incidentDate,
		Programme:    req.Programme,
		Presenter:    req.Presenter,
		ClaimText:    req.ClaimText,
		Context:      req.Context,
		Severity:     req.Severity,
		Tone:         req.Tone,
	}
	if input.Tone == "" {
		input.Tone = string(incident.ToneProfessional)
	}

	if req.ContentType == db.ContentTypeComplaint {
		if req.OutletID == "" {
			s.writeError(w, &ErrValidation{Field: "outlet_id", Message: "required for complaints"})
			return
		}
		outletID, err := uuid.Parse(req.OutletID)
		if err != nil {
			s.writeError(w, &ErrValidation{Field: "outlet_id", Message: "must be a UUID"})
			return
		}
		outlet, err := s.db.GetOutlet(r.Context(), outletID)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
		if outlet == nil {
			s.writeError(w, &ErrNotFound{Resource: "outlet", ID: outletID})
			return
		}
		input.OutletID = &outletID
	}

	sub, err := s.db.CreateSubmission(r.Context(), input)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.notifier.SubmissionCreated(r.Context(), sub.OwnerID)

	if err := s.dispatcher.Dispatch(r.Context(), sub.ID); err != nil {
		// The submission is persisted; dispatch failures are recoverable via
		// the worker or the process-stuck sweep, so don't fail the intake.
		s.logger.Error("dispatch failed after intake",
			zap.String("submission_id", sub.ID.String()),
			zap.Error(err))
	}

	// Re-read so the inline path reports the terminal status.
	if current, err := s.db.GetSubmission(r.Context(), sub.ID); err == nil && current != nil {
		sub = current
	}

	s.jsonResponse(w, http.StatusCreated, sub)
}

// handleGetSubmission returns a submission, embedding the generated result
// once it is reviewed.
func (s *Server) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	sub, err := s.db.GetSubmission(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if sub == nil {
		s.writeError(w, &ErrNotFound{Resource: "submission", ID: id})
		return
	}

	response := map[string]any{"submission": sub}
	if sub.Status == db.StatusReviewed {
		result, err := s.db.GetResultBySubmission(r.Context(), sub.ID)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
		response["result"] = result
	}

	s.jsonResponse(w, http.StatusOK, response)
}

// handleListSubmissions lists submissions newest first with optional filters.
func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	opts := db.ListSubmissionsOptions{
		Status:      r.URL.Query().Get("status"),
		ContentType: r.URL.Query().Get("content_type"),
		Limit:       parseQueryInt(r, "limit", 50, 100),
		Offset:      parseQueryInt(r, "offset", 0, 0),
	}

	if ownerStr := r.URL.Query().Get("owner_id"); ownerStr != "" {
		ownerID, err := uuid.Parse(ownerStr)
		if err != nil {
			s.writeError(w, &ErrValidation{Field: "owner_id", Message: "must be a UUID"})
			return
		}
		opts.OwnerID = &ownerID
	}

	subs, err := s.db.ListSubmissions(r.Context(), opts)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"submissions": subs,
		"count":       len(subs),
		"limit":       opts.Limit,
		"offset":      opts.Offset,
	})
}

// handleRegenerate rolls a failed submission back to pending and dispatches
// it again. Only failed submissions can be regenerated.
func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	sub, err := s.db.GetSubmission(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if sub == nil {
		s.writeError(w, &ErrNotFound{Resource: "submission", ID: id})
		return
	}

	ok, err := s.db.Regenerate(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if !ok {
		s.writeError(w, &ErrConflict{Message: "only failed submissions can be regenerated"})
		return
	}

	if err := s.dispatcher.Dispatch(r.Context(), id); err != nil {
		s.logger.Error("dispatch failed after regenerate",
			zap.String("submission_id", id.String()),
			zap.Error(err))
	}

	if current, err := s.db.GetSubmission(r.Context(), id); err == nil && current != nil {
		sub = current
	}

	s.jsonResponse(w, http.StatusOK, sub)
}

// sendLetterRequest optionally overrides the delivery destination.
type sendLetterRequest struct {
	Destination string `json:"destination,omitempty" validate:"omitempty,email"`
}

// handleSendLetter delivers the generated complaint letter for a submission.
func (s *Server) handleSendLetter(w http.ResponseWriter, r *http.Request) {
	if s.letters == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Letter delivery is not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	var req sendLetterRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
			return
		}
		if err := s.validate.Struct(&req); err != nil {
			s.writeError(w, &ErrValidation{Field: "destination", Message: "must be an email address"})
			return
		}
	}

	result, err := s.db.GetResultBySubmission(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if result == nil {
		s.writeError(w, &ErrNotFound{Resource: "generated result for submission", ID: id})
		return
	}

	sent, err := s.letters.SendLetter(r.Context(), result.ID, req.Destination)
	if err != nil {
		// DeliveryError maps to 502 here; anything else is an internal
		// failure of ours.
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, sent)
}
