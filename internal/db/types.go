package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/mediawatch/internal/incident"
)

// Status values for a submission. Transitions are monotonic except
// failed -> pending, the explicit regenerate path.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusReviewed   = "reviewed"
	StatusFailed     = "failed"
)

// ContentType values for a submission
const (
	ContentTypeFactCheck = "factcheck"
	ContentTypeComplaint = "complaint"
)

// Media type constants for outlets
const (
	MediaTypeTV     = "tv"
	MediaTypeRadio  = "radio"
	MediaTypePrint  = "print"
	MediaTypeOnline = "online"
	MediaTypeSocial = "social"
)

// ValidTransition reports whether moving a submission from one status to
// another is allowed by the state machine.
func ValidTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusProcessing
	case StatusProcessing:
		return to == StatusReviewed || to == StatusFailed
	case StatusFailed:
		return to == StatusPending
	default:
		return false
	}
}

// ValidContentType reports whether ct is a supported content type.
func ValidContentType(ct string) bool {
	return ct == ContentTypeFactCheck || ct == ContentTypeComplaint
}

// Submission is one user-initiated request for generated content
type Submission struct {
	ID            uuid.UUID    `json:"id"`
	OwnerID       uuid.UUID    `json:"owner_id"`
	ContentType   string       `json:"content_type"`
	OutletID      *uuid.UUID   `json:"outlet_id,omitempty"`
	IncidentDate  time.Time    `json:"incident_date"`
	Programme     string       `json:"programme"`
	Presenter     string       `json:"presenter,omitempty"`
	ClaimText     string       `json:"claim_text"`
	Context       string       `json:"context,omitempty"`
	Severity      int          `json:"severity"`
	Tone          string       `json:"tone"`
	Status        string       `json:"status"`
	FailureReason *string      `json:"failure_reason,omitempty"`
	IncidentKey   incident.Key `json:"incident_key"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Citation is a single source reference in a generated document
type Citation struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// GeneratedResult is the structured output of a successful generation run.
// Exactly one row exists per reviewed submission; a successful regenerate
// overwrites it rather than growing a history.
type GeneratedResult struct {
	ID           uuid.UUID  `json:"id"`
	SubmissionID uuid.UUID  `json:"submission_id"`
	ContentType  string     `json:"content_type"`
	TheClaim     string     `json:"the_claim,omitempty"`
	TheProblem   string     `json:"the_problem,omitempty"`
	TheReality   string     `json:"the_reality,omitempty"`
	TheEvidence  string     `json:"the_evidence,omitempty"`
	Perspective  string     `json:"perspective,omitempty"`
	Subject      string     `json:"subject,omitempty"`
	Body         string     `json:"body,omitempty"`
	KeyPoints    []string   `json:"key_points,omitempty"`
	Citations    []Citation `json:"citations"`
	Strategy     string     `json:"strategy"`
	ToneUsed     string     `json:"tone_used"`
	GeneratedAt  time.Time  `json:"generated_at"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	SentTo       *string    `json:"sent_to,omitempty"`
}

// Outlet is a media organization that complaints can target
type Outlet struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MediaType       string    `json:"media_type"`
	ContactEmail    string    `json:"contact_email"`
	ComplaintsEmail string    `json:"complaints_email,omitempty"`
	Website         string    `json:"website,omitempty"`
	Regulator       string    `json:"regulator,omitempty"`
	Description     string    `json:"description,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// RecipientAddress resolves where a complaint letter should be sent: the
// dedicated complaints department when known, the general contact otherwise.
func (o *Outlet) RecipientAddress() string {
	if o.ComplaintsEmail != "" {
		return o.ComplaintsEmail
	}
	return o.ContactEmail
}

// UserStats holds per-user activism counters consumed by the gamification
// collaborator
type UserStats struct {
	UserID            uuid.UUID  `json:"user_id"`
	TotalSubmitted    int        `json:"total_submitted"`
	TotalReviewed     int        `json:"total_reviewed"`
	TotalSent         int        `json:"total_sent"`
	Points            int        `json:"points"`
	FirstSubmissionAt *time.Time `json:"first_submission_at,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
