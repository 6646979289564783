package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/mediawatch/internal/db"
	"github.com/jonathan/mediawatch/internal/notify"
)

type nopDispatcher struct{}

func (nopDispatcher) Dispatch(ctx context.Context, submissionID uuid.UUID) error { return nil }

type nopLetters struct{}

func (nopLetters) SendLetter(ctx context.Context, resultID uuid.UUID, destination string) (*db.GeneratedResult, error) {
	return nil, nil
}

// newTestServer builds a server without a database connection. Handlers that
// reach the database are covered in integration tests; these tests exercise
// request parsing and validation.
func newTestServer() *Server {
	return &Server{
		dispatcher: nopDispatcher{},
		letters:    nopLetters{},
		notifier:   notify.NopNotifier{},
		validate:   validator.New(),
		logger:     zap.NewNop(),
	}
}

func TestCreateSubmissionInvalidJSON(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/submissions", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	s.handleCreateSubmission(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestCreateSubmissionValidation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{
			name: "missing owner",
			body: map[string]any{
				"content_type":  "factcheck",
				"incident_date": "2026-03-01",
				"programme":     "Evening News",
				"claim_text":    "The claim",
				"severity":      5,
			},
		},
		{
			name: "bad content type",
			body: map[string]any{
				"owner_id":      uuid.NewString(),
				"content_type":  "press-release",
				"incident_date": "2026-03-01",
				"programme":     "Evening News",
				"claim_text":    "The claim",
				"severity":      5,
			},
		},
		{
			name: "severity out of range",
			body: map[string]any{
				"owner_id":      uuid.NewString(),
				"content_type":  "factcheck",
				"incident_date": "2026-03-01",
				"programme":     "Evening News",
				"claim_text":    "The claim",
				"severity":      11,
			},
		},
		{
			name: "unknown tone",
			body: map[string]any{
				"owner_id":      uuid.NewString(),
				"content_type":  "factcheck",
				"incident_date": "2026-03-01",
				"programme":     "Evening News",
				"claim_text":    "The claim",
				"severity":      5,
				"tone":          "sarcastic",
			},
		},
		{
			name: "missing claim text",
			body: map[string]any{
				"owner_id":      uuid.NewString(),
				"content_type":  "factcheck",
				"incident_date": "2026-03-01",
				"programme":     "Evening News",
				"severity":      5,
			},
		},
	}

	s := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/submissions", bytes.NewBuffer(payload))
			w := httptest.NewRecorder()
			s.handleCreateSubmission(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestCreateSubmissionBadIncidentDate(t *testing.T) {
	s := newTestServer()

	payload, _ := json.Marshal(map[string]any{
		"owner_id":      uuid.NewString(),
		"content_type":  "factcheck",
		"incident_date": "01/03/2026",
		"programme":     "Evening News",
		"claim_text":    "The claim",
		"severity":      5,
	})
	req := httptest.NewRequest(http.MethodPost, "/submissions", bytes.NewBuffer(payload))
	w := httptest.NewRecorder()
	s.handleCreateSubmission(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["error"] == "" {
		t.Error("expected error message in response")
	}
}

func TestCreateSubmissionComplaintRequiresOutlet(t *testing.T) {
	s := newTestServer()

	payload, _ := json.Marshal(map[string]any{
		"owner_id":      uuid.NewString(),
		"content_type":  "complaint",
		"incident_date": "2026-03-01",
		"programme":     "Evening News",
		"claim_text":    "The claim",
		"severity":      5,
	})
	req := httptest.NewRequest(http.MethodPost, "/submissions", bytes.NewBuffer(payload))
	w := httptest.NewRecorder()
	s.handleCreateSubmission(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestGetSubmissionInvalidID(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/submissions/not-a-uuid", nil)
	req.SetPathValue("id", "not-a-uuid")
	w := httptest.NewRecorder()
	s.handleGetSubmission(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestRegenerateInvalidID(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/submissions/nope/regenerate", nil)
	req.SetPathValue("id", "nope")
	w := httptest.NewRecorder()
	s.handleRegenerate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestSendLetterBadDestination(t *testing.T) {
	s := newTestServer()

	payload, _ := json.Marshal(map[string]any{"destination": "not-an-email"})
	req := httptest.NewRequest(http.MethodPost, "/submissions/"+uuid.NewString()+"/send", bytes.NewBuffer(payload))
	req.SetPathValue("id", uuid.NewString())
	w := httptest.NewRecorder()
	s.handleSendLetter(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestCreateOutletValidation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{
			name: "missing name",
			body: map[string]any{"media_type": "tv"},
		},
		{
			name: "bad media type",
			body: map[string]any{"name": "BBC News", "media_type": "carrier-pigeon"},
		},
		{
			name: "bad contact email",
			body: map[string]any{"name": "BBC News", "media_type": "tv", "contact_email": "nope"},
		},
		{
			name: "bad website",
			body: map[string]any{"name": "BBC News", "media_type": "tv", "website": "not a url"},
		},
	}

	s := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/outlets", bytes.NewBuffer(payload))
			w := httptest.NewRecorder()
			s.handleCreateOutlet(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestGetOutletInvalidID(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/outlets/xyz", nil)
	req.SetPathValue("id", "xyz")
	w := httptest.NewRecorder()
	s.handleGetOutlet(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestGetUserStatsInvalidID(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/users/xyz/stats", nil)
	req.SetPathValue("id", "xyz")
	w := httptest.NewRecorder()
	s.handleGetUserStats(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestParseQueryInt(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		key      string
		def      int
		max      int
		expected int
	}{
		{"missing uses default", "", "limit", 50, 100, 50},
		{"valid value", "limit=25", "limit", 50, 100, 25},
		{"clamped to max", "limit=500", "limit", 50, 100, 100},
		{"negative uses default", "offset=-3", "offset", 0, 0, 0},
		{"garbage uses default", "limit=abc", "limit", 50, 100, 50},
		{"no max means unclamped", "offset=9000", "offset", 0, 0, 9000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/submissions?"+tt.query, nil)
			got := parseQueryInt(req, tt.key, tt.def, tt.max)
			if got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}
