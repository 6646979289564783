// Package generation calls the LLM backend and turns its output into a
// schema-validated document. It never touches submission state: callers own
// the state machine, this package owns one request/response exchange.
package generation

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/mediawatch/internal/db"
	"github.com/jonathan/mediawatch/internal/llm"
	"github.com/jonathan/mediawatch/internal/schemas"
)

// maxResponseBytes bounds how much model output we will parse. Anything
// larger than this is not a plausible document.
const maxResponseBytes = 1 << 20

// Document is the validated, decoded output of one generation run.
type Document struct {
	TheClaim    string        `json:"the_claim,omitempty"`
	TheProblem  string        `json:"the_problem,omitempty"`
	TheReality  string        `json:"the_reality,omitempty"`
	TheEvidence string        `json:"the_evidence,omitempty"`
	Perspective string        `json:"perspective,omitempty"`
	Subject     string        `json:"subject,omitempty"`
	Body        string        `json:"body,omitempty"`
	KeyPoints   []string      `json:"key_points,omitempty"`
	Citations   []db.Citation `json:"citations"`
}

// Adapter generates documents through an llm.Client.
type Adapter struct {
	client llm.Client
	logger *zap.Logger
}

// NewAdapter creates a generation adapter.
func NewAdapter(client llm.Client, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{client: client, logger: logger}
}

// Generate runs one generation exchange for the request and validates the
// response against the content type's schema. Errors are classified into the
// retry taxonomy; the caller decides what each class means for the
// submission's status.
func (a *Adapter) Generate(ctx context.Context, req *Request) (*Document, error) {
	prompt, err := buildPrompt(req)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("calling generation backend",
		zap.String("submission_id", req.Submission.ID.String()),
		zap.String("content_type", req.Submission.ContentType),
		zap.String("strategy", string(req.Strategy)))

	raw, err := a.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, Classify(fmt.Errorf("generation backend call failed: %w", err))
	}

	if raw == "" {
		return nil, &SchemaError{Message: "generation backend returned an empty response"}
	}
	if len(raw) > maxResponseBytes {
		return nil, &SchemaError{Message: fmt.Sprintf("generation backend response too large (%d bytes)", len(raw))}
	}

	schema := schemas.FactCheckSchema
	if req.Submission.ContentType == db.ContentTypeComplaint {
		schema = schemas.ComplaintLetterSchema
	}
	if err := schemas.ValidateJSONString(schema, raw); err != nil {
		return nil, &SchemaError{Message: "response does not match document schema", Cause: err}
	}

	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, &SchemaError{Message: "failed to decode validated response", Cause: err}
	}

	return &doc, nil
}
