package generation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/mediawatch/internal/db"
	"github.com/jonathan/mediawatch/internal/incident"
	"github.com/jonathan/mediawatch/internal/llm"
)

// fakeClient returns a canned response or error for every call.
type fakeClient struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake-model" }
func (f *fakeClient) Close() error                  { return nil }

func factCheckSubmission() *db.Submission {
	return &db.Submission{
		ID:           uuid.New(),
		OwnerID:      uuid.New(),
		ContentType:  db.ContentTypeFactCheck,
		IncidentDate: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		Programme:    "Question Time",
		ClaimText:    "The government has run out of money",
		Severity:     8,
		Tone:         string(incident.ToneProfessional),
	}
}

func complaintSubmission(outletID uuid.UUID) *db.Submission {
	sub := factCheckSubmission()
	sub.ContentType = db.ContentTypeComplaint
	sub.OutletID = &outletID
	sub.Presenter = "A Presenter"
	return sub
}

const validFactCheckJSON = `{
	"the_claim": "The government has run out of money",
	"the_problem": "This framing treats the currency issuer as a household.",
	"the_reality": "A currency-issuing government cannot involuntarily run out of its own currency.",
	"the_evidence": "- Bank of England money creation paper",
	"perspective": "The real constraints are inflation and real resources.",
	"citations": [{"title": "Money creation in the modern economy", "url": "https://www.bankofengland.co.uk/quarterly-bulletin/2014/q1"}]
}`

const validLetterJSON = `{
	"subject": "Formal complaint regarding coverage on 11 March 2026",
	"body": "Dear Sir/Madam, ... Yours faithfully",
	"key_points": ["Deficits are private sector surpluses"],
	"citations": [{"title": "ONS public sector finances", "url": "https://www.ons.gov.uk"}]
}`

func TestGenerateFactCheck(t *testing.T) {
	client := &fakeClient{response: validFactCheckJSON}
	adapter := NewAdapter(client, nil)

	doc, err := adapter.Generate(context.Background(), &Request{
		Submission: factCheckSubmission(),
		Tone:       incident.ToneProfessional,
	})
	require.NoError(t, err)
	assert.Equal(t, "The government has run out of money", doc.TheClaim)
	assert.Len(t, doc.Citations, 1)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "The government has run out of money")
	assert.Contains(t, client.prompts[0], "No additional context provided")
}

func TestGenerateComplaintLetter(t *testing.T) {
	outlet := &db.Outlet{
		ID:        uuid.New(),
		Name:      "BBC News",
		MediaType: db.MediaTypeTV,
		Regulator: "Ofcom",
	}
	client := &fakeClient{response: validLetterJSON}
	adapter := NewAdapter(client, nil)

	doc, err := adapter.Generate(context.Background(), &Request{
		Submission:      complaintSubmission(outlet.ID),
		Outlet:          outlet,
		Strategy:        incident.StrategyTraining,
		Tone:            incident.ToneAcademic,
		ComplaintNumber: 2,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Subject)
	assert.NotEmpty(t, doc.Body)

	require.Len(t, client.prompts, 1)
	prompt := client.prompts[0]
	assert.Contains(t, prompt, "BBC News")
	assert.Contains(t, prompt, "Ofcom")
	assert.Contains(t, prompt, "complaint #2")
	assert.Contains(t, prompt, "staff training")
	assert.Contains(t, prompt, "To the Editorial Team")
}

func TestGenerateComplaintRequiresOutlet(t *testing.T) {
	adapter := NewAdapter(&fakeClient{response: validLetterJSON}, nil)

	_, err := adapter.Generate(context.Background(), &Request{
		Submission: complaintSubmission(uuid.New()),
		Strategy:   incident.StrategyCorrection,
		Tone:       incident.ToneProfessional,
	})
	assert.Error(t, err)
}

func TestGenerateSchemaViolation(t *testing.T) {
	// Missing the required citations section.
	client := &fakeClient{response: `{"the_claim": "x", "the_problem": "y", "the_reality": "z", "the_evidence": "e", "perspective": "p"}`}
	adapter := NewAdapter(client, nil)

	_, err := adapter.Generate(context.Background(), &Request{Submission: factCheckSubmission()})
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestGenerateTruncatedResponse(t *testing.T) {
	client := &fakeClient{response: `{"the_claim": "x", "the_p`}
	adapter := NewAdapter(client, nil)

	_, err := adapter.Generate(context.Background(), &Request{Submission: factCheckSubmission()})
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestGenerateEmptyResponse(t *testing.T) {
	adapter := NewAdapter(&fakeClient{response: ""}, nil)

	_, err := adapter.Generate(context.Background(), &Request{Submission: factCheckSubmission()})
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestGenerateProviderErrorClassified(t *testing.T) {
	adapter := NewAdapter(&fakeClient{err: errors.New("429: rate limit exceeded")}, nil)

	_, err := adapter.Generate(context.Background(), &Request{Submission: factCheckSubmission()})
	var transient *TransientError
	require.ErrorAs(t, err, &transient)
}
