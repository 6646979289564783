package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJSONStringAcceptsValidFactCheck(t *testing.T) {
	doc := `{
		"the_claim": "The government has run out of money",
		"the_problem": "Frames currency-issuer finances as household finances",
		"the_reality": "A currency issuer cannot involuntarily run out of its own currency",
		"the_evidence": "ONS data shows...",
		"perspective": "The real constraints are inflation and real resources",
		"citations": [{"title": "ONS Public Sector Finances", "url": "https://www.ons.gov.uk/"}]
	}`

	err := ValidateJSONString(FactCheckSchema, doc)
	assert.NoError(t, err)
}

func TestValidateJSONStringRejectsMissingSection(t *testing.T) {
	doc := `{
		"the_claim": "claim",
		"the_problem": "problem",
		"the_reality": "reality",
		"the_evidence": "",
		"perspective": ""
	}`

	err := ValidateJSONString(FactCheckSchema, doc)
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected *ValidationError, got %T", err)
	require.NotEmpty(t, ve.Errors)
	assert.Contains(t, ve.Error(), "citations")
}

func TestValidateJSONStringRejectsBadCitation(t *testing.T) {
	doc := `{
		"subject": "Complaint regarding Budget coverage",
		"body": "Dear Sir/Madam...",
		"key_points": ["deficit framing"],
		"citations": [{"title": "missing url"}]
	}`

	err := ValidateJSONString(ComplaintLetterSchema, doc)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
}

func TestValidateJSONStringMalformedDocument(t *testing.T) {
	err := ValidateJSONString(ComplaintLetterSchema, `{"subject": `)
	require.Error(t, err)

	var le *SchemaLoadError
	require.True(t, errors.As(err, &le), "truncated JSON surfaces as load error, got %T", err)
}

func TestValidateJSONStringOutletResearch(t *testing.T) {
	doc := `{
		"contact_email": "newsdesk@example.co.uk",
		"complaints_email": "complaints@example.co.uk",
		"regulator": "Ofcom",
		"notes": "Broadcast outlet, Ofcom complaints route applies"
	}`
	assert.NoError(t, ValidateJSONString(OutletResearchSchema, doc))
}
