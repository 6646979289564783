package research

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/mediawatch/internal/db"
	"github.com/jonathan/mediawatch/internal/generation"
	"github.com/jonathan/mediawatch/internal/llm"
)

type scriptedClient struct {
	response string
	err      error
	prompts  []string
}

func (c *scriptedClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

func (c *scriptedClient) GetModel(llm.ModelTier) string { return "fake" }
func (c *scriptedClient) Close() error                  { return nil }

func outletSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<a href="/complaints">How to complain</a>
			<a href="/sport">Sport</a>
			<main>Welcome to the outlet</main>
		</body></html>`))
	})
	mux.HandleFunc("/complaints", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><main>Email complaints@outlet.example. We are regulated by Ofcom.</main></body></html>`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestResearchExtractsFindings(t *testing.T) {
	server := outletSite(t)
	client := &scriptedClient{response: `{
		"contact_email": "contact@outlet.example",
		"complaints_email": "complaints@outlet.example",
		"regulator": "Ofcom",
		"notes": "Dedicated complaints form exists."
	}`}

	findings, err := NewResearcher(client, nil).Research(context.Background(), &db.Outlet{
		Name:      "Outlet",
		MediaType: db.MediaTypeTV,
		Website:   server.URL,
	})
	require.NoError(t, err)
	assert.Equal(t, "complaints@outlet.example", findings.ComplaintsEmail)
	assert.Equal(t, "Ofcom", findings.Regulator)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "complaints@outlet.example",
		"the complaints page text should reach the prompt")
}

func TestResearchRequiresWebsite(t *testing.T) {
	_, err := NewResearcher(&scriptedClient{}, nil).Research(context.Background(), &db.Outlet{Name: "No Site"})
	assert.Error(t, err)
}

func TestResearchSchemaViolation(t *testing.T) {
	server := outletSite(t)
	client := &scriptedClient{response: `{"contact_email": 42}`}

	_, err := NewResearcher(client, nil).Research(context.Background(), &db.Outlet{
		Name:      "Outlet",
		MediaType: db.MediaTypeTV,
		Website:   server.URL,
	})
	var schemaErr *generation.SchemaError
	assert.ErrorAs(t, err, &schemaErr)
}

func TestFilterContactLinks(t *testing.T) {
	links := []string{
		"https://o.example/sport",
		"https://o.example/contact-us",
		"https://o.example/complaints",
		"https://o.example/about",
		"https://o.example/weather",
	}
	got := filterContactLinks(links, 2)
	assert.Equal(t, []string{
		"https://o.example/contact-us",
		"https://o.example/complaints",
	}, got)
}
