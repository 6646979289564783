package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLFetchesPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><main>Complaints: complaints@example.co.uk</main></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Contains(t, result.HTML, "complaints@example.co.uk")
}

func TestURLNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
}

func TestURLInvalid(t *testing.T) {
	_, err := URL(context.Background(), "not-a-url", nil)
	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
}

func TestExtractMainTextPrefersSelectors(t *testing.T) {
	html := `<html><body>
		<nav>Navigation noise</nav>
		<main>How to complain: email complaints@example.co.uk</main>
		<footer>Footer</footer>
	</body></html>`

	text, err := ExtractMainText(html, ContactPageSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "complaints@example.co.uk")
	assert.NotContains(t, text, "Navigation noise")
}

func TestExtractMainTextFallsBackToBody(t *testing.T) {
	html := `<html><body><div>Contact us at contact@example.co.uk</div></body></html>`

	text, err := ExtractMainText(html, ContactPageSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "contact@example.co.uk")
}

func TestExtractLinksSameDomainOnly(t *testing.T) {
	html := `<html><body>
		<a href="/contact">Contact</a>
		<a href="/complaints">Complaints</a>
		<a href="https://other.example.com/away">External</a>
		<a href="/contact">Contact again</a>
	</body></html>`

	links, err := ExtractLinks(html, "https://outlet.example.co.uk")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://outlet.example.co.uk/contact",
		"https://outlet.example.co.uk/complaints",
	}, links)
}

func TestExtractLinksInvalidBase(t *testing.T) {
	_, err := ExtractLinks("<a href='/x'>x</a>", "no-scheme")
	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
}
