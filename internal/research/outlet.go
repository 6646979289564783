// Package research discovers complaint contact details for media outlets by
// scanning their websites and asking the LLM to extract a structured
// contact profile from the relevant pages.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/mediawatch/internal/db"
	"github.com/jonathan/mediawatch/internal/fetch"
	"github.com/jonathan/mediawatch/internal/generation"
	"github.com/jonathan/mediawatch/internal/llm"
	"github.com/jonathan/mediawatch/internal/prompts"
	"github.com/jonathan/mediawatch/internal/schemas"
)

// maxPages bounds how many candidate pages we fetch per outlet.
const maxPages = 3

// maxExcerptChars bounds how much page text goes into the prompt.
const maxExcerptChars = 8000

// contactKeywords mark links likely to lead to complaints information.
var contactKeywords = []string{"complaint", "contact", "corrections", "feedback", "about"}

// Findings is the structured contact profile extracted for an outlet.
type Findings struct {
	ContactEmail    string `json:"contact_email"`
	ComplaintsEmail string `json:"complaints_email"`
	Regulator       string `json:"regulator"`
	Notes           string `json:"notes"`
}

// Researcher resolves outlet contact details.
type Researcher struct {
	client    llm.Client
	fetchOpts *fetch.Options
	logger    *zap.Logger
}

// NewResearcher creates a researcher.
func NewResearcher(client llm.Client, logger *zap.Logger) *Researcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Researcher{
		client:    client,
		fetchOpts: fetch.DefaultOptions(),
		logger:    logger,
	}
}

// Research scans the outlet's website for complaints information and asks
// the model to extract a contact profile from it. The outlet record is not
// modified; callers decide what to do with the findings.
func (r *Researcher) Research(ctx context.Context, outlet *db.Outlet) (*Findings, error) {
	if outlet.Website == "" {
		return nil, fmt.Errorf("outlet %s has no website to research", outlet.Name)
	}

	pageText := r.collectPageText(ctx, outlet.Website)
	if pageText == "" {
		pageText = "(no pages could be fetched)"
	}

	tmpl := prompts.MustGet("generation.json", "outlet-research")
	prompt := prompts.Format(tmpl, map[string]string{
		"OutletName": outlet.Name,
		"OutletType": outlet.MediaType,
		"Website":    outlet.Website,
		"PageText":   pageText,
	})

	raw, err := r.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, generation.Classify(fmt.Errorf("outlet research call failed: %w", err))
	}

	if err := schemas.ValidateJSONString(schemas.OutletResearchSchema, raw); err != nil {
		return nil, &generation.SchemaError{Message: "research response does not match schema", Cause: err}
	}

	var findings Findings
	if err := json.Unmarshal([]byte(raw), &findings); err != nil {
		return nil, &generation.SchemaError{Message: "failed to decode research response", Cause: err}
	}

	return &findings, nil
}

// collectPageText fetches the homepage plus up to maxPages contact-like
// pages and concatenates their main text, bounded for the prompt. Fetch
// failures are logged and skipped: partial evidence still beats none.
func (r *Researcher) collectPageText(ctx context.Context, website string) string {
	var sb strings.Builder

	home, err := fetch.URL(ctx, website, r.fetchOpts)
	if err != nil {
		r.logger.Warn("failed to fetch outlet homepage",
			zap.String("url", website),
			zap.Error(err))
		return ""
	}

	pages := []string{}
	if links, err := fetch.ExtractLinks(home.HTML, website); err == nil {
		pages = filterContactLinks(links, maxPages)
	}

	if text, err := fetch.ExtractMainText(home.HTML, fetch.ContactPageSelectors()); err == nil {
		appendExcerpt(&sb, website, text)
	}

	for _, page := range pages {
		if sb.Len() >= maxExcerptChars {
			break
		}
		result, err := fetch.URL(ctx, page, r.fetchOpts)
		if err != nil {
			r.logger.Debug("skipping unreachable page", zap.String("url", page), zap.Error(err))
			continue
		}
		if text, err := fetch.ExtractMainText(result.HTML, fetch.ContactPageSelectors()); err == nil {
			appendExcerpt(&sb, page, text)
		}
	}

	text := sb.String()
	if len(text) > maxExcerptChars {
		text = text[:maxExcerptChars]
	}
	return text
}

// filterContactLinks keeps links whose path mentions a contact keyword,
// preserving document order.
func filterContactLinks(links []string, limit int) []string {
	matched := make([]string, 0, limit)
	for _, link := range links {
		lower := strings.ToLower(link)
		for _, keyword := range contactKeywords {
			if strings.Contains(lower, keyword) {
				matched = append(matched, link)
				break
			}
		}
		if len(matched) >= limit {
			break
		}
	}
	return matched
}

func appendExcerpt(sb *strings.Builder, url, text string) {
	if text == "" {
		return
	}
	sb.WriteString("--- ")
	sb.WriteString(url)
	sb.WriteString(" ---\n")
	sb.WriteString(text)
	sb.WriteString("\n\n")
}
