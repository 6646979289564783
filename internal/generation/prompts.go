package generation

import (
	"fmt"

	"github.com/jonathan/mediawatch/internal/db"
	"github.com/jonathan/mediawatch/internal/incident"
	"github.com/jonathan/mediawatch/internal/prompts"
)

// Request carries everything one generation run needs. The strategy and
// complaint number are resolved by the caller from persisted prior state, so
// the same request always produces the same prompt.
type Request struct {
	Submission      *db.Submission
	Outlet          *db.Outlet // nil for fact-checks
	Strategy        incident.Strategy
	Tone            incident.Tone
	ComplaintNumber int // 1-based position among submissions for this incident
}

func mediaTypeLabel(mediaType string) string {
	switch mediaType {
	case db.MediaTypeTV:
		return "Television"
	case db.MediaTypeRadio:
		return "Radio"
	case db.MediaTypePrint:
		return "Print"
	case db.MediaTypeOnline:
		return "Online news"
	case db.MediaTypeSocial:
		return "Social media"
	default:
		return mediaType
	}
}

// buildPrompt renders the prompt for a request's content type.
func buildPrompt(req *Request) (string, error) {
	sub := req.Submission
	contextText := sub.Context
	if contextText == "" {
		contextText = "No additional context provided"
	}

	switch sub.ContentType {
	case db.ContentTypeFactCheck:
		tmpl := prompts.MustGet("generation.json", "fact-check")
		return prompts.Format(tmpl, map[string]string{
			"ClaimText": sub.ClaimText,
			"Context":   contextText,
			"Severity":  fmt.Sprintf("%d", sub.Severity),
		}), nil

	case db.ContentTypeComplaint:
		if req.Outlet == nil {
			return "", fmt.Errorf("complaint generation requires an outlet")
		}
		regulator := req.Outlet.Regulator
		if regulator == "" {
			regulator = "the relevant regulatory body"
		}
		presenter := sub.Presenter
		if presenter == "" {
			presenter = "Not specified"
		}
		toneProfile := req.Tone.Profile()
		strategyProfile := req.Strategy.Profile()

		tmpl := prompts.MustGet("generation.json", "complaint-letter")
		return prompts.Format(tmpl, map[string]string{
			"OutletName":       req.Outlet.Name,
			"OutletType":       mediaTypeLabel(req.Outlet.MediaType),
			"Regulator":        regulator,
			"IncidentDate":     sub.IncidentDate.Format("2 January 2006"),
			"Programme":        sub.Programme,
			"Presenter":        presenter,
			"ClaimText":        sub.ClaimText,
			"Context":          contextText,
			"Severity":         fmt.Sprintf("%d", sub.Severity),
			"ToneStyle":        toneProfile.Style,
			"Greeting":         toneProfile.Greeting,
			"StrategyEmphasis": strategyProfile.Emphasis,
			"ActionRequested":  strategyProfile.ActionRequested,
			"Closing":          toneProfile.Closing,
			"ComplaintNumber":  fmt.Sprintf("%d", req.ComplaintNumber),
		}), nil

	default:
		return "", fmt.Errorf("unknown content type %q", sub.ContentType)
	}
}
