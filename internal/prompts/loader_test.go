package prompts

import (
	"strings"
	"testing"
)

func TestGetKnownPrompt(t *testing.T) {
	tmpl, err := Get("generation.json", "fact-check")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !strings.Contains(tmpl, "{{.ClaimText}}") {
		t.Error("fact-check template should contain the ClaimText placeholder")
	}
}

func TestGetMissingKey(t *testing.T) {
	if _, err := Get("generation.json", "no-such-prompt"); err == nil {
		t.Error("expected error for unknown prompt key")
	}
}

func TestGetMissingFile(t *testing.T) {
	if _, err := Get("missing.json", "fact-check"); err == nil {
		t.Error("expected error for unknown prompt file")
	}
}

func TestFormat(t *testing.T) {
	result := Format("Dear {{.Name}}, re {{.Subject}}", map[string]string{
		"Name":    "Editor",
		"Subject": "coverage",
	})
	if result != "Dear Editor, re coverage" {
		t.Errorf("Format() = %q", result)
	}
}

func TestFormatLeavesUnknownPlaceholders(t *testing.T) {
	result := Format("{{.Known}} and {{.Unknown}}", map[string]string{"Known": "x"})
	if result != "x and {{.Unknown}}" {
		t.Errorf("Format() = %q", result)
	}
}
