package generation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"google.golang.org/api/googleapi"
)

// TransientError marks a failure that is worth retrying: provider
// overload, rate limiting, timeouts, transport drops.
type TransientError struct {
	Message string
	Cause   error
}

func (e *TransientError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transient generation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("transient generation error: %s", e.Message)
}

func (e *TransientError) Unwrap() error {
	return e.Cause
}

// AuthError marks a credential or permission failure. Retrying with the
// same key cannot succeed, so the run fails immediately.
type AuthError struct {
	Message string
	Cause   error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("auth error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("auth error: %s", e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// SchemaError marks a provider response that parsed as JSON but did not
// match the expected document shape, or did not parse at all.
type SchemaError struct {
	Message string
	Cause   error
}

func (e *SchemaError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("schema error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("schema error: %s", e.Message)
}

func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Classify maps a raw provider error onto the retry taxonomy. Errors it
// does not recognize fail permanently rather than looping.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var transient *TransientError
	var auth *AuthError
	var schema *SchemaError
	if errors.As(err, &transient) || errors.As(err, &auth) || errors.As(err, &schema) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &TransientError{Message: "provider call timed out", Cause: err}
	}

	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.StatusCode, err)
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return classifyStatus(gErr.Code, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TransientError{Message: "network timeout", Cause: err}
	}

	msg := strings.ToLower(err.Error())
	for _, hint := range []string{"rate limit", "overloaded", "connection reset", "connection refused", "temporarily unavailable", "try again"} {
		if strings.Contains(msg, hint) {
			return &TransientError{Message: "provider reported transient condition", Cause: err}
		}
	}
	for _, hint := range []string{"api key", "unauthorized", "permission denied", "forbidden"} {
		if strings.Contains(msg, hint) {
			return &AuthError{Message: "provider rejected credentials", Cause: err}
		}
	}

	return err
}

func classifyStatus(code int, err error) error {
	switch {
	case code == 401 || code == 403:
		return &AuthError{Message: fmt.Sprintf("provider returned status %d", code), Cause: err}
	case code == 408 || code == 429 || code >= 500:
		return &TransientError{Message: fmt.Sprintf("provider returned status %d", code), Cause: err}
	default:
		return err
	}
}
