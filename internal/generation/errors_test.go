package generation

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyNil(t *testing.T) {
	if Classify(nil) != nil {
		t.Error("Classify(nil) should be nil")
	}
}

func TestClassifyAlreadyTyped(t *testing.T) {
	orig := &AuthError{Message: "bad key"}
	if got := Classify(fmt.Errorf("wrapped: %w", orig)); !errors.Is(got, orig) {
		t.Error("already-classified errors should pass through")
	}
}

func TestClassifyDeadline(t *testing.T) {
	err := Classify(fmt.Errorf("call failed: %w", context.DeadlineExceeded))
	var transient *TransientError
	if !errors.As(err, &transient) {
		t.Errorf("deadline exceeded should classify as transient, got %T", err)
	}
}

func TestClassifyMessageHeuristics(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
		auth      bool
	}{
		{"rate limit", errors.New("provider said: Rate limit exceeded"), true, false},
		{"overloaded", errors.New("overloaded_error: try later"), true, false},
		{"conn reset", errors.New("read tcp: connection reset by peer"), true, false},
		{"bad key", errors.New("invalid API key provided"), false, true},
		{"forbidden", errors.New("403 Forbidden"), false, true},
		{"unknown", errors.New("something odd happened"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			var transient *TransientError
			var auth *AuthError
			if errors.As(got, &transient) != tt.transient {
				t.Errorf("transient = %v, expected %v", !tt.transient, tt.transient)
			}
			if errors.As(got, &auth) != tt.auth {
				t.Errorf("auth = %v, expected %v", !tt.auth, tt.auth)
			}
		})
	}
}

func TestClassifyStatusCodes(t *testing.T) {
	tests := []struct {
		code      int
		transient bool
		auth      bool
	}{
		{401, false, true},
		{403, false, true},
		{408, true, false},
		{429, true, false},
		{500, true, false},
		{529, true, false},
		{400, false, false},
		{404, false, false},
	}

	for _, tt := range tests {
		got := classifyStatus(tt.code, fmt.Errorf("status %d", tt.code))
		var transient *TransientError
		var auth *AuthError
		if errors.As(got, &transient) != tt.transient {
			t.Errorf("code %d: transient = %v, expected %v", tt.code, !tt.transient, tt.transient)
		}
		if errors.As(got, &auth) != tt.auth {
			t.Errorf("code %d: auth = %v, expected %v", tt.code, !tt.auth, tt.auth)
		}
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	for _, err := range []error{
		&TransientError{Message: "m", Cause: cause},
		&AuthError{Message: "m", Cause: cause},
		&SchemaError{Message: "m", Cause: cause},
	} {
		if !errors.Is(err, cause) {
			t.Errorf("%T should unwrap to its cause", err)
		}
	}
}
