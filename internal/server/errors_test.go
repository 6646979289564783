package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/jonathan/mediawatch/internal/delivery"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", &ErrValidation{Field: "owner_id", Message: "must be a UUID"}, http.StatusBadRequest},
		{"not found", &ErrNotFound{Resource: "submission", ID: uuid.New()}, http.StatusNotFound},
		{"conflict", &ErrConflict{Message: "only failed submissions can be regenerated"}, http.StatusConflict},
		{"delivery", &delivery.DeliveryError{Destination: "complaints@bbc.co.uk", StatusCode: 401, Message: "unauthorized"}, http.StatusBadGateway},
		{"wrapped delivery", fmt.Errorf("send failed: %w", &delivery.DeliveryError{Destination: "complaints@bbc.co.uk", Message: "timeout"}), http.StatusBadGateway},
		{"wrapped not found", fmt.Errorf("lookup: %w", &ErrNotFound{Resource: "outlet", ID: uuid.New()}), http.StatusNotFound},
		{"plain error", errors.New("pool exhausted"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.expected {
				t.Errorf("HTTPStatus(%v) = %d, expected %d", tt.err, got, tt.expected)
			}
		})
	}
}
