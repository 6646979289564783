// Package delivery sends generated complaint letters to their outlet over
// the SendGrid v3 mail API. Delivery is strictly non-destructive: no outcome
// here ever moves a submission out of reviewed.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Sender delivers one letter to one address.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) (time.Time, error)
}

// SendGridConfig holds mail API settings.
type SendGridConfig struct {
	APIKey    string
	BaseURL   string
	FromEmail string
	FromName  string
	Timeout   time.Duration
}

// SendGridSender talks to the SendGrid v3 REST API directly.
type SendGridSender struct {
	cfg        SendGridConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewSendGridSender creates a sender. The API key and from address are
// required; everything else has defaults.
func NewSendGridSender(cfg SendGridConfig, logger *zap.Logger) (*SendGridSender, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("sendgrid API key required")
	}
	if strings.TrimSpace(cfg.FromEmail) == "" {
		return nil, fmt.Errorf("sendgrid from address required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.sendgrid.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SendGridSender{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}, nil
}

type emailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type mailSendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             emailAddress      `json:"from"`
	Subject          string            `json:"subject"`
	Content          []mailContent     `json:"content"`
}

type personalization struct {
	To []emailAddress `json:"to"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type errorResponse struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Send posts one plain-text letter. The returned timestamp is when SendGrid
// accepted the message, not when the outlet read it.
func (s *SendGridSender) Send(ctx context.Context, to, subject, body string) (time.Time, error) {
	if strings.TrimSpace(to) == "" {
		return time.Time{}, &DeliveryError{Destination: to, Message: "no destination address"}
	}

	wire := mailSendRequest{
		Personalizations: []personalization{{To: []emailAddress{{Email: to}}}},
		From:             emailAddress{Email: s.cfg.FromEmail, Name: s.cfg.FromName},
		Subject:          subject,
		Content:          []mailContent{{Type: "text/plain", Value: body}},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(wire); err != nil {
		return time.Time{}, &DeliveryError{Destination: to, Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/v3/mail/send", &buf)
	if err != nil {
		return time.Time{}, &DeliveryError{Destination: to, Message: "failed to build request", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return time.Time{}, &DeliveryError{Destination: to, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := "mail API rejected the message"
		var er errorResponse
		if json.Unmarshal(raw, &er) == nil && len(er.Errors) > 0 && er.Errors[0].Message != "" {
			msg = er.Errors[0].Message
		}
		return time.Time{}, &DeliveryError{Destination: to, StatusCode: resp.StatusCode, Message: msg}
	}

	sentAt := time.Now().UTC()
	s.logger.Info("letter delivered",
		zap.String("to", to),
		zap.String("message_id", resp.Header.Get("X-Message-Id")))
	return sentAt, nil
}
