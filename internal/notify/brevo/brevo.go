// Package brevo implements the notify port against the Brevo transactional
// email API.
package brevo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mobiliza/internal/platform/config"
	"mobiliza/pkg/platform/sentinel"
)

// Client sends transactional emails through Brevo's v3 SMTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	sender     recipient
}

// New creates a Brevo client from configuration.
func New(cfg config.Brevo) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		sender:     recipient{Email: cfg.SenderEmail, Name: cfg.SenderName},
	}
}

type recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendRequest struct {
	Sender     recipient         `json:"sender"`
	To         []recipient       `json:"to"`
	TemplateID int64             `json:"templateId"`
	Params     map[string]string `json:"params,omitempty"`
}

// Send delivers one templated email. Non-2xx responses map to
// sentinel.ErrUnavailable with the provider message attached.
func (c *Client) Send(ctx context.Context, toEmail, toName string, templateID int64, params map[string]string) error {
	payload, err := json.Marshal(sendRequest{
		Sender:     c.sender,
		To:         []recipient{{Email: toEmail, Name: toName}},
		TemplateID: templateID,
		Params:     params,
	})
	if err != nil {
		return fmt.Errorf("marshal brevo request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v3/smtp/email", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build brevo request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("brevo send: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("brevo send: %w: status %d: %s", sentinel.ErrUnavailable, resp.StatusCode, body)
	}
	return nil
}
