// Package apoiase looks up whether an email belongs to a recurring backer of
// the organization's APOIA.se campaign.
package apoiase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"mobiliza/internal/platform/config"
	"mobiliza/pkg/platform/sentinel"
)

// Checker reports whether an email belongs to an active backer.
type Checker interface {
	IsBacker(ctx context.Context, email string) (bool, error)
}

// Client queries the APOIA.se backers API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	campaignID string
	apiKey     string
}

// New creates an APOIA.se client from configuration.
func New(cfg config.Apoiase) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    cfg.BaseURL,
		campaignID: cfg.CampaignID,
		apiKey:     cfg.APIKey,
	}
}

type backersResponse struct {
	Backers []struct {
		Email  string `json:"email"`
		Status string `json:"status"`
	} `json:"backers"`
}

// IsBacker reports whether the email has an active pledge on the configured
// campaign. Callers treat errors as "unknown" and must not block on them.
func (c *Client) IsBacker(ctx context.Context, email string) (bool, error) {
	endpoint := fmt.Sprintf("%s/v1/campaigns/%s/backers?email=%s",
		c.baseURL, url.PathEscape(c.campaignID), url.QueryEscape(email))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("build apoiase request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("apoiase lookup: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("apoiase lookup: %w: status %d", sentinel.ErrUnavailable, resp.StatusCode)
	}

	var body backersResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decode apoiase response: %w", err)
	}
	for _, backer := range body.Backers {
		if backer.Email == email && backer.Status == "active" {
			return true, nil
		}
	}
	return false, nil
}
