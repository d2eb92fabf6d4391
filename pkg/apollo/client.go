// Package apollo provides a client for the Apollo.io people-enrichment API.
package apollo

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadforge/internal/resilience"
)

const defaultBaseURL = "https://api.apollo.io/v1"

// Client performs people-enrichment lookups against the Apollo API.
type Client interface {
	MatchPerson(ctx context.Context, req MatchRequest) (*MatchResponse, error)
}

// MatchRequest holds the match parameters for POST /people/match.
type MatchRequest struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Company string `json:"organization_name,omitempty"`
	Domain  string `json:"domain,omitempty"`
}

// MatchResponse is the response from POST /people/match.
type MatchResponse struct {
	Person       *Person       `json:"person"`
	Organization *Organization `json:"organization"`
}

// Person is the enriched profile record for a matched person.
type Person struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Email       string `json:"email"`
	LinkedInURL string `json:"linkedin_url"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
}

// Organization is the matched person's employer record.
type Organization struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	WebsiteURL string `json:"website_url"`
	Industry   string `json:"industry"`
	Phone      string `json:"phone"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates an Apollo API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 20 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) MatchPerson(ctx context.Context, req MatchRequest) (*MatchResponse, error) {
	if c.apiKey == "" {
		return nil, resilience.MissingCredential("apollo")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "apollo: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/people/match", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "apollo: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "apollo: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "apollo: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &resilience.UpstreamError{
			Service:    "apollo",
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	var result MatchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "apollo: unmarshal response")
	}

	return &result, nil
}
