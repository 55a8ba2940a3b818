package emailrelay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.emailjs.com"

// TemplateParams carries the merge fields the relay template expects.
// The shape matches the template the contact wizard and the rating form
// both dispatch through.
type TemplateParams struct {
	FromName  string `json:"from_name"`
	FromEmail string `json:"from_email"`
	Message   string `json:"message"`
	Subject   string `json:"subject"`
}

// sendRequest is the relay's send-email request body. UserID is the
// provider's public key; it is not a secret by the provider's design.
type sendRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	TemplateParams TemplateParams `json:"template_params"`
}

// HTTPStatusError captures non-2xx relay responses.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("emailrelay: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// Client dispatches transactional email through the relay provider with
// a fixed service, template, and public key.
type Client struct {
	baseURL    string
	serviceID  string
	templateID string
	publicKey  string
	httpClient *http.Client
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSpace(baseURL)
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a Client for one service/template pair.
func NewClient(serviceID, templateID, publicKey string, opts ...Option) (*Client, error) {
	serviceID = strings.TrimSpace(serviceID)
	templateID = strings.TrimSpace(templateID)
	publicKey = strings.TrimSpace(publicKey)
	if serviceID == "" || templateID == "" || publicKey == "" {
		return nil, errors.New("emailrelay: service ID, template ID and public key must not be empty")
	}
	c := &Client{
		baseURL:    defaultBaseURL,
		serviceID:  serviceID,
		templateID: templateID,
		publicKey:  publicKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Send dispatches one email through the relay. There is no idempotency
// key: a retried call produces a duplicate email, so callers attempt it
// at most once per submission.
func (c *Client) Send(ctx context.Context, params TemplateParams) error {
	body, err := json.Marshal(sendRequest{
		ServiceID:      c.serviceID,
		TemplateID:     c.templateID,
		UserID:         c.publicKey,
		TemplateParams: params,
	})
	if err != nil {
		return fmt.Errorf("emailrelay: marshal request: %w", err)
	}

	url := strings.TrimRight(c.baseURL, "/") + "/api/v1.0/email/send"

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if reqErr != nil {
		return fmt.Errorf("emailrelay: create request: %w", reqErr)
	}
	req.Header.Set("Content-Type", "application/json")

	res, doErr := c.resolvedHTTPClient().Do(req)
	if doErr != nil {
		return fmt.Errorf("emailrelay: request failed: %w", doErr)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        url,
			Body:       string(buf),
		}
	}
	return nil
}

func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}
