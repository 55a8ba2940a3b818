package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Conditions is the slice of the provider payload the weather proxy
// consumes: the primary condition category, its free-text description,
// and the metric temperature.
type Conditions struct {
	Main        string
	Description string
	TempC       float64
}

// weatherResponse is the minimal response shape from the provider's
// current-weather endpoint.
type weatherResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
}

// HTTPStatusError captures non-2xx upstream responses.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("openweather: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// Client fetches current conditions for one fixed city.
type Client struct {
	baseURL    string
	apiKey     string
	city       string
	country    string
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

// NewClient creates a Client for the given city. An empty API key is
// allowed here; Current reports it as an error and the proxy layer
// substitutes the fallback payload.
func NewClient(apiKey, city, country string, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     strings.TrimSpace(apiKey),
		city:       city,
		country:    country,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Current fetches current conditions in metric units. Attempted once,
// no retries.
func (c *Client) Current(ctx context.Context) (Conditions, error) {
	if c.apiKey == "" {
		return Conditions{}, errors.New("openweather: API key not configured")
	}

	q := url.Values{}
	q.Set("q", c.city+","+c.country)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	endpoint := strings.TrimRight(c.baseURL, "/") + "/weather?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Conditions{}, fmt.Errorf("openweather: create request: %w", err)
	}

	res, err := c.resolvedHTTPClient().Do(req)
	if err != nil {
		return Conditions{}, fmt.Errorf("openweather: request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return Conditions{}, &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        endpoint,
			Body:       string(buf),
		}
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return Conditions{}, fmt.Errorf("openweather: read response body: %w", err)
	}

	var payload weatherResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Conditions{}, fmt.Errorf("openweather: decode response: %w", err)
	}
	if len(payload.Weather) == 0 {
		return Conditions{}, errors.New("openweather: no conditions in response")
	}

	return Conditions{
		Main:        payload.Weather[0].Main,
		Description: payload.Weather[0].Description,
		TempC:       payload.Main.Temp,
	}, nil
}

func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}
