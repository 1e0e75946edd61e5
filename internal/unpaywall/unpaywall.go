// Package unpaywall looks up legal open-access copies of works via the
// Unpaywall REST API.
package unpaywall

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/tidwall/gjson"
)

// BaseURL is the Unpaywall API base URL.
const BaseURL = "https://api.unpaywall.org/v2"

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// ErrNoEmail indicates a lookup without the contact address the service
// requires.
var ErrNoEmail = errors.New("unpaywall requires a contact email")

// Location is the best open-access copy Unpaywall knows for a work.
type Location struct {
	PDFURL  string
	URL     string
	Version string
	License string
}

// BestURL prefers the direct PDF link over the landing page.
func (l *Location) BestURL() string {
	if l.PDFURL != "" {
		return l.PDFURL
	}
	return l.URL
}

// Client queries the Unpaywall API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	email      string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// NewClient creates an Unpaywall client. The email identifies the caller
// to the service and is mandatory for every request.
func NewClient(email string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    BaseURL,
		email:      email,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Find returns the best open-access location for a DOI, or nil when the
// work has no known open copy. An unregistered DOI is also absence, not
// an error.
func (c *Client) Find(ctx context.Context, doi string) (*Location, error) {
	if c.email == "" {
		return nil, ErrNoEmail
	}

	var body string
	err := requests.
		URL(c.baseURL+"/"+doi).
		Param("email", c.email).
		Client(c.httpClient).
		ToString(&body).
		Fetch(ctx)
	if err != nil {
		if requests.HasStatusErr(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("unpaywall lookup: %w", err)
	}

	if !gjson.Get(body, "is_oa").Bool() {
		return nil, nil
	}
	best := gjson.Get(body, "best_oa_location")
	if !best.Exists() || best.Type == gjson.Null {
		return nil, nil
	}

	return &Location{
		PDFURL:  best.Get("url_for_pdf").String(),
		URL:     best.Get("url").String(),
		Version: best.Get("version").String(),
		License: best.Get("license").String(),
	}, nil
}
