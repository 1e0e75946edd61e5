// Package zotero pushes rendered citations into a locally running Zotero
// through its connector import endpoint.
package zotero

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultEndpoint is the import endpoint of the connector server a
	// desktop Zotero listens on.
	DefaultEndpoint = "http://127.0.0.1:23119/connector/import"

	// DefaultTimeout bounds a single import attempt.
	DefaultTimeout = 10 * time.Second

	// maxAttempts and retryDelay govern the busy-retry loop: a desktop
	// Zotero answers 503 while its importer is occupied.
	maxAttempts = 3
	retryDelay  = 500 * time.Millisecond
)

var (
	// ErrUnreachable indicates no Zotero is listening on the endpoint.
	ErrUnreachable = errors.New("zotero is not reachable; is it running?")

	// ErrBusy indicates Zotero answered but could not accept the import yet.
	ErrBusy = errors.New("zotero is busy")

	// ErrImportFailed indicates Zotero rejected the import.
	ErrImportFailed = errors.New("zotero rejected the import")
)

// Client talks to the local Zotero connector server.
type Client struct {
	httpClient *http.Client
	endpoint   string
	delay      time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithEndpoint sets a custom connector endpoint.
func WithEndpoint(url string) Option {
	return func(c *Client) {
		c.endpoint = url
	}
}

// WithRetryDelay sets the pause between busy retries (for testing).
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		c.delay = d
	}
}

// NewClient creates a connector client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		endpoint:   DefaultEndpoint,
		delay:      retryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Import sends BibTeX to Zotero, which ingests it like a browser-
// connector save. A busy or unreachable client is retried a few times
// with a fixed delay before the last error is reported.
func (c *Client) Import(ctx context.Context, bibtex string) error {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.delay):
			}
		}

		err := c.importOnce(ctx, bibtex)
		if err == nil {
			return nil
		}
		lastErr = err
		if !errors.Is(err, ErrBusy) && !errors.Is(err, ErrUnreachable) {
			return err
		}
	}
	return lastErr
}

func (c *Client) importOnce(ctx context.Context, bibtex string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(bibtex))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-bibtex")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		return fmt.Errorf("%w: status %d", ErrBusy, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: status %d", ErrImportFailed, resp.StatusCode)
	}
	return nil
}
