// Package crossref is a rate-limited client for the CrossRef works API,
// the metadata source behind every conversion.
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/biterik/doi2bib/internal/reference"
)

const (
	// BaseURL is the CrossRef REST API base URL.
	BaseURL = "https://api.crossref.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit keeps the client well inside CrossRef's polite-pool
	// expectations; it mostly matters for batch conversion.
	RateLimit = 2.0

	// DefaultRows is the search result cap when the caller does not set one.
	DefaultRows = 10

	projectURL       = "https://github.com/biterik/doi2bib"
	defaultUserAgent = "doi2bib/dev"
)

// Client is a rate-limited HTTP client for the CrossRef works API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
	mailto     string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithMailto sets the contact address advertised in the User-Agent,
// which moves requests into CrossRef's polite pool.
func WithMailto(addr string) ClientOption {
	return func(c *Client) {
		c.mailto = addr
	}
}

// WithUserAgent sets the product token sent in the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a new CrossRef works API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		userAgent:  defaultUserAgent,
	}

	// Check for a contact address in the environment
	if addr := os.Getenv("DOI2BIB_MAILTO"); addr != "" {
		c.mailto = addr
	}

	// Apply options
	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) fullUserAgent() string {
	if c.mailto != "" {
		return fmt.Sprintf("%s (%s; mailto:%s)", c.userAgent, projectURL, c.mailto)
	}
	return fmt.Sprintf("%s (%s)", c.userAgent, projectURL)
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}
	return nil
}

// get performs a rate-limited GET against the API.
func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.fullUserAgent())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	return resp, nil
}

// WorkJSON fetches the raw message object for a DOI, suitable for caching
// and later decoding with DecodeWork. The DOI is cleaned first.
func (c *Client) WorkJSON(ctx context.Context, doi string) ([]byte, error) {
	doi = CleanDOI(doi)

	resp, err := c.get(ctx, c.baseURL+"/works/"+url.PathEscape(doi))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, doi)
	}
	if err := checkHTTPErrors(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrNetworkError, err)
	}

	var envelope struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(envelope.Message) == 0 {
		return nil, fmt.Errorf("%w: empty message", ErrInvalidResponse)
	}

	return envelope.Message, nil
}

// DecodeWork decodes a raw works message object, as returned by WorkJSON
// or read back from the cache.
func DecodeWork(data []byte) (Work, error) {
	var work Work
	if err := json.Unmarshal(data, &work); err != nil {
		return Work{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return work, nil
}

// Work fetches the metadata for a DOI and maps it to a record.
func (c *Client) Work(ctx context.Context, doi string) (reference.Record, error) {
	raw, err := c.WorkJSON(ctx, doi)
	if err != nil {
		return reference.Record{}, err
	}
	work, err := DecodeWork(raw)
	if err != nil {
		return reference.Record{}, err
	}
	return work.Record(), nil
}

// SearchQuery holds the bibliographic search criteria. Free text and
// title are merged into the general query parameter; author and journal
// use their dedicated field queries; a year becomes a pub-date filter
// covering exactly that year.
type SearchQuery struct {
	Query   string
	Author  string
	Title   string
	Journal string
	Year    string
	Rows    int
}

// Search runs a works search and returns the matching records in API
// relevance order. An empty result is not an error.
func (c *Client) Search(ctx context.Context, q SearchQuery) ([]reference.Record, error) {
	rows := q.Rows
	if rows <= 0 {
		rows = DefaultRows
	}

	params := url.Values{}
	params.Set("rows", strconv.Itoa(rows))

	var queryParts []string
	if q.Query != "" {
		queryParts = append(queryParts, q.Query)
	}
	if q.Title != "" {
		queryParts = append(queryParts, q.Title)
	}
	if len(queryParts) > 0 {
		params.Set("query", strings.Join(queryParts, " "))
	}
	if q.Author != "" {
		params.Set("query.author", q.Author)
	}
	if q.Journal != "" {
		params.Set("query.container-title", q.Journal)
	}
	if q.Year != "" {
		params.Set("filter", fmt.Sprintf("from-pub-date:%s,until-pub-date:%s", q.Year, q.Year))
	}

	resp, err := c.get(ctx, c.baseURL+"/works?"+params.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp); err != nil {
		return nil, err
	}

	var envelope struct {
		Message struct {
			Items []Work `json:"items"`
		} `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	records := make([]reference.Record, len(envelope.Message.Items))
	for i, w := range envelope.Message.Items {
		records[i] = w.Record()
	}
	return records, nil
}
