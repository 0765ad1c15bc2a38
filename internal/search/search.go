package search

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	userAgent       = "uniguide-ai/uniguide (college guidance agent)"
	contentEncoding = "gzip"

	requestTimeout = 10 * time.Second
)

// Result is one web search hit as consumed by the candidate repository.
type Result struct {
	Title   string
	Snippet string
	URL     string
}

// Provider returns ordered web search results for a free-text query.
type Provider interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// Client queries a web search backend. A Brave subscription token selects the
// keyed Brave web-search API; without one the keyless DuckDuckGo
// instant-answer API is used instead.
type Client struct {
	HTTPClient  *http.Client
	UserAgent   string
	BraveAPIURL string
	DuckAPIURL  string

	braveKey string
	logger   *zap.Logger
}

// New creates a search client. braveKey may be empty.
func New(logger *zap.Logger, braveKey string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout: requestTimeout,
		},
		UserAgent:   userAgent,
		BraveAPIURL: braveAPIURL,
		DuckAPIURL:  duckAPIURL,
		braveKey:    strings.TrimSpace(braveKey),
		logger:      logger,
	}
}

// Search runs the query against the selected backend.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query must not be empty")
	}

	if c.braveKey != "" {
		return c.braveSearch(ctx, query)
	}

	return c.duckDuckGoSearch(ctx, query)
}

// getJSON makes a GET request and decodes the JSON body into target.
// Accept-Encoding is set explicitly, so gzip bodies are inflated by hand.
func (c *Client) getJSON(ctx context.Context, rawURL string, q url.Values, headers map[string]string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", contentEncoding)
	req.Header.Set("User-Agent", c.UserAgent)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	req.URL.RawQuery = q.Encode()

	c.logger.Debug("make search request", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	return json.NewDecoder(reader).Decode(target)
}
