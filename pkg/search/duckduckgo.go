// Package search retrieves web evidence about candidate handles and brands.
// The client scrapes the DuckDuckGo lite HTML endpoint, which is stable
// enough for regex extraction and tolerates a slow, well-spaced trickle of
// queries. Spacing is delegated to the shared pacing gate rather than a
// package-global lock, so the search endpoint class is paced like every
// other external provider.
package search

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/hearsay-ai/hearsay/pkg/models"
	"github.com/hearsay-ai/hearsay/pkg/pacing"
)

// EndpointClass is the pacing class shared by all DuckDuckGo queries.
const EndpointClass = "duckduckgo"

const defaultEndpoint = "https://lite.duckduckgo.com/lite/"

// DuckDuckGo queries the DuckDuckGo lite interface.
type DuckDuckGo struct {
	endpoint   string
	client     *http.Client
	gate       *pacing.Gate
	maxResults int
}

// Option configures a DuckDuckGo client.
type Option func(*DuckDuckGo)

// WithEndpoint overrides the search endpoint (used by tests).
func WithEndpoint(endpoint string) Option {
	return func(d *DuckDuckGo) { d.endpoint = endpoint }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(d *DuckDuckGo) { d.client = client }
}

// WithMaxResults caps the results returned per query.
func WithMaxResults(n int) Option {
	return func(d *DuckDuckGo) { d.maxResults = n }
}

// New creates a DuckDuckGo client paced by gate. A nil gate disables pacing,
// which is only appropriate in tests.
func New(gate *pacing.Gate, opts ...Option) *DuckDuckGo {
	d := &DuckDuckGo{
		endpoint:   defaultEndpoint,
		client:     &http.Client{Timeout: 15 * time.Second},
		gate:       gate,
		maxResults: 20,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Search runs one query and returns parsed results.
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("query is empty")
	}

	if d.gate != nil {
		if err := d.gate.Await(ctx, EndpointClass); err != nil {
			return nil, err
		}
	}

	formData := url.Values{}
	formData.Set("q", query)

	var resp *http.Response
	delay := time.Second
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, strings.NewReader(formData.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err = d.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		resp.Body.Close()

		// Back off and retry on 429, doubling the delay up to 30s.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		if delay < 30*time.Second {
			delay *= 2
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	results := parseLiteHTML(string(body), d.maxResults)
	for i := range results {
		results[i].Query = query
	}
	return results, nil
}

var (
	liteLinkPattern    = regexp.MustCompile(`<a[^>]*class=['"]result-link['"][^>]*href=['"]([^'"]+)['"][^>]*>([^<]+)</a>`)
	liteLinkPatternAlt = regexp.MustCompile(`<a[^>]*href=['"]([^'"]+)['"][^>]*class=['"]result-link['"][^>]*>([^<]+)</a>`)
	liteSnippetPattern = regexp.MustCompile(`<td[^>]*class=['"]result-snippet['"][^>]*>(.*?)</td>`)
	tagPattern         = regexp.MustCompile(`<[^>]+>`)
)

// parseLiteHTML extracts results from the DuckDuckGo lite page. Result links
// and snippets appear in document order, so the i-th snippet belongs to the
// i-th link.
func parseLiteHTML(page string, limit int) []models.SearchResult {
	matches := liteLinkPattern.FindAllStringSubmatch(page, -1)
	if len(matches) == 0 {
		matches = liteLinkPatternAlt.FindAllStringSubmatch(page, -1)
	}
	snippets := liteSnippetPattern.FindAllStringSubmatch(page, -1)

	var results []models.SearchResult
	for i, m := range matches {
		u := strings.TrimSpace(m[1])
		title := cleanHTML(m[2])
		if u == "" || title == "" {
			continue
		}

		snippet := ""
		if i < len(snippets) {
			snippet = cleanHTML(snippets[i][1])
		}

		results = append(results, models.SearchResult{
			Title:   title,
			URL:     u,
			Snippet: snippet,
		})
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results
}

func cleanHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(s, "")))
}
