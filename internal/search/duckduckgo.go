package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	DefaultBaseURL    = "https://html.duckduckgo.com/html/"
	defaultMaxResults = 5
	redirectPrefix    = "//duckduckgo.com/l/?uddg="
)

type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// DuckDuckGo searches through the keyless HTML endpoint.
type DuckDuckGo struct {
	baseURL    string
	httpClient *http.Client
	maxResults int
}

type Option func(*DuckDuckGo)

func WithBaseURL(baseURL string) Option {
	return func(d *DuckDuckGo) {
		if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
			d.baseURL = baseURL
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(d *DuckDuckGo) {
		if c != nil {
			d.httpClient = c
		}
	}
}

func WithMaxResults(n int) Option {
	return func(d *DuckDuckGo) {
		if n > 0 {
			d.maxResults = n
		}
	}
}

func NewDuckDuckGo(opts ...Option) *DuckDuckGo {
	d := &DuckDuckGo{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		maxResults: defaultMaxResults,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Search returns the results as plain text, one "title: snippet (url)" line
// per hit.
func (d *DuckDuckGo) Search(ctx context.Context, query string) (string, error) {
	results, err := d.Results(ctx, query)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "No results found for: " + query, nil
	}

	lines := make([]string, 0, len(results))
	for _, r := range results {
		line := r.Title
		if r.Snippet != "" {
			line += ": " + r.Snippet
		}
		if r.URL != "" {
			line += " (" + r.URL + ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

func (d *DuckDuckGo) Results(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search: query must not be empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, fmt.Errorf("search: create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	res, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search: unexpected status %d", res.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("search: parse html: %w", err)
	}
	return collectResults(doc, d.maxResults), nil
}

// collectResults walks the result page; each hit is a div carrying both the
// "result" and "results_links" classes.
func collectResults(root *html.Node, limit int) []Result {
	var out []Result
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(out) >= limit {
			return
		}
		if n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "result") && hasClass(n, "results_links") {
			if r := parseResult(n); r.Title != "" && r.URL != "" {
				out = append(out, r)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func parseResult(n *html.Node) Result {
	var r Result
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			switch {
			case hasClass(n, "result__a"):
				r.URL = unwrapRedirect(attr(n, "href"))
				r.Title = text(n)
			case hasClass(n, "result__snippet"):
				r.Snippet = text(n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return r
}

// unwrapRedirect turns a DuckDuckGo click-tracking link into its target.
func unwrapRedirect(href string) string {
	if !strings.HasPrefix(href, redirectPrefix) {
		return href
	}
	target, err := url.QueryUnescape(strings.TrimPrefix(href, redirectPrefix))
	if err != nil {
		return href
	}
	if i := strings.Index(target, "&"); i > 0 {
		target = target[:i]
	}
	return target
}

func hasClass(n *html.Node, class string) bool {
	for _, f := range strings.Fields(attr(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}
