// Package wikipedia provides a wikidoc.Fetcher backed by the MediaWiki
// action API. It retrieves HTML page extracts and splits them into a
// summary plus heading-delimited sections.
package wikipedia

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gusmmm/wikidoc"
	"golang.org/x/time/rate"
)

// DefaultEndpoint is the English Wikipedia action API endpoint.
const DefaultEndpoint = "https://en.wikipedia.org/w/api.php"

// DefaultUserAgent identifies the client per Wikimedia API etiquette.
const DefaultUserAgent = "wikidoc/1.0 (https://github.com/gusmmm/wikidoc)"

// DefaultFetchTimeout is the default timeout for API requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultRequestsPerSecond is the default polite request rate.
const DefaultRequestsPerSecond = 2.0

// Ensure Fetcher implements wikidoc.Fetcher at compile time.
var _ wikidoc.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves Wikipedia articles as raw documents.
type Fetcher struct {
	client    *http.Client
	converter wikidoc.Converter
	endpoint  string
	userAgent string
	timeout   time.Duration
	limiter   *rate.Limiter
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for API requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithEndpoint sets the action API endpoint, e.g. for another language
// edition or a test server.
func WithEndpoint(endpoint string) Option {
	return func(f *Fetcher) {
		f.endpoint = endpoint
	}
}

// WithUserAgent overrides the User-Agent header sent with API requests.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithRateLimit sets the maximum request rate in requests per second,
// with a burst of 1.
func WithRateLimit(rps float64) Option {
	return func(f *Fetcher) {
		f.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewFetcher creates a new Wikipedia Fetcher. The converter turns
// section HTML into markdown text.
func NewFetcher(converter wikidoc.Converter, opts ...Option) *Fetcher {
	f := &Fetcher{
		converter: converter,
		endpoint:  DefaultEndpoint,
		userAgent: DefaultUserAgent,
		timeout:   DefaultFetchTimeout,
		limiter:   rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1),
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// apiResponse is the subset of the action API response we consume,
// using formatversion=2 so pages is a flat array.
type apiResponse struct {
	Query struct {
		Pages []apiPage `json:"pages"`
	} `json:"query"`
}

type apiPage struct {
	Title   string `json:"title"`
	Missing bool   `json:"missing"`
	Extract string `json:"extract"`
	FullURL string `json:"fullurl"`
}

// FetchDocument looks up the topic and returns its raw document.
// A topic with no matching article returns ENOTFOUND; transport and
// decode failures return EFETCH.
func (f *Fetcher) FetchDocument(ctx context.Context, topic string) (*wikidoc.RawDocument, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, wikidoc.Errorf(wikidoc.EFETCH, "rate limit wait: %v", err)
	}

	page, err := f.queryPage(ctx, topic)
	if err != nil {
		return nil, err
	}
	if page.Missing || page.Extract == "" {
		return nil, wikidoc.Errorf(wikidoc.ENOTFOUND, "No article found for %q.", topic)
	}

	summary, sections, err := f.parseExtract(page.Extract)
	if err != nil {
		return nil, err
	}

	return &wikidoc.RawDocument{
		Title:    page.Title,
		URL:      page.FullURL,
		Summary:  summary,
		Sections: sections,
	}, nil
}

func (f *Fetcher) queryPage(ctx context.Context, topic string) (*apiPage, error) {
	params := url.Values{
		"action":        {"query"},
		"format":        {"json"},
		"formatversion": {"2"},
		"prop":          {"extracts|info"},
		"inprop":        {"url"},
		"redirects":     {"1"},
		"titles":        {topic},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, wikidoc.Errorf(wikidoc.EFETCH, "build request: %v", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, wikidoc.Errorf(wikidoc.EFETCH, "request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, wikidoc.Errorf(wikidoc.EFETCH, "unexpected status %d from %s", resp.StatusCode, f.endpoint)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, wikidoc.Errorf(wikidoc.EFETCH, "decode response: %v", err)
	}
	if len(body.Query.Pages) == 0 {
		return nil, wikidoc.Errorf(wikidoc.ENOTFOUND, "No article found for %q.", topic)
	}

	return &body.Query.Pages[0], nil
}

// parseExtract splits the extract HTML at h2..h6 headings. Content before
// the first heading becomes the summary; each heading opens a section with
// level equal to the heading rank. Content is converted to markdown. A
// heading with no content before the next heading yields no section, so
// empty navigation stubs never count toward the section totals.
func (f *Fetcher) parseExtract(html string) (string, []wikidoc.RawSection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", nil, wikidoc.Errorf(wikidoc.EFETCH, "parse extract: %v", err)
	}

	var (
		summary  string
		sections []wikidoc.RawSection
		buf      strings.Builder
		current  *wikidoc.RawSection
		convErr  error
	)

	flush := func() {
		if convErr != nil {
			return
		}
		var content string
		if strings.TrimSpace(buf.String()) != "" {
			content, err = f.converter.Convert(buf.String())
			if err != nil {
				convErr = err
				return
			}
			content = strings.TrimSpace(content)
		}
		buf.Reset()

		if current == nil {
			summary = content
			return
		}
		if content != "" {
			current.Content = content
			sections = append(sections, *current)
		}
	}

	doc.Find("body").Children().Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		if level, ok := headingLevel(name); ok {
			flush()
			current = &wikidoc.RawSection{
				Title: strings.TrimSpace(s.Text()),
				Level: level,
			}
			return
		}
		if h, err := goquery.OuterHtml(s); err == nil {
			buf.WriteString(h)
		}
	})
	flush()

	if convErr != nil {
		return "", nil, wikidoc.Errorf(wikidoc.EFETCH, "convert extract: %v", convErr)
	}
	return summary, sections, nil
}

func headingLevel(name string) (int, bool) {
	switch name {
	case "h2":
		return 2, true
	case "h3":
		return 3, true
	case "h4":
		return 4, true
	case "h5":
		return 5, true
	case "h6":
		return 6, true
	}
	return 0, false
}

// Close releases resources held by the fetcher.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
