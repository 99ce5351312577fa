package sitesage

import "context"

// Page represents a single crawled page from one of the configured sites.
// A page is created per fetch and immutable once returned. Err records a
// fetch or parse failure for that URL; such pages carry no title or
// content and never contribute chunks.
type Page struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	SourceTag string `json:"source_tag"`
	Err       string `json:"error,omitempty"`
}

// HasContent reports whether the page contributed usable text.
func (p *Page) HasContent() bool {
	return p.Err == "" && p.Content != ""
}

// Site describes one crawl domain: a root URL, the source tag applied to
// pages discovered under it, and a per-site page budget.
type Site struct {
	Tag      string `json:"tag"`
	RootURL  string `json:"root_url"`
	MaxPages int    `json:"max_pages"`
}

// Validate returns an error if the site contains invalid fields.
func (s *Site) Validate() error {
	if s.Tag == "" {
		return Errorf(EINVALID, "site tag required")
	}
	if s.RootURL == "" {
		return Errorf(EINVALID, "site root URL required")
	}
	return nil
}

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch retrieves the page at url. The context controls timeout and
	// cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases client resources.
	Close() error
}

// ExtractResult holds the content extracted from an HTML page.
type ExtractResult struct {
	// Title is the text of the first <title> element, cleaned.
	Title string

	// Text is the cleaned plain text of the page's main content area,
	// with boilerplate (scripts, styles, navigation, header, footer)
	// removed. Empty when the page yields no usable text.
	Text string
}

// Extractor extracts the title and main content text from raw HTML.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}

// LinkExtractor finds links in an HTML page. Implementations resolve
// relative references against baseURL and return only absolute URLs on
// the same host as baseURL.
type LinkExtractor interface {
	ExtractLinks(html string, baseURL string) ([]string, error)
}

// DomainLimiter provides per-domain rate limiting between fetches.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
