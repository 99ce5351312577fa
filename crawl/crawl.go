// Package crawl provides site crawling orchestration. It coordinates
// fetching, content extraction and link discovery within each configured
// site's domain, producing the page records consumed by the chunker.
package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/quietriver/sitesage"
)

// Frontier sizing for the seen-URL Bloom filter.
const (
	frontierExpectedURLs      = 10000
	frontierFalsePositiveRate = 0.01
)

// DefaultMaxPages limits how many content pages are retained per site
// when the site does not specify a budget.
const DefaultMaxPages = 50

// ProgressFunc receives every page record as it is produced, including
// error records and records later dropped for having no content.
type ProgressFunc func(page *sitesage.Page)

// Result holds the outcome of a crawl.
type Result struct {
	Fetched  int
	Retained int
	Failed   int
}

// Crawler performs a breadth-first traversal of each configured site.
type Crawler struct {
	Fetcher     sitesage.Fetcher
	Extractor   sitesage.Extractor
	Links       sitesage.LinkExtractor
	RateLimiter sitesage.DomainLimiter

	// RetryDelays are the backoff delays applied when a fetch fails
	// transiently. Nil means a single attempt per URL.
	RetryDelays []time.Duration

	// Progress, if set, receives every page record as it is produced.
	Progress ProgressFunc

	Logger *slog.Logger
}

// CrawlSites crawls each site independently, in order. The frontier and
// seen-URL set are reset between sites, so link discovery in one site
// never seeds or suppresses traversal of another.
func (c *Crawler) CrawlSites(ctx context.Context, sites []sitesage.Site) ([]*sitesage.Page, *Result, error) {
	var pages []*sitesage.Page
	var total Result

	for _, site := range sites {
		sitePages, result, err := c.CrawlSite(ctx, site)
		if err != nil {
			return nil, nil, err
		}
		pages = append(pages, sitePages...)
		total.Fetched += result.Fetched
		total.Retained += result.Retained
		total.Failed += result.Failed
	}

	c.logger().Info("crawl finished",
		"sites", len(sites),
		"fetched", total.Fetched,
		"retained", total.Retained,
		"failed", total.Failed,
	)
	return pages, &total, nil
}

// CrawlSite performs a breadth-first traversal of one site starting from
// its root URL. Traversal follows only links on the same host as the
// root that pass the exclusion list, retains at most the site's page
// budget of content pages, and recovers from every per-URL failure.
func (c *Crawler) CrawlSite(ctx context.Context, site sitesage.Site) ([]*sitesage.Page, *Result, error) {
	if err := site.Validate(); err != nil {
		return nil, nil, err
	}
	root, err := url.Parse(site.RootURL)
	if err != nil {
		return nil, nil, sitesage.Errorf(sitesage.EINVALID, "invalid site root URL %q: %v", site.RootURL, err)
	}

	maxPages := site.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	logger := c.logger()

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Push(site.RootURL)

	var pages []*sitesage.Page
	var result Result

	for len(pages) < maxPages {
		pageURL, ok := frontier.Pop()
		if !ok {
			break
		}
		if ctx.Err() != nil {
			break
		}

		// Politeness throttle before every fetch, regardless of the
		// previous fetch's outcome.
		if c.RateLimiter != nil {
			if err := c.RateLimiter.Wait(ctx, root.Host); err != nil {
				break
			}
		}

		logger.Info("fetching", "url", pageURL, "site", site.Tag)
		html, err := c.fetch(ctx, pageURL)
		result.Fetched++
		if err != nil {
			result.Failed++
			c.report(&sitesage.Page{URL: pageURL, SourceTag: site.Tag, Err: err.Error()})
			logger.Warn("fetch failed", "url", pageURL, "err", err)
			continue
		}

		page := c.extractPage(pageURL, site.Tag, html)
		c.report(page)
		if page.Err != "" {
			result.Failed++
			logger.Warn("extraction failed", "url", pageURL, "err", page.Err)
			continue
		}

		if page.HasContent() {
			pages = append(pages, page)
			result.Retained++
		} else {
			logger.Debug("page dropped, no usable content", "url", pageURL)
		}

		// Stop enqueuing new work once the budget is reached; what is
		// already queued still drains through the loop condition.
		if len(pages) >= maxPages {
			break
		}

		links, err := c.Links.ExtractLinks(html, pageURL)
		if err != nil {
			logger.Warn("link extraction failed", "url", pageURL, "err", err)
			continue
		}
		for _, link := range links {
			if Excluded(link) {
				continue
			}
			frontier.Push(link)
		}
	}

	logger.Info("site crawled",
		"site", site.Tag,
		"fetched", result.Fetched,
		"retained", result.Retained,
		"failed", result.Failed,
	)
	return pages, &result, nil
}

// fetch retrieves one URL, applying the configured retry delays.
func (c *Crawler) fetch(ctx context.Context, pageURL string) (string, error) {
	fetchFn := func(ctx context.Context, url string) (string, error) {
		return c.Fetcher.Fetch(ctx, url)
	}
	return FetchWithRetryDelays(ctx, pageURL, fetchFn, nil, c.RetryDelays)
}

// extractPage builds the page record for one fetched URL. Extraction
// failures produce an error record rather than aborting the crawl.
func (c *Crawler) extractPage(pageURL, tag, html string) *sitesage.Page {
	page := &sitesage.Page{URL: pageURL, SourceTag: tag}

	extracted, err := c.Extractor.Extract(html)
	if err != nil {
		page.Err = err.Error()
		return page
	}

	page.Title = extracted.Title
	page.Content = extracted.Text
	return page
}

func (c *Crawler) report(page *sitesage.Page) {
	if c.Progress != nil {
		c.Progress(page)
	}
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}
