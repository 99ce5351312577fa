package rag

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/quietriver/sitesage"
	"github.com/quietriver/sitesage/crawl"
)

// Pipeline runs the full crawl, chunk and index flow. At most one build
// runs at a time; a second Rebuild while one is in flight fails fast
// with ECONFLICT instead of queueing.
type Pipeline struct {
	crawler *crawl.Crawler
	chunker *sitesage.Chunker
	index   sitesage.Index
	sites   []sitesage.Site
	logger  *slog.Logger

	building atomic.Bool
}

// NewPipeline creates a Pipeline that crawls sites and feeds the
// resulting chunks into index.
func NewPipeline(crawler *crawl.Crawler, chunker *sitesage.Chunker, index sitesage.Index, sites []sitesage.Site, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		crawler: crawler,
		chunker: chunker,
		index:   index,
		sites:   sites,
		logger:  logger,
	}
}

// Building reports whether a rebuild is currently in flight.
func (p *Pipeline) Building() bool {
	return p.building.Load()
}

// Rebuild crawls all configured sites, chunks the retained pages and
// rebuilds the index from scratch. Returns ECONFLICT if a build is
// already running and EUNAVAILABLE if the crawl produced no usable
// content.
func (p *Pipeline) Rebuild(ctx context.Context) error {
	if !p.building.CompareAndSwap(false, true) {
		return sitesage.Errorf(sitesage.ECONFLICT, "an index build is already in progress")
	}
	defer p.building.Store(false)

	pages, result, err := p.crawler.CrawlSites(ctx, p.sites)
	if err != nil {
		return err
	}
	p.logger.Info("crawl finished",
		"fetched", result.Fetched,
		"retained", result.Retained,
		"failed", result.Failed,
	)

	chunks, err := p.chunker.ChunkPages(pages)
	if err != nil {
		return err
	}
	chunks = p.chunker.FilterChunks(chunks)
	if len(chunks) == 0 {
		return sitesage.Errorf(sitesage.EUNAVAILABLE, "crawl produced no indexable content")
	}
	p.logger.Info("chunking finished", "pages", len(pages), "chunks", len(chunks))

	return p.index.Build(ctx, chunks)
}

// BuildIfMissing loads a persisted index if one exists and rebuilds only
// when nothing usable is persisted. Reports whether a build ran.
func (p *Pipeline) BuildIfMissing(ctx context.Context) (bool, error) {
	loaded, err := p.index.Load(ctx)
	if err != nil {
		return false, err
	}
	if loaded {
		return false, nil
	}
	if err := p.Rebuild(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// BuildStats returns the current index statistics.
func (p *Pipeline) BuildStats(ctx context.Context) (*sitesage.IndexStats, error) {
	return p.index.Stats(ctx)
}
