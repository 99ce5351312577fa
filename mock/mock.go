// Package mock provides mock implementations of the service interfaces
// for testing.
package mock

import (
	"context"

	"github.com/quietriver/sitesage"
)

// Compile-time interface checks.
var (
	_ sitesage.Fetcher       = (*Fetcher)(nil)
	_ sitesage.Extractor     = (*Extractor)(nil)
	_ sitesage.LinkExtractor = (*LinkExtractor)(nil)
	_ sitesage.DomainLimiter = (*DomainLimiter)(nil)
	_ sitesage.Splitter      = (*Splitter)(nil)
	_ sitesage.Embedder      = (*Embedder)(nil)
	_ sitesage.Generator     = (*Generator)(nil)
	_ sitesage.Index         = (*Index)(nil)
	_ sitesage.Answerer      = (*Answerer)(nil)
)

// Fetcher is a mock implementation of sitesage.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

// Extractor is a mock implementation of sitesage.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*sitesage.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*sitesage.ExtractResult, error) {
	return e.ExtractFn(html)
}

// LinkExtractor is a mock implementation of sitesage.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html, baseURL string) ([]string, error)
}

func (l *LinkExtractor) ExtractLinks(html, baseURL string) ([]string, error) {
	return l.ExtractLinksFn(html, baseURL)
}

// DomainLimiter is a mock implementation of sitesage.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if d.WaitFn == nil {
		return nil
	}
	return d.WaitFn(ctx, domain)
}

// Splitter is a mock implementation of sitesage.Splitter.
type Splitter struct {
	SplitFn func(text string) ([]string, error)
}

func (s *Splitter) Split(text string) ([]string, error) {
	return s.SplitFn(text)
}

// Embedder is a mock implementation of sitesage.Embedder.
type Embedder struct {
	EmbedQueryFn     func(ctx context.Context, text string) ([]float32, error)
	EmbedDocumentsFn func(ctx context.Context, texts []string) ([][]float32, error)
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedQueryFn(ctx, text)
}

func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedDocumentsFn(ctx, texts)
}

// Generator is a mock implementation of sitesage.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, prompt string) (string, error)
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.GenerateFn(ctx, prompt)
}

// Index is a mock implementation of sitesage.Index.
type Index struct {
	BuildFn  func(ctx context.Context, chunks []*sitesage.Chunk) error
	LoadFn   func(ctx context.Context) (bool, error)
	SearchFn func(ctx context.Context, query string, k int) ([]sitesage.RetrievalResult, error)
	StatsFn  func(ctx context.Context) (*sitesage.IndexStats, error)
}

func (i *Index) Build(ctx context.Context, chunks []*sitesage.Chunk) error {
	return i.BuildFn(ctx, chunks)
}

func (i *Index) Load(ctx context.Context) (bool, error) {
	return i.LoadFn(ctx)
}

func (i *Index) Search(ctx context.Context, query string, k int) ([]sitesage.RetrievalResult, error) {
	return i.SearchFn(ctx, query, k)
}

func (i *Index) Stats(ctx context.Context) (*sitesage.IndexStats, error) {
	return i.StatsFn(ctx)
}

// Answerer is a mock implementation of sitesage.Answerer.
type Answerer struct {
	AnswerFn func(ctx context.Context, query string, k int) (*sitesage.Answer, error)
}

func (a *Answerer) Answer(ctx context.Context, query string, k int) (*sitesage.Answer, error) {
	return a.AnswerFn(ctx, query, k)
}
