// Package rag orchestrates the retrieval-augmented answer flow and the
// crawl-chunk-index pipeline behind it.
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quietriver/sitesage"
)

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 5

// Fixed responses for the degraded paths. These are returned verbatim so
// callers and tests can rely on them.
const (
	missingIndexAnswer = "The knowledge base is not available yet. Please build the index first."
	insufficientAnswer = "I couldn't find relevant information to answer your question."
	generationFallback = "I found relevant information but couldn't generate an answer. Please try rephrasing your question."
)

// Ensure Answerer implements sitesage.Answerer at compile time.
var _ sitesage.Answerer = (*Answerer)(nil)

// Answerer answers questions by retrieving relevant chunks from the
// index and asking the generator to synthesize an answer grounded in
// them. Degraded conditions (no index, no relevant chunks, generation
// failure) produce a fixed answer rather than an error so the caller
// always has something to present.
type Answerer struct {
	index     sitesage.Index
	generator sitesage.Generator
	logger    *slog.Logger
}

// NewAnswerer creates an Answerer over index and generator.
func NewAnswerer(index sitesage.Index, generator sitesage.Generator, logger *slog.Logger) *Answerer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Answerer{index: index, generator: generator, logger: logger}
}

// Answer retrieves the k most relevant chunks for query and generates a
// grounded answer with source attribution. k falls back to DefaultTopK
// when non-positive. An empty query is the only error condition.
func (a *Answerer) Answer(ctx context.Context, query string, k int) (*sitesage.Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, sitesage.Errorf(sitesage.EINVALID, "query required")
	}
	if k <= 0 {
		k = DefaultTopK
	}

	results, err := a.index.Search(ctx, query, k)
	if err != nil {
		if sitesage.ErrorCode(err) == sitesage.ENOTFOUND {
			return &sitesage.Answer{
				Answer: missingIndexAnswer,
				Query:  query,
				Err:    sitesage.ErrorMessage(err),
			}, nil
		}
		return nil, err
	}
	if len(results) == 0 {
		return &sitesage.Answer{
			Answer: insufficientAnswer,
			Query:  query,
		}, nil
	}

	answer, err := a.generator.Generate(ctx, BuildPrompt(query, results))
	if err != nil {
		a.logger.Error("answer generation failed", "query", query, "error", err)
		return &sitesage.Answer{
			Answer:  generationFallback,
			Sources: buildSources(results),
			Query:   query,
			Err:     err.Error(),
		}, nil
	}

	return &sitesage.Answer{
		Answer:  answer,
		Sources: buildSources(results),
		Query:   query,
	}, nil
}

// BuildPrompt assembles the generation prompt: the retrieved chunk texts
// in retrieval order, double-newline separated, followed by the verbatim
// question.
func BuildPrompt(query string, results []sitesage.RetrievalResult) string {
	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Content
	}

	var b strings.Builder
	b.WriteString("Answer the question based on the provided context. If the context does not contain enough information to answer the question, say so.\n\nContext:\n")
	b.WriteString(strings.Join(texts, "\n\n"))
	fmt.Fprintf(&b, "\n\nQuestion: %s\n\nAnswer:", query)
	return b.String()
}

// buildSources converts retrieval results into attribution entries, one
// per result in retrieval order, so the Nth source cites the Nth context
// block.
func buildSources(results []sitesage.RetrievalResult) []sitesage.Source {
	sources := make([]sitesage.Source, len(results))
	for i, r := range results {
		sources[i] = sitesage.Source{
			URL:            r.Metadata.URL,
			Title:          r.Metadata.Title,
			SourceTag:      r.Metadata.SourceTag,
			ContentPreview: sitesage.Preview(r.Content),
		}
	}
	return sources
}
