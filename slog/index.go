package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/quietriver/sitesage"
)

// Ensure LoggingIndex implements sitesage.Index.
var _ sitesage.Index = (*LoggingIndex)(nil)

// LoggingIndex wraps an Index with operation logging.
type LoggingIndex struct {
	next   sitesage.Index
	logger *slog.Logger
}

// NewLoggingIndex creates a new LoggingIndex.
func NewLoggingIndex(next sitesage.Index, logger *slog.Logger) *LoggingIndex {
	return &LoggingIndex{next: next, logger: logger}
}

// Build delegates to the wrapped index and logs the operation.
func (i *LoggingIndex) Build(ctx context.Context, chunks []*sitesage.Chunk) (err error) {
	defer func(begin time.Time) {
		i.logger.Info("index build",
			"chunks", len(chunks),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return i.next.Build(ctx, chunks)
}

// Load delegates to the wrapped index and logs the operation.
func (i *LoggingIndex) Load(ctx context.Context) (loaded bool, err error) {
	defer func(begin time.Time) {
		i.logger.Info("index load",
			"loaded", loaded,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return i.next.Load(ctx)
}

// Search delegates to the wrapped index and logs the operation.
func (i *LoggingIndex) Search(ctx context.Context, query string, k int) (results []sitesage.RetrievalResult, err error) {
	defer func(begin time.Time) {
		i.logger.Info("index search",
			"k", k,
			"results", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return i.next.Search(ctx, query, k)
}

// Stats delegates to the wrapped index.
func (i *LoggingIndex) Stats(ctx context.Context) (*sitesage.IndexStats, error) {
	return i.next.Stats(ctx)
}
