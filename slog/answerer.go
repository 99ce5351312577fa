package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/quietriver/sitesage"
)

// Ensure LoggingAnswerer implements sitesage.Answerer.
var _ sitesage.Answerer = (*LoggingAnswerer)(nil)

// LoggingAnswerer wraps an Answerer with per-question logging.
type LoggingAnswerer struct {
	next   sitesage.Answerer
	logger *slog.Logger
}

// NewLoggingAnswerer creates a new LoggingAnswerer.
func NewLoggingAnswerer(next sitesage.Answerer, logger *slog.Logger) *LoggingAnswerer {
	return &LoggingAnswerer{next: next, logger: logger}
}

// Answer delegates to the wrapped answerer and logs the operation.
func (a *LoggingAnswerer) Answer(ctx context.Context, query string, k int) (answer *sitesage.Answer, err error) {
	defer func(begin time.Time) {
		sources := 0
		if answer != nil {
			sources = len(answer.Sources)
		}
		a.logger.Info("answer",
			"query", query,
			"k", k,
			"sources", sources,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Answer(ctx, query, k)
}
