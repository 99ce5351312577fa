package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/quietriver/sitesage"
	"github.com/quietriver/sitesage/rag"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Index    sitesage.Index
	Pipeline *rag.Pipeline
	Answerer sitesage.Answerer
	TopK     int
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Serve ServeCmd `cmd:"" help:"Run the HTTP API server"`
	Build BuildCmd `cmd:"" help:"Crawl the configured sites and build the index"`
	Ask   AskCmd   `cmd:"" help:"Ask a question against the built index"`
	Stats StatsCmd `cmd:"" help:"Show index statistics"`

	APIKey       string   `env:"GOOGLE_API_KEY" help:"Google Gemini API key"`
	DataDir      string   `env:"DATA_DIR" default:"data" help:"Directory holding the persisted index"`
	ChunkSize    int      `env:"CHUNK_SIZE" default:"1000" help:"Chunk size in characters"`
	ChunkOverlap int      `env:"CHUNK_OVERLAP" default:"200" help:"Chunk overlap in characters"`
	TopK         int      `env:"TOP_K_RESULTS" default:"5" help:"Chunks retrieved per question"`
	MaxPages     int      `env:"MAX_PAGES_PER_SITE" default:"50" help:"Page budget per site"`
	RateLimit    float64  `env:"CRAWL_RATE_LIMIT" default:"2" help:"Fetches per second per domain"`
	Sites        []string `env:"SITES" default:"changi_airport=https://www.changiairport.com,jewel_changi=https://www.jewelchangiairport.com" help:"Sites to crawl as tag=url pairs"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `env:"ADDR" default:":8080" help:"HTTP listen address"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	IfMissing bool `help:"Skip the build when a persisted index already exists"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to ask"`
	TopK     int    `short:"k" help:"Chunks to retrieve (overrides TOP_K_RESULTS)"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}
