package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/quietriver/sitesage"
	"github.com/quietriver/sitesage/chromem"
	"github.com/quietriver/sitesage/crawl"
	"github.com/quietriver/sitesage/gemini"
	"github.com/quietriver/sitesage/goquery"
	sitehttp "github.com/quietriver/sitesage/http"
	"github.com/quietriver/sitesage/langchain"
	"github.com/quietriver/sitesage/rag"
	siteslog "github.com/quietriver/sitesage/slog"
	"google.golang.org/genai"
)

func main() {
	// A missing .env file is fine; environment variables still apply.
	_ = godotenv.Load()

	ctx := context.Background()

	m := NewMain()
	defer m.Close()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Fetcher kept for cleanup after Run.
	Fetcher sitesage.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Fetcher != nil {
		return m.Fetcher.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitesage"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitesage --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))
	deps.Logger = logger

	sites, err := parseSites(cli.Sites, cli.MaxPages)
	if err != nil {
		return err
	}

	indexPath := filepath.Join(cli.DataDir, "sitesage_chromem")

	// Commands other than stats talk to the Gemini API.
	var embedder sitesage.Embedder
	var generator sitesage.Generator
	if cmd != "stats" {
		if cli.APIKey == "" {
			fmt.Fprintln(stderr, "GOOGLE_API_KEY not set. Get an API key at https://aistudio.google.com/apikey")
			return sitesage.Errorf(sitesage.EINVALID, "GOOGLE_API_KEY not set")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cli.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GOOGLE_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		embedder = gemini.NewEmbedder(client)
		generator = gemini.NewGenerator(client, siteDomain(sites))
	}

	index := siteslog.NewLoggingIndex(
		chromem.NewIndex(indexPath, chromem.DefaultCollection, embedder, logger),
		logger,
	)
	deps.Index = index

	splitter, err := langchain.NewSplitter(cli.ChunkSize, cli.ChunkOverlap)
	if err != nil {
		return err
	}
	chunker := &sitesage.Chunker{
		Splitter:  splitter,
		MinLength: sitesage.DefaultMinChunkLength,
	}

	m.Fetcher = siteslog.NewLoggingFetcher(sitehttp.NewFetcher(), logger)
	crawler := &crawl.Crawler{
		Fetcher:     m.Fetcher,
		Extractor:   goquery.NewExtractor(),
		Links:       goquery.NewLinkExtractor(),
		RateLimiter: crawl.NewDomainLimiter(cli.RateLimit),
		RetryDelays: crawl.DefaultRetryDelays(),
		Logger:      logger,
	}

	deps.Pipeline = rag.NewPipeline(crawler, chunker, index, sites, logger)
	if generator != nil {
		deps.Answerer = siteslog.NewLoggingAnswerer(
			rag.NewAnswerer(index, generator, logger),
			logger,
		)
	}
	deps.TopK = cli.TopK

	return kongCtx.Run(deps)
}

// parseSites parses "tag=url" pairs into site configurations.
func parseSites(pairs []string, maxPages int) ([]sitesage.Site, error) {
	if maxPages <= 0 {
		maxPages = crawl.DefaultMaxPages
	}
	sites := make([]sitesage.Site, 0, len(pairs))
	for _, pair := range pairs {
		tag, rootURL, ok := cutPair(pair)
		if !ok {
			return nil, sitesage.Errorf(sitesage.EINVALID, "invalid site %q, expected tag=url", pair)
		}
		site := sitesage.Site{Tag: tag, RootURL: rootURL, MaxPages: maxPages}
		if err := site.Validate(); err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	return sites, nil
}

// siteDomain derives the assistant's domain description from the site
// tags, e.g. "changi airport and jewel changi".
func siteDomain(sites []sitesage.Site) string {
	names := make([]string, len(sites))
	for i, site := range sites {
		names[i] = strings.ReplaceAll(site.Tag, "_", " ")
	}
	return strings.Join(names, " and ")
}

func cutPair(pair string) (tag, url string, ok bool) {
	for i := 0; i < len(pair); i++ {
		if pair[i] == '=' {
			return pair[:i], pair[i+1:], pair[:i] != "" && pair[i+1:] != ""
		}
	}
	return "", "", false
}
