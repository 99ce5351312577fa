package chromem_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/quietriver/sitesage"
	"github.com/quietriver/sitesage/chromem"
	"github.com/quietriver/sitesage/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEmbedder returns deterministic unit vectors keyed by text so queries
// can be steered to a known document.
func testEmbedder(vectors map[string][]float32) *mock.Embedder {
	lookup := func(text string) []float32 {
		if v, ok := vectors[text]; ok {
			return v
		}
		return []float32{0, 0, 1}
	}
	return &mock.Embedder{
		EmbedQueryFn: func(_ context.Context, text string) ([]float32, error) {
			return lookup(text), nil
		},
		EmbedDocumentsFn: func(_ context.Context, texts []string) ([][]float32, error) {
			out := make([][]float32, len(texts))
			for i, text := range texts {
				out[i] = lookup(text)
			}
			return out, nil
		},
	}
}

func testChunk(url string, id, total int, text string) *sitesage.Chunk {
	return &sitesage.Chunk{
		Text: text,
		Metadata: sitesage.ChunkMetadata{
			URL:           url,
			Title:         "Page Title",
			SourceTag:     "example_site",
			ContentLength: len(text),
			ChunkID:       id,
			ChunkSize:     len(text),
			TotalChunks:   total,
		},
	}
}

func TestIndex_Build(t *testing.T) {
	t.Parallel()

	t.Run("builds and serves queries", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		embedder := testEmbedder(map[string][]float32{
			"lounges are in terminal one": {1, 0, 0},
			"dining is in terminal two":   {0, 1, 0},
			"where are the lounges":       {1, 0, 0},
		})
		idx := chromem.NewIndex(filepath.Join(t.TempDir(), "store"), "site_docs", embedder, slog.New(slog.DiscardHandler))

		chunks := []*sitesage.Chunk{
			testChunk("https://example.com/lounges", 0, 1, "lounges are in terminal one"),
			testChunk("https://example.com/dining", 0, 1, "dining is in terminal two"),
		}
		require.NoError(t, idx.Build(ctx, chunks))

		results, err := idx.Search(ctx, "where are the lounges", 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "lounges are in terminal one", results[0].Content)
		assert.Equal(t, "https://example.com/lounges", results[0].Metadata.URL)
		assert.Equal(t, "Page Title", results[0].Metadata.Title)
		assert.Equal(t, "example_site", results[0].Metadata.SourceTag)
		assert.Equal(t, 1, results[0].Metadata.TotalChunks)
		assert.InDelta(t, 1.0, float64(results[0].Score), 0.01)
	})

	t.Run("empty chunks is a logged no-op", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "store")
		idx := chromem.NewIndex(path, "site_docs", testEmbedder(nil), nil)

		require.NoError(t, idx.Build(context.Background(), nil))
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("rejects invalid chunks", func(t *testing.T) {
		t.Parallel()

		idx := chromem.NewIndex(filepath.Join(t.TempDir(), "store"), "site_docs", testEmbedder(nil), nil)
		bad := testChunk("https://example.com/a", 0, 1, "text")
		bad.Metadata.URL = ""

		err := idx.Build(context.Background(), []*sitesage.Chunk{bad})
		assert.Equal(t, sitesage.EINVALID, sitesage.ErrorCode(err))
	})

	t.Run("rebuild replaces the previous collection", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "store")
		idx := chromem.NewIndex(path, "site_docs", testEmbedder(nil), nil)

		first := []*sitesage.Chunk{
			testChunk("https://example.com/a", 0, 1, "first a"),
			testChunk("https://example.com/b", 0, 1, "first b"),
		}
		require.NoError(t, idx.Build(ctx, first))

		second := []*sitesage.Chunk{
			testChunk("https://example.com/c", 0, 1, "second c"),
		}
		require.NoError(t, idx.Build(ctx, second))

		stats, err := idx.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.DocumentCount)
	})
}

func TestIndex_Load(t *testing.T) {
	t.Parallel()

	t.Run("returns false when nothing persisted", func(t *testing.T) {
		t.Parallel()

		idx := chromem.NewIndex(filepath.Join(t.TempDir(), "store"), "site_docs", testEmbedder(nil), nil)
		loaded, err := idx.Load(context.Background())
		require.NoError(t, err)
		assert.False(t, loaded)
	})

	t.Run("attaches to a previously built collection", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "store")
		vectors := map[string][]float32{
			"persisted content about parking": {1, 0, 0},
			"parking":                         {1, 0, 0},
		}

		builder := chromem.NewIndex(path, "site_docs", testEmbedder(vectors), nil)
		require.NoError(t, builder.Build(ctx, []*sitesage.Chunk{
			testChunk("https://example.com/parking", 0, 1, "persisted content about parking"),
		}))

		// A fresh instance simulates a process restart.
		idx := chromem.NewIndex(path, "site_docs", testEmbedder(vectors), nil)
		loaded, err := idx.Load(ctx)
		require.NoError(t, err)
		require.True(t, loaded)

		results, err := idx.Search(ctx, "parking", 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "persisted content about parking", results[0].Content)
	})
}

func TestIndex_Search(t *testing.T) {
	t.Parallel()

	t.Run("returns not found before build", func(t *testing.T) {
		t.Parallel()

		idx := chromem.NewIndex(filepath.Join(t.TempDir(), "store"), "site_docs", testEmbedder(nil), nil)
		_, err := idx.Search(context.Background(), "anything", 5)
		assert.Equal(t, sitesage.ENOTFOUND, sitesage.ErrorCode(err))
	})

	t.Run("caps k at the document count", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		idx := chromem.NewIndex(filepath.Join(t.TempDir(), "store"), "site_docs", testEmbedder(nil), nil)
		require.NoError(t, idx.Build(ctx, []*sitesage.Chunk{
			testChunk("https://example.com/only", 0, 1, "the only document"),
		}))

		results, err := idx.Search(ctx, "anything", 10)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("validates arguments", func(t *testing.T) {
		t.Parallel()

		idx := chromem.NewIndex(filepath.Join(t.TempDir(), "store"), "site_docs", testEmbedder(nil), nil)

		_, err := idx.Search(context.Background(), "", 5)
		assert.Equal(t, sitesage.EINVALID, sitesage.ErrorCode(err))

		_, err = idx.Search(context.Background(), "query", 0)
		assert.Equal(t, sitesage.EINVALID, sitesage.ErrorCode(err))
	})
}

func TestIndex_Stats(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store")
	idx := chromem.NewIndex(path, "site_docs", testEmbedder(nil), nil)

	stats, err := idx.Stats(ctx)
	require.NoError(t, err)
	assert.False(t, stats.Exists)
	assert.False(t, stats.Attached)
	assert.False(t, stats.CountKnown)
	assert.Equal(t, path, stats.Path)
	assert.Equal(t, "site_docs", stats.Collection)

	require.NoError(t, idx.Build(ctx, []*sitesage.Chunk{
		testChunk("https://example.com/a", 0, 2, "chunk one text"),
		testChunk("https://example.com/a", 1, 2, "chunk two text"),
	}))

	stats, err = idx.Stats(ctx)
	require.NoError(t, err)
	assert.True(t, stats.Exists)
	assert.True(t, stats.Attached)
	assert.True(t, stats.CountKnown)
	assert.Equal(t, 2, stats.DocumentCount)
}
