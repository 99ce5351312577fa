package rag_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/quietriver/sitesage"
	"github.com/quietriver/sitesage/mock"
	"github.com/quietriver/sitesage/rag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func retrievalResult(url, content string) sitesage.RetrievalResult {
	return sitesage.RetrievalResult{
		Content: content,
		Metadata: sitesage.ChunkMetadata{
			URL:       url,
			Title:     "Page Title",
			SourceTag: "example_site",
		},
		Score: 0.9,
	}
}

func TestAnswerer_Answer(t *testing.T) {
	t.Parallel()

	t.Run("answers with sources from retrieved chunks", func(t *testing.T) {
		t.Parallel()

		index := &mock.Index{
			SearchFn: func(ctx context.Context, query string, k int) ([]sitesage.RetrievalResult, error) {
				assert.Equal(t, "where is the lounge", query)
				assert.Equal(t, rag.DefaultTopK, k)
				return []sitesage.RetrievalResult{
					retrievalResult("https://example.com/lounges", "the lounge is in terminal one"),
				}, nil
			},
		}
		generator := &mock.Generator{
			GenerateFn: func(ctx context.Context, prompt string) (string, error) {
				assert.Contains(t, prompt, "the lounge is in terminal one")
				assert.Contains(t, prompt, "where is the lounge")
				return "The lounge is in terminal one.", nil
			},
		}

		answerer := rag.NewAnswerer(index, generator, nil)
		answer, err := answerer.Answer(context.Background(), "where is the lounge", 0)
		require.NoError(t, err)
		assert.Equal(t, "The lounge is in terminal one.", answer.Answer)
		assert.Equal(t, "where is the lounge", answer.Query)
		assert.Empty(t, answer.Err)
		require.Len(t, answer.Sources, 1)
		assert.Equal(t, "https://example.com/lounges", answer.Sources[0].URL)
		assert.Equal(t, "Page Title", answer.Sources[0].Title)
		assert.Equal(t, "example_site", answer.Sources[0].SourceTag)
		assert.Equal(t, "the lounge is in terminal one", answer.Sources[0].ContentPreview)
	})

	t.Run("emits one source per retrieved result", func(t *testing.T) {
		t.Parallel()

		// Two chunks of the same page each get their own citation, so the
		// Nth source always matches the Nth context block.
		index := &mock.Index{
			SearchFn: func(ctx context.Context, query string, k int) ([]sitesage.RetrievalResult, error) {
				return []sitesage.RetrievalResult{
					retrievalResult("https://example.com/a", "chunk one"),
					retrievalResult("https://example.com/a", "chunk two"),
					retrievalResult("https://example.com/b", "chunk three"),
				}, nil
			},
		}
		generator := &mock.Generator{
			GenerateFn: func(ctx context.Context, prompt string) (string, error) {
				return "answer", nil
			},
		}

		answerer := rag.NewAnswerer(index, generator, nil)
		answer, err := answerer.Answer(context.Background(), "question", 3)
		require.NoError(t, err)
		require.Len(t, answer.Sources, 3)
		assert.Equal(t, "https://example.com/a", answer.Sources[0].URL)
		assert.Equal(t, "chunk one", answer.Sources[0].ContentPreview)
		assert.Equal(t, "https://example.com/a", answer.Sources[1].URL)
		assert.Equal(t, "chunk two", answer.Sources[1].ContentPreview)
		assert.Equal(t, "https://example.com/b", answer.Sources[2].URL)
		assert.Equal(t, "chunk three", answer.Sources[2].ContentPreview)
	})

	t.Run("truncates long source previews", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("x", sitesage.PreviewLength+100)
		index := &mock.Index{
			SearchFn: func(ctx context.Context, query string, k int) ([]sitesage.RetrievalResult, error) {
				return []sitesage.RetrievalResult{retrievalResult("https://example.com/a", long)}, nil
			},
		}
		generator := &mock.Generator{
			GenerateFn: func(ctx context.Context, prompt string) (string, error) { return "answer", nil },
		}

		answerer := rag.NewAnswerer(index, generator, nil)
		answer, err := answerer.Answer(context.Background(), "question", 1)
		require.NoError(t, err)
		require.Len(t, answer.Sources, 1)
		assert.Len(t, answer.Sources[0].ContentPreview, sitesage.PreviewLength+len("..."))
		assert.True(t, strings.HasSuffix(answer.Sources[0].ContentPreview, "..."))
	})

	t.Run("returns fixed answer when index is missing", func(t *testing.T) {
		t.Parallel()

		index := &mock.Index{
			SearchFn: func(ctx context.Context, query string, k int) ([]sitesage.RetrievalResult, error) {
				return nil, sitesage.Errorf(sitesage.ENOTFOUND, "index not built")
			},
		}

		answerer := rag.NewAnswerer(index, &mock.Generator{}, nil)
		answer, err := answerer.Answer(context.Background(), "question", 5)
		require.NoError(t, err)
		assert.Equal(t, "The knowledge base is not available yet. Please build the index first.", answer.Answer)
		assert.Empty(t, answer.Sources)
		assert.NotEmpty(t, answer.Err)
	})

	t.Run("returns fixed answer when nothing relevant is found", func(t *testing.T) {
		t.Parallel()

		index := &mock.Index{
			SearchFn: func(ctx context.Context, query string, k int) ([]sitesage.RetrievalResult, error) {
				return nil, nil
			},
		}

		answerer := rag.NewAnswerer(index, &mock.Generator{}, nil)
		answer, err := answerer.Answer(context.Background(), "question", 5)
		require.NoError(t, err)
		assert.Equal(t, "I couldn't find relevant information to answer your question.", answer.Answer)
		assert.Empty(t, answer.Sources)
		assert.Empty(t, answer.Err)
	})

	t.Run("falls back with sources when generation fails", func(t *testing.T) {
		t.Parallel()

		index := &mock.Index{
			SearchFn: func(ctx context.Context, query string, k int) ([]sitesage.RetrievalResult, error) {
				return []sitesage.RetrievalResult{retrievalResult("https://example.com/a", "content")}, nil
			},
		}
		generator := &mock.Generator{
			GenerateFn: func(ctx context.Context, prompt string) (string, error) {
				return "", errors.New("model overloaded")
			},
		}

		answerer := rag.NewAnswerer(index, generator, nil)
		answer, err := answerer.Answer(context.Background(), "question", 5)
		require.NoError(t, err)
		assert.Equal(t, "I found relevant information but couldn't generate an answer. Please try rephrasing your question.", answer.Answer)
		require.Len(t, answer.Sources, 1)
		assert.Equal(t, "model overloaded", answer.Err)
	})

	t.Run("rejects empty query", func(t *testing.T) {
		t.Parallel()

		answerer := rag.NewAnswerer(&mock.Index{}, &mock.Generator{}, nil)
		_, err := answerer.Answer(context.Background(), "   ", 5)
		assert.Equal(t, sitesage.EINVALID, sitesage.ErrorCode(err))
	})

	t.Run("propagates unexpected search errors", func(t *testing.T) {
		t.Parallel()

		index := &mock.Index{
			SearchFn: func(ctx context.Context, query string, k int) ([]sitesage.RetrievalResult, error) {
				return nil, sitesage.Errorf(sitesage.EINTERNAL, "store corrupted")
			},
		}

		answerer := rag.NewAnswerer(index, &mock.Generator{}, nil)
		_, err := answerer.Answer(context.Background(), "question", 5)
		assert.Equal(t, sitesage.EINTERNAL, sitesage.ErrorCode(err))
	})
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	results := []sitesage.RetrievalResult{
		retrievalResult("https://example.com/a", "first context block"),
		retrievalResult("https://example.com/b", "second context block"),
	}

	prompt := rag.BuildPrompt("what are the hours", results)
	assert.Contains(t, prompt, "first context block\n\nsecond context block")
	assert.Contains(t, prompt, "Question: what are the hours")
}
