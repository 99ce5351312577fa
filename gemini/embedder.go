// Package gemini provides embedding and answer generation using the
// Google Gemini API.
package gemini

import (
	"context"

	"github.com/quietriver/sitesage"
	"google.golang.org/genai"
)

// embeddingModel is used for both document and query embeddings. The
// build and query paths must share one model or similarity between them
// is meaningless.
const embeddingModel = "gemini-embedding-001"

// Ensure Embedder implements sitesage.Embedder at compile time.
var _ sitesage.Embedder = (*Embedder)(nil)

// Embedder computes embeddings using the Gemini embedding API.
type Embedder struct {
	client *genai.Client
}

// NewEmbedder creates a new Embedder.
func NewEmbedder(client *genai.Client) *Embedder {
	return &Embedder{client: client}
}

// EmbedQuery embeds a single query text.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, sitesage.Errorf(sitesage.EINVALID, "text required")
	}
	vectors, err := e.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedDocuments embeds a batch of document texts in one call.
func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, sitesage.Errorf(sitesage.EINVALID, "texts required")
	}
	return e.embed(ctx, texts)
}

func (e *Embedder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	result, err := e.client.Models.EmbedContent(ctx, embeddingModel, contents, nil)
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Embeddings) != len(texts) {
		return nil, sitesage.Errorf(sitesage.EINTERNAL, "gemini returned unexpected embedding count for %d texts", len(texts))
	}

	vectors := make([][]float32, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		vectors[i] = emb.Values
	}
	return vectors, nil
}
