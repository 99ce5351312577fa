package sitesage

import "context"

// RetrievalResult is one matched document returned for a query. Score is
// the similarity reported by the underlying vector store (cosine
// similarity in [0, 1], higher is closer).
type RetrievalResult struct {
	Content  string        `json:"content"`
	Metadata ChunkMetadata `json:"metadata"`
	Score    float32       `json:"score"`
}

// IndexStats reports the state of the persisted collection.
type IndexStats struct {
	// Exists reports whether anything is persisted at Path.
	Exists bool `json:"exists"`

	// Attached reports whether the index is currently attached to a
	// collection and able to serve queries.
	Attached bool `json:"attached"`

	Path       string `json:"path"`
	Collection string `json:"collection"`

	// DocumentCount is only meaningful when CountKnown is true. The store
	// cannot report a count for a collection it is not attached to.
	DocumentCount int  `json:"document_count"`
	CountKnown    bool `json:"count_known"`
}

// Index wraps a persisted vector collection kept at a fixed storage
// location under a fixed collection identifier.
type Index interface {
	// Build creates a fresh persisted collection from chunks, replacing
	// any previously persisted collection. An empty chunk sequence
	// performs no embedding or persistence work.
	Build(ctx context.Context, chunks []*Chunk) error

	// Load attaches to a previously persisted collection. A missing
	// collection is a normal state reported as (false, nil); only
	// unexpected storage failures return an error.
	Load(ctx context.Context) (bool, error)

	// Search embeds the query and returns the top k nearest stored
	// documents. Returns ENOTFOUND when no collection is attached; it
	// never invents results.
	Search(ctx context.Context, query string, k int) ([]RetrievalResult, error)

	// Stats reports collection existence, storage location and document
	// count.
	Stats(ctx context.Context) (*IndexStats, error)
}

// Embedder computes embedding vectors for text. The same model must serve
// both document and query embeddings or similarity between them is
// meaningless.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}
