// Package chromem provides a persistent vector index built on the
// chromem-go embedded vector database.
package chromem

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	chromemgo "github.com/philippgille/chromem-go"
	"github.com/quietriver/sitesage"
)

// Default storage layout. The collection name and path are fixed per
// deployment; build and load must agree on both.
const (
	DefaultPath       = "data/sitesage_chromem"
	DefaultCollection = "site_docs"
)

// Ensure Index implements sitesage.Index at compile time.
var _ sitesage.Index = (*Index)(nil)

// Index stores chunk embeddings in a chromem-go collection persisted at a
// fixed path. Build writes the new collection to a scratch directory and
// swaps it into place only after every document has been added, so a
// query during a rebuild observes the pre-build snapshot and a failed
// build never corrupts the previous persisted state.
type Index struct {
	path       string
	collection string
	embedder   sitesage.Embedder
	logger     *slog.Logger

	mu  sync.RWMutex
	db  *chromemgo.DB
	col *chromemgo.Collection
}

// NewIndex creates an Index persisting at path under the given collection
// name. Empty values fall back to the defaults.
func NewIndex(path, collection string, embedder sitesage.Embedder, logger *slog.Logger) *Index {
	if path == "" {
		path = DefaultPath
	}
	if collection == "" {
		collection = DefaultCollection
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Index{
		path:       path,
		collection: collection,
		embedder:   embedder,
		logger:     logger,
	}
}

// embeddingFunc adapts the Embedder for chromem's query path. The same
// embedder serves document embedding in Build.
func (idx *Index) embeddingFunc() chromemgo.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return idx.embedder.EmbedQuery(ctx, text)
	}
}

// Build creates a fresh persisted collection from chunks, replacing any
// previously persisted collection. An empty chunk sequence performs no
// embedding or persistence work and leaves any existing collection
// untouched.
func (idx *Index) Build(ctx context.Context, chunks []*sitesage.Chunk) error {
	if len(chunks) == 0 {
		idx.logger.Warn("no chunks provided, index not built")
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		if err := chunk.Validate(); err != nil {
			return err
		}
		texts[i] = chunk.Text
	}

	embeddings, err := idx.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return sitesage.Errorf(sitesage.EUNAVAILABLE, "embedding failed: %v", err)
	}
	if len(embeddings) != len(chunks) {
		return sitesage.Errorf(sitesage.EINTERNAL, "embedder returned %d vectors for %d chunks", len(embeddings), len(chunks))
	}

	docs := make([]chromemgo.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chromemgo.Document{
			ID:        documentID(chunk),
			Content:   chunk.Text,
			Metadata:  metadataToMap(chunk.Metadata),
			Embedding: embeddings[i],
		}
	}

	// Build into a scratch directory first.
	scratch := idx.path + ".build"
	if err := os.RemoveAll(scratch); err != nil {
		return sitesage.Errorf(sitesage.EINTERNAL, "failed to clear build directory: %v", err)
	}
	db, err := chromemgo.NewPersistentDB(scratch, false)
	if err != nil {
		return sitesage.Errorf(sitesage.EINTERNAL, "failed to create vector store: %v", err)
	}
	col, err := db.CreateCollection(idx.collection, nil, idx.embeddingFunc())
	if err != nil {
		return sitesage.Errorf(sitesage.EINTERNAL, "failed to create collection %q: %v", idx.collection, err)
	}
	if err := col.AddDocuments(ctx, docs, 1); err != nil {
		return sitesage.Errorf(sitesage.EINTERNAL, "failed to persist documents: %v", err)
	}

	// Swap the finished build into place and re-attach under the write
	// lock, blocking queries for the duration of the swap only.
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if err := os.RemoveAll(idx.path); err != nil {
		return sitesage.Errorf(sitesage.EINTERNAL, "failed to replace index at %q: %v", idx.path, err)
	}
	if err := os.Rename(scratch, idx.path); err != nil {
		return sitesage.Errorf(sitesage.EINTERNAL, "failed to replace index at %q: %v", idx.path, err)
	}
	db, err = chromemgo.NewPersistentDB(idx.path, false)
	if err != nil {
		return sitesage.Errorf(sitesage.EINTERNAL, "failed to reopen index at %q: %v", idx.path, err)
	}
	col = db.GetCollection(idx.collection, idx.embeddingFunc())
	if col == nil {
		return sitesage.Errorf(sitesage.EINTERNAL, "collection %q missing after build", idx.collection)
	}
	idx.db = db
	idx.col = col

	idx.logger.Info("index built",
		"collection", idx.collection,
		"path", idx.path,
		"documents", len(docs),
	)
	return nil
}

// Load attaches to a previously persisted collection. Nothing persisted
// yet is a normal state reported as (false, nil); only unexpected storage
// failures return an error.
func (idx *Index) Load(_ context.Context) (bool, error) {
	if _, err := os.Stat(idx.path); os.IsNotExist(err) {
		idx.logger.Info("no persisted index found", "path", idx.path)
		return false, nil
	}

	db, err := chromemgo.NewPersistentDB(idx.path, false)
	if err != nil {
		return false, sitesage.Errorf(sitesage.EINTERNAL, "failed to open vector store at %q: %v", idx.path, err)
	}
	col := db.GetCollection(idx.collection, idx.embeddingFunc())
	if col == nil {
		idx.logger.Info("persisted store has no collection", "collection", idx.collection)
		return false, nil
	}

	idx.mu.Lock()
	idx.db = db
	idx.col = col
	idx.mu.Unlock()

	idx.logger.Info("index loaded",
		"collection", idx.collection,
		"documents", col.Count(),
	)
	return true, nil
}

// Search embeds the query and returns the top k nearest stored documents.
// Returns ENOTFOUND when no collection is attached; it never invents
// results.
func (idx *Index) Search(ctx context.Context, query string, k int) ([]sitesage.RetrievalResult, error) {
	if query == "" {
		return nil, sitesage.Errorf(sitesage.EINVALID, "query required")
	}
	if k <= 0 {
		return nil, sitesage.Errorf(sitesage.EINVALID, "k must be positive")
	}

	idx.mu.RLock()
	col := idx.col
	idx.mu.RUnlock()
	if col == nil {
		return nil, sitesage.Errorf(sitesage.ENOTFOUND, "index not built")
	}

	// chromem requires k <= document count.
	count := col.Count()
	if count == 0 {
		return []sitesage.RetrievalResult{}, nil
	}
	if k > count {
		k = count
	}

	results, err := col.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, sitesage.Errorf(sitesage.EINTERNAL, "query failed: %v", err)
	}

	retrieved := make([]sitesage.RetrievalResult, len(results))
	for i, r := range results {
		retrieved[i] = sitesage.RetrievalResult{
			Content:  r.Content,
			Metadata: metadataFromMap(r.Metadata),
			Score:    r.Similarity,
		}
	}
	return retrieved, nil
}

// Stats reports the persisted collection's existence, location and
// document count. The count is only known while a collection is
// attached.
func (idx *Index) Stats(_ context.Context) (*sitesage.IndexStats, error) {
	idx.mu.RLock()
	col := idx.col
	idx.mu.RUnlock()

	stats := &sitesage.IndexStats{
		Path:       idx.path,
		Collection: idx.collection,
	}
	if _, err := os.Stat(idx.path); err == nil {
		stats.Exists = true
	}
	if col != nil {
		stats.Attached = true
		stats.DocumentCount = col.Count()
		stats.CountKnown = true
	}
	return stats, nil
}

// documentID derives a stable ID from the chunk's parent URL and its
// position in the page's chunk sequence.
func documentID(chunk *sitesage.Chunk) string {
	h := xxhash.Sum64String(chunk.Metadata.URL)
	return fmt.Sprintf("%016x-%04d", h, chunk.Metadata.ChunkID)
}

// metadataToMap flattens chunk metadata into chromem's string map form.
func metadataToMap(m sitesage.ChunkMetadata) map[string]string {
	return map[string]string{
		"url":            m.URL,
		"title":          m.Title,
		"source_tag":     m.SourceTag,
		"content_length": strconv.Itoa(m.ContentLength),
		"chunk_id":       strconv.Itoa(m.ChunkID),
		"chunk_size":     strconv.Itoa(m.ChunkSize),
		"total_chunks":   strconv.Itoa(m.TotalChunks),
	}
}

// metadataFromMap restores chunk metadata from its persisted string map
// form.
func metadataFromMap(m map[string]string) sitesage.ChunkMetadata {
	atoi := func(s string) int {
		n, _ := strconv.Atoi(s)
		return n
	}
	return sitesage.ChunkMetadata{
		URL:           m["url"],
		Title:         m["title"],
		SourceTag:     m["source_tag"],
		ContentLength: atoi(m["content_length"]),
		ChunkID:       atoi(m["chunk_id"]),
		ChunkSize:     atoi(m["chunk_size"]),
		TotalChunks:   atoi(m["total_chunks"]),
	}
}
