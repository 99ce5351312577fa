package sitesage

// Chunk is the unit of retrieval: a bounded, overlap-aware segment of one
// page's content tagged with provenance metadata. Chunks are immutable
// after creation.
type Chunk struct {
	Text     string        `json:"text"`
	Metadata ChunkMetadata `json:"metadata"`
}

// ChunkMetadata carries page provenance plus the chunk's position within
// its parent page's chunk sequence. ChunkID is the zero-based position of
// the chunk among the chunks produced for its page; TotalChunks is the
// count produced for that page and is identical across all of them.
type ChunkMetadata struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	SourceTag     string `json:"source_tag"`
	ContentLength int    `json:"content_length"`
	ChunkID       int    `json:"chunk_id"`
	ChunkSize     int    `json:"chunk_size"`
	TotalChunks   int    `json:"total_chunks"`
}

// Validate returns an error if the chunk contains invalid fields.
func (c *Chunk) Validate() error {
	if c.Text == "" {
		return Errorf(EINVALID, "chunk text required")
	}
	if c.Metadata.URL == "" {
		return Errorf(EINVALID, "chunk URL required")
	}
	if c.Metadata.ChunkID < 0 || c.Metadata.ChunkID >= c.Metadata.TotalChunks {
		return Errorf(EINVALID, "chunk ID %d outside [0, %d)", c.Metadata.ChunkID, c.Metadata.TotalChunks)
	}
	return nil
}

// Splitter splits text into bounded, overlapping segments. Splitting
// happens at the largest available natural boundary (paragraph break,
// line break, space, then arbitrary character position) such that no
// segment exceeds the configured chunk size.
type Splitter interface {
	Split(text string) ([]string, error)
}
