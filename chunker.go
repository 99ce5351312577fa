package sitesage

import (
	"regexp"
	"strings"
)

// DefaultMinChunkLength is the minimum trimmed length a chunk must have
// to survive filtering.
const DefaultMinChunkLength = 50

var (
	whitespaceRuns = regexp.MustCompile(`\s+`)

	// disallowedChars matches characters outside the allow-list of word
	// characters, whitespace and basic punctuation.
	disallowedChars = regexp.MustCompile(`[^\w\s.,!?:;\-()\[\]]`)
)

// CleanText collapses whitespace runs to single spaces, trims, and strips
// characters outside the allow-list.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = whitespaceRuns.ReplaceAllString(strings.TrimSpace(text), " ")
	return strings.TrimSpace(disallowedChars.ReplaceAllString(text, ""))
}

// Chunker turns crawled pages into retrieval chunks: it cleans page
// content, splits it into bounded overlapping segments, and attaches
// provenance metadata to each segment.
type Chunker struct {
	Splitter Splitter

	// MinLength is the minimum trimmed chunk length kept by FilterChunks.
	// DefaultMinChunkLength when zero.
	MinLength int
}

// ChunkPage splits one page's content into chunks. Pages with no content
// or a recorded fetch error contribute zero chunks.
func (c *Chunker) ChunkPage(page *Page) ([]*Chunk, error) {
	if page == nil || !page.HasContent() {
		return nil, nil
	}

	cleaned := CleanText(page.Content)
	if cleaned == "" {
		return nil, nil
	}

	parts, err := c.Splitter.Split(cleaned)
	if err != nil {
		return nil, err
	}

	chunks := make([]*Chunk, 0, len(parts))
	for i, part := range parts {
		chunks = append(chunks, &Chunk{
			Text: part,
			Metadata: ChunkMetadata{
				URL:           page.URL,
				Title:         page.Title,
				SourceTag:     page.SourceTag,
				ContentLength: len(page.Content),
				ChunkID:       i,
				ChunkSize:     len(part),
				TotalChunks:   len(parts),
			},
		})
	}
	return chunks, nil
}

// ChunkPages processes all pages in order into a single chunk collection.
func (c *Chunker) ChunkPages(pages []*Page) ([]*Chunk, error) {
	var all []*Chunk
	for _, page := range pages {
		chunks, err := c.ChunkPage(page)
		if err != nil {
			return nil, err
		}
		all = append(all, chunks...)
	}
	return all, nil
}

// FilterChunks drops chunks whose trimmed text is shorter than the
// configured minimum, preserving the order of the remainder. It runs as a
// separate pass over the full collection, after all pages have been
// chunked.
func (c *Chunker) FilterChunks(chunks []*Chunk) []*Chunk {
	minLength := c.MinLength
	if minLength <= 0 {
		minLength = DefaultMinChunkLength
	}

	filtered := make([]*Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		if len(strings.TrimSpace(chunk.Text)) >= minLength {
			filtered = append(filtered, chunk)
		}
	}
	return filtered
}
