// Package langchain provides text splitting built on langchaingo's
// recursive character splitter.
package langchain

import (
	"strings"

	"github.com/quietriver/sitesage"
	"github.com/tmc/langchaingo/textsplitter"
)

// Default splitting configuration, in characters.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// separators are tried largest-boundary first: paragraph break, line
// break, single space, then arbitrary character position.
var separators = []string{"\n\n", "\n", " ", ""}

// Ensure Splitter implements sitesage.Splitter at compile time.
var _ sitesage.Splitter = (*Splitter)(nil)

// Splitter splits text recursively at the largest available natural
// boundary such that no produced segment exceeds the chunk size, with
// consecutive segments overlapping by up to the configured amount.
type Splitter struct {
	splitter textsplitter.RecursiveCharacter
}

// NewSplitter creates a Splitter. chunkSize and chunkOverlap fall back to
// the defaults when non-positive; the overlap must be smaller than the
// chunk size.
func NewSplitter(chunkSize, chunkOverlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap <= 0 {
		chunkOverlap = DefaultChunkOverlap
	}
	if chunkOverlap >= chunkSize {
		return nil, sitesage.Errorf(sitesage.EINVALID, "chunk overlap %d must be smaller than chunk size %d", chunkOverlap, chunkSize)
	}

	return &Splitter{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators(separators),
		),
	}, nil
}

// Split splits text into bounded, overlapping segments. Blank input
// yields an empty result, not an error.
func (s *Splitter) Split(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return s.splitter.SplitText(text)
}
