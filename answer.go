package sitesage

import "context"

// PreviewLength is the maximum length of a source content preview, in
// characters. Part of the response contract; changing it breaks callers.
const PreviewLength = 200

// Source identifies one retrieved chunk cited by an answer.
type Source struct {
	URL            string `json:"url"`
	Title          string `json:"title"`
	SourceTag      string `json:"source_tag"`
	ContentPreview string `json:"content_preview"`
}

// Answer is the response to one question, constructed fresh per query and
// never persisted. Err carries diagnostic detail when answering degraded
// (missing index, generation failure); the Answer text itself never
// contains raw internal errors.
type Answer struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
	Query   string   `json:"query"`
	Err     string   `json:"error,omitempty"`
}

// Preview truncates content to PreviewLength characters, appending an
// ellipsis marker when truncated.
func Preview(content string) string {
	runes := []rune(content)
	if len(runes) > PreviewLength {
		return string(runes[:PreviewLength]) + "..."
	}
	return content
}

// Answerer answers natural language questions grounded in indexed chunks.
type Answerer interface {
	Answer(ctx context.Context, query string, k int) (*Answer, error)
}

// Generator produces text from a one-shot prompt with no conversation
// state.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
