package gemini

import (
	"context"
	"fmt"

	"github.com/quietriver/sitesage"
	"google.golang.org/genai"
)

// generationModel answers questions. It is deliberately separate from the
// embedding model, which must stay stable across build and query paths.
const generationModel = "gemini-2.5-flash"

// Ensure Generator implements sitesage.Generator at compile time.
var _ sitesage.Generator = (*Generator)(nil)

// Generator produces grounded answers using Gemini. The domain names the
// sites the assistant answers for in its system instruction.
type Generator struct {
	client *genai.Client
	domain string
}

// NewGenerator creates a new Generator answering for domain.
func NewGenerator(client *genai.Client, domain string) *Generator {
	return &Generator{client: client, domain: domain}
}

// Generate issues a single one-shot generation call for the prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", sitesage.Errorf(sitesage.EINVALID, "prompt required")
	}

	result, err := g.client.Models.GenerateContent(ctx, generationModel,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(g.domain),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", sitesage.Errorf(sitesage.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for answer generation,
// telling the model its role and the domain it answers for.
func BuildConfig(domain string) *genai.GenerateContentConfig {
	if domain == "" {
		domain = "the configured websites"
	}
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: fmt.Sprintf("You are a helpful assistant for %s. Answer the user's question based on the provided context. If the context does not contain enough information to answer the question, say so.", domain),
			}},
		},
		Temperature: &temp,
	}
}
