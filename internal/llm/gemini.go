package llm

import (
	"context"
	"errors"
	"fmt"

	genai "google.golang.org/genai"

	"eduflow/internal/prompt"
)

// GeminiBackend is a thin wrapper around the official genai client.
type GeminiBackend struct {
	cli   *genai.Client
	model string
}

// NewGeminiBackend builds a backend against the Gemini API.
func NewGeminiBackend(ctx context.Context, apiKey, model string) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiBackend{cli: cli, model: model}, nil
}

func (b *GeminiBackend) Name() string { return "gemini:" + b.model }

// Generate concatenates instruction and user content into a single prompt
// string (Gemini takes one combined text part) and returns the first
// candidate's text untouched.
func (b *GeminiBackend) Generate(ctx context.Context, p prompt.Payload) (string, error) {
	if b == nil || b.cli == nil {
		return "", &BackendError{Provider: "gemini", Err: errors.New("nil gemini client")}
	}
	reqCtx, cancel := context.WithTimeout(ctx, defaultChatTimeout)
	defer cancel()

	full := p.System + "\n\n" + p.User
	resp, err := b.cli.Models.GenerateContent(reqCtx, b.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: full}}}},
		nil,
	)
	if err != nil {
		return "", &BackendError{Provider: "gemini", Err: err}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &BackendError{Provider: "gemini", Err: errors.New("no candidates returned")}
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
