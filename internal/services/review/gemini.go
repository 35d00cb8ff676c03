package review

import (
	"context"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when GEMINI_MODEL is unset.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiReviewer asks a Gemini model for feedback.
type GeminiReviewer struct {
	client *genai.Client // nil when no API key is configured
	model  string
}

// NewGemini creates a Gemini reviewer. An empty API key yields a reviewer
// whose Review returns ErrNotConfigured, so the server can still start.
func NewGemini(ctx context.Context, apiKey, model string) (*GeminiReviewer, error) {
	return newGemini(ctx, apiKey, model, genai.HTTPOptions{})
}

func newGemini(ctx context.Context, apiKey, model string, httpOpts genai.HTTPOptions) (*GeminiReviewer, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	g := &GeminiReviewer{model: model}
	if apiKey == "" {
		return g, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: httpOpts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	g.client = client
	return g, nil
}

// Review sends the resume to Gemini.
func (g *GeminiReviewer) Review(ctx context.Context, resumeText string) (*Feedback, error) {
	if g.client == nil {
		return nil, fmt.Errorf("%w: set GEMINI_API_KEY", ErrNotConfigured)
	}
	prompt, err := BuildPrompt(resumeText)
	if err != nil {
		return nil, err
	}

	log.Printf("🤖 Requesting resume review from %s", g.model)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("Gemini request failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, fmt.Errorf("no response from model %s", g.model)
	}
	return &Feedback{Text: text, Model: g.model}, nil
}
