package review

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const openRouterURL = "https://openrouter.ai/api/v1/chat/completions"

// OpenRouterReviewer asks any OpenRouter-hosted model for feedback.
//
// OpenRouter provides a unified API for multiple LLM providers using a
// single API key. The request format follows the OpenAI chat completions
// standard.
type OpenRouterReviewer struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewOpenRouter creates an OpenRouter reviewer.
func NewOpenRouter(apiKey, model string) *OpenRouterReviewer {
	return &OpenRouterReviewer{
		apiKey:   apiKey,
		model:    model,
		endpoint: openRouterURL,
		// Go Pattern: Always configure timeouts on HTTP clients.
		// The default http.Client has NO timeout; requests can hang forever!
		httpClient: &http.Client{
			Timeout: 120 * time.Second, // LLMs can be slow
		},
	}
}

// --- OpenRouter API types ---

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Model string `json:"model"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Review sends the resume to OpenRouter.
func (o *OpenRouterReviewer) Review(ctx context.Context, resumeText string) (*Feedback, error) {
	if o.apiKey == "" {
		return nil, fmt.Errorf("%w: set OPENROUTER_API_KEY", ErrNotConfigured)
	}
	prompt, err := BuildPrompt(resumeText)
	if err != nil {
		return nil, err
	}

	log.Printf("🤖 Requesting resume review from %s via OpenRouter", o.model)

	jsonBody, err := json.Marshal(chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{
				Role:    "system",
				Content: "You are an experienced tech recruiter who reviews resumes of coding bootcamp graduates, many of them career shifters.",
			},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", "https://github.com/Shimizu-Technology/resume-review-api")
	req.Header.Set("X-Title", "Resume Review API")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OpenRouter request failed: %w", err)
	}
	defer resp.Body.Close() // Go Pattern: ALWAYS close response bodies!

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenRouter returned %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if chatResp.Error != nil {
		return nil, fmt.Errorf("OpenRouter error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("no response from model")
	}

	model := o.model
	if chatResp.Model != "" {
		model = chatResp.Model
	}
	return &Feedback{
		Text:  strings.TrimSpace(chatResp.Choices[0].Message.Content),
		Model: model,
	}, nil
}
