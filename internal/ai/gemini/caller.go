// Package gemini implements the model caller on the Google GenAI API.
package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/talentsift/talentsift/internal/ai"
)

// Caller sends scoring requests to the Gemini API. Résumés travel inline as
// base64 document parts.
type Caller struct {
	client *genai.Client
}

// New creates a Caller. The key is validated here so a missing credential
// fails at startup instead of on the first scored candidate.
func New(ctx context.Context, apiKey string) (*Caller, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Caller{client: client}, nil
}

// Generate implements ai.ModelCaller.
func (c *Caller) Generate(ctx context.Context, model string, req ai.Request) (string, error) {
	parts := []*genai.Part{{Text: req.Prompt}}

	if req.Document != nil && req.Document.Base64 != "" {
		data, err := base64.StdEncoding.DecodeString(req.Document.Base64)
		if err != nil {
			return "", fmt.Errorf("decode document payload: %w", err)
		}
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: req.Document.MIMEType,
				Data:     data,
			},
		})
	}

	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}

	cfg := &genai.GenerateContentConfig{
		Temperature:      ptr(req.Temperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   resultSchema,
	}
	if req.TopK > 0 {
		cfg.TopK = ptr(float32(req.TopK))
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		if isRateLimited(err) {
			return "", fmt.Errorf("%w: %v", ai.ErrRateLimited, err)
		}
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := collectText(resp)
	if text == "" {
		return "", errors.New("gemini api returned empty response")
	}
	return text, nil
}

// collectText concatenates the textual parts of every candidate.
func collectText(resp *genai.GenerateContentResponse) string {
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}
	return strings.TrimSpace(builder.String())
}

func isRateLimited(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func ptr[T any](v T) *T { return &v }
