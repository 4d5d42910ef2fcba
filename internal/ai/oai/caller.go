// Package oai implements the model caller on OpenAI-compatible endpoints.
package oai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/talentsift/talentsift/internal/ai"
)

// Caller sends scoring requests to an OpenAI-compatible chat endpoint.
// These endpoints take no inline document bytes, so the résumé travels as
// extracted plain text.
type Caller struct {
	client *openai.Client
}

// New creates a Caller. BaseURL may point at any OpenAI-compatible server;
// empty keeps the default endpoint.
func New(apiKey, baseURL string) (*Caller, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai api key is required")
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &Caller{client: openai.NewClientWithConfig(config)}, nil
}

// Generate implements ai.ModelCaller.
func (c *Caller) Generate(ctx context.Context, model string, req ai.Request) (string, error) {
	if req.Document == nil || strings.TrimSpace(req.Document.Text) == "" {
		return "", errors.New("openai provider needs extracted résumé text")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.Prompt},
			{Role: openai.ChatMessageRoleUser, Content: "Currículo:\n\n" + req.Document.Text},
		},
		Temperature: req.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		if isRateLimited(err) {
			return "", fmt.Errorf("%w: %v", ai.ErrRateLimited, err)
		}
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}

func isRateLimited(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return strings.Contains(err.Error(), "429")
}
