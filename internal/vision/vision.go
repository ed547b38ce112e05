// Package vision wraps the external vision-capable model used to grade
// waveform drawings. The service is an opaque collaborator: we send images
// plus a grading prompt and get back text expected to contain one JSON
// feedback object.
package vision

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pitchlab/wavemark/internal/grading"
	"github.com/pitchlab/wavemark/internal/model"
)

// Client wraps an OpenAI-compatible vision API client.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a vision client. A missing API key is a configuration error:
// it is reported before any grading work begins.
func New(baseURL, apiKey, modelName string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: vision API key is not set", grading.ErrConfiguration)
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}, nil
}

// Grade sends the prompt and images to the vision model and parses the
// feedback object out of its reply. The first image is the student's
// drawing; an optional second image is the correct-answer reference.
func (c *Client) Grade(ctx context.Context, prompt string, images ...Image) (*model.FeedbackObject, error) {
	parts := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: prompt},
	}
	for _, img := range images {
		parts = append(parts, openai.ChatMessagePart{
			Type:     openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{URL: img.DataURI()},
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", grading.ErrExternalService, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: vision model returned no choices", grading.ErrExternalService)
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("vision response", "raw", raw)

	return ParseFeedback(raw)
}
