// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package completion

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = openai.GPT3Dot5Turbo

// OpenAIConfig holds settings for an OpenAI-compatible endpoint.
type OpenAIConfig struct {
	// BaseURL of the API, including the version prefix (e.g. https://api.openai.com/v1).
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
}

// OpenAI streams chat completions from an OpenAI-compatible endpoint.
type OpenAI struct {
	client *openai.Client
	model  string
	temp   float32
}

// NewOpenAI creates an OpenAI streamer.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		temp:   cfg.Temperature,
	}
}

// Model returns the model name sent with each request.
func (o *OpenAI) Model() string {
	return o.model
}

// Stream implements Streamer.
func (o *OpenAI) Stream(ctx context.Context, messages []Message, onFragment FragmentFunc) error {
	history := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		history = append(history, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: o.temp,
		Messages:    history,
		Stream:      true,
	}

	stream, err := o.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return translateOpenAIError(err)
	}
	defer stream.Close()

	for {
		response, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return translateOpenAIError(err)
		}
		if len(response.Choices) == 0 {
			continue
		}
		if content := response.Choices[0].Delta.Content; content != "" {
			onFragment(content)
		}
	}
}

// translateOpenAIError maps client errors onto PayloadError so the caller
// sees the same error body shape for every endpoint.
func translateOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code := ""
		if apiErr.Code != nil {
			code = fmt.Sprint(apiErr.Code)
		}
		return newPayloadError(apiErr.HTTPStatusCode, apiErr.Message, apiErr.Type, code)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &PayloadError{StatusCode: reqErr.HTTPStatusCode}
	}

	return fmt.Errorf("completion stream: %w", err)
}
