// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package completion

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// =============================================================================
// OLLAMA CONFIGURATION
// =============================================================================

// OllamaConfig holds settings for a native Ollama endpoint.
type OllamaConfig struct {
	// BaseURL is the Ollama API base URL (default: http://127.0.0.1:11434)
	BaseURL     string
	Model       string
	Temperature float32

	// HTTPClient overrides the client used for requests. Streaming requests
	// rely on the context for deadlines, so the default has no timeout.
	HTTPClient *http.Client
}

const (
	// Explicit IPv4 address avoids IPv6 resolution issues with localhost.
	DefaultOllamaURL   = "http://127.0.0.1:11434"
	DefaultOllamaModel = "llama3.2"
)

// =============================================================================
// OLLAMA STREAMER
// =============================================================================

// Ollama streams chat replies from the Ollama /api/chat endpoint.
type Ollama struct {
	baseURL    string
	model      string
	temp       float32
	httpClient *http.Client
}

// NewOllama creates an Ollama streamer.
func NewOllama(cfg OllamaConfig) *Ollama {
	o := &Ollama{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		temp:       cfg.Temperature,
		httpClient: cfg.HTTPClient,
	}
	if o.baseURL == "" {
		o.baseURL = DefaultOllamaURL
	}
	if o.model == "" {
		o.model = DefaultOllamaModel
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{}
	}
	return o
}

// Model returns the model name sent with each request.
func (o *Ollama) Model() string {
	return o.model
}

type ollamaRequest struct {
	Model    string         `json:"model"`
	Messages []Message      `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  *ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float32 `json:"temperature"`
}

// ollamaChunk is a single NDJSON line of a streamed reply.
type ollamaChunk struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done  bool   `json:"done"`
	Error string `json:"error,omitempty"`
}

// Stream implements Streamer.
func (o *Ollama) Stream(ctx context.Context, messages []Message, onFragment FragmentFunc) error {
	reqBody := ollamaRequest{
		Model:    o.model,
		Messages: messages,
		Stream:   true,
	}
	if o.temp > 0 {
		reqBody.Options = &ollamaOptions{Temperature: o.temp}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("completion stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ollamaStatusError(resp)
	}

	return readOllamaStream(ctx, resp.Body, onFragment)
}

// ollamaStatusError converts a non-200 reply. Ollama reports errors as
// {"error":"..."}; the message is lifted into the normalised shape.
func ollamaStatusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		return newPayloadError(resp.StatusCode, body.Error, "", "")
	}
	return &PayloadError{StatusCode: resp.StatusCode, Payload: raw}
}

// readOllamaStream parses the NDJSON body line by line and delivers each
// content fragment. Malformed lines are skipped.
func readOllamaStream(ctx context.Context, r io.Reader, onFragment FragmentFunc) error {
	reader := bufio.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, readErr := reader.ReadBytes('\n')
		line = bytes.TrimSpace(line)

		if len(line) > 0 {
			var chunk ollamaChunk
			if err := json.Unmarshal(line, &chunk); err == nil {
				if chunk.Error != "" {
					return newPayloadError(http.StatusOK, chunk.Error, "", "")
				}
				if chunk.Message.Content != "" {
					onFragment(chunk.Message.Content)
				}
				if chunk.Done {
					return nil
				}
			}
		}

		if readErr != nil {
			if readErr == io.EOF {
				return nil
			}
			return fmt.Errorf("completion stream: %w", readErr)
		}
	}
}
