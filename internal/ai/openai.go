// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
	"github.com/rotisserie/eris"
)

const (
	defaultModel       = "gpt-4o-mini"
	defaultTemperature = 0.7
	defaultTimeout     = 60 * time.Second
)

// ClientOptions configures the OpenAI-compatible provider.
type ClientOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type chatCompletionClient interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAIProvider talks to the chat completions endpoint through the
// official SDK. SDK-level retries are disabled; the Drafter owns retry.
type OpenAIProvider struct {
	chat  chatCompletionClient
	model string
}

// NewOpenAI builds a provider. An empty BaseURL keeps the SDK default.
func NewOpenAI(opts ClientOptions) (*OpenAIProvider, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, eris.New("openai api key is required")
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	requestOptions := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		requestOptions = append(requestOptions, option.WithBaseURL(base))
	}

	apiClient := openai.NewClient(requestOptions...)

	return &OpenAIProvider{chat: &apiClient.Chat.Completions, model: model}, nil
}

// Model returns the configured model name.
func (p *OpenAIProvider) Model() string { return p.model }

// Complete sends the prompts and returns the first choice's content.
// Failures come back as *UpstreamError.
func (p *OpenAIProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(defaultTemperature),
	}

	completion, err := p.chat.New(ctx, params)
	if err != nil {
		return "", upstreamError(err)
	}
	if len(completion.Choices) == 0 {
		return "", nil
	}
	return completion.Choices[0].Message.Content, nil
}

func upstreamError(err error) *UpstreamError {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		body := apiErr.Message
		if body == "" {
			body = apiErr.RawJSON()
		}
		if body == "" {
			body = http.StatusText(apiErr.StatusCode)
		}
		return &UpstreamError{Status: apiErr.StatusCode, Body: body, Err: err}
	}
	return &UpstreamError{Body: err.Error(), Err: err}
}
