// Copyright 2026 Gold.Arch Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package anthropic implements ai.Provider for Anthropic chat models via the
// langchaingo client.
//
// Anthropic offers no embedding endpoint, so Embedder returns nil; pair this
// provider with an embedder from ai/openai or ai/googleai.
package anthropic

import (
	"context"
	"errors"
	"log/slog"

	"github.com/goldarch/ragkit/ai"
	"github.com/goldarch/ragkit/ai/internal/llmx"
	"github.com/goldarch/ragkit/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
)

var errNoChoices = errors.New("model returned no choices")

// ChatModel implements ai.ChatModel using the Anthropic messages API.
type ChatModel struct {
	client llms.Model
	cfg    *ai.Config
	logger *slog.Logger
}

// newChatModel is the internal constructor returning the concrete type.
func newChatModel(cfg *ai.Config) (*ChatModel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []anthropic.Option{
		anthropic.WithToken(cfg.APIKey),
		anthropic.WithModel(cfg.ChatModel),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}

	client, err := anthropic.New(opts...)
	if err != nil {
		return nil, core.NewProviderError("anthropic", "init", err)
	}

	return &ChatModel{
		client: client,
		cfg:    cfg,
		logger: slog.Default().With("component", "anthropic-chat"),
	}, nil
}

// NewChatModel creates a chat model from the configuration.
//
// Returns the ai.ChatModel interface to enforce abstraction.
func NewChatModel(cfg *ai.Config) (ai.ChatModel, error) {
	return newChatModel(cfg)
}

// Generate produces a completion for the request.
func (m *ChatModel) Generate(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResult, error) {
	m.logger.Debug("generating completion", "model", m.cfg.ChatModel, "promptLength", len(req.Prompt))

	response, err := m.client.GenerateContent(ctx, llmx.BuildMessages(req), llmx.CallOptions(m.cfg, req)...)
	if err != nil {
		m.logger.Error("failed to generate completion", "err", err)
		return nil, core.NewProviderError("anthropic", "generate", err)
	}
	if len(response.Choices) == 0 {
		return nil, core.NewProviderError("anthropic", "generate", errNoChoices)
	}

	choice := response.Choices[0]
	tokens := llmx.IntFromInfo(choice.GenerationInfo, "InputTokens") +
		llmx.IntFromInfo(choice.GenerationInfo, "OutputTokens")

	return &ai.GenerateResult{
		Text:       choice.Content,
		Model:      m.cfg.ChatModel,
		TokensUsed: tokens,
	}, nil
}

// Provider implements ai.Provider for Anthropic.
type Provider struct {
	chat   *ChatModel
	logger *slog.Logger
}

// NewProvider creates an Anthropic provider. The config is validated before
// use; EmbeddingModel is not required.
//
// Returns the ai.Provider interface to prevent coupling to Anthropic-specific
// implementation details.
func NewProvider(cfg *ai.Config) (ai.Provider, error) {
	chat, err := newChatModel(cfg)
	if err != nil {
		return nil, err
	}
	return &Provider{
		chat:   chat,
		logger: slog.Default().With("component", "anthropic-provider"),
	}, nil
}

// Embedder returns nil: Anthropic offers no embedding endpoint.
func (p *Provider) Embedder() ai.Embedder {
	return nil
}

// ChatModel returns the text generation service.
func (p *Provider) ChatModel() ai.ChatModel {
	return p.chat
}

// Close releases resources held by the provider.
func (p *Provider) Close() error {
	p.logger.Debug("closing anthropic provider")
	return nil
}
