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


// Package googleai implements ai.Provider for Google Gemini chat and
// embedding models via the langchaingo client.
package googleai

import (
	"context"
	"errors"
	"log/slog"

	"github.com/goldarch/ragkit/ai"
	"github.com/goldarch/ragkit/ai/internal/llmx"
	"github.com/goldarch/ragkit/core"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/googleai"
)

var errNoChoices = errors.New("model returned no choices")

// Embedder implements ai.Embedder using Gemini embedding models.
type Embedder struct {
	embedder embeddings.Embedder
	model    string
	logger   *slog.Logger
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		e.logger.Warn("embedder returned empty result")
		return []float32{}, nil
	}
	return vectors[0], nil
}

// EmbedTexts generates embeddings for multiple texts in one upstream call.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings", "count", len(texts), "model", e.model)

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, core.NewProviderError("googleai", "embed", err)
	}
	return vectors, nil
}

// ChatModel implements ai.ChatModel using Gemini chat models.
type ChatModel struct {
	client *googleai.GoogleAI
	cfg    *ai.Config
	logger *slog.Logger
}

// Generate produces a completion for the request.
func (m *ChatModel) Generate(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResult, error) {
	m.logger.Debug("generating completion", "model", m.cfg.ChatModel, "promptLength", len(req.Prompt))

	response, err := m.client.GenerateContent(ctx, llmx.BuildMessages(req), llmx.CallOptions(m.cfg, req)...)
	if err != nil {
		m.logger.Error("failed to generate completion", "err", err)
		return nil, core.NewProviderError("googleai", "generate", err)
	}
	if len(response.Choices) == 0 {
		return nil, core.NewProviderError("googleai", "generate", errNoChoices)
	}

	choice := response.Choices[0]
	return &ai.GenerateResult{
		Text:       choice.Content,
		Model:      m.cfg.ChatModel,
		TokensUsed: llmx.IntFromInfo(choice.GenerationInfo, "total_tokens"),
	}, nil
}

// Provider implements ai.Provider for Google Gemini.
type Provider struct {
	embedder *Embedder
	chat     *ChatModel
	logger   *slog.Logger
}

// NewProvider creates a Gemini provider. A single client backs both the
// embedder and the chat model.
//
// Returns the ai.Provider interface to prevent coupling to Gemini-specific
// implementation details.
func NewProvider(ctx context.Context, cfg *ai.Config) (ai.Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(cfg.ChatModel),
		googleai.WithDefaultEmbeddingModel(cfg.EmbeddingModel),
	)
	if err != nil {
		return nil, core.NewProviderError("googleai", "init", err)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, core.NewProviderError("googleai", "init", err)
	}

	return &Provider{
		embedder: &Embedder{
			embedder: embedder,
			model:    cfg.EmbeddingModel,
			logger:   slog.Default().With("component", "googleai-embedder"),
		},
		chat: &ChatModel{
			client: client,
			cfg:    cfg,
			logger: slog.Default().With("component", "googleai-chat"),
		},
		logger: slog.Default().With("component", "googleai-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// ChatModel returns the text generation service.
func (p *Provider) ChatModel() ai.ChatModel {
	return p.chat
}

// Close releases resources held by the provider.
func (p *Provider) Close() error {
	p.logger.Debug("closing googleai provider")
	return nil
}
